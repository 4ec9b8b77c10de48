package progrock

import (
	"sync"

	"github.com/vito/progrock"
)

// VertexStatus is the last known status of a recorded vertex.
type VertexStatus string

const (
	// StatusRunning indicates the vertex has not completed yet.
	StatusRunning VertexStatus = "running"
	// StatusCompleted indicates the vertex completed without error.
	StatusCompleted VertexStatus = "completed"
	// StatusCached indicates the vertex was served from a cache.
	StatusCached VertexStatus = "cached"
	// StatusFailed indicates the vertex completed with an error.
	StatusFailed VertexStatus = "failed"
)

// VertexState is the state of one vertex.
type VertexState struct {
	ID     string
	Name   string
	Status VertexStatus
	Error  string
}

// Activity is a progrock.Writer that keeps the latest state of every vertex
// in the order the vertices first appeared.
type Activity struct {
	mu       sync.Mutex
	vertices []VertexState
	index    map[string]int
}

// NewActivity creates an empty Activity.
func NewActivity() *Activity {
	return &Activity{index: make(map[string]int)}
}

// WriteStatus implements progrock.Writer.
func (a *Activity) WriteStatus(update *progrock.StatusUpdate) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, v := range update.Vertexes {
		i, ok := a.index[v.Id]
		if !ok {
			i = len(a.vertices)
			a.index[v.Id] = i
			a.vertices = append(a.vertices, VertexState{ID: v.Id, Name: v.Name, Status: StatusRunning})
		}
		a.vertices[i] = updateState(a.vertices[i], v)
	}
	return nil
}

func updateState(s VertexState, v *progrock.Vertex) VertexState {
	switch {
	case v.Error != nil:
		s.Status = StatusFailed
		s.Error = *v.Error
	case v.Cached:
		s.Status = StatusCached
	case v.Completed != nil:
		s.Status = StatusCompleted
	}
	return s
}

// Close implements progrock.Writer.
func (a *Activity) Close() error {
	return nil
}

// Vertices returns the state of every vertex seen so far.
func (a *Activity) Vertices() []VertexState {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]VertexState, len(a.vertices))
	copy(out, a.vertices)
	return out
}
