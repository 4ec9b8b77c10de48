// Package output renders lifecycle events and cache snapshots for the terminal.
package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	tele "go.trai.ch/stagehand/internal/adapters/telemetry/progrock"
	"go.trai.ch/stagehand/internal/core/domain"
)

const labelWidth = 12

// Renderer writes styled lines to an output stream. Colors are only emitted
// when the stream is a terminal.
type Renderer struct {
	mu sync.Mutex
	w  io.Writer
	s  styles
}

// New creates a Renderer writing to w.
func New(w io.Writer) *Renderer {
	return &Renderer{
		w: w,
		s: newStyles(lipgloss.NewRenderer(w)),
	}
}

func (r *Renderer) println(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintln(r.w, line)
}

// Event renders one lifecycle notification.
func (r *Renderer) Event(ev domain.Event) {
	var b strings.Builder
	b.WriteString(r.eventStyle(ev.Kind).Render(fmt.Sprintf("%-18s", ev.Kind)))
	if !ev.Key.IsZero() {
		b.WriteString(" ")
		b.WriteString(r.s.key.Render(ev.Key.String()))
	}
	if ev.Kind == domain.EventSwitchStarted && !ev.From.IsZero() {
		b.WriteString(r.s.muted.Render(" from " + ev.From.String()))
	}
	if ev.Err != nil {
		b.WriteString(r.s.failed.Render(fmt.Sprintf(" [%s] %v", ev.ErrorKind(), ev.Err)))
	}
	r.println(b.String())
}

func (r *Renderer) eventStyle(kind domain.EventKind) lipgloss.Style {
	switch kind {
	case domain.EventSwitchFailed, domain.EventPreloadFailed:
		return r.s.failed
	case domain.EventSwitchCompleted, domain.EventPreloadCompleted:
		return r.s.ok
	case domain.EventInstanceCached, domain.EventInstanceEvicted:
		return r.s.cached
	case domain.EventOverlayShown, domain.EventOverlayHidden:
		return r.s.muted
	default:
		return r.s.started
	}
}

// Snapshot renders the state of both caches.
func (r *Renderer) Snapshot(snap domain.CacheSnapshot) {
	lines := []string{
		r.s.title.Render("stagehand"),
		r.row("current", keyOrNone(snap.CurrentKey)),
		r.row("previous", keyOrNone(snap.PreviousKey)),
		r.row("loading", fmt.Sprintf("%s (%s)", keyOrNone(snap.LoadingKey), snap.LoadState)),
		r.row("mode", loadMode(snap.UseAsyncLoading)),
		r.row("instances", fmt.Sprintf("%d/%d", snap.InstanceCacheSize, snap.InstanceCapacity)),
	}
	for _, inst := range snap.Instances {
		lines = append(lines, r.row("", fmt.Sprintf("%s %s",
			r.s.key.Render(inst.Key.String()),
			r.s.muted.Render("uses="+strconv.Itoa(inst.AccessCount)))))
	}
	lines = append(lines, r.row("descriptors",
		fmt.Sprintf("%d/%d", snap.DescriptorCacheSize, snap.DescriptorCapacity)))
	for _, key := range snap.DescriptorKeys {
		lines = append(lines, r.row("", r.s.key.Render(key.String())))
	}
	r.println(strings.Join(lines, "\n"))
}

// Activity renders the recorded switch and preload operations.
func (r *Renderer) Activity(vertices []tele.VertexState) {
	if len(vertices) == 0 {
		return
	}
	lines := make([]string, 0, len(vertices))
	for _, v := range vertices {
		line := r.vertexStyle(v.Status).Render(fmt.Sprintf("%-9s", v.Status)) + " " + v.Name
		if v.Error != "" {
			line += r.s.failed.Render(": " + v.Error)
		}
		lines = append(lines, line)
	}
	r.println(strings.Join(lines, "\n"))
}

func (r *Renderer) vertexStyle(status tele.VertexStatus) lipgloss.Style {
	switch status {
	case tele.StatusCompleted:
		return r.s.ok
	case tele.StatusCached:
		return r.s.cached
	case tele.StatusFailed:
		return r.s.failed
	default:
		return r.s.started
	}
}

func (r *Renderer) row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, r.s.label.Render(label), value)
}

func keyOrNone(key domain.ResourceKey) string {
	if key.IsZero() {
		return "-"
	}
	return key.String()
}

func loadMode(async bool) string {
	if async {
		return domain.ModeAsync.String()
	}
	return domain.ModeSync.String()
}
