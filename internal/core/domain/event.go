package domain

// EventKind names a lifecycle notification.
type EventKind string

const (
	// EventPreloadStarted fires when a preload begins a load operation.
	EventPreloadStarted EventKind = "preload_started"
	// EventPreloadCompleted fires when a preloaded descriptor entered the cache.
	EventPreloadCompleted EventKind = "preload_completed"
	// EventPreloadFailed fires when a preload aborted.
	EventPreloadFailed EventKind = "preload_failed"
	// EventSwitchStarted fires when a switch to a different key begins.
	EventSwitchStarted EventKind = "switch_started"
	// EventSwitchCompleted fires when the requested key is active.
	EventSwitchCompleted EventKind = "switch_completed"
	// EventSwitchFailed fires when a switch aborted without changing the active graph.
	EventSwitchFailed EventKind = "switch_failed"
	// EventInstanceCached fires when an outgoing instance entered the instance cache.
	EventInstanceCached EventKind = "instance_cached"
	// EventInstanceEvicted fires when an instance left the cache and was disposed.
	EventInstanceEvicted EventKind = "instance_evicted"
	// EventOverlayShown fires once the overlay acknowledged it is visible.
	EventOverlayShown EventKind = "overlay_shown"
	// EventOverlayHidden fires once the overlay acknowledged it is hidden.
	EventOverlayHidden EventKind = "overlay_hidden"
)

// Event is a lifecycle notification.
type Event struct {
	Kind EventKind
	// Key is the subject of the event. Empty for overlay events.
	Key ResourceKey
	// From is the outgoing key of a switch-started event.
	From ResourceKey
	// Err is set on *_failed events.
	Err error
}

// ErrorKind returns the failure kind carried by the event.
func (e Event) ErrorKind() ErrorKind {
	return KindOf(e.Err)
}
