package lifecycle

import "go.trai.ch/stagehand/internal/core/ports"

type overlayMode int

const (
	overlayDefault overlayMode = iota
	overlayNone
	overlayCustom
)

type switchOptions struct {
	useCache bool
	mode     overlayMode
	overlay  ports.Overlay
}

// SwitchOption configures a single Switch call.
type SwitchOption func(*switchOptions)

// WithoutCache disposes the outgoing instance instead of caching it and
// never reuses a cached instance for the incoming key.
func WithoutCache() SwitchOption {
	return func(o *switchOptions) {
		o.useCache = false
	}
}

// WithOverlay shows o instead of the default overlay. A nil o selects the
// default overlay.
func WithOverlay(o ports.Overlay) SwitchOption {
	return func(opts *switchOptions) {
		if o == nil {
			opts.mode = overlayDefault
			opts.overlay = nil
			return
		}
		opts.mode = overlayCustom
		opts.overlay = o
	}
}

// WithoutOverlay switches without any overlay.
func WithoutOverlay() SwitchOption {
	return func(o *switchOptions) {
		o.mode = overlayNone
		o.overlay = nil
	}
}

func newSwitchOptions(opts []SwitchOption) switchOptions {
	o := switchOptions{useCache: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
