package ports

import "context"

// Overlay is the transition widget shown while a switch is in progress.
//
// Show and Hide return a channel that is closed once the transition finished.
// A nil channel means the transition completed immediately.
//
//go:generate go run go.uber.org/mock/mockgen -source=overlay.go -destination=mocks/mock_overlay.go -package=mocks
type Overlay interface {
	Show(ctx context.Context) (<-chan struct{}, error)
	Hide(ctx context.Context) (<-chan struct{}, error)
}
