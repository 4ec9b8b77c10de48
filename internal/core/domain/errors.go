package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

var (
	// ErrKeyNotFound is returned when a resource key does not resolve via the load backend.
	ErrKeyNotFound = zerr.New("resource not found")

	// ErrLoadFailed is returned when the backend load or threaded status reports failure.
	ErrLoadFailed = zerr.New("resource load failed")

	// ErrInstantiationFailed is returned when a descriptor could not be instantiated.
	ErrInstantiationFailed = zerr.New("instantiation failed")

	// ErrInvalidCapacity is returned when a cache capacity below 1 is requested.
	ErrInvalidCapacity = zerr.New("cache capacity must be greater than 0")

	// ErrBusy is returned when a switch is requested while another switch is suspended.
	ErrBusy = zerr.New("a switch is already in progress")

	// ErrLoadAbandoned is returned to the waiter of a load operation whose slot
	// was taken over by another key or reset by a cache clear.
	ErrLoadAbandoned = zerr.New("load operation abandoned")

	// ErrAlreadyDisposed is returned when an instance is disposed twice.
	ErrAlreadyDisposed = zerr.New("instance already disposed")

	// ErrNotAttached is returned when detaching an instance that is not attached.
	ErrNotAttached = zerr.New("instance not attached")

	// ErrAlreadyAttached is returned when attaching an instance that already has a parent.
	ErrAlreadyAttached = zerr.New("instance already attached")

	// ErrUnknownCache is returned for a cache kind other than instances or descriptors.
	ErrUnknownCache = zerr.New("unknown cache kind")

	// ErrInvalidSlotPolicy is returned when loadSlots is neither single nor multi.
	ErrInvalidSlotPolicy = zerr.New("invalid load slot policy, expected 'single' or 'multi'")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidStep is returned when a CLI step cannot be parsed.
	ErrInvalidStep = zerr.New("invalid step")

	// ErrStoreReadFailed is returned when the snapshot store cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read snapshot store")

	// ErrStoreWriteFailed is returned when the snapshot store cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write snapshot store")
)

// ErrorKind classifies lifecycle failures.
type ErrorKind string

const (
	// KindNone means no error.
	KindNone ErrorKind = ""
	// KindKeyNotFound classifies ErrKeyNotFound.
	KindKeyNotFound ErrorKind = "key_not_found"
	// KindLoadFailed classifies ErrLoadFailed.
	KindLoadFailed ErrorKind = "load_failed"
	// KindInstantiationFailed classifies ErrInstantiationFailed.
	KindInstantiationFailed ErrorKind = "instantiation_failed"
	// KindInvalidCapacity classifies ErrInvalidCapacity.
	KindInvalidCapacity ErrorKind = "invalid_capacity"
	// KindBusy classifies ErrBusy.
	KindBusy ErrorKind = "busy"
	// KindAbandoned classifies ErrLoadAbandoned.
	KindAbandoned ErrorKind = "abandoned"
	// KindOther classifies every other error.
	KindOther ErrorKind = "other"
)

// KindOf maps err to its ErrorKind.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrKeyNotFound):
		return KindKeyNotFound
	case errors.Is(err, ErrLoadFailed):
		return KindLoadFailed
	case errors.Is(err, ErrInstantiationFailed):
		return KindInstantiationFailed
	case errors.Is(err, ErrInvalidCapacity):
		return KindInvalidCapacity
	case errors.Is(err, ErrBusy):
		return KindBusy
	case errors.Is(err, ErrLoadAbandoned):
		return KindAbandoned
	default:
		return KindOther
	}
}
