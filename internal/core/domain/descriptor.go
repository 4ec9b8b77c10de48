package domain

import "time"

// Descriptor is deserialized but not yet instantiated resource data.
// The payload is opaque to the lifecycle engine and owned by the load backend.
type Descriptor struct {
	Key      ResourceKey
	Payload  any
	Size     int64
	Checksum uint64
	LoadedAt time.Time
}
