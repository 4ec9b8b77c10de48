package domain

import "time"

const (
	// DefaultMaxInstanceCacheSize is the default instance cache capacity.
	DefaultMaxInstanceCacheSize = 8
	// DefaultMaxDescriptorCacheSize is the default descriptor cache capacity.
	DefaultMaxDescriptorCacheSize = 20
	// DefaultTickInterval is the default scheduling tick (60 frames per second).
	DefaultTickInterval = 16 * time.Millisecond
	// DefaultFadeDuration is the default overlay fade-in and fade-out duration.
	DefaultFadeDuration = 150 * time.Millisecond
	// DefaultStateFile is where the last snapshot is persisted.
	DefaultStateFile = ".stagehand/state.json"
)

// SlotPolicy selects how in-flight background loads are tracked.
type SlotPolicy string

const (
	// SlotPolicySingle tracks a single in-flight key; a load for a different
	// key abandons tracking of the previous one.
	SlotPolicySingle SlotPolicy = "single"
	// SlotPolicyMulti tracks one in-flight operation per key.
	SlotPolicyMulti SlotPolicy = "multi"
)

// CacheKind selects one of the two caches.
type CacheKind string

const (
	// CacheInstances is the cache of deactivated instances.
	CacheInstances CacheKind = "instances"
	// CacheDescriptors is the cache of loaded, not instantiated descriptors.
	CacheDescriptors CacheKind = "descriptors"
)

// Config holds the lifecycle engine options.
type Config struct {
	MaxInstanceCacheSize    int
	MaxDescriptorCacheSize  int
	UseAsyncLoading         bool
	AlwaysUseDefaultOverlay bool
	LoadSlots               SlotPolicy
	TickInterval            time.Duration
	FadeIn                  time.Duration
	FadeOut                 time.Duration
	StateFile               string
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		MaxInstanceCacheSize:   DefaultMaxInstanceCacheSize,
		MaxDescriptorCacheSize: DefaultMaxDescriptorCacheSize,
		UseAsyncLoading:        true,
		LoadSlots:              SlotPolicySingle,
		TickInterval:           DefaultTickInterval,
		FadeIn:                 DefaultFadeDuration,
		FadeOut:                DefaultFadeDuration,
		StateFile:              DefaultStateFile,
	}
}

// LoadMode returns the load mode selected by UseAsyncLoading.
func (c Config) LoadMode() LoadMode {
	if c.UseAsyncLoading {
		return ModeAsync
	}
	return ModeSync
}
