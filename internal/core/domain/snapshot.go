package domain

import "time"

// CachedInstanceInfo describes one entry of the instance cache.
type CachedInstanceInfo struct {
	Key         ResourceKey `json:"key"`
	ID          string      `json:"id"`
	AccessCount int         `json:"access_count"`
	CachedAt    time.Time   `json:"cached_at,omitzero"`
}

// CacheSnapshot is an introspection view of the lifecycle engine.
// Instance entries and descriptor keys are ordered least recently used first.
type CacheSnapshot struct {
	CurrentKey          ResourceKey          `json:"current_key,omitzero"`
	PreviousKey         ResourceKey          `json:"previous_key,omitzero"`
	Instances           []CachedInstanceInfo `json:"instances"`
	DescriptorKeys      []ResourceKey        `json:"descriptor_keys"`
	InstanceCacheSize   int                  `json:"instance_cache_size"`
	InstanceCapacity    int                  `json:"instance_capacity"`
	DescriptorCacheSize int                  `json:"descriptor_cache_size"`
	DescriptorCapacity  int                  `json:"descriptor_capacity"`
	LoadingKey          ResourceKey          `json:"loading_key,omitzero"`
	LoadState           LoadState            `json:"load_state"`
	UseAsyncLoading     bool                 `json:"use_async_loading"`
	TakenAt             time.Time            `json:"taken_at,omitzero"`
}

// InstanceKeys returns the keys of the instance cache entries.
func (s CacheSnapshot) InstanceKeys() []ResourceKey {
	keys := make([]ResourceKey, len(s.Instances))
	for i, inst := range s.Instances {
		keys[i] = inst.Key
	}
	return keys
}
