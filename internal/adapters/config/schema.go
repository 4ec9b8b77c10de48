package config

// Stagefile represents the structure of the stagehand.yaml configuration file.
// Absent fields keep their defaults.
type Stagefile struct {
	Version                 string      `yaml:"version"`
	MaxInstanceCacheSize    *int        `yaml:"maxInstanceCacheSize"`
	MaxDescriptorCacheSize  *int        `yaml:"maxDescriptorCacheSize"`
	UseAsyncLoading         *bool       `yaml:"useAsyncLoading"`
	AlwaysUseDefaultOverlay *bool       `yaml:"alwaysUseDefaultOverlay"`
	LoadSlots               string      `yaml:"loadSlots"`
	TickInterval            string      `yaml:"tickInterval"`
	Overlay                 *OverlayDTO `yaml:"overlay"`
	StateFile               string      `yaml:"stateFile"`
}

// OverlayDTO configures the default fade overlay.
type OverlayDTO struct {
	FadeIn  string `yaml:"fadeIn"`
	FadeOut string `yaml:"fadeOut"`
}
