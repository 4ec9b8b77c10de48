// Package config provides the configuration loader for stagehand.
package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"go.trai.ch/stagehand/internal/core/domain"
	"go.trai.ch/stagehand/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the configuration file looked up when no path is given.
const DefaultFilename = "stagehand.yaml"

// FileConfigLoader implements ports.ConfigLoader using a YAML file.
type FileConfigLoader struct {
	logger ports.Logger
}

// NewLoader creates a FileConfigLoader.
func NewLoader(logger ports.Logger) *FileConfigLoader {
	return &FileConfigLoader{logger: logger}
}

// Load reads the configuration at path. A missing file yields the defaults.
func (l *FileConfigLoader) Load(path string) (domain.Config, error) {
	if path == "" {
		path = DefaultFilename
	}
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		l.logger.Info("no config file at " + path + ", using defaults")
		return domain.DefaultConfig(), nil
	}
	return cfg, err
}

// Load reads a configuration file from the given path and returns a
// validated domain.Config.
func Load(path string) (domain.Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return domain.Config{}, zerr.With(zerr.Wrap(errors.Join(domain.ErrConfigReadFailed, err), "load config"), "path", path)
	}

	var file Stagefile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return domain.Config{}, zerr.With(zerr.Wrap(errors.Join(domain.ErrConfigParseFailed, err), "load config"), "path", path)
	}

	cfg, err := file.toDomain()
	if err != nil {
		return domain.Config{}, zerr.With(err, "path", path)
	}
	return cfg, nil
}

func (f *Stagefile) toDomain() (domain.Config, error) {
	cfg := domain.DefaultConfig()

	if f.MaxInstanceCacheSize != nil {
		cfg.MaxInstanceCacheSize = *f.MaxInstanceCacheSize
	}
	if f.MaxDescriptorCacheSize != nil {
		cfg.MaxDescriptorCacheSize = *f.MaxDescriptorCacheSize
	}
	if f.UseAsyncLoading != nil {
		cfg.UseAsyncLoading = *f.UseAsyncLoading
	}
	if f.AlwaysUseDefaultOverlay != nil {
		cfg.AlwaysUseDefaultOverlay = *f.AlwaysUseDefaultOverlay
	}
	if f.StateFile != "" {
		cfg.StateFile = f.StateFile
	}

	switch domain.SlotPolicy(f.LoadSlots) {
	case "":
	case domain.SlotPolicySingle, domain.SlotPolicyMulti:
		cfg.LoadSlots = domain.SlotPolicy(f.LoadSlots)
	default:
		return domain.Config{}, zerr.With(zerr.Wrap(domain.ErrInvalidSlotPolicy, "validate config"), "loadSlots", f.LoadSlots)
	}

	var err error
	if cfg.TickInterval, err = parseDuration("tickInterval", f.TickInterval, cfg.TickInterval); err != nil {
		return domain.Config{}, err
	}
	if f.Overlay != nil {
		if cfg.FadeIn, err = parseDuration("overlay.fadeIn", f.Overlay.FadeIn, cfg.FadeIn); err != nil {
			return domain.Config{}, err
		}
		if cfg.FadeOut, err = parseDuration("overlay.fadeOut", f.Overlay.FadeOut, cfg.FadeOut); err != nil {
			return domain.Config{}, err
		}
	}

	if cfg.MaxInstanceCacheSize < 1 {
		return domain.Config{}, zerr.With(zerr.Wrap(domain.ErrInvalidCapacity, "validate config"), "maxInstanceCacheSize", cfg.MaxInstanceCacheSize)
	}
	if cfg.MaxDescriptorCacheSize < 1 {
		return domain.Config{}, zerr.With(zerr.Wrap(domain.ErrInvalidCapacity, "validate config"), "maxDescriptorCacheSize", cfg.MaxDescriptorCacheSize)
	}
	if cfg.TickInterval <= 0 {
		return domain.Config{}, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "tickInterval must be positive"), "tickInterval", f.TickInterval)
	}
	return cfg, nil
}

func parseDuration(field, value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(errors.Join(domain.ErrConfigParseFailed, err), "invalid duration"), field, value)
	}
	if d < 0 {
		return 0, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "duration must not be negative"), field, value)
	}
	return d, nil
}
