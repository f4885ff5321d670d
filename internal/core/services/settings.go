package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/pagespin/internal/core/domain"
	"github.com/custodia-labs/pagespin/internal/core/ports/driven"
	"github.com/custodia-labs/pagespin/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyViewScale       = "view.scale"
	keyViewScaleStep   = "view.scale_step"
	keyExportPrefix    = "export.prefix"
	keyExportDir       = "export.dir"
	keyWatchEnabled    = "watch.enabled"
	keyWatchIntervalMS = "watch.min_interval_ms"
)

var settingKeys = []string{
	keyExportDir,
	keyExportPrefix,
	keyViewScale,
	keyViewScaleStep,
	keyWatchEnabled,
	keyWatchIntervalMS,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
// Missing or out-of-range values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		View: domain.ViewSettings{
			Scale:     domain.ClampScale(s.getFloat(keyViewScale, defaults.View.Scale)),
			ScaleStep: s.getPositiveFloat(keyViewScaleStep, defaults.View.ScaleStep),
		},
		Export: domain.ExportSettings{
			Prefix: s.getString(keyExportPrefix, defaults.Export.Prefix),
			Dir:    s.configStore.GetString(keyExportDir), // empty means next to the source
		},
		Watch: domain.WatchSettings{
			Enabled:     s.getBool(keyWatchEnabled, defaults.Watch.Enabled),
			MinInterval: s.getInterval(defaults.Watch.MinInterval),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings == nil {
		return fmt.Errorf("save settings: nil settings")
	}

	values := []struct {
		key   string
		value any
	}{
		{keyViewScale, domain.ClampScale(settings.View.Scale)},
		{keyViewScaleStep, settings.View.ScaleStep},
		{keyExportPrefix, settings.Export.Prefix},
		{keyExportDir, settings.Export.Dir},
		{keyWatchEnabled, settings.Watch.Enabled},
		{keyWatchIntervalMS, int(settings.Watch.MinInterval / time.Millisecond)},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set parses value for key and stores it.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	var parsed any
	switch key {
	case keyViewScale, keyViewScaleStep:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s: invalid number %q", key, value)
		}
		if f <= 0 {
			return fmt.Errorf("%s: must be positive", key)
		}
		if key == keyViewScale {
			f = domain.ClampScale(f)
		}
		parsed = f
	case keyWatchEnabled:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: invalid boolean %q", key, value)
		}
		parsed = b
	case keyWatchIntervalMS:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%s: invalid duration %q", key, value)
		}
		parsed = n
	case keyExportPrefix:
		if strings.ContainsAny(value, `/\`) {
			return fmt.Errorf("%s: must not contain path separators", key)
		}
		parsed = value
	case keyExportDir:
		parsed = value
	default:
		return fmt.Errorf("unknown setting %q", key)
	}

	return s.configStore.Set(key, parsed)
}

// Keys returns the names of all supported settings.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	copy(keys, settingKeys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Path returns where settings are stored.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getPositiveFloat(key string, defaultVal float64) float64 {
	if val := s.getFloat(key, defaultVal); val > 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getInterval(defaultVal time.Duration) time.Duration {
	if _, ok := s.configStore.Get(keyWatchIntervalMS); !ok {
		return defaultVal
	}
	ms := s.configStore.GetInt(keyWatchIntervalMS)
	if ms < 0 {
		return defaultVal
	}
	return time.Duration(ms) * time.Millisecond
}
