package domain

import "time"

// Zoom limits for the page view.
const (
	MinScale         = 0.5
	MaxScale         = 2.0
	DefaultScale     = 1.0
	DefaultScaleStep = 0.2
)

// ViewSettings holds page view configuration.
type ViewSettings struct {
	// Scale is the initial zoom factor.
	Scale float64

	// ScaleStep is how much one zoom keypress changes the scale.
	ScaleStep float64
}

// ClampScale keeps a zoom factor inside [MinScale, MaxScale].
func ClampScale(scale float64) float64 {
	if scale < MinScale {
		return MinScale
	}
	if scale > MaxScale {
		return MaxScale
	}
	return scale
}

// ExportSettings holds export configuration.
type ExportSettings struct {
	// Prefix is prepended to the source name to build the output name.
	Prefix string

	// Dir is the output directory. Empty means next to the source file.
	Dir string
}

// WatchSettings controls reloading the open file when it changes on disk.
type WatchSettings struct {
	// Enabled turns the file watcher on.
	Enabled bool

	// MinInterval is the minimum time between two reloads.
	MinInterval time.Duration
}

// AppSettings holds all application settings.
type AppSettings struct {
	View   ViewSettings
	Export ExportSettings
	Watch  WatchSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		View: ViewSettings{
			Scale:     DefaultScale,
			ScaleStep: DefaultScaleStep,
		},
		Export: ExportSettings{
			Prefix: DefaultOutputPrefix,
		},
		Watch: WatchSettings{
			Enabled:     false,
			MinInterval: 500 * time.Millisecond,
		},
	}
}
