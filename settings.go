package motion

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/motion/poscache"
	"github.com/gogpu/motion/preview"
)

// ErrInvalidSettings is wrapped by every Settings validation error.
var ErrInvalidSettings = errors.New("motion: invalid settings")

// Settings are the timeline and render parameters of a session.
type Settings struct {
	FPS          float64 `yaml:"fps"`
	Duration     float64 `yaml:"duration"` // seconds
	RenderWidth  uint32  `yaml:"render_width"`
	RenderHeight uint32  `yaml:"render_height"`

	// SampleBudget caps frames×primitives for the position cache.
	SampleBudget int `yaml:"sample_budget"`

	// MemoryFraction, when positive, derives the sample budget from this
	// share of available memory instead. SampleBudget is the floor.
	MemoryFraction float64 `yaml:"memory_fraction"`

	PreviewCacheMB int      `yaml:"preview_cache_mb"`
	GPU            bool     `yaml:"gpu"`
	Background     [4]uint8 `yaml:"background"`
}

// DefaultSettings returns 30 fps, 10 s, 1280×720, a 50 000 sample budget,
// a 256 MB preview cache, GPU evaluation and a white background.
func DefaultSettings() Settings {
	return Settings{
		FPS:            30,
		Duration:       10,
		RenderWidth:    poscache.DefaultGridWidth,
		RenderHeight:   poscache.DefaultGridHeight,
		SampleBudget:   poscache.DefaultSampleBudget,
		PreviewCacheMB: preview.DefaultCacheMB,
		GPU:            true,
		Background:     [4]uint8{255, 255, 255, 255},
	}
}

// Validate reports the first invalid field.
func (s *Settings) Validate() error {
	switch {
	case !(s.FPS > 0) || math.IsInf(s.FPS, 0):
		return fmt.Errorf("%w: fps must be positive, got %v", ErrInvalidSettings, s.FPS)
	case !(s.Duration >= 0) || math.IsInf(s.Duration, 0):
		return fmt.Errorf("%w: duration must be non-negative, got %v", ErrInvalidSettings, s.Duration)
	case s.RenderWidth == 0 || s.RenderHeight == 0:
		return fmt.Errorf("%w: render size %dx%d", ErrInvalidSettings, s.RenderWidth, s.RenderHeight)
	case s.SampleBudget <= 0:
		return fmt.Errorf("%w: sample_budget must be positive, got %d", ErrInvalidSettings, s.SampleBudget)
	case s.MemoryFraction < 0 || s.MemoryFraction > 1 || math.IsNaN(s.MemoryFraction):
		return fmt.Errorf("%w: memory_fraction must be in [0, 1], got %v", ErrInvalidSettings, s.MemoryFraction)
	case s.PreviewCacheMB < 0:
		return fmt.Errorf("%w: preview_cache_mb must be non-negative, got %d", ErrInvalidSettings, s.PreviewCacheMB)
	}
	return nil
}

// Budget resolves the position cache sample budget.
func (s *Settings) Budget() int {
	if s.MemoryFraction <= 0 {
		return s.SampleBudget
	}
	b, err := poscache.MemoryBudget(s.MemoryFraction)
	if err != nil {
		Logger().Warn("motion: memory budget unavailable", "err", err)
		return s.SampleBudget
	}
	return max(b, s.SampleBudget)
}

// ParseSettings decodes YAML over DefaultSettings and validates the result.
func ParseSettings(data []byte) (Settings, error) {
	s := DefaultSettings()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("motion: parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// LoadSettings reads settings from a YAML file.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return Settings{}, fmt.Errorf("motion: read settings: %w", err)
	}
	return ParseSettings(data)
}

// WriteSettings writes s to a YAML file.
func WriteSettings(s Settings, path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("motion: encode settings: %w", err)
	}
	return os.WriteFile(path, data, 0o644) //nolint:gosec // settings are not secret
}
