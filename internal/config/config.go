// Package config handles bake configuration loading and management.
package config

import (
	"github.com/Faultbox/vinylbake/internal/groove"
	"github.com/Faultbox/vinylbake/pkg/vmath"
)

// Config holds all bake settings.
type Config struct {
	Bake    BakeConfig    `yaml:"bake"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// BakeConfig holds the groove-surface and normal-extraction constants.
type BakeConfig struct {
	Size                     int     `yaml:"size"`
	UVSpan                   float64 `yaml:"uv_span"`
	DiscRadius               float64 `yaml:"disc_radius"`
	RingCount                int     `yaml:"ring_count"`
	GrooveWidth              float64 `yaml:"groove_width"`
	GrooveDepth              float64 `yaml:"groove_depth"`
	SeparatorInterval        int     `yaml:"separator_interval"`
	SeparatorWidthMultiplier float64 `yaml:"separator_width_multiplier"`
	SeparatorDepth           float64 `yaml:"separator_depth"`
	InnerLabelGuard          float64 `yaml:"inner_label_guard"`
	NormalStrength           float64 `yaml:"normal_strength"`
	Workers                  int     `yaml:"workers"` // 0 = one per CPU
}

// OutputConfig holds the output artifact settings.
type OutputConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the reference bake constants.
func Default() *Config {
	return &Config{
		Bake: BakeConfig{
			Size:                     2048,
			UVSpan:                   10.0,
			DiscRadius:               2.6,
			RingCount:                200,
			GrooveWidth:              0.5,
			GrooveDepth:              1.0,
			SeparatorInterval:        48,
			SeparatorWidthMultiplier: 2.5,
			SeparatorDepth:           0.45,
			InnerLabelGuard:          0.445,
			NormalStrength:           1.85,
			Workers:                  0,
		},
		Output: OutputConfig{
			Path: "public/vinyl-normal.png",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// ToParams bridges the scalar bake settings to synthesizer parameters.
// The two basis centers sit at a quarter and three quarters of the UV
// span, half a span apart, which is what makes the bake tile vertically.
func (b BakeConfig) ToParams() groove.Params {
	p := groove.DefaultParams()
	p.Size = b.Size
	p.UVSpan = b.UVSpan
	p.DiscRadius = b.DiscRadius
	p.RingCount = b.RingCount
	p.GrooveWidth = b.GrooveWidth
	p.GrooveDepth = b.GrooveDepth
	p.SeparatorInterval = b.SeparatorInterval
	p.SeparatorWidthMultiplier = b.SeparatorWidthMultiplier
	p.SeparatorDepth = b.SeparatorDepth
	p.InnerLabelGuard = b.InnerLabelGuard
	p.Centers = []vmath.Vec2{
		{X: b.UVSpan * 0.25, Y: b.UVSpan * 0.25},
		{X: b.UVSpan * 0.25, Y: b.UVSpan * 0.75},
	}
	return p
}
