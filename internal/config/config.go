package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/menta2k/image-augment/pkg/augment"
	"github.com/menta2k/image-augment/pkg/sampler"
	"github.com/menta2k/image-augment/pkg/tfms"
)

// Config holds the application configuration
type Config struct {
	Seed   int64         `json:"seed"`
	Policy []PolicyEntry `json:"policy"`
	Sample SampleConfig  `json:"sample"`
	Size   SizeConfig    `json:"size"`
	Output OutputConfig  `json:"output"`
}

// PolicyEntry declares one randomized transform in the augmentation policy.
// Args values are either literals or distribution arguments, depending on
// whether the named parameter carries a random annotation.
type PolicyEntry struct {
	Transform string         `json:"transform"`
	Args      map[string]any `json:"args,omitempty"`
	P         float64        `json:"p"`
	Fixed     bool           `json:"fixed,omitempty"`
}

// SampleConfig selects the resampling configuration
type SampleConfig struct {
	Mode string `json:"mode"`
	Edge string `json:"edge"`
}

// SizeConfig sets an optional target size; zero means keep the input size
type SizeConfig struct {
	Height int `json:"height"`
	Width  int `json:"width"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	Format   string `json:"format"`
	Dir      string `json:"dir"`
	Quality  int    `json:"quality"`
	Lossless bool   `json:"lossless"`
	Variants int    `json:"variants"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Seed: 42,
		Policy: []PolicyEntry{
			{Transform: "rotate", Args: map[string]any{"degrees": []any{-10.0, 10.0}}, P: 0.75},
			{Transform: "zoom", Args: map[string]any{"scale": []any{1.0, 1.1}}, P: 0.75},
			{Transform: "flip_lr", P: 0.5},
			{Transform: "brightness", Args: map[string]any{"change": []any{0.4, 0.6}}, P: 0.75},
			{Transform: "contrast", Args: map[string]any{"scale": []any{0.8, 1.25}}, P: 0.75},
		},
		Sample: SampleConfig{
			Mode: string(sampler.ModeBilinear),
			Edge: string(sampler.EdgeReflect),
		},
		Output: OutputConfig{
			Format:   "jpg",
			Dir:      "./output",
			Quality:  90,
			Variants: 4,
		},
	}
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	for i, entry := range c.Policy {
		if _, ok := tfms.ByName(entry.Transform); !ok {
			return fmt.Errorf("policy[%d]: unknown transform %q", i, entry.Transform)
		}
		if entry.P < 0 || entry.P > 1 {
			return fmt.Errorf("policy[%d]: p must be between 0 and 1", i)
		}
	}

	switch sampler.Mode(c.Sample.Mode) {
	case "", sampler.ModeBilinear, sampler.ModeNearest:
	default:
		return fmt.Errorf("sample.mode must be %q or %q", sampler.ModeBilinear, sampler.ModeNearest)
	}

	switch sampler.Edge(c.Sample.Edge) {
	case "", sampler.EdgeZero, sampler.EdgeBorder, sampler.EdgeReflect:
	default:
		return fmt.Errorf("sample.edge must be %q, %q or %q", sampler.EdgeZero, sampler.EdgeBorder, sampler.EdgeReflect)
	}

	if (c.Size.Height == 0) != (c.Size.Width == 0) {
		return fmt.Errorf("size.height and size.width must be set together")
	}
	if c.Size.Height < 0 || c.Size.Width < 0 {
		return fmt.Errorf("size must be positive")
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}
	if c.Output.Variants < 1 {
		return fmt.Errorf("output.variants must be at least 1")
	}

	return nil
}

// Build turns the policy into randomized transform instances.
func (c *Config) Build() ([]*augment.RandTransform, error) {
	out := make([]*augment.RandTransform, 0, len(c.Policy))
	for i, entry := range c.Policy {
		t, ok := tfms.ByName(entry.Transform)
		if !ok {
			return nil, fmt.Errorf("policy[%d]: unknown transform %q", i, entry.Transform)
		}
		rt := t.RandP(augment.RawArgs(entry.Args), entry.P)
		if entry.Fixed {
			rt.Fixed()
		}
		out = append(out, rt)
	}
	return out, nil
}

// SampleOptions converts the sample section into resampler options.
func (c *Config) SampleOptions() sampler.Options {
	return sampler.Options{
		Mode: sampler.Mode(c.Sample.Mode),
		Edge: sampler.Edge(c.Sample.Edge),
	}
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "image-augment", "config.json")
}
