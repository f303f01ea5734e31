package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Stefan/ppm-saas-sub008/internal/visual"
)

// ProjectFile is the per-repository config file name.
const ProjectFile = ".structcheck.yaml"

// ProjectConfig represents a .structcheck.yaml file in a repository
type ProjectConfig struct {
	Version string `yaml:"version"`

	// Manifest file; empty uses the built-in structures
	Manifest string `yaml:"manifest,omitempty"`

	// Visual regression settings
	Visual VisualConfig `yaml:"visual"`

	// Where verification reports are written
	OutputDir string `yaml:"output_dir,omitempty"`
}

// VisualConfig holds screenshot comparison settings
type VisualConfig struct {
	BaselineDir string `yaml:"baseline_dir,omitempty"`
	DiffDir     string `yaml:"diff_dir,omitempty"`

	// Fraction of pixels allowed to differ (0-1)
	Threshold float64 `yaml:"threshold"`

	// Absolute pixel limit, -1 disables
	MaxDiffPixels int `yaml:"max_diff_pixels"`

	ChannelTolerance uint8 `yaml:"channel_tolerance,omitempty"`
	FullPage         bool  `yaml:"full_page,omitempty"`
}

// Thresholds converts the visual settings for the comparer.
func (v VisualConfig) Thresholds() visual.Thresholds {
	return visual.Thresholds{
		Percentage:       v.Threshold,
		MaxDiffPixels:    v.MaxDiffPixels,
		ChannelTolerance: v.ChannelTolerance,
	}
}

// DefaultProjectConfig returns sensible defaults
func DefaultProjectConfig() *ProjectConfig {
	d := visual.DefaultThresholds()
	return &ProjectConfig{
		Version: "1.0",
		Visual: VisualConfig{
			BaselineDir:      "testdata/baselines",
			DiffDir:          "testdata/diffs",
			Threshold:        d.Percentage,
			MaxDiffPixels:    d.MaxDiffPixels,
			ChannelTolerance: d.ChannelTolerance,
			FullPage:         true,
		},
		OutputDir: "structcheck-results",
	}
}

// LoadProject loads .structcheck.yaml from dir, falling back to defaults
// when the file does not exist. Relative paths in the file are resolved
// against dir.
func LoadProject(dir string) (*ProjectConfig, error) {
	configPath := filepath.Join(dir, ProjectFile)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configPath = filepath.Join(dir, ".structcheck.yml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return DefaultProjectConfig(), nil
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	cfg := DefaultProjectConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.Manifest = resolve(dir, cfg.Manifest)
	cfg.Visual.BaselineDir = resolve(dir, cfg.Visual.BaselineDir)
	cfg.Visual.DiffDir = resolve(dir, cfg.Visual.DiffDir)
	cfg.OutputDir = resolve(dir, cfg.OutputDir)

	return cfg, nil
}

// SaveProject writes cfg to dir/.structcheck.yaml
func SaveProject(dir string, cfg *ProjectConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, ProjectFile), data, 0644)
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
