package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the demo configuration file.
type Config struct {
	Window  WindowConfig `yaml:"window"`
	Shaders ShaderConfig `yaml:"shaders"`

	// Backend is the registry name of the driver, "gl" by default.
	Backend string `yaml:"backend"`

	// Debug turns on the per-call driver error check.
	Debug bool `yaml:"debug"`
}

// WindowConfig sizes and names the demo window.
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// ShaderConfig names optional shader files. Relative paths are resolved
// against the directory of the configuration file. Empty paths select the
// built-in quad shaders.
type ShaderConfig struct {
	Vertex   string `yaml:"vertex"`
	Fragment string `yaml:"fragment"`
}

func defaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Width:  640,
			Height: 480,
			Title:  "stem",
		},
		Backend: "gl",
	}
}

// loadConfig reads the configuration at path over the defaults. An empty
// path returns the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	cfg.Shaders.Vertex = resolve(dir, cfg.Shaders.Vertex)
	cfg.Shaders.Fragment = resolve(dir, cfg.Shaders.Fragment)
	return cfg, cfg.validate()
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func (c Config) validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Backend == "" {
		return errors.New("backend must not be empty")
	}
	return nil
}

// shaderSources returns the vertex and fragment sources, reading the
// configured files where set.
func (c Config) shaderSources() (vertex, fragment string, err error) {
	vertex, fragment = quadVertex, quadFragment
	if c.Shaders.Vertex != "" {
		b, err := os.ReadFile(c.Shaders.Vertex)
		if err != nil {
			return "", "", err
		}
		vertex = string(b)
	}
	if c.Shaders.Fragment != "" {
		b, err := os.ReadFile(c.Shaders.Fragment)
		if err != nil {
			return "", "", err
		}
		fragment = string(b)
	}
	return vertex, fragment, nil
}
