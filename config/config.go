// Package config loads the YAML description of a scene: surface, layers,
// logging, process timing and the initial organelle layout.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level scene configuration.
type Config struct {
	Surface       Surface     `yaml:"surface"`
	Layers        []string    `yaml:"layers,omitempty"`
	Log           Log         `yaml:"log"`
	Process       Process     `yaml:"process"`
	Font          Font        `yaml:"font"`
	Seed          uint64      `yaml:"seed"`
	ScreenshotDir string      `yaml:"screenshotDir,omitempty"`
	Organelles    []Organelle `yaml:"organelles"`
}

type Surface struct {
	Container string `yaml:"container"`
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
}

type Log struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or console
}

type Process struct {
	DurationMs int `yaml:"durationMs"`
	// Speed divides the duration, as the animation speed slider did.
	Speed float64 `yaml:"speed"`
}

type Font struct {
	Size float64 `yaml:"size"`
}

// Organelle places one structure and optionally annotates it.
type Organelle struct {
	Kind       string  `yaml:"kind"`
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	Width      float64 `yaml:"width,omitempty"`
	Height     float64 `yaml:"height,omitempty"`
	Size       float64 `yaml:"size,omitempty"`
	Label      string  `yaml:"label,omitempty"`
	Annotation string  `yaml:"annotation,omitempty"`
	Side       string  `yaml:"side,omitempty"`
}

// Speed bounds, matching the demo's slider.
const (
	MinSpeed = 0.5
	MaxSpeed = 2.0
)

var (
	knownKinds  = []string{"cell", "nucleus", "mitochondria", "golgi", "er", "lysosome"}
	knownSides  = []string{"", "right", "left", "top", "bottom"}
	knownLevels = []string{"debug", "info", "warn", "error"}
)

// Default returns the demo cell: an 800x500 surface with a cell, nucleus,
// mitochondrion, Golgi apparatus, ER and lysosome, each annotated.
func Default() *Config {
	return &Config{
		Surface: Surface{Container: "biovis-container", Title: "Cell Visualization", Width: 800, Height: 500},
		Log:     Log{Level: "info", Format: "console"},
		Process: Process{DurationMs: 5000, Speed: 1},
		Font:    Font{Size: 12},
		Seed:    1,
		Organelles: []Organelle{
			{Kind: "cell", Width: 600, Height: 400, Label: "Cell"},
			{Kind: "nucleus", X: 400, Y: 250, Size: 60, Annotation: "Nucleus - Contains genetic material"},
			{Kind: "mitochondria", X: 500, Y: 200, Size: 30, Annotation: "Mitochondria - Powerhouse of the cell"},
			{Kind: "golgi", X: 300, Y: 300, Size: 80, Annotation: "Golgi apparatus - Protein processing"},
			{Kind: "er", X: 200, Y: 350, Width: 200, Height: 50, Annotation: "Endoplasmic reticulum - Protein synthesis"},
			{Kind: "lysosome", X: 550, Y: 350, Size: 20, Annotation: "Lysosome - Cellular digestion"},
		},
	}
}

// Load reads and validates a YAML file. Fields missing from the file keep
// their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes YAML over Default and validates the result.
func Parse(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate reports every problem found, joined.
func (c *Config) Validate() error {
	var errs []error
	if c.Surface.Container == "" {
		errs = append(errs, errors.New("surface.container is empty"))
	}
	if c.Surface.Width <= 0 || c.Surface.Height <= 0 {
		errs = append(errs, fmt.Errorf("surface size %dx%d must be positive", c.Surface.Width, c.Surface.Height))
	}
	seen := make(map[string]bool, len(c.Layers))
	for _, name := range c.Layers {
		if seen[name] {
			errs = append(errs, fmt.Errorf("layer %q listed twice", name))
		}
		seen[name] = true
	}
	if len(c.Layers) > 0 && (!seen["labels"] || !seen["annotations"]) {
		errs = append(errs, errors.New("layers must include labels and annotations"))
	}
	if !oneOf(strings.ToLower(c.Log.Level), knownLevels) {
		errs = append(errs, fmt.Errorf("log.level %q is not one of %v", c.Log.Level, knownLevels))
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		errs = append(errs, fmt.Errorf("log.format %q must be json or console", c.Log.Format))
	}
	if c.Process.DurationMs <= 0 {
		errs = append(errs, fmt.Errorf("process.durationMs %d must be positive", c.Process.DurationMs))
	}
	if c.Process.Speed < MinSpeed || c.Process.Speed > MaxSpeed {
		errs = append(errs, fmt.Errorf("process.speed %v outside [%v, %v]", c.Process.Speed, MinSpeed, MaxSpeed))
	}
	if c.Font.Size <= 0 {
		errs = append(errs, fmt.Errorf("font.size %v must be positive", c.Font.Size))
	}
	for i, o := range c.Organelles {
		if !oneOf(o.Kind, knownKinds) {
			errs = append(errs, fmt.Errorf("organelles[%d]: unknown kind %q", i, o.Kind))
		}
		if !oneOf(o.Side, knownSides) {
			errs = append(errs, fmt.Errorf("organelles[%d]: unknown side %q", i, o.Side))
		}
		if o.Width < 0 || o.Height < 0 || o.Size < 0 {
			errs = append(errs, fmt.Errorf("organelles[%d]: negative geometry", i))
		}
	}
	return errors.Join(errs...)
}

// ProcessDurationMs is the scenario duration after applying Speed.
func (c *Config) ProcessDurationMs() int {
	if c.Process.Speed <= 0 {
		return c.Process.DurationMs
	}
	return int(float64(c.Process.DurationMs) / c.Process.Speed)
}

func oneOf(s string, set []string) bool {
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}
