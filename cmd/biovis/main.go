// Command biovis opens a window showing an annotated cell.
//
// Keys: P plays protein synthesis, R resets it, L toggles labels, M adds a
// mitochondrion, S saves a screenshot, + and - change the process speed.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/phanxgames/biovis"
	"github.com/phanxgames/biovis/config"
	"github.com/phanxgames/biovis/internal/injector"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "biovis:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a YAML scene config (default: built-in demo cell)")
	scriptPath := flag.String("script", "", "path to a JSON script to run against the scene")
	debug := flag.Bool("debug", false, "log at debug level, including per-frame render stats")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	if *debug {
		cfg.Log.Level = "debug"
	}

	a, cleanup, err := injector.InitializeApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if *scriptPath != "" {
		data, err := os.ReadFile(*scriptPath)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		sc, err := biovis.LoadScript(data)
		if err != nil {
			return err
		}
		a.Scene().SetScript(sc)
	}

	return biovis.Run(a.Viewport(), biovis.RunConfig{
		Title:     cfg.Surface.Title,
		Resizable: true,
	})
}
