// Package app assembles the demo: it builds a scene from configuration,
// populates the cell and maps keys to scene actions.
package app

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/wire"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/phanxgames/biovis"
	"github.com/phanxgames/biovis/config"
	"github.com/phanxgames/biovis/internal/logging"
	"github.com/phanxgames/biovis/organelle"
)

// ProviderSet wires an App from a *config.Config.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideViewport,
	ProvideScene,
	New,
)

// Action is something the user can trigger.
type Action uint8

const (
	ActionNone Action = iota
	ActionSimulate
	ActionReset
	ActionToggleLabels
	ActionAddMitochondria
	ActionScreenshot
	ActionFaster
	ActionSlower
)

func (a Action) String() string {
	switch a {
	case ActionSimulate:
		return "simulate"
	case ActionReset:
		return "reset"
	case ActionToggleLabels:
		return "toggle-labels"
	case ActionAddMitochondria:
		return "add-mitochondria"
	case ActionScreenshot:
		return "screenshot"
	case ActionFaster:
		return "faster"
	case ActionSlower:
		return "slower"
	default:
		return "none"
	}
}

// Keymap binds keys to actions.
var Keymap = map[ebiten.Key]Action{
	ebiten.KeyP:     ActionSimulate,
	ebiten.KeyR:     ActionReset,
	ebiten.KeyL:     ActionToggleLabels,
	ebiten.KeyM:     ActionAddMitochondria,
	ebiten.KeyS:     ActionScreenshot,
	ebiten.KeyEqual: ActionFaster,
	ebiten.KeyMinus: ActionSlower,
}

const speedStep = 0.1

// App owns the scene and its viewport for the lifetime of the program.
type App struct {
	cfg      *config.Config
	log      *zap.Logger
	scene    *biovis.Scene
	viewport *biovis.Viewport
	rng      *rand.Rand

	components   map[string]biovis.ComponentID
	mitochondria []biovis.ComponentID
	speed        float64
	completed    int
}

// ProvideLogger builds the logger from the config's log section.
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Log)
}

// ProvideViewport returns the window container scenes attach to.
func ProvideViewport() *biovis.Viewport {
	return biovis.NewViewport()
}

// ProvideScene creates the scene inside the configured container. The
// cleanup destroys it.
func ProvideScene(cfg *config.Config, log *zap.Logger, vp *biovis.Viewport) (*biovis.Scene, func(), error) {
	font, err := biovis.LoadDefaultFont(cfg.Font.Size)
	if err != nil {
		return nil, nil, fmt.Errorf("load font: %w", err)
	}
	host := biovis.HostMap{cfg.Surface.Container: vp}
	scene, err := biovis.New(host, cfg.Surface.Container, biovis.Options{
		Width:         cfg.Surface.Width,
		Height:        cfg.Surface.Height,
		Layers:        cfg.Layers,
		Factories:     organelle.Catalog(cfg.Seed),
		Logger:        log,
		Font:          font,
		ClearColor:    biovis.ColorWhite,
		ScreenshotDir: cfg.ScreenshotDir,
		Debug:         log.Core().Enabled(zap.DebugLevel),
	})
	if err != nil {
		return nil, nil, err
	}
	return scene, scene.Destroy, nil
}

// New populates scene from cfg and hooks key handling into vp.
func New(cfg *config.Config, log *zap.Logger, scene *biovis.Scene, vp *biovis.Viewport) (*App, error) {
	a := &App{
		cfg:        cfg,
		log:        log,
		scene:      scene,
		viewport:   vp,
		rng:        rand.New(rand.NewPCG(cfg.Seed, cfg.Seed+1)),
		components: make(map[string]biovis.ComponentID),
		speed:      cfg.Process.Speed,
	}
	if a.speed <= 0 {
		a.speed = 1
	}
	if err := a.populate(); err != nil {
		return nil, err
	}
	vp.UpdateFunc = a.handleKeys
	return a, nil
}

func (a *App) populate() error {
	for i, o := range a.cfg.Organelles {
		g := biovis.Geometry{X: o.X, Y: o.Y, Width: o.Width, Height: o.Height, Size: o.Size}
		var id biovis.ComponentID
		var err error
		if biovis.Kind(o.Kind) == biovis.KindCell {
			id, err = a.scene.CreateCell(g)
		} else {
			id, err = a.scene.Create(biovis.Kind(o.Kind), g)
		}
		if err != nil {
			return fmt.Errorf("organelles[%d] %s: %w", i, o.Kind, err)
		}
		if _, dup := a.components[o.Kind]; !dup {
			a.components[o.Kind] = id
		}
		if biovis.Kind(o.Kind) == biovis.KindMitochondria {
			a.mitochondria = append(a.mitochondria, id)
		}
		if o.Label != "" {
			if _, err := a.scene.AddLabel(id, o.Label); err != nil {
				return fmt.Errorf("organelles[%d] label: %w", i, err)
			}
		}
		if o.Annotation != "" {
			side, err := biovis.ParseSide(o.Side)
			if err != nil {
				return fmt.Errorf("organelles[%d]: %w", i, err)
			}
			if _, err := a.scene.AddAnnotation(id, o.Annotation, side); err != nil {
				return fmt.Errorf("organelles[%d] annotation: %w", i, err)
			}
		}
	}
	a.log.Info("cell populated", zap.Int("components", a.scene.Registry().Len()))
	return nil
}

// Scene returns the app's scene.
func (a *App) Scene() *biovis.Scene { return a.scene }

// Viewport returns the app's viewport.
func (a *App) Viewport() *biovis.Viewport { return a.viewport }

// Component returns the first component created for kind.
func (a *App) Component(kind string) (biovis.ComponentID, bool) {
	id, ok := a.components[kind]
	return id, ok
}

// Mitochondria returns every mitochondrion created so far.
func (a *App) Mitochondria() []biovis.ComponentID {
	return a.mitochondria
}

// Speed returns the process speed multiplier.
func (a *App) Speed() float64 { return a.speed }

// Completed returns how many process runs reached their end.
func (a *App) Completed() int { return a.completed }

// ProcessDuration is the scenario duration at the current speed.
func (a *App) ProcessDuration() time.Duration {
	return time.Duration(float64(a.cfg.Process.DurationMs)/a.speed) * time.Millisecond
}

func (a *App) handleKeys() error {
	for key, action := range Keymap {
		if inpututil.IsKeyJustPressed(key) {
			if err := a.Do(action); err != nil {
				a.log.Warn("action failed", zap.Stringer("action", action), zap.Error(err))
			}
		}
	}
	return nil
}

// Do performs an action.
func (a *App) Do(action Action) error {
	switch action {
	case ActionSimulate:
		return a.scene.SimulateProcess(biovis.ProcessOptions{
			Duration: a.ProcessDuration(),
			OnComplete: func() {
				a.completed++
				a.log.Info("protein synthesis complete", zap.Int("runs", a.completed))
			},
		})
	case ActionReset:
		a.scene.ClearProcessElements()
	case ActionToggleLabels:
		a.scene.ToggleLabels()
	case ActionAddMitochondria:
		return a.addMitochondria()
	case ActionScreenshot:
		a.scene.Screenshot("cell")
	case ActionFaster:
		a.speed = min(a.speed+speedStep, config.MaxSpeed)
	case ActionSlower:
		a.speed = max(a.speed-speedStep, config.MinSpeed)
	}
	return nil
}

// addMitochondria drops a small mitochondrion somewhere in the middle of
// the cell.
func (a *App) addMitochondria() error {
	id, err := a.scene.CreateMitochondria(biovis.Geometry{
		X:    300 + a.rng.Float64()*200,
		Y:    200 + a.rng.Float64()*100,
		Size: 25,
	})
	if err != nil {
		return err
	}
	a.mitochondria = append(a.mitochondria, id)
	return nil
}
