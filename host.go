package biovis

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Host resolves named containers a scene can be attached to.
type Host interface {
	Container(id string) (Container, bool)
}

// Container is a place a scene renders into.
type Container interface {
	Attach(s *Scene) error
	Detach(s *Scene)
}

// HostMap is a Host backed by a map.
type HostMap map[string]Container

func (h HostMap) Container(id string) (Container, bool) {
	c, ok := h[id]
	return c, ok
}

// ErrContainerBusy is returned when attaching to a container that already
// holds a scene.
var ErrContainerBusy = errors.New("biovis: container already holds a scene")

// Viewport is a Container that presents its scene in an Ebitengine window.
// It implements ebiten.Game.
type Viewport struct {
	scene *Scene

	// UpdateFunc, if set, runs every tick before the scene updates. A
	// non-nil error stops the game loop.
	UpdateFunc func() error
	// ShowFPS overlays FPS and TPS. It forces a redraw every frame.
	ShowFPS bool

	lastPrint uint64
	drawn     bool
	redraws   uint64
}

// NewViewport creates an empty viewport.
func NewViewport() *Viewport {
	return &Viewport{}
}

// Attach implements Container.
func (v *Viewport) Attach(s *Scene) error {
	if v.scene != nil && v.scene != s {
		return ErrContainerBusy
	}
	v.scene = s
	v.drawn = false
	return nil
}

// Detach implements Container.
func (v *Viewport) Detach(s *Scene) {
	if v.scene == s {
		v.scene = nil
	}
}

// Scene returns the attached scene, or nil.
func (v *Viewport) Scene() *Scene {
	return v.scene
}

// Redraws returns how many frames were actually rendered.
func (v *Viewport) Redraws() uint64 {
	return v.redraws
}

// Update implements ebiten.Game.
func (v *Viewport) Update() error {
	if v.UpdateFunc != nil {
		if err := v.UpdateFunc(); err != nil {
			return err
		}
	}
	if v.scene == nil {
		return nil
	}
	return v.scene.Update()
}

// needsDraw reports whether the scene changed since the last rendered frame.
func (v *Viewport) needsDraw() bool {
	if v.scene == nil {
		return false
	}
	if v.ShowFPS || !v.drawn || len(v.scene.screenshotQueue) > 0 {
		return true
	}
	return v.scene.Fingerprint() != v.lastPrint
}

// Draw implements ebiten.Game. The screen is not cleared between frames,
// so an unchanged scene keeps its previous image.
func (v *Viewport) Draw(screen *ebiten.Image) {
	if !v.needsDraw() {
		return
	}
	screen.Clear()
	v.scene.Draw(screen)
	v.lastPrint = v.scene.Fingerprint()
	v.drawn = true
	v.redraws++
	if v.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.0f  TPS: %.0f",
			ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

// Layout implements ebiten.Game and reports the scene's surface size.
func (v *Viewport) Layout(_, _ int) (int, int) {
	if v.scene == nil {
		return defaultWidth, defaultHeight
	}
	return v.scene.Size()
}

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title     string
	Resizable bool
}

// Run opens a window and drives vp until the window closes or UpdateFunc
// returns an error. Blocks.
func Run(vp *Viewport, cfg RunConfig) error {
	w, h := vp.Layout(0, 0)
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	ebiten.SetWindowSize(w, h)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetScreenClearedEveryFrame(false)
	return ebiten.RunGame(vp)
}
