package biovis

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultWidth      = 800
	defaultHeight     = 600
	defaultCommandCap = 256
	defaultFontSize   = 12

	defaultCellWidth  = 300
	defaultCellHeight = 200

	// maxScreenshotWriters bounds concurrent PNG encodes.
	maxScreenshotWriters = 2
)

// Options configures a Scene. The zero value is usable.
type Options struct {
	Width, Height int
	// Layers in back-to-front order. Empty means DefaultLayers.
	Layers    []string
	Factories Factories
	Clock     Clock
	Logger    *zap.Logger
	// Font for annotations and labels. Nil loads Go Regular at 12px.
	Font          Font
	ClearColor    Color
	ScreenshotDir string
	// Debug logs per-frame render stats.
	Debug bool
}

// Scene is the engine context: it owns the node tree, the layers, both
// registries, the scheduler and the running process. Nothing is shared
// between scenes.
//
// A Scene is not safe for concurrent use. All calls, including Update and
// Draw, must come from the goroutine running the frame loop.
type Scene struct {
	id  uuid.UUID
	log *zap.Logger

	clock     Clock
	frames    *FrameLoop
	root      *Node
	layers    *LayerSet
	registry  *Registry
	factories Factories
	scheduler *Scheduler

	annotations *annotationStore
	process     *processState

	font          Font
	width, height int
	clearColor    Color
	container     Container
	destroyed     bool
	debug         bool

	// Render state
	commands []RenderCommand
	sortBuf  []RenderCommand

	// ScreenshotDir is where Screenshot writes PNGs. Default "screenshots".
	ScreenshotDir   string
	screenshotQueue []string
	writes          *errgroup.Group

	script *Script
}

// New creates a scene and attaches it to the named container of host.
// It fails with ErrContainerNotFound if host has no such container.
func New(host Host, containerID string, opts Options) (*Scene, error) {
	if host == nil {
		return nil, fmt.Errorf("container %q: %w", containerID, ErrContainerNotFound)
	}
	container, ok := host.Container(containerID)
	if !ok {
		return nil, fmt.Errorf("container %q: %w", containerID, ErrContainerNotFound)
	}
	s, err := newScene(opts)
	if err != nil {
		return nil, err
	}
	if err := container.Attach(s); err != nil {
		return nil, fmt.Errorf("attach to %q: %w", containerID, err)
	}
	s.container = container
	s.log.Info("scene created",
		zap.String("container", containerID),
		zap.Int("width", s.width),
		zap.Int("height", s.height),
		zap.Strings("layers", s.layers.Names()),
	)
	return s, nil
}

// newScene builds a detached scene.
func newScene(opts Options) (*Scene, error) {
	if opts.Width < 0 || opts.Height < 0 {
		return nil, fmt.Errorf("size %dx%d: %w", opts.Width, opts.Height, ErrInvalidSize)
	}
	if opts.Width == 0 {
		opts.Width = defaultWidth
	}
	if opts.Height == 0 {
		opts.Height = defaultHeight
	}
	if len(opts.Layers) == 0 {
		opts.Layers = DefaultLayers
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.ScreenshotDir == "" {
		opts.ScreenshotDir = "screenshots"
	}

	id := uuid.New()
	log := opts.Logger.With(zap.Stringer("scene", id))

	root := NewContainer("root")
	layers, err := newLayerSet(root, opts.Layers)
	if err != nil {
		return nil, err
	}

	s := &Scene{
		id:            id,
		log:           log,
		clock:         opts.Clock,
		frames:        NewFrameLoop(opts.Clock),
		root:          root,
		layers:        layers,
		registry:      NewRegistry(),
		factories:     opts.Factories,
		annotations:   newAnnotationStore(),
		width:         opts.Width,
		height:        opts.Height,
		clearColor:    opts.ClearColor,
		debug:         opts.Debug,
		commands:      make([]RenderCommand, 0, defaultCommandCap),
		sortBuf:       make([]RenderCommand, 0, defaultCommandCap),
		ScreenshotDir: opts.ScreenshotDir,
	}
	if s.factories == nil {
		s.factories = Factories{}
	}
	s.scheduler = NewScheduler(s.clock, s.frames, s.registry, log)
	s.writes = new(errgroup.Group)
	s.writes.SetLimit(maxScreenshotWriters)

	if opts.Font != nil {
		s.font = opts.Font
	} else if f, err := LoadDefaultFont(defaultFontSize); err == nil {
		s.font = f
	} else {
		log.Warn("default font unavailable, text disabled", zap.Error(err))
	}
	return s, nil
}

// ID returns the scene's instance id.
func (s *Scene) ID() uuid.UUID { return s.id }

// Root returns the scene's root container node.
func (s *Scene) Root() *Node { return s.root }

// Layers returns the scene's layer set.
func (s *Scene) Layers() *LayerSet { return s.layers }

// Registry returns the component registry.
func (s *Scene) Registry() *Registry { return s.registry }

// Scheduler returns the animation scheduler.
func (s *Scene) Scheduler() *Scheduler { return s.scheduler }

// Clock returns the scene's time source.
func (s *Scene) Clock() Clock { return s.clock }

// Logger returns the scene's logger.
func (s *Scene) Logger() *zap.Logger { return s.log }

// Font returns the font used for annotations and labels, or nil.
func (s *Scene) Font() Font { return s.font }

// Destroyed reports whether Destroy has been called.
func (s *Scene) Destroyed() bool { return s.destroyed }

// missing logs a lookup miss.
func (s *Scene) missing(op string, id ComponentID) {
	s.log.Warn("component not found", zap.String("op", op), zap.Stringer("id", id))
}

// --- Creation ---

// SetFactory installs or replaces the factory for kind.
func (s *Scene) SetFactory(kind Kind, f ShapeFactory) {
	s.factories[kind] = f
}

// Create builds a drawable with the factory registered for kind, adds it
// to the factory's layer and registers it.
func (s *Scene) Create(kind Kind, g Geometry) (ComponentID, error) {
	if s.destroyed {
		return 0, ErrDestroyed
	}
	f, ok := s.factories[kind]
	if !ok {
		return 0, fmt.Errorf("create %q: %w", kind, ErrUnknownKind)
	}
	n := f.Build(g)
	if n == nil {
		return 0, fmt.Errorf("create %q: factory returned no drawable", kind)
	}
	if err := s.layers.Add(f.Layer(), n); err != nil {
		n.Dispose()
		return 0, fmt.Errorf("create %q: %w", kind, err)
	}
	id := s.registry.Register(n)
	if s.debug {
		s.debugCheckTreeDepth(n)
	}
	s.log.Debug("component created",
		zap.Stringer("id", id),
		zap.String("kind", string(kind)),
		zap.String("layer", f.Layer()))
	return id, nil
}

// CreateCell creates the cell. A zero position centers it on the surface and
// a zero size means 300x200.
func (s *Scene) CreateCell(g Geometry) (ComponentID, error) {
	if g.X == 0 && g.Y == 0 {
		g.X, g.Y = float64(s.width)/2, float64(s.height)/2
	}
	if g.Width == 0 {
		g.Width = defaultCellWidth
	}
	if g.Height == 0 {
		g.Height = defaultCellHeight
	}
	return s.Create(KindCell, g)
}

func (s *Scene) CreateNucleus(g Geometry) (ComponentID, error) {
	return s.Create(KindNucleus, g)
}

func (s *Scene) CreateMitochondria(g Geometry) (ComponentID, error) {
	return s.Create(KindMitochondria, g)
}

func (s *Scene) CreateGolgi(g Geometry) (ComponentID, error) {
	return s.Create(KindGolgi, g)
}

func (s *Scene) CreateER(g Geometry) (ComponentID, error) {
	return s.Create(KindER, g)
}

func (s *Scene) CreateLysosome(g Geometry) (ComponentID, error) {
	return s.Create(KindLysosome, g)
}

// --- Component operations ---

// Get returns the drawable for id, or nil.
func (s *Scene) Get(id ComponentID) *Node {
	return s.registry.Get(id)
}

// Animate tweens properties of the component id. See Scheduler.Animate.
func (s *Scene) Animate(id ComponentID, targets map[string]float64, d time.Duration) (*Task, error) {
	if s.destroyed {
		return nil, ErrDestroyed
	}
	return s.scheduler.Animate(id, targets, d)
}

// Remove detaches and disposes the component and any annotations attached
// to it. Tweens targeting it are dropped on their next tick. Reports
// whether id was registered.
func (s *Scene) Remove(id ComponentID) bool {
	s.annotations.removeTarget(id)
	if !s.registry.Remove(id) {
		s.missing("remove", id)
		return false
	}
	return true
}

// --- Surface ---

// ToggleLabels flips the labels layer's visibility and returns the new state.
func (s *Scene) ToggleLabels() bool {
	v := !s.layers.Visible(LayerLabels)
	_ = s.layers.SetVisible(LayerLabels, v)
	s.log.Debug("labels toggled", zap.Bool("visible", v))
	return v
}

// LabelsVisible reports whether the labels layer is shown.
func (s *Scene) LabelsVisible() bool {
	return s.layers.Visible(LayerLabels)
}

// Resize changes the surface size. Content is kept as is.
func (s *Scene) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("resize to %dx%d: %w", width, height, ErrInvalidSize)
	}
	s.width, s.height = width, height
	s.log.Debug("resized", zap.Int("width", width), zap.Int("height", height))
	return nil
}

// Size returns the surface size.
func (s *Scene) Size() (width, height int) {
	return s.width, s.height
}

// --- Lifecycle ---

// Update advances one frame: scripted steps first, then every pending
// frame callback, which drives the scheduler.
func (s *Scene) Update() error {
	if s.destroyed {
		return nil
	}
	if s.script != nil {
		s.script.step(s)
	}
	s.frames.Pump()
	updateWorldTransform(s.root, identityTransform, 1, false)
	return nil
}

// Destroy clears the running process, cancels all animations, empties both
// registries and detaches the scene from its container. Calling it again
// does nothing.
func (s *Scene) Destroy() {
	if s.destroyed {
		return
	}
	s.ClearProcessElements()
	s.scheduler.CancelAll()
	s.annotations.clear()
	s.registry.Clear()
	s.layers.clear()
	if s.container != nil {
		s.container.Detach(s)
		s.container = nil
	}
	s.destroyed = true
	if err := s.writes.Wait(); err != nil {
		s.log.Warn("screenshot write failed", zap.Error(err))
	}
	s.log.Info("scene destroyed")
}

// Draw renders the scene onto screen.
func (s *Scene) Draw(screen *ebiten.Image) {
	if s.destroyed {
		return
	}
	if s.clearColor.A > 0 {
		screen.Fill(s.clearColor.toRGBA())
	}
	s.render(screen)
	s.flushScreenshots(screen)
}
