// Package biovis draws annotated, animated diagrams of a biological cell on
// [Ebitengine].
//
// A [Scene] is the engine context. It owns the node tree, a fixed set of
// named layers, a component registry, an annotation registry and a
// frame-driven animation scheduler. Nothing is global; two scenes share no
// state.
//
// # Quick start
//
// Attach a scene to a [Viewport] and hand the viewport to [Run]:
//
//	vp := biovis.NewViewport()
//	scene, err := biovis.New(biovis.HostMap{"cell": vp}, "cell", biovis.Options{
//		Width: 800, Height: 600,
//		Factories: organelle.Catalog(1),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	cell, _ := scene.CreateCell(biovis.Geometry{})
//	scene.AddAnnotation(cell, "Cell membrane", biovis.SideRight)
//	biovis.Run(vp, biovis.RunConfig{Title: "Cell"})
//
// # Components
//
// Drawables are [Node] trees built by a [ShapeFactory] per [Kind]. The
// scene adds each one to its factory's layer and hands back a
// [ComponentID]. Everything else, from annotations to tweens, refers to
// drawables by id. Operations on an id that is not registered log a
// warning and return an error wrapping [ErrComponentNotFound]; they never
// touch the scene graph.
//
// # Layers
//
// Paint order is layer order, then insertion order inside a layer. The
// default layers, back to front, are background, membrane, cytoplasm,
// organelles, molecules, labels, interactions and annotations.
//
// # Animation
//
// [Scene.Animate] interpolates numeric properties such as "opacity"
// linearly over a duration, one step per frame, using [gween] tweens.
// Frames come from a [FrameLoop] pumped by [Scene.Update]; time comes from
// the scene's [Clock]. With a [ManualClock] every animation, and every
// process scenario built on them, can be stepped deterministically.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package biovis
