// Package s2d is a small retained-mode 2D engine for [Ebitengine].
//
// A scene is a tree of entities. Every [Entity] owns one [Transform] that
// places it relative to its parent, plus any number of components. What a
// component does is decided by the interfaces it implements: a [Behavior] is
// updated every frame, a [Drawer] emits textured quads, a [LayoutUpdater]
// resizes its entity after behaviors ran, and an [Interactable] receives
// pointer presses. Each frame runs input, behaviors, layouts, render and
// the deferred destruction sweep, in that order, on one goroutine.
//
// # Quick start
//
//	engine, err := s2d.NewEngine(s2d.DefaultConfig(), s2d.Options{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	engine.NewCameraEntity()
//	tex := engine.Loader().Texture("assets/test.png", true)
//	sprite := engine.NewTextureEntity(tex)
//	sprite.Transform().SetLocalPosition(100, 100)
//	log.Fatal(s2d.Run(engine, s2d.RunConfig{}))
//
// For full control, implement [ebiten.Game] yourself and call
// [Engine.Update] and [Engine.Draw] from it, binding the screen with
// [EbitenDevice.SetTarget] before Draw.
//
// # Rendering
//
// Drawers write into [RenderCommands], which packs quads into one vertex
// arena and one index arena and issues a single indexed draw call per run of
// quads sharing a texture. The arenas are flushed when full or when the
// texture changes. The packed batches go to a [Device]: [EbitenDevice] draws
// them with a Kage shader, [HeadlessDevice] only counts and records them.
//
// # Assets
//
// [Loader] returns textures and fonts immediately and fills them in from
// background goroutines. A texture that has not arrived yet is a 1x1 white
// placeholder; fonts draw nothing until their metrics and page arrive.
//
// # Destruction
//
// [Entity.Destroy] queues the entity. At the end of the frame it and all its
// descendants are torn down, children first, and every component's
// OnDestroy hook runs. Destroying from inside a hook tears down at once.
//
// [Ebitengine]: https://ebitengine.org
package s2d
