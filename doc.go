// Package domo is a retained-mode 2D scene renderer built around a batching
// sprite renderer.
//
// Entities carry a transform, a draw-order index and a list of behaviors.
// The one behavior that draws, [SpriteRenderer], supplies a flat color or a
// texture region; the [Renderer] packs those quads into fixed-capacity
// batches of one draw order and at most [MaxBatchTextures] textures, and
// flushes every batch with a single draw call per frame in ascending draw
// order.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates an Ebitengine
// window and game loop for you:
//
//	scene := domo.NewScene(domo.SceneConfig{})
//	scene.Init(func(s *domo.Scene) error {
//		tex, err := s.Assets().Texture("assets/images/hero.png")
//		if err != nil {
//			return err
//		}
//		hero := domo.NewEntity("hero", domo.NewTransform(domo.Vec2{X: 100, Y: 100}, domo.Vec2{X: 64, Y: 64}), 0)
//		hero.AddBehavior(domo.NewTextureSprite(domo.NewSprite(tex)))
//		return s.AddEntity(hero)
//	})
//	if err := domo.Run(scene, domo.RunConfig{Title: "My Game", Width: 1280, Height: 720}); err != nil {
//		log.Fatal(err)
//	}
//
// For full control, create a [Device] yourself (the glgpu sub-package
// provides an OpenGL 4.1 one), start the scene with an [Assets] cache on it
// and call [Scene.Update] and [Scene.Draw] from your own loop.
//
// # Coordinates
//
// The [OrthoCamera] maps world units with Y pointing up. Its position is the
// bottom-left corner of the view. A quad covers
// Position .. Position+Scale of its entity's [Transform]. Texture
// coordinates are normalized with v = 0 at the bottom of the image.
//
// # Batching
//
// A new batch is only created when no existing batch of the same draw order
// has room for the quad and a slot for its texture. Batches re-upload their
// whole vertex buffer every frame. Texture slots are never reclaimed while a
// batch lives.
//
// # Tiles and particles
//
// [TileLayer] turns a grid of [SpriteSheet] cells into one entity per tile,
// and [ParticleEmitter] keeps a fixed pool of quad entities. Both feed the
// same batches as hand-made entities, so a layer of one sheet costs one
// texture slot.
//
// # Errors
//
// Asset failures are reported as [*AssetError] and abort [Scene.Start]
// instead of the process. Misuse such as adding an entity to two scenes
// panics with a "domo:" prefix.
//
// # Logging
//
// domo logs through a [go.uber.org/zap] logger installed with [SetLogger].
// The default logger discards everything.
package domo
