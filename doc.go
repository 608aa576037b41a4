// Package stagehand is a retained-mode 2D scene graph with an action engine,
// a fixed-step frame clock and a pluggable pixel surface, rendered through
// [Ebitengine] or any [image/draw.Image].
//
// # Quick start
//
// The simplest way to get started is [RunEbiten], which opens a window and
// drives a [Director] on ebiten's game loop:
//
//	d := stagehand.NewDirector(stagehand.Config{
//		Title: "My Game", Width: 640, Height: 480, ScaleMode: stagehand.ScaleFit,
//	})
//	// ... add nodes to d.Root() ...
//	if err := stagehand.RunEbiten(d); err != nil {
//		log.Fatal(err)
//	}
//
// Headless programs and tests drive the director themselves with
// [Director.Step] over an [ImageSurface], or use [Director.Run] with its own
// ticker.
//
// # Scene graph
//
// Every visual element is a [Node]. Nodes form a tree rooted at
// [Director.Root]; children inherit their parent's transform and opacity and
// are drawn after it, in child order. A node draws its box at (0, 0, width,
// height) in its own space. Position is where the node's origin sits in the
// parent box; the origin is a fraction of the node size.
//
//	panel := stagehand.NewRect("panel", 200, 120, stagehand.Color{R: 0.2, G: 0.2, B: 0.3, A: 1})
//	panel.SetOrigin(0.5, 0.5)
//	panel.SetAlignX(stagehand.AlignCenter)
//	panel.SetAlignY(stagehand.AlignCenter)
//	d.Root().AddChild(panel)
//
// Edge pins ([Node.SetLeft] and friends), percent sizes and alignment keep
// a node sized and placed relative to its parent as the parent resizes.
// Conflicting constraints on one axis fail with [ErrLayoutConflict].
//
// # Actions
//
// Each node has one [ActionStep], a queue of behaviors run in order:
//
//	panel.Action().
//		To(0.5, stagehand.Targets{stagehand.AttrOpacity: {Dest: 1}}).
//		Wait(1).
//		Call(func() { panel.Release(true) })
//	panel.RunAction()
//
// Steps are advanced once per tick by the director's [ActionEngine];
// [ActionListener] observes groups of steps finishing.
//
// # Declarative scenes
//
// [LoadConfig] and [LoadScene] decode YAML descriptions of the director
// configuration and of node trees, including queued actions. Textures are
// resolved by name through a [TextureSource] such as an [Atlas].
//
// # ECS integration
//
// Interaction events and action completions of nodes with a non-zero
// EntityID are forwarded to an [EntityStore]; the stagehand/ecs package
// provides a [Donburi] adapter.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package stagehand
