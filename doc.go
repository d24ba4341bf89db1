// Package bauble is the render scheduler of a live shader tool for
// [Ebitengine].
//
// A [Session] owns the state of one view: a [Camera] (rotation, zoom, view
// mode), a [Timer] (playback time within a loop window), a script-dirty flag
// and the result of the last evaluation. All of it lives in [Signal] values
// on a shared [Graph]. Any change schedules a frame on the [RenderLoop], and
// a frame re-evaluates the script only when it changed, then draws. While
// the shader is animated the loop keeps itself running; otherwise it goes
// idle until the next change.
//
// # Quick start
//
// The simplest way to get started is [NewGame] and [Run], which host a
// session in a window with a Kage shader renderer:
//
//	game, err := bauble.NewGame(bauble.RunConfig{Title: "bauble"},
//		script.NewEvaluator(), bauble.StaticScript(script.Default), nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	log.Fatal(bauble.Run(game))
//
// For full control, build a [Session] with your own [Evaluator], [Renderer]
// and [FrameSource], then call [Session.Update] and fire the frame source
// once per host tick:
//
//	frames := &bauble.FrameQueue{}
//	s, err := bauble.NewSession(bauble.Config{
//		Evaluator: ev, Renderer: r, Script: src, Frames: frames,
//	})
//	// each tick:
//	s.Update(now, input)
//	frames.Fire(now)
//
// # Signals
//
// Writes are batched with [Graph.Batch]: effects observe one consistent
// state and run once per batch no matter how many of their dependencies
// changed. [Graph.OnEffect] depends on an explicit list of sources;
// [Graph.Effect] tracks whatever it reads with [Signal.Get]. A [Selector]
// re-runs only the effects watching the choices that changed.
//
// # Input
//
// Pointer drags orbit the camera and pinch gestures zoom it. A drag that
// starts within [GestureDebounce] of a gesture ending is ignored, so lifting
// the fingers after a pinch does not jerk the view. Scripted input can be
// injected with [Session.InjectDrag] and friends, or replayed from a JSON
// script with [LoadTestScript].
//
// [Ebitengine]: https://ebitengine.org
package bauble
