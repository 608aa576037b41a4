// Package ecs provides ECS adapters for stagehand's interaction events.
//
// The primary adapter is [NewDonburiStore], which bridges stagehand
// interaction events (pointer, click, key) and action completions into a
// [Donburi] world as typed events. Subscribe to [InteractionEventType] in
// your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	director.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
