package ecs

import (
	"github.com/phanxgames/stagehand"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for stagehand interaction
// events. Subscribe to this in your ECS systems to receive pointer, click,
// key and action-completion events.
var InteractionEventType = events.NewEventType[stagehand.InteractionEvent]()

// DonburiStore is an EntityStore backed by a Donburi world.
type DonburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by world. Events are
// published to InteractionEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) *DonburiStore {
	return &DonburiStore{world: world}
}

// World returns the backing world.
func (s *DonburiStore) World() donburi.World {
	return s.world
}

// EmitEvent implements stagehand.EntityStore.
func (s *DonburiStore) EmitEvent(event stagehand.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

// Bind assigns entry's entity ID to n so that n's events are forwarded with
// it. Returns n for chaining.
func Bind(n *stagehand.Node, entry *donburi.Entry) *stagehand.Node {
	n.EntityID = uint32(entry.Entity().Id())
	return n
}
