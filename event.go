package eventlistener

import "github.com/yohamta/donburi"

// EntityEvent is an event that targets a specific entity, e.g. the entity
// that was clicked on.
//
// Events are plain structs copied by value. The same payload instance is
// shared by every listener in one chain, so a listener's mutations are
// visible to the listeners above it.
type EntityEvent interface {
	// Target returns the entity this event is about.
	Target() donburi.Entity
	// CanBubble reports whether the event should bubble up the entity
	// hierarchy, starting from the target. When false, only the target's
	// own listener is triggered.
	CanBubble() bool
}

// BubblingEvent stores a target entity and bubbles by default. Embed it in
// an event struct to satisfy EntityEvent without writing the accessors:
//
//	type Click struct {
//		eventlistener.BubblingEvent
//		Button int
//	}
//
// Override CanBubble on the outer type to declare a non-bubbling event.
type BubblingEvent struct {
	Entity donburi.Entity
}

// At returns a BubblingEvent targeting the given entity.
func At(target donburi.Entity) BubblingEvent {
	return BubblingEvent{Entity: target}
}

// Target returns the targeted entity.
func (e BubblingEvent) Target() donburi.Entity { return e.Entity }

// CanBubble is true for BubblingEvent.
func (e BubblingEvent) CanBubble() bool { return true }
