package eventlistener

import "github.com/yohamta/donburi"

// ListenerInput carries the event currently bubbling through the hierarchy
// into each callback it triggers. One input is created per dispatched event
// and shared by the whole chain, so payload mutations made by a listener
// are seen by the listeners above it.
type ListenerInput[E EntityEvent] struct {
	// Event is the payload. Callbacks may mutate it.
	Event E

	listener  donburi.Entity
	propagate bool
}

// Target returns the entity the event originally targeted, before it
// started bubbling.
func (l *ListenerInput[E]) Target() donburi.Entity {
	return l.Event.Target()
}

// Listener returns the entity whose listener is currently being triggered.
// This is the target itself for the first callback of a chain, and an
// ancestor for every callback after it.
func (l *ListenerInput[E]) Listener() donburi.Entity {
	return l.listener
}

// StopPropagation stops the event from bubbling up to the next parent.
// Other events dispatched this cycle are unaffected.
func (l *ListenerInput[E]) StopPropagation() {
	l.propagate = false
}
