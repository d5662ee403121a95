package eventlistener

import "github.com/yohamta/donburi"

// Callback is a unit of user logic run when a listener is triggered. It
// receives the world, the input for the event being bubbled, and a command
// buffer. Commands queued during the run are applied after the callback
// returns, before the next listener in the chain runs.
//
// Callbacks run with exclusive access to the world and may mutate anything
// in it, including spawning and despawning entities.
type Callback[E EntityEvent] interface {
	Run(w donburi.World, input *ListenerInput[E], commands *Commands)
}

// Initializer is implemented by callbacks that need one-time setup against
// the world before their first run.
type Initializer interface {
	Initialize(w donburi.World)
}

// CallbackFunc adapts a plain function to the Callback interface.
type CallbackFunc[E EntityEvent] func(w donburi.World, input *ListenerInput[E], commands *Commands)

// Run calls f.
func (f CallbackFunc[E]) Run(w donburi.World, input *ListenerInput[E], commands *Commands) {
	f(w, input, commands)
}

type callbackState uint8

const (
	// The callback has been removed, because it is currently checked out
	// into the listener graph for event bubbling.
	callbackEmpty callbackState = iota
	// The callback has never run.
	callbackNew
	// The callback has run at least once.
	callbackInitialized
)

// CallbackSystem holds a callback together with its lifecycle state. The
// zero value is the empty state and running it is a no-op.
type CallbackSystem[E EntityEvent] struct {
	state    callbackState
	callback Callback[E]
}

func newCallbackSystem[E EntityEvent](callback Callback[E]) CallbackSystem[E] {
	return CallbackSystem[E]{state: callbackNew, callback: callback}
}

// run executes the held callback and flushes the command buffer it was
// given. A callback that has never run is initialized first. The slot ends
// up in the initialized state unless it was empty to begin with.
func (c *CallbackSystem[E]) run(w donburi.World, input *ListenerInput[E], commands *Commands) {
	taken := c.take()
	switch taken.state {
	case callbackEmpty:
		return
	case callbackNew:
		if init, ok := taken.callback.(Initializer); ok {
			init.Initialize(w)
		}
	}
	taken.callback.Run(w, input, commands)
	commands.Flush(w)
	*c = CallbackSystem[E]{state: callbackInitialized, callback: taken.callback}
}

// take moves the callback out, leaving the empty state behind.
func (c *CallbackSystem[E]) take() CallbackSystem[E] {
	taken := *c
	*c = CallbackSystem[E]{}
	return taken
}

func (c *CallbackSystem[E]) isEmpty() bool {
	return c.state == callbackEmpty
}
