package eventlistener

import (
	"fmt"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"go.uber.org/zap"
)

// On is an event listener component holding the callback that is triggered
// when an EntityEvent targets the entity it is attached to, or bubbles past
// it. Attach it through the component type exposed by EventListener.
//
// Run is the building block; the remaining constructors cover the common
// cases and are all built on top of it.
type On[E EntityEvent] struct {
	callback CallbackSystem[E]
}

// Run constructs a listener that executes the callback every time it is
// triggered.
func Run[E EntityEvent](callback Callback[E]) On[E] {
	return On[E]{callback: newCallbackSystem(callback)}
}

// RunFunc is Run for a plain function.
func RunFunc[E EntityEvent](callback func(w donburi.World, input *ListenerInput[E], commands *Commands)) On[E] {
	return Run[E](CallbackFunc[E](callback))
}

// AddCommand constructs a listener that queues a single deferred command
// built from the listener input.
func AddCommand[E EntityEvent](build func(input *ListenerInput[E]) Command) On[E] {
	return RunFunc(func(_ donburi.World, input *ListenerInput[E], commands *Commands) {
		commands.Add(build(input))
	})
}

// WithCommands constructs a listener with access to the command buffer.
func WithCommands[E EntityEvent](f func(input *ListenerInput[E], commands *Commands)) On[E] {
	return RunFunc(func(_ donburi.World, input *ListenerInput[E], commands *Commands) {
		f(input, commands)
	})
}

// TargetCommands constructs a listener with deferred mutation access to the
// target entity.
func TargetCommands[E EntityEvent](f func(input *ListenerInput[E], target EntityCommands)) On[E] {
	return RunFunc(func(_ donburi.World, input *ListenerInput[E], commands *Commands) {
		f(input, commands.Entity(input.Target()))
	})
}

// ListenerCommands constructs a listener with deferred mutation access to
// the listening entity.
func ListenerCommands[E EntityEvent](f func(input *ListenerInput[E], listener EntityCommands)) On[E] {
	return RunFunc(func(_ donburi.World, input *ListenerInput[E], commands *Commands) {
		f(input, commands.Entity(input.Listener()))
	})
}

// TargetInsert constructs a listener that inserts the given components on
// the target entity every time it is triggered.
func TargetInsert[E EntityEvent](components ...donburi.IComponentType) On[E] {
	return RunFunc(func(_ donburi.World, input *ListenerInput[E], commands *Commands) {
		commands.Entity(input.Target()).Insert(components...)
	})
}

// TargetRemove constructs a listener that removes the given components from
// the target entity every time it is triggered.
func TargetRemove[E EntityEvent](components ...donburi.IComponentType) On[E] {
	return RunFunc(func(_ donburi.World, input *ListenerInput[E], commands *Commands) {
		commands.Entity(input.Target()).Remove(components...)
	})
}

// ListenerInsert constructs a listener that inserts the given components on
// the listening entity every time it is triggered.
func ListenerInsert[E EntityEvent](components ...donburi.IComponentType) On[E] {
	return RunFunc(func(_ donburi.World, input *ListenerInput[E], commands *Commands) {
		commands.Entity(input.Listener()).Insert(components...)
	})
}

// ListenerRemove constructs a listener that removes the given components
// from the listening entity every time it is triggered.
func ListenerRemove[E EntityEvent](components ...donburi.IComponentType) On[E] {
	return RunFunc(func(_ donburi.World, input *ListenerInput[E], commands *Commands) {
		commands.Entity(input.Listener()).Remove(components...)
	})
}

// TargetComponent constructs a listener that mutates a component on the
// target entity. A missing component is logged and the invocation becomes a
// no-op.
func TargetComponent[E EntityEvent, C any](ctype *donburi.ComponentType[C], f func(input *ListenerInput[E], component *C)) On[E] {
	return RunFunc(func(w donburi.World, input *ListenerInput[E], _ *Commands) {
		mutateComponent(w, input, input.Target(), ctype, f)
	})
}

// ListenerComponent constructs a listener that mutates a component on the
// listening entity. A missing component is logged and the invocation
// becomes a no-op.
func ListenerComponent[E EntityEvent, C any](ctype *donburi.ComponentType[C], f func(input *ListenerInput[E], component *C)) On[E] {
	return RunFunc(func(w donburi.World, input *ListenerInput[E], _ *Commands) {
		mutateComponent(w, input, input.Listener(), ctype, f)
	})
}

// SendEvent constructs a listener that publishes an event of another type,
// built from the listener input, every time it is triggered. The published
// event is dispatched on the next cycle.
func SendEvent[E EntityEvent, F any](eventType *events.EventType[F], build func(input *ListenerInput[E]) F) On[E] {
	return RunFunc(func(w donburi.World, input *ListenerInput[E], _ *Commands) {
		eventType.Publish(w, build(input))
	})
}

// take moves the callback out of this listener, leaving an empty one
// behind.
func (on *On[E]) take() CallbackSystem[E] {
	return on.callback.take()
}

func mutateComponent[E EntityEvent, C any](w donburi.World, input *ListenerInput[E], entity donburi.Entity, ctype *donburi.ComponentType[C], f func(*ListenerInput[E], *C)) {
	if w.Valid(entity) {
		entry := w.Entry(entity)
		if entry.HasComponent(ctype) {
			f(input, ctype.Get(entry))
			return
		}
	}
	logger.Warn("component not found during event callback",
		zap.String("component", fmt.Sprintf("%T", *new(C))),
		zap.String("event", fmt.Sprintf("%T", input.Event)),
		zap.Any("entity", entity),
	)
}
