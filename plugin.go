package eventlistener

import (
	"sync"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"github.com/yohamta/donburi/features/events"
)

// EventListener wires event bubbling for one event type: the On component
// users attach, the queue users publish to, and the dispatcher running the
// build, bubble, and cleanup phases once per cycle.
//
// Each event type gets its own EventListener, and their state is fully
// separate. The three phases of one type form a strict sequence within a
// cycle; callbacks run with exclusive access to the world, so nothing else
// may mutate the world while the pipeline runs.
type EventListener[E EntityEvent] struct {
	// On is the listener component type for E. Attach it with a value
	// built by Run or one of the other constructors.
	On *donburi.ComponentType[On[E]]
	// Events is the queue for E. Published events are dispatched on the
	// next Update; events published from inside a callback are therefore
	// seen one cycle later, whatever type they carry.
	Events *events.EventType[E]

	dispatcher *EventDispatcher[E]
}

// New creates the listener component type, event queue, and dispatcher for
// one event type.
func New[E EntityEvent]() *EventListener[E] {
	on := donburi.NewComponentType[On[E]]()
	return &EventListener[E]{
		On:         on,
		Events:     events.NewEventType[E](),
		dispatcher: newEventDispatcher[E](on),
	}
}

// Install subscribes the dispatcher to the event queue and joins the world's
// shared dispatch pipeline, registering the pipeline as a system on first
// use. All installed types drain their queues before any type's chains run,
// so an event published from inside a callback lands on the next cycle no
// matter which type it targets or in what order the types were installed.
//
// One EventListener serves one world; install a fresh one per world.
// Installing the same EventListener twice panics.
func (l *EventListener[E]) Install(e *ecs.ECS) *EventListener[E] {
	if e == nil {
		panic("eventlistener: Install requires an ECS")
	}
	p := pipelineFor(e.World)
	for _, r := range p.runners {
		if r == runner(l) {
			panic("eventlistener: listener already installed")
		}
	}
	l.Events.Subscribe(e.World, l.collect)
	p.runners = append(p.runners, l)
	if !p.registered {
		p.registered = true
		e.AddSystem(p.update)
	}
	return l
}

// collect feeds one queued event to the build phase. It runs once per event
// in arrival order while ProcessEvents drains the queue.
func (l *EventListener[E]) collect(w donburi.World, event E) {
	l.dispatcher.build(w, event)
}

// Pipeline phases for one event type. The bubble and cleanup phases are
// skipped entirely on cycles where no queued event reached a listener.

func (l *EventListener[E]) drain(w donburi.World) {
	l.dispatcher.beginCycle()
	l.Events.ProcessEvents(w)
}

func (l *EventListener[E]) bubble(w donburi.World) {
	if len(l.dispatcher.events) == 0 {
		return
	}
	l.dispatcher.bubbleEvents(w)
}

func (l *EventListener[E]) restore(w donburi.World) {
	if len(l.dispatcher.graph) == 0 {
		return
	}
	l.dispatcher.cleanup(w)
}

// runner is one event type's slice of the pipeline.
type runner interface {
	drain(w donburi.World)
	bubble(w donburi.World)
	restore(w donburi.World)
}

// pipeline sequences every installed event type through the cycle's phases:
// all queues drain before any chain runs, and all chains finish before any
// callback is checked back in. Systems run single-threaded, so the runner
// list only needs locking at install time.
type pipeline struct {
	runners    []runner
	registered bool
}

func (p *pipeline) update(e *ecs.ECS) {
	p.run(e.World)
}

func (p *pipeline) run(w donburi.World) {
	for _, r := range p.runners {
		r.drain(w)
	}
	for _, r := range p.runners {
		r.bubble(w)
	}
	for _, r := range p.runners {
		r.restore(w)
	}
}

var (
	pipelinesMu sync.Mutex
	pipelines   = map[donburi.World]*pipeline{}
)

func pipelineFor(w donburi.World) *pipeline {
	pipelinesMu.Lock()
	defer pipelinesMu.Unlock()
	p, ok := pipelines[w]
	if !ok {
		p = &pipeline{}
		pipelines[w] = p
	}
	return p
}
