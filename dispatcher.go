package eventlistener

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/hierarchy"
)

// EventDispatcher builds and executes the listener callback graph for one
// event type.
//
// The build phase checks each callback out of its On component before
// anything runs, because running a callback hands it mutable access to the
// same world its component is stored in. The cleanup phase checks the
// callbacks back in once the cycle's chains have finished.
//
// Traversing the hierarchy for each event can visit the same entity many
// times, so the chains are stored as a graph with one node per listening
// entity. A node's next pointer jumps straight to the nearest ancestor that
// also listens, which lets later events in the same cycle reuse paths that
// earlier events already mapped instead of re-walking the tree.
type EventDispatcher[E EntityEvent] struct {
	on *donburi.ComponentType[On[E]]

	// Events published this cycle that reached at least one listener,
	// paired with the first listener entity of their chain.
	events []pendingEvent[E]
	// One node per entity with a listener reachable this cycle.
	graph map[donburi.Entity]*listenerNode[E]

	// Targets whose entire branch held no listener. Later events aimed at
	// the same target skip the walk.
	deadBranches map[donburi.Entity]struct{}
	// Targets already resolved to their first listener this cycle.
	targetCache map[donburi.Entity]donburi.Entity

	commands Commands
}

type pendingEvent[E EntityEvent] struct {
	event         E
	firstListener donburi.Entity
}

type listenerNode[E EntityEvent] struct {
	callback CallbackSystem[E]
	// The nearest ancestor that also holds a listener, when hasNext.
	next    donburi.Entity
	hasNext bool
}

func newEventDispatcher[E EntityEvent](on *donburi.ComponentType[On[E]]) *EventDispatcher[E] {
	return &EventDispatcher[E]{
		on:           on,
		graph:        make(map[donburi.Entity]*listenerNode[E]),
		deadBranches: make(map[donburi.Entity]struct{}),
		targetCache:  make(map[donburi.Entity]donburi.Entity),
	}
}

// beginCycle resets cycle-scoped state, keeping allocated memory.
func (d *EventDispatcher[E]) beginCycle() {
	d.events = d.events[:0]
	clear(d.graph)
	clear(d.deadBranches)
	clear(d.targetCache)
}

// build records the listener chain for one published event. Events are fed
// in arrival order while the queue drains.
func (d *EventDispatcher[E]) build(w donburi.World, event E) {
	target := event.Target()
	if _, dead := d.deadBranches[target]; dead {
		return
	}
	if first, ok := d.targetCache[target]; ok {
		d.events = append(d.events, pendingEvent[E]{event: event, firstListener: first})
		return
	}
	d.buildBranch(w, event)
}

// buildBranch walks from the event's target up through the parents, adding
// every listener it finds to the graph. Only entities with listeners become
// nodes.
func (d *EventDispatcher[E]) buildBranch(w donburi.World, event E) {
	node := event.Target()
	var prev *listenerNode[E]
	var first donburi.Entity
	hasFirst := false

	for {
		if _, mapped := d.graph[node]; mapped {
			// An earlier event this cycle already mapped this entity and
			// everything above it.
			if !hasFirst {
				first, hasFirst = node, true
			}
			if prev != nil && !prev.hasNext {
				// Splice the freshly mapped path into the existing chain so
				// the bubble continues past the merge point.
				prev.next, prev.hasNext = node, true
			}
			break
		}

		if !w.Valid(node) {
			// The entity was removed after the event targeting it was
			// published. Abandon the walk.
			break
		}
		entry := w.Entry(node)
		if entry.HasComponent(d.on) {
			n := &listenerNode[E]{callback: d.on.Get(entry).take()}
			d.graph[node] = n
			if prev != nil && !prev.hasNext {
				prev.next, prev.hasNext = node, true
			}
			if !hasFirst {
				first, hasFirst = node, true
			}
			prev = n
		}

		parent, ok := hierarchy.GetParent(entry)
		if !ok {
			// Bubble reached the surface. Remember fruitless branches so
			// other events targeting them exit early.
			if !hasFirst {
				d.deadBranches[event.Target()] = struct{}{}
			}
			break
		}
		if !event.CanBubble() {
			break
		}
		node = parent.Entity()
	}

	if hasFirst {
		d.events = append(d.events, pendingEvent[E]{event: event, firstListener: first})
		d.targetCache[event.Target()] = first
	}
}

// bubbleEvents runs the chains recorded this cycle, in arrival order. Each
// chain gets a fresh input; the propagate flag and payload mutations only
// live for that chain.
func (d *EventDispatcher[E]) bubbleEvents(w donburi.World) {
	for i := range d.events {
		pending := &d.events[i]
		canBubble := pending.event.CanBubble()
		input := &ListenerInput[E]{
			Event:     pending.event,
			listener:  pending.firstListener,
			propagate: true,
		}
		node := pending.firstListener
		for {
			ln, ok := d.graph[node]
			if !ok {
				break
			}
			input.listener = node
			ln.callback.run(w, input, &d.commands)
			if !canBubble || !input.propagate {
				break
			}
			if !ln.hasNext {
				// Bubble reached the surface.
				break
			}
			node = ln.next
		}
	}
	d.events = d.events[:0]
}

// cleanup checks every callback taken during build back into the component
// it came from. A callback that replaced itself mid-cycle wins: the taken
// callback is discarded when the live slot is no longer empty, and when the
// entity or its component is gone.
func (d *EventDispatcher[E]) cleanup(w donburi.World) {
	for entity, node := range d.graph {
		if w.Valid(entity) {
			entry := w.Entry(entity)
			if entry.HasComponent(d.on) {
				listener := d.on.Get(entry)
				if listener.callback.isEmpty() {
					listener.callback = node.callback
				}
			}
		}
		delete(d.graph, entity)
	}
}
