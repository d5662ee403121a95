package eventlistener

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/hierarchy"
)

// Command is a deferred mutation of the world.
type Command func(w donburi.World)

// Commands queues structural world mutations issued from inside callbacks.
// The dispatcher flushes the queue after each callback invocation, before
// the next listener in the chain runs, so spawns, despawns, and component
// edits land at a deterministic point.
type Commands struct {
	queue []Command
}

// Add queues a command.
func (c *Commands) Add(cmd Command) {
	c.queue = append(c.queue, cmd)
}

// Entity returns a builder that queues mutations of a single entity.
func (c *Commands) Entity(entity donburi.Entity) EntityCommands {
	return EntityCommands{commands: c, entity: entity}
}

// Flush applies all queued commands in order and empties the queue.
// A command may queue further commands; those run in the same flush.
func (c *Commands) Flush(w donburi.World) {
	for i := 0; i < len(c.queue); i++ {
		c.queue[i](w)
	}
	c.queue = c.queue[:0]
}

// EntityCommands queues deferred mutations for one entity. A mutation whose
// entity is no longer valid at flush time is dropped.
type EntityCommands struct {
	commands *Commands
	entity   donburi.Entity
}

// Insert adds the given components to the entity. Components the entity
// already has are left untouched.
func (e EntityCommands) Insert(components ...donburi.IComponentType) EntityCommands {
	entity := e.entity
	e.commands.Add(func(w donburi.World) {
		if !w.Valid(entity) {
			return
		}
		entry := w.Entry(entity)
		for _, c := range components {
			if !entry.HasComponent(c) {
				entry.AddComponent(c)
			}
		}
	})
	return e
}

// Remove removes the given components from the entity.
func (e EntityCommands) Remove(components ...donburi.IComponentType) EntityCommands {
	entity := e.entity
	e.commands.Add(func(w donburi.World) {
		if !w.Valid(entity) {
			return
		}
		entry := w.Entry(entity)
		for _, c := range components {
			if entry.HasComponent(c) {
				entry.RemoveComponent(c)
			}
		}
	})
	return e
}

// AppendChild parents the given entity under this one.
func (e EntityCommands) AppendChild(child donburi.Entity) EntityCommands {
	entity := e.entity
	e.commands.Add(func(w donburi.World) {
		if !w.Valid(entity) || !w.Valid(child) {
			return
		}
		hierarchy.AppendChild(w.Entry(entity), w.Entry(child))
	})
	return e
}

// Despawn removes the entity from the world.
func (e EntityCommands) Despawn() {
	entity := e.entity
	e.commands.Add(func(w donburi.World) {
		if w.Valid(entity) {
			w.Remove(entity)
		}
	})
}
