package eventlistener

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type health struct {
	Value int
}

func TestTargetInsertAndRemove(t *testing.T) {
	e := ecs.NewECS(donburi.NewWorld())
	w := e.World
	l := New[treeEvent]().Install(e)
	marker := donburi.NewTag()

	chain := spawnChain(w, 1)
	attach(w, l, chain[0], TargetInsert[treeEvent](marker))

	l.Events.Publish(w, treeEvent{BubblingEvent: At(chain[0])})
	e.Update()
	require.True(t, w.Entry(chain[0]).HasComponent(marker))

	l.On.SetValue(w.Entry(chain[0]), TargetRemove[treeEvent](marker))
	l.Events.Publish(w, treeEvent{BubblingEvent: At(chain[0])})
	e.Update()
	require.False(t, w.Entry(chain[0]).HasComponent(marker))
}

func TestListenerInsertOnBubblingAncestor(t *testing.T) {
	e := ecs.NewECS(donburi.NewWorld())
	w := e.World
	l := New[treeEvent]().Install(e)
	marker := donburi.NewTag()

	chain := spawnChain(w, 2) // listener on the root, event targets the leaf
	attach(w, l, chain[0], ListenerInsert[treeEvent](marker))

	l.Events.Publish(w, treeEvent{BubblingEvent: At(chain[1])})
	e.Update()

	assert.True(t, w.Entry(chain[0]).HasComponent(marker))
	assert.False(t, w.Entry(chain[1]).HasComponent(marker))
}

func TestTargetComponentMutates(t *testing.T) {
	e := ecs.NewECS(donburi.NewWorld())
	w := e.World
	l := New[treeEvent]().Install(e)
	healthComponent := donburi.NewComponentType[health]()

	chain := spawnChain(w, 1)
	entry := w.Entry(chain[0])
	entry.AddComponent(healthComponent)
	healthComponent.SetValue(entry, health{Value: 10})
	attach(w, l, chain[0], TargetComponent(healthComponent, func(input *ListenerInput[treeEvent], c *health) {
		c.Value -= input.Event.Depth
	}))

	l.Events.Publish(w, treeEvent{BubblingEvent: At(chain[0]), Depth: 3})
	e.Update()

	assert.Equal(t, 7, healthComponent.Get(w.Entry(chain[0])).Value)
}

func TestTargetComponentMissingIsLoggedNoOp(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	e := ecs.NewECS(donburi.NewWorld())
	w := e.World
	l := New[treeEvent]().Install(e)
	healthComponent := donburi.NewComponentType[health]()

	chain := spawnChain(w, 1)
	attach(w, l, chain[0], TargetComponent(healthComponent, func(_ *ListenerInput[treeEvent], c *health) {
		c.Value = -1
	}))

	l.Events.Publish(w, treeEvent{BubblingEvent: At(chain[0])})
	require.NotPanics(t, func() { e.Update() })

	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "component not found")
}

func TestSendEventForwardsToOtherType(t *testing.T) {
	e := ecs.NewECS(donburi.NewWorld())
	w := e.World
	tree := New[treeEvent]().Install(e)
	focus := New[focusEvent]().Install(e)

	chain := spawnChain(w, 1)
	var got []string
	attach(w, tree, chain[0], SendEvent(focus.Events, func(input *ListenerInput[treeEvent]) focusEvent {
		return focusEvent{Entity: input.Target()}
	}))
	attach(w, focus, chain[0], record[focusEvent](&got, "focused"))

	tree.Events.Publish(w, treeEvent{BubblingEvent: At(chain[0])})
	e.Update()
	require.Empty(t, got, "forwarded event belongs to the next cycle")

	e.Update()
	require.Equal(t, []string{"focused"}, got)
}

func TestTargetCommandsDespawn(t *testing.T) {
	e := ecs.NewECS(donburi.NewWorld())
	w := e.World
	l := New[treeEvent]().Install(e)

	chain := spawnChain(w, 2)
	attach(w, l, chain[0], TargetCommands(func(_ *ListenerInput[treeEvent], target EntityCommands) {
		target.Despawn()
	}))

	l.Events.Publish(w, treeEvent{BubblingEvent: At(chain[1])})
	e.Update()

	assert.False(t, w.Valid(chain[1]))
	assert.True(t, w.Valid(chain[0]))
}

func TestAddCommandRunsDeferred(t *testing.T) {
	e := ecs.NewECS(donburi.NewWorld())
	w := e.World
	l := New[treeEvent]().Install(e)

	chain := spawnChain(w, 1)
	marker := donburi.NewTag()
	var spawned donburi.Entity
	attach(w, l, chain[0], AddCommand(func(_ *ListenerInput[treeEvent]) Command {
		return func(w donburi.World) {
			spawned = w.Create(marker)
		}
	}))

	l.Events.Publish(w, treeEvent{BubblingEvent: At(chain[0])})
	e.Update()

	assert.True(t, w.Valid(spawned))
}

func TestWithCommandsOrdering(t *testing.T) {
	e := ecs.NewECS(donburi.NewWorld())
	w := e.World
	l := New[treeEvent]().Install(e)

	chain := spawnChain(w, 1)
	var order []string
	attach(w, l, chain[0], WithCommands(func(_ *ListenerInput[treeEvent], commands *Commands) {
		order = append(order, "callback")
		commands.Add(func(_ donburi.World) {
			order = append(order, "command")
		})
	}))

	l.Events.Publish(w, treeEvent{BubblingEvent: At(chain[0])})
	e.Update()

	require.Equal(t, []string{"callback", "command"}, order)
}
