// Package eventlistener adds entity-targeted events, listener components,
// and event bubbling to donburi worlds.
//
// An EntityEvent names a target entity. When dispatched, the event visits
// the target first and then bubbles up through the parents recorded by
// donburi's hierarchy feature, triggering the On listener component of
// every entity it passes, until a listener stops propagation or the root is
// reached.
//
// Create one EventListener per event type with New, install it into the
// ecs.ECS driving the world, attach On components to entities, and publish
// events to the listener's queue. Dispatch happens once per Update in three
// ordered phases: build the listener chain for every queued event, run the
// chains, then restore the callbacks that were checked out of their
// components during the build.
package eventlistener
