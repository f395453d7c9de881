package ecs_test

import (
	"fmt"

	"github.com/plus3/simcore/ecs"
)

type laserFired struct {
	Shooter ecs.EntityID
}

// ExampleEventBus demonstrates deferred event delivery. Emissions queue in
// the manager's mailbox and are dispatched at the start of the next logic
// step, so systems observe events at one fixed point in the frame.
func ExampleEventBus() {
	manager := ecs.NewEntityManager(nil)

	ecs.Subscribe(manager.Events(), func(ev laserFired) {
		fmt.Println("laser from entity", ev.Shooter)
	})

	ecs.Emit(manager.Events(), laserFired{Shooter: 3})
	fmt.Println("queued:", manager.Events().QueuedLen())

	manager.UpdateLogic(1.0 / 60.0)
	fmt.Println("queued after step:", manager.Events().QueuedLen())

	// Output:
	// queued: 1
	// laser from entity 3
	// queued after step: 0
}
