package ecs_test

import (
	"testing"

	"github.com/plus3/simcore/ecs"
	"github.com/stretchr/testify/assert"
)

func TestComponentTypeString(t *testing.T) {

	shield := ecs.NewComponentType("Shield")
	assert.Equal(t, "Shield", shield.String())

	// The zero value is never allocated.
	assert.Equal(t, "ComponentType(0)", ecs.ComponentType(0).String())
	assert.Equal(t, "ComponentType(4095)", ecs.ComponentType(4095).String())
}

func TestNewComponentTypePanics(t *testing.T) {

	assert.Panics(t, func() { ecs.NewComponentType("") })

	ecs.NewComponentType("Mana")
	assert.Panics(t, func() { ecs.NewComponentType("Mana") })
}

func TestComponentRegistry(t *testing.T) {
	registry := newTestRegistry()

	assert.Equal(t, 5, registry.Len())
	assert.Equal(t, []string{"Health", "Name", "Position", "Probe", "Velocity"}, registry.Names())

	c, ok := registry.New("Position")
	assert.True(t, ok)
	assert.Equal(t, PositionType, c.Type())

	// Each call builds a fresh instance.
	other, _ := registry.New("Position")
	assert.NotSame(t, c, other)

	_, ok = registry.New("Ghost")
	assert.False(t, ok)
}

func TestComponentRegistryPanics(t *testing.T) {
	registry := ecs.NewComponentRegistry()

	assert.Panics(t, func() { registry.Register(PositionType, nil) })

	registry.Register(PositionType, func() ecs.Component { return &Position{} })
	assert.Panics(t, func() {
		registry.Register(PositionType, func() ecs.Component { return &Position{} })
	})

	// Factory product must report the type it was registered under.
	assert.Panics(t, func() {
		registry.Register(HealthType, func() ecs.Component { return &Position{} })
	})
	assert.Panics(t, func() {
		registry.Register(NameType, func() ecs.Component { return nil })
	})
}

func TestBaseComponentBackReference(t *testing.T) {
	m := ecs.NewEntityManager(nil)
	e := m.CreateEntity()

	p := &Position{X: 1, Y: 2}
	assert.Nil(t, p.Entity())

	assert.NoError(t, e.AddComponent(p))
	assert.Same(t, e, p.Entity())

	e.RemoveComponent(PositionType)
	assert.Nil(t, p.Entity())
}

func TestComponentLifecycleHooks(t *testing.T) {
	m := ecs.NewEntityManager(nil)
	e := m.CreateEntity()

	probe := &Probe{}
	assert.NoError(t, e.AddComponent(probe))
	assert.Equal(t, 1, probe.AttachCalls)
	assert.Equal(t, 0, probe.DetachCalls)

	e.RemoveComponent(ProbeType)
	assert.Equal(t, 1, probe.AttachCalls)
	assert.Equal(t, 1, probe.DetachCalls)
}
