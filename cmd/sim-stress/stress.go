package main

import (
	"math"
	"math/rand"

	"github.com/plus3/simcore/ecs"
)

// worldSize bounds the wandering population on both axes.
const worldSize = 1000.0

var (
	PositionType = ecs.NewComponentType("Position")
	VelocityType = ecs.NewComponentType("Velocity")
	HealthType   = ecs.NewComponentType("Health")
	SpinType     = ecs.NewComponentType("Spin")
	LifetimeType = ecs.NewComponentType("Lifetime")
)

type Position struct {
	ecs.BaseComponent
	X, Y float64
}

func (*Position) Type() ecs.ComponentType { return PositionType }

type Velocity struct {
	ecs.BaseComponent
	DX, DY float64
}

func (*Velocity) Type() ecs.ComponentType { return VelocityType }

func (*Velocity) Dependencies() []ecs.ComponentType {
	return []ecs.ComponentType{PositionType}
}

type Health struct {
	ecs.BaseComponent
	Current float64
	Max     float64
	Regen   float64
}

func (*Health) Type() ecs.ComponentType { return HealthType }

type Spin struct {
	ecs.BaseComponent
	Angle float64
	Rate  float64
}

func (*Spin) Type() ecs.ComponentType { return SpinType }

type Lifetime struct {
	ecs.BaseComponent
	Remaining float64
}

func (*Lifetime) Type() ecs.ComponentType { return LifetimeType }

func registerStressComponents(registry *ecs.ComponentRegistry) {
	registry.Register(PositionType, func() ecs.Component { return &Position{} })
	registry.Register(VelocityType, func() ecs.Component { return &Velocity{} })
	registry.Register(HealthType, func() ecs.Component { return &Health{} })
	registry.Register(SpinType, func() ecs.Component { return &Spin{} })
	registry.Register(LifetimeType, func() ecs.Component { return &Lifetime{} })
}

// damageEvent is emitted by the DamageSystem and applied by the churn
// subscriber on the next step.
type damageEvent struct {
	Entity ecs.EntityID
	Amount float64
}

// entityExpired marks a lifetime that ran out this step.
type entityExpired struct {
	Entity ecs.EntityID
}

// MovementSystem integrates velocities and bounces entities off the world
// bounds.
type MovementSystem struct {
	ecs.BaseSystem
}

func NewMovementSystem() *MovementSystem {
	s := &MovementSystem{}
	s.BaseSystem = ecs.NewBaseSystem(s, PositionType, VelocityType)
	return s
}

func (s *MovementSystem) ProcessEntity(dt float64, e *ecs.Entity) {
	pos, ok := ecs.Get[*Position](e, PositionType)
	if !ok {
		return
	}
	vel, ok := ecs.Get[*Velocity](e, VelocityType)
	if !ok {
		return
	}

	pos.X += vel.DX * dt
	pos.Y += vel.DY * dt

	if pos.X < 0 {
		pos.X = -pos.X
		vel.DX = -vel.DX
	} else if pos.X > worldSize {
		pos.X = 2*worldSize - pos.X
		vel.DX = -vel.DX
	}
	if pos.Y < 0 {
		pos.Y = -pos.Y
		vel.DY = -vel.DY
	} else if pos.Y > worldSize {
		pos.Y = 2*worldSize - pos.Y
		vel.DY = -vel.DY
	}
}

// SpinSystem advances rotation angles.
type SpinSystem struct {
	ecs.BaseSystem
}

func NewSpinSystem() *SpinSystem {
	s := &SpinSystem{}
	s.BaseSystem = ecs.NewBaseSystem(s, SpinType)
	return s
}

func (s *SpinSystem) ProcessEntity(dt float64, e *ecs.Entity) {
	spin, ok := ecs.Get[*Spin](e, SpinType)
	if !ok {
		return
	}
	spin.Angle = math.Mod(spin.Angle+spin.Rate*dt, 2*math.Pi)
}

// RegenSystem heals every health holder toward its maximum.
type RegenSystem struct {
	ecs.BaseSystem
}

func NewRegenSystem() *RegenSystem {
	s := &RegenSystem{}
	s.BaseSystem = ecs.NewBaseSystem(s, HealthType)
	return s
}

func (s *RegenSystem) ProcessEntity(dt float64, e *ecs.Entity) {
	h, ok := ecs.Get[*Health](e, HealthType)
	if !ok {
		return
	}
	h.Current += h.Regen * dt
	if h.Current > h.Max {
		h.Current = h.Max
	}
}

// DamageSystem strikes a random slice of the healthy population each step
// by emitting damage events. The events land at the start of the next
// step, so the bus stays under load for the whole run.
type DamageSystem struct {
	ecs.BaseSystem
	rng *rand.Rand
}

func NewDamageSystem(rng *rand.Rand) *DamageSystem {
	s := &DamageSystem{rng: rng}
	s.BaseSystem = ecs.NewBaseSystem(s, HealthType)
	return s
}

func (s *DamageSystem) Update(dt float64, m *ecs.EntityManager) {
	if !s.Active() {
		return
	}
	targets := m.EntitiesWith(HealthType)
	if len(targets) == 0 {
		return
	}
	strikes := len(targets)/20 + 1
	for i := 0; i < strikes; i++ {
		victim := targets[s.rng.Intn(len(targets))]
		if !victim.Active() {
			continue
		}
		ecs.Emit(m.Events(), damageEvent{
			Entity: victim.ID(),
			Amount: 5 + s.rng.Float64()*20,
		})
	}
}

// DecaySystem counts lifetimes down and queues expired entities for
// destruction at the end of the step.
type DecaySystem struct {
	ecs.BaseSystem
}

func NewDecaySystem() *DecaySystem {
	s := &DecaySystem{}
	s.BaseSystem = ecs.NewBaseSystem(s, LifetimeType)
	return s
}

func (s *DecaySystem) Update(dt float64, m *ecs.EntityManager) {
	if !s.Active() {
		return
	}
	for _, e := range m.EntitiesWith(LifetimeType) {
		if !e.Active() {
			continue
		}
		lt, ok := ecs.Get[*Lifetime](e, LifetimeType)
		if !ok {
			continue
		}
		lt.Remaining -= dt
		if lt.Remaining <= 0 {
			m.QueueDestroy(e.ID())
			ecs.Emit(m.Events(), entityExpired{Entity: e.ID()})
		}
	}
}

// RenderProbeSystem stands in for a presentation layer: it folds every
// interpolated position into a checksum so the render phase does real work
// the compiler cannot discard.
type RenderProbeSystem struct {
	ecs.BaseSystem
	checksum float64
}

func NewRenderProbeSystem() *RenderProbeSystem {
	s := &RenderProbeSystem{}
	s.BaseSystem = ecs.NewBaseSystem(s, PositionType)
	return s
}

func (s *RenderProbeSystem) ProcessEntityRender(alpha float64, e *ecs.Entity) {
	pos, ok := ecs.Get[*Position](e, PositionType)
	if !ok {
		return
	}
	s.checksum += pos.X*alpha + pos.Y*(1-alpha)
}

func (s *RenderProbeSystem) Checksum() float64 { return s.checksum }
