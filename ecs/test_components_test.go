package ecs_test

import "github.com/plus3/simcore/ecs"

// Component types shared across tests.
var (
	PositionType = ecs.NewComponentType("Position")
	VelocityType = ecs.NewComponentType("Velocity")
	HealthType   = ecs.NewComponentType("Health")
	NameType     = ecs.NewComponentType("Name")
	ProbeType    = ecs.NewComponentType("Probe")
)

type Position struct {
	ecs.BaseComponent
	X, Y float64
}

func (*Position) Type() ecs.ComponentType { return PositionType }

// Velocity integrates its owner's Position each step and attaches only
// after Position.
type Velocity struct {
	ecs.BaseComponent
	DX, DY float64
}

func (*Velocity) Type() ecs.ComponentType { return VelocityType }

func (*Velocity) Dependencies() []ecs.ComponentType {
	return []ecs.ComponentType{PositionType}
}

func (v *Velocity) OnUpdate(dt float64) {
	if p, ok := ecs.Get[*Position](v.Entity(), PositionType); ok {
		p.X += v.DX * dt
		p.Y += v.DY * dt
	}
}

type Health struct {
	ecs.BaseComponent
	Current, Max int
}

func (*Health) Type() ecs.ComponentType { return HealthType }

type Name struct {
	ecs.BaseComponent
	Value string
}

func (*Name) Type() ecs.ComponentType { return NameType }

// Probe counts its lifecycle transitions and records every step it sees.
type Probe struct {
	ecs.BaseComponent
	AttachCalls int
	DetachCalls int
	Steps       []float64
}

func (*Probe) Type() ecs.ComponentType { return ProbeType }

func (p *Probe) OnAttach(e *ecs.Entity) {
	p.BaseComponent.OnAttach(e)
	p.AttachCalls++
}

func (p *Probe) OnDetach() {
	p.BaseComponent.OnDetach()
	p.DetachCalls++
}

func (p *Probe) OnUpdate(dt float64) {
	p.Steps = append(p.Steps, dt)
}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	registry.Register(PositionType, func() ecs.Component { return &Position{} })
	registry.Register(VelocityType, func() ecs.Component { return &Velocity{} })
	registry.Register(HealthType, func() ecs.Component { return &Health{} })
	registry.Register(NameType, func() ecs.Component { return &Name{} })
	registry.Register(ProbeType, func() ecs.Component { return &Probe{} })
	return registry
}

// recordingSystem notes every entity it processes in each phase.
type recordingSystem struct {
	ecs.BaseSystem
	Updated       []ecs.EntityID
	Rendered      []ecs.EntityID
	LastDeltaTime float64
	LastAlpha     float64
	Attaches      int
	Detaches      int
}

func newRecordingSystem(required ...ecs.ComponentType) *recordingSystem {
	s := &recordingSystem{}
	s.BaseSystem = ecs.NewBaseSystem(s, required...)
	return s
}

func (s *recordingSystem) OnAttach(*ecs.EntityManager) { s.Attaches++ }

func (s *recordingSystem) OnDetach(*ecs.EntityManager) { s.Detaches++ }

func (s *recordingSystem) ProcessEntity(dt float64, e *ecs.Entity) {
	s.Updated = append(s.Updated, e.ID())
	s.LastDeltaTime = dt
}

func (s *recordingSystem) ProcessEntityRender(alpha float64, e *ecs.Entity) {
	s.Rendered = append(s.Rendered, e.ID())
	s.LastAlpha = alpha
}
