package ecs

import "slices"

// System is the per-entity behavior contract. A system declares the
// component types it requires and processes matching entities in one of two
// phases: fixed-step logic updates and interpolated rendering. Systems run
// in registration order within a phase.
type System interface {
	// RequiredComponents lists the types an entity must hold to be
	// processed by this system.
	RequiredComponents() []ComponentType
	// Active reports whether the system participates in phase dispatch.
	Active() bool
	// ShouldProcessEntity reports whether e would be processed this phase:
	// e is active and holds every required type. Free of side effects.
	ShouldProcessEntity(e *Entity) bool
	// OnAttach runs exactly once when the system is registered.
	OnAttach(m *EntityManager)
	// OnDetach runs exactly once when the system is unregistered.
	OnDetach(m *EntityManager)
	// Update runs the logic phase with the fixed step.
	Update(dt float64, m *EntityManager)
	// Render runs the presentation phase with the interpolation factor.
	Render(alpha float64, m *EntityManager)
}

// EntityProcessor carries the per-entity hooks BaseSystem dispatches to.
// Systems embedding BaseSystem satisfy it through the embedded defaults and
// override the hooks they care about.
type EntityProcessor interface {
	ProcessEntity(dt float64, e *Entity)
	ProcessEntityRender(alpha float64, e *Entity)
}

// BaseSystem implements the query-filter-dispatch skeleton shared by every
// system: both phases query entities holding the required types, skip
// inactive ones, and hand each survivor to the per-entity hook. Embed it
// and pass the outer system to NewBaseSystem so the phase loops reach the
// outer hooks.
type BaseSystem struct {
	proc     EntityProcessor
	required []ComponentType
	active   bool
}

// NewBaseSystem builds the embedded base for a concrete system. proc is the
// system under construction; required lists its component types. The
// system starts active.
func NewBaseSystem(proc EntityProcessor, required ...ComponentType) BaseSystem {
	return BaseSystem{
		proc:     proc,
		required: slices.Clone(required),
		active:   true,
	}
}

// RequiredComponents returns the declared type list.
func (s *BaseSystem) RequiredComponents() []ComponentType { return s.required }

// Active reports whether phase dispatch reaches this system.
func (s *BaseSystem) Active() bool { return s.active }

// SetActive toggles phase participation.
func (s *BaseSystem) SetActive(active bool) { s.active = active }

// OnAttach does nothing.
func (s *BaseSystem) OnAttach(*EntityManager) {}

// OnDetach does nothing.
func (s *BaseSystem) OnDetach(*EntityManager) {}

// ShouldProcessEntity reports whether e is active and holds every required
// type.
func (s *BaseSystem) ShouldProcessEntity(e *Entity) bool {
	return e != nil && e.Active() && e.HasComponents(s.required...)
}

// Update queries entities holding the required types and invokes
// ProcessEntity on each active one. An inactive system does nothing.
func (s *BaseSystem) Update(dt float64, m *EntityManager) {
	if !s.active {
		return
	}
	proc := s.processor()
	for _, e := range m.EntitiesWith(s.required...) {
		if e.Active() {
			proc.ProcessEntity(dt, e)
		}
	}
}

// Render mirrors Update for the presentation phase, invoking
// ProcessEntityRender with the interpolation factor.
func (s *BaseSystem) Render(alpha float64, m *EntityManager) {
	if !s.active {
		return
	}
	proc := s.processor()
	for _, e := range m.EntitiesWith(s.required...) {
		if e.Active() {
			proc.ProcessEntityRender(alpha, e)
		}
	}
}

func (s *BaseSystem) processor() EntityProcessor {
	if s.proc != nil {
		return s.proc
	}
	return s
}

// ProcessEntity is the default logic hook: it advances each required
// component via OnUpdate, once per step. Override it for behavior beyond
// per-component updates.
func (s *BaseSystem) ProcessEntity(dt float64, e *Entity) {
	for _, t := range s.required {
		if c, ok := e.GetComponent(t); ok {
			c.OnUpdate(dt)
		}
	}
}

// ProcessEntityRender does nothing.
func (s *BaseSystem) ProcessEntityRender(alpha float64, e *Entity) {}
