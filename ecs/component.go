package ecs

import (
	"fmt"
	"sort"
)

// ComponentType is the stable identity of a component kind. It is allocated
// once per kind via NewComponentType, serves as the per-entity map key, and
// its name is the discriminator written into serialized state. The zero
// value is never a valid type.
type ComponentType uint32

var (
	componentTypeNames []string
	componentTypeIDs   = make(map[string]ComponentType)
)

// NewComponentType allocates the identity for a new component kind. Call it
// once per kind, typically in a package-level var. Panics if the name is
// empty or already taken.
func NewComponentType(name string) ComponentType {
	if name == "" {
		panic("ecs: component type name must not be empty")
	}
	if _, exists := componentTypeIDs[name]; exists {
		panic(fmt.Sprintf("ecs: component type %q allocated twice", name))
	}
	componentTypeNames = append(componentTypeNames, name)
	t := ComponentType(len(componentTypeNames))
	componentTypeIDs[name] = t
	return t
}

// String returns the name the type was allocated with.
func (t ComponentType) String() string {
	if t == 0 || int(t) > len(componentTypeNames) {
		return fmt.Sprintf("ComponentType(%d)", uint32(t))
	}
	return componentTypeNames[t-1]
}

// Component is the contract every component kind implements. Kinds hold
// entity state, not behavior; systems reach them through the owning entity.
type Component interface {
	// Type reports the kind's allocated identity.
	Type() ComponentType
	// Dependencies lists the component types that must already be present
	// on an entity before this kind may attach.
	Dependencies() []ComponentType
	// OnAttach runs when the component is stored on an entity.
	OnAttach(e *Entity)
	// OnDetach runs on removal or entity destruction. Calling it without a
	// prior attach is a no-op.
	OnDetach()
	// OnUpdate advances the component by one fixed step. It runs at most
	// once per step, only while attached and only when both the owning
	// entity and the declaring system are active.
	OnUpdate(dt float64)
}

// BaseComponent supplies the default component behavior: it keeps the
// owning-entity back-reference between OnAttach and OnDetach, declares no
// dependencies, and does nothing on update. Embed it and override what the
// kind needs; OnAttach/OnDetach overrides must delegate to the base so the
// back-reference stays correct.
type BaseComponent struct {
	owner *Entity
}

// Entity returns the owning entity, or nil while detached.
func (b *BaseComponent) Entity() *Entity { return b.owner }

// Dependencies declares no requirements.
func (b *BaseComponent) Dependencies() []ComponentType { return nil }

// OnAttach records the owning entity.
func (b *BaseComponent) OnAttach(e *Entity) { b.owner = e }

// OnDetach clears the owning entity.
func (b *BaseComponent) OnDetach() { b.owner = nil }

// OnUpdate does nothing.
func (b *BaseComponent) OnUpdate(float64) {}

// ComponentRegistry maps serialized type names to zero-argument factories.
// Deserialize consults it to rebuild component kinds; the core never
// hard-codes concrete kinds.
type ComponentRegistry struct {
	factories map[string]func() Component
}

// NewComponentRegistry creates an empty registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{factories: make(map[string]func() Component)}
}

// Register binds a factory to a component type. The factory must produce
// components reporting that same type, with field defaults already in
// place. Panics on a nil factory, a second registration of the same type,
// or a mismatched product: all are configuration bugs.
func (r *ComponentRegistry) Register(t ComponentType, factory func() Component) {
	if factory == nil {
		panic(fmt.Sprintf("ecs: nil factory for component type %s", t))
	}
	name := t.String()
	if _, exists := r.factories[name]; exists {
		panic(fmt.Sprintf("ecs: component type %s registered twice", name))
	}
	if probe := factory(); probe == nil || probe.Type() != t {
		panic(fmt.Sprintf("ecs: factory product does not report type %s", name))
	}
	r.factories[name] = factory
}

// New builds a fresh component for a serialized type name. The false return
// marks an unknown name.
func (r *ComponentRegistry) New(name string) (Component, bool) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, false
	}
	return factory(), true
}

// Len reports the number of registered kinds.
func (r *ComponentRegistry) Len() int { return len(r.factories) }

// Names returns the registered type names in sorted order.
func (r *ComponentRegistry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
