package ecs

import (
	"errors"
	"fmt"
	"slices"
)

// Composition failures. They surface composition bugs, so callers should
// treat them as fatal rather than retry.
var (
	ErrNilComponent       = errors.New("ecs: nil component")
	ErrEntityDestroyed    = errors.New("ecs: entity destroyed")
	ErrDuplicateComponent = errors.New("ecs: component type already present")
	ErrMissingDependency  = errors.New("ecs: missing component dependency")
)

// EntityID identifies a live entity. The manager assigns ids monotonically
// and never reuses one while its entity lives.
type EntityID uint64

// Entity aggregates at most one component per type under a stable id.
// Entities come from EntityManager.CreateEntity or Deserialize, never from
// direct construction.
type Entity struct {
	id         EntityID
	manager    *EntityManager
	components map[ComponentType]Component
	active     bool
	destroyed  bool
}

func newEntity(id EntityID, m *EntityManager) *Entity {
	return &Entity{
		id:         id,
		manager:    m,
		components: make(map[ComponentType]Component),
		active:     true,
	}
}

// ID returns the entity's stable identifier.
func (e *Entity) ID() EntityID { return e.id }

// Active reports whether systems process this entity. Inactive entities
// still appear in EntitiesWith results.
func (e *Entity) Active() bool { return e.active }

// SetActive toggles processing eligibility.
func (e *Entity) SetActive(active bool) { e.active = active }

// Destroyed reports whether the manager has torn this entity down.
func (e *Entity) Destroyed() bool { return e.destroyed }

// AddComponent stores c under its type key and attaches it. The add fails
// when c is nil or carries an unallocated type, the entity is destroyed, a
// component of the same type is already present, or any declared dependency
// type is missing.
func (e *Entity) AddComponent(c Component) error {
	if c == nil {
		return ErrNilComponent
	}
	t := c.Type()
	if t == 0 {
		return fmt.Errorf("%w: component type not allocated", ErrNilComponent)
	}
	if e.destroyed {
		return fmt.Errorf("add %s to entity %d: %w", t, e.id, ErrEntityDestroyed)
	}
	if _, exists := e.components[t]; exists {
		return fmt.Errorf("add %s to entity %d: %w", t, e.id, ErrDuplicateComponent)
	}
	for _, dep := range c.Dependencies() {
		if _, ok := e.components[dep]; !ok {
			return fmt.Errorf("add %s to entity %d: %w: %s", t, e.id, ErrMissingDependency, dep)
		}
	}
	e.components[t] = c
	c.OnAttach(e)
	if e.manager != nil {
		e.manager.indexComponent(e, t)
	}
	return nil
}

// GetComponent returns the component stored under t.
func (e *Entity) GetComponent(t ComponentType) (Component, bool) {
	c, ok := e.components[t]
	return c, ok
}

// Get returns the component stored under t, asserted to the concrete kind
// T. The false return covers both an absent type and a kind mismatch.
func Get[T Component](e *Entity, t ComponentType) (T, bool) {
	c, ok := e.components[t]
	if !ok {
		var zero T
		return zero, false
	}
	concrete, ok := c.(T)
	return concrete, ok
}

// HasComponent reports whether a component of type t is present.
func (e *Entity) HasComponent(t ComponentType) bool {
	_, ok := e.components[t]
	return ok
}

// HasComponents reports whether every given type is present.
func (e *Entity) HasComponents(types ...ComponentType) bool {
	for _, t := range types {
		if _, ok := e.components[t]; !ok {
			return false
		}
	}
	return true
}

// RemoveComponent detaches and removes the component stored under t,
// reporting whether one was present. After removal the component's
// back-reference is cleared.
func (e *Entity) RemoveComponent(t ComponentType) bool {
	c, ok := e.components[t]
	if !ok {
		return false
	}
	delete(e.components, t)
	c.OnDetach()
	if e.manager != nil {
		e.manager.unindexComponent(e, t)
	}
	return true
}

// ComponentCount returns the number of attached components.
func (e *Entity) ComponentCount() int { return len(e.components) }

// ComponentTypes returns the attached types in ascending id order.
func (e *Entity) ComponentTypes() []ComponentType {
	types := make([]ComponentType, 0, len(e.components))
	for t := range e.components {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// destroy detaches every component exactly once and rejects further
// composition.
func (e *Entity) destroy() {
	for _, t := range e.ComponentTypes() {
		e.RemoveComponent(t)
	}
	e.destroyed = true
}
