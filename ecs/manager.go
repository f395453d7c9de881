package ecs

import (
	"slices"

	"github.com/kamstrup/intmap"
	"go.uber.org/zap"
)

// EntityManager owns the live entity population and the two disjoint system
// sets, answers membership queries, dispatches the per-frame phases, and
// serializes/deserializes the whole population. One manager is mutated from
// one logical thread only.
type EntityManager struct {
	log *zap.Logger

	byID   *intmap.Map[EntityID, *Entity]
	order  []*Entity // live entities in creation order
	byType map[ComponentType][]*Entity

	logicSystems  []System
	renderSystems []System

	events       *EventBus
	destroyQueue []EntityID

	nextID EntityID
}

// NewEntityManager creates an empty manager. log carries the diagnostics
// emitted while restoring damaged state; nil drops them.
func NewEntityManager(log *zap.Logger) *EntityManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &EntityManager{
		log:    log,
		byID:   intmap.New[EntityID, *Entity](64),
		byType: make(map[ComponentType][]*Entity),
		events: NewEventBus(),
	}
}

// CreateEntity registers a new active entity under the next unused id.
// Ids count up from 0 and are never shared by two live entities.
func (m *EntityManager) CreateEntity() *Entity {
	e := newEntity(m.nextID, m)
	m.nextID++
	m.byID.Put(e.id, e)
	m.order = append(m.order, e)
	return e
}

// GetEntity looks up a live entity by id.
func (m *EntityManager) GetEntity(id EntityID) (*Entity, bool) {
	return m.byID.Get(id)
}

// DestroyEntity detaches every component of the entity exactly once, marks
// it unusable, and drops it from the registry. Absent ids, including a
// second destroy of the same id, report false.
func (m *EntityManager) DestroyEntity(id EntityID) bool {
	e, ok := m.byID.Get(id)
	if !ok {
		return false
	}
	e.destroy()
	m.byID.Del(id)
	if i := slices.Index(m.order, e); i >= 0 {
		m.order = slices.Delete(m.order, i, i+1)
	}
	return true
}

// QueueDestroy defers destruction until the end of the current logic phase.
// Systems use it to tear entities down without mutating the population
// mid-iteration.
func (m *EntityManager) QueueDestroy(id EntityID) {
	m.destroyQueue = append(m.destroyQueue, id)
}

func (m *EntityManager) flushDestroyQueue() {
	if len(m.destroyQueue) == 0 {
		return
	}
	queue := m.destroyQueue
	m.destroyQueue = nil
	for _, id := range queue {
		m.DestroyEntity(id)
	}
}

// AddSystem appends s to the logic set and attaches it. Adding a system
// already in the set is a no-op.
func (m *EntityManager) AddSystem(s System) {
	if s == nil || slices.Contains(m.logicSystems, s) {
		return
	}
	m.logicSystems = append(m.logicSystems, s)
	s.OnAttach(m)
}

// AddRenderSystem appends s to the render set and attaches it. Adding a
// system already in the set is a no-op.
func (m *EntityManager) AddRenderSystem(s System) {
	if s == nil || slices.Contains(m.renderSystems, s) {
		return
	}
	m.renderSystems = append(m.renderSystems, s)
	s.OnAttach(m)
}

// RemoveSystem drops s from whichever sets contain it, reporting whether it
// was found. OnDetach fires exactly once even when s sat in both sets.
func (m *EntityManager) RemoveSystem(s System) bool {
	found := false
	if i := slices.Index(m.logicSystems, s); i >= 0 {
		m.logicSystems = slices.Delete(m.logicSystems, i, i+1)
		found = true
	}
	if i := slices.Index(m.renderSystems, s); i >= 0 {
		m.renderSystems = slices.Delete(m.renderSystems, i, i+1)
		found = true
	}
	if found {
		s.OnDetach(m)
	}
	return found
}

// EntitiesWith returns every live entity, active or not, holding all given
// types. Zero types match the whole population in creation order. The
// order is otherwise unspecified but stable between structural mutations.
func (m *EntityManager) EntitiesWith(types ...ComponentType) []*Entity {
	if len(types) == 0 {
		return slices.Clone(m.order)
	}
	candidates := m.byType[types[0]]
	if len(candidates) == 0 {
		return nil
	}
	rest := types[1:]
	matched := make([]*Entity, 0, len(candidates))
	for _, e := range candidates {
		if e.HasComponents(rest...) {
			matched = append(matched, e)
		}
	}
	return matched
}

func (m *EntityManager) indexComponent(e *Entity, t ComponentType) {
	m.byType[t] = append(m.byType[t], e)
}

func (m *EntityManager) unindexComponent(e *Entity, t ComponentType) {
	list := m.byType[t]
	if i := slices.Index(list, e); i >= 0 {
		last := len(list) - 1
		list[i] = list[last]
		list[last] = nil
		m.byType[t] = list[:last]
	}
}

// UpdateLogic runs one fixed step: queued events dispatch first, then every
// logic system in registration order, then deferred destructions flush.
func (m *EntityManager) UpdateLogic(dt float64) {
	m.events.DispatchQueued()
	for _, s := range slices.Clone(m.logicSystems) {
		s.Update(dt, m)
	}
	m.flushDestroyQueue()
}

// UpdateRendering runs the presentation phase on every render system in
// registration order.
func (m *EntityManager) UpdateRendering(alpha float64) {
	for _, s := range slices.Clone(m.renderSystems) {
		s.Render(alpha, m)
	}
}

// Destroy tears the whole manager down: every entity is destroyed, every
// system detaches exactly once across both sets, and all collections empty.
// The id counter keeps counting so ids stay unique across the teardown.
func (m *EntityManager) Destroy() {
	for _, e := range slices.Clone(m.order) {
		m.DestroyEntity(e.id)
	}
	detached := make(map[System]bool, len(m.logicSystems)+len(m.renderSystems))
	for _, s := range slices.Concat(m.logicSystems, m.renderSystems) {
		if !detached[s] {
			detached[s] = true
			s.OnDetach(m)
		}
	}
	m.logicSystems = nil
	m.renderSystems = nil
	m.destroyQueue = nil
	m.order = nil
	m.byID.Clear()
	m.byType = make(map[ComponentType][]*Entity)
	m.events = NewEventBus()
}

// EntityCount reports the number of live entities.
func (m *EntityManager) EntityCount() int { return len(m.order) }

// Events returns the manager's mailbox. Emissions queue until the start of
// the next logic phase.
func (m *EntityManager) Events() *EventBus { return m.events }

// ManagerStats is a point-in-time population summary for tooling.
type ManagerStats struct {
	EntityCount       int
	LogicSystemCount  int
	RenderSystemCount int
	QueuedEventCount  int
	ComponentCounts   []ComponentTypeCount
}

// ComponentTypeCount pairs a component type with its live instance count.
type ComponentTypeCount struct {
	Type  ComponentType
	Count int
}

// CollectStats summarizes the live population. Component counts come back
// in ascending type order.
func (m *EntityManager) CollectStats() ManagerStats {
	stats := ManagerStats{
		EntityCount:       len(m.order),
		LogicSystemCount:  len(m.logicSystems),
		RenderSystemCount: len(m.renderSystems),
		QueuedEventCount:  m.events.QueuedLen(),
	}
	types := make([]ComponentType, 0, len(m.byType))
	for t, list := range m.byType {
		if len(list) > 0 {
			types = append(types, t)
		}
	}
	slices.Sort(types)
	for _, t := range types {
		stats.ComponentCounts = append(stats.ComponentCounts, ComponentTypeCount{
			Type:  t,
			Count: len(m.byType[t]),
		})
	}
	return stats
}
