package ecs

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"

	"go.uber.org/zap"
)

// entitySnapshot is the wire form of one entity: id, active flag, and one
// state object per component keyed by type name. Entity ids travel as
// decimal strings because JSON numbers cannot carry a uint64 faithfully.
type entitySnapshot struct {
	ID         string                     `json:"id"`
	IsActive   bool                       `json:"isActive"`
	Components map[string]json.RawMessage `json:"components"`
}

// Serialize encodes the live population as a JSON object keyed by entity
// id. Each component state object carries its own "type" discriminator, so
// the field name "type" is reserved on component kinds.
func (m *EntityManager) Serialize() ([]byte, error) {
	world := make(map[string]entitySnapshot, len(m.order))
	for _, e := range m.order {
		snap, err := e.snapshot()
		if err != nil {
			return nil, err
		}
		world[snap.ID] = snap
	}
	return json.Marshal(world)
}

func (e *Entity) snapshot() (entitySnapshot, error) {
	snap := entitySnapshot{
		ID:         strconv.FormatUint(uint64(e.id), 10),
		IsActive:   e.active,
		Components: make(map[string]json.RawMessage, len(e.components)),
	}
	for _, t := range e.ComponentTypes() {
		state, err := marshalComponent(e.components[t])
		if err != nil {
			return entitySnapshot{}, fmt.Errorf("entity %d: %w", e.id, err)
		}
		snap.Components[t.String()] = state
	}
	return snap, nil
}

// marshalComponent encodes the concrete kind and injects the type
// discriminator the round-trip contract requires.
func marshalComponent(c Component) (json.RawMessage, error) {
	body, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", c.Type(), err)
	}
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("component %s does not marshal to an object: %w", c.Type(), err)
	}
	if fields == nil {
		fields = make(map[string]any, 1)
	}
	fields["type"] = c.Type().String()
	return json.Marshal(fields)
}

// Deserialize replaces the live population with the one encoded in data.
// reg supplies the factory per serialized type name. Damaged state degrades
// to diagnostics instead of failures: unknown type names are skipped,
// undecodable component bodies keep their factory defaults, and components
// whose declared dependencies never materialize are dropped. Only an
// undecodable document or a missing registry errors. Afterwards the id
// counter sits past the maximum id observed, so future creations never
// collide.
func (m *EntityManager) Deserialize(data []byte, reg *ComponentRegistry) error {
	if reg == nil {
		return errors.New("ecs: deserialize requires a component type registry")
	}
	var world map[string]entitySnapshot
	if err := json.Unmarshal(data, &world); err != nil {
		return fmt.Errorf("decode population: %w", err)
	}

	for _, e := range slices.Clone(m.order) {
		m.DestroyEntity(e.id)
	}

	type row struct {
		id  EntityID
		key string
	}
	rows := make([]row, 0, len(world))
	for key := range world {
		id, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			m.log.Warn("skipping entity with malformed id", zap.String("id", key))
			continue
		}
		rows = append(rows, row{id: EntityID(id), key: key})
	}
	slices.SortFunc(rows, func(a, b row) int { return cmp.Compare(a.id, b.id) })

	for _, r := range rows {
		m.restoreEntity(r.id, world[r.key], reg)
		if m.nextID <= r.id {
			m.nextID = r.id + 1
		}
	}
	return nil
}

func (m *EntityManager) restoreEntity(id EntityID, snap entitySnapshot, reg *ComponentRegistry) {
	e := newEntity(id, m)
	e.active = snap.IsActive
	m.byID.Put(id, e)
	m.order = append(m.order, e)

	pending := make(map[string]Component, len(snap.Components))
	for name, raw := range snap.Components {
		c, ok := reg.New(name)
		if !ok {
			m.log.Warn("skipping unknown component type",
				zap.String("type", name), zap.Uint64("entity", uint64(id)))
			continue
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, c); err != nil {
				m.log.Warn("component state not decodable, keeping defaults",
					zap.String("type", name), zap.Uint64("entity", uint64(id)), zap.Error(err))
			}
		}
		pending[name] = c
	}

	// Serialized objects do not keep the original attach order, so attach
	// dependency-first in passes.
	for len(pending) > 0 {
		names := make([]string, 0, len(pending))
		for name := range pending {
			names = append(names, name)
		}
		sort.Strings(names)

		progress := false
		for _, name := range names {
			err := e.AddComponent(pending[name])
			switch {
			case err == nil:
				delete(pending, name)
				progress = true
			case errors.Is(err, ErrMissingDependency):
				// retry next pass once the dependency attaches
			default:
				m.log.Warn("component failed to attach",
					zap.String("type", name), zap.Uint64("entity", uint64(id)), zap.Error(err))
				delete(pending, name)
				progress = true
			}
		}
		if !progress {
			for _, name := range names {
				m.log.Warn("skipping component with unsatisfied dependencies",
					zap.String("type", name), zap.Uint64("entity", uint64(id)))
			}
			return
		}
	}
}
