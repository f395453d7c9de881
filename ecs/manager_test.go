package ecs_test

import (
	"testing"

	"github.com/plus3/simcore/ecs"
)

var DetachCounterType = ecs.NewComponentType("DetachCounter")

type DetachCounter struct {
	ecs.BaseComponent
	Detaches int
}

func (*DetachCounter) Type() ecs.ComponentType { return DetachCounterType }

func (c *DetachCounter) OnDetach() {
	c.BaseComponent.OnDetach()
	c.Detaches++
}

type orderedSystem struct {
	ecs.BaseSystem
	name string
	log  *[]string
}

func newOrderedSystem(name string, log *[]string, required ...ecs.ComponentType) *orderedSystem {
	s := &orderedSystem{name: name, log: log}
	s.BaseSystem = ecs.NewBaseSystem(s, required...)
	return s
}

func (s *orderedSystem) ProcessEntity(dt float64, e *ecs.Entity) {
	*s.log = append(*s.log, s.name)
}

func TestEntityManager(t *testing.T) {

	t.Run("create assigns unique ascending ids", func(t *testing.T) {
		m := ecs.NewEntityManager(nil)

		a := m.CreateEntity()
		b := m.CreateEntity()
		c := m.CreateEntity()

		if a.ID() == b.ID() || b.ID() == c.ID() || a.ID() == c.ID() {
			t.Fatalf("expected unique ids, got %d %d %d", a.ID(), b.ID(), c.ID())
		}
		if !(a.ID() < b.ID() && b.ID() < c.ID()) {
			t.Errorf("expected ascending ids, got %d %d %d", a.ID(), b.ID(), c.ID())
		}
		if m.EntityCount() != 3 {
			t.Errorf("expected 3 live entities, got %d", m.EntityCount())
		}
	})

	t.Run("get entity by id", func(t *testing.T) {
		m := ecs.NewEntityManager(nil)
		e := m.CreateEntity()

		got, ok := m.GetEntity(e.ID())
		if !ok || got != e {
			t.Errorf("expected to find entity %d", e.ID())
		}

		_, ok = m.GetEntity(999)
		if ok {
			t.Error("expected lookup of unknown id to fail")
		}
	})

	t.Run("destroy detaches every component exactly once", func(t *testing.T) {
		m := ecs.NewEntityManager(nil)
		e := m.CreateEntity()

		probe := &Probe{}
		counter := &DetachCounter{}
		e.AddComponent(probe)
		e.AddComponent(counter)

		if !m.DestroyEntity(e.ID()) {
			t.Fatal("expected destroy to succeed")
		}
		if probe.DetachCalls != 1 {
			t.Errorf("expected 1 detach on probe, got %d", probe.DetachCalls)
		}
		if counter.Detaches != 1 {
			t.Errorf("expected 1 detach on counter, got %d", counter.Detaches)
		}
		if _, ok := m.GetEntity(e.ID()); ok {
			t.Error("expected destroyed entity to be absent from the registry")
		}
		if got := m.EntitiesWith(ProbeType); len(got) != 0 {
			t.Errorf("expected destroyed entity to be absent from queries, got %d", len(got))
		}

		// A second destroy of the same id reports false.
		if m.DestroyEntity(e.ID()) {
			t.Error("expected second destroy to report false")
		}
		if probe.DetachCalls != 1 {
			t.Errorf("expected detach count unchanged, got %d", probe.DetachCalls)
		}
	})

	t.Run("entities with components", func(t *testing.T) {
		m := ecs.NewEntityManager(nil)

		both := m.CreateEntity()
		both.AddComponent(&Position{})
		both.AddComponent(&Health{})

		posOnly := m.CreateEntity()
		posOnly.AddComponent(&Position{})

		healthOnly := m.CreateEntity()
		healthOnly.AddComponent(&Health{})

		alsoBoth := m.CreateEntity()
		alsoBoth.AddComponent(&Health{})
		alsoBoth.AddComponent(&Position{})

		got := m.EntitiesWith(PositionType, HealthType)
		if len(got) != 2 {
			t.Fatalf("expected exactly 2 matches, got %d", len(got))
		}
		seen := map[ecs.EntityID]bool{}
		for _, e := range got {
			seen[e.ID()] = true
		}
		if !seen[both.ID()] || !seen[alsoBoth.ID()] {
			t.Errorf("expected entities %d and %d, got %v", both.ID(), alsoBoth.ID(), seen)
		}

		if got := m.EntitiesWith(NameType); len(got) != 0 {
			t.Errorf("expected no matches for an unused type, got %d", len(got))
		}
	})

	t.Run("zero types matches the whole population in creation order", func(t *testing.T) {
		m := ecs.NewEntityManager(nil)
		a := m.CreateEntity()
		b := m.CreateEntity()
		c := m.CreateEntity()

		all := m.EntitiesWith()
		if len(all) != 3 || all[0] != a || all[1] != b || all[2] != c {
			t.Errorf("expected creation order [%d %d %d]", a.ID(), b.ID(), c.ID())
		}
	})

	t.Run("inactive entities still appear in queries", func(t *testing.T) {
		m := ecs.NewEntityManager(nil)
		e := m.CreateEntity()
		e.AddComponent(&Position{})
		e.SetActive(false)

		if got := m.EntitiesWith(PositionType); len(got) != 1 {
			t.Errorf("expected inactive entity in query results, got %d", len(got))
		}
	})

	t.Run("queued destroys flush after the logic phase", func(t *testing.T) {
		m := ecs.NewEntityManager(nil)
		e := m.CreateEntity()
		e.AddComponent(&Position{})

		sys := newRecordingSystem(PositionType)
		m.AddSystem(sys)
		m.QueueDestroy(e.ID())

		// The entity survives the phase it was condemned in.
		m.UpdateLogic(0.016)
		if len(sys.Updated) != 1 {
			t.Errorf("expected condemned entity to be processed once, got %d", len(sys.Updated))
		}
		if _, ok := m.GetEntity(e.ID()); ok {
			t.Error("expected entity to be gone after the phase")
		}

		m.UpdateLogic(0.016)
		if len(sys.Updated) != 1 {
			t.Errorf("expected no further processing, got %d", len(sys.Updated))
		}
	})

	t.Run("systems run in registration order", func(t *testing.T) {
		m := ecs.NewEntityManager(nil)
		m.CreateEntity().AddComponent(&Position{})

		var log []string
		m.AddSystem(newOrderedSystem("movement", &log, PositionType))
		m.AddSystem(newOrderedSystem("collision", &log, PositionType))

		m.UpdateLogic(0.016)

		if len(log) != 2 || log[0] != "movement" || log[1] != "collision" {
			t.Errorf("expected [movement collision], got %v", log)
		}
	})

	t.Run("events dispatch before systems each step", func(t *testing.T) {
		type scored struct{ Points int }

		m := ecs.NewEntityManager(nil)
		m.CreateEntity().AddComponent(&Position{})

		var log []string
		ecs.Subscribe(m.Events(), func(scored) {
			log = append(log, "event")
		})
		m.AddSystem(newOrderedSystem("system", &log, PositionType))

		ecs.Emit(m.Events(), scored{Points: 10})
		m.UpdateLogic(0.016)

		if len(log) != 2 || log[0] != "event" || log[1] != "system" {
			t.Errorf("expected event before system, got %v", log)
		}
	})

	t.Run("remove system detaches exactly once from both sets", func(t *testing.T) {
		m := ecs.NewEntityManager(nil)

		sys := newRecordingSystem(PositionType)
		m.AddSystem(sys)
		m.AddRenderSystem(sys)

		if sys.Attaches != 2 {
			t.Fatalf("expected one attach per registration, got %d", sys.Attaches)
		}

		if !m.RemoveSystem(sys) {
			t.Fatal("expected removal to succeed")
		}
		if sys.Detaches != 1 {
			t.Errorf("expected exactly one detach, got %d", sys.Detaches)
		}

		stats := m.CollectStats()
		if stats.LogicSystemCount != 0 || stats.RenderSystemCount != 0 {
			t.Errorf("expected both sets empty, got %d logic and %d render",
				stats.LogicSystemCount, stats.RenderSystemCount)
		}

		if m.RemoveSystem(sys) {
			t.Error("expected second removal to report false")
		}
	})

	t.Run("adding a registered system is a no-op", func(t *testing.T) {
		m := ecs.NewEntityManager(nil)

		sys := newRecordingSystem(PositionType)
		m.AddSystem(sys)
		m.AddSystem(sys)
		m.AddSystem(nil)

		if got := m.CollectStats().LogicSystemCount; got != 1 {
			t.Errorf("expected 1 logic system, got %d", got)
		}
		if sys.Attaches != 1 {
			t.Errorf("expected 1 attach, got %d", sys.Attaches)
		}
	})

	t.Run("destroy tears everything down", func(t *testing.T) {
		m := ecs.NewEntityManager(nil)

		e := m.CreateEntity()
		probe := &Probe{}
		e.AddComponent(probe)
		before := e.ID()

		sys := newRecordingSystem(ProbeType)
		m.AddSystem(sys)
		m.AddRenderSystem(sys)

		m.Destroy()

		if m.EntityCount() != 0 {
			t.Errorf("expected empty population, got %d", m.EntityCount())
		}
		if probe.DetachCalls != 1 {
			t.Errorf("expected component detach during teardown, got %d", probe.DetachCalls)
		}
		if sys.Detaches != 1 {
			t.Errorf("expected system to detach exactly once, got %d", sys.Detaches)
		}

		// The id counter keeps counting after a teardown.
		if next := m.CreateEntity(); next.ID() <= before {
			t.Errorf("expected fresh id above %d, got %d", before, next.ID())
		}
	})
}
