package main

import (
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/plus3/simcore/ecs"
	"gopkg.in/yaml.v3"
)

// SpawnSpec describes one block of identical entities in a scenario file.
type SpawnSpec struct {
	Name       string   `yaml:"name"`
	Count      int      `yaml:"count"`
	Components []string `yaml:"components"`
}

type scenarioFile struct {
	Spawns []SpawnSpec `yaml:"spawns"`
}

// LoadScenario loads spawn blocks from a YAML file.
func LoadScenario(path string) ([]SpawnSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}
	var f scenarioFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	return f.Spawns, nil
}

// spawnScenario builds the population a scenario describes. It reports how
// many entities it created.
func spawnScenario(m *ecs.EntityManager, specs []SpawnSpec, rng *rand.Rand) (int, error) {
	total := 0
	for _, spec := range specs {
		for i := 0; i < spec.Count; i++ {
			e := m.CreateEntity()
			for _, kind := range spec.Components {
				c, err := newStressComponent(kind, rng)
				if err != nil {
					return total, fmt.Errorf("spawn block %q: %w", spec.Name, err)
				}
				if err := e.AddComponent(c); err != nil {
					return total, fmt.Errorf("spawn block %q: attach %s: %w", spec.Name, kind, err)
				}
			}
			total++
		}
	}
	return total, nil
}

// optionalKinds are the component kinds spawnRandomEntity draws from after
// the mandatory position, which satisfies every dependency among them.
var optionalKinds = []string{"velocity", "health", "spin", "lifetime"}

// spawnRandomEntity creates one entity holding a position plus a random
// subset of the other kinds, mirroring an organically mixed population.
func spawnRandomEntity(m *ecs.EntityManager, rng *rand.Rand) error {
	e := m.CreateEntity()

	pos, err := newStressComponent("position", rng)
	if err != nil {
		return err
	}
	if err := e.AddComponent(pos); err != nil {
		return fmt.Errorf("attach position: %w", err)
	}

	extras := rng.Intn(len(optionalKinds) + 1)
	picks := rng.Perm(len(optionalKinds))[:extras]
	for _, idx := range picks {
		kind := optionalKinds[idx]
		c, err := newStressComponent(kind, rng)
		if err != nil {
			return err
		}
		if err := e.AddComponent(c); err != nil {
			return fmt.Errorf("attach %s: %w", kind, err)
		}
	}
	return nil
}

func newStressComponent(kind string, rng *rand.Rand) (ecs.Component, error) {
	switch kind {
	case "position":
		return &Position{
			X: rng.Float64() * worldSize,
			Y: rng.Float64() * worldSize,
		}, nil
	case "velocity":
		return &Velocity{
			DX: rng.Float64()*40 - 20,
			DY: rng.Float64()*40 - 20,
		}, nil
	case "health":
		maxHP := 50 + rng.Float64()*150
		return &Health{
			Current: maxHP,
			Max:     maxHP,
			Regen:   1 + rng.Float64()*4,
		}, nil
	case "spin":
		return &Spin{
			Angle: rng.Float64() * 2 * math.Pi,
			Rate:  rng.Float64()*4 - 2,
		}, nil
	case "lifetime":
		return &Lifetime{
			Remaining: 1 + rng.Float64()*30,
		}, nil
	default:
		return nil, fmt.Errorf("unknown component kind %q", kind)
	}
}
