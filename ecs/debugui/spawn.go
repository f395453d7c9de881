package debugui

import "github.com/plus3/simcore/ecs"

// SpawnDebugUI attaches one ImguiItem entity per debug window and wires
// them together: the browser selection feeds the inspector, and clicking a
// type in the viewer narrows the browser. Pass a nil loop when the host
// does not run one.
func SpawnDebugUI(m *ecs.EntityManager, loop *ecs.GameLoop) error {
	browser := NewEntityBrowser(100)
	inspector := NewComponentInspector()
	viewer := NewComponentViewer()
	stats := NewPerformanceStats(120)
	query := NewQueryDebugger()
	timer := NewFrameTimer()

	windows := []func(){
		func() {
			browser.Render(m)
		},
		func() {
			inspector.Render(browser.SelectedEntity(m))
		},
		func() {
			if clicked := viewer.Render(m); clicked != nil {
				browser.SetTypeFilter(clicked)
			}
		},
		func() {
			stats.Render(m, loop, timer.GetDeltaTime())
		},
		func() {
			query.Render(m)
		},
	}

	for _, render := range windows {
		if err := attachWindow(m, render); err != nil {
			return err
		}
	}
	return nil
}

func attachWindow(m *ecs.EntityManager, render func()) error {
	return m.CreateEntity().AddComponent(&ImguiItem{Render: render})
}

// RegisterDebugUIComponents makes debug UI entities restorable from a
// serialized population. Render closures do not survive the round trip, so
// restored windows draw nothing until respawned.
func RegisterDebugUIComponents(registry *ecs.ComponentRegistry) {
	registry.Register(ImguiItemType, func() ecs.Component { return &ImguiItem{} })
}
