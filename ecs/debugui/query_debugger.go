package debugui

import (
	"fmt"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/simcore/ecs"
)

type queryDebuggerCache struct {
	types         []ecs.ComponentType
	lastTypeCount int
}

func NewQueryDebugger() QueryDebugger {
	return QueryDebugger{
		selectedTypes: make(map[ecs.ComponentType]bool),
		cache: &queryDebuggerCache{
			lastTypeCount: -1,
		},
	}
}

func (qd *QueryDebugger) Render(m *ecs.EntityManager) {
	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	qd.rebuildCacheIfNeeded(m)

	imgui.Text("Select Component Types:")
	imgui.Separator()

	if imgui.Button("Clear All") {
		qd.selectedTypes = make(map[ecs.ComponentType]bool)
	}

	for _, compType := range qd.cache.types {
		selected := qd.selectedTypes[compType]
		if imgui.Checkbox(compType.String(), &selected) {
			if selected {
				qd.selectedTypes[compType] = true
			} else {
				delete(qd.selectedTypes, compType)
			}
		}
	}

	imgui.Separator()

	// Walk the cache rather than the map so the query order is stable and
	// selections for vanished types drop out.
	query := make([]ecs.ComponentType, 0, len(qd.selectedTypes))
	for _, compType := range qd.cache.types {
		if qd.selectedTypes[compType] {
			query = append(query, compType)
		}
	}

	if len(query) == 0 {
		imgui.Text("No component types selected")
		imgui.End()
		return
	}

	matching := m.EntitiesWith(query...)
	imgui.Text(fmt.Sprintf("Matching Entities: %d", len(matching)))

	if imgui.TreeNodeStr("Entity Details") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("QueryEntityTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Entity ID")
			imgui.TableSetupColumn("Active")
			imgui.TableSetupColumn("All Components")
			imgui.TableHeadersRow()

			for _, e := range matching {
				imgui.TableNextRow()

				imgui.TableSetColumnIndex(0)
				imgui.Text(fmt.Sprintf("%d", e.ID()))

				imgui.TableSetColumnIndex(1)
				if e.Active() {
					imgui.Text("yes")
				} else {
					imgui.Text("no")
				}

				imgui.TableSetColumnIndex(2)
				types := e.ComponentTypes()
				names := make([]string, len(types))
				for i, t := range types {
					names[i] = t.String()
				}
				imgui.Text(strings.Join(names, ", "))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}

func (qd *QueryDebugger) rebuildCacheIfNeeded(m *ecs.EntityManager) {
	counts := m.CollectStats().ComponentCounts
	if qd.cache.lastTypeCount != len(counts) {
		qd.cache.types = nil
		qd.cache.lastTypeCount = len(counts)
	}

	if qd.cache.types != nil {
		return
	}

	qd.cache.types = make([]ecs.ComponentType, 0, len(counts))
	for _, c := range counts {
		qd.cache.types = append(qd.cache.types, c.Type)
	}
}
