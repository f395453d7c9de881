package debugui

import (
	"fmt"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/simcore/ecs"
)

type typeRow struct {
	Type  ecs.ComponentType
	Name  string
	Count int
}

type componentViewerCache struct {
	rows          []typeRow
	lastTypeCount int
	sortColumn    int
	sortAscending bool
}

func NewComponentViewer() ComponentViewer {
	return ComponentViewer{
		cache: &componentViewerCache{
			sortColumn:    2,
			sortAscending: false,
		},
		sortColumn:    2,
		sortAscending: false,
	}
}

// Render draws the per-type population table. It returns the type clicked
// this frame, if any, so the caller can narrow the entity browser.
func (cv *ComponentViewer) Render(m *ecs.EntityManager) *ecs.ComponentType {
	if !imgui.BeginV("Component Viewer", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return nil
	}

	cv.rebuildCacheIfNeeded(m)

	maxCount := 0
	for _, row := range cv.cache.rows {
		if row.Count > maxCount {
			maxCount = row.Count
		}
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("ComponentTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Type ID")
		imgui.TableSetupColumn("Type")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			cv.cache.sortColumn = int(spec.ColumnIndex())
			cv.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			cv.sortColumn = cv.cache.sortColumn
			cv.sortAscending = cv.cache.sortAscending
			cv.sortRows()
			sortSpecs.SetSpecsDirty(false)
		}

		var clickedType *ecs.ComponentType

		for _, row := range cv.cache.rows {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := cv.selectedType != nil && *cv.selectedType == row.Type
			if imgui.SelectableBoolV(fmt.Sprintf("%d", uint32(row.Type)), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				typeCopy := row.Type
				clickedType = &typeCopy
				cv.selectedType = &typeCopy
			}

			imgui.TableNextColumn()
			imgui.Text(row.Name)

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", row.Count))

			if maxCount > 0 {
				barWidth := float32(row.Count) / float32(maxCount) * 80.0
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}
		}

		imgui.EndTable()

		imgui.End()
		return clickedType
	}

	imgui.End()
	return nil
}

func (cv *ComponentViewer) rebuildCacheIfNeeded(m *ecs.EntityManager) {
	counts := m.CollectStats().ComponentCounts
	if cv.cache.lastTypeCount != len(counts) {
		cv.cache.rows = nil
		cv.cache.lastTypeCount = len(counts)
	}

	if cv.cache.rows == nil {
		cv.rebuildCache(counts)
	} else {
		cv.updateCounts(counts)
	}
}

func (cv *ComponentViewer) rebuildCache(counts []ecs.ComponentTypeCount) {
	cv.cache.rows = make([]typeRow, 0, len(counts))

	for _, c := range counts {
		cv.cache.rows = append(cv.cache.rows, typeRow{
			Type:  c.Type,
			Name:  c.Type.String(),
			Count: c.Count,
		})
	}

	cv.sortRows()
}

func (cv *ComponentViewer) updateCounts(counts []ecs.ComponentTypeCount) {
	countByType := make(map[ecs.ComponentType]int, len(counts))
	for _, c := range counts {
		countByType[c.Type] = c.Count
	}

	for i := range cv.cache.rows {
		if count, ok := countByType[cv.cache.rows[i].Type]; ok {
			cv.cache.rows[i].Count = count
		}
	}

	if cv.sortColumn == 2 {
		cv.sortRows()
	}
}

func (cv *ComponentViewer) sortRows() {
	sort.Slice(cv.cache.rows, func(i, j int) bool {
		a, b := cv.cache.rows[i], cv.cache.rows[j]
		var less bool

		switch cv.cache.sortColumn {
		case 0:
			less = a.Type < b.Type
		case 1:
			less = a.Name < b.Name
		case 2:
			less = a.Count < b.Count
		default:
			less = a.Count < b.Count
		}

		if !cv.cache.sortAscending {
			return !less
		}
		return less
	})
}
