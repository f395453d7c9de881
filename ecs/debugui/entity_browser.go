package debugui

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/simcore/ecs"
)

type entityRow struct {
	ID        ecs.EntityID
	Active    bool
	Types     []ecs.ComponentType
	TypeNames []string
}

type entityBrowserCache struct {
	rows            []entityRow
	lastEntityCount int
	sortColumn      int
	sortAscending   bool
}

func NewEntityBrowser(maxEntitiesPerPage int) *EntityBrowser {
	return &EntityBrowser{
		cache: &entityBrowserCache{
			sortColumn:    0,
			sortAscending: true,
		},
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

func (eb *EntityBrowser) Render(m *ecs.EntityManager) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.rebuildCacheIfNeeded(m)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
		eb.filterType = nil
	}
	if eb.filterType != nil {
		imgui.SameLine()
		imgui.Text(fmt.Sprintf("type: %s", *eb.filterType))
	}

	if imgui.Button("New Entity") {
		m.CreateEntity()
		eb.Refresh()
	}
	if eb.hasSelection {
		imgui.SameLine()
		if imgui.Button("Destroy Selected") {
			m.DestroyEntity(eb.selected)
			eb.hasSelection = false
			eb.Refresh()
		}
		if e, ok := m.GetEntity(eb.selected); ok {
			imgui.SameLine()
			label := "Deactivate"
			if !e.Active() {
				label = "Activate"
			}
			if imgui.Button(label) {
				e.SetActive(!e.Active())
				eb.Refresh()
			}
		}
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Active")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.cache.sortColumn = int(spec.ColumnIndex())
			eb.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			eb.sortRows()
			sortSpecs.SetSpecsDirty(false)
		}

		filteredRows := eb.getFilteredRows()

		startIdx := eb.currentPage * eb.maxEntitiesPerPage
		if startIdx >= len(filteredRows) {
			startIdx = 0
			eb.currentPage = 0
		}
		endIdx := startIdx + eb.maxEntitiesPerPage
		if endIdx > len(filteredRows) {
			endIdx = len(filteredRows)
		}

		for i := startIdx; i < endIdx; i++ {
			row := filteredRows[i]
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.hasSelection && eb.selected == row.ID
			if imgui.SelectableBoolV(fmt.Sprintf("%d", row.ID), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selected = row.ID
				eb.hasSelection = true
			}

			imgui.TableNextColumn()
			if row.Active {
				imgui.Text("yes")
			} else {
				imgui.Text("no")
			}

			imgui.TableNextColumn()
			imgui.Text(strings.Join(row.TypeNames, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", len(row.Types)))
		}

		imgui.EndTable()
	}

	filteredRows := eb.getFilteredRows()

	if len(filteredRows) > eb.maxEntitiesPerPage {
		totalPages := (len(filteredRows) + eb.maxEntitiesPerPage - 1) / eb.maxEntitiesPerPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filteredRows)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filteredRows)))
	}

	imgui.End()
}

// Refresh drops the cached rows so the next frame rebuilds them. Call it
// after mutating the population outside the browser.
func (eb *EntityBrowser) Refresh() {
	eb.cache.rows = nil
}

// SetTypeFilter narrows the table to entities holding t. Nil clears the
// narrowing.
func (eb *EntityBrowser) SetTypeFilter(t *ecs.ComponentType) {
	eb.filterType = t
	eb.currentPage = 0
}

func (eb *EntityBrowser) rebuildCacheIfNeeded(m *ecs.EntityManager) {
	if eb.cache.lastEntityCount != m.EntityCount() {
		eb.cache.rows = nil
		eb.cache.lastEntityCount = m.EntityCount()
	}

	if eb.cache.rows == nil {
		eb.rebuildCache(m)
	}
}

func (eb *EntityBrowser) rebuildCache(m *ecs.EntityManager) {
	entities := m.EntitiesWith()
	eb.cache.rows = make([]entityRow, 0, len(entities))

	for _, e := range entities {
		types := e.ComponentTypes()
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = t.String()
		}

		eb.cache.rows = append(eb.cache.rows, entityRow{
			ID:        e.ID(),
			Active:    e.Active(),
			Types:     types,
			TypeNames: names,
		})
	}

	eb.sortRows()
}

func (eb *EntityBrowser) sortRows() {
	sort.Slice(eb.cache.rows, func(i, j int) bool {
		a, b := eb.cache.rows[i], eb.cache.rows[j]
		var less bool

		switch eb.cache.sortColumn {
		case 0:
			less = a.ID < b.ID
		case 1:
			less = !a.Active && b.Active
		case 2:
			less = strings.Join(a.TypeNames, ",") < strings.Join(b.TypeNames, ",")
		case 3:
			less = len(a.Types) < len(b.Types)
		default:
			less = a.ID < b.ID
		}

		if !eb.cache.sortAscending {
			return !less
		}
		return less
	})
}

func (eb *EntityBrowser) getFilteredRows() []entityRow {
	if eb.filterText == "" && eb.filterType == nil {
		return eb.cache.rows
	}

	filtered := make([]entityRow, 0, len(eb.cache.rows))
	filterLower := strings.ToLower(eb.filterText)

	for _, row := range eb.cache.rows {
		if eb.filterType != nil && !slices.Contains(row.Types, *eb.filterType) {
			continue
		}

		if eb.filterText != "" {
			idStr := fmt.Sprintf("%d", row.ID)
			namesStr := strings.ToLower(strings.Join(row.TypeNames, " "))

			if !strings.Contains(idStr, filterLower) &&
				!strings.Contains(namesStr, filterLower) {
				continue
			}
		}

		filtered = append(filtered, row)
	}

	return filtered
}

// SelectedEntity resolves the selected row against the live registry. A
// destroyed selection clears itself.
func (eb *EntityBrowser) SelectedEntity(m *ecs.EntityManager) *ecs.Entity {
	if !eb.hasSelection {
		return nil
	}
	e, ok := m.GetEntity(eb.selected)
	if !ok {
		eb.hasSelection = false
		return nil
	}
	return e
}
