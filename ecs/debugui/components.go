package debugui

import (
	"github.com/plus3/simcore/ecs"
)

// EntityBrowser lists the live population in a sortable, filterable,
// paginated table and tracks the row the user selected.
type EntityBrowser struct {
	cache              *entityBrowserCache
	selected           ecs.EntityID
	hasSelection       bool
	filterText         string
	filterType         *ecs.ComponentType
	maxEntitiesPerPage int
	currentPage        int
}

// ComponentInspector edits the components of one entity field by field.
type ComponentInspector struct {
	lastEntity ecs.EntityID
}

// ComponentViewer summarizes the population per component type.
type ComponentViewer struct {
	cache         *componentViewerCache
	selectedType  *ecs.ComponentType
	sortColumn    int
	sortAscending bool
}

// PerformanceStats plots frame times and shows manager and loop counters.
type PerformanceStats struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}

// QueryDebugger runs component membership queries interactively.
type QueryDebugger struct {
	selectedTypes map[ecs.ComponentType]bool
	cache         *queryDebuggerCache
}
