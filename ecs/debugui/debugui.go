// Package debugui provides immediate-mode GUI integration for simulations
// using Dear ImGui. Debug windows ride on ordinary entities: attach an
// ImguiItem with a render closure and register the ImguiSystem in the
// render set.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/simcore/ecs"
)

// ImguiItemType identifies the component carrying a Dear ImGui render
// function.
var ImguiItemType = ecs.NewComponentType("ImguiItem")

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	ecs.BaseComponent
	Render func()
}

func (*ImguiItem) Type() ecs.ComponentType { return ImguiItemType }

// MarshalJSON writes an empty object so populations holding debug entities
// stay serializable. The render closure cannot round-trip.
func (i *ImguiItem) MarshalJSON() ([]byte, error) { return []byte("{}"), nil }

// UnmarshalJSON restores an item with no render function. The system skips
// it until a closure is assigned.
func (i *ImguiItem) UnmarshalJSON([]byte) error { return nil }

// ImguiInputState reports whether Dear ImGui is consuming mouse or keyboard
// input. Simulation systems consult it to ignore input the GUI captured.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem runs in the render set, refreshes the input capture state
// once per frame and invokes every ImguiItem render function. The host must
// bracket the frame with the backend's BeginFrame/EndFrame around the
// render phase.
type ImguiSystem struct {
	ecs.BaseSystem
	input ImguiInputState
}

func NewImguiSystem() *ImguiSystem {
	s := &ImguiSystem{}
	s.BaseSystem = ecs.NewBaseSystem(s, ImguiItemType)
	return s
}

// Render snapshots ImGui's capture flags, then draws every item.
func (s *ImguiSystem) Render(alpha float64, m *ecs.EntityManager) {
	io := imgui.CurrentIO()
	s.input.WantCaptureMouse = io.WantCaptureMouse()
	s.input.WantCaptureKeyboard = io.WantCaptureKeyboard()

	s.BaseSystem.Render(alpha, m)
}

func (s *ImguiSystem) ProcessEntityRender(alpha float64, e *ecs.Entity) {
	item, ok := ecs.Get[*ImguiItem](e, ImguiItemType)
	if ok && item.Render != nil {
		item.Render()
	}
}

// InputState returns the capture flags sampled at the start of the last
// render phase.
func (s *ImguiSystem) InputState() ImguiInputState {
	return s.input
}
