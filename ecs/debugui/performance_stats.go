package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/simcore/ecs"
)

func NewPerformanceStats(historyFrames int) PerformanceStats {
	return PerformanceStats{
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
		frameIndex:    0,
	}
}

// Render draws manager counters, the frame time graph and, when loop is
// non-nil, the fixed step counters.
func (ps *PerformanceStats) Render(m *ecs.EntityManager, loop *ecs.GameLoop, deltaTime float32) {
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ps.frameHistory[ps.frameIndex] = deltaTime * 1000.0
	ps.frameIndex = (ps.frameIndex + 1) % ps.historyFrames

	stats := m.CollectStats()

	imgui.Text(fmt.Sprintf("Total Entities: %d", stats.EntityCount))
	imgui.Text(fmt.Sprintf("Logic Systems: %d", stats.LogicSystemCount))
	imgui.Text(fmt.Sprintf("Render Systems: %d", stats.RenderSystemCount))
	imgui.Text(fmt.Sprintf("Queued Events: %d", stats.QueuedEventCount))

	var avgFrameTime float32
	for _, ft := range ps.frameHistory {
		avgFrameTime += ft
	}
	avgFrameTime /= float32(ps.historyFrames)

	imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avgFrameTime, 1000.0/avgFrameTime))

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &ps.frameHistory[0], int32(len(ps.frameHistory)))

	if imgui.TreeNodeStr("Component Details") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("ComponentStatsTable", 2, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Type")
			imgui.TableSetupColumn("Count")
			imgui.TableHeadersRow()

			for _, c := range stats.ComponentCounts {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(c.Type.String())
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", c.Count))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if loop != nil {
		if imgui.TreeNodeStr("Loop Details") {
			loopStats := loop.GetStats()
			imgui.Text(fmt.Sprintf("Ticks: %d", loopStats.Ticks))
			imgui.Text(fmt.Sprintf("Steps: %d", loopStats.Steps))
			imgui.Text(fmt.Sprintf("Dropped Steps: %d", loopStats.DroppedSteps))
			imgui.Text(fmt.Sprintf("Last Alpha: %.3f", loopStats.LastAlpha))
			imgui.Text(fmt.Sprintf("Update Time: %s", loopStats.UpdateTime))
			imgui.Text(fmt.Sprintf("Render Time: %s", loopStats.RenderTime))
			imgui.TreePop()
		}
	}

	imgui.End()
}

type FrameTimer struct {
	lastFrameTime time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{
		lastFrameTime: time.Now(),
	}
}

func (ft *FrameTimer) GetDeltaTime() float32 {
	now := time.Now()
	delta := float32(now.Sub(ft.lastFrameTime).Seconds())
	ft.lastFrameTime = now
	return delta
}
