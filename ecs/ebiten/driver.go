// Package ebiten adapts a GameLoop to the Ebiten game callbacks. The
// driver feeds Update timestamps into the loop and hands Draw the screen
// together with the current interpolation factor.
package ebiten

import (
	"time"

	engine "github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/simcore/ecs"
)

// Driver implements ebiten.Game on top of a GameLoop. The loop's update
// and render callbacks fire inside Update; painting to the screen happens
// in the draw function, which receives the alpha the last render phase
// saw.
type Driver struct {
	loop       *ecs.GameLoop
	draw       func(screen *engine.Image, alpha float64)
	frameStart func()
	frameEnd   func()
	width      int
	height     int
	epoch      time.Time
}

// NewDriver wraps loop for ebiten.RunGame. Width and height size the
// window when Run opens it. A nil draw is allowed for headless hosts.
func NewDriver(loop *ecs.GameLoop, width, height int, draw func(*engine.Image, float64)) *Driver {
	return &Driver{
		loop:   loop,
		draw:   draw,
		width:  width,
		height: height,
	}
}

// SetFrameHooks brackets every Tick with start and end. An ImGui backend
// hooks its BeginFrame/EndFrame here so render systems may emit widgets.
// Either hook may be nil.
func (d *Driver) SetFrameHooks(start, end func()) {
	d.frameStart = start
	d.frameEnd = end
}

// Update advances the loop by the wall clock time since the first call.
// It reports ebiten.Termination once the loop has stopped.
func (d *Driver) Update() error {
	if d.epoch.IsZero() {
		d.epoch = time.Now()
	}

	if d.frameStart != nil {
		d.frameStart()
	}
	d.loop.Tick(time.Since(d.epoch).Seconds())
	if d.frameEnd != nil {
		d.frameEnd()
	}

	if !d.loop.Running() {
		return engine.Termination
	}
	return nil
}

func (d *Driver) Draw(screen *engine.Image) {
	if d.draw != nil {
		d.draw(screen, d.loop.InterpolationFactor())
	}
}

func (d *Driver) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// Run opens the window, starts the loop and blocks until the loop stops
// or the window closes.
func (d *Driver) Run(title string) error {
	engine.SetWindowSize(d.width, d.height)
	engine.SetWindowTitle(title)
	d.loop.Start()
	return engine.RunGame(d)
}
