package ecs

import (
	"context"
	"time"
)

// DefaultFixedStep is the simulation step the loop uses until SetFixedStep
// overrides it, in seconds.
const DefaultFixedStep = 1.0 / 60.0

// LoopStats is a point-in-time snapshot of loop throughput.
type LoopStats struct {
	Ticks        uint64
	Steps        uint64
	DroppedSteps uint64
	LastDelta    float64
	LastAlpha    float64
	UpdateTime   time.Duration
	RenderTime   time.Duration
}

// GameLoop turns irregular host ticks into fixed simulation steps. Elapsed
// time accumulates across ticks; each tick drains the accumulator in whole
// fixed steps through the update callback, then renders once with the
// leftover fraction as the interpolation factor. Timestamps and the fixed
// step share one unit chosen by the caller; the default step assumes
// seconds.
type GameLoop struct {
	update func(dt float64)
	render func(alpha float64)

	fixedStep   float64
	maxCatchUp  int
	clock       Clock
	accumulator float64
	lastTime    float64
	running     bool
	paused      bool
	rebase      bool
	stats       LoopStats
}

// NewGameLoop builds a stopped loop around the two phase callbacks. Either
// callback may be nil, in which case that phase is skipped.
func NewGameLoop(update func(dt float64), render func(alpha float64)) *GameLoop {
	if update == nil {
		update = func(float64) {}
	}
	if render == nil {
		render = func(float64) {}
	}
	return &GameLoop{
		update:    update,
		render:    render,
		fixedStep: DefaultFixedStep,
		clock:     NewClock(),
	}
}

// SetFixedStep changes the simulation step. It takes effect on the next
// tick and panics on a non-positive step.
func (l *GameLoop) SetFixedStep(step float64) {
	if step <= 0 {
		panic("ecs: fixed step must be positive")
	}
	l.fixedStep = step
}

func (l *GameLoop) FixedStep() float64 {
	return l.fixedStep
}

// SetMaxCatchUp caps how many update steps a single tick may run. Zero
// removes the cap; a long stall then replays every missed step.
func (l *GameLoop) SetMaxCatchUp(steps int) {
	if steps < 0 {
		steps = 0
	}
	l.maxCatchUp = steps
}

// SetClock swaps the time source Run samples. Nil restores the wall clock.
func (l *GameLoop) SetClock(c Clock) {
	if c == nil {
		c = NewClock()
	}
	l.clock = c
}

// Start arms the loop. Tick timestamps are measured from here: the first
// tick after Start sees its full timestamp as elapsed time. Starting a
// running loop does nothing.
func (l *GameLoop) Start() {
	if l.running {
		return
	}
	l.running = true
	l.paused = false
	l.rebase = false
	l.accumulator = 0
	l.lastTime = 0
}

// Stop disarms the loop. Ticks on a stopped loop do nothing.
func (l *GameLoop) Stop() {
	l.running = false
}

func (l *GameLoop) Running() bool {
	return l.running
}

// Pause freezes the simulation. Ticks while paused only slide the time
// reference forward, so the paused interval never reaches the accumulator.
func (l *GameLoop) Pause() {
	l.paused = true
}

// Resume unfreezes a paused loop. The accumulator is zeroed and the time
// reference re-bases on the next tick, so neither the paused interval nor
// partial progress from before the pause produces a catch-up burst.
func (l *GameLoop) Resume() {
	if !l.paused {
		return
	}
	l.paused = false
	l.rebase = true
	l.accumulator = 0
}

func (l *GameLoop) Paused() bool {
	return l.paused
}

// InterpolationFactor reports how far the simulation sits between the last
// two update steps, in [0, 1).
func (l *GameLoop) InterpolationFactor() float64 {
	return l.accumulator / l.fixedStep
}

// Tick advances the loop to the absolute timestamp now. It runs zero or
// more fixed update steps followed by exactly one render.
func (l *GameLoop) Tick(now float64) {
	if !l.running {
		return
	}
	if l.paused {
		l.lastTime = now
		return
	}
	if l.rebase {
		l.lastTime = now
		l.rebase = false
	}

	delta := now - l.lastTime
	l.lastTime = now
	if delta < 0 {
		// host clock moved backwards
		delta = 0
	}
	l.accumulator += delta
	l.stats.Ticks++
	l.stats.LastDelta = delta

	if l.maxCatchUp > 0 {
		if limit := float64(l.maxCatchUp) * l.fixedStep; l.accumulator > limit {
			l.stats.DroppedSteps += uint64((l.accumulator - limit) / l.fixedStep)
			l.accumulator = limit
		}
	}

	start := time.Now()
	for l.accumulator >= l.fixedStep {
		l.update(l.fixedStep)
		l.accumulator -= l.fixedStep
		l.stats.Steps++
	}
	l.stats.UpdateTime = time.Since(start)

	alpha := l.accumulator / l.fixedStep
	l.stats.LastAlpha = alpha

	start = time.Now()
	l.render(alpha)
	l.stats.RenderTime = time.Since(start)
}

// Run starts the loop and ticks it from the configured clock every
// interval until the context ends or the loop stops. Timestamps are
// seconds since Run began, so the fixed step must be in seconds too.
func (l *GameLoop) Run(ctx context.Context, interval time.Duration) {
	l.Start()
	defer l.Stop()

	epoch := l.clock.Now()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for l.running {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Tick(l.clock.Now().Sub(epoch).Seconds())
		}
	}
}

// GetStats returns a copy of the loop counters.
func (l *GameLoop) GetStats() LoopStats {
	return l.stats
}
