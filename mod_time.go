package flyscene

import (
	"time"
)

type Time struct {
	Time    time.Time
	Dt      time.Duration
	Elapsed time.Duration
}

// Seconds is the last frame's duration in seconds.
func (t *Time) Seconds() float32 {
	return float32(t.Dt.Seconds())
}

// TimeModule measures frame time. A non-zero Fixed step replaces the wall
// clock, which keeps headless runs deterministic.
type TimeModule struct {
	Fixed time.Duration
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Time{
		Time: time.Now(),
		Dt:   0,
	})
	if mod.Fixed > 0 {
		step := mod.Fixed
		app.UseSystem(System(func(t *Time) {
			t.Dt = step
			t.Time = t.Time.Add(step)
			t.Elapsed += step
		}).InStage(Prelude))
		return
	}
	app.UseSystem(System(timeSystem).InStage(Prelude))
}

func timeSystem(timeResource *Time) {
	now := time.Now()

	timeResource.Dt = now.Sub(timeResource.Time)
	timeResource.Time = now
	timeResource.Elapsed += timeResource.Dt
}
