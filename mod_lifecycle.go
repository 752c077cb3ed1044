package flyscene

// LifecycleModule ends the App on Escape, on a window close request, or after
// MaxFrames frames when MaxFrames is positive.
type LifecycleModule struct {
	MaxFrames uint64
}

type frameBudget struct {
	max uint64
}

func (mod LifecycleModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&frameBudget{max: mod.MaxFrames})
	app.UseSystem(
		System(lifecycleSystem).
			InStage(PostUpdate),
	)
}

func lifecycleSystem(input *Input, budget *frameBudget, cmd *Commands) {
	switch {
	case input.JustPressed[KeyEscape]:
		cmd.Logger().Infof("escape pressed, quitting")
		cmd.Quit()
	case input.CloseRequested:
		cmd.Logger().Infof("window closed, quitting")
		cmd.Quit()
	case budget.max > 0 && cmd.Frame()+1 >= budget.max:
		cmd.Logger().Debugf("frame budget of %d reached", budget.max)
		cmd.Quit()
	}
}
