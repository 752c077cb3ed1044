package flyscene

// Commands is handed to systems that need to change the App itself.
type Commands struct {
	app *App
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

// UseSystem schedules system in the Update stage.
func (cmd *Commands) UseSystem(system systemFn) *Commands {
	cmd.app.UseSystem(System(system))
	return cmd
}

// Quit stops Run after the current frame.
func (cmd *Commands) Quit() {
	cmd.app.Quit()
}

// OnShutdown registers fn to run when the App stops. Hooks run in reverse
// registration order.
func (cmd *Commands) OnShutdown(fn func()) *Commands {
	cmd.app.onShutdown(fn)
	return cmd
}

func (cmd *Commands) Frame() uint64 { return cmd.app.frame }

func (cmd *Commands) Logger() Logger { return cmd.app.Logger() }
