package flyscene

import (
	"fmt"
	"reflect"
	"runtime"
)

type systemFn any

// Module wires resources and systems into an App.
type Module interface {
	Install(app *App, cmd *Commands)
}

type App struct {
	stages           []Stage
	systemsStateless map[string][]systemFn
	resources        map[reflect.Type]any
	shutdown         []func()

	frame    uint64
	quit     bool
	finished bool
}

// NewApp returns an App with the default stage order and no modules.
func NewApp() *App {
	app := &App{
		systemsStateless: make(map[string][]systemFn),
		resources:        make(map[reflect.Type]any),
	}
	for _, stage := range defaultStages {
		app.stages = append(app.stages, stage)
		app.initStage(stage)
	}
	return app
}

func (app *App) Commands() *Commands {
	return &Commands{
		app: app,
	}
}

func (app *App) UseModules(modules ...Module) *App {
	cmd := app.Commands()
	for _, module := range modules {
		module.Install(app, cmd)
	}
	return app
}

// Run executes frames until a system asks to quit, then runs the shutdown hooks.
func (app *App) Run() {
	app.Logger().Infof("running with %d stages", len(app.stages))
	for !app.quit {
		app.Step()
	}
	app.Shutdown()
}

// Step executes every stage once.
func (app *App) Step() {
	for _, stage := range app.stages {
		for _, system := range app.systemsStateless[stage.Name] {
			app.callSystem(system)
		}
	}
	app.frame++
}

// Frame is the number of completed frames.
func (app *App) Frame() uint64 { return app.frame }

// Quit stops Run after the current frame.
func (app *App) Quit() { app.quit = true }

func (app *App) QuitRequested() bool { return app.quit }

// Shutdown runs the registered hooks in reverse order, once.
func (app *App) Shutdown() {
	if app.finished {
		return
	}
	app.finished = true
	for i := len(app.shutdown) - 1; i >= 0; i-- {
		app.shutdown[i]()
	}
}

func (app *App) onShutdown(fn func()) {
	app.shutdown = append(app.shutdown, fn)
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// Resource returns the resource of type *T installed in app.
func Resource[T any](app *App) (*T, bool) {
	res, ok := app.resources[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	typed, ok := res.(*T)
	return typed, ok
}

// MustResource is Resource for modules that cannot work without a dependency.
func MustResource[T any](app *App) *T {
	res, ok := Resource[T](app)
	if !ok {
		panic(fmt.Sprintf("missing resource %s; install its module first", reflect.TypeFor[T]()))
	}
	return res
}

var typeOfCommands = reflect.TypeOf(Commands{})

func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		if argType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("system %s: argument %d (%s) must be a pointer",
				runtime.FuncForPC(systemValue.Pointer()).Name(), i, argType))
		}
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, argIsResource := app.resources[underlyingType]; argIsResource {
			args[i] = reflect.ValueOf(resource)
		} else {
			msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
				runtime.FuncForPC(systemValue.Pointer()).Name(),
				fmt.Sprint(systemType),
				fmt.Sprint(argType),
			)
			app.Logger().Errorf("%s", msg)
			panic(msg)
		}
	}
	systemValue.Call(args)
}
