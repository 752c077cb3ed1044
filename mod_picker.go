package flyscene

import (
	"github.com/flyscene/flyscene/render/core"
)

// PickerModule places the marker where the cursor ray meets a horizontal
// plane. The plane height follows the accumulated scroll wheel.
type PickerModule struct {
	ScrollStep float32
	ShowMarker bool
}

// PickState is the picker resource. Height is recomputed from the scroll
// accumulator every frame.
type PickState struct {
	core.Picker
	ScrollStep float32
	ShowMarker bool
}

func (m PickerModule) Install(app *App, cmd *Commands) {
	step := m.ScrollStep
	if step <= 0 {
		step = 1
	}
	cmd.AddResources(&PickState{
		ScrollStep: step,
		ShowMarker: m.ShowMarker,
	})
	app.UseSystem(System(pickerSystem).InStage(PostUpdate))
	if _, ok := Resource[Renderer](app); ok {
		app.UseSystem(System(pickerMarkerSystem).InStage(PostRender))
	}
}

func pickerSystem(input *Input, cam *core.Camera, pick *PickState) {
	pick.PlaneHeight = input.ScrollY * float64(pick.ScrollStep)
	if input.MouseCaptured {
		return
	}
	pick.Update(cam, input.MouseX, input.MouseY, input.WindowWidth, input.WindowHeight)
}

func pickerMarkerSystem(input *Input, cam *core.Camera, pick *PickState, r *Renderer) {
	pos, placed := pick.Placement()
	r.MarkerVisible = pick.ShowMarker && placed && !input.MouseCaptured
	if !r.MarkerVisible {
		return
	}
	r.Marker.Transform().Position = pos
	r.DrawOverlay(cam)
}
