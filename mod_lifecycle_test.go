package flyscene

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLifecycleModule_FrameBudget(t *testing.T) {
	ta := newHeadlessApp(t, headlessConfig(), Options{MaxFrames: 3})

	ta.Run()

	assert.Equal(t, uint64(3), ta.Frame())
	assert.Equal(t, 3, ta.dev.Frames())
	assert.Zero(t, ta.dev.Live(), "shutdown releases every geometry")
}

func TestLifecycleModule_Escape(t *testing.T) {
	ta := newHeadlessApp(t, headlessConfig(), Options{})

	ta.Step()
	assert.False(t, ta.QuitRequested())

	ta.input.SetKey(KeyEscape, true)
	ta.Step()
	assert.True(t, ta.QuitRequested())
}

func TestLifecycleModule_CloseRequested(t *testing.T) {
	ta := newHeadlessApp(t, headlessConfig(), Options{})
	ta.input.CloseRequested = true
	ta.Step()
	assert.True(t, ta.QuitRequested())
}
