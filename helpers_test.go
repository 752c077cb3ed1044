package flyscene

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/flyscene/flyscene/config"
	"github.com/flyscene/flyscene/render/gpu"

	"github.com/stretchr/testify/require"
)

const testStep = 10 * time.Millisecond

func headlessConfig() config.Config {
	cfg := config.Default()
	cfg.Renderer.Backend = config.BackendHeadless
	cfg.Scene.RandomCubes = 4
	cfg.Scene.GridRadius = 2
	return cfg
}

// syncBuffer is written by the config watcher goroutine and read by tests.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type testApp struct {
	*App
	dev   *gpu.MemoryDevice
	input *Input
	log   *syncBuffer
}

// newHeadlessApp builds the full viewer on the in-memory device with a
// fixed time step and an 800x600 window.
func newHeadlessApp(t *testing.T, cfg config.Config, opt Options) *testApp {
	t.Helper()
	buf := &syncBuffer{}
	opt.Logger = NewLoggerTo(buf, buf, "[test]", true)
	if opt.FixedStep == 0 {
		opt.FixedStep = testStep
	}
	app := New(cfg, opt)
	t.Cleanup(app.Shutdown)

	r := MustResource[Renderer](app)
	dev, ok := r.Device.(*gpu.MemoryDevice)
	require.True(t, ok)

	input := MustResource[Input](app)
	input.WindowWidth, input.WindowHeight = 800, 600
	input.FramebufferWidth, input.FramebufferHeight = 800, 600

	return &testApp{App: app, dev: dev, input: input, log: buf}
}
