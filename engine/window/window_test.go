package window

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-ovo/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngineWindowClampsInitialSize(t *testing.T) {
	w := newEngineWindow(WithSize(100, 5000), WithMaxSize(1920, 1000))
	assert.Equal(t, 320, w.Width())
	assert.Equal(t, 1000, w.Height())

	w = newEngineWindow(WithSize(100, 100), WithMinSize(200, 150))
	assert.Equal(t, 200, w.Width())
	assert.Equal(t, 150, w.Height())

	w = newEngineWindow(WithTitle("viewer"), WithSize(800, 600))
	assert.Equal(t, "viewer", w.title)
	assert.Equal(t, 800, w.Width())
	assert.Equal(t, 600, w.Height())
}

func TestDispatchKey(t *testing.T) {
	w := newEngineWindow()
	var got []KeyEvent
	w.SetKeyCallback(func(e KeyEvent) { got = append(got, e) })

	assert.False(t, w.dispatchKey(KeyEvent{Key: common.KeyW, Action: KeyPress, Shift: true}))
	assert.False(t, w.dispatchKey(KeyEvent{Key: common.KeyW, Action: KeyRelease}))
	assert.True(t, w.dispatchKey(KeyEvent{Key: common.KeyEsc, Action: KeyPress}))

	require.Len(t, got, 2, "escape is consumed by the window")
	assert.True(t, got[0].Down())
	assert.True(t, got[0].Shift)
	assert.False(t, got[1].Down())
}

func TestDispatchResizeIgnoresMinimise(t *testing.T) {
	w := newEngineWindow()
	var calls [][2]int
	w.SetResizeCallback(func(width, height int) { calls = append(calls, [2]int{width, height}) })

	w.dispatchResize(0, 0)
	w.dispatchResize(1024, 768)

	assert.Equal(t, [][2]int{{1024, 768}}, calls)
	assert.Equal(t, 1024, w.Width())
	assert.Equal(t, 768, w.Height())
}

func TestClosedWindowReportsNotRunning(t *testing.T) {
	w := newEngineWindow()
	assert.False(t, w.IsRunning())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.Error(t, w.Close())
}
