package client

import (
	"bytes"
	"context"
	"image/png"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/battmeter/pkg/config"
	"github.com/charlie0129/battmeter/pkg/daemon"
	"github.com/charlie0129/battmeter/pkg/events"
	"github.com/charlie0129/battmeter/pkg/meter"
	"github.com/charlie0129/battmeter/pkg/powerinfo"
	"github.com/charlie0129/battmeter/pkg/types"
	"github.com/charlie0129/battmeter/pkg/version"
)

// serve runs a daemon reporting a discharging battery at level on a unix
// socket and returns a client for it.
func serve(t *testing.T, level int) *Client {
	t.Helper()

	// unix socket paths are short on macOS, so avoid t.TempDir
	dir, err := os.MkdirTemp("", "bm")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	state := meter.NewBatteryState()
	state.Level = level
	state.Status = meter.StatusDischarging

	conf := config.NewFileFromConfig(nil, filepath.Join(dir, "config.json"))
	d, err := daemon.New(conf, powerinfo.ReaderFunc(func() (meter.BatteryState, error) { return state, nil }))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	sock := filepath.Join(dir, "d.sock")
	l, err := net.Listen("unix", sock)
	require.NoError(t, err)
	srv := &http.Server{Handler: d.Handler()}
	go func() { _ = srv.Serve(l) }()

	t.Cleanup(func() {
		d.Stop()
		cancel()
		_ = srv.Close()
	})

	c := NewClient(sock)
	require.Eventually(t, func() bool {
		s, err := c.GetState()
		return err == nil && s.Level == level
	}, 3*time.Second, 20*time.Millisecond)
	return c
}

func TestDaemonNotRunning(t *testing.T) {
	c := NewClient(filepath.Join(t.TempDir(), "missing.sock"))
	_, err := c.GetVersion()
	assert.ErrorIs(t, err, ErrDaemonNotRunning)
}

func TestNotFound(t *testing.T) {
	c := serve(t, 50)
	_, err := c.Get("/no-such-route")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnknownMethod(t *testing.T) {
	c := NewClient("unused")
	_, err := c.Send(http.MethodDelete, "/style", "")
	assert.ErrorContains(t, err, "unknown method")
}

func TestSettings(t *testing.T) {
	c := serve(t, 50)

	v, err := c.GetVersion()
	require.NoError(t, err)
	assert.Equal(t, version.Version, v)

	_, err = c.SetStyle(meter.StyleCircle)
	require.NoError(t, err)
	_, err = c.SetShowPercent(true)
	require.NoError(t, err)
	_, err = c.SetCircleDots(3, 2)
	require.NoError(t, err)
	_, err = c.SetLevels(30, 10)
	require.NoError(t, err)
	_, err = c.SetPollSchedule("@every 1m")
	require.NoError(t, err)

	conf, err := c.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "circle", *conf.Style)
	assert.True(t, *conf.ShowPercent)
	assert.Equal(t, 3, *conf.CircleDotInterval)
	assert.Equal(t, 2, *conf.CircleDotLength)
	assert.Equal(t, 30, *conf.LowLevel)
	assert.Equal(t, 10, *conf.CriticalLevel)
	assert.Equal(t, "@every 1m", *conf.PollSchedule)

	_, err = c.SetPollSchedule("not a schedule")
	assert.Error(t, err)
	_, err = c.SetLevels(10, 30)
	assert.Error(t, err)
}

func TestMeterImages(t *testing.T) {
	c := serve(t, 50)

	size, err := c.SetFrameSize(0, 29)
	require.NoError(t, err)
	assert.Equal(t, types.FrameSize{Width: 19, Height: 29}, *size)

	// the render loop picks up the new size asynchronously
	require.Eventually(t, func() bool {
		b, err := c.GetMeterPNG(context.Background(), 0, 0)
		if err != nil {
			return false
		}
		img, err := png.Decode(bytes.NewReader(b))
		return err == nil && img.Bounds().Dx() == 19 && img.Bounds().Dy() == 29
	}, 3*time.Second, 20*time.Millisecond)

	b, err := c.GetMeterPNG(context.Background(), 0, 58)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 58, img.Bounds().Dy())

	svg, err := c.GetMeterSVG(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Contains(t, string(svg), "</svg>")
}

func TestDemo(t *testing.T) {
	c := serve(t, 50)

	s, err := c.Demo(meter.DemoCommandEnter, nil)
	require.NoError(t, err)
	assert.True(t, s.DemoMode)

	s, err = c.Demo(meter.DemoCommandBattery, map[string]string{"level": "80", "plugged": "true"})
	require.NoError(t, err)
	assert.True(t, s.DemoMode)
	assert.Equal(t, 80, s.Level)

	_, err = c.Demo("bogus", nil)
	assert.Error(t, err)

	s, err = c.Demo(meter.DemoCommandExit, nil)
	require.NoError(t, err)
	assert.False(t, s.DemoMode)
	assert.Equal(t, 50, s.Level)
}

func TestSubscribeEvents(t *testing.T) {
	c := serve(t, 50)

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := c.SubscribeEvents(ctx)
	require.NoError(t, err)

	select {
	case ev := <-ch:
		require.Equal(t, events.BatteryState, ev.Name)
		s, err := events.DecodeAs[events.BatteryStateEvent](ev)
		require.NoError(t, err)
		assert.Equal(t, 50, s.Level)
	case <-time.After(3 * time.Second):
		t.Fatal("no event received")
	}

	_, err = c.Demo(meter.DemoCommandEnter, nil)
	require.NoError(t, err)
	_, err = c.Demo(meter.DemoCommandBattery, map[string]string{"level": "7"})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		select {
		case ev := <-ch:
			if ev.Name != events.BatteryState {
				return false
			}
			s, err := events.DecodeAs[events.BatteryStateEvent](ev)
			return err == nil && s.Level == 7
		default:
			return false
		}
	}, 3*time.Second, 10*time.Millisecond)

	cancel()
	assert.Eventually(t, func() bool {
		for {
			select {
			case _, ok := <-ch:
				if !ok {
					return true
				}
			default:
				return false
			}
		}
	}, 3*time.Second, 10*time.Millisecond)
}
