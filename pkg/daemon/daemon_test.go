package daemon

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/battmeter/pkg/canvas"
	"github.com/charlie0129/battmeter/pkg/config"
	"github.com/charlie0129/battmeter/pkg/events"
	"github.com/charlie0129/battmeter/pkg/meter"
	"github.com/charlie0129/battmeter/pkg/powerinfo"
	"github.com/charlie0129/battmeter/pkg/types"
	"github.com/charlie0129/battmeter/pkg/version"
)

func discharging(level int) meter.BatteryState {
	s := meter.NewBatteryState()
	s.Level = level
	s.Status = meter.StatusDischarging
	return s
}

func newTestDaemon(t *testing.T, state meter.BatteryState) (*Daemon, *config.File, http.Handler) {
	t.Helper()
	conf := config.NewFileFromConfig(nil, filepath.Join(t.TempDir(), "config.json"))
	reader := powerinfo.ReaderFunc(func() (meter.BatteryState, error) { return state, nil })

	d, err := New(conf, reader)
	require.NoError(t, err)
	t.Cleanup(d.Stop)
	return d, conf, d.setupRoutes()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeState(t *testing.T, w *httptest.ResponseRecorder) events.BatteryStateEvent {
	t.Helper()
	var ev events.BatteryStateEvent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ev))
	return ev
}

func TestGetVersion(t *testing.T) {
	_, _, h := newTestDaemon(t, discharging(50))

	w := do(t, h, "GET", "/version", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `"`+version.Version+`"`, w.Body.String())
}

func TestSetStyle(t *testing.T) {
	d, conf, h := newTestDaemon(t, discharging(50))

	w := do(t, h, "PUT", "/style", `"circle"`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, meter.StyleCircle, conf.Style())
	assert.Equal(t, meter.StyleCircle, d.currentView().Style())

	// the ring is square
	width, height := d.frameSize()
	assert.Equal(t, width, height)

	saved, err := config.NewFile(conf.Path())
	require.NoError(t, err)
	assert.Equal(t, meter.StyleCircle, saved.Style())

	w = do(t, h, "PUT", "/style", `"triangle"`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}


func TestBoolSetters(t *testing.T) {
	d, conf, h := newTestDaemon(t, discharging(50))

	tests := []struct {
		path string
		get  func() bool
	}{
		{"/show-percent", conf.ShowPercent},
		{"/cut-out-text", conf.CutOutText},
		{"/charge-animation", conf.ChargeAnimation},
		{"/power-save", conf.PowerSave},
		{"/show-100-percent", conf.Show100Percent},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := do(t, h, "PUT", tt.path, "true")
			require.Equal(t, http.StatusCreated, w.Code)
			assert.True(t, tt.get())

			w = do(t, h, "PUT", tt.path, "false")
			require.Equal(t, http.StatusCreated, w.Code)
			assert.False(t, tt.get())

			w = do(t, h, "PUT", tt.path, `"yes"`)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	do(t, h, "PUT", "/show-percent", "true")
	assert.True(t, d.currentView().Settings().ShowPercent)
}

func TestSetCircleDots(t *testing.T) {
	d, conf, h := newTestDaemon(t, discharging(50))

	w := do(t, h, "PUT", "/circle-dots", `{"interval":3,"length":2}`)
	require.Equal(t, http.StatusCreated, w.Code)
	interval, length := conf.CircleDots()
	assert.Equal(t, 3, interval)
	assert.Equal(t, 2, length)
	assert.Equal(t, 3, d.currentView().Settings().DotInterval)

	w = do(t, h, "PUT", "/circle-dots", `{"interval":-1,"length":2}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetColors(t *testing.T) {
	d, conf, h := newTestDaemon(t, discharging(50))

	w := do(t, h, "PUT", "/colors", `{"fill":"#ff0000"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	red := canvas.ARGB(0xffff0000)
	assert.Equal(t, red, conf.Colors().Fill)
	assert.Equal(t, meter.FrameFor(red), conf.Colors().Frame, "frame follows the fill")
	assert.Equal(t, conf.Colors(), d.currentView().Colors())

	w = do(t, h, "PUT", "/colors", `{"frame":"#80000000"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, canvas.ARGB(0x80000000), conf.Colors().Frame)
	assert.Equal(t, red, conf.Colors().Fill)

	w = do(t, h, "PUT", "/colors", `{"tint":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetLevels(t *testing.T) {
	_, conf, h := newTestDaemon(t, discharging(50))

	w := do(t, h, "PUT", "/levels", `{"low":30,"critical":20}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 30, conf.LowLevel())
	assert.Equal(t, 20, conf.CriticalLevel())

	w = do(t, h, "PUT", "/levels", `{"low":10,"critical":2}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 10, conf.LowLevel())
	assert.Equal(t, 2, conf.CriticalLevel())

	w = do(t, h, "PUT", "/levels", `{"low":10,"critical":20}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetSize(t *testing.T) {
	d, _, h := newTestDaemon(t, discharging(50))

	w := do(t, h, "PUT", "/size", `{"width":0,"height":58}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var size types.FrameSize
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &size))
	assert.Equal(t, types.FrameSize{Width: 38, Height: 58}, size)

	width, height := d.frameSize()
	assert.Equal(t, 38, width)
	assert.Equal(t, 58, height)

	w = do(t, h, "PUT", "/size", `{"width":0,"height":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetPollSchedule(t *testing.T) {
	_, conf, h := newTestDaemon(t, discharging(50))

	w := do(t, h, "PUT", "/poll-schedule", `"@every 1m"`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "@every 1m", conf.PollSchedule())

	w = do(t, h, "PUT", "/poll-schedule", `"sometimes"`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "@every 1m", conf.PollSchedule())
}

func TestGetMeterPNG(t *testing.T) {
	d, _, h := newTestDaemon(t, discharging(50))
	d.onBatteryState(discharging(50))

	w := do(t, h, "GET", "/meter.png", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	width, height := d.frameSize()
	assert.Equal(t, width, img.Bounds().Dx())
	assert.Equal(t, height, img.Bounds().Dy())

	w = do(t, h, "GET", "/meter.png?h=100&w=40", "")
	require.Equal(t, http.StatusOK, w.Code)
	img, err = png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())

	for _, q := range []string{"?w=abc", "?h=-1", "?h=100000"} {
		w = do(t, h, "GET", "/meter.png"+q, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestGetMeterSVG(t *testing.T) {
	_, _, h := newTestDaemon(t, discharging(50))

	w := do(t, h, "GET", "/meter.svg?h=40", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "<svg")
}

func TestDemo(t *testing.T) {
	d, _, h := newTestDaemon(t, discharging(50))
	d.onBatteryState(discharging(80))

	w := do(t, h, "POST", "/demo", `{"command":"enter"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	ev := decodeState(t, w)
	assert.True(t, ev.DemoMode)
	assert.Equal(t, 80, ev.Level)

	w = do(t, h, "POST", "/demo", `{"command":"battery","args":{"level":"42","plugged":"true"}}`)
	require.Equal(t, http.StatusOK, w.Code)

	ev = decodeState(t, do(t, h, "GET", "/state", ""))
	assert.True(t, ev.DemoMode)
	assert.Equal(t, 42, ev.Level)
	assert.Equal(t, meter.PlugAC, ev.PlugType)

	// real updates do not leak into demo mode
	d.onBatteryState(discharging(79))
	assert.Equal(t, 42, decodeState(t, do(t, h, "GET", "/state", "")).Level)

	w = do(t, h, "POST", "/demo", `{"command":"exit"}`)
	require.Equal(t, http.StatusOK, w.Code)
	ev = decodeState(t, w)
	assert.False(t, ev.DemoMode)
	assert.Equal(t, 79, ev.Level)

	w = do(t, h, "POST", "/demo", `{"command":"dance"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDemoNeedsVisibleMeter(t *testing.T) {
	_, _, h := newTestDaemon(t, discharging(50))
	require.Equal(t, http.StatusCreated, do(t, h, "PUT", "/style", `"hidden"`).Code)

	w := do(t, h, "POST", "/demo", `{"command":"enter"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLevelTest(t *testing.T) {
	d, _, h := newTestDaemon(t, discharging(50))

	w := do(t, h, "POST", "/level-test", "")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.True(t, d.currentView().LevelTestRunning())

	w = do(t, h, "POST", "/level-test", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetConfig(t *testing.T) {
	_, _, h := newTestDaemon(t, discharging(50))

	w := do(t, h, "GET", "/config", "")
	require.Equal(t, http.StatusOK, w.Code)

	var raw config.RawFileConfig
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	require.NotNil(t, raw.Style)
	assert.Equal(t, "portrait", *raw.Style)
}

func TestRenderLoop(t *testing.T) {
	d, _, h := newTestDaemon(t, discharging(64))
	sub := d.hub.Subscribe()
	defer sub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	deadline := time.After(5 * time.Second)
	var sawState, sawFrame bool
	for !sawState || !sawFrame {
		select {
		case ev := <-sub.C:
			switch ev.Name {
			case events.BatteryState:
				s, err := events.DecodeAs[events.BatteryStateEvent](ev)
				require.NoError(t, err)
				if s.Level == 64 {
					sawState = true
				}
			case events.MeterFrame:
				f, err := events.DecodeAs[events.MeterFrameEvent](ev)
				require.NoError(t, err)
				assert.NotZero(t, f.Seq)
				sawFrame = true
			}
		case <-deadline:
			t.Fatalf("no state and frame events in time")
		}
	}

	var stats types.Stats
	w := do(t, h, "GET", "/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.NotZero(t, stats.Seq)
	assert.False(t, stats.LastFrame.IsZero())
	assert.Equal(t, 1, stats.Subscribers)
}

func TestStreamEvents(t *testing.T) {
	d, _, h := newTestDaemon(t, discharging(50))
	d.onBatteryState(discharging(33))

	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	sc := bufio.NewScanner(resp.Body)
	var name, data string
	for sc.Scan() && (name == "" || data == "") {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
	}
	assert.Equal(t, events.BatteryState, name)

	var ev events.BatteryStateEvent
	require.NoError(t, json.Unmarshal([]byte(data), &ev))
	assert.Equal(t, 33, ev.Level)

	// the stream ends when the daemon stops
	d.Stop()
}

func TestReload(t *testing.T) {
	d, conf, _ := newTestDaemon(t, discharging(50))
	d.onBatteryState(discharging(70))

	other := config.NewFileFromConfig(nil, "")
	other.SetStyle(meter.StyleIconLandscape)
	raw := other.Raw()
	require.NoError(t, writeRaw(conf.Path(), &raw))

	require.NoError(t, d.Reload())
	v := d.currentView()
	assert.Equal(t, meter.StyleIconLandscape, v.Style())
	assert.Equal(t, 70, v.Snapshot().Level, "the battery state survives a reload")
}

func writeRaw(path string, raw *config.RawFileConfig) error {
	return config.NewFileFromConfig(raw, path).Save()
}
