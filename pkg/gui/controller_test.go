package gui

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/battmeter/pkg/config"
	"github.com/charlie0129/battmeter/pkg/events"
	"github.com/charlie0129/battmeter/pkg/meter"
)

type fakeAPI struct {
	mu         sync.Mutex
	streams    chan chan events.Event
	subscribes int
	fetches    int
}

func (f *fakeAPI) SubscribeEvents(ctx context.Context) (<-chan events.Event, error) {
	f.mu.Lock()
	f.subscribes++
	f.mu.Unlock()
	select {
	case ch := <-f.streams:
		return ch, nil
	default:
		return nil, errors.New("daemon not running")
	}
}

func (f *fakeAPI) GetMeterPNG(context.Context, int, int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	return []byte{byte(f.fetches)}, nil
}

func (f *fakeAPI) GetConfig() (*config.RawFileConfig, error) {
	return config.NewRawFileConfigFromConfig(config.NewFileFromConfig(nil, ""))
}

func (f *fakeAPI) SetStyle(meter.Style) (string, error) { return "ok", nil }
func (f *fakeAPI) SetShowPercent(bool) (string, error) { return "ok", nil }
func (f *fakeAPI) SetChargeAnimation(bool) (string, error) { return "ok", nil }
func (f *fakeAPI) SetPowerSave(bool) (string, error) { return "ok", nil }

func (f *fakeAPI) Demo(string, map[string]string) (*events.BatteryStateEvent, error) {
	return &events.BatteryStateEvent{}, nil
}

func (f *fakeAPI) count() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subscribes, f.fetches
}

type recorder struct {
	mu       sync.Mutex
	icons    [][]byte
	tooltips []string
	states   []*events.BatteryStateEvent
}

func (r *recorder) attach(c *controller) {
	c.setIcon = func(b []byte) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.icons = append(r.icons, b)
	}
	c.setTooltip = func(s string) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.tooltips = append(r.tooltips, s)
	}
	c.onState = func(s *events.BatteryStateEvent) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.states = append(r.states, s)
	}
}

func (r *recorder) lastTooltip() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.tooltips) == 0 {
		return ""
	}
	return r.tooltips[len(r.tooltips)-1]
}

func (r *recorder) iconCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.icons)
}

func stateEvent(t *testing.T, s events.BatteryStateEvent) events.Event {
	t.Helper()
	b, err := json.Marshal(s)
	require.NoError(t, err)
	return events.Event{Name: events.BatteryState, Data: b}
}

func TestControllerFollowsEvents(t *testing.T) {
	api := &fakeAPI{streams: make(chan chan events.Event, 1)}
	stream := make(chan events.Event, 4)
	api.streams <- stream

	c := newController(api)
	r := &recorder{}
	r.attach(c)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.run(ctx)

	// the frame shown on connect
	require.Eventually(t, func() bool { return r.iconCount() >= 1 }, 2*time.Second, 5*time.Millisecond)

	s := events.BatteryStateEvent{BatteryState: meter.BatteryState{Present: true, Level: 42, Status: meter.StatusCharging, PlugType: meter.PlugAC}}
	stream <- stateEvent(t, s)
	require.Eventually(t, func() bool { return r.lastTooltip() == "battmeter: 42% charging" }, 2*time.Second, 5*time.Millisecond)

	n := r.iconCount()
	stream <- events.Event{Name: events.MeterFrame}
	require.Eventually(t, func() bool { return r.iconCount() > n }, 2*time.Second, 5*time.Millisecond)

	// the daemon goes away
	close(stream)
	require.Eventually(t, func() bool { return r.lastTooltip() == "battmeter: daemon not running" }, 2*time.Second, 5*time.Millisecond)

	r.mu.Lock()
	require.NotEmpty(t, r.states)
	assert.Equal(t, 42, r.states[0].Level)
	assert.Nil(t, r.states[len(r.states)-1])
	r.mu.Unlock()
}

func TestControllerReconnects(t *testing.T) {
	api := &fakeAPI{streams: make(chan chan events.Event, 1)}
	c := newController(api)
	c.retry = 10 * time.Millisecond
	r := &recorder{}
	r.attach(c)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.run(ctx)

	require.Eventually(t, func() bool {
		subs, _ := api.count()
		return subs >= 3
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "battmeter: daemon not running", r.lastTooltip())

	stream := make(chan events.Event, 1)
	api.streams <- stream
	stream <- stateEvent(t, events.BatteryStateEvent{BatteryState: meter.BatteryState{Present: true, Level: 9, Status: meter.StatusDischarging}})
	require.Eventually(t, func() bool { return r.lastTooltip() == "battmeter: 9% discharging" }, 2*time.Second, 5*time.Millisecond)
}

func TestRequestFrameCoalesces(t *testing.T) {
	c := newController(&fakeAPI{})
	for i := 0; i < 5; i++ {
		c.requestFrame()
	}
	assert.Len(t, c.frames, 1)
}

func TestTooltip(t *testing.T) {
	tests := []struct {
		name string
		in   events.BatteryStateEvent
		want string
	}{
		{"no battery", events.BatteryStateEvent{}, "battmeter: no battery"},
		{"unknown level", events.BatteryStateEvent{BatteryState: meter.NewBatteryState()}, "battmeter: level unknown"},
		{
			"full on ac",
			events.BatteryStateEvent{BatteryState: meter.BatteryState{Present: true, Level: 100, Status: meter.StatusFull, PlugType: meter.PlugAC}},
			"battmeter: 100% full, plugged in",
		},
		{
			"demo",
			events.BatteryStateEvent{BatteryState: meter.BatteryState{Present: true, Level: 30, Status: meter.StatusDischarging}, DemoMode: true},
			"battmeter: 30% discharging (demo)",
		},
		{
			"level test wins over demo",
			events.BatteryStateEvent{BatteryState: meter.BatteryState{Present: true, Level: 5, Status: meter.StatusCharging, PlugType: meter.PlugAC}, DemoMode: true, LevelTest: true},
			"battmeter: 5% charging (level test)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tooltip(tt.in))
		})
	}
}
