package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/battmeter/pkg/meter"
)

func TestPublishDecode(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe()
	defer sub.Close()

	s := meter.NewBatteryState()
	s.Level = 42
	s.Status = meter.StatusCharging
	require.NoError(t, h.Publish(BatteryState, BatteryStateEvent{BatteryState: s, DemoMode: true, Ts: 1}))

	ev := <-sub.C
	assert.Equal(t, BatteryState, ev.Name)
	assert.JSONEq(t, `{"present":true,"level":42,"status":"charging","plugType":"none","demoMode":true,"ts":1}`, string(ev.Data))

	got, err := DecodeAs[BatteryStateEvent](ev)
	require.NoError(t, err)
	assert.Equal(t, s, got.BatteryState)
	assert.True(t, got.DemoMode)
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	h := NewHub()
	slow := h.Subscribe()
	fast := h.Subscribe()
	defer fast.Close()

	for i := 0; i < 100; i++ {
		require.NoError(t, h.Publish(MeterFrame, MeterFrameEvent{Seq: uint64(i)}))
		<-fast.C
	}
	assert.Len(t, slow.C, subscriptionBuffer)
	assert.Equal(t, uint64(100-subscriptionBuffer), h.Dropped())

	first, err := DecodeAs[MeterFrameEvent](<-slow.C)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), first.Seq)

	slow.Close()
	slow.Close()
	assert.Equal(t, 1, h.Subscribers())
	for range slow.C {
	}
}

func TestPublishUnencodable(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe()
	defer sub.Close()

	err := h.Publish(MeterFrame, func() {})
	assert.ErrorContains(t, err, "meter.frame")
	assert.Empty(t, sub.C)
}

func TestDecodeEmpty(t *testing.T) {
	v, err := DecodeAs[MeterFrameEvent](Event{Name: MeterFrame})
	require.NoError(t, err)
	assert.Equal(t, MeterFrameEvent{}, v)
}
