package events

import (
	"encoding/json"

	"github.com/charlie0129/battmeter/pkg/meter"
)

// Event name constants
const (
	BatteryState = "battery.state"
	MeterFrame   = "meter.frame"
)

// Event is a generic SSE event from daemon.
type Event struct {
	Name string          // SSE event name
	Data json.RawMessage // Raw JSON payload
}

// BatteryStateEvent is the payload of battery.state: the state being
// displayed, which differs from the system state in demo mode and during a
// level test.
type BatteryStateEvent struct {
	meter.BatteryState
	DemoMode  bool  `json:"demoMode,omitempty"`
	LevelTest bool  `json:"levelTest,omitempty"`
	Ts        int64 `json:"ts"`
}

// MeterFrameEvent is the payload of meter.frame. The frame itself is
// fetched from /meter.png; Seq tells clients whether theirs is stale.
type MeterFrameEvent struct {
	Seq       uint64 `json:"seq"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Animating bool   `json:"animating,omitempty"`
	Ts        int64  `json:"ts"`
}

// DecodeAs decodes the event payload into the caller-specified generic type T.
// It ignores the event name and simply unmarshals Data into T. If Data is empty,
// it returns the zero value of T with a nil error.
//
// Example:
//
//	payload, err := events.DecodeAs[events.MeterFrameEvent](ev)
//	if err != nil { /* handle */ }
//	fmt.Println(payload.Seq)
func DecodeAs[T any](e Event) (T, error) {
	var zero T
	if len(e.Data) == 0 {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return zero, err
	}
	return v, nil
}
