// Package types holds the request and response bodies shared by the daemon
// and its clients.
package types

import "time"

// DemoRequest drives demo mode. Args are only read by the battery command:
// "level" is a percentage and "plugged" a boolean, both as strings.
type DemoRequest struct {
	Command string            `json:"command"`
	Args    map[string]string `json:"args,omitempty"`
}

// CircleDots is the dash pattern of the ring style. An interval of 0 draws
// a solid ring.
type CircleDots struct {
	Interval int `json:"interval"`
	Length   int `json:"length"`
}

// Colors carries "#rrggbb" or "#aarrggbb" strings. Empty fields are left
// unchanged; the frame follows the fill unless it is set explicitly.
type Colors struct {
	Fill     string `json:"fill,omitempty"`
	Frame    string `json:"frame,omitempty"`
	Text     string `json:"text,omitempty"`
	LowLevel string `json:"lowLevel,omitempty"`
	Tint     string `json:"tint,omitempty"`
}

// Levels are the low and critical battery thresholds in percent.
type Levels struct {
	Low      int `json:"low"`
	Critical int `json:"critical"`
}

// FrameSize is the size the daemon renders at. A width of 0 lets the style
// pick one from the height.
type FrameSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Stats describes the render loop.
type Stats struct {
	// FramesLastSecond is the current frame rate.
	FramesLastSecond int       `json:"framesLastSecond"`
	LastFrame        time.Time `json:"lastFrame"`
	Seq              uint64    `json:"seq"`
	Width            int       `json:"width"`
	Height           int       `json:"height"`
	Animating        bool      `json:"animating"`
	Subscribers      int       `json:"subscribers"`
	DroppedEvents    uint64    `json:"droppedEvents"`
	NextPoll         time.Time `json:"nextPoll"`
}
