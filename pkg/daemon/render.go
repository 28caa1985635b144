package daemon

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battmeter/pkg/events"
	"github.com/charlie0129/battmeter/pkg/meter"
	"github.com/charlie0129/battmeter/pkg/render"
)

// renderLoop draws a frame each time the meter invalidates. Requests that
// arrive while a frame is being drawn collapse into one.
func (d *Daemon) renderLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.done:
			return
		case <-d.dirty:
			d.renderFrame()
		}
	}
}

// renderFrame draws the live view. Drawing advances the charge animation,
// so nothing else may draw the live view.
func (d *Daemon) renderFrame() {
	v := d.currentView()
	w, h := d.frameSize()

	b, err := render.PNG(v, w, h)
	if err != nil {
		logrus.WithError(err).Error("failed to render frame")
		return
	}
	seq := d.seq.Add(1)

	d.frameMu.Lock()
	d.frame = b
	d.frameMu.Unlock()
	d.recorder.AddRecordNow()

	logrus.WithFields(logrus.Fields{
		"seq":    seq,
		"width":  w,
		"height": h,
		"bytes":  len(b),
	}).Trace("frame rendered")

	now := time.Now().UnixMilli()
	d.publishState(v, now)
	d.publish(events.MeterFrame, events.MeterFrameEvent{
		Seq:       seq,
		Width:     w,
		Height:    h,
		Animating: v.Animating(),
		Ts:        now,
	})
}

// publishState announces the displayed state when it changed.
func (d *Daemon) publishState(v *meter.View, ts int64) {
	ev := stateEvent(v, ts)

	d.frameMu.Lock()
	last := d.published
	changed := last == nil || last.BatteryState != ev.BatteryState ||
		last.DemoMode != ev.DemoMode || last.LevelTest != ev.LevelTest
	if changed {
		d.published = &ev
	}
	d.frameMu.Unlock()

	if changed {
		d.publish(events.BatteryState, ev)
	}
}

func stateEvent(v *meter.View, ts int64) events.BatteryStateEvent {
	return events.BatteryStateEvent{
		BatteryState: v.Snapshot(),
		DemoMode:     v.DemoMode(),
		LevelTest:    v.LevelTestRunning(),
		Ts:           ts,
	}
}

// currentFrame returns the last rendered PNG. Before the first frame it
// renders a still one.
func (d *Daemon) currentFrame() ([]byte, error) {
	d.frameMu.RLock()
	b := d.frame
	d.frameMu.RUnlock()
	if b != nil {
		return b, nil
	}

	v, w, h := d.stillView(d.conf.FrameSize())
	defer v.Close()
	return render.PNG(v, w, h)
}

// stillView returns a throwaway view showing what the live view shows, laid
// out for width and height, for rendering at other sizes or formats. It does
// not animate. The caller must Close it.
func (d *Daemon) stillView(width, height int) (*meter.View, int, int) {
	v := d.newView(d.currentView().Snapshot())
	w, h := render.Layout(v, width, height)
	return v, w, h
}

func (d *Daemon) publish(name string, payload any) {
	if err := d.hub.Publish(name, payload); err != nil {
		logrus.WithError(err).Warn("failed to publish event")
	}
}
