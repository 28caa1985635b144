package powerinfo

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battmeter/pkg/meter"
)

// NotifyFunc receives poll errors.
type NotifyFunc func(err error)

// Poller reads the battery on a cron schedule and delivers each changed
// snapshot on Updates. It is the only sender on that channel. A slow
// consumer only ever sees the latest snapshot.
type Poller struct {
	OnError NotifyFunc

	reader  Reader
	parser  cron.Parser
	updates chan meter.BatteryState

	mu       sync.Mutex
	schedule cron.Schedule
	nextRun  time.Time
	running  bool
	last     *meter.BatteryState

	controlCh chan controlMsg
	stopCh    chan struct{}
}

type controlKind int

const (
	ctrlRecalculate controlKind = iota // schedule changed
	ctrlPollNow                        // read once, out of schedule
)

type controlMsg struct {
	kind controlKind
	data any
}

func NewPoller(reader Reader, onError NotifyFunc) *Poller {
	if reader == nil {
		panic("reader cannot be nil")
	}

	return &Poller{
		OnError:   onError,
		reader:    reader,
		parser:    cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		updates:   make(chan meter.BatteryState, 1),
		controlCh: make(chan controlMsg, 4),
		stopCh:    make(chan struct{}),
	}
}

// Updates returns the channel snapshots are delivered on. It is never
// closed.
func (p *Poller) Updates() <-chan meter.BatteryState {
	return p.updates
}

// Schedule sets the poll cadence, e.g. "@every 10s" or "*/30 * * * * *".
func (p *Poller) Schedule(cronExpr string) error {
	sh, err := p.parser.Parse(cronExpr)
	if err != nil {
		return fmt.Errorf("invalid poll schedule %q: %w", cronExpr, err)
	}

	p.mu.Lock()
	running := p.running
	if !running {
		p.schedule = sh
		p.nextRun = sh.Next(time.Now())
	}
	p.mu.Unlock()

	if running {
		p.trySendControl(ctrlRecalculate, sh)
	}
	return nil
}

// Start runs the poll loop. The battery is read once right away.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true
	go p.run()
	p.trySendControl(ctrlPollNow, nil)
}

func (p *Poller) Stop() {
	select {
	case <-p.stopCh: // already closed
	default:
		close(p.stopCh)
	}
}

// Poll asks the running loop for an immediate read.
func (p *Poller) Poll() {
	p.trySendControl(ctrlPollNow, nil)
}

func (p *Poller) Status() (nextRun time.Time, running bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	nextRun = p.nextRun
	running = p.running
	return
}

func (p *Poller) run() {
	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
		logrus.Debug("poller stopped")
	}()

	logrus.Debug("poller started")

	for {
		schedule, nextRun := p.snapshot()
		var timer *time.Timer
		if schedule == nil || nextRun.IsZero() {
			timer = time.NewTimer(time.Hour * 10000)
		} else {
			timer = time.NewTimer(max(time.Until(nextRun), 0))
		}

		select {
		case <-timer.C:
			if schedule != nil && !nextRun.IsZero() {
				p.poll()
				p.advanceNextRun()
			}
		case <-p.stopCh:
			timer.Stop()
			return
		case msg := <-p.controlCh:
			timer.Stop()
			logrus.WithFields(logrus.Fields{
				"kind": msg.kind,
			}).Trace("received control msg")

			switch msg.kind {
			case ctrlRecalculate:
				sh := msg.data.(cron.Schedule)
				p.mu.Lock()
				p.schedule = sh
				p.nextRun = sh.Next(time.Now())
				p.mu.Unlock()
			case ctrlPollNow:
				p.poll()
			}
		}
	}
}

// poll reads the battery and publishes the result if it changed.
func (p *Poller) poll() {
	s, err := p.reader.Read()
	if err != nil {
		logrus.WithError(err).Debug("battery read failed")
		p.sendError(err)
		return
	}

	p.mu.Lock()
	if p.last != nil && *p.last == s {
		p.mu.Unlock()
		return
	}
	p.last = &s
	p.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"present": s.Present,
		"level":   s.Level,
		"status":  s.Status,
		"plug":    s.PlugType,
	}).Debug("battery state changed")

	// replace an unconsumed snapshot with the newer one
	select {
	case <-p.updates:
	default:
	}
	p.updates <- s
}

func (p *Poller) snapshot() (cron.Schedule, time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.schedule, p.nextRun
}

func (p *Poller) advanceNextRun() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.schedule == nil {
		return
	}
	// a long sleep must not replay every missed run
	p.nextRun = p.schedule.Next(time.Now())
}

func (p *Poller) sendError(err error) {
	if p.OnError == nil {
		return
	}

	go p.OnError(err)
}

func (p *Poller) trySendControl(kind controlKind, data any) {
	select {
	case p.controlCh <- controlMsg{kind: kind, data: data}:
	default:
	}
}
