// Package daemon serves the live battery meter over HTTP on a unix socket.
// It polls the battery, renders a frame whenever the meter asks for one, and
// lets clients change the meter settings at runtime.
package daemon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battmeter/pkg/config"
	"github.com/charlie0129/battmeter/pkg/events"
	"github.com/charlie0129/battmeter/pkg/meter"
	"github.com/charlie0129/battmeter/pkg/powerinfo"
	"github.com/charlie0129/battmeter/pkg/render"
)

// frameRecordCount bounds the frame history; the charge animation runs at
// 20 frames per second.
const frameRecordCount = 64

// Daemon owns the live meter.View and its rendered frames.
type Daemon struct {
	conf   config.Config
	poller *powerinfo.Poller
	hub    *events.Hub

	mu            sync.RWMutex
	view          *meter.View
	width, height int
	// real is the last state read from the system.
	real meter.BatteryState

	frameMu   sync.RWMutex
	frame     []byte
	published *events.BatteryStateEvent

	seq      atomic.Uint64
	recorder *TimeSeriesRecorder
	dirty    chan struct{}

	done     chan struct{}
	stopOnce sync.Once
}

// New returns a daemon reading the battery through reader.
func New(conf config.Config, reader powerinfo.Reader) (*Daemon, error) {
	d := &Daemon{
		conf:     conf,
		hub:      events.NewHub(),
		real:     meter.NewBatteryState(),
		recorder: NewTimeSeriesRecorder(frameRecordCount),
		dirty:    make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	d.poller = powerinfo.NewPoller(reader, d.onPollError)
	if err := d.poller.Schedule(conf.PollSchedule()); err != nil {
		return nil, err
	}
	d.rebuildView()
	return d, nil
}

// newView builds a view from the config showing state.
func (d *Daemon) newView(state meter.BatteryState) *meter.View {
	v := meter.NewView(config.Options(d.conf), nil)
	config.Apply(d.conf, v)
	v.OnBatteryStateChanged(state)
	return v
}

// rebuildView replaces the live view, for changes of the engine options.
func (d *Daemon) rebuildView() {
	d.mu.Lock()
	old := d.view
	v := d.newView(d.real)
	d.view = v
	d.mu.Unlock()

	if old != nil {
		old.SetInvalidateFunc(nil)
		old.Close()
	}
	d.relayout()
	v.SetInvalidateFunc(d.markDirty)
	d.markDirty()
}

// relayout sizes the live view for the configured frame size and the
// current style.
func (d *Daemon) relayout() {
	d.mu.Lock()
	defer d.mu.Unlock()
	w, h := d.conf.FrameSize()
	d.width, d.height = render.Layout(d.view, w, h)
}

// applyConfig pushes the config into the live view.
func (d *Daemon) applyConfig() {
	v := d.currentView()
	config.Apply(d.conf, v)
	d.relayout()
	d.markDirty()
}

func (d *Daemon) currentView() *meter.View {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.view
}

func (d *Daemon) frameSize() (int, int) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.width, d.height
}

func (d *Daemon) markDirty() {
	select {
	case d.dirty <- struct{}{}:
	default:
	}
}

func (d *Daemon) onPollError(err error) {
	logrus.WithError(err).Warn("failed to read battery state")
}

// Start runs the poller and the render loop until ctx is done.
func (d *Daemon) Start(ctx context.Context) {
	go d.stateLoop(ctx)
	go d.renderLoop(ctx)
	d.poller.Start()
}

// Stop ends polling and the event streams. It is safe to call twice.
func (d *Daemon) Stop() {
	d.stopOnce.Do(func() {
		close(d.done)
		d.poller.Stop()
		d.currentView().Close()
	})
}

func (d *Daemon) stateLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case s := <-d.poller.Updates():
			d.onBatteryState(s)
		}
	}
}

func (d *Daemon) onBatteryState(s meter.BatteryState) {
	d.mu.Lock()
	d.real = s
	v := d.view
	d.mu.Unlock()
	v.OnBatteryStateChanged(s)
}

// Reload re-reads the config file and applies it.
func (d *Daemon) Reload() error {
	if err := d.conf.Load(); err != nil {
		return err
	}
	if err := d.poller.Schedule(d.conf.PollSchedule()); err != nil {
		logrus.WithError(err).Warn("keeping the previous poll schedule")
	}
	d.rebuildView()
	return nil
}

func Run(configPath string, unixSocketPath string, allowNonRoot bool) error {
	conf, err := config.NewFile(configPath)
	if err != nil {
		logrus.Fatalf("failed to parse config during startup: %v", err)
	}
	logrus.WithFields(conf.LogrusFields()).Infof("config loaded")

	reader, closeReader, err := newReader(conf.Source())
	if err != nil {
		return err
	}
	defer func() {
		if err := closeReader(); err != nil {
			logrus.Errorf("failed to close battery source: %v", err)
		}
	}()

	d, err := New(conf, reader)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	// Receive SIGHUP to reload config
	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGHUP)
		for range sigc {
			if err := d.Reload(); err != nil {
				logrus.Errorf("failed to reload config: %v", err)
				continue
			}
			logrus.WithFields(conf.LogrusFields()).Infof("config reloaded")
		}
	}()

	srv := &http.Server{
		Handler: d.setupRoutes(),
	}

	// A socket left over by a crashed daemon blocks Listen.
	if _, err := os.Stat(unixSocketPath); err == nil {
		logrus.Warnf("removing stale socket %s", unixSocketPath)
		_ = os.Remove(unixSocketPath)
	}

	l, err := net.Listen("unix", unixSocketPath)
	if err != nil {
		logrus.Fatal(err)
	}

	if conf.AllowNonRootAccess() || allowNonRoot {
		logrus.Infof("non-root access is allowed, changing permissions of %s to 0777", unixSocketPath)
		err = os.Chmod(unixSocketPath, 0777)
		if err != nil {
			logrus.Fatal(err)
		}
	}

	// Serve HTTP on unix socket
	go func() {
		logrus.Infof("http server listening on %s", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal(err)
		}
	}()

	// Handle common process-killing signals, so we can gracefully shut down:
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	// Wait for a SIGINT or SIGTERM:
	sig := <-sigc
	logrus.Infof("caught signal \"%s\": shutting down.", sig)

	logrus.Info("stopping meter")
	d.Stop()
	cancel()

	logrus.Info("shutting down http server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = srv.Shutdown(shutdownCtx)
	if err != nil {
		logrus.Errorf("failed to shutdown http server: %v", err)
	}
	shutdownCancel()

	logrus.Info("exiting")
	return nil
}
