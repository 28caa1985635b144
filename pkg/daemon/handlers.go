package daemon

import (
	"fmt"
	"image/color"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	ginlogrus "github.com/toorop/gin-logrus"

	"github.com/charlie0129/battmeter/pkg/canvas"
	"github.com/charlie0129/battmeter/pkg/config"
	"github.com/charlie0129/battmeter/pkg/events"
	"github.com/charlie0129/battmeter/pkg/meter"
	"github.com/charlie0129/battmeter/pkg/render"
	"github.com/charlie0129/battmeter/pkg/types"
	"github.com/charlie0129/battmeter/pkg/version"
)

// maxQuerySize bounds the w and h query parameters of the image routes.
const maxQuerySize = 1024

func (d *Daemon) setupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(ginlogrus.Logger(logrus.StandardLogger()), gin.Recovery())
	router.GET("/config", d.getConfig)
	router.GET("/state", d.getState)
	router.GET("/meter.png", d.getMeterPNG)
	router.GET("/meter.svg", d.getMeterSVG)
	router.PUT("/style", d.setStyle)
	router.PUT("/show-percent", d.boolSetter("show percent", d.conf.SetShowPercent))
	router.PUT("/cut-out-text", d.boolSetter("cut out text", d.conf.SetCutOutText))
	router.PUT("/charge-animation", d.boolSetter("charge animation", d.conf.SetChargeAnimation))
	router.PUT("/power-save", d.boolSetter("power save", d.conf.SetPowerSave))
	router.PUT("/show-100-percent", d.boolSetter("show 100 percent", d.conf.SetShow100Percent))
	router.PUT("/circle-dots", d.setCircleDots)
	router.PUT("/colors", d.setColors)
	router.PUT("/levels", d.setLevels)
	router.PUT("/size", d.setSize)
	router.PUT("/poll-schedule", d.setPollSchedule)
	router.POST("/demo", d.demo)
	router.POST("/level-test", d.startLevelTest)
	router.GET("/events", d.streamEvents)
	router.GET("/stats", d.getStats)
	router.GET("/version", getVersion)

	return router
}

func (d *Daemon) getConfig(c *gin.Context) {
	fc, err := config.NewRawFileConfigFromConfig(d.conf)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.IndentedJSON(http.StatusOK, fc)
}

func (d *Daemon) getState(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, stateEvent(d.currentView(), time.Now().UnixMilli()))
}

// querySize reads the optional w and h query parameters. Missing ones fall
// back to the configured frame size.
func (d *Daemon) querySize(c *gin.Context) (width, height int, custom bool, err error) {
	width, height = d.conf.FrameSize()
	for _, q := range []struct {
		name string
		dst  *int
	}{{"w", &width}, {"h", &height}} {
		s, ok := c.GetQuery(q.name)
		if !ok {
			continue
		}
		n, perr := strconv.Atoi(s)
		if perr != nil || n < 0 || n > maxQuerySize {
			return 0, 0, false, fmt.Errorf("%s must be an integer between 0 and %d, got %q", q.name, maxQuerySize, s)
		}
		*q.dst = n
		custom = true
	}
	return width, height, custom, nil
}

func (d *Daemon) getMeterPNG(c *gin.Context) {
	width, height, custom, err := d.querySize(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	var b []byte
	if custom {
		v, w, h := d.stillView(width, height)
		defer v.Close()
		b, err = render.PNG(v, w, h)
	} else {
		b, err = d.currentFrame()
	}
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Header("X-Frame-Seq", strconv.FormatUint(d.seq.Load(), 10))
	c.Data(http.StatusOK, "image/png", b)
}

func (d *Daemon) getMeterSVG(c *gin.Context) {
	width, height, _, err := d.querySize(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	v, w, h := d.stillView(width, height)
	defer v.Close()

	c.Header("Cache-Control", "no-store")
	c.Header("Content-Type", "image/svg+xml")
	c.Status(http.StatusOK)
	if err := render.SVG(c.Writer, v, w, h); err != nil {
		logrus.WithError(err).Warn("failed to write svg")
	}
}

func (d *Daemon) setStyle(c *gin.Context) {
	var s meter.Style
	if err := c.ShouldBindJSON(&s); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	d.conf.SetStyle(s)
	if !d.saveConfig(c) {
		return
	}
	d.applyConfig()

	logrus.Infof("set style to %s", s)

	c.IndentedJSON(http.StatusCreated, "ok")
}

// boolSetter returns a handler that stores a boolean body with set and
// applies it to the live view.
func (d *Daemon) boolSetter(name string, set func(bool)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var b bool
		if err := c.ShouldBindJSON(&b); err != nil {
			abortWithError(c, http.StatusBadRequest, err)
			return
		}

		set(b)
		if !d.saveConfig(c) {
			return
		}
		d.applyConfig()

		logrus.Infof("set %s to %t", name, b)

		c.IndentedJSON(http.StatusCreated, "ok")
	}
}

func (d *Daemon) setCircleDots(c *gin.Context) {
	var dots types.CircleDots
	if err := c.ShouldBindJSON(&dots); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	if dots.Interval < 0 || dots.Length < 0 {
		abortWithError(c, http.StatusBadRequest, fmt.Errorf("interval and length must not be negative, got %d and %d", dots.Interval, dots.Length))
		return
	}

	d.conf.SetCircleDots(dots.Interval, dots.Length)
	if !d.saveConfig(c) {
		return
	}
	d.applyConfig()

	logrus.Infof("set circle dots to interval %d length %d", dots.Interval, dots.Length)

	c.IndentedJSON(http.StatusCreated, "ok")
}

func (d *Daemon) setColors(c *gin.Context) {
	var req types.Colors
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	colors := d.conf.Colors()
	derivedFrame := colors.Frame == meter.FrameFor(colors.Fill)
	fields := []struct {
		name  string
		value string
		set   func(parsed color.NRGBA)
	}{
		{"fill", req.Fill, func(p color.NRGBA) { colors.Fill = p }},
		{"frame", req.Frame, func(p color.NRGBA) { colors.Frame = p; derivedFrame = false }},
		{"text", req.Text, func(p color.NRGBA) { colors.Text = p }},
		{"lowLevel", req.LowLevel, func(p color.NRGBA) { colors.LowLevel = p }},
		{"tint", req.Tint, func(p color.NRGBA) { colors.Tint = p }},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		parsed, err := canvas.ParseColor(f.value)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Errorf("%s: %w", f.name, err))
			return
		}
		f.set(parsed)
	}
	if derivedFrame {
		colors.Frame = meter.FrameFor(colors.Fill)
	}

	d.conf.SetColors(colors)
	if !d.saveConfig(c) {
		return
	}
	d.applyConfig()

	logrus.WithFields(logrus.Fields{
		"fill":     canvas.FormatColor(colors.Fill),
		"frame":    canvas.FormatColor(colors.Frame),
		"text":     canvas.FormatColor(colors.Text),
		"lowLevel": canvas.FormatColor(colors.LowLevel),
		"tint":     canvas.FormatColor(colors.Tint),
	}).Info("set colors")

	c.IndentedJSON(http.StatusCreated, "ok")
}

func (d *Daemon) setLevels(c *gin.Context) {
	var l types.Levels
	if err := c.ShouldBindJSON(&l); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	if l.Critical < 0 || l.Low > 100 || l.Critical > l.Low {
		abortWithError(c, http.StatusBadRequest, fmt.Errorf("levels must satisfy 0 <= critical <= low <= 100, got critical %d low %d", l.Critical, l.Low))
		return
	}

	// order the writes so each one passes the setter checks
	if l.Low >= d.conf.LowLevel() {
		d.conf.SetLowLevel(l.Low)
		d.conf.SetCriticalLevel(l.Critical)
	} else {
		d.conf.SetCriticalLevel(l.Critical)
		d.conf.SetLowLevel(l.Low)
	}
	if !d.saveConfig(c) {
		return
	}
	// thresholds are engine options, fixed for the life of a view
	d.rebuildView()

	logrus.Infof("set low/critical levels to %d%%/%d%%", l.Low, l.Critical)

	c.IndentedJSON(http.StatusCreated, "ok")
}

func (d *Daemon) setSize(c *gin.Context) {
	var s types.FrameSize
	if err := c.ShouldBindJSON(&s); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	if s.Width < 0 || s.Width > maxQuerySize || s.Height <= 0 || s.Height > maxQuerySize {
		abortWithError(c, http.StatusBadRequest, fmt.Errorf("size must be within %dx%d with a positive height, got %dx%d", maxQuerySize, maxQuerySize, s.Width, s.Height))
		return
	}

	d.conf.SetFrameSize(s.Width, s.Height)
	if !d.saveConfig(c) {
		return
	}
	d.applyConfig()

	w, h := d.frameSize()
	logrus.Infof("set frame size to %dx%d", w, h)

	c.IndentedJSON(http.StatusCreated, types.FrameSize{Width: w, Height: h})
}

func (d *Daemon) setPollSchedule(c *gin.Context) {
	var expr string
	if err := c.ShouldBindJSON(&expr); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	if err := d.poller.Schedule(expr); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	d.conf.SetPollSchedule(expr)
	if !d.saveConfig(c) {
		return
	}

	logrus.Infof("set poll schedule to %s", expr)

	c.IndentedJSON(http.StatusCreated, "ok")
}

func (d *Daemon) demo(c *gin.Context) {
	var req types.DemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	switch req.Command {
	case meter.DemoCommandEnter, meter.DemoCommandExit, meter.DemoCommandBattery:
	default:
		abortWithError(c, http.StatusBadRequest, fmt.Errorf("unknown demo command %q", req.Command))
		return
	}

	v := d.currentView()
	if !v.Visible() {
		abortWithError(c, http.StatusConflict, fmt.Errorf("demo mode needs a visible meter"))
		return
	}
	v.DispatchDemoCommand(req.Command, req.Args)

	logrus.WithFields(logrus.Fields{
		"command": req.Command,
		"args":    req.Args,
	}).Info("demo command")

	c.IndentedJSON(http.StatusOK, stateEvent(v, time.Now().UnixMilli()))
}

func (d *Daemon) startLevelTest(c *gin.Context) {
	v := d.currentView()
	if v.LevelTestRunning() {
		c.IndentedJSON(http.StatusOK, "level test already running")
		return
	}
	v.StartLevelTest()

	logrus.Info("level test started")

	c.IndentedJSON(http.StatusAccepted, "ok")
}

// streamEvents sends hub events as server-sent events until the client
// goes away or the daemon stops.
func (d *Daemon) streamEvents(c *gin.Context) {
	sub := d.hub.Subscribe()
	defer sub.Close()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	// the current state first, so clients need no extra request
	c.SSEvent(events.BatteryState, stateEvent(d.currentView(), time.Now().UnixMilli()))
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, ev.Data)
			return true
		case <-c.Request.Context().Done():
			return false
		case <-d.done:
			return false
		}
	})
}

func (d *Daemon) getStats(c *gin.Context) {
	w, h := d.frameSize()
	next, _ := d.poller.Status()
	c.IndentedJSON(http.StatusOK, types.Stats{
		FramesLastSecond: d.recorder.GetRecordsIn(time.Second),
		LastFrame:        d.recorder.GetLastRecord(),
		Seq:              d.seq.Load(),
		Width:            w,
		Height:           h,
		Animating:        d.currentView().Animating(),
		Subscribers:      d.hub.Subscribers(),
		DroppedEvents:    d.hub.Dropped(),
		NextPoll:         next,
	})
}

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}

// Handler returns the HTTP API of d, for serving it on a listener other
// than the daemon socket.
func (d *Daemon) Handler() http.Handler {
	return d.setupRoutes()
}
