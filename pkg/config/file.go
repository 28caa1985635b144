package config

import (
	"encoding/json"
	"image/color"
	"io"
	"os"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battmeter/pkg/canvas"
	"github.com/charlie0129/battmeter/pkg/meter"
	"github.com/charlie0129/battmeter/pkg/utils/ptr"
)

var (
	defaultColors = meter.DefaultColors()

	defaultFileConfig = &RawFileConfig{
		Style:              ptr.To(meter.StyleIconPortrait.String()),
		ShowPercent:        ptr.To(false),
		CutOutText:         ptr.To(true),
		ChargeAnimation:    ptr.To(false),
		PowerSave:          ptr.To(false),
		Show100Percent:     ptr.To(true),
		CircleDotInterval:  ptr.To(0),
		CircleDotLength:    ptr.To(0),
		Width:              ptr.To(0),
		Height:             ptr.To(22),
		FillColor:          ptr.To(canvas.FormatColor(defaultColors.Fill)),
		TextColor:          ptr.To(canvas.FormatColor(defaultColors.Text)),
		LowLevelColor:      ptr.To(canvas.FormatColor(defaultColors.LowLevel)),
		TintColor:          ptr.To(canvas.FormatColor(defaultColors.Tint)),
		LowLevel:           ptr.To(meter.DefaultOptions().LowLevel),
		CriticalLevel:      ptr.To(meter.DefaultOptions().CriticalLevel),
		PollSchedule:       ptr.To("@every 10s"),
		Source:             ptr.To(SourceBattery),
		AllowNonRootAccess: ptr.To(false),
	}
)

var _ Config = &File{}

type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = &RawFileConfig{}
	}

	f := &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}

	return f
}

// RawFileConfig is the on-disk form. Unset fields take their defaults.
// Colors are "#rrggbb" or "#aarrggbb"; an unset frame color is derived from
// the fill color.
type RawFileConfig struct {
	Style              *string `json:"style,omitempty"`
	ShowPercent        *bool   `json:"showPercent,omitempty"`
	CutOutText         *bool   `json:"cutOutText,omitempty"`
	ChargeAnimation    *bool   `json:"chargeAnimation,omitempty"`
	PowerSave          *bool   `json:"powerSave,omitempty"`
	Show100Percent     *bool   `json:"show100Percent,omitempty"`
	CircleDotInterval  *int    `json:"circleDotInterval,omitempty"`
	CircleDotLength    *int    `json:"circleDotLength,omitempty"`
	Width              *int    `json:"width,omitempty"`
	Height             *int    `json:"height,omitempty"`
	FillColor          *string `json:"fillColor,omitempty"`
	FrameColor         *string `json:"frameColor,omitempty"`
	TextColor          *string `json:"textColor,omitempty"`
	LowLevelColor      *string `json:"lowLevelColor,omitempty"`
	TintColor          *string `json:"tintColor,omitempty"`
	LowLevel           *int    `json:"lowLevel,omitempty"`
	CriticalLevel      *int    `json:"criticalLevel,omitempty"`
	PollSchedule       *string `json:"pollSchedule,omitempty"`
	Source             *string `json:"source,omitempty"`
	AllowNonRootAccess *bool   `json:"allowNonRootAccess,omitempty"`
}

func NewRawFileConfigFromConfig(c Config) (*RawFileConfig, error) {
	if c == nil {
		return nil, pkgerrors.New("config is nil")
	}

	interval, length := c.CircleDots()
	width, height := c.FrameSize()
	colors := c.Colors()

	rawConfig := &RawFileConfig{
		Style:              ptr.To(c.Style().String()),
		ShowPercent:        ptr.To(c.ShowPercent()),
		CutOutText:         ptr.To(c.CutOutText()),
		ChargeAnimation:    ptr.To(c.ChargeAnimation()),
		PowerSave:          ptr.To(c.PowerSave()),
		Show100Percent:     ptr.To(c.Show100Percent()),
		CircleDotInterval:  ptr.To(interval),
		CircleDotLength:    ptr.To(length),
		Width:              ptr.To(width),
		Height:             ptr.To(height),
		FillColor:          ptr.To(canvas.FormatColor(colors.Fill)),
		FrameColor:         ptr.To(canvas.FormatColor(colors.Frame)),
		TextColor:          ptr.To(canvas.FormatColor(colors.Text)),
		LowLevelColor:      ptr.To(canvas.FormatColor(colors.LowLevel)),
		TintColor:          ptr.To(canvas.FormatColor(colors.Tint)),
		LowLevel:           ptr.To(c.LowLevel()),
		CriticalLevel:      ptr.To(c.CriticalLevel()),
		PollSchedule:       ptr.To(c.PollSchedule()),
		Source:             ptr.To(c.Source()),
		AllowNonRootAccess: ptr.To(c.AllowNonRootAccess()),
	}

	return rawConfig, nil
}

// get reads one field under the read lock, falling back to its default.
func get[T any](f *File, field func(*RawFileConfig) *T) T {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if v := field(f.c); v != nil {
		return *v
	}
	return *field(defaultFileConfig)
}

func (f *File) set(fn func(*RawFileConfig)) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f.c)
}

func (f *File) Style() meter.Style {
	name := get(f, func(c *RawFileConfig) *string { return c.Style })
	s, err := meter.ParseStyle(name)
	if err != nil {
		logrus.WithError(err).Warn("invalid style in config, using portrait")
		return meter.StyleIconPortrait
	}
	return s
}

func (f *File) ShowPercent() bool {
	return get(f, func(c *RawFileConfig) *bool { return c.ShowPercent })
}

func (f *File) CutOutText() bool {
	return get(f, func(c *RawFileConfig) *bool { return c.CutOutText })
}

func (f *File) ChargeAnimation() bool {
	return get(f, func(c *RawFileConfig) *bool { return c.ChargeAnimation })
}

func (f *File) PowerSave() bool {
	return get(f, func(c *RawFileConfig) *bool { return c.PowerSave })
}

func (f *File) Show100Percent() bool {
	return get(f, func(c *RawFileConfig) *bool { return c.Show100Percent })
}

func (f *File) CircleDots() (int, int) {
	interval := get(f, func(c *RawFileConfig) *int { return c.CircleDotInterval })
	length := get(f, func(c *RawFileConfig) *int { return c.CircleDotLength })
	return interval, length
}

func (f *File) FrameSize() (int, int) {
	w := get(f, func(c *RawFileConfig) *int { return c.Width })
	h := get(f, func(c *RawFileConfig) *int { return c.Height })
	return w, h
}

func (f *File) color(field func(*RawFileConfig) *string, def color.NRGBA) color.NRGBA {
	s := get(f, field)
	c, err := canvas.ParseColor(s)
	if err != nil {
		logrus.WithError(err).Warn("invalid color in config, using default")
		return def
	}
	return c
}

func (f *File) Colors() meter.Colors {
	c := meter.Colors{
		Fill:     f.color(func(c *RawFileConfig) *string { return c.FillColor }, defaultColors.Fill),
		Text:     f.color(func(c *RawFileConfig) *string { return c.TextColor }, defaultColors.Text),
		LowLevel: f.color(func(c *RawFileConfig) *string { return c.LowLevelColor }, defaultColors.LowLevel),
		Tint:     f.color(func(c *RawFileConfig) *string { return c.TintColor }, defaultColors.Tint),
	}
	c.Frame = meter.FrameFor(c.Fill)

	f.mu.RLock()
	frame := f.c.FrameColor
	f.mu.RUnlock()
	if frame != nil {
		if fc, err := canvas.ParseColor(*frame); err == nil {
			c.Frame = fc
		} else {
			logrus.WithError(err).Warn("invalid frame color in config, deriving it from the fill")
		}
	}
	return c
}

func (f *File) LowLevel() int {
	return get(f, func(c *RawFileConfig) *int { return c.LowLevel })
}

func (f *File) CriticalLevel() int {
	return get(f, func(c *RawFileConfig) *int { return c.CriticalLevel })
}

func (f *File) PollSchedule() string {
	return get(f, func(c *RawFileConfig) *string { return c.PollSchedule })
}

func (f *File) Source() string {
	return get(f, func(c *RawFileConfig) *string { return c.Source })
}

func (f *File) AllowNonRootAccess() bool {
	return get(f, func(c *RawFileConfig) *bool { return c.AllowNonRootAccess })
}

func (f *File) SetStyle(s meter.Style) {
	f.set(func(c *RawFileConfig) { c.Style = ptr.To(s.String()) })
}

func (f *File) SetShowPercent(b bool) {
	f.set(func(c *RawFileConfig) { c.ShowPercent = &b })
}

func (f *File) SetCutOutText(b bool) {
	f.set(func(c *RawFileConfig) { c.CutOutText = &b })
}

func (f *File) SetChargeAnimation(b bool) {
	f.set(func(c *RawFileConfig) { c.ChargeAnimation = &b })
}

func (f *File) SetPowerSave(b bool) {
	f.set(func(c *RawFileConfig) { c.PowerSave = &b })
}

func (f *File) SetShow100Percent(b bool) {
	f.set(func(c *RawFileConfig) { c.Show100Percent = &b })
}

func (f *File) SetCircleDots(interval, length int) {
	if interval < 0 || length < 0 {
		panic("circle dot interval and length must not be negative")
	}

	f.set(func(c *RawFileConfig) {
		c.CircleDotInterval = &interval
		c.CircleDotLength = &length
	})
}

func (f *File) SetFrameSize(width, height int) {
	if width < 0 || height < 0 {
		panic("frame size must not be negative")
	}

	f.set(func(c *RawFileConfig) {
		c.Width = &width
		c.Height = &height
	})
}

func (f *File) SetColors(colors meter.Colors) {
	f.set(func(c *RawFileConfig) {
		c.FillColor = ptr.To(canvas.FormatColor(colors.Fill))
		c.TextColor = ptr.To(canvas.FormatColor(colors.Text))
		c.LowLevelColor = ptr.To(canvas.FormatColor(colors.LowLevel))
		c.TintColor = ptr.To(canvas.FormatColor(colors.Tint))
		if colors.Frame == meter.FrameFor(colors.Fill) {
			c.FrameColor = nil
		} else {
			c.FrameColor = ptr.To(canvas.FormatColor(colors.Frame))
		}
	})
}

func (f *File) SetLowLevel(i int) {
	if i < f.CriticalLevel() || i > 100 {
		panic("low level must be between critical level and 100")
	}

	f.set(func(c *RawFileConfig) { c.LowLevel = &i })
}

func (f *File) SetCriticalLevel(i int) {
	if i < 0 || i > f.LowLevel() {
		panic("critical level must be between 0 and low level")
	}

	f.set(func(c *RawFileConfig) { c.CriticalLevel = &i })
}

func (f *File) SetPollSchedule(s string) {
	f.set(func(c *RawFileConfig) { c.PollSchedule = &s })
}

func (f *File) SetSource(s string) {
	if s != SourceBattery && s != SourceSMC {
		panic("source must be battery or smc")
	}

	f.set(func(c *RawFileConfig) { c.Source = &s })
}

func (f *File) SetAllowNonRootAccess(b bool) {
	f.set(func(c *RawFileConfig) { c.AllowNonRootAccess = &b })
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// A missing file means all defaults. Do not make f.c a nil.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	// json.Decoder cannot tell an empty file from a broken one.
	b, err := io.ReadAll(fp)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	err = json.Unmarshal(b, &conf)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}
	f.c = &conf

	return nil
}

func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		return pkgerrors.New("config is nil")
	}

	fp, err := os.OpenFile(f.filepath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	enc := json.NewEncoder(fp)
	enc.SetIndent("", "  ")
	err = enc.Encode(f.c)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode config to file %s", f.filepath)
	}

	return nil
}

// Path returns the file the config is loaded from and saved to.
func (f *File) Path() string {
	return f.filepath
}

// Raw returns a copy of the on-disk form, without defaults filled in.
func (f *File) Raw() RawFileConfig {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	return *f.c
}

func (f *File) LogrusFields() logrus.Fields {
	if f.c == nil {
		panic("config is nil")
	}

	interval, length := f.CircleDots()
	w, h := f.FrameSize()
	return logrus.Fields{
		"style":              f.Style(),
		"showPercent":        f.ShowPercent(),
		"cutOutText":         f.CutOutText(),
		"chargeAnimation":    f.ChargeAnimation(),
		"powerSave":          f.PowerSave(),
		"show100Percent":     f.Show100Percent(),
		"circleDots":         []int{interval, length},
		"frameSize":          []int{w, h},
		"lowLevel":           f.LowLevel(),
		"criticalLevel":      f.CriticalLevel(),
		"pollSchedule":       f.PollSchedule(),
		"source":             f.Source(),
		"allowNonRootAccess": f.AllowNonRootAccess(),
	}
}
