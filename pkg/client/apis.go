package client

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	pkgerrors "github.com/pkg/errors"

	"github.com/charlie0129/battmeter/pkg/config"
	"github.com/charlie0129/battmeter/pkg/events"
	"github.com/charlie0129/battmeter/pkg/meter"
	"github.com/charlie0129/battmeter/pkg/types"
)

func (c *Client) SetStyle(s meter.Style) (string, error) {
	return c.Put("/style", strconv.Quote(s.String()))
}

func (c *Client) SetShowPercent(enabled bool) (string, error) {
	return c.Put("/show-percent", strconv.FormatBool(enabled))
}

func (c *Client) SetCutOutText(enabled bool) (string, error) {
	return c.Put("/cut-out-text", strconv.FormatBool(enabled))
}

func (c *Client) SetChargeAnimation(enabled bool) (string, error) {
	return c.Put("/charge-animation", strconv.FormatBool(enabled))
}

func (c *Client) SetPowerSave(enabled bool) (string, error) {
	return c.Put("/power-save", strconv.FormatBool(enabled))
}

func (c *Client) SetShow100Percent(enabled bool) (string, error) {
	return c.Put("/show-100-percent", strconv.FormatBool(enabled))
}

func (c *Client) SetCircleDots(interval, length int) (string, error) {
	return c.putJSON("/circle-dots", types.CircleDots{Interval: interval, Length: length})
}

func (c *Client) SetColors(colors types.Colors) (string, error) {
	return c.putJSON("/colors", colors)
}

func (c *Client) SetLevels(low, critical int) (string, error) {
	return c.putJSON("/levels", types.Levels{Low: low, Critical: critical})
}

func (c *Client) SetFrameSize(width, height int) (*types.FrameSize, error) {
	ret, err := c.putJSON("/size", types.FrameSize{Width: width, Height: height})
	if err != nil {
		return nil, err
	}

	var size types.FrameSize
	if err := json.Unmarshal([]byte(ret), &size); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal frame size")
	}
	return &size, nil
}

func (c *Client) SetPollSchedule(expr string) (string, error) {
	return c.Put("/poll-schedule", strconv.Quote(expr))
}

func (c *Client) putJSON(path string, v any) (string, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return c.Put(path, string(payload))
}

func (c *Client) GetState() (*events.BatteryStateEvent, error) {
	ret, err := c.Get("/state")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get battery state")
	}
	return decodeState(ret)
}

func decodeState(ret string) (*events.BatteryStateEvent, error) {
	var s events.BatteryStateEvent
	if err := json.Unmarshal([]byte(ret), &s); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal battery state")
	}
	return &s, nil
}

// GetMeterPNG fetches a frame. Zero sizes use the daemon's frame size; the
// live frame, animation included, is only served at that size.
func (c *Client) GetMeterPNG(ctx context.Context, width, height int) ([]byte, error) {
	b, err := c.send(ctx, "GET", "/meter.png"+sizeQuery(width, height), "")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get meter frame")
	}
	return b, nil
}

func (c *Client) GetMeterSVG(ctx context.Context, width, height int) ([]byte, error) {
	b, err := c.send(ctx, "GET", "/meter.svg"+sizeQuery(width, height), "")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get meter svg")
	}
	return b, nil
}

func sizeQuery(width, height int) string {
	q := url.Values{}
	if width > 0 {
		q.Set("w", strconv.Itoa(width))
	}
	if height > 0 {
		q.Set("h", strconv.Itoa(height))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// Demo sends a demo mode command and returns the state shown afterwards.
func (c *Client) Demo(command string, args map[string]string) (*events.BatteryStateEvent, error) {
	payload, err := json.Marshal(types.DemoRequest{Command: command, Args: args})
	if err != nil {
		return nil, err
	}
	ret, err := c.Send("POST", "/demo", string(payload))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to send demo command")
	}
	return decodeState(ret)
}

func (c *Client) StartLevelTest() (string, error) {
	return c.Send("POST", "/level-test", "")
}

func (c *Client) GetStats() (*types.Stats, error) {
	ret, err := c.Get("/stats")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get stats")
	}

	var stats types.Stats
	if err := json.Unmarshal([]byte(ret), &stats); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal stats")
	}
	return &stats, nil
}

func (c *Client) GetConfig() (*config.RawFileConfig, error) {
	ret, err := c.Get("/config")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get config")
	}

	var conf config.RawFileConfig
	if err := json.Unmarshal([]byte(ret), &conf); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal config")
	}

	return &conf, nil
}

func (c *Client) GetVersion() (string, error) {
	ret, err := c.Get("/version")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get version")
	}

	var v string
	if err := json.Unmarshal([]byte(ret), &v); err != nil {
		return "", pkgerrors.Wrapf(err, "failed to unmarshal version")
	}
	return v, nil
}
