package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battmeter/pkg/events"
)

// SubscribeEvents streams daemon events until ctx is cancelled or the daemon
// closes the stream. The returned channel is closed in both cases.
func (c *Client) SubscribeEvents(ctx context.Context) (<-chan events.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://unix/events", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to subscribe to events")
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("got %d subscribing to events", resp.StatusCode)
	}

	ch := make(chan events.Event, 8)
	go func() {
		defer close(ch)
		defer resp.Body.Close()

		sc := bufio.NewScanner(resp.Body)
		var (
			name string
			data bytes.Buffer
		)
		for sc.Scan() {
			line := sc.Text()
			if line != "" {
				field, value, _ := strings.Cut(line, ":")
				value = strings.TrimPrefix(value, " ")
				switch field {
				case "event":
					name = value
				case "data":
					if data.Len() > 0 {
						data.WriteByte('\n')
					}
					data.WriteString(value)
				}
				continue
			}

			// a blank line dispatches the event
			if name == "" && data.Len() == 0 {
				continue
			}
			ev := events.Event{Name: name, Data: json.RawMessage(bytes.Clone(data.Bytes()))}
			name = ""
			data.Reset()
			select {
			case ch <- ev:
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil && ctx.Err() == nil {
			logrus.WithError(err).Debug("event stream ended")
		}
	}()

	return ch, nil
}
