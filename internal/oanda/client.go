package oanda

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/phuslu/log"

	"github.com/rustyeddy/fxweekday/internal/logging"
)

// Client is a scoped handle on the OANDA v20 REST API. It holds no
// session state; every call is a plain authenticated request.
type Client struct {
	BaseURL string // e.g. https://api-fxpractice.oanda.com
	Token   string
	HTTP    *http.Client
	Log     *log.Logger // optional
}

func BaseURL(env string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "practice", "demo":
		return "https://api-fxpractice.oanda.com", nil
	case "live", "trade":
		return "https://api-fxtrade.oanda.com", nil
	default:
		return "", fmt.Errorf("unknown OANDA env %q (want practice|live)", env)
	}
}

func (c *Client) check() error {
	if c.Token == "" {
		return fmt.Errorf("oanda: missing token")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("oanda: missing base url")
	}
	return nil
}

func (c *Client) logger() *log.Logger {
	if c.Log == nil {
		return logging.Discard()
	}
	return c.Log
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return err
	}
	u.Path = path
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Datetime-Format", "RFC3339")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	c.logger().Debug().Str("path", path).Str("query", u.RawQuery).Msg("oanda request")

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return fmt.Errorf("oanda http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("oanda: decode %s: %w", path, err)
	}
	return nil
}
