// Package fetch downloads raw .osu files by beatmap ID.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/levigross/grequests"
	"github.com/pkg/errors"

	"osuparse/config"
)

const maxRetries = 3

var (
	ErrNotFound    = errors.New("beatmap not found")
	ErrRateLimited = errors.New("rate limited by server")
)

// Returned in a 200 body by osu! when requests come in too fast.
var slowDown = []byte("Slow down, play more.")

type Client struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	cooldown  time.Duration
	limiter   *Limiter
}

func New(cfg config.FetchConfig) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		timeout:   cfg.Timeout,
		cooldown:  cfg.Cooldown,
		limiter:   NewLimiter(cfg.RateLimit, cfg.Cooldown, cfg.MaxConcurrent),
	}
}

func (c *Client) Close() {
	c.limiter.Stop()
}

// Fetch returns the .osu text of one difficulty. When the server asks us to
// slow down the request is retried after a cooldown, up to maxRetries times.
func (c *Client) Fetch(ctx context.Context, beatmapID int) ([]byte, error) {
	done, err := c.limiter.Token(ctx)
	if err != nil {
		return nil, err
	}
	defer done()

	for attempt := 0; ; attempt++ {
		body, err := c.fetchOnce(ctx, beatmapID)
		if !errors.Is(err, ErrRateLimited) || attempt == maxRetries {
			return body, err
		}
		log.Warn("rate limited, cooling down", "beatmap", beatmapID, "cooldown", c.cooldown, "attempt", attempt+1)
		select {
		case <-time.After(c.cooldown):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (c *Client) fetchOnce(ctx context.Context, beatmapID int) ([]byte, error) {
	if err := c.limiter.Throttle(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/osu/%d", c.baseURL, beatmapID)
	log.Debug("downloading", "url", url)
	resp, err := grequests.Get(url, grequests.FromRequestOptions(&grequests.RequestOptions{
		UserAgent:      c.userAgent,
		RequestTimeout: c.timeout,
		Context:        ctx,
	}))
	if err != nil {
		return nil, errors.Wrapf(err, "get %s", url)
	}
	defer resp.Close()

	body := resp.Bytes()
	if resp.Error != nil {
		return nil, errors.Wrapf(resp.Error, "read %s", url)
	}
	switch {
	case resp.StatusCode == http.StatusTooManyRequests || bytes.Contains(body, slowDown):
		return nil, errors.Wrapf(ErrRateLimited, "beatmap %d", beatmapID)
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.Wrapf(ErrNotFound, "beatmap %d", beatmapID)
	case !resp.Ok:
		return nil, errors.Errorf("get %s: unexpected status %d", url, resp.StatusCode)
	case len(bytes.TrimSpace(body)) == 0:
		// unknown IDs come back as an empty 200
		return nil, errors.Wrapf(ErrNotFound, "beatmap %d", beatmapID)
	}
	return body, nil
}
