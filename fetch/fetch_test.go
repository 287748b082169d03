package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osuparse/config"
)

const osuText = "osu file format v14\n\n[HitObjects]\n256,192,11000,21,2\n"

func testClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := New(config.FetchConfig{
		BaseURL:       srv.URL + "/",
		UserAgent:     "osuparse-test",
		Timeout:       5 * time.Second,
		RateLimit:     100,
		Cooldown:      100 * time.Millisecond,
		MaxConcurrent: 2,
	})
	t.Cleanup(c.Close)
	return c
}

func TestFetch(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/osu/2797865", r.URL.Path)
		assert.Equal(t, "osuparse-test", r.UserAgent())
		w.Write([]byte(osuText))
	})
	body, err := c.Fetch(context.Background(), 2797865)
	require.NoError(t, err)
	assert.Equal(t, osuText, string(body))
}

func TestFetchNotFound(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/osu/1" {
			w.WriteHeader(http.StatusNotFound)
		}
		// anything else: empty 200
	})
	_, err := c.Fetch(context.Background(), 1)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = c.Fetch(context.Background(), 2)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFetchServerError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.Fetch(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestFetchRetriesWhenRateLimited(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			w.WriteHeader(http.StatusTooManyRequests)
		case 2:
			w.Write(slowDown)
		default:
			w.Write([]byte(osuText))
		}
	})
	body, err := c.Fetch(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, osuText, string(body))
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchGivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	})
	_, err := c.Fetch(context.Background(), 5)
	assert.True(t, errors.Is(err, ErrRateLimited))
	assert.Equal(t, int32(maxRetries+1), calls.Load())
}

func TestFetchCancelled(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(osuText))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Fetch(ctx, 5)
	assert.ErrorIs(t, err, context.Canceled)
}
