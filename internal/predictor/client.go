// internal/predictor/client.go
//
// Abalone – prediction API client.
//
// Context
//   The model lives in a separate service.  This client is a thin pass-through
//   to its three endpoints:
//
//     GET  /health       liveness
//     GET  /api/info     model description and parameter tables
//     POST /api/predict  rings + age for one measurement record
//
//   Every call makes exactly one attempt.  There is no retry loop and no
//   client-side timeout; callers bound a call through ctx if they need to.
//   Failures, local or remote, come back as *Error so the page can show one
//   banner message.
//
//------------------------------------------------------------------------------

package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"go.uber.org/zap"

	"github.com/yanizio/abalone/internal/logger"
	"github.com/yanizio/abalone/internal/measurement"
	"github.com/yanizio/abalone/internal/metrics"
)

// API paths, relative to the base URL.
const (
	PathHealth  = "/health"
	PathInfo    = "/api/info"
	PathPredict = "/api/predict"
)

// maxBody caps how much of a response we are willing to read.
const maxBody = 1 << 20

// Client talks to one prediction API.  It is safe for concurrent use.
type Client struct {
	base *url.URL
	http *http.Client
	log  *zap.SugaredLogger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default pooled transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the fallback logger used when ctx carries none.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Client) { c.log = l }
}

// New returns a Client for the API rooted at baseURL, for example
// "http://localhost:8000".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("predictor base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("predictor base url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("predictor base url %q: missing host", baseURL)
	}

	c := &Client{base: u, http: cleanhttp.DefaultPooledClient()}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// BaseURL returns the API root this client targets.
func (c *Client) BaseURL() string { return c.base.String() }

// Health fetches the API liveness payload.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.do(ctx, http.MethodGet, PathHealth, nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// ModelInfo fetches the model description and parameter tables.
func (c *Client) ModelInfo(ctx context.Context) (*ModelInfo, error) {
	var info ModelInfo
	if err := c.do(ctx, http.MethodGet, PathInfo, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Predict submits one validated measurement record.
func (c *Client) Predict(ctx context.Context, p measurement.Payload) (*Result, error) {
	var res Result
	if err := c.do(ctx, http.MethodPost, PathPredict, p, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// do performs one JSON round trip.  in is marshalled when non-nil; a 2xx
// body is decoded into out.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	log := c.logger(ctx)
	target := c.base.JoinPath(path).String()

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return transportError(fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return transportError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observe(path, "error", start)
		log.Warnw("predictor request failed", "method", method, "url", target, "err", err)
		return transportError(err)
	}
	defer resp.Body.Close()
	observe(path, strconv.Itoa(resp.StatusCode), start)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		log.Warnw("predictor read failed", "method", method, "url", target, "err", err)
		return &Error{Status: resp.StatusCode, Message: err.Error(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e := statusError(resp.StatusCode, raw)
		log.Warnw("predictor returned error",
			"method", method, "url", target, "status", resp.StatusCode, "message", e.Message)
		return e
	}

	if err := json.Unmarshal(raw, out); err != nil {
		log.Warnw("predictor response not decodable", "url", target, "err", err)
		return &Error{
			Status:  resp.StatusCode,
			Message: "Unexpected response from prediction service",
			Err:     err,
		}
	}

	log.Debugw("predictor request ok",
		"method", method, "url", target, "status", resp.StatusCode,
		"duration", time.Since(start))
	return nil
}

func (c *Client) logger(ctx context.Context) *zap.SugaredLogger {
	if l, ok := logger.Lookup(ctx); ok {
		return l
	}
	if c.log != nil {
		return c.log
	}
	return zap.S()
}

func observe(endpoint, code string, start time.Time) {
	metrics.UpstreamDuration.WithLabelValues(endpoint, code).Observe(time.Since(start).Seconds())
}
