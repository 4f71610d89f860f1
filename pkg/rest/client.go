// Package rest implements the authenticated REST half of the client: the
// request dispatcher, the endpoint table, response DTOs and the trading-rules
// cache.
package rest

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	"resty.dev/v3"

	"nakula/internal/sign"
	"nakula/pkg/core"
)

const (
	userAgent        = "nakula"
	apiKeyHeader     = "X-MBX-APIKEY"
	usedWeightHeader = "X-Mbx-Used-Weight-1m"
	formContentType  = "application/x-www-form-urlencoded"
)

// Client owns the pooled HTTP transport and turns endpoint+query pairs into
// classified results. It is safe for concurrent use; the only mutable state
// is the used-weight gauge.
type Client struct {
	http   *resty.Client
	cfg    *core.Config
	creds  core.Credentials
	logger zerolog.Logger
	now    sign.Clock

	usedWeight atomic.Int64
}

// NewClient builds a Client from a validated config. Credentials may be the
// zero value for public-only use.
func NewClient(cfg *core.Config, creds core.Credentials) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	http := resty.New()
	http.SetTimeout(cfg.Timeout)
	http.SetRetryCount(0)
	http.SetHeader("User-Agent", userAgent)
	// Closing a user data stream sends the listenKey pair as a DELETE body;
	// resty drops DELETE payloads unless told otherwise.
	http.SetAllowMethodDeletePayload(true)
	http.AddContentTypeEncoder("application/json", func(w io.Writer, v any) error {
		data, err := sonic.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	})
	http.AddContentTypeDecoder("application/json", func(r io.Reader, v any) error {
		data, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		return sonic.Unmarshal(data, v)
	})

	c := &Client{
		http:   http,
		cfg:    cfg,
		creds:  creds,
		logger: zerolog.Nop(),
		now:    time.Now,
	}

	http.AddRequestMiddleware(func(_ *resty.Client, req *resty.Request) error {
		c.logger.Debug().
			Str("method", req.Method).
			Str("url", req.URL).
			Msg("http request")
		return nil
	})
	http.AddResponseMiddleware(func(_ *resty.Client, resp *resty.Response) error {
		c.logger.Debug().
			Str("method", resp.Request.Method).
			Str("url", resp.Request.URL).
			Int("status", resp.StatusCode()).
			Int("size", len(resp.Bytes())).
			Msg("http response")
		return nil
	})

	return c, nil
}

// SetLogger installs a logger; the default discards everything.
func (c *Client) SetLogger(logger zerolog.Logger) {
	c.logger = logger
}

// SetClock overrides the time source used for request timestamps.
func (c *Client) SetClock(now sign.Clock) {
	c.now = now
}

// Close releases the underlying transport.
func (c *Client) Close() error {
	return c.http.Close()
}

// UsedWeight returns the most recent used-request-weight value reported by
// the exchange, or zero if none has been seen yet.
func (c *Client) UsedWeight() int64 {
	return c.usedWeight.Load()
}

// RecvWindow returns the configured recvWindow in milliseconds.
func (c *Client) RecvWindow() int64 {
	return c.cfg.RecvWindow
}

// signedQuery stamps params with recvWindow and timestamp and appends the
// signature. The caller transmits the result exactly as returned.
func (c *Client) signedQuery(params sign.Params) (string, error) {
	query, err := sign.BuildSignedQuery(params, c.cfg.RecvWindow, c.now)
	if err != nil {
		return "", err
	}
	return sign.SignedQuery(query, c.creds.SecretKey), nil
}

func (c *Client) url(e Endpoint, query string) string {
	path := e.Path()
	var u string
	switch {
	case e.Absolute():
		u = path
	case len(path) > 5 && path[:6] == "/fapi/":
		u = c.cfg.FuturesRestEndpoint + path
	default:
		u = c.cfg.RestEndpoint + path
	}
	if query != "" {
		u += "?" + query
	}
	return u
}

// Get issues an unauthenticated GET. Query must already be canonical.
func (c *Client) Get(ctx context.Context, e Endpoint, params sign.Params) ([]byte, error) {
	req := c.http.R().SetContext(ctx)
	return c.send(req, "GET", c.url(e, sign.BuildQuery(params)))
}

// GetSigned issues an authenticated GET with the signed query appended to the
// URL, matching the exchange's GET-with-query-parameters convention.
func (c *Client) GetSigned(ctx context.Context, e Endpoint, params sign.Params) ([]byte, error) {
	query, err := c.signedQuery(params)
	if err != nil {
		return nil, err
	}
	req := c.http.R().SetContext(ctx).
		SetHeader(apiKeyHeader, c.creds.APIKey).
		SetHeader("Content-Type", formContentType)
	return c.send(req, "GET", c.url(e, query))
}

// GetSignedBytes is GetSigned for binary payloads; classification is
// identical, only decoding is skipped.
func (c *Client) GetSignedBytes(ctx context.Context, e Endpoint, params sign.Params) ([]byte, error) {
	return c.GetSigned(ctx, e, params)
}

// PostSigned issues an authenticated POST. State-changing parameters travel
// in the signed query string, per the exchange convention.
func (c *Client) PostSigned(ctx context.Context, e Endpoint, params sign.Params) ([]byte, error) {
	query, err := c.signedQuery(params)
	if err != nil {
		return nil, err
	}
	req := c.http.R().SetContext(ctx).
		SetHeader(apiKeyHeader, c.creds.APIKey).
		SetHeader("Content-Type", formContentType)
	return c.send(req, "POST", c.url(e, query))
}

// DeleteSigned issues an authenticated DELETE with the signed query in the URL.
func (c *Client) DeleteSigned(ctx context.Context, e Endpoint, params sign.Params) ([]byte, error) {
	query, err := c.signedQuery(params)
	if err != nil {
		return nil, err
	}
	req := c.http.R().SetContext(ctx).
		SetHeader(apiKeyHeader, c.creds.APIKey).
		SetHeader("Content-Type", formContentType)
	return c.send(req, "DELETE", c.url(e, query))
}

// Post issues an API-keyed POST with no parameters. Used to open a user data
// stream.
func (c *Client) Post(ctx context.Context, e Endpoint) ([]byte, error) {
	req := c.http.R().SetContext(ctx).
		SetHeader(apiKeyHeader, c.creds.APIKey)
	return c.send(req, "POST", c.url(e, ""))
}

// Put issues the listen-key keep-alive: an API-keyed PUT whose body is the
// bare listenKey pair, with no content-type header.
func (c *Client) Put(ctx context.Context, e Endpoint, listenKey string) ([]byte, error) {
	req := c.http.R().SetContext(ctx).
		SetHeader(apiKeyHeader, c.creds.APIKey).
		SetBody("listenKey=" + listenKey)
	return c.send(req, "PUT", c.url(e, ""))
}

// Delete closes a user data stream; same body convention as Put.
func (c *Client) Delete(ctx context.Context, e Endpoint, listenKey string) ([]byte, error) {
	req := c.http.R().SetContext(ctx).
		SetHeader(apiKeyHeader, c.creds.APIKey).
		SetBody("listenKey=" + listenKey)
	return c.send(req, "DELETE", c.url(e, ""))
}

func (c *Client) send(req *resty.Request, method, url string) ([]byte, error) {
	var resp *resty.Response
	var err error

	switch method {
	case "GET":
		resp, err = req.Get(url)
	case "POST":
		resp, err = req.Post(url)
	case "PUT":
		resp, err = req.Put(url)
	case "DELETE":
		resp, err = req.Delete(url)
	default:
		return nil, fmt.Errorf("unsupported http method: %s", method)
	}
	if err != nil {
		return nil, &core.TransportError{Op: method, Err: err}
	}

	c.captureUsedWeight(resp)
	return c.classify(resp)
}

func (c *Client) captureUsedWeight(resp *resty.Response) {
	raw := resp.Header().Get(usedWeightHeader)
	if raw == "" {
		return
	}
	weight, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return
	}
	c.usedWeight.Store(weight)
	c.logger.Debug().Int64("used_weight", weight).Msg("request weight")
}

// classify maps the HTTP status to the typed result taxonomy. Identical for
// authenticated and unauthenticated calls.
func (c *Client) classify(resp *resty.Response) ([]byte, error) {
	body := resp.Bytes()
	switch resp.StatusCode() {
	case 200:
		return body, nil
	case 400:
		var ee core.ExchangeError
		if err := sonic.Unmarshal(body, &ee); err != nil {
			return nil, &core.DecodeError{What: "exchange error body", Err: err}
		}
		return nil, &ee
	case 401:
		return nil, core.ErrUnauthorized
	case 429:
		return nil, core.ErrRateLimited
	case 500:
		return nil, core.ErrServerError
	case 503:
		return nil, core.ErrServiceUnavailable
	default:
		return nil, &core.StatusError{StatusCode: resp.StatusCode()}
	}
}

// decodeInto parses a classified 200 body into T.
func decodeInto[T any](body []byte, what string) (T, error) {
	var v T
	if err := sonic.Unmarshal(body, &v); err != nil {
		return v, &core.DecodeError{What: what, Err: err}
	}
	return v, nil
}
