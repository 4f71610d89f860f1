package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions callers branch on with errors.Is.
var (
	// ErrUnauthorized is returned when the exchange rejects the API key (HTTP 401).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRateLimited is returned on HTTP 429 so callers can back off instead of
	// treating it as a generic failure.
	ErrRateLimited = errors.New("request rate limit exceeded")
	// ErrServerError is returned on HTTP 500.
	ErrServerError = errors.New("internal server error")
	// ErrServiceUnavailable is returned on HTTP 503.
	ErrServiceUnavailable = errors.New("service unavailable")
	// ErrNoCache is returned when the trading-rules cache has never been
	// populated or its snapshot is older than the TTL.
	ErrNoCache = errors.New("no cache")
	// ErrSymbolNotFound is returned when a symbol lookup misses a fresh cache.
	ErrSymbolNotFound = errors.New("symbol not found")
	// ErrAssetNotFound is returned when an asset is absent from the account
	// balance list.
	ErrAssetNotFound = errors.New("asset not found")
	// ErrClock is returned when the time source cannot produce a duration
	// since the unix epoch.
	ErrClock = errors.New("failed to get timestamp")
	// ErrDisconnected is returned when the server initiates a websocket close.
	// The session is dead; callers must dial a new one.
	ErrDisconnected = errors.New("server disconnected")
	// ErrConnectionClosed is returned when the websocket read loop ends with
	// no further frames.
	ErrConnectionClosed = errors.New("websocket connection closed")
)

// ExchangeError is the structured business-rule rejection the exchange returns
// with HTTP 400, decoded from the {"code":..,"msg":..} body.
type ExchangeError struct {
	Code    int    `json:"code"`
	Message string `json:"msg"`
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("exchange error %d: %s", e.Code, e.Message)
}

// StatusError reports an HTTP status outside the classified set.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d", e.StatusCode)
}

// TransportError wraps a connect/send/receive failure from the underlying
// transport. Never retried internally.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HandshakeError reports a failed websocket upgrade. Terminal: the caller must
// reconnect from scratch.
type HandshakeError struct {
	URL string
	Err error
}

func (e *HandshakeError) Error() string {
	return fmt.Sprintf("websocket handshake %s: %v", e.URL, e.Err)
}

func (e *HandshakeError) Unwrap() error { return e.Err }

// DecodeError reports a response body that did not match the expected shape.
type DecodeError struct {
	What string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.What, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// UnrecognizedEventError carries a streaming payload that matched no known
// event shape. The raw text is preserved so nothing is silently dropped.
type UnrecognizedEventError struct {
	Raw string
}

func (e *UnrecognizedEventError) Error() string {
	return fmt.Sprintf("unrecognized event: %s", e.Raw)
}

// AsExchangeError unwraps err into an *ExchangeError if it is one.
func AsExchangeError(err error) (*ExchangeError, bool) {
	var ee *ExchangeError
	if errors.As(err, &ee) {
		return ee, true
	}
	return nil, false
}

// IsRateLimited reports whether err indicates the request weight window was
// exhausted. Callers should back off before retrying.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
