// Package core holds the configuration, credentials and error taxonomy shared
// by the REST and streaming halves of the client.
package core

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Credentials holds the API authentication pair. Both fields are optional;
// without them the client is restricted to public endpoints. Immutable for
// the lifetime of a client instance.
type Credentials struct {
	// APIKey is the public API key sent in the X-MBX-APIKEY header.
	APIKey string `json:"api_key"`
	// SecretKey is the private key used to sign requests.
	SecretKey string `json:"secret_key"`
}

// CanSign reports whether the credentials carry a secret for request signing.
func (c Credentials) CanSign() bool {
	return c.SecretKey != ""
}

// Config contains the endpoints and request defaults for one client instance.
type Config struct {
	RestEndpoint        string `json:"rest_endpoint" validate:"required,url"`
	FuturesRestEndpoint string `json:"futures_rest_endpoint" validate:"required,url"`
	WsEndpoint          string `json:"ws_endpoint" validate:"required"`
	FuturesWsEndpoint   string `json:"futures_ws_endpoint" validate:"required"`

	// RecvWindow is the tolerance in milliseconds the exchange allows between
	// the client-stamped timestamp and server time. Zero omits the parameter.
	RecvWindow int64 `json:"recv_window" validate:"min=0"`

	// Timeout is the maximum duration for a single HTTP request.
	Timeout time.Duration `json:"timeout" validate:"min=1ms"`

	LogLevel string `json:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultConfig returns a Config pointed at the production endpoints with a
// 5000ms recvWindow and a 10s request timeout.
func DefaultConfig() *Config {
	return &Config{
		RestEndpoint:        "https://api.binance.com",
		FuturesRestEndpoint: "https://fapi.binance.com",
		WsEndpoint:          "wss://stream.binance.com:9443",
		FuturesWsEndpoint:   "wss://fstream.binance.com",
		RecvWindow:          5000,
		Timeout:             10 * time.Second,
		LogLevel:            "info",
	}
}

// TestnetConfig returns a Config pointed at the test-network endpoints.
func TestnetConfig() *Config {
	c := DefaultConfig()
	c.RestEndpoint = "https://testnet.binance.vision"
	c.FuturesRestEndpoint = "https://testnet.binancefuture.com"
	c.WsEndpoint = "wss://testnet.binance.vision"
	c.FuturesWsEndpoint = "wss://stream.binancefuture.com"
	return c
}

var validate = validator.New()

// Validate checks the config against its struct tags.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// WithRecvWindow sets the recvWindow and returns the config for chaining.
func (c *Config) WithRecvWindow(ms int64) *Config {
	c.RecvWindow = ms
	return c
}

// WithTimeout sets the request timeout and returns the config for chaining.
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.Timeout = timeout
	return c
}

// WithRestEndpoint overrides the spot REST base URL and returns the config
// for chaining.
func (c *Config) WithRestEndpoint(url string) *Config {
	c.RestEndpoint = url
	return c
}

// WithWsEndpoint overrides the spot websocket base URL and returns the config
// for chaining.
func (c *Config) WithWsEndpoint(url string) *Config {
	c.WsEndpoint = url
	return c
}
