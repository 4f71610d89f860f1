package stream

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"nakula/internal/ws"
	"nakula/pkg/core"
)

// frameSource is the connection surface the session consumes. Satisfied by
// *ws.Conn; narrowed so receive semantics are testable without a server.
type frameSource interface {
	Next(ctx context.Context) (ws.Frame, error)
	State() ws.ConnState
	Close() error
}

// Session is one live stream subscription. Recv hands back events one at a
// time; a session whose connection has died is never reused, callers dial a
// fresh one.
type Session struct {
	conn   frameSource
	url    string
	logger zerolog.Logger
}

// Connect dials a single-stream subscription on the spot endpoint.
func Connect(ctx context.Context, cfg *core.Config, stream string) (*Session, error) {
	return ConnectCustom(ctx, cfg.WsEndpoint+"/ws/"+stream)
}

// ConnectMulti dials a combined subscription on the spot endpoint. Payloads
// arrive wrapped in {stream,data} envelopes, which Recv unwraps.
func ConnectMulti(ctx context.Context, cfg *core.Config, streams ...string) (*Session, error) {
	return ConnectCustom(ctx, cfg.WsEndpoint+"/stream?streams="+strings.Join(streams, "/"))
}

// ConnectFutures dials a single-stream subscription on the futures endpoint.
func ConnectFutures(ctx context.Context, cfg *core.Config, stream string) (*Session, error) {
	return ConnectCustom(ctx, cfg.FuturesWsEndpoint+"/ws/"+stream)
}

// ConnectUserData dials the private user-data stream for a listen key on the
// spot endpoint.
func ConnectUserData(ctx context.Context, cfg *core.Config, listenKey string) (*Session, error) {
	return Connect(ctx, cfg, listenKey)
}

// ConnectCustom dials a fully specified websocket URL.
func ConnectCustom(ctx context.Context, url string) (*Session, error) {
	s := &Session{url: url, logger: zerolog.Nop()}
	conn, err := ws.Dial(ctx, url, s.logger)
	if err != nil {
		return nil, err
	}
	s.conn = conn
	return s, nil
}

// SetLogger installs a logger; the default discards everything.
func (s *Session) SetLogger(logger zerolog.Logger) {
	s.logger = logger
}

// URL returns the dialed URL.
func (s *Session) URL() string {
	return s.url
}

// Connected reports whether the connection is still open.
func (s *Session) Connected() bool {
	return s.conn.State() == ws.StateOpen
}

// Recv blocks for the next frame and returns its decoded event. Control
// frames yield (nil, nil): the ping reply has already been written by the
// transport, so callers just loop. A server-initiated close yields
// core.ErrDisconnected; a failed read yields a core.TransportError carrying
// the cause; receiving after teardown yields core.ErrConnectionClosed. All
// three are terminal.
func (s *Session) Recv(ctx context.Context) (Event, error) {
	frame, err := s.conn.Next(ctx)
	if err != nil {
		return nil, err
	}

	switch frame.Kind {
	case ws.FrameText:
		event, err := Decode(frame.Data)
		if err != nil {
			s.logger.Warn().Err(err).Str("url", s.url).Msg("undecodable payload")
			return nil, err
		}
		return event, nil
	case ws.FrameClose:
		return nil, core.ErrDisconnected
	case ws.FrameError:
		return nil, &core.TransportError{Op: "read", Err: frame.Err}
	default:
		// Ping, pong and binary frames carry no event.
		return nil, nil
	}
}

// Disconnect tears the session down. Safe to call more than once.
func (s *Session) Disconnect() error {
	return s.conn.Close()
}
