package ws

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/lxzan/gws"
	"github.com/rs/zerolog"

	"nakula/pkg/core"
)

const handshakeTimeout = 10 * time.Second

// FrameKind classifies a received frame.
type FrameKind int

const (
	// FrameText carries a JSON payload.
	FrameText FrameKind = iota
	// FrameBinary carries bytes this protocol never uses.
	FrameBinary
	// FramePing is a server keepalive probe; the pong reply has already been
	// written by the time the frame is delivered.
	FramePing
	// FramePong acknowledges a ping we sent.
	FramePong
	// FrameClose is the server-initiated close. Terminal.
	FrameClose
	// FrameError reports a failed transport read; Err carries the cause.
	// Terminal, like FrameClose.
	FrameError
)

// Frame is one received websocket frame. Err is set only for FrameError.
type Frame struct {
	Kind FrameKind
	Data []byte
	Err  error
}

// Conn is a dialed websocket connection that hands frames to exactly one
// reader. Delivery is unbuffered: the read loop blocks until Next accepts the
// frame, so the reader sees every frame in arrival order.
type Conn struct {
	state  *State
	logger zerolog.Logger

	socket *gws.Conn
	pong   func(payload []byte) error

	frames      chan Frame
	connectedCh chan struct{}
	done        chan struct{}
	closeOnce   sync.Once
	wg          sync.WaitGroup
}

type connHandler struct {
	conn *Conn
}

// Dial performs the websocket handshake against url and starts the read loop.
// Handshake failures are terminal; the caller dials again from scratch.
func Dial(ctx context.Context, url string, logger zerolog.Logger) (*Conn, error) {
	c := &Conn{
		state:       &State{},
		logger:      logger,
		frames:      make(chan Frame),
		connectedCh: make(chan struct{}),
		done:        make(chan struct{}),
	}
	c.state.Store(StateConnecting)

	socket, _, err := gws.NewClient(&connHandler{conn: c}, &gws.ClientOption{
		Addr:             url,
		HandshakeTimeout: handshakeTimeout,
	})
	if err != nil {
		c.state.Store(StateClosed)
		return nil, &core.HandshakeError{URL: url, Err: err}
	}
	c.socket = socket
	c.pong = socket.WritePong

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		socket.ReadLoop()
	}()

	select {
	case <-c.connectedCh:
		return c, nil
	case <-ctx.Done():
		_ = socket.NetConn().Close()
		c.state.Store(StateClosed)
		return nil, &core.HandshakeError{URL: url, Err: ctx.Err()}
	}
}

// Next blocks until one frame arrives. After a FrameClose, or once Close has
// been called, it fails with core.ErrConnectionClosed.
func (c *Conn) Next(ctx context.Context) (Frame, error) {
	select {
	case f := <-c.frames:
		return f, nil
	case <-c.done:
		return Frame{}, core.ErrConnectionClosed
	case <-ctx.Done():
		return Frame{}, ctx.Err()
	}
}

// State returns the connection lifecycle state.
func (c *Conn) State() ConnState {
	return c.state.Load()
}

// Close tears the connection down and waits for the read loop to drain.
// Safe to call more than once.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		if c.state.CompareAndSwap(StateOpen, StateClosing) {
			_ = c.socket.WriteClose(1000, nil)
		}
		close(c.done)
		if c.socket != nil {
			_ = c.socket.NetConn().Close()
		}
		c.wg.Wait()
		c.state.Store(StateClosed)
	})
	return nil
}

// deliver hands a frame to the reader, giving up if the connection dies first.
func (c *Conn) deliver(f Frame) {
	select {
	case c.frames <- f:
	case <-c.done:
	}
}

func (h *connHandler) OnOpen(socket *gws.Conn) {
	h.conn.state.Store(StateOpen)
	select {
	case <-h.conn.connectedCh:
	default:
		close(h.conn.connectedCh)
	}
	h.conn.logger.Debug().Msg("websocket connected")
}

// OnClose sees both peer close frames and failed reads; gws funnels them into
// one callback. A close frame arrives as *gws.CloseError, anything else is a
// transport failure whose cause the reader needs.
func (h *connHandler) OnClose(socket *gws.Conn, err error) {
	h.conn.state.Store(StateClosing)
	var closeErr *gws.CloseError
	if err == nil || errors.As(err, &closeErr) {
		h.conn.logger.Debug().Err(err).Msg("websocket closed by peer")
		h.conn.deliver(Frame{Kind: FrameClose})
	} else {
		h.conn.logger.Debug().Err(err).Msg("websocket read failed")
		h.conn.deliver(Frame{Kind: FrameError, Err: err})
	}
	h.conn.state.Store(StateClosed)
}

func (h *connHandler) OnPing(socket *gws.Conn, payload []byte) {
	// Reply before surfacing the frame so the keepalive never waits on the
	// reader.
	_ = h.conn.pong(nil)
	h.conn.deliver(Frame{Kind: FramePing, Data: payload})
}

func (h *connHandler) OnPong(socket *gws.Conn, payload []byte) {
	h.conn.deliver(Frame{Kind: FramePong, Data: payload})
}

func (h *connHandler) OnMessage(socket *gws.Conn, message *gws.Message) {
	defer message.Close()

	data := make([]byte, len(message.Bytes()))
	copy(data, message.Bytes())

	kind := FrameText
	if message.Opcode == gws.OpcodeBinary {
		kind = FrameBinary
	}
	h.conn.deliver(Frame{Kind: kind, Data: data})
}
