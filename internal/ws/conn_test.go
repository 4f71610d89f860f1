package ws

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lxzan/gws"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nakula/pkg/core"
)

func newTestConn() *Conn {
	c := &Conn{
		state:       &State{},
		logger:      zerolog.Nop(),
		frames:      make(chan Frame),
		connectedCh: make(chan struct{}),
		done:        make(chan struct{}),
	}
	c.state.Store(StateOpen)
	return c
}

func TestHandler_PingRepliesBeforeDelivery(t *testing.T) {
	c := newTestConn()
	var pongs int
	c.pong = func(payload []byte) error {
		pongs++
		return nil
	}
	h := &connHandler{conn: c}

	go h.OnPing(nil, []byte("probe"))

	f, err := c.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, FramePing, f.Kind)
	assert.Equal(t, "probe", string(f.Data))
	assert.Equal(t, 1, pongs)
}

func TestHandler_CloseDeliversCloseFrame(t *testing.T) {
	c := newTestConn()
	h := &connHandler{conn: c}

	go h.OnClose(nil, &gws.CloseError{Code: 1000, Reason: []byte("going away")})

	f, err := c.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, FrameClose, f.Kind)
	assert.NoError(t, f.Err)

	// The state settles at closed once delivery completes.
	assert.Eventually(t, func() bool {
		return c.State() == StateClosed
	}, time.Second, 10*time.Millisecond)
}

func TestHandler_ReadErrorDeliversCause(t *testing.T) {
	c := newTestConn()
	h := &connHandler{conn: c}
	cause := errors.New("read tcp: connection reset by peer")

	go h.OnClose(nil, cause)

	f, err := c.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, FrameError, f.Kind)
	assert.ErrorIs(t, f.Err, cause)

	assert.Eventually(t, func() bool {
		return c.State() == StateClosed
	}, time.Second, 10*time.Millisecond)
}

func TestNext_FailsAfterDone(t *testing.T) {
	c := newTestConn()
	close(c.done)

	_, err := c.Next(context.Background())

	assert.True(t, errors.Is(err, core.ErrConnectionClosed))
}

func TestNext_HonorsContext(t *testing.T) {
	c := newTestConn()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Next(ctx)

	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDeliver_GivesUpWhenDone(t *testing.T) {
	c := newTestConn()
	close(c.done)

	finished := make(chan struct{})
	go func() {
		c.deliver(Frame{Kind: FrameText})
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("deliver blocked after done")
	}
}

func TestDial_HandshakeFailure(t *testing.T) {
	_, err := Dial(context.Background(), "ws://127.0.0.1:1/ws/bnbbtc@trade", zerolog.Nop())

	var he *core.HandshakeError
	require.True(t, errors.As(err, &he))
	assert.Contains(t, he.URL, "bnbbtc@trade")
}
