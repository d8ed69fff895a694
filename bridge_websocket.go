package libemit

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const defaultWriteWait = time.Second

type (
	BridgeOption func(*WebsocketBridge)

	// WebsocketBridge reads frames from a websocket server and emits them on an
	// Emitter, one synchronous Emit per frame, on the reading goroutine:
	//
	//	EventOpen    url string, once dialed
	//	EventMessage Message, text frames
	//	EventBinary  Message, binary frames
	//	EventPing    Message, answered with a pong once listeners return
	//	EventPong    Message
	//	EventClose   CloseFrame
	//
	// Listeners run on the reading goroutine and must not block it; they may
	// call Send.
	WebsocketBridge struct {
		emitter      Emitter
		logger       Logger
		dialer       *websocket.Dialer
		url          url.URL
		header       http.Header
		readLimit    int64
		writeWait    time.Duration
		pingInterval time.Duration

		conn    *websocket.Conn
		connMu  sync.Mutex
		writeMu sync.Mutex

		// dispatchErr is only touched by the reading goroutine.
		dispatchErr error

		closeC    chan struct{}
		closeOnce sync.Once
	}
)

func WithBridgeLogger(l Logger) BridgeOption {
	return func(b *WebsocketBridge) {
		b.logger = l
	}
}

func WithBridgeDialer(d *websocket.Dialer) BridgeOption {
	return func(b *WebsocketBridge) {
		b.dialer = d
	}
}

func WithBridgeHeader(h http.Header) BridgeOption {
	return func(b *WebsocketBridge) {
		b.header = h
	}
}

// WithReadLimit sets the maximum size in bytes of incoming frames. Zero means no limit.
func WithReadLimit(limit int64) BridgeOption {
	return func(b *WebsocketBridge) {
		b.readLimit = limit
	}
}

func WithWriteWait(d time.Duration) BridgeOption {
	return func(b *WebsocketBridge) {
		b.writeWait = d
	}
}

func NewWebsocketBridge(emitter Emitter, u url.URL, opts ...BridgeOption) *WebsocketBridge {
	b := &WebsocketBridge{
		emitter:   emitter,
		logger:    noopLogger{},
		dialer:    websocket.DefaultDialer,
		url:       u,
		writeWait: defaultWriteWait,
		closeC:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(b)
	}

	b.logger = b.logger.WithField("bridge", u.String())

	return b
}

// Run dials the server and forwards frames to the emitter until the server
// closes the connection, ctx is done, Close is called or a listener fails.
// A normal closure from the server or a call to Close returns nil. A listener
// failure stops the bridge and is returned as is.
func (b *WebsocketBridge) Run(ctx context.Context) error {
	if b.isClosed() {
		return ErrBridgeClosed
	}

	b.dispatchErr = nil

	conn, err := b.dial(ctx)
	if err != nil {
		return err
	}

	if err := b.emitter.Emit(EventOpen, b.url.String()); err != nil {
		b.closeConn()
		return err
	}

	readDone := make(chan struct{})
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(readDone)
		return b.read(conn)
	})

	g.Go(func() error {
		select {
		case <-gctx.Done():
		case <-b.closeC:
		case <-readDone:
		}
		b.closeConn()
		return nil
	})

	if b.pingInterval > 0 {
		g.Go(func() error {
			return b.keepAlive(gctx, readDone)
		})
	}

	err = g.Wait()

	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case b.isClosed():
		return nil
	}

	return err
}

// Send writes a data, binary, ping or pong frame.
func (b *WebsocketBridge) Send(ctx context.Context, m Message) error {
	b.connMu.Lock()
	conn := b.conn
	b.connMu.Unlock()

	if conn == nil {
		return errors.Wrap(ErrBridgeClosed, "not connected")
	}

	deadline := time.Now().Add(b.writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	var err error

	switch m.Type() {
	case PingMessage:
		b.logger.Debugln("=> [PING]")
		err = conn.WriteControl(websocket.PingMessage, m.Data(), deadline)
	case PongMessage:
		b.logger.Debugln("=> [PONG]")
		err = conn.WriteControl(websocket.PongMessage, m.Data(), deadline)
	case BinaryMessage:
		b.logger.Debugln("=> [BIN]")
		_ = conn.SetWriteDeadline(deadline)
		err = conn.WriteMessage(websocket.BinaryMessage, m.Data())
	case DataMessage:
		b.logger.Debugf("=> [DATA] %s", m.Data())
		_ = conn.SetWriteDeadline(deadline)
		err = conn.WriteMessage(websocket.TextMessage, m.Data())
	default:
		return errors.Errorf("cannot send message of type %d", m.Type())
	}

	if err != nil {
		return errors.Wrap(ErrBridgeClosed, err.Error())
	}
	return nil
}

// Close stops the bridge. Subsequent calls have no effect.
func (b *WebsocketBridge) Close() {
	b.closeOnce.Do(func() {
		close(b.closeC)
		b.closeConn()
	})
}

func (b *WebsocketBridge) isClosed() bool {
	select {
	case <-b.closeC:
		return true
	default:
		return false
	}
}

func (b *WebsocketBridge) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, resp, err := b.dialer.DialContext(ctx, b.url.String(), b.header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		b.logger.Errorf("connection err to %s: %s", b.url.String(), err)
		return nil, errors.Wrap(ErrCannotConnect, err.Error())
	}

	b.logger.Debugf("success opening connection to %s", b.url.String())

	if b.readLimit > 0 {
		conn.SetReadLimit(b.readLimit)
	}

	conn.SetPingHandler(func(appData string) error {
		b.logger.Debugln("<= [PING]")
		if err := b.dispatch(NewPingMessage([]byte(appData))); err != nil {
			return err
		}

		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(b.writeWait))
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		return err
	})

	conn.SetPongHandler(func(appData string) error {
		b.logger.Debugln("<= [PONG]")
		return b.dispatch(NewPongMessage([]byte(appData)))
	})

	conn.SetCloseHandler(func(code int, text string) error {
		b.logger.Debugf("<= [CLOSE] %d %s", code, text)
		if err := b.dispatch(NewCloseMessage(code, []byte(text))); err != nil {
			return err
		}

		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(code, ""),
			time.Now().Add(b.writeWait),
		)
		return nil
	})

	b.connMu.Lock()
	b.conn = conn
	b.connMu.Unlock()

	return conn, nil
}

func (b *WebsocketBridge) read(conn *websocket.Conn) error {
	for {
		messageType, bts, err := conn.ReadMessage()
		if err != nil {
			if b.dispatchErr != nil {
				return b.dispatchErr
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			if b.isClosed() {
				return nil
			}
			b.logger.Errorf("error occurred on websocket read: %s", err)
			return errors.Wrap(ErrBridgeClosed, "error occurred on websocket read: "+err.Error())
		}

		var m Message

		switch messageType {
		case websocket.BinaryMessage:
			b.logger.Debugln("<= [BIN]")
			m = NewBinaryMessage(bts)
		default:
			b.logger.Debugf("<= [DATA] %s", bts)
			m = NewDataMessage(bts)
		}

		if err := b.dispatch(m); err != nil {
			return err
		}
	}
}

func (b *WebsocketBridge) dispatch(m Message) error {
	if err := b.emitter.Emit(m.Type().Event(), m); err != nil {
		b.logger.Warnf("listener failed on %s: %s", m.Type().Event(), err)
		b.dispatchErr = err
		return err
	}
	return nil
}

func (b *WebsocketBridge) closeConn() {
	b.connMu.Lock()
	defer b.connMu.Unlock()

	if b.conn == nil {
		return
	}

	b.writeMu.Lock()
	_ = b.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(b.writeWait),
	)
	b.writeMu.Unlock()

	_ = b.conn.Close()
	b.conn = nil
}
