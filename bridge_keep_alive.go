package libemit

import (
	"context"
	"time"
)

// WithKeepAlive makes the bridge send a ping every interval while connected.
// The server pongs are emitted as EventPong.
func WithKeepAlive(interval time.Duration) BridgeOption {
	return func(b *WebsocketBridge) {
		b.pingInterval = interval
	}
}

// keepAlive sends pings until the read loop ends, ctx is done or the bridge is closed.
func (b *WebsocketBridge) keepAlive(ctx context.Context, readDone <-chan struct{}) error {
	ticker := time.NewTicker(b.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-readDone:
			return nil
		case <-b.closeC:
			return nil
		case <-ticker.C:
			if err := b.Send(ctx, NewPingMessage(nil)); err != nil {
				b.logger.Warnf("cannot send keep alive ping: %s", err)
				return nil
			}
		}
	}
}
