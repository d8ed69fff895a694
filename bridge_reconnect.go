package libemit

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
)

// EventReconnect is emitted with the attempt number right before the bridge redials.
const EventReconnect = "reconnect"

// BackoffCalculator returns how long to wait before the given reconnection attempt.
type BackoffCalculator func(attempts int) time.Duration

func ExponentialBackoff(attempts int) float64 {
	return (math.Pow(2.0, float64(attempts)) - 1) / 2
}

// ExponentialBackoffSeconds is ExponentialBackoff as a BackoffCalculator,
// keeping the fractional part: 500ms, 1.5s, 3.5s...
func ExponentialBackoffSeconds(attempts int) time.Duration {
	return time.Duration(ExponentialBackoff(attempts) * float64(time.Second))
}

// RunWithReconnect runs the bridge and redials whenever the connection ends,
// waiting as told by calculator. Attempts are counted from the last connection
// that got established. It returns when ctx is done, Close is called or a
// listener fails.
func (b *WebsocketBridge) RunWithReconnect(ctx context.Context, calculator BackoffCalculator) error {
	attempts := 0

	for {
		err := b.Run(ctx)

		var lerr *ListenerError
		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case b.isClosed():
			return nil
		case errors.As(err, &lerr):
			return err
		case errors.Is(err, ErrCannotConnect):
			attempts++
		default:
			attempts = 1
		}

		ttw := calculator(attempts)
		b.logger.Infof("retrying to connect after %s due to %v", ttw, err)

		timer := time.NewTimer(ttw)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-b.closeC:
			timer.Stop()
			return nil
		case <-timer.C:
		}

		if err := b.emitter.Emit(EventReconnect, attempts); err != nil {
			return err
		}
	}
}
