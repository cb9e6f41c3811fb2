package channel_utils

import "context"

// ForwardInOrder drains each channel until it is closed before moving on to
// the next one, so values reach forward in channel order no matter which
// producer finishes first. It stops early when ctx is done or forward
// returns false; nothing is forwarded once ctx is done, even values that were
// already buffered.
func ForwardInOrder[T any](ctx context.Context, forward func(T) bool, channels ...<-chan T) error {
	for _, c := range channels {
		for {
			var (
				val T
				ok  bool
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case val, ok = <-c:
			}
			if !ok {
				break
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if !forward(val) {
				return context.Canceled
			}
		}
	}
	return nil
}
