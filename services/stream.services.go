package services

import (
	"context"

	"robosnap_server/errors"
	"robosnap_server/store"
)

// streamSnapshots delivers load's result once, then again every time topic changes.
// Each delivery is the full collection. The channel closes when ctx ends; a
// stream cannot be restarted.
func streamSnapshots[T any](ctx context.Context, broker store.Broker, topic string, load func(context.Context) (T, error)) (<-chan T, error) {

	sub, err := broker.Subscribe(ctx, topic)
	if err != nil {
		return nil, errors.Transport("subscribe "+topic, err)
	}

	first, err := load(ctx)
	if err != nil {
		sub.Close()
		return nil, err
	}

	out := make(chan T)

	go func() {
		defer close(out)
		defer sub.Close()

		snapshot := first
		for {
			select {
			case out <- snapshot:
			case <-ctx.Done():
				return
			}

			select {
			case <-sub.C():
			case <-ctx.Done():
				return
			}

			next, err := load(ctx)
			for err != nil {
				if ctx.Err() != nil {
					return
				}
				errors.HandleComplexError("snapshot "+topic, err.Error())
				select {
				case <-sub.C():
				case <-ctx.Done():
					return
				}
				next, err = load(ctx)
			}
			snapshot = next
		}
	}()

	return out, nil
}
