package robot

import (
	"context"
	"errors"
	"fmt"
)

// Run starts the robot's adapters and pumps the bus until ctx is canceled or
// an adapter fails. Inbound messages are dispatched one pass at a time in
// bus order, so no two listeners ever run concurrently for the same robot;
// outbound envelopes are routed to the adapter named by their channel.
func (r *Robot) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	errCh := make(chan error, len(r.adapters))
	for _, adapter := range r.adapters {
		adapter := adapter
		go func() {
			err := adapter.Run(ctx, r.Enqueue)
			if err != nil && !errors.Is(err, context.Canceled) {
				errCh <- fmt.Errorf("run %s channel: %w", adapter.Name(), err)
			}
		}()
	}

	go r.pumpOutbound(ctx)

	go func() {
		for {
			msg, ok := r.bus.ConsumeInbound(ctx)
			if !ok {
				return
			}
			if err := r.Receive(ctx, msg); err != nil {
				r.log.Error("Dispatch failed", "error", err)
			}
		}
	}()

	r.log.Info("Robot started", "name", r.name, "alias", r.alias, "adapters", len(r.adapters))

	select {
	case <-ctx.Done():
		r.bus.Close()
		return nil
	case err := <-errCh:
		r.bus.Close()
		return err
	}
}

func (r *Robot) pumpOutbound(ctx context.Context) {
	for {
		env, ok := r.bus.ConsumeOutbound(ctx)
		if !ok {
			return
		}

		adapter, ok := r.adapters[env.Channel]
		if !ok {
			r.log.Warn("Dropping outbound for unknown channel", "channel", env.Channel)
			continue
		}

		if err := adapter.Send(ctx, env); err != nil {
			r.log.Error("Outbound delivery failed", "channel", env.Channel, "error", err)
		}
	}
}
