package main

import (
	"context"
	"errors"
	"time"

	"gregoryjjb/ringd/circularlist"
)

// RunRotator rotates every auto-rotating ring once per period until ctx
// is cancelled. Empty rings are skipped.
func RunRotator(ctx context.Context, rings *RingSet, every time.Duration) {
	if every <= 0 {
		rlog.Info().Msg("Auto-rotation disabled")
		return
	}

	rlog.Info().Str("period", every.String()).Msg("Running rotator loop")

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			rlog.Info().Msg("Stopping rotator")
			return
		case <-ticker.C:
			rotateAll(rings)
		}
	}
}

func rotateAll(rings *RingSet) {
	rings.each(func(r *Ring) {
		if !r.AutoRotate() {
			return
		}

		front, err := r.Rotate()
		switch {
		case errors.Is(err, circularlist.ErrEmptyContainer):
			// Nothing to rotate yet
		case err != nil:
			rlog.Err(err).Str("ring", r.Name()).Msg("Auto-rotation failed")
		default:
			rlog.Debug().Str("ring", r.Name()).Str("front", front).Msg("Auto-rotated")
		}
	})
}
