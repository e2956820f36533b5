package simulation

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

type Elapser interface {
	Elapse(ctx context.Context, dt time.Duration) (int, error)
}

// Loop feeds wall-clock time into the city at a fixed interval until its
// context is cancelled.
type Loop struct {
	Sim      Elapser
	Interval time.Duration
	Now      func() time.Time
}

func (l Loop) Run(ctx context.Context) error {
	interval := l.Interval
	if interval <= 0 {
		interval = time.Second
	}
	now := l.Now
	if now == nil {
		now = time.Now
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	hlog.CtxInfof(ctx, "simulation loop started interval=%s", interval)
	last := now()
	for {
		select {
		case <-ctx.Done():
			hlog.CtxInfof(ctx, "simulation loop stopped: %v", ctx.Err())
			return nil
		case <-ticker.C:
			at := now()
			dt := at.Sub(last)
			last = at
			if _, err := l.Sim.Elapse(ctx, dt); err != nil {
				hlog.CtxErrorf(ctx, "simulation elapse failed: %v", err)
			}
		}
	}
}
