package world

import "time"

type ClockConfig struct {
	TickLength time.Duration
}

// Clock turns host frame time into whole simulation ticks and carries the
// fractional remainder into the next call.
type Clock struct {
	cfg   ClockConfig
	carry time.Duration
}

func NewClock(cfg ClockConfig) *Clock {
	if cfg.TickLength <= 0 {
		cfg.TickLength = time.Second
	}
	return &Clock{cfg: cfg}
}

func DefaultClock() *Clock {
	return NewClock(ClockConfig{})
}

func (c *Clock) TickLength() time.Duration { return c.cfg.TickLength }

func (c *Clock) Carry() time.Duration { return c.carry }

// Advance adds dt and returns how many tick boundaries were crossed.
func (c *Clock) Advance(dt time.Duration) int {
	if dt <= 0 {
		return 0
	}
	c.carry += dt
	ticks := int(c.carry / c.cfg.TickLength)
	c.carry -= time.Duration(ticks) * c.cfg.TickLength
	return ticks
}
