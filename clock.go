package domo

import "time"

// Clock measures frame deltas on the monotonic clock.
type Clock struct {
	now     func() time.Time
	start   time.Time
	last    time.Time
	ticking bool
}

// NewClock creates a clock whose elapsed time starts now.
func NewClock() *Clock {
	return newClock(time.Now)
}

func newClock(now func() time.Time) *Clock {
	return &Clock{now: now, start: now()}
}

// Tick returns the seconds since the previous Tick. The first call returns
// -1 since there is no previous frame; callers skip the update then.
func (c *Clock) Tick() float64 {
	t := c.now()
	if !c.ticking {
		c.ticking = true
		c.last = t
		return -1
	}
	dt := t.Sub(c.last).Seconds()
	c.last = t
	return dt
}

// Elapsed returns the seconds since the clock was created.
func (c *Clock) Elapsed() float64 {
	return c.now().Sub(c.start).Seconds()
}
