package session

import (
	"sync"
	"time"
)

// TickFunc receives the remaining whole seconds once per tick
type TickFunc func(remaining int)

// ExpireFunc is called exactly once per distinct deadline when it passes
type ExpireFunc func(deadline time.Time)

// Countdown drives a per-deadline timer independent of any presentation
// layer. While a deadline is armed it ticks once per interval, publishing
// the remaining seconds, and fires the expiry callback at most once per
// distinct deadline value even if ticks continue past expiry. Arming a
// new deadline invalidates the previous tick loop before the new one can
// fire; a stale loop can never publish against a newer deadline.
type Countdown struct {
	interval time.Duration
	onTick   TickFunc
	onExpire ExpireFunc

	mu       sync.Mutex
	gen      uint64
	firedFor int64 // UnixNano of the deadline that already fired
	stop     chan struct{}
}

// NewCountdown creates an idle countdown. interval is the tick period;
// production callers use time.Second.
func NewCountdown(interval time.Duration, onTick TickFunc, onExpire ExpireFunc) *Countdown {
	return &Countdown{
		interval: interval,
		onTick:   onTick,
		onExpire: onExpire,
	}
}

// SetDeadline replaces the governing deadline. Passing nil stops the
// countdown. The previous tick loop is invalidated before this call
// returns: its generation no longer matches, so it can neither tick nor
// fire again. Safe to call from the expiry callback itself.
func (c *Countdown) SetDeadline(deadline *time.Time) {
	c.mu.Lock()
	c.gen++
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	if deadline == nil {
		c.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	c.stop = stop
	gen := c.gen
	d := *deadline
	c.mu.Unlock()

	go c.run(gen, d, stop)
}

// Stop cancels any armed deadline and its tick loop
func (c *Countdown) Stop() {
	c.SetDeadline(nil)
}

func (c *Countdown) run(gen uint64, deadline time.Time, stop <-chan struct{}) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		// first tick is immediate so an already-passed deadline fires
		// without waiting a full interval
		if !c.tick(gen, deadline) {
			return
		}
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

// tick publishes the remaining time and claims the expiry fire if due.
// Returns false when this loop's generation has been superseded.
func (c *Countdown) tick(gen uint64, deadline time.Time) bool {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return false
	}
	remaining := remainingSeconds(deadline, time.Now())
	fire := remaining == 0 && c.firedFor != deadline.UnixNano()
	if fire {
		c.firedFor = deadline.UnixNano()
	}
	c.mu.Unlock()

	if c.onTick != nil {
		c.onTick(remaining)
	}
	if fire && c.onExpire != nil {
		c.onExpire(deadline)
	}
	return true
}
