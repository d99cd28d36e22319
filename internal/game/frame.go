package game

import "time"

// frameLimiter paces the loop to a fixed rate on top of (or instead of)
// vsync.
type frameLimiter struct {
	interval time.Duration
	next     time.Time
}

// newFrameLimiter returns a limiter for fps frames per second. fps <= 0
// disables limiting.
func newFrameLimiter(fps int) *frameLimiter {
	if fps <= 0 {
		return &frameLimiter{}
	}
	return &frameLimiter{interval: time.Second / time.Duration(fps)}
}

// wait returns how long to sleep after a frame that finished at now. A loop
// that falls more than a frame behind resynchronizes instead of bursting.
func (l *frameLimiter) wait(now time.Time) time.Duration {
	if l.interval == 0 {
		return 0
	}
	if l.next.IsZero() {
		l.next = now
	}
	l.next = l.next.Add(l.interval)

	d := l.next.Sub(now)
	if d < -l.interval {
		l.next = now
		return 0
	}
	return max(d, 0)
}
