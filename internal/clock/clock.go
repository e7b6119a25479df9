package clock

import "time"

// Ticks is a millisecond counter that wraps around roughly every 49.7 days.
// All period arithmetic must go through Since or Due so that wraparound
// cannot cause a missed or doubled firing.
type Ticks uint32

// Clock exposes elapsed time since boot in milliseconds.
type Clock interface {
	Now() Ticks
}

// Since returns the number of milliseconds elapsed between last and now.
// Unsigned subtraction keeps the result correct when now has wrapped past last.
func Since(now, last Ticks) uint32 {
	return uint32(now - last)
}

// Due reports whether more than period milliseconds have elapsed since last.
func Due(now, last Ticks, period uint32) bool {
	return Since(now, last) > period
}

type monotonic struct {
	start time.Time
}

// NewMonotonic returns a Clock backed by the process monotonic clock.
func NewMonotonic() Clock {
	return &monotonic{start: time.Now()}
}

func (m *monotonic) Now() Ticks {
	return Ticks(time.Since(m.start).Milliseconds())
}
