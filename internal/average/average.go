package average

import "codeberg.org/mutker/airnode/internal/errors"

// ErrNoData indicates a drain on an empty accumulator
const ErrNoData = errors.ErrorCode("average_no_data")

// Accumulator collects readings between reports and produces a rounded mean.
// The caller guarantees the sum fits a uint32 for one reporting interval.
type Accumulator struct {
	sum   uint32
	count uint32
}

// Add accumulates a single reading.
func (a *Accumulator) Add(value uint16) {
	a.sum += uint32(value)
	a.count++
}

// Count returns the number of readings accumulated since the last drain.
func (a *Accumulator) Count() uint32 {
	return a.count
}

// Drain returns the round-half-up mean of all accumulated readings and resets
// the accumulator. Draining an empty accumulator returns ErrNoData and leaves
// the (already empty) state untouched.
func (a *Accumulator) Drain() (uint16, error) {
	if a.count == 0 {
		return 0, errors.New().New(ErrNoData)
	}

	mean := (a.sum + a.count/2) / a.count
	a.sum = 0
	a.count = 0

	return uint16(mean), nil
}

// IsNoData reports whether err is an empty-accumulator drain result
func IsNoData(err error) bool {
	return errors.HasCode(err, ErrNoData)
}
