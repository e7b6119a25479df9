package watchdog

import (
	"codeberg.org/mutker/airnode/internal/errors"
	"codeberg.org/mutker/airnode/internal/logger"
)

// ErrNetworkLost is the fatal result of a failed association check. The
// entry point decides what a "full device restart" means for the process.
const ErrNetworkLost = errors.ErrorCode("watchdog_network_lost")

// Network reports whether the node still holds its network association.
type Network interface {
	IsAssociated() bool
}

// Restarter performs the full device restart the watchdog demands.
type Restarter interface {
	Restart() error
}

// Monitor is the connectivity watchdog. A lost association is treated as
// unrecoverable: no in-place resume, no state beyond what the calibration
// store already committed.
type Monitor struct {
	network    Network
	errFactory errors.Factory
}

// NewMonitor creates a watchdog over the given network association source.
func NewMonitor(network Network) *Monitor {
	return &Monitor{
		network:    network,
		errFactory: errors.New(),
	}
}

// Check returns ErrNetworkLost when the association is gone, nil otherwise.
func (m *Monitor) Check() error {
	if m.network.IsAssociated() {
		return nil
	}

	logger.Error().Msg("Network association lost, forcing restart")

	return m.errFactory.New(ErrNetworkLost)
}

// IsNetworkLost reports whether err is the watchdog's fatal result
func IsNetworkLost(err error) bool {
	return errors.HasCode(err, ErrNetworkLost)
}
