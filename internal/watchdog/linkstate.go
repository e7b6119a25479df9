package watchdog

import (
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"codeberg.org/mutker/airnode/internal/logger"
)

// LinkState reads a network interface's association state from sysfs.
type LinkState struct {
	iface string
}

// NewLinkState watches the named interface (e.g. "wlan0").
func NewLinkState(iface string) *LinkState {
	return &LinkState{iface: iface}
}

// IsAssociated reports whether the interface's operational state is up.
func (l *LinkState) IsAssociated() bool {
	path := filepath.Join("/sys/class/net", l.iface, "operstate")

	state, err := os.ReadFile(path)
	if err != nil {
		logger.Debug().Err(err).Str("iface", l.iface).Msg("Failed to read interface state")
		return false
	}

	return strings.TrimSpace(string(state)) == "up"
}

// SystemRestarter reboots the host. Requires the process to run as root.
type SystemRestarter struct{}

// Restart syncs filesystems and issues a reboot syscall. On success it does
// not return.
func (SystemRestarter) Restart() error {
	syscall.Sync()
	return syscall.Reboot(syscall.LINUX_REBOOT_CMD_RESTART)
}
