package identity

import (
	"net"
	"os"
	"strings"
	"sync"

	"codeberg.org/mutker/airnode/internal/logger"
	"github.com/google/uuid"
)

const machineIDPath = "/etc/machine-id"

var (
	once     sync.Once
	deviceID string
)

// DeviceID derives a stable identifier for the node, fixed for the process
// lifetime. It prefers the host machine id, then the first non-loopback MAC
// address, and as a last resort generates a random identity (which changes
// across restarts).
func DeviceID() string {
	once.Do(func() {
		deviceID = derive()
	})

	return deviceID
}

func derive() string {
	if id := fromMachineID(); id != "" {
		return id
	}

	if id := fromMAC(); id != "" {
		return id
	}

	id := "airnode-" + uuid.NewString()[:8]
	logger.Warn().Str("device_id", id).Msg("No stable hardware identifier, generated a random one")

	return id
}

func fromMachineID() string {
	raw, err := os.ReadFile(machineIDPath)
	if err != nil {
		return ""
	}

	id := strings.TrimSpace(string(raw))
	if len(id) < 12 {
		return ""
	}

	return "airnode-" + id[len(id)-12:]
}

func fromMAC() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return ""
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 || len(iface.HardwareAddr) == 0 {
			continue
		}
		return "airnode-" + strings.ReplaceAll(iface.HardwareAddr.String(), ":", "")
	}

	return ""
}
