package export

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/host"
)

// HostMeta identifies the machine an inventory was collected on.
type HostMeta struct {
	Hostname string
	Platform string
}

// CollectHostMeta reads host identity, degrading to os.Hostname and the
// compile-time platform when the host probe fails.
func CollectHostMeta() HostMeta {
	meta := HostMeta{Platform: runtime.GOOS}

	if info, err := host.Info(); err == nil {
		meta.Hostname = info.Hostname
		if info.OS != "" {
			meta.Platform = info.OS
		}
		return meta
	}

	if hostname, err := os.Hostname(); err == nil {
		meta.Hostname = hostname
	}
	return meta
}
