package util

import (
	"net"
)

// LocalIPv4 returns the first non-loopback IPv4 address of the host, used to
// advertise upload URLs on the local network when no public URL is configured.
// Falls back to 127.0.0.1 when detection fails.
func LocalIPv4() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "127.0.0.1"
	}

	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}

		if ip4 := ipNet.IP.To4(); ip4 != nil {
			return ip4.String()
		}
	}

	return "127.0.0.1"
}
