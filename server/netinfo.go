package server

import (
	"net"
)

// FallbackIP is shown when no LAN address can be found.
const FallbackIP = "YOUR_IP"

// LocalIP returns the first non-loopback IPv4 address of an interface that
// is up, or FallbackIP.
func LocalIP() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return FallbackIP
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if ip4 := ipnet.IP.To4(); ip4 != nil && !ip4.IsLoopback() && !ip4.IsLinkLocalUnicast() {
				return ip4.String()
			}
		}
	}
	return FallbackIP
}
