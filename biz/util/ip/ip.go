package ip

import (
	"encoding/hex"
	"net"
	"runtime"
)

// IPv4Hex returns the first non-loopback IPv4 address of the host as an
// 8-char hex string, used as the host part of generated request ids.
func IPv4Hex() string {
	if runtime.GOOS == "windows" {
		return "00000000"
	}
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return ""
	}

	for _, addr := range addrs {
		if ip, ok := addr.(*net.IPNet); ok && !ip.IP.IsLoopback() {
			if ipv4 := ip.IP.To4(); ipv4 != nil {
				return hex.EncodeToString(ipv4)
			}
		}
	}

	return ""
}
