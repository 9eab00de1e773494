package system

import (
	"fmt"
	"net"
	"strings"
)

// DashboardURL returns the address other devices on the network can open
// for a server listening on listenAddr. An explicit host in listenAddr is
// used as is; otherwise the first up, non-loopback IPv4 interface address
// is picked. ip is empty when no such address exists.
func DashboardURL(listenAddr string) (ip, url string, err error) {
	host, port, err := net.SplitHostPort(listenAddr)
	if err != nil {
		return "", "", fmt.Errorf("invalid listen address %q: %w", listenAddr, err)
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host, err = firstIPv4()
		if err != nil {
			return "", "", err
		}
		if host == "" {
			return "", "", nil
		}
	}
	return host, formatURL(host, port), nil
}

func formatURL(host, port string) string {
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port == "80" {
		return "http://" + host + "/"
	}
	return "http://" + host + ":" + port + "/"
}

func firstIPv4() (string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", fmt.Errorf("list interfaces: %w", err)
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
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if ip4 := ipNet.IP.To4(); ip4 != nil && !ip4.IsLinkLocalUnicast() {
				return ip4.String(), nil
			}
		}
	}
	return "", nil
}
