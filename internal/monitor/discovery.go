package monitor

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/prsauer/wow-recorder/internal/config"
	"github.com/prsauer/wow-recorder/internal/logging"
)

// brokerURI normalizes a configured broker address into the form the
// MQTT client expects: scheme and port are filled in when missing.
func brokerURI(broker string) string {
	if strings.Contains(broker, "://") {
		return broker
	}
	if !strings.Contains(broker, ":") {
		broker += ":1883"
	}
	return "tcp://" + broker
}

// hostPort strips the scheme off a broker address and fills in the
// default MQTT port, for reachability probes.
func hostPort(broker string) string {
	if idx := strings.Index(broker, "://"); idx >= 0 {
		broker = broker[idx+3:]
	}
	if !strings.Contains(broker, ":") {
		broker += ":1883"
	}
	return broker
}

// IsPortOpen tests if a port is open by attempting to connect
func IsPortOpen(address string) bool {
	timeout := 100 * time.Millisecond
	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return false
	}
	defer conn.Close()
	return true
}

// DiscoverBroker scans the local /24 network for an MQTT broker on
// port 1883 and returns the address of the first one found.
func DiscoverBroker() (string, error) {
	ip, mask, err := localIPAndMask()
	if err != nil {
		return "", fmt.Errorf("failed to get local IP: %v", err)
	}

	ones, bits := mask.Size()
	if bits-ones != 8 {
		return "", fmt.Errorf("not scanning, network mask must be /24 (255.255.255.0), got /%d", ones)
	}

	parts := strings.Split(ip, ".")
	if len(parts) != 4 {
		return "", fmt.Errorf("invalid IP format: %s", ip)
	}
	subnet := fmt.Sprintf("%s.%s.%s", parts[0], parts[1], parts[2])

	for i := 1; i < 255; i++ {
		target := fmt.Sprintf("%s.%d:1883", subnet, i)
		if IsPortOpen(target) {
			return target, nil
		}
	}

	return "", fmt.Errorf("no MQTT broker found in subnet %s", subnet)
}

// localIP returns the first non-loopback IPv4 address of this host.
func localIP() (string, error) {
	ip, _, err := localIPAndMask()
	return ip, err
}

func localIPAndMask() (string, net.IPMask, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", nil, err
	}
	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok || ipnet.IP.IsLoopback() {
				continue
			}
			if ip4 := ipnet.IP.To4(); ip4 != nil && !ip4.IsLinkLocalUnicast() {
				return ip4.String(), ipnet.Mask, nil
			}
		}
	}
	return "", nil, fmt.Errorf("no suitable local IP address found")
}

// EnsureBroker verifies the configured broker is reachable, falling
// back to a network scan when it is not. Returns the usable broker
// address and updates the config in place.
func EnsureBroker(cfg *config.Config) (string, error) {
	broker := cfg.MQTT.Broker
	if broker != "" && IsPortOpen(hostPort(broker)) {
		logging.InfoLogger.Printf("MQTT broker is reachable at %s", hostPort(broker))
		return broker, nil
	}

	logging.InfoLogger.Printf("MQTT broker not reachable at %q, scanning for brokers...", broker)
	found, err := DiscoverBroker()
	if err != nil {
		return "", err
	}
	logging.InfoLogger.Printf("Broker found: %s", found)
	cfg.MQTT.Broker = found
	return found, nil
}
