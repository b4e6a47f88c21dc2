package main

import (
	"fmt"
	"path/filepath"

	"github.com/prsauer/wow-recorder/internal/config"
	"github.com/prsauer/wow-recorder/internal/logging"
	"github.com/prsauer/wow-recorder/internal/monitor"
)

// Standalone diagnostic: verifies the configured MQTT broker is
// reachable, scanning the local network for one when it is not.
func main() {
	logDir := filepath.Join(config.GetInstallDir(), "logs")
	if err := logging.InitWithFile(logDir, "discovery.log"); err != nil {
		fmt.Printf("Failed to initialize logging: %v\n", err)
		return
	}
	defer logging.Close()

	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	broker, err := monitor.EnsureBroker(cfg)
	if err != nil {
		fmt.Printf("No MQTT broker found: %v\n", err)
		return
	}
	fmt.Printf("MQTT broker reachable at %s\n", broker)
}
