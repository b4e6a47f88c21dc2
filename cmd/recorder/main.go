package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prsauer/wow-recorder/internal/config"
	"github.com/prsauer/wow-recorder/internal/httpServer"
	"github.com/prsauer/wow-recorder/internal/logging"
	"github.com/prsauer/wow-recorder/internal/monitor"
	"github.com/prsauer/wow-recorder/internal/recorder"
	"github.com/prsauer/wow-recorder/internal/simengine"
)

var (
	verbose    bool
	configFile string
	port       int
	storageDir string
	broker     string
)

func main() {
	// Parse command-line flags
	flag.BoolVar(&verbose, "v", false, "enable verbose logging")
	flag.BoolVar(&verbose, "verbose", false, "enable verbose logging")
	flag.StringVar(&configFile, "config", "", "path to the config file")
	flag.IntVar(&port, "port", 0, "override the HTTP port from the config file")
	flag.StringVar(&storageDir, "dir", "", "override the recordings directory from the config file")
	flag.StringVar(&broker, "broker", "", "override the MQTT broker from the config file")
	flag.Parse()

	// Initialize loggers
	logDir := filepath.Join(config.GetInstallDir(), "logs")
	if err := logging.Init(logDir); err != nil {
		fmt.Printf("Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Close()
	logging.SetVerbose(verbose)

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		logging.ErrorLogger.Fatalf("Error loading config: %v", err)
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	if storageDir != "" {
		cfg.Recording.StorageDir = storageDir
	}
	if broker != "" {
		cfg.MQTT.Broker = broker
	}
	if err := cfg.Validate(); err != nil {
		logging.ErrorLogger.Fatalf("Invalid config: %v", err)
	}

	session := recorder.NewSession(simengine.New(), recorder.EngineParams{
		WorkingDir: cfg.Engine.WorkingDir,
		DataDir:    cfg.Engine.DataDir,
		Locale:     cfg.Engine.Locale,
		Version:    config.GetProgramVersion(),
	})
	session.MaxStorageBytes = cfg.MaxStorageBytes()

	if err := session.Initialize(recordingOptions(cfg)); err != nil {
		var initErr *recorder.EngineInitError
		if errors.As(err, &initErr) {
			logging.ErrorLogger.Fatalf("%v", initErr)
		}
		logging.ErrorLogger.Fatalf("Failed to initialize recorder: %v", err)
	}

	// Start HTTP server
	go httpServer.StartServer(cfg.Server.Port, session)

	// Discover or verify MQTT broker, then serve remote triggers
	if cfg.MQTT.Broker != "" {
		go func() {
			if _, err := monitor.EnsureBroker(cfg); err != nil {
				logging.ErrorLogger.Printf("MQTT broker discovery failed: %v", err)
				return
			}
			monitor.Monitor(cfg, session)
		}()
	}

	// Wait for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	logging.InfoLogger.Println("Interrupt signal received. Shutting down...")

	// Finish an in-flight recording so the file is not lost.
	if session.State() == recorder.StateRecording {
		if err := session.Stop(); err != nil {
			logging.ErrorLogger.Printf("Failed to stop active recording: %v", err)
		}
	}

	monitor.StopMonitor(cfg, session)
	httpServer.StopServer()
	if _, err := session.Shutdown(); err != nil {
		logging.ErrorLogger.Printf("%v", err)
		logging.Close()
		os.Exit(1)
	}
}

// recordingOptions maps the config file's recording table onto session
// options.
func recordingOptions(cfg *config.Config) recorder.Options {
	return recorder.Options{
		CaptureMode:       cfg.Recording.CaptureMode,
		MonitorIndex:      cfg.Recording.MonitorIndex,
		OutputResolution:  cfg.Recording.OutputResolution,
		FrameRate:         cfg.Recording.FrameRate,
		BitrateKbps:       cfg.Recording.BitrateKbps,
		Encoder:           cfg.Recording.Encoder,
		StorageDir:        cfg.Recording.StorageDir,
		AudioInputDevice:  cfg.Recording.AudioInputDevice,
		AudioOutputDevice: cfg.Recording.AudioOutputDevice,
	}
}
