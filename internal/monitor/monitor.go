// Package monitor connects the recorder to an MQTT broker so game
// addons and automation can trigger recordings remotely.
package monitor

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/prsauer/wow-recorder/internal/config"
	"github.com/prsauer/wow-recorder/internal/logging"
	"github.com/prsauer/wow-recorder/internal/recorder"
	"github.com/prsauer/wow-recorder/internal/status"
)

// Controller is the slice of the recording session the monitor drives.
type Controller interface {
	Start() error
	Stop() error
	State() recorder.State
}

// StateMessage is published on the status topic after every handled
// command.
type StateMessage struct {
	State recorder.State `json:"state"`
	Error string         `json:"error,omitempty"`
}

var mqttClient mqtt.Client

// Monitor connects to the configured broker and serves start/stop
// commands until the connection drops. An empty broker address
// disables the monitor.
func Monitor(cfg *config.Config, ctrl Controller) {
	if cfg.MQTT.Broker == "" {
		logging.InfoLogger.Println("No MQTT broker configured, remote triggers disabled")
		return
	}

	prefix := cfg.MQTT.TopicPrefix
	broker := brokerURI(cfg.MQTT.Broker)
	opts := mqtt.NewClientOptions().AddBroker(broker)

	// Get machine's IP address for unique client ID
	ip, err := localIP()
	if err != nil {
		logging.ErrorLogger.Printf("Failed to get local IP address: %v", err)
		return
	}
	opts.SetClientID(fmt.Sprintf("recorder-monitor-%s", ip))
	opts.SetDefaultPublishHandler(messageHandler(prefix, ctrl))
	opts.SetResumeSubs(true) // Ensure subscriptions are resumed on reconnect

	mqttClient = mqtt.NewClient(opts)
	if token := mqttClient.Connect(); token.Wait() && token.Error() != nil {
		logging.ErrorLogger.Printf("Failed to connect to MQTT broker: %v", token.Error())
		return
	}

	// Wait for connection to be established
	attempts := 0
	maxAttempts := 5
	for !mqttClient.IsConnected() && attempts < maxAttempts {
		time.Sleep(100 * time.Millisecond)
		attempts++
	}
	if !mqttClient.IsConnected() {
		logging.ErrorLogger.Printf("Failed to establish MQTT connection after %d attempts", maxAttempts)
		return
	}

	for _, action := range []string{"start", "stop"} {
		topic := prefix + "/" + action
		logging.InfoLogger.Printf("Subscribing to topic %s", topic)
		if token := mqttClient.Subscribe(topic, 0, nil); token.Wait() && token.Error() != nil {
			logging.ErrorLogger.Printf("Failed to subscribe to topic %s: %v", topic, token.Error())
			mqttClient.Disconnect(250)
			return
		}
	}

	logging.InfoLogger.Printf("MQTT monitor connected to %s", broker)
	publishState(prefix, ctrl.State(), nil)
}

// StopMonitor publishes a final state and disconnects from the broker.
func StopMonitor(cfg *config.Config, ctrl Controller) {
	if mqttClient != nil && mqttClient.IsConnected() {
		publishState(cfg.MQTT.TopicPrefix, ctrl.State(), nil)
		mqttClient.Disconnect(250)
		logging.InfoLogger.Println("MQTT monitor disconnected")
	}
}

func messageHandler(prefix string, ctrl Controller) mqtt.MessageHandler {
	return func(client mqtt.Client, msg mqtt.Message) {
		action := strings.TrimPrefix(msg.Topic(), prefix+"/")
		handleCommand(prefix, ctrl, action, string(msg.Payload()))
	}
}

// startLabel extracts the optional label a start payload may carry,
// e.g. {"label": "Mythic+ Ara-Kara"}. Anything unparseable is treated
// as no label.
func startLabel(payload string) string {
	if payload == "" {
		return ""
	}
	var msg struct {
		Label string `json:"label"`
	}
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return ""
	}
	return msg.Label
}

// handleCommand executes one remote command and publishes the
// resulting state.
func handleCommand(prefix string, ctrl Controller, action, payload string) {
	logging.InfoLogger.Printf("Handling %s command: %s", action, payload)

	var err error
	switch action {
	case "start":
		err = ctrl.Start()
		if err == nil {
			if label := startLabel(payload); label != "" {
				recorder.SendStatus(status.Recording, fmt.Sprintf("Recording: %s", label))
			}
		}
	case "stop":
		err = ctrl.Stop()
	default:
		logging.WarningLogger.Printf("Ignoring unknown command topic %s/%s", prefix, action)
		return
	}

	if err != nil {
		logging.ErrorLogger.Printf("Remote %s failed: %v", action, err)
	}
	publishState(prefix, ctrl.State(), err)
}

func publishState(prefix string, state recorder.State, cmdErr error) {
	if mqttClient == nil || !mqttClient.IsConnected() {
		return
	}
	msg := StateMessage{State: state}
	if cmdErr != nil {
		msg.Error = cmdErr.Error()
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	topic := prefix + "/status"
	if token := mqttClient.Publish(topic, 0, false, payload); token.Wait() && token.Error() != nil {
		logging.ErrorLogger.Printf("Failed to publish state to %s: %v", topic, token.Error())
	}
}
