package recorder

import (
	"fmt"

	"github.com/prsauer/wow-recorder/internal/engine"
)

// availableAudioInputDevices lists capturable input devices. The
// engine's default-device entry aliases a concrete device that is
// already in the list, so it is dropped.
func availableAudioInputDevices(eng engine.Engine) ([]engine.AudioDevice, error) {
	devices, err := eng.AudioInputDevices()
	if err != nil {
		return nil, fmt.Errorf("enumerate audio input devices: %w", err)
	}
	return dropDefaultDevice(devices), nil
}

func availableAudioOutputDevices(eng engine.Engine) ([]engine.AudioDevice, error) {
	devices, err := eng.AudioOutputDevices()
	if err != nil {
		return nil, fmt.Errorf("enumerate audio output devices: %w", err)
	}
	return dropDefaultDevice(devices), nil
}

func dropDefaultDevice(devices []engine.AudioDevice) []engine.AudioDevice {
	filtered := make([]engine.AudioDevice, 0, len(devices))
	for _, dev := range devices {
		if dev.ID == engine.DefaultDeviceID {
			continue
		}
		filtered = append(filtered, dev)
	}
	return filtered
}
