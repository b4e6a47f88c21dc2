package recorder

import (
	"testing"

	"github.com/prsauer/wow-recorder/internal/engine"
	"github.com/prsauer/wow-recorder/internal/simengine"
)

// newInitializedEngine boots a simulated engine ready for source and
// device calls.
func newInitializedEngine(t *testing.T) *simengine.Engine {
	t.Helper()
	eng := simengine.New()
	if err := eng.Host("test-host"); err != nil {
		t.Fatalf("Host: %v", err)
	}
	code, err := eng.Init("en-US", t.TempDir(), "test")
	if err != nil || code != engine.InitSuccess {
		t.Fatalf("Init: code=%d err=%v", code, err)
	}
	return eng
}

// TestAvailableDevicesDropDefaultAlias verifies the engine's
// default-device entries are filtered from both lists.
func TestAvailableDevicesDropDefaultAlias(t *testing.T) {
	eng := newInitializedEngine(t)

	inputs, err := availableAudioInputDevices(eng)
	if err != nil {
		t.Fatalf("availableAudioInputDevices: %v", err)
	}
	if len(inputs) != 1 || inputs[0].ID != "mic-1" {
		t.Errorf("expected only mic-1, got %v", inputs)
	}

	outputs, err := availableAudioOutputDevices(eng)
	if err != nil {
		t.Fatalf("availableAudioOutputDevices: %v", err)
	}
	if len(outputs) != 1 || outputs[0].ID != "speakers-1" {
		t.Errorf("expected only speakers-1, got %v", outputs)
	}
}

// TestDropDefaultDevice verifies filtering keeps order and drops every
// default alias.
func TestDropDefaultDevice(t *testing.T) {
	devices := []engine.AudioDevice{
		{ID: engine.DefaultDeviceID, Name: "Default"},
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B"},
	}
	filtered := dropDefaultDevice(devices)
	if len(filtered) != 2 || filtered[0].ID != "a" || filtered[1].ID != "b" {
		t.Errorf("unexpected filtering result: %v", filtered)
	}

	onlyDefault := []engine.AudioDevice{{ID: engine.DefaultDeviceID, Name: "Default"}}
	if got := dropDefaultDevice(onlyDefault); len(got) != 0 {
		t.Errorf("expected empty list, got %v", got)
	}
}
