package simengine

import (
	"time"

	"github.com/prsauer/wow-recorder/internal/engine"
)

// The setters below shape the simulated hardware and failure modes.
// They are safe to call at any point, including mid-session.

// SetDisplays replaces the display list reported by VideoDisplays.
func (e *Engine) SetDisplays(displays []engine.Display) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.displays = append([]engine.Display{}, displays...)
}

// SetAudioInputDevices replaces the input device list.
func (e *Engine) SetAudioInputDevices(devices []engine.AudioDevice) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inputDevices = append([]engine.AudioDevice{}, devices...)
}

// SetAudioOutputDevices replaces the output device list.
func (e *Engine) SetAudioOutputDevices(devices []engine.AudioDevice) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.outputDevices = append([]engine.AudioDevice{}, devices...)
}

// FailInit makes the next Init return the given nonzero result code.
// Pass engine.InitSuccess to restore normal startup.
func (e *Engine) FailInit(code int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.initCode = code
}

// FailDisconnect makes Disconnect return err without tearing anything
// down. Pass nil to restore normal shutdown.
func (e *Engine) FailDisconnect(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disconnectErr = err
}

// SuppressSignal drops the named signal kind instead of emitting it,
// so waits on it run into their timeout.
func (e *Engine) SuppressSignal(kind string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.suppressSignals[kind] = true
}

// ReplaceSignal emits the with kind whenever kind would be emitted.
func (e *Engine) ReplaceSignal(kind, with string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.replaceSignals[kind] = with
}

// SetSignalDelay delays each signal delivery by d.
func (e *Engine) SetSignalDelay(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.signalDelay = d
}

// SetSourceSize changes the frame size a source reports. Used to
// simulate a game window appearing or a display mode change.
func (e *Engine) SetSourceSize(name string, size engine.Size) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if src, ok := e.sources[name]; ok {
		src.size = size
	}
}

// LiveSources counts sources created and not yet released.
func (e *Engine) LiveSources() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.sources)
}

// LiveScenes counts scenes created and not yet released.
func (e *Engine) LiveScenes() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.scenes)
}

// OccupiedSlots counts output slots with a source assigned.
func (e *Engine) OccupiedSlots() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.slots)
}
