// Package engine defines the capability contract for the native
// capture/encode engine the recorder drives. The engine owns devices,
// the pixel and audio pipeline, encoding and muxing; the recorder only
// issues commands, pushes settings and consumes lifecycle signals.
package engine

// Size is a pixel size reported by a display or a live source. Both
// dimensions are positive once the source is delivering frames.
type Size struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// Vec2 is a 2D scale factor applied to a scene item.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Display is a physical monitor enumerated by the engine, in the
// engine's own ordering. Index is 0-based.
type Display struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
	Size  Size   `json:"size"`
}

// AudioDevice is an audio endpoint as reported by the engine.
type AudioDevice struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DefaultDeviceID is the sentinel id engines report for the
// system-default endpoint. It is filtered out of device listings
// because it aliases a concrete device that is already listed.
const DefaultDeviceID = "default"

// Source kinds understood by CreateSource.
const (
	KindMonitorCapture = "monitor_capture"
	KindWindowCapture  = "window_capture"
	KindAudioInput     = "audio_input_capture"
	KindAudioOutput    = "audio_output_capture"
)

// Output slot layout. Slot 1 carries the scene and doubles as the mixed
// audio track; per-device audio tracks occupy slots 2 and up.
const (
	MixedTrackSlot = 1
	MaxOutputSlots = 64
)

// SourceInfo describes one public engine source for diagnostic
// listings. It carries no handle and cannot be used for control flow.
type SourceInfo struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Size Size   `json:"size"`
}

// OutputSource is anything that can occupy an output slot: a Scene on
// the mixed slot, a Source on an audio track slot.
type OutputSource interface {
	Name() string
}

// Source is a live engine capture endpoint. Sources hold native
// resources and must be released before being replaced.
type Source interface {
	Name() string
	Kind() string

	// Settings returns the source's current settings map.
	Settings() map[string]interface{}

	// UpdateSettings merges the given values into the source settings.
	UpdateSettings(settings map[string]interface{}) error

	SetMuted(muted bool) error

	// SetAudioMixers routes the source's audio into the tracks whose
	// bits are set (bit 0 = track 1).
	SetAudioMixers(mask uint64) error

	// Size reports the source's current pixel size. Zero in either
	// dimension means the source is not delivering frames yet.
	Size() Size

	Release() error
}

// Scene is a named container composing one video source with a
// placement transform.
type Scene interface {
	Name() string
	Add(src Source) (SceneItem, error)
	Items() []SceneItem
	Release() error
}

// SceneItem is a source placed inside a scene.
type SceneItem interface {
	Source() Source
	Scale() Vec2
	SetScale(scale Vec2) error
}

// Engine init status codes with a known cause. Anything else is
// reported as an unknown code.
const (
	InitSuccess            = 0
	InitMissingGraphicsAPI = -2
	InitDriverFailure      = -5
)

// Engine is the full command surface consumed by the recorder. Start
// and stop commands are fire-and-forget; completion is observed only
// through the signal callback.
type Engine interface {
	// Host attaches to (or spawns) the engine host process under the
	// given identity. Must be called before anything else.
	Host(id string) error
	SetWorkingDirectory(dir string) error

	// Init boots the engine. A non-zero status code means the engine
	// refused to start; see the Init* code constants.
	Init(locale, dataDir, version string) (int, error)

	// Disconnect tears the engine host down. The engine releases any
	// resources still held.
	Disconnect() error

	GetSettings(category string) (*SettingsCollection, error)
	SaveSettings(category string, col *SettingsCollection) error

	CreateSource(kind, name string, settings map[string]interface{}) (Source, error)
	CreateScene(name string) (Scene, error)

	// SetOutputSource binds src to an output slot; nil clears the slot.
	SetOutputSource(slot int, src OutputSource) error
	GetOutputSource(slot int) OutputSource

	VideoDisplays() ([]Display, error)
	AudioInputDevices() ([]AudioDevice, error)
	AudioOutputDevices() ([]AudioDevice, error)

	StartRecording() error
	StopRecording() error

	// RegisterSignalCallback installs fn as the receiver for lifecycle
	// signals. fn is invoked from the engine's own callback thread.
	RegisterSignalCallback(fn func(Signal)) error
	RemoveSignalCallback() error

	// LastRecordingPath reports the file most recently finalized by the
	// engine, empty if none.
	LastRecordingPath() string

	// PublicSources lists the engine's sources with live properties,
	// for diagnostics only.
	PublicSources() []SourceInfo
}
