package recorder

// Options carries one configuration pass worth of user-facing recording
// settings. Options values are treated as immutable once passed to
// Initialize or Configure.
type Options struct {
	CaptureMode       string `json:"captureMode"`      // "monitor" or "window"
	MonitorIndex      int    `json:"monitorIndex"`     // 1-based, as shown to the user
	OutputResolution  string `json:"outputResolution"` // "WxH"
	FrameRate         int    `json:"frameRate"`
	BitrateKbps       int    `json:"bitrateKbps"`
	Encoder           string `json:"encoder"` // encoder id or "auto"
	StorageDir        string `json:"storageDir"`
	AudioInputDevice  string `json:"audioInputDevice"`  // "all", "none", or device id
	AudioOutputDevice string `json:"audioOutputDevice"` // same domain
}

// Capture modes accepted in Options.CaptureMode.
const (
	CaptureModeMonitor = "monitor"
	CaptureModeWindow  = "window"
)

// AutoEncoder selects the last encoder the engine enumerates.
const AutoEncoder = "auto"

// EngineParams holds the deployment-level parameters the engine boots
// with. Fixed for the lifetime of a Session.
type EngineParams struct {
	WorkingDir string
	DataDir    string
	Locale     string
	Version    string
}
