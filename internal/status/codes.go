package status

const (
	Offline     = "OFF"   // Engine not initialized
	Ready       = "READY" // Configured, armed for recording
	Recording   = "REC"   // Recording in progress
	Stopping    = "STOP"  // Stop sequence in flight
	Wrote       = "WROTE" // Recording finalized on disk
	EngineError = "ERR"   // Engine protocol violation, session unreliable
)

// Message wraps a status code and message text
type Message struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

// StatusChan carries status updates to in-process consumers. Sends are
// non-blocking; a full channel drops the update.
var StatusChan = make(chan Message, 10)
