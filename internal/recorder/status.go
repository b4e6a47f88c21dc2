package recorder

import (
	"encoding/json"

	"github.com/prsauer/wow-recorder/internal/status"
	"github.com/prsauer/wow-recorder/internal/websocket"
)

// SendStatus sends a status update with code and message
func SendStatus(code string, text string) {
	msg := status.Message{
		Code: code,
		Text: text,
	}

	// Send to web clients
	if data, err := json.Marshal(msg); err == nil {
		websocket.SendMessage(string(data))

		// Refresh the recordings page once the file is on disk
		if code == status.Wrote {
			websocket.SendMessage("reload")
		}
	}

	// Send to in-process consumers
	select {
	case status.StatusChan <- msg:
	default:
		// Channel is full, skip this update
	}
}
