package websocket

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/prsauer/wow-recorder/internal/logging"
)

var (
	mu       sync.Mutex
	clients  = make(map[*websocket.Conn]bool)
	Upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
)

// Register adds a connection to the broadcast set.
func Register(conn *websocket.Conn) {
	mu.Lock()
	clients[conn] = true
	mu.Unlock()
}

// Unregister removes and closes a connection.
func Unregister(conn *websocket.Conn) {
	mu.Lock()
	if clients[conn] {
		delete(clients, conn)
		conn.Close()
	}
	mu.Unlock()
}

// SendMessage sends a message to all connected WebSocket clients
func SendMessage(message string) {
	mu.Lock()
	defer mu.Unlock()
	for client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, []byte(message)); err != nil {
			logging.ErrorLogger.Printf("Error sending message: %v", err)
			client.Close()
			delete(clients, client)
		}
	}
}

// ClientCount reports how many clients are connected.
func ClientCount() int {
	mu.Lock()
	defer mu.Unlock()
	return len(clients)
}
