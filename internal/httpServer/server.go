// Package httpServer exposes the recorder over HTTP: a JSON control
// API, a browser dashboard for the recordings library, and a WebSocket
// stream of status updates.
package httpServer

import (
	"context"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/prsauer/wow-recorder/internal/logging"
	"github.com/prsauer/wow-recorder/internal/recorder"
	"github.com/prsauer/wow-recorder/internal/status"
	"github.com/prsauer/wow-recorder/internal/websocket"
)

var (
	Server    *http.Server
	templates *template.Template
	session   *recorder.Session

	lastMu     sync.Mutex
	lastStatus status.Message
)

func init() {
	// Load templates from embedded filesystem
	var err error
	templates, err = template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		panic(err)
	}
}

// NewRouter builds the route table over the given session.
func NewRouter(s *recorder.Session) *mux.Router {
	session = s
	router := mux.NewRouter()

	// Serve static files from embedded filesystem
	fileServer := http.FileServer(getFileSystem())
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", fileServer))

	// Serve recording files from the live storage directory; the
	// directory can move on reconfigure, so it is resolved per request.
	router.PathPrefix("/videos/").Handler(http.StripPrefix("/videos/", http.HandlerFunc(serveRecordingFile)))

	router.HandleFunc("/", indexHandler)
	router.HandleFunc("/ws", handleWebSocket)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", statusHandler).Methods(http.MethodGet)
	api.HandleFunc("/start", startHandler).Methods(http.MethodPost)
	api.HandleFunc("/stop", stopHandler).Methods(http.MethodPost)
	api.HandleFunc("/reconfigure", reconfigureHandler).Methods(http.MethodPost)
	api.HandleFunc("/resolutions", resolutionsHandler).Methods(http.MethodGet)
	api.HandleFunc("/encoders", encodersHandler).Methods(http.MethodGet)
	api.HandleFunc("/devices", devicesHandler).Methods(http.MethodGet)
	api.HandleFunc("/sources", sourcesHandler).Methods(http.MethodGet)
	api.HandleFunc("/recordings", recordingsHandler).Methods(http.MethodGet)
	api.HandleFunc("/recordings/latest", latestRecordingHandler).Methods(http.MethodGet)

	return router
}

// StartServer starts the HTTP server on the specified port
func StartServer(port int, s *recorder.Session) {
	router := NewRouter(s)

	addr := fmt.Sprintf(":%d", port)
	Server = &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Track the most recent status update for new clients
	go trackStatus()

	logging.InfoLogger.Printf("Starting HTTP server on %s\n", addr)
	for _, url := range serverURLs(port) {
		logging.InfoLogger.Printf("Recorder dashboard: %s", url)
	}
	if err := Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logging.ErrorLogger.Printf("Failed to start server: %v", err)
	}
}

// StopServer gracefully shuts down the HTTP server
func StopServer() {
	if Server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := Server.Shutdown(ctx); err != nil {
			logging.ErrorLogger.Printf("Server forced to shutdown: %v", err)
		}
		logging.InfoLogger.Println("Server stopped")
	}
}

// trackStatus remembers the latest status message so it can be
// replayed to clients that connect later.
func trackStatus() {
	for msg := range status.StatusChan {
		lastMu.Lock()
		lastStatus = msg
		lastMu.Unlock()
	}
}

func currentStatus() status.Message {
	lastMu.Lock()
	defer lastMu.Unlock()
	return lastStatus
}

// handleWebSocket upgrades HTTP connection to WebSocket
func handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.ErrorLogger.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	websocket.Register(conn)
	defer websocket.Unregister(conn)

	// Send current status immediately after connection
	if msg := currentStatus(); msg.Code != "" {
		if err := conn.WriteJSON(msg); err != nil {
			logging.ErrorLogger.Printf("Failed to send initial status: %v", err)
		}
	}

	// Keep the connection alive until it closes
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// serverURLs lists the dashboard URLs reachable on this machine's
// interfaces.
func serverURLs(port int) []string {
	urls := []string{fmt.Sprintf("http://localhost:%d", port)}
	interfaces, err := net.Interfaces()
	if err != nil {
		return urls
	}
	for _, iface := range interfaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok || ipNet.IP == nil || ipNet.IP.IsLoopback() {
				continue
			}
			if ip := ipNet.IP.To4(); ip != nil && !ip.IsLinkLocalUnicast() {
				urls = append(urls, fmt.Sprintf("http://%s:%d", ip, port))
			}
		}
	}
	return urls
}
