package httpServer

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/prsauer/wow-recorder/internal/config"
	"github.com/prsauer/wow-recorder/internal/engine"
	"github.com/prsauer/wow-recorder/internal/logging"
	"github.com/prsauer/wow-recorder/internal/recorder"
	"github.com/prsauer/wow-recorder/internal/videos"
)

// StatusResponse is the /api/status payload.
type StatusResponse struct {
	State         recorder.State         `json:"state"`
	Code          string                 `json:"code,omitempty"`
	Text          string                 `json:"text,omitempty"`
	Options       recorder.Options       `json:"options"`
	Tracks        []*recorder.AudioTrack `json:"tracks"`
	VideoSize     *engine.Size           `json:"videoSize,omitempty"`
	LastRecording string                 `json:"lastRecording,omitempty"`
	Version       string                 `json:"version"`
}

type VideoInfo struct {
	Filename    string
	DisplayName string
}

type TemplateData struct {
	Videos     []VideoInfo
	State      recorder.State
	StatusMsg  string
	StatusCode string
	Recording  bool
	ShowAll    bool
	TotalCount int
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.ErrorLogger.Printf("Failed to encode response: %v", err)
	}
}

// httpStatusFor maps session errors onto HTTP status codes: sequencing
// problems are conflicts, an unusable engine is service-unavailable,
// bad requests are the caller's fault.
func httpStatusFor(err error) int {
	switch {
	case errors.Is(err, recorder.ErrRecordingActive), errors.Is(err, recorder.ErrNotRecording),
		errors.Is(err, recorder.ErrNotConfigured):
		return http.StatusConflict
	case errors.Is(err, recorder.ErrNotInitialized), errors.Is(err, recorder.ErrEngineUnreliable):
		return http.StatusServiceUnavailable
	case errors.Is(err, recorder.ErrDisplayNotFound), errors.Is(err, recorder.ErrInvalidCaptureMode):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// statusHandler reports the session state, active options and audio
// track layout.
func statusHandler(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		State:     session.State(),
		Options:   session.CurrentOptions(),
		Tracks:    session.Tracks(),
		VideoSize: session.LastKnownVideoSize(),
		Version:   config.GetProgramVersion(),
	}
	if msg := currentStatus(); msg.Code != "" {
		resp.Code = msg.Code
		resp.Text = msg.Text
	}
	if path := session.LastRecordingPath(); path != "" {
		resp.LastRecording = filepath.Base(path)
	}
	writeJSON(w, resp)
}

// startHandler begins a recording.
func startHandler(w http.ResponseWriter, r *http.Request) {
	if err := session.Start(); err != nil {
		logging.ErrorLogger.Printf("Start request failed: %v", err)
		http.Error(w, err.Error(), httpStatusFor(err))
		return
	}
	writeJSON(w, map[string]interface{}{"state": session.State()})
}

// stopHandler ends the active recording and waits for the file to be
// finalized.
func stopHandler(w http.ResponseWriter, r *http.Request) {
	if err := session.Stop(); err != nil {
		logging.ErrorLogger.Printf("Stop request failed: %v", err)
		http.Error(w, err.Error(), httpStatusFor(err))
		return
	}
	writeJSON(w, map[string]interface{}{
		"state":     session.State(),
		"recording": filepath.Base(session.LastRecordingPath()),
	})
}

// reconfigureHandler applies a settings change. The request body is a
// partial options document; omitted fields keep their current values.
func reconfigureHandler(w http.ResponseWriter, r *http.Request) {
	opts := session.CurrentOptions()
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		http.Error(w, fmt.Sprintf("invalid options: %v", err), http.StatusBadRequest)
		return
	}
	if err := session.Configure(opts); err != nil {
		logging.ErrorLogger.Printf("Reconfigure request failed: %v", err)
		http.Error(w, err.Error(), httpStatusFor(err))
		return
	}
	writeJSON(w, map[string]interface{}{
		"state":   session.State(),
		"options": session.CurrentOptions(),
	})
}

func resolutionsHandler(w http.ResponseWriter, r *http.Request) {
	resolutions, err := session.AvailableResolutions()
	if err != nil {
		http.Error(w, err.Error(), httpStatusFor(err))
		return
	}
	writeJSON(w, resolutions)
}

func encodersHandler(w http.ResponseWriter, r *http.Request) {
	encoders, err := session.AvailableEncoders()
	if err != nil {
		http.Error(w, err.Error(), httpStatusFor(err))
		return
	}
	writeJSON(w, map[string][]string{"encoders": encoders})
}

func devicesHandler(w http.ResponseWriter, r *http.Request) {
	inputs, err := session.AudioInputDevices()
	if err != nil {
		http.Error(w, err.Error(), httpStatusFor(err))
		return
	}
	outputs, err := session.AudioOutputDevices()
	if err != nil {
		http.Error(w, err.Error(), httpStatusFor(err))
		return
	}
	writeJSON(w, map[string][]engine.AudioDevice{
		"input":  inputs,
		"output": outputs,
	})
}

// sourcesHandler lists the engine's live sources for diagnostics.
func sourcesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, session.PublicSources())
}

func recordingsHandler(w http.ResponseWriter, r *http.Request) {
	recordings, err := videos.List(session.CurrentOptions().StorageDir)
	if err != nil {
		http.Error(w, "Failed to read recordings directory", http.StatusInternalServerError)
		return
	}
	writeJSON(w, recordings)
}

func latestRecordingHandler(w http.ResponseWriter, r *http.Request) {
	latest, err := videos.Latest(session.CurrentOptions().StorageDir)
	if err != nil {
		http.Error(w, "Failed to read recordings directory", http.StatusInternalServerError)
		return
	}
	if latest == nil {
		http.Error(w, "No recordings yet", http.StatusNotFound)
		return
	}
	writeJSON(w, latest)
}

// serveRecordingFile serves one file out of the current storage
// directory.
func serveRecordingFile(w http.ResponseWriter, r *http.Request) {
	dir := session.CurrentOptions().StorageDir
	if dir == "" {
		http.NotFound(w, r)
		return
	}
	http.FileServer(http.Dir(dir)).ServeHTTP(w, r)
}

// indexHandler renders the dashboard: status, controls and the
// recordings list, newest first.
func indexHandler(w http.ResponseWriter, r *http.Request) {
	recordings, err := videos.List(session.CurrentOptions().StorageDir)
	if err != nil {
		http.Error(w, "Failed to read recordings directory", http.StatusInternalServerError)
		return
	}

	showAll := r.URL.Query().Get("showAll") == "true"
	totalCount := len(recordings)
	if !showAll && totalCount > 20 {
		recordings = recordings[:20]
	}

	videoList := make([]VideoInfo, 0, len(recordings))
	for _, rec := range recordings {
		displayName := fmt.Sprintf("%s (%s, %s)",
			rec.Name, rec.ModTime.Format("2006-01-02 15:04:05"), formatSize(rec.SizeBytes))
		videoList = append(videoList, VideoInfo{
			Filename:    rec.Name,
			DisplayName: displayName,
		})
	}

	state := session.State()
	msg := currentStatus()
	data := TemplateData{
		Videos:     videoList,
		State:      state,
		StatusMsg:  msg.Text,
		StatusCode: msg.Code,
		Recording:  state == recorder.StateRecording,
		ShowAll:    showAll,
		TotalCount: totalCount,
	}

	if err := templates.ExecuteTemplate(w, "index.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func formatSize(bytes int64) string {
	switch {
	case bytes >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(1<<30))
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
