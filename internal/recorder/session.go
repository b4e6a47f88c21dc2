package recorder

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prsauer/wow-recorder/internal/engine"
	"github.com/prsauer/wow-recorder/internal/logging"
	"github.com/prsauer/wow-recorder/internal/status"
	"github.com/prsauer/wow-recorder/internal/videos"
)

// State is the session lifecycle position.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateInitialized   State = "initialized"
	StateConfigured    State = "configured"
	StateRecording     State = "recording"
	StateStopping      State = "stopping"

	// StateError is entered when a start/stop protocol violation leaves
	// the engine unreliable. Only Shutdown followed by Initialize
	// leaves it.
	StateError State = "error"
)

// Session is the single process-wide recording orchestrator. It owns
// the engine lifecycle, the active capture composition and the signal
// queue; all lifecycle operations are serialized.
type Session struct {
	opMu sync.Mutex // serializes lifecycle operations
	mu   sync.Mutex // guards the mutable fields below

	state State
	opts  Options

	videoSource engine.Source
	scene       engine.Scene
	sceneItem   engine.SceneItem
	audioTracks []*AudioTrack
	watcher     *sizeWatcher

	eng     engine.Engine
	params  EngineParams
	signals *engine.SignalQueue

	signalTimeout time.Duration
	watchInterval time.Duration

	// MaxStorageBytes caps the recordings directory size; oldest
	// recordings are pruned after each stop. 0 disables pruning.
	MaxStorageBytes int64
}

// NewSession wraps an engine in an uninitialized session.
func NewSession(eng engine.Engine, params EngineParams) *Session {
	return &Session{
		state:         StateUninitialized,
		eng:           eng,
		params:        params,
		signals:       engine.NewSignalQueue(),
		signalTimeout: engine.DefaultSignalTimeout,
		watchInterval: sizeWatchInterval,
	}
}

// Initialize boots the engine and applies the first configuration.
// Calling it on an already-initialized session logs and does nothing.
func (s *Session) Initialize(opts Options) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if s.State() != StateUninitialized {
		logging.WarningLogger.Printf("Initialize ignored: %v", ErrAlreadyInitialized)
		return nil
	}

	hostID := fmt.Sprintf("wow-recorder-%s", uuid.NewString())
	logging.InfoLogger.Printf("Hosting engine as %s", hostID)
	if err := s.eng.Host(hostID); err != nil {
		return fmt.Errorf("host engine: %w", err)
	}
	if err := s.eng.SetWorkingDirectory(s.params.WorkingDir); err != nil {
		return fmt.Errorf("set engine working directory: %w", err)
	}

	code, err := s.eng.Init(s.params.Locale, s.params.DataDir, s.params.Version)
	if err != nil {
		return fmt.Errorf("engine init: %w", err)
	}
	if code != engine.InitSuccess {
		initErr := &EngineInitError{Code: code}
		logging.ErrorLogger.Printf("%v", initErr)
		return initErr
	}

	if err := s.eng.RegisterSignalCallback(s.signals.Push); err != nil {
		return fmt.Errorf("register signal callback: %w", err)
	}

	s.setState(StateInitialized)
	logging.InfoLogger.Println("Engine initialized")

	return s.configure(opts)
}

// Configure applies a fresh configuration pass without restarting the
// engine host. Safe to call repeatedly; the previous composition is
// fully released before the new one is built.
func (s *Session) Configure(opts Options) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	return s.configure(opts)
}

func (s *Session) configure(opts Options) error {
	switch s.State() {
	case StateUninitialized:
		return ErrNotInitialized
	case StateRecording, StateStopping:
		return ErrRecordingActive
	case StateError:
		return ErrEngineUnreliable
	}

	logging.InfoLogger.Printf("Configuring: %s capture, %s at %d fps, audio in=%s out=%s",
		opts.CaptureMode, opts.OutputResolution, opts.FrameRate,
		opts.AudioInputDevice, opts.AudioOutputDevice)

	if err := os.MkdirAll(opts.StorageDir, 0755); err != nil {
		return fmt.Errorf("create storage directory: %w", err)
	}

	base, err := applyRecordingSettings(s.eng, opts)
	if err != nil {
		return err
	}

	// The watcher must be fully stopped before its scene item is
	// released, and its size memory starts over with the new source.
	s.stopSizeWatcher()

	// From here the previous composition is torn down. A failure before
	// the commit below leaves the session initialized, not configured.
	s.setState(StateInitialized)
	if err := s.releaseComposition(); err != nil {
		return fmt.Errorf("release previous composition: %w", err)
	}

	src, err := buildVideoSource(s.eng, opts)
	if err != nil {
		return err
	}
	scene, item, err := buildScene(s.eng, src)
	if err != nil {
		src.Release()
		return err
	}
	if err := s.eng.SetOutputSource(engine.MixedTrackSlot, scene); err != nil {
		scene.Release()
		src.Release()
		return fmt.Errorf("bind scene to mixed track: %w", err)
	}
	tracks, err := buildAudioTracks(s.eng, opts.AudioInputDevice, opts.AudioOutputDevice)
	if err != nil {
		s.eng.SetOutputSource(engine.MixedTrackSlot, nil)
		scene.Release()
		src.Release()
		return err
	}

	watcher := newSizeWatcher(src, item, base, s.watchInterval)
	watcher.start()

	s.mu.Lock()
	s.videoSource = src
	s.scene = scene
	s.sceneItem = item
	s.audioTracks = tracks
	s.watcher = watcher
	s.opts = opts
	s.state = StateConfigured
	s.mu.Unlock()

	logging.InfoLogger.Printf("Configured with %d audio tracks, base canvas %dx%d",
		len(tracks), base.Width, base.Height)
	SendStatus(status.Ready, "Armed for recording")
	return nil
}

// Start issues the engine's start command and waits for the engine to
// acknowledge it. On success the session is recording.
func (s *Session) Start() error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	switch s.State() {
	case StateUninitialized:
		return ErrNotInitialized
	case StateInitialized:
		return ErrNotConfigured
	case StateRecording, StateStopping:
		return ErrRecordingActive
	case StateError:
		return ErrEngineUnreliable
	}

	logging.InfoLogger.Println("Starting recording")
	if err := s.eng.StartRecording(); err != nil {
		return fmt.Errorf("start recording command: %w", err)
	}

	if _, err := s.signals.Await(engine.SignalStart, s.signalTimeout); err != nil {
		s.setState(StateError)
		logging.ErrorLogger.Printf("Recording did not start: %v", err)
		SendStatus(status.EngineError, fmt.Sprintf("Recording did not start: %v", err))
		return fmt.Errorf("recording did not start: %w", err)
	}

	s.setState(StateRecording)
	SendStatus(status.Recording, "Recording")
	return nil
}

// Stop issues the engine's stop command and waits out the three-step
// acknowledgement: stopping, stop, wrote. Any step missing or out of
// order leaves the session in the error state.
func (s *Session) Stop() error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	switch s.State() {
	case StateUninitialized:
		return ErrNotInitialized
	case StateError:
		return ErrEngineUnreliable
	case StateRecording:
	default:
		return ErrNotRecording
	}

	logging.InfoLogger.Println("Stopping recording")
	s.setState(StateStopping)
	SendStatus(status.Stopping, "Stopping recording")

	if err := s.eng.StopRecording(); err != nil {
		s.setState(StateError)
		return fmt.Errorf("stop recording command: %w", err)
	}

	for _, kind := range []string{engine.SignalStopping, engine.SignalStop, engine.SignalWrote} {
		if _, err := s.signals.Await(kind, s.signalTimeout); err != nil {
			s.setState(StateError)
			logging.ErrorLogger.Printf("Recording did not stop cleanly: %v", err)
			SendStatus(status.EngineError, fmt.Sprintf("Recording did not stop cleanly: %v", err))
			return fmt.Errorf("recording did not stop cleanly: %w", err)
		}
	}

	s.setState(StateConfigured)
	path := s.eng.LastRecordingPath()
	logging.InfoLogger.Printf("Recording saved: %s", path)
	SendStatus(status.Wrote, fmt.Sprintf("Recording saved: %s", filepath.Base(path)))

	s.pruneStorage()
	return nil
}

// Shutdown tears the engine down. Returns false without touching the
// engine when the session is already uninitialized.
func (s *Session) Shutdown() (bool, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if s.State() == StateUninitialized {
		logging.InfoLogger.Println("Shutdown requested but engine is not initialized")
		return false, nil
	}
	logging.InfoLogger.Println("Shutting down engine")

	s.stopSizeWatcher()
	if err := s.releaseComposition(); err != nil {
		return false, &ShutdownError{Err: err}
	}
	if err := s.eng.RemoveSignalCallback(); err != nil {
		return false, &ShutdownError{Err: err}
	}
	if err := s.eng.Disconnect(); err != nil {
		return false, &ShutdownError{Err: err}
	}

	s.setState(StateUninitialized)
	SendStatus(status.Offline, "Engine disconnected")
	return true, nil
}

// releaseComposition releases every engine handle of the current
// composition: audio tracks first, then the scene, then the video
// source. Best effort; the first error is reported after everything
// has been attempted.
func (s *Session) releaseComposition() error {
	s.mu.Lock()
	tracks := s.audioTracks
	scene := s.scene
	src := s.videoSource
	s.audioTracks = nil
	s.scene = nil
	s.sceneItem = nil
	s.videoSource = nil
	s.mu.Unlock()

	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	for _, track := range tracks {
		keep(s.eng.SetOutputSource(track.Index, nil))
		keep(track.source.Release())
	}
	if scene != nil {
		keep(s.eng.SetOutputSource(engine.MixedTrackSlot, nil))
		keep(scene.Release())
	}
	if src != nil {
		keep(src.Release())
	}
	return firstErr
}

func (s *Session) stopSizeWatcher() {
	s.mu.Lock()
	watcher := s.watcher
	s.watcher = nil
	s.mu.Unlock()
	if watcher != nil {
		watcher.stop()
	}
}

func (s *Session) pruneStorage() {
	if s.MaxStorageBytes <= 0 {
		return
	}
	dir := s.CurrentOptions().StorageDir
	freed, err := videos.Prune(dir, s.MaxStorageBytes)
	if err != nil {
		logging.WarningLogger.Printf("Storage prune failed: %v", err)
		return
	}
	if freed > 0 {
		logging.InfoLogger.Printf("Pruned %d bytes of old recordings from %s", freed, dir)
	}
}

// State reports the current lifecycle position.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// CurrentOptions returns the options of the last successful configure.
func (s *Session) CurrentOptions() Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts
}

// Tracks returns the active audio tracks.
func (s *Session) Tracks() []*AudioTrack {
	s.mu.Lock()
	defer s.mu.Unlock()
	tracks := make([]*AudioTrack, len(s.audioTracks))
	copy(tracks, s.audioTracks)
	return tracks
}

// LastKnownVideoSize reports the video source size last observed by
// the size watcher, nil while the source has not delivered frames.
func (s *Session) LastKnownVideoSize() *engine.Size {
	s.mu.Lock()
	watcher := s.watcher
	s.mu.Unlock()
	if watcher == nil {
		return nil
	}
	return watcher.lastSize()
}

// LastRecordingPath reports the engine's most recently written file.
func (s *Session) LastRecordingPath() string {
	return s.eng.LastRecordingPath()
}

// AvailableResolutions queries the engine's current base and output
// resolution sets. Never cached: the sets can change with hardware
// state.
func (s *Session) AvailableResolutions() (map[string][]string, error) {
	if s.State() == StateUninitialized {
		return nil, ErrNotInitialized
	}
	base, err := engine.AvailableValues(s.eng, engine.CategoryVideo, engine.SubCategoryUntitled, "Base")
	if err != nil {
		return nil, fmt.Errorf("query base resolutions: %w", err)
	}
	output, err := engine.AvailableValues(s.eng, engine.CategoryVideo, engine.SubCategoryUntitled, "Output")
	if err != nil {
		return nil, fmt.Errorf("query output resolutions: %w", err)
	}
	return map[string][]string{"base": base, "output": output}, nil
}

// AvailableEncoders lists encoder ids in the engine's enumeration
// order. The auto pick takes the last entry.
func (s *Session) AvailableEncoders() ([]string, error) {
	if s.State() == StateUninitialized {
		return nil, ErrNotInitialized
	}
	encoders, err := engine.AvailableValues(s.eng, engine.CategoryOutput, engine.SubCategoryRecording, "RecEncoder")
	if err != nil {
		return nil, fmt.Errorf("query encoders: %w", err)
	}
	return encoders, nil
}

// AudioInputDevices lists selectable input devices, without the
// default-device alias.
func (s *Session) AudioInputDevices() ([]engine.AudioDevice, error) {
	if s.State() == StateUninitialized {
		return nil, ErrNotInitialized
	}
	return availableAudioInputDevices(s.eng)
}

// AudioOutputDevices lists selectable output devices, without the
// default-device alias.
func (s *Session) AudioOutputDevices() ([]engine.AudioDevice, error) {
	if s.State() == StateUninitialized {
		return nil, ErrNotInitialized
	}
	return availableAudioOutputDevices(s.eng)
}

// PublicSources lists the engine's sources for diagnostics.
func (s *Session) PublicSources() []engine.SourceInfo {
	return s.eng.PublicSources()
}
