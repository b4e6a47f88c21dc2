// Package simengine provides an in-memory capture engine. It backs the
// daemon when no native engine binding is linked in, and the test
// suite: it honors the full command surface, emits lifecycle signals
// from its own dispatch goroutine, and writes placeholder recording
// files so the storage paths are exercised end to end.
package simengine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/prsauer/wow-recorder/internal/engine"
)

// Engine is an in-memory engine.Engine implementation.
type Engine struct {
	mu sync.Mutex

	hosted      bool
	hostID      string
	workingDir  string
	initialized bool
	locale      string
	dataDir     string
	version     string

	settings map[string]*engine.SettingsCollection

	displays      []engine.Display
	inputDevices  []engine.AudioDevice
	outputDevices []engine.AudioDevice

	sources map[string]*simSource
	scenes  map[string]*simScene
	slots   map[int]engine.OutputSource

	callback     func(engine.Signal)
	sigCh        chan engine.Signal
	dispatchDone chan struct{}

	recording     bool
	recordingSeq  int
	recordingPath string
	lastRecording string

	// failure injection for tests
	initCode        int
	disconnectErr   error
	suppressSignals map[string]bool
	replaceSignals  map[string]string
	signalDelay     time.Duration
}

var _ engine.Engine = (*Engine)(nil)

// New returns a ready-to-host engine with plausible defaults: two
// displays, one microphone and one speaker set plus the default-device
// aliases, and a seeded settings store.
func New() *Engine {
	e := &Engine{
		settings: defaultSettings(),
		displays: []engine.Display{
			{Index: 0, ID: "display-0", Size: engine.Size{Width: 1920, Height: 1080}},
			{Index: 1, ID: "display-1", Size: engine.Size{Width: 2560, Height: 1440}},
		},
		inputDevices: []engine.AudioDevice{
			{ID: engine.DefaultDeviceID, Name: "Default"},
			{ID: "mic-1", Name: "Desktop Microphone"},
		},
		outputDevices: []engine.AudioDevice{
			{ID: engine.DefaultDeviceID, Name: "Default"},
			{ID: "speakers-1", Name: "Speakers"},
		},
		sources:         make(map[string]*simSource),
		scenes:          make(map[string]*simScene),
		slots:           make(map[int]engine.OutputSource),
		sigCh:           make(chan engine.Signal, 64),
		dispatchDone:    make(chan struct{}),
		suppressSignals: make(map[string]bool),
		replaceSignals:  make(map[string]string),
	}
	go e.dispatch(e.sigCh, e.dispatchDone)
	return e
}

func defaultSettings() map[string]*engine.SettingsCollection {
	return map[string]*engine.SettingsCollection{
		engine.CategoryVideo: {Data: []*engine.SubCategory{
			{
				Name: engine.SubCategoryUntitled,
				Parameters: []*engine.Parameter{
					{Name: "Base", CurrentValue: "1920x1080",
						Values: []interface{}{"3840x2160", "2560x1440", "1920x1080", "1280x720"}},
					{Name: "Output", CurrentValue: "1920x1080",
						Values: []interface{}{"1920x1080", "1664x936", "1280x720", "640x360"}},
					{Name: "FPSCommon", CurrentValue: "60",
						Values: []interface{}{"10", "20", "24 NTSC", "30", "48", "60"}},
				},
			},
		}},
		engine.CategoryOutput: {Data: []*engine.SubCategory{
			{
				Name: engine.SubCategoryRecording,
				Parameters: []*engine.Parameter{
					{Name: "Mode", CurrentValue: "Simple",
						Values: []interface{}{"Simple", "Advanced"}},
					{Name: "RecFilePath", CurrentValue: ""},
					{Name: "RecFormat", CurrentValue: "mkv",
						Values: []interface{}{"flv", "mp4", "mkv"}},
					{Name: "RecEncoder", CurrentValue: "obs_x264",
						Values: []interface{}{
							map[string]interface{}{"Software (x264)": "obs_x264"},
							map[string]interface{}{"Hardware (AMD, H.264)": "amd_amf_h264"},
							map[string]interface{}{"Hardware (NVENC, H.264)": "jim_nvenc"},
						}},
					{Name: "RecTracks", CurrentValue: uint64(1)},
					{Name: "VBitrate", CurrentValue: 2500},
				},
			},
			{Name: engine.SubCategoryAudio},
		}},
	}
}

// dispatch delivers queued signals to the registered callback, in
// order, from a goroutine of its own: the recorder must tolerate
// signals arriving from a foreign execution context. Disconnect
// retires the goroutine by closing done; a later Host starts a fresh
// one.
func (e *Engine) dispatch(ch <-chan engine.Signal, done <-chan struct{}) {
	for {
		select {
		case sig := <-ch:
			e.mu.Lock()
			delay := e.signalDelay
			fn := e.callback
			e.mu.Unlock()
			if delay > 0 {
				time.Sleep(delay)
			}
			if fn != nil {
				fn(sig)
			}
		case <-done:
			return
		}
	}
}

func (e *Engine) emit(kind string) {
	e.mu.Lock()
	if e.suppressSignals[kind] {
		e.mu.Unlock()
		return
	}
	if replacement, ok := e.replaceSignals[kind]; ok {
		kind = replacement
	}
	ch := e.sigCh
	e.mu.Unlock()
	if ch == nil {
		return
	}
	ch <- engine.Signal{Category: engine.SignalCategoryRecording, Kind: kind}
}

func (e *Engine) Host(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if id == "" {
		return errors.New("empty host id")
	}
	if e.sigCh == nil {
		e.sigCh = make(chan engine.Signal, 64)
		e.dispatchDone = make(chan struct{})
		go e.dispatch(e.sigCh, e.dispatchDone)
	}
	e.hosted = true
	e.hostID = id
	return nil
}

func (e *Engine) SetWorkingDirectory(dir string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.hosted {
		return errors.New("engine not hosted")
	}
	e.workingDir = dir
	return nil
}

func (e *Engine) Init(locale, dataDir, version string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.hosted {
		return 0, errors.New("engine not hosted")
	}
	if e.initCode != 0 {
		return e.initCode, nil
	}
	e.initialized = true
	e.locale = locale
	e.dataDir = dataDir
	e.version = version
	return engine.InitSuccess, nil
}

func (e *Engine) Disconnect() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disconnectErr != nil {
		return e.disconnectErr
	}
	if e.dispatchDone != nil {
		close(e.dispatchDone)
		e.dispatchDone = nil
		e.sigCh = nil
	}
	e.hosted = false
	e.initialized = false
	e.recording = false
	e.sources = make(map[string]*simSource)
	e.scenes = make(map[string]*simScene)
	e.slots = make(map[int]engine.OutputSource)
	return nil
}

func (e *Engine) GetSettings(category string) (*engine.SettingsCollection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	col, ok := e.settings[category]
	if !ok {
		return nil, fmt.Errorf("no settings category %q", category)
	}
	return copyCollection(col), nil
}

func (e *Engine) SaveSettings(category string, col *engine.SettingsCollection) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.settings[category]; !ok {
		return fmt.Errorf("no settings category %q", category)
	}
	e.settings[category] = copyCollection(col)
	return nil
}

func copyCollection(col *engine.SettingsCollection) *engine.SettingsCollection {
	out := &engine.SettingsCollection{Data: make([]*engine.SubCategory, 0, len(col.Data))}
	for _, sub := range col.Data {
		subCopy := &engine.SubCategory{
			Name:       sub.Name,
			Parameters: make([]*engine.Parameter, 0, len(sub.Parameters)),
		}
		for _, param := range sub.Parameters {
			paramCopy := &engine.Parameter{Name: param.Name, CurrentValue: param.CurrentValue}
			if param.Values != nil {
				paramCopy.Values = append([]interface{}{}, param.Values...)
			}
			subCopy.Parameters = append(subCopy.Parameters, paramCopy)
		}
		out.Data = append(out.Data, subCopy)
	}
	return out
}

// currentSetting reads a parameter value from the live store. Used by
// the recording simulation for the storage path.
func (e *Engine) currentSetting(category, subcategory, name string) interface{} {
	col, ok := e.settings[category]
	if !ok {
		return nil
	}
	for _, sub := range col.Data {
		if sub.Name != subcategory {
			continue
		}
		for _, param := range sub.Parameters {
			if param.Name == name {
				return param.CurrentValue
			}
		}
	}
	return nil
}

func (e *Engine) VideoDisplays() ([]engine.Display, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return nil, errors.New("engine not initialized")
	}
	return append([]engine.Display{}, e.displays...), nil
}

func (e *Engine) AudioInputDevices() ([]engine.AudioDevice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return nil, errors.New("engine not initialized")
	}
	return append([]engine.AudioDevice{}, e.inputDevices...), nil
}

func (e *Engine) AudioOutputDevices() ([]engine.AudioDevice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return nil, errors.New("engine not initialized")
	}
	return append([]engine.AudioDevice{}, e.outputDevices...), nil
}

func (e *Engine) StartRecording() error {
	e.mu.Lock()
	if !e.initialized {
		e.mu.Unlock()
		return errors.New("engine not initialized")
	}
	if e.recording {
		e.mu.Unlock()
		return errors.New("already recording")
	}
	e.recording = true
	e.recordingSeq++
	dir, _ := e.currentSetting(engine.CategoryOutput, engine.SubCategoryRecording, "RecFilePath").(string)
	var path string
	if dir != "" {
		path = filepath.Join(dir, fmt.Sprintf("%s-%03d.mp4",
			time.Now().Format("2006-01-02 15-04-05"), e.recordingSeq))
	}
	e.recordingPath = path
	e.mu.Unlock()

	if path != "" {
		os.MkdirAll(dir, 0755)
		os.WriteFile(path, nil, 0644)
	}
	e.emit(engine.SignalStart)
	return nil
}

func (e *Engine) StopRecording() error {
	e.mu.Lock()
	if !e.initialized {
		e.mu.Unlock()
		return errors.New("engine not initialized")
	}
	if !e.recording {
		e.mu.Unlock()
		return errors.New("not recording")
	}
	e.recording = false
	path := e.recordingPath
	e.recordingPath = ""
	// Visible as the last recording by the time "wrote" is observed.
	if path != "" {
		e.lastRecording = path
	}
	e.mu.Unlock()

	e.emit(engine.SignalStopping)
	e.emit(engine.SignalStop)
	e.emit(engine.SignalWrote)
	return nil
}

func (e *Engine) RegisterSignalCallback(fn func(engine.Signal)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if fn == nil {
		return errors.New("nil signal callback")
	}
	e.callback = fn
	return nil
}

func (e *Engine) RemoveSignalCallback() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.callback = nil
	return nil
}

func (e *Engine) LastRecordingPath() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastRecording
}

func (e *Engine) PublicSources() []engine.SourceInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, 0, len(e.sources))
	for name := range e.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	infos := make([]engine.SourceInfo, 0, len(names))
	for _, name := range names {
		src := e.sources[name]
		infos = append(infos, engine.SourceInfo{Name: src.name, Kind: src.kind, Size: src.size})
	}
	return infos
}
