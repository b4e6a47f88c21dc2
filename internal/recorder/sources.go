package recorder

import (
	"fmt"

	"github.com/prsauer/wow-recorder/internal/engine"
	"github.com/prsauer/wow-recorder/internal/logging"
)

const (
	videoSourceName = "capture"
	sceneName       = "main"

	// The game client's window matcher: title, window class, executable.
	gameWindowMatch = "World of Warcraft:GxWindowClass:Wow.exe"

	// Match by executable so renamed window titles still bind.
	windowMatchPriority = 2
)

// AudioTrack is one numbered audio channel routed into the recording.
// Track 1 is the mixed track carried by the scene; device tracks start
// at 2.
type AudioTrack struct {
	Index  int                `json:"index"`
	Device engine.AudioDevice `json:"device"`
	Muted  bool               `json:"muted"`
	source engine.Source
}

// buildVideoSource creates the capture source for one configuration
// pass. Monitor mode binds the display at the user's 1-based index;
// window mode binds the fixed game window matcher.
func buildVideoSource(eng engine.Engine, opts Options) (engine.Source, error) {
	switch opts.CaptureMode {
	case CaptureModeMonitor:
		displays, err := eng.VideoDisplays()
		if err != nil {
			return nil, fmt.Errorf("enumerate displays: %w", err)
		}
		idx := opts.MonitorIndex - 1
		if idx < 0 || idx >= len(displays) {
			return nil, fmt.Errorf("monitor %d of %d: %w", opts.MonitorIndex, len(displays), ErrDisplayNotFound)
		}
		logging.InfoLogger.Printf("Capturing display %d (%s, %dx%d)",
			opts.MonitorIndex, displays[idx].ID, displays[idx].Size.Width, displays[idx].Size.Height)
		return eng.CreateSource(engine.KindMonitorCapture, videoSourceName, map[string]interface{}{
			"monitor":        displays[idx].Index,
			"capture_cursor": true,
		})
	case CaptureModeWindow:
		logging.InfoLogger.Printf("Capturing window %q", gameWindowMatch)
		return eng.CreateSource(engine.KindWindowCapture, videoSourceName, map[string]interface{}{
			"window":             gameWindowMatch,
			"priority":           windowMatchPriority,
			"capture_cursor":     true,
			"allow_transparency": true,
		})
	default:
		return nil, fmt.Errorf("capture mode %q: %w", opts.CaptureMode, ErrInvalidCaptureMode)
	}
}

// buildScene wraps the video source in a fresh scene at unit scale.
// The caller rescales the returned item as the source's native size
// becomes known.
func buildScene(eng engine.Engine, src engine.Source) (engine.Scene, engine.SceneItem, error) {
	scene, err := eng.CreateScene(sceneName)
	if err != nil {
		return nil, nil, fmt.Errorf("create scene: %w", err)
	}
	item, err := scene.Add(src)
	if err != nil {
		scene.Release()
		return nil, nil, fmt.Errorf("place source in scene: %w", err)
	}
	if err := item.SetScale(engine.Vec2{X: 1, Y: 1}); err != nil {
		scene.Release()
		return nil, nil, fmt.Errorf("reset scene item scale: %w", err)
	}
	return scene, item, nil
}

// buildAudioTracks creates one track per available device, inputs
// first, dense from track 2. Each track is routed to the shared mixed
// track and to its own track, muted per the device selection, and
// named after its device in the output settings. The recorded-track
// mask is widened to cover every created track plus the mixed track.
func buildAudioTracks(eng engine.Engine, inputSelection, outputSelection string) ([]*AudioTrack, error) {
	inputs, err := availableAudioInputDevices(eng)
	if err != nil {
		return nil, err
	}
	outputs, err := availableAudioOutputDevices(eng)
	if err != nil {
		return nil, err
	}

	var tracks []*AudioTrack
	index := engine.MixedTrackSlot + 1

	release := func() {
		for _, track := range tracks {
			eng.SetOutputSource(track.Index, nil)
			track.source.Release()
		}
	}

	addTrack := func(dev engine.AudioDevice, kind, selection string) error {
		if index > engine.MaxOutputSlots {
			logging.WarningLogger.Printf("Track ceiling reached, skipping device %s", dev.Name)
			return nil
		}
		src, err := eng.CreateSource(kind, fmt.Sprintf("audio-track-%d", index), map[string]interface{}{
			"device_id": dev.ID,
		})
		if err != nil {
			return fmt.Errorf("create audio source for %s: %w", dev.Name, err)
		}
		muted := selection == "none" || (selection != "all" && dev.ID != selection)
		if err := src.SetMuted(muted); err != nil {
			src.Release()
			return fmt.Errorf("mute audio source for %s: %w", dev.Name, err)
		}
		// Route to the mixed track and to this track's own bit.
		mask := uint64(1) | uint64(1)<<(index-1)
		if err := src.SetAudioMixers(mask); err != nil {
			src.Release()
			return fmt.Errorf("route audio source for %s: %w", dev.Name, err)
		}
		if err := eng.SetOutputSource(index, src); err != nil {
			src.Release()
			return fmt.Errorf("bind track %d: %w", index, err)
		}
		if err := engine.SetSetting(eng, engine.CategoryOutput, engine.SubCategoryAudio,
			fmt.Sprintf("Track%dName", index), dev.Name); err != nil {
			eng.SetOutputSource(index, nil)
			src.Release()
			return fmt.Errorf("name track %d: %w", index, err)
		}
		logging.Trace("Audio track %d: %s (muted=%v)", index, dev.Name, muted)
		tracks = append(tracks, &AudioTrack{Index: index, Device: dev, Muted: muted, source: src})
		index++
		return nil
	}

	for _, dev := range inputs {
		if err := addTrack(dev, engine.KindAudioInput, inputSelection); err != nil {
			release()
			return nil, err
		}
	}
	for _, dev := range outputs {
		if err := addTrack(dev, engine.KindAudioOutput, outputSelection); err != nil {
			release()
			return nil, err
		}
	}

	recMask := uint64(1)<<(index-1) - 1
	if err := engine.SetSetting(eng, engine.CategoryOutput, engine.SubCategoryRecording, "RecTracks", recMask); err != nil {
		release()
		return nil, fmt.Errorf("set recorded tracks: %w", err)
	}

	return tracks, nil
}
