package recorder

import (
	"errors"
	"fmt"
	"testing"

	"github.com/prsauer/wow-recorder/internal/engine"
)

type mixerSource interface {
	Mixers() uint64
	Muted() bool
}

// TestBuildVideoSourceMonitor verifies monitor capture binds the
// display at the user's 1-based index.
func TestBuildVideoSourceMonitor(t *testing.T) {
	eng := newInitializedEngine(t)

	src, err := buildVideoSource(eng, Options{CaptureMode: CaptureModeMonitor, MonitorIndex: 2})
	if err != nil {
		t.Fatalf("buildVideoSource: %v", err)
	}
	defer src.Release()

	if src.Kind() != engine.KindMonitorCapture {
		t.Errorf("expected kind %s, got %s", engine.KindMonitorCapture, src.Kind())
	}
	settings := src.Settings()
	if settings["monitor"] != 1 {
		t.Errorf("expected 0-based monitor 1, got %v", settings["monitor"])
	}
	if settings["capture_cursor"] != true {
		t.Errorf("expected capture_cursor true, got %v", settings["capture_cursor"])
	}
	// The second simulated display is 2560x1440.
	if size := src.Size(); size.Width != 2560 || size.Height != 1440 {
		t.Errorf("expected display size 2560x1440, got %dx%d", size.Width, size.Height)
	}
}

// TestBuildVideoSourceMonitorOutOfRange verifies an index past the
// display list fails cleanly.
func TestBuildVideoSourceMonitorOutOfRange(t *testing.T) {
	eng := newInitializedEngine(t)

	for _, idx := range []int{0, 3, -1} {
		_, err := buildVideoSource(eng, Options{CaptureMode: CaptureModeMonitor, MonitorIndex: idx})
		if !errors.Is(err, ErrDisplayNotFound) {
			t.Errorf("monitor %d: expected ErrDisplayNotFound, got %v", idx, err)
		}
	}
	if eng.LiveSources() != 0 {
		t.Errorf("failed builds must not leak sources, %d live", eng.LiveSources())
	}
}

// TestBuildVideoSourceWindow verifies window capture carries the game
// window matcher and starts without a size.
func TestBuildVideoSourceWindow(t *testing.T) {
	eng := newInitializedEngine(t)

	src, err := buildVideoSource(eng, Options{CaptureMode: CaptureModeWindow})
	if err != nil {
		t.Fatalf("buildVideoSource: %v", err)
	}
	defer src.Release()

	if src.Kind() != engine.KindWindowCapture {
		t.Errorf("expected kind %s, got %s", engine.KindWindowCapture, src.Kind())
	}
	settings := src.Settings()
	if settings["window"] != gameWindowMatch {
		t.Errorf("unexpected window matcher %v", settings["window"])
	}
	if settings["priority"] != windowMatchPriority {
		t.Errorf("expected priority %d, got %v", windowMatchPriority, settings["priority"])
	}
	if size := src.Size(); size.Width != 0 || size.Height != 0 {
		t.Errorf("window capture should start sizeless, got %dx%d", size.Width, size.Height)
	}
}

// TestBuildVideoSourceInvalidMode verifies unknown capture modes are
// rejected.
func TestBuildVideoSourceInvalidMode(t *testing.T) {
	eng := newInitializedEngine(t)
	_, err := buildVideoSource(eng, Options{CaptureMode: "screenshare"})
	if !errors.Is(err, ErrInvalidCaptureMode) {
		t.Errorf("expected ErrInvalidCaptureMode, got %v", err)
	}
}

// TestBuildAudioTracksLayout verifies tracks are numbered densely from
// 2, inputs first, each routed to the mixed track plus its own bit.
func TestBuildAudioTracksLayout(t *testing.T) {
	eng := newInitializedEngine(t)

	tracks, err := buildAudioTracks(eng, "all", "all")
	if err != nil {
		t.Fatalf("buildAudioTracks: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}

	if tracks[0].Index != 2 || tracks[0].Device.ID != "mic-1" {
		t.Errorf("track 2 should carry the input device, got index %d device %s", tracks[0].Index, tracks[0].Device.ID)
	}
	if tracks[1].Index != 3 || tracks[1].Device.ID != "speakers-1" {
		t.Errorf("track 3 should carry the output device, got index %d device %s", tracks[1].Index, tracks[1].Device.ID)
	}

	// Track 2 routes to bits 0 and 1, track 3 to bits 0 and 2.
	if mixers := tracks[0].source.(mixerSource).Mixers(); mixers != 0b011 {
		t.Errorf("track 2 mixer mask: expected 0b011, got %#b", mixers)
	}
	if mixers := tracks[1].source.(mixerSource).Mixers(); mixers != 0b101 {
		t.Errorf("track 3 mixer mask: expected 0b101, got %#b", mixers)
	}

	for _, track := range tracks {
		if eng.GetOutputSource(track.Index) == nil {
			t.Errorf("track %d not bound to its output slot", track.Index)
		}
	}

	// Mixed track plus tracks 2 and 3 recorded.
	recTracks, err := engine.GetSetting(eng, engine.CategoryOutput, engine.SubCategoryRecording, "RecTracks")
	if err != nil {
		t.Fatalf("GetSetting RecTracks: %v", err)
	}
	if recTracks != uint64(0b111) {
		t.Errorf("expected RecTracks 0b111, got %v", recTracks)
	}

	for i, wantName := range map[int]string{2: "Desktop Microphone", 3: "Speakers"} {
		name, err := engine.GetSetting(eng, engine.CategoryOutput, engine.SubCategoryAudio, fmt.Sprintf("Track%dName", i))
		if err != nil {
			t.Fatalf("GetSetting Track%dName: %v", i, err)
		}
		if name != wantName {
			t.Errorf("Track%dName: expected %q, got %v", i, wantName, name)
		}
	}
}

// TestBuildAudioTracksMoreDevices verifies extra devices stay densely
// numbered, inputs before outputs.
func TestBuildAudioTracksMoreDevices(t *testing.T) {
	eng := newInitializedEngine(t)
	eng.SetAudioInputDevices([]engine.AudioDevice{
		{ID: engine.DefaultDeviceID, Name: "Default"},
		{ID: "mic-1", Name: "Mic 1"},
		{ID: "mic-2", Name: "Mic 2"},
	})
	eng.SetAudioOutputDevices([]engine.AudioDevice{
		{ID: "speakers-1", Name: "Speakers"},
		{ID: "headset-1", Name: "Headset"},
	})

	tracks, err := buildAudioTracks(eng, "all", "all")
	if err != nil {
		t.Fatalf("buildAudioTracks: %v", err)
	}
	wantDevices := []string{"mic-1", "mic-2", "speakers-1", "headset-1"}
	if len(tracks) != len(wantDevices) {
		t.Fatalf("expected %d tracks, got %d", len(wantDevices), len(tracks))
	}
	for i, track := range tracks {
		if track.Index != i+2 {
			t.Errorf("track %d: expected index %d, got %d", i, i+2, track.Index)
		}
		if track.Device.ID != wantDevices[i] {
			t.Errorf("track %d: expected device %s, got %s", i, wantDevices[i], track.Device.ID)
		}
	}
}

// TestBuildAudioTracksNoDevices verifies a machine without audio
// devices still configures, with only the mixed track recorded.
func TestBuildAudioTracksNoDevices(t *testing.T) {
	eng := newInitializedEngine(t)
	eng.SetAudioInputDevices(nil)
	eng.SetAudioOutputDevices(nil)

	tracks, err := buildAudioTracks(eng, "all", "all")
	if err != nil {
		t.Fatalf("buildAudioTracks: %v", err)
	}
	if len(tracks) != 0 {
		t.Fatalf("expected no tracks, got %d", len(tracks))
	}

	recTracks, err := engine.GetSetting(eng, engine.CategoryOutput, engine.SubCategoryRecording, "RecTracks")
	if err != nil {
		t.Fatalf("GetSetting RecTracks: %v", err)
	}
	if recTracks != uint64(0b1) {
		t.Errorf("expected only the mixed track recorded, got %v", recTracks)
	}
}

// TestBuildAudioTracksMutePolicy verifies the all/none/device-id
// selection semantics.
func TestBuildAudioTracksMutePolicy(t *testing.T) {
	cases := []struct {
		name              string
		input, output     string
		inMuted, outMuted bool
	}{
		{"all unmuted", "all", "all", false, false},
		{"none muted", "none", "none", true, true},
		{"matching id", "mic-1", "speakers-1", false, false},
		{"other id", "mic-9", "speakers-9", true, true},
		{"mixed", "all", "none", false, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			eng := newInitializedEngine(t)
			tracks, err := buildAudioTracks(eng, c.input, c.output)
			if err != nil {
				t.Fatalf("buildAudioTracks: %v", err)
			}
			if tracks[0].Muted != c.inMuted {
				t.Errorf("input track muted=%v, expected %v", tracks[0].Muted, c.inMuted)
			}
			if tracks[1].Muted != c.outMuted {
				t.Errorf("output track muted=%v, expected %v", tracks[1].Muted, c.outMuted)
			}
			// The engine-side flag must match the bookkeeping.
			for _, track := range tracks {
				if track.source.(mixerSource).Muted() != track.Muted {
					t.Errorf("track %d engine mute flag diverges from record", track.Index)
				}
			}
		})
	}
}
