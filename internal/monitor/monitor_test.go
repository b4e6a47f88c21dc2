package monitor

import (
	"errors"
	"testing"

	"github.com/prsauer/wow-recorder/internal/recorder"
)

type fakeController struct {
	starts   int
	stops    int
	startErr error
	stopErr  error
	state    recorder.State
}

func (f *fakeController) Start() error          { f.starts++; return f.startErr }
func (f *fakeController) Stop() error           { f.stops++; return f.stopErr }
func (f *fakeController) State() recorder.State { return f.state }

// TestHandleCommandStart verifies the start topic triggers the
// controller's Start.
func TestHandleCommandStart(t *testing.T) {
	ctrl := &fakeController{state: recorder.StateConfigured}
	handleCommand("recorder", ctrl, "start", "")
	if ctrl.starts != 1 || ctrl.stops != 0 {
		t.Fatalf("expected one start and no stops, got %d starts %d stops", ctrl.starts, ctrl.stops)
	}
}

// TestHandleCommandStop verifies the stop topic triggers the
// controller's Stop.
func TestHandleCommandStop(t *testing.T) {
	ctrl := &fakeController{state: recorder.StateRecording}
	handleCommand("recorder", ctrl, "stop", "")
	if ctrl.stops != 1 || ctrl.starts != 0 {
		t.Fatalf("expected one stop and no starts, got %d starts %d stops", ctrl.starts, ctrl.stops)
	}
}

// TestHandleCommandUnknown verifies unrecognized topics touch nothing.
func TestHandleCommandUnknown(t *testing.T) {
	ctrl := &fakeController{}
	handleCommand("recorder", ctrl, "status", "")
	handleCommand("recorder", ctrl, "restart", "")
	if ctrl.starts != 0 || ctrl.stops != 0 {
		t.Fatalf("unknown commands must not drive the controller, got %d starts %d stops", ctrl.starts, ctrl.stops)
	}
}

// TestHandleCommandError verifies a failing command does not panic and
// still counts as handled.
func TestHandleCommandError(t *testing.T) {
	ctrl := &fakeController{startErr: errors.New("not configured")}
	handleCommand("recorder", ctrl, "start", "")
	if ctrl.starts != 1 {
		t.Fatalf("expected the failing start to be attempted, got %d", ctrl.starts)
	}
}

// TestStartLabel verifies label extraction from start payloads.
func TestStartLabel(t *testing.T) {
	cases := []struct {
		payload string
		want    string
	}{
		{"", ""},
		{`{"label": "Mythic+ Ara-Kara"}`, "Mythic+ Ara-Kara"},
		{`{"label": ""}`, ""},
		{`{"other": "field"}`, ""},
		{"not json", ""},
	}
	for _, c := range cases {
		if got := startLabel(c.payload); got != c.want {
			t.Errorf("startLabel(%q) = %q, expected %q", c.payload, got, c.want)
		}
	}
}

// TestBrokerURI verifies scheme and port defaulting.
func TestBrokerURI(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"192.168.1.10", "tcp://192.168.1.10:1883"},
		{"192.168.1.10:1884", "tcp://192.168.1.10:1884"},
		{"tcp://192.168.1.10:1883", "tcp://192.168.1.10:1883"},
		{"ws://broker.local:9001", "ws://broker.local:9001"},
	}
	for _, c := range cases {
		if got := brokerURI(c.in); got != c.want {
			t.Errorf("brokerURI(%q) = %q, expected %q", c.in, got, c.want)
		}
	}
}

// TestHostPort verifies probe addresses lose their scheme and gain the
// default port.
func TestHostPort(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"tcp://192.168.1.10:1883", "192.168.1.10:1883"},
		{"192.168.1.10", "192.168.1.10:1883"},
		{"broker.local:1884", "broker.local:1884"},
	}
	for _, c := range cases {
		if got := hostPort(c.in); got != c.want {
			t.Errorf("hostPort(%q) = %q, expected %q", c.in, got, c.want)
		}
	}
}
