package server

import (
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
)

// fakeEndpoint records the frames it is sent.
type fakeEndpoint struct {
	id     string
	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func newFakeEndpoint(id string) *fakeEndpoint {
	return &fakeEndpoint{id: id}
}

func (f *fakeEndpoint) ID() string { return f.id }

func (f *fakeEndpoint) Send(frame []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false
	}
	f.frames = append(f.frames, frame)
	return true
}

func (f *fakeEndpoint) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeEndpoint) messages(t *testing.T) []ServerMessage {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]ServerMessage, 0, len(f.frames))
	for _, frame := range f.frames {
		var msg ServerMessage
		if err := json.Unmarshal(frame, &msg); err != nil {
			t.Fatalf("frame %q is not valid JSON: %v", frame, err)
		}
		out = append(out, msg)
	}
	return out
}

// scheduled captures callbacks handed to the hub's timer.
type scheduled struct {
	mu     sync.Mutex
	delays []time.Duration
	funcs  []func()
}

func (s *scheduled) after(d time.Duration, f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays = append(s.delays, d)
	s.funcs = append(s.funcs, f)
}

func (s *scheduled) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.funcs)
}

func testLogger() *slog.Logger {
	return logs.GetLoggerFromLevel(slog.LevelDebug)
}

// newTestHub returns a hub whose loop is not running, so handlers can be
// driven synchronously, and whose timer is captured.
func newTestHub(t *testing.T, cfg Config, responder Responder) (*Hub, *scheduled) {
	t.Helper()
	hub := NewHub(cfg, testLogger(), responder)
	timer := &scheduled{}
	hub.after = timer.after
	t.Cleanup(hub.cancel)
	return hub, timer
}

type staticResponder string

func (s staticResponder) Reply(string) string { return string(s) }
