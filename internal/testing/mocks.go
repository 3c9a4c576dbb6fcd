package testing

import (
	"sync"
	"testing"
)

// ScriptedSource hands out one scripted read per call. Once the script is
// exhausted every read reports no data, or Err when it is set.
type ScriptedSource struct {
	mu     sync.Mutex
	reads  [][]byte
	calls  int
	closed bool

	Err error
}

func (s *ScriptedSource) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(s.reads) == 0 {
		if s.Err != nil {
			return 0, s.Err
		}
		return 0, nil
	}
	next := s.reads[0]
	s.reads = s.reads[1:]
	return copy(p, next), nil
}

func (s *ScriptedSource) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// Calls returns how many reads were made so far.
func (s *ScriptedSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *ScriptedSource) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// CreateScriptedSource returns a source replaying reads in order. A nil entry
// is an idle tick.
func CreateScriptedSource(t *testing.T, reads ...[]byte) *ScriptedSource {
	t.Helper()
	return &ScriptedSource{reads: reads}
}

// Packet builds one raw Attack3 report.
func Packet(x, y, z, lo, hi byte) []byte {
	return []byte{x, y, z, lo, hi}
}
