package memory

import "sync"

// ScriptedNoise is a ports.NoiseField that replays a fixed list of values in
// call order, cycling when exhausted. It ignores coordinates and records them.
type ScriptedNoise struct {
	mu     sync.Mutex
	values []float64
	next   int
	calls  [][2]float64
}

// NewScriptedNoise returns a field that yields values in order.
// With no values it always returns 0.
func NewScriptedNoise(values ...float64) *ScriptedNoise {
	return &ScriptedNoise{values: values}
}

// Sample returns the next scripted value.
func (s *ScriptedNoise) Sample(x, y float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, [2]float64{x, y})
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// Calls returns the coordinates seen so far.
func (s *ScriptedNoise) Calls() [][2]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][2]float64, len(s.calls))
	copy(out, s.calls)
	return out
}
