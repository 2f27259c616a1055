package adaptive

import "time"

// SampleInterval is the period of the buffer trend sampler.
const SampleInterval = time.Second

const (
	// smallGrowth is the largest buffer growth per tick still considered steady.
	smallGrowth = 1.0
	// healthyBuffer is the buffered lead, in seconds, above which steady growth is ignored.
	healthyBuffer = 5.0
)

// Sampler turns successive buffered-end readings into a growth trend.
type Sampler struct {
	history []float64
}

// Reset discards collected samples.
func (s *Sampler) Reset() {
	s.history = s.history[:0]
}

// Observe records a buffered-end reading and returns the trend delta when it warrants a decision.
// Shrinking buffers never yield a signal.
func (s *Sampler) Observe(bufferedEnd, position float64) (delta float64, ok bool) {
	s.history = append(s.history, bufferedEnd)
	if len(s.history) > 2 {
		s.history = s.history[len(s.history)-2:]
	}

	if len(s.history) < 2 {
		return 0, false
	}

	delta = s.history[1] - s.history[0]
	if delta == 0 {
		return 0, false
	}

	bufferLength := bufferedEnd - position
	if delta > 0 && delta <= smallGrowth && bufferLength > healthyBuffer {
		return 0, false
	}

	if delta < 0 {
		return 0, false
	}

	return delta, true
}
