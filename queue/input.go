/*
DESCRIPTION
  input.go implements the per-input state a Queue maintains: the ordered
  frame buffer, the start-time commit / PTS-origin processor, and the
  frame-selection algorithm of spec section 4.1.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package queue

import "time"

// frameEpsilon is the slack applied when deciding whether a buffered
// frame is close enough to a requested PTS to be considered "arrived".
const frameEpsilon = time.Millisecond

// InputConfig configures one input registered with a Queue.
type InputConfig struct {
	// Required, if true, means a tick cannot be emitted until this input
	// has a frame covering the tick or has sent EOS.
	Required bool

	// Offset, if non-nil, is a deterministic delay from output time zero:
	// the input contributes nothing before tick_pts >= *Offset, and its
	// frame PTS values are shifted by *Offset on delivery.
	Offset *time.Duration

	// BufferDuration is how long the processor accumulates frames before
	// committing this input's start_time. Zero means derive it
	// automatically from the observed inter-frame gap, provided the
	// owning Queue's Config.DisableAutoBufferDuration is left false (the
	// default); if that is set, zero means commit on the first frame.
	BufferDuration time.Duration
}

// InputStats reports how many frames an input has had delivered in a
// FrameTuple versus dropped during pick-closest eviction.
type InputStats struct {
	Dropped   uint64
	Delivered uint64
}

// inputState is a Queue's private bookkeeping for one registered input.
type inputState struct {
	cfg  InputConfig
	recv <-chan PipelineEvent

	// buf holds frames not yet delivered, ordered by PTS ascending,
	// PTS relative to this input's own timeline (i.e. the timeline
	// startWall anchors to zero).
	buf []Frame

	eosReceived bool

	started   bool
	startWall time.Time

	// staging holds frames seen before start_time is committed, used only
	// when auto-detecting BufferDuration from the observed inter-frame gap.
	staging       []Frame
	stagingArrival time.Time

	stats InputStats
}

func newInputState(recv <-chan PipelineEvent, cfg InputConfig) *inputState {
	return &inputState{cfg: cfg, recv: recv}
}

// drain reads every event currently queued on recv without blocking,
// updating the input's buffer, EOS state, and start-time commit.
func (s *inputState) drain(now time.Time, autoBufferDuration bool) {
	for {
		select {
		case ev, ok := <-s.recv:
			if !ok {
				s.eosReceived = true
				return
			}
			if ev.EOS {
				s.eosReceived = true
				continue
			}
			s.push(ev.Frame, now, autoBufferDuration)
		default:
			return
		}
	}
}

// push accepts one raw frame from the input's receiver, committing
// start_time the first time enough information is available.
func (s *inputState) push(f Frame, now time.Time, autoBufferDuration bool) {
	if s.started {
		s.buf = append(s.buf, f)
		return
	}

	if s.cfg.BufferDuration == 0 && autoBufferDuration {
		if len(s.staging) == 0 {
			s.stagingArrival = now
		}
		s.staging = append(s.staging, f)
		if len(s.staging) < 2 {
			return
		}
		gap := s.staging[1].PTS - s.staging[0].PTS
		if gap < 0 {
			gap = 0
		}
		s.cfg.BufferDuration = gap
		s.commit(s.staging[0], s.stagingArrival)
		s.buf = append(s.buf, s.staging[1:]...)
		s.staging = nil
		return
	}

	s.commit(f, now)
	s.buf = append(s.buf, f)
}

// commit fixes this input's start_time: the wall-clock instant associated
// with this input's PTS 0, derived by backing off from first's own PTS.
func (s *inputState) commit(first Frame, arrival time.Time) {
	s.startWall = arrival.Add(-first.PTS)
	s.started = true
}

// ready reports whether this input is ready for a tick whose per-input
// PTS is p, per spec section 4.1's Readiness rules.
func (s *inputState) ready(p time.Duration) bool {
	if s.cfg.Offset != nil && *s.cfg.Offset > p {
		return true
	}
	if s.eosReceived && len(s.buf) == 0 {
		return true
	}
	if len(s.buf) == 0 {
		return s.eosReceived
	}
	return s.buf[len(s.buf)-1].PTS >= p
}

// selectFrame implements the frame-selection algorithm: drop everything
// older than the closest frame to p, then return the closest frame if
// it's within frameEpsilon of having arrived.
func (s *inputState) selectFrame(p time.Duration) (Frame, bool) {
	if s.cfg.Offset != nil && *s.cfg.Offset > p {
		return Frame{}, false
	}
	if len(s.buf) == 0 {
		return Frame{}, false
	}

	best := 0
	bestDist := absDuration(s.buf[0].PTS - p)
	for i := 1; i < len(s.buf); i++ {
		d := absDuration(s.buf[i].PTS - p)
		if d < bestDist {
			best, bestDist = i, d
		} else {
			// buf is PTS-ascending, so once distance stops improving it
			// will only get worse.
			break
		}
	}

	s.stats.Dropped += uint64(best)
	s.buf = s.buf[best:]

	head := s.buf[0]
	if head.PTS < p-frameEpsilon {
		return Frame{}, false
	}

	s.buf = s.buf[1:]
	s.stats.Delivered++
	return head, true
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
