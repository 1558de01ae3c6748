/*
DESCRIPTION
  queue.go implements the input queue that aligns N independent input
  streams onto a single output cadence, per spec section 4.1.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package queue

import (
	"fmt"
	"sync"
	"time"

	"github.com/ausocean/utils/logging"
)

// Rate is an output framerate expressed as a fraction, num/den frames per
// second.
type Rate struct {
	Num, Den int
}

// tickDuration returns the wall-clock duration of one output tick.
func (r Rate) tickDuration() time.Duration {
	return time.Duration(float64(r.Den) / float64(r.Num) * float64(time.Second))
}

// Config configures a Queue.
type Config struct {
	Framerate Rate

	// AheadOfTime allows emitting tick k before its wall-clock pacing
	// instant, provided required-ready holds. Useful for offline batch
	// rendering where inputs can be decoded faster than real time.
	AheadOfTime bool

	// NeverDropOutput suppresses the deadline: the queue never emits a
	// tick using partial data, instead waiting indefinitely for
	// required-ready. Mandatory for deterministic offline pipelines.
	NeverDropOutput bool

	// DisableAutoBufferDuration turns off deriving an input's
	// BufferDuration from its observed inter-frame gap when the input's
	// own BufferDuration is left zero. Auto-detection is on by default.
	DisableAutoBufferDuration bool

	// DefaultBufferDuration is the smallest deadline margin: the margin
	// applied is the larger of this and every registered input's
	// BufferDuration (see deadlineMargin).
	DefaultBufferDuration time.Duration

	Logger logging.Logger
}

// Queue aligns independent input streams onto a single output cadence,
// producing one FrameTuple per output tick.
type Queue struct {
	cfg        Config
	queueStart time.Time

	mu     sync.Mutex
	inputs map[InputId]*inputState
	tick   int64
	closed bool
}

// NewQueue returns a Queue ready to accept registered inputs. The
// queue's wall-clock origin (queue_start) is fixed at construction.
func NewQueue(cfg Config) *Queue {
	return &Queue{
		cfg:        cfg,
		queueStart: time.Now(),
		inputs:     make(map[InputId]*inputState),
	}
}

// RegisterInput adds a new input to the queue, reading PipelineEvents
// from recv. It is an error to register an id that is already present.
func (q *Queue) RegisterInput(id InputId, recv <-chan PipelineEvent, cfg InputConfig) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.inputs[id]; ok {
		return fmt.Errorf("queue: input %q already registered", id)
	}
	q.inputs[id] = newInputState(recv, cfg)
	if q.cfg.Logger != nil {
		q.cfg.Logger.Debug("registered input", "id", string(id), "required", cfg.Required)
	}
	return nil
}

// UnregisterInput removes an input from the queue. It is a no-op if id
// is not currently registered.
func (q *Queue) UnregisterInput(id InputId) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.inputs, id)
}

// Stats returns the drop/delivery counters for a registered input.
func (q *Queue) Stats(id InputId) (InputStats, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	s, ok := q.inputs[id]
	if !ok {
		return InputStats{}, false
	}
	return s.stats, true
}

// deadlineMargin is the per-tick deadline's buffer_duration term: the
// largest of Config.DefaultBufferDuration and the BufferDuration of every
// registered input (explicit, or auto-detected once committed).
func (q *Queue) deadlineMargin() time.Duration {
	margin := q.cfg.DefaultBufferDuration
	for _, s := range q.inputs {
		if s.cfg.BufferDuration > margin {
			margin = s.cfg.BufferDuration
		}
	}
	return margin
}

// Tick attempts to produce the FrameTuple for the next output tick,
// given the current wall-clock time now. It returns ok == false if the
// tick is not yet ready to be emitted (the caller should call Tick again
// later, e.g. on its next polling interval).
func (q *Queue) Tick(now time.Time) (FrameTuple, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed || len(q.inputs) == 0 {
		return FrameTuple{}, false
	}

	bufferPTS := time.Duration(q.tick) * q.cfg.Framerate.tickDuration()

	for _, s := range q.inputs {
		s.drain(now, !q.cfg.DisableAutoBufferDuration)
	}

	requiredReady := true
	allReady := true
	for _, s := range q.inputs {
		p := q.inputPTS(s, bufferPTS, now)
		ready := s.ready(p)
		if s.cfg.Required && !ready {
			requiredReady = false
		}
		if !ready {
			allReady = false
		}
	}

	pacingInstant := q.queueStart.Add(bufferPTS)
	pastPacing := q.cfg.AheadOfTime || !now.Before(pacingInstant)

	deadline := q.queueStart.Add(bufferPTS).Add(q.deadlineMargin())
	pastDeadline := !q.cfg.NeverDropOutput && !now.Before(deadline)

	switch {
	case requiredReady && pastPacing:
	case allReady:
	case pastDeadline:
	default:
		return FrameTuple{}, false
	}

	frames := make(map[InputId]Frame, len(q.inputs))
	for id, s := range q.inputs {
		p := q.inputPTS(s, bufferPTS, now)
		f, ok := s.selectFrame(p)
		if !ok {
			continue
		}
		if s.cfg.Offset != nil {
			f.PTS += *s.cfg.Offset
		}
		frames[id] = f
	}

	q.tick++
	return FrameTuple{PTS: bufferPTS, Frames: frames}, true
}

// inputPTS converts an output-cadence tick PTS into an input's own
// timeline, per spec section 4.1's frame-selection step 2.
func (q *Queue) inputPTS(s *inputState, bufferPTS time.Duration, now time.Time) time.Duration {
	if s.cfg.Offset != nil {
		return bufferPTS - *s.cfg.Offset
	}
	if !s.started {
		return bufferPTS
	}
	return (q.queueStart.Add(bufferPTS)).Sub(s.startWall)
}

// Finished reports whether every required input has reported EOS with
// an empty buffer, meaning no further ticks can usefully be produced.
func (q *Queue) Finished() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, s := range q.inputs {
		if !s.cfg.Required {
			continue
		}
		if !s.eosReceived || len(s.buf) != 0 {
			return false
		}
	}
	return true
}

// Close marks the queue as finished; subsequent Tick calls return
// ok == false.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
}
