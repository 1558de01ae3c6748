/*
DESCRIPTION
  scheduler.go implements the scheduled-events mechanism of spec section
  6: operations carry a schedule_time_ms measured on the queue's own
  pts clock; an ordered event list is drained whenever its head's
  scheduled time is <= the current queue pts.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package api

import (
	"sort"
	"sync"
	"time"

	"github.com/ausocean/utils/logging"
)

// scheduledOp is one entry in a Scheduler's event list.
type scheduledOp struct {
	at time.Duration
	fn func()
}

// Scheduler holds control-plane operations deferred to a future point on
// the queue's pts timeline, draining them in scheduled-time order as the
// pipeline's run loop advances.
type Scheduler struct {
	log logging.Logger

	mu   sync.Mutex
	ops  []scheduledOp
}

// NewScheduler returns an empty Scheduler.
func NewScheduler(log logging.Logger) *Scheduler {
	return &Scheduler{log: log}
}

// Schedule queues fn to run the next time Drain is called with a pts >=
// at.
func (s *Scheduler) Schedule(at time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = append(s.ops, scheduledOp{at: at, fn: fn})
	sort.Slice(s.ops, func(i, j int) bool { return s.ops[i].at < s.ops[j].at })
}

// Drain runs, in scheduled-time order, every queued operation whose
// scheduled time has passed at pts, then removes them from the list.
func (s *Scheduler) Drain(pts time.Duration) {
	s.mu.Lock()
	var due []scheduledOp
	i := 0
	for i < len(s.ops) && s.ops[i].at <= pts {
		due = append(due, s.ops[i])
		i++
	}
	s.ops = s.ops[i:]
	s.mu.Unlock()

	for _, op := range due {
		s.log.Debug("running scheduled operation", "pts", int64(pts))
		op.fn()
	}
}

// Pending reports how many operations are still queued.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ops)
}
