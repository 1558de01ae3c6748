/*
DESCRIPTION
  queue_test.go provides testing for functionality in queue.go.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package queue

import (
	"testing"
	"time"
)

func TestRegisterInputRejectsDuplicateId(t *testing.T) {
	q := NewQueue(Config{Framerate: Rate{Num: 25, Den: 1}})
	ch := make(chan PipelineEvent)
	if err := q.RegisterInput("a", ch, InputConfig{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := q.RegisterInput("a", ch, InputConfig{}); err == nil {
		t.Fatalf("expected error registering a duplicate input id")
	}
}

// newPacedQueue builds a 10fps queue with a required input already holding
// frames at pts 0/100/200ms (as if decoded well ahead of real time) plus a
// never-ready optional input, so allReady never masks the pacing/deadline
// decision. The first tick is consumed immediately (tick 0 always clears
// pacing trivially, since its pacing instant is the queue's own origin).
func newPacedQueue(t *testing.T, aheadOfTime bool) (*Queue, time.Time) {
	t.Helper()
	q := NewQueue(Config{
		Framerate:                 Rate{Num: 10, Den: 1},
		DisableAutoBufferDuration: true,
		AheadOfTime:               aheadOfTime,
	})
	origin := q.queueStart

	reqCh := make(chan PipelineEvent, 3)
	reqCh <- PipelineEvent{Frame: Frame{PTS: 0}}
	reqCh <- PipelineEvent{Frame: Frame{PTS: 100 * time.Millisecond}}
	reqCh <- PipelineEvent{Frame: Frame{PTS: 200 * time.Millisecond}}
	if err := q.RegisterInput("req", reqCh, InputConfig{Required: true, BufferDuration: time.Second}); err != nil {
		t.Fatalf("RegisterInput(req): %v", err)
	}
	optCh := make(chan PipelineEvent)
	if err := q.RegisterInput("opt", optCh, InputConfig{Required: false}); err != nil {
		t.Fatalf("RegisterInput(opt): %v", err)
	}

	if _, ok := q.Tick(origin); !ok {
		t.Fatalf("expected tick 0 to emit immediately")
	}
	return q, origin
}

func TestTickAheadOfTimeBypassesPacing(t *testing.T) {
	q, origin := newPacedQueue(t, true)

	// Tick 1's pacing instant is origin+100ms; supplying "now" == origin
	// (no real time elapsed) should still emit because AheadOfTime is set.
	tup, ok := q.Tick(origin)
	if !ok {
		t.Fatalf("expected AheadOfTime to bypass pacing for tick 1")
	}
	if tup.PTS != 100*time.Millisecond {
		t.Errorf("tuple PTS = %v, want 100ms", tup.PTS)
	}
	if f, ok := tup.Frames["req"]; !ok || f.PTS != 100*time.Millisecond {
		t.Errorf("req frame = %+v, ok=%v, want pts 100ms", f, ok)
	}
}

func TestTickWithholdsBeforePacingWithoutAheadOfTime(t *testing.T) {
	q, origin := newPacedQueue(t, false)

	if _, ok := q.Tick(origin); ok {
		t.Fatalf("did not expect tick 1 before its pacing instant without AheadOfTime")
	}

	tup, ok := q.Tick(origin.Add(150 * time.Millisecond))
	if !ok {
		t.Fatalf("expected tick 1 once real time passes its pacing instant")
	}
	if tup.PTS != 100*time.Millisecond {
		t.Errorf("tuple PTS = %v, want 100ms", tup.PTS)
	}
}

func TestTickNotReadyWithoutRequiredInput(t *testing.T) {
	q := NewQueue(Config{Framerate: Rate{Num: 1, Den: 1}, NeverDropOutput: true})
	ch := make(chan PipelineEvent)
	if err := q.RegisterInput("main", ch, InputConfig{Required: true}); err != nil {
		t.Fatalf("RegisterInput: %v", err)
	}

	_, ok := q.Tick(time.Now())
	if ok {
		t.Fatalf("did not expect a tick: required input has no frame and NeverDropOutput suppresses the deadline")
	}
}

func TestTickEmitsAtDeadlineWithPartialData(t *testing.T) {
	q := NewQueue(Config{
		Framerate:             Rate{Num: 1, Den: 1},
		DefaultBufferDuration: 10 * time.Millisecond,
	})

	reqCh := make(chan PipelineEvent) // never produces a frame
	if err := q.RegisterInput("req", reqCh, InputConfig{Required: true}); err != nil {
		t.Fatalf("RegisterInput: %v", err)
	}

	if _, ok := q.Tick(q.queueStart); ok {
		t.Fatalf("did not expect a tick before the deadline margin has elapsed")
	}

	tup, ok := q.Tick(q.queueStart.Add(20 * time.Millisecond))
	if !ok {
		t.Fatalf("expected the deadline to force emission of tick 0")
	}
	if len(tup.Frames) != 0 {
		t.Errorf("expected an empty frame map, got %v", tup.Frames)
	}
}

func TestUnregisterInputRemovesIt(t *testing.T) {
	q := NewQueue(Config{Framerate: Rate{Num: 1, Den: 1}})
	ch := make(chan PipelineEvent)
	q.RegisterInput("a", ch, InputConfig{})
	q.UnregisterInput("a")
	if err := q.RegisterInput("a", ch, InputConfig{}); err != nil {
		t.Fatalf("expected re-registration to succeed after unregister, got: %v", err)
	}
}

func TestCloseStopsTicks(t *testing.T) {
	q := NewQueue(Config{Framerate: Rate{Num: 1, Den: 1}})
	ch := make(chan PipelineEvent, 1)
	ch <- PipelineEvent{Frame: Frame{PTS: 0}}
	q.RegisterInput("a", ch, InputConfig{Required: true, BufferDuration: time.Second})
	q.Close()
	if _, ok := q.Tick(time.Now()); ok {
		t.Fatalf("did not expect a tick after Close")
	}
}
