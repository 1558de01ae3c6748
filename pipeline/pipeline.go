/*
DESCRIPTION
  pipeline.go wires the queue, scene and h264 packages together into a
  long-running compositor, in the shape of revid.Revid: a struct holding
  a Config, a running flag, a wait group for its background goroutines,
  an async error channel, and Start/Stop/Update lifecycle methods mirrored
  from revid/revid.go and revid/pipeline.go.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

// Package pipeline wires a compositor's input queue, scene flattening and
// H.264 decoder front-end together under one Config, playing the role
// revid plays in the teacher tree.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ausocean/compositor/pipeline/config"
	"github.com/ausocean/compositor/queue"
	"github.com/ausocean/compositor/scene"
	"github.com/ausocean/utils/bitrate"
)

// sceneHolder lets UpdateScene hot-swap the tree a running pipeline
// flattens without a lock on the render loop's hot path.
type sceneHolder struct {
	v atomic.Value // holds scene.Component
}

func (h *sceneHolder) Store(c scene.Component) { h.v.Store(&c) }
func (h *sceneHolder) Load() scene.Component {
	v, _ := h.v.Load().(*scene.Component)
	if v == nil {
		return nil
	}
	return *v
}

// Pipeline is a running compositor: N registered inputs paced by a
// queue.Queue, flattened every output tick against the currently
// registered scene, and written to the configured output sinks.
type Pipeline struct {
	cfg     config.Config
	q       *queue.Queue
	scene   sceneHolder
	state   scene.State
	out     io.WriteCloser
	bitrate bitrate.Calculator

	sources    map[queue.InputId]context.CancelFunc
	fileInputs map[queue.InputId]*FileInput

	// onTick, if set, is called with each output tick's PTS before that
	// tick is flattened, letting a control plane (see api.Scheduler)
	// drain PTS-scheduled operations against the queue's own clock
	// rather than wall time, per spec section 6.
	onTick func(time.Duration)

	running bool
	wg      sync.WaitGroup
	stop    chan struct{}
	err     chan error
}

// New returns a Pipeline configured per cfg. cfg must already be valid;
// callers should call cfg.Validate first.
func New(cfg config.Config) (*Pipeline, error) {
	p := &Pipeline{
		cfg: cfg,
		q: queue.NewQueue(queue.Config{
			Framerate:                 queue.Rate{Num: int(cfg.FrameRateNum), Den: int(cfg.FrameRateDen)},
			AheadOfTime:               cfg.AheadOfTime,
			NeverDropOutput:           cfg.NeverDropOutput,
			DisableAutoBufferDuration: cfg.DisableAutoBufferDuration,
			DefaultBufferDuration:     cfg.DefaultBufferDuration,
			Logger:                    cfg.Logger,
		}),
		state:      scene.NewState(),
		sources:    map[queue.InputId]context.CancelFunc{},
		fileInputs: map[queue.InputId]*FileInput{},
		stop:       make(chan struct{}),
		err:        make(chan error, 8),
	}
	p.scene.Store(&scene.View{})

	out, err := setupOutputs(cfg, p.bitrate.Report)
	if err != nil {
		return nil, fmt.Errorf("could not set up pipeline outputs: %w", err)
	}
	p.out = out

	return p, nil
}

// RegisterInput registers a decoded-frame input with the underlying
// queue, matching queue.Queue.RegisterInput.
func (p *Pipeline) RegisterInput(id queue.InputId, recv <-chan queue.PipelineEvent, icfg queue.InputConfig) error {
	return p.q.RegisterInput(id, recv, icfg)
}

// RegisterH264Input registers an input whose source is a raw Annex-B
// byte stream: it is run through the H.264 decoder front-end (see
// h264source.go) and the resulting placeholder-decoded frames are
// registered with the queue under id.
func (p *Pipeline) RegisterH264Input(id queue.InputId, r io.Reader, icfg queue.InputConfig) error {
	src, recv := newH264FrameSource(p.cfg.Logger)
	if err := p.q.RegisterInput(id, recv, icfg); err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.sources[id] = cancel
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := src.Run(ctx, r); err != nil && err != context.Canceled {
			p.err <- fmt.Errorf("h264 input %q: %w", id, err)
		}
	}()
	return nil
}

// RegisterH264FileInput registers an input whose source is a recorded
// H.264 Annex-B file on disk, optionally looping back to the start on
// EOF. The file is opened immediately and closed when id is
// unregistered.
func (p *Pipeline) RegisterH264FileInput(id queue.InputId, path string, loop bool, icfg queue.InputConfig) error {
	in := NewFileInput(p.cfg.Logger, path, loop)
	if err := in.Open(); err != nil {
		return err
	}
	if err := p.RegisterH264Input(id, in, icfg); err != nil {
		in.Close()
		return err
	}
	p.fileInputs[id] = in
	return nil
}

// UnregisterInput removes an input, cancelling its decode goroutine if
// it has one.
func (p *Pipeline) UnregisterInput(id queue.InputId) {
	p.q.UnregisterInput(id)
	if cancel, ok := p.sources[id]; ok {
		cancel()
		delete(p.sources, id)
	}
	if in, ok := p.fileInputs[id]; ok {
		in.Close()
		delete(p.fileInputs, id)
	}
}

// UpdateScene validates root and, if valid, makes it the tree subsequent
// output ticks flatten against.
func (p *Pipeline) UpdateScene(root scene.Component) error {
	if err := scene.Validate(root); err != nil {
		return fmt.Errorf("rejected scene update: %w", err)
	}
	p.scene.Store(&root)
	return nil
}

// SetTickHook installs fn to be called with each output tick's PTS
// before that tick is flattened.
func (p *Pipeline) SetTickHook(fn func(time.Duration)) { p.onTick = fn }

// Bitrate reports the pipeline's current output throughput, matching
// revid.Revid.Bitrate.
func (p *Pipeline) Bitrate() float64 { return p.bitrate.Bitrate() }

// Start begins the pipeline's output tick loop. It is an error to Start
// an already-running Pipeline.
func (p *Pipeline) Start() error {
	if p.running {
		return fmt.Errorf("pipeline already running")
	}
	p.running = true
	p.stop = make(chan struct{})
	p.wg.Add(1)
	go p.run()
	go p.handleErrors()
	return nil
}

// Stop halts the output tick loop and closes the output sinks, waiting
// for all background goroutines to finish, matching revid.Revid.Stop's
// shape.
func (p *Pipeline) Stop() error {
	if !p.running {
		return nil
	}
	close(p.stop)
	for id, cancel := range p.sources {
		cancel()
		delete(p.sources, id)
	}
	for id, in := range p.fileInputs {
		in.Close()
		delete(p.fileInputs, id)
	}
	p.q.Close()
	p.wg.Wait()
	p.running = false
	return p.out.Close()
}

// Update applies a set of control-plane variable changes to the
// pipeline's stored config. The queue and output sinks built in New keep
// the settings they were built with; the output loop reads the frame
// rate, Width and Height once, when Start launches it.
func (p *Pipeline) Update(vars map[string]string) {
	p.cfg.Update(vars)
}

func (p *Pipeline) handleErrors() {
	for {
		select {
		case err := <-p.err:
			if err != nil {
				p.cfg.Logger.Error("async pipeline error", "error", err.Error())
			}
		case <-p.stop:
			return
		}
	}
}

// run is the pipeline's output tick loop: poll the queue at the output
// cadence, flatten the current scene against whatever frame tuple is
// ready, and write the resulting RenderTick to the output sinks.
func (p *Pipeline) run() {
	defer p.wg.Done()
	tickDur := time.Duration(float64(p.cfg.FrameRateDen) / float64(p.cfg.FrameRateNum) * float64(time.Second))
	pollInterval := tickDur / 4
	if pollInterval <= 0 {
		pollInterval = time.Millisecond
	}
	resolution := scene.Resolution{Width: int(p.cfg.Width), Height: int(p.cfg.Height)}

	t := time.NewTicker(pollInterval)
	defer t.Stop()
	for {
		select {
		case <-p.stop:
			return
		case now := <-t.C:
			tuple, ok := p.q.Tick(now)
			if !ok {
				if p.q.Finished() {
					return
				}
				continue
			}
			if p.onTick != nil {
				p.onTick(tuple.PTS)
			}
			root := p.scene.Load()
			if root == nil {
				continue
			}
			layouts, next := scene.Flatten(root, resolution, p.state, now)
			p.state = next

			ids := make([]queue.InputId, 0, len(tuple.Frames))
			for id := range tuple.Frames {
				ids = append(ids, id)
			}
			rec := RenderTick{PTS: tuple.PTS, Inputs: ids, Layouts: layouts}
			if err := rec.encode(p.out); err != nil {
				p.err <- fmt.Errorf("could not write render tick: %w", err)
			}
		}
	}
}
