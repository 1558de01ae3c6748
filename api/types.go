/*
DESCRIPTION
  types.go defines the semantic control-plane operations this engine
  provides: register/unregister input, register/unregister image, and
  update-scene. Output, shader and web-renderer registration are not
  provided. The concrete wire protocol these ride over is out of this
  engine's scope; Server exposes them as plain Go methods a file watcher
  (scenewatch.go), another handler, or a test can call directly.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

// Package api exposes the compositor pipeline's control-plane
// operations: registering inputs and images, and pushing scene updates,
// with optional scheduling of input operations and file-based hot-reload
// for local development. It has no shader or web-renderer registration.
package api

import (
	"fmt"
	"io"
	"time"

	"github.com/ausocean/compositor/pipeline"
	"github.com/ausocean/compositor/queue"
	"github.com/ausocean/compositor/scene"
	"github.com/ausocean/utils/logging"
)

// Server is the compositor's control-plane surface, wrapping a running
// pipeline.Pipeline with the operations spec section 6 describes.
type Server struct {
	Pipeline *pipeline.Pipeline
	Log      logging.Logger

	images    *ImageRegistry
	scheduler *Scheduler
}

// NewServer returns a Server driving p. The server's scheduled
// operations (see Scheduler) are drained against p's own output-tick PTS
// clock, per spec section 6: "the dispatcher drains the list whenever
// its head's time is <= queue pts".
func NewServer(p *pipeline.Pipeline, log logging.Logger) *Server {
	s := &Server{
		Pipeline:  p,
		Log:       log,
		images:    NewImageRegistry(log),
		scheduler: NewScheduler(log),
	}
	p.SetTickHook(s.scheduler.Drain)
	return s
}

// RegisterInputRequest registers a decoded-frame input, optionally
// deferred to a scheduled queue PTS.
type RegisterInputRequest struct {
	Id     queue.InputId
	Recv   <-chan queue.PipelineEvent
	Config queue.InputConfig

	// ScheduleTimeMs, if non-zero, is the queue PTS (in milliseconds) at
	// which this input is registered, per spec section 6's scheduled-
	// event semantics; zero means immediately.
	ScheduleTimeMs int64
}

// RegisterInput registers req.Id immediately, or at req.ScheduleTimeMs
// on the queue's own clock if non-zero.
func (s *Server) RegisterInput(req RegisterInputRequest) error {
	do := func() {
		if err := s.Pipeline.RegisterInput(req.Id, req.Recv, req.Config); err != nil {
			s.Log.Warning("scheduled input registration failed", "id", string(req.Id), "error", err.Error())
		}
	}
	if req.ScheduleTimeMs == 0 {
		do()
		return nil
	}
	s.scheduler.Schedule(time.Duration(req.ScheduleTimeMs)*time.Millisecond, do)
	return nil
}

// UnregisterInput removes id from the pipeline, optionally deferred to a
// scheduled queue PTS.
func (s *Server) UnregisterInput(id queue.InputId, scheduleTimeMs int64) {
	do := func() { s.Pipeline.UnregisterInput(id) }
	if scheduleTimeMs == 0 {
		do()
		return
	}
	s.scheduler.Schedule(time.Duration(scheduleTimeMs)*time.Millisecond, do)
}

// RegisterImage decodes and validates an image at path, making it
// available to Image components under id.
func (s *Server) RegisterImage(id scene.RendererId, path string) error {
	return s.images.Register(id, path)
}

// UnregisterImage removes a previously registered image.
func (s *Server) UnregisterImage(id scene.RendererId) { s.images.Unregister(id) }

// Image returns a previously registered image's decoded dimensions.
func (s *Server) Image(id scene.RendererId) (width, height int, ok bool) {
	return s.images.Get(id)
}

// UpdateSceneRequest carries one {output_id, root} pair from spec
// section 6's update-scene operation. This engine renders a single
// output, so OutputId is accepted but not checked; it only appears in
// error messages.
type UpdateSceneRequest struct {
	OutputId string
	Root     scene.Component
}

// UpdateScene applies every update in reqs, in order, stopping at and
// returning the first validation error.
func (s *Server) UpdateScene(reqs []UpdateSceneRequest) error {
	for _, req := range reqs {
		if req.Root == nil {
			return fmt.Errorf("api: update-scene: nil root for output %q", req.OutputId)
		}
		if err := s.Pipeline.UpdateScene(req.Root); err != nil {
			return fmt.Errorf("api: update-scene for output %q: %w", req.OutputId, err)
		}
	}
	return nil
}

// UpdateSceneFromJSON decodes a scene-spec JSON document (see
// scenejson.go) and applies it as a single-output scene update.
func (s *Server) UpdateSceneFromJSON(r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("api: could not read scene document: %w", err)
	}
	root, err := DecodeScene(b)
	if err != nil {
		return err
	}
	return s.UpdateScene([]UpdateSceneRequest{{OutputId: "default", Root: root}})
}
