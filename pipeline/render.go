/*
DESCRIPTION
  render.go defines the per-output-tick render record the pipeline emits,
  and setupOutputs, which builds the multi-destination encoder those
  records are written to from Config.Outputs, in the manner of
  revid/pipeline.go's setupPipeline: senders that benefit from it are
  wrapped in a pool.Buffer, and the whole destination set is combined
  with ioext.MultiWriteCloser.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ausocean/compositor/pipeline/config"
	"github.com/ausocean/compositor/queue"
	"github.com/ausocean/compositor/scene"
	"github.com/ausocean/utils/ioext"
	"github.com/ausocean/utils/pool"
)

// RenderTick is one line of the pipeline's output stream: the frame
// tuple's presentation time and the flattened layout list the scene
// produced for it.
type RenderTick struct {
	PTS     time.Duration        `json:"pts"`
	Inputs  []queue.InputId      `json:"inputs"`
	Layouts []scene.RenderLayout `json:"layouts"`
}

// encode appends the tick as one line of newline-delimited JSON.
func (t RenderTick) encode(w io.Writer) error {
	b, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("could not marshal render tick: %w", err)
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// setupOutputs builds the combined output destination described by
// cfg.Outputs, wrapping pool-buffered senders (Files, HTTP) and a plain
// fileSender (File) behind a single ioext.MultiWriteCloser. Only the
// HTTP sender reports the bytes it sends to report.
func setupOutputs(cfg config.Config, report func(sent int)) (io.WriteCloser, error) {
	c := cfg
	var dests []io.WriteCloser
	nElements := int(c.PoolCapacity / c.PoolStartElementSize)
	writeTimeout := time.Duration(c.PoolWriteTimeout) * time.Second

	for _, out := range c.Outputs {
		switch out {
		case config.OutputFile:
			dests = append(dests, newFileSender(c.Logger, c.OutputPath, false, c.MaxFileSize))
		case config.OutputFiles:
			pb := pool.NewBuffer(int(c.PoolStartElementSize), nElements, writeTimeout)
			dests = append(dests, newPoolSender(newFileSender(c.Logger, c.OutputPath, true, c.MaxFileSize), c.Logger, pb))
		case config.OutputHTTP:
			pb := pool.NewBuffer(int(c.PoolStartElementSize), nElements, writeTimeout)
			dests = append(dests, newPoolSender(newHTTPSender(c.HTTPAddress, c.Logger, report), c.Logger, pb))
		default:
			return nil, fmt.Errorf("pipeline: unrecognised output %d", out)
		}
	}

	return ioext.MultiWriteCloser(dests...), nil
}
