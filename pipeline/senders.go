/*
DESCRIPTION
  senders.go implements the pipeline's output sinks: small io.WriteCloser
  adapters the render loop's encoder writes its per-tick stream to. The
  shape follows revid/senders.go: a plain fileSender for direct disk
  writes, and a pool-buffered sender for destinations (Files, HTTP) that
  benefit from being decoupled from the render loop by a bounded ring
  buffer, reusing github.com/ausocean/utils/pool exactly as
  revid/senders.go's mtsSender does, minus the MPEG-TS-specific clip
  batching and discontinuity repair that has no analogue here.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/ausocean/utils/pool"
)

// fileSender writes each Write directly to disk. Setting multiFile
// starts a new timestamped file per write; otherwise all writes append
// to one file, rotating once maxFileSize is exceeded.
type fileSender struct {
	file        *os.File
	multiFile   bool
	maxFileSize uint
	path        string
	log         logging.Logger
}

func newFileSender(l logging.Logger, path string, multiFile bool, maxFileSize uint) *fileSender {
	return &fileSender{path: path, multiFile: multiFile, maxFileSize: maxFileSize, log: l}
}

func (s *fileSender) Write(d []byte) (int, error) {
	if s.maxFileSize != 0 && s.file != nil {
		info, err := s.file.Stat()
		if err != nil {
			return 0, fmt.Errorf("could not stat output file: %w", err)
		}
		if uint(info.Size())+uint(len(d)) > s.maxFileSize {
			s.log.Debug("output file reached max size, rotating")
			s.file.Close()
			s.file = nil
		}
	}

	if s.file == nil {
		name := s.path + time.Now().Format("2006-01-02_15-04-05.000")
		f, err := os.Create(name)
		if err != nil {
			return 0, fmt.Errorf("could not create output file: %w", err)
		}
		s.file = f
	}

	n, err := s.file.Write(d)
	if s.multiFile {
		s.file.Close()
		s.file = nil
	}
	return n, err
}

func (s *fileSender) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}

// poolSender decouples the render loop from a slower downstream dst by
// buffering writes through a pool.Buffer, draining it on a background
// goroutine, in the manner of revid/senders.go's mtsSender.output.
type poolSender struct {
	dst  io.WriteCloser
	pool *pool.Buffer
	log  logging.Logger
	done chan struct{}
	wg   sync.WaitGroup
}

const poolReadTimeout = 1 * time.Second

func newPoolSender(dst io.WriteCloser, log logging.Logger, rb *pool.Buffer) *poolSender {
	s := &poolSender{dst: dst, pool: rb, log: log, done: make(chan struct{})}
	s.wg.Add(1)
	go s.output()
	return s
}

func (s *poolSender) output() {
	defer s.wg.Done()
	var chunk *pool.Chunk
	for {
		select {
		case <-s.done:
			return
		default:
		}
		if chunk == nil {
			var err error
			chunk, err = s.pool.Next(poolReadTimeout)
			switch err {
			case nil:
			case pool.ErrTimeout:
				continue
			default:
				s.log.Warning("pool sender read error", "error", err.Error())
				continue
			}
		}
		if _, err := s.dst.Write(chunk.Bytes()); err != nil {
			s.log.Warning("pool sender write error", "error", err.Error())
		}
		chunk.Close()
		chunk = nil
	}
}

func (s *poolSender) Write(d []byte) (int, error) {
	n, err := s.pool.Write(d)
	if err == nil {
		s.pool.Flush()
	}
	return n, err
}

func (s *poolSender) Close() error {
	close(s.done)
	s.wg.Wait()
	return s.dst.Close()
}

// httpSender POSTs each Write's bytes to addr and reports the number of
// bytes sent to report, if non-nil, in the manner of revid/senders.go's
// httpSender's report callback, but over a plain net/http client rather
// than AusOcean's netsender cloud protocol, which has no analogue for a
// self-hosted control plane.
type httpSender struct {
	addr   string
	client *http.Client
	log    logging.Logger
	report func(sent int)
}

func newHTTPSender(addr string, log logging.Logger, report func(sent int)) *httpSender {
	return &httpSender{addr: addr, client: &http.Client{Timeout: 5 * time.Second}, log: log, report: report}
}

func (s *httpSender) Write(d []byte) (int, error) {
	resp, err := s.client.Post(s.addr, "application/x-ndjson", bytes.NewReader(d))
	if err != nil {
		s.log.Debug("http send failed", "error", err.Error())
		return 0, err
	}
	resp.Body.Close()
	if s.report != nil {
		s.report(len(d))
	}
	return len(d), nil
}

func (s *httpSender) Close() error { return nil }
