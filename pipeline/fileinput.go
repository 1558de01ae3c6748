/*
DESCRIPTION
  fileinput.go provides FileInput, an io.Reader over a file on disk that
  can optionally loop back to the start on EOF, for feeding a recorded
  H.264 Annex-B stream into RegisterH264Input repeatedly without an
  external process re-driving it.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ausocean/utils/logging"
)

// FileInput is an io.ReadCloser over a file, optionally looping back to
// the start on EOF instead of terminating the read.
type FileInput struct {
	mu        sync.Mutex
	f         *os.File
	path      string
	loop      bool
	log       logging.Logger
	isRunning bool
}

// NewFileInput returns a FileInput for the file at path. If loop is
// true, reads past end-of-file seek back to the start rather than
// returning io.EOF.
func NewFileInput(log logging.Logger, path string, loop bool) *FileInput {
	return &FileInput{log: log, path: path, loop: loop}
}

// Open opens the underlying file, readying it for Read.
func (m *FileInput) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, err := os.Open(m.path)
	if err != nil {
		return fmt.Errorf("could not open input file: %w", err)
	}
	m.f = f
	m.isRunning = true
	return nil
}

// Read implements io.Reader. Calling Read before Open returns an error.
func (m *FileInput) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.f == nil {
		return 0, errors.New("pipeline: input file is closed or was never opened")
	}

	n, err := m.f.Read(p)
	if err != nil && err != io.EOF {
		return n, err
	}

	if err == io.EOF && m.loop {
		m.log.Info("looping input file", "path", m.path)
		if _, serr := m.f.Seek(0, io.SeekStart); serr != nil {
			return 0, fmt.Errorf("could not seek to start of file for input loop: %w", serr)
		}
		n, err = m.f.Read(p)
		if err != nil {
			return n, fmt.Errorf("could not read after start seek: %w", err)
		}
	}
	return n, err
}

// Close closes the underlying file. Further reads will fail.
func (m *FileInput) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.f == nil {
		return nil
	}
	err := m.f.Close()
	m.isRunning = false
	m.f = nil
	return err
}

// IsRunning reports whether the file is currently open.
func (m *FileInput) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isRunning
}
