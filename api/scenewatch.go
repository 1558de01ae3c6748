/*
DESCRIPTION
  scenewatch.go implements local-development hot-reload of a scene-spec
  JSON file: watch Config.ScenePath with fsnotify and push each write as
  an update-scene operation, so an operator can edit a scene file on
  disk and see the running pipeline pick it up without restarting or
  standing up a control-plane HTTP server.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package api

import (
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
)

// SceneFileWatcher applies path's contents to a Server as a scene update
// every time the file is written.
type SceneFileWatcher struct {
	server *Server
	path   string
	watch  *fsnotify.Watcher
	done   chan struct{}
}

// WatchSceneFile starts watching path for writes, applying its contents
// to s as an update-scene operation on each one (including the initial
// load). The returned SceneFileWatcher must be closed to stop watching.
func WatchSceneFile(s *Server, path string) (*SceneFileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("api: could not create scene file watcher: %w", err)
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, fmt.Errorf("api: could not watch scene file %q: %w", path, err)
	}

	sw := &SceneFileWatcher{server: s, path: path, watch: w, done: make(chan struct{})}
	go sw.run()

	if err := sw.load(); err != nil {
		s.Log.Warning("initial scene file load failed", "path", path, "error", err.Error())
	}
	return sw, nil
}

func (w *SceneFileWatcher) run() {
	for {
		select {
		case ev, ok := <-w.watch.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := w.load(); err != nil {
				w.server.Log.Warning("scene file reload failed", "path", w.path, "error", err.Error())
			}
		case err, ok := <-w.watch.Errors:
			if !ok {
				return
			}
			w.server.Log.Error("scene file watcher error", "path", w.path, "error", err.Error())
		case <-w.done:
			return
		}
	}
}

func (w *SceneFileWatcher) load() error {
	f, err := os.Open(w.path)
	if err != nil {
		return err
	}
	defer f.Close()
	return w.server.UpdateSceneFromJSON(f)
}

// Close stops watching the scene file.
func (w *SceneFileWatcher) Close() error {
	close(w.done)
	return w.watch.Close()
}
