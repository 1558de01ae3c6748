/*
DESCRIPTION
  images.go implements registration of the textures backing an Image
  component: decode the file at the given path with gocv, validate it
  decoded to a non-empty image, and keep its dimensions available for
  Image components to resolve against by RendererId. Modeled on
  cmd/rv/probe.go's gocv.IMRead usage, repurposed here for texture
  ingestion rather than turbidity template matching.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package api

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ausocean/compositor/scene"
	"github.com/ausocean/utils/logging"
)

// registeredImage holds a decoded image's dimensions and raw bytes. The
// gocv.Mat itself is closed immediately after validation; this engine
// does not keep a live Mat per registered image. The decoded bytes (BGR,
// row-major) are kept in data; Get exposes only the dimensions, and
// nothing in this package reads data back.
type registeredImage struct {
	width, height int
	data          []byte
}

// ImageRegistry is the set of currently-registered Image component
// textures, keyed by RendererId.
type ImageRegistry struct {
	log logging.Logger

	mu     sync.Mutex
	images map[scene.RendererId]registeredImage
}

// NewImageRegistry returns an empty ImageRegistry.
func NewImageRegistry(log logging.Logger) *ImageRegistry {
	return &ImageRegistry{log: log, images: map[scene.RendererId]registeredImage{}}
}

// Register decodes the image file at path and, if it is well-formed,
// makes it available to Image components referencing id. Re-registering
// an id overwrites the previous image.
func (r *ImageRegistry) Register(id scene.RendererId, path string) error {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	defer mat.Close()
	if mat.Empty() {
		return fmt.Errorf("api: could not decode image %q: empty or unsupported format", path)
	}

	data, err := mat.DataPtrUint8()
	if err != nil {
		return fmt.Errorf("api: could not read decoded image bytes for %q: %w", path, err)
	}
	buf := make([]byte, len(data))
	copy(buf, data)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.images[id] = registeredImage{width: mat.Cols(), height: mat.Rows(), data: buf}
	r.log.Debug("registered image", "id", string(id), "path", path, "width", mat.Cols(), "height", mat.Rows())
	return nil
}

// Unregister removes a previously registered image.
func (r *ImageRegistry) Unregister(id scene.RendererId) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.images, id)
}

// Get returns a registered image's decoded dimensions.
func (r *ImageRegistry) Get(id scene.RendererId) (width, height int, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	img, ok := r.images[id]
	if !ok {
		return 0, 0, false
	}
	return img.width, img.height, true
}
