/*
DESCRIPTION
  config.go defines the top-level configuration for a compositor pipeline,
  in the style of revid/config/config.go: a single Config struct with
  documented zero-value defaults, a Validate method that fills in and
  checks those defaults, and an Update method that applies control-plane
  variable changes by name.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

// Package config provides the compositor pipeline's configuration.
package config

import (
	"time"

	"github.com/ausocean/utils/logging"
)

// Enums mirror revid/config's NothingDefined-anchored style so the zero
// value of an unset Output field is never confused with a configured
// choice.
const (
	NothingDefined = iota

	// Outputs. OutputFile and OutputFiles write the per-tick render
	// stream directly to disk (OutputFile to one continuous file,
	// OutputFiles to a new timestamped file per write); OutputHTTP posts
	// it to HTTPAddress. All
	// three carry whatever scene.RenderLayout/queue.FrameTuple summary
	// the pipeline produces per output tick, since concrete muxing into
	// a playable container is outside this engine's scope (spec.md's
	// Non-goals place RTP/WHIP/MP4 muxing at the interface boundary).
	OutputFile
	OutputFiles
	OutputHTTP
)

// Config configures a compositor pipeline.
type Config struct {
	// Width and Height are the output resolution every scene is
	// flattened against.
	Width, Height uint

	// FrameRateNum and FrameRateDen express the output cadence as a
	// fraction of frames per second, matching queue.Rate.
	FrameRateNum, FrameRateDen uint

	// AheadOfTime, NeverDropOutput and DisableAutoBufferDuration mirror
	// the identically-named queue.Config fields.
	AheadOfTime               bool
	NeverDropOutput           bool
	DisableAutoBufferDuration bool

	// DefaultBufferDuration is the queue's minimum deadline margin; see
	// queue.Config.DefaultBufferDuration.
	DefaultBufferDuration time.Duration

	// Outputs defines which output sinks the pipeline writes its
	// per-tick render stream to. See the Output* enums above.
	Outputs []uint8

	// OutputPath defines the destination for OutputFile and
	// OutputFiles.
	OutputPath string

	// MaxFileSize is the maximum size in bytes the OutputFile file is
	// allowed to reach before a new one is started. Zero means
	// unlimited. OutputFiles already starts a new file per write.
	MaxFileSize uint

	// HTTPAddress is the destination for OutputHTTP.
	HTTPAddress string

	// PoolCapacity, PoolStartElementSize and PoolWriteTimeout size the
	// pool.Buffer used to bound memory between the render loop and each
	// pooled output sender (HTTP and Files; plain File writes directly).
	PoolCapacity         uint
	PoolStartElementSize uint
	PoolWriteTimeout     uint

	// ScenePath, if set, points api.SceneFileWatcher at a scene-spec JSON
	// file to load and hot-reload for local development without the HTTP
	// control plane.
	ScenePath string

	// LogFile names a log file path. Nothing in this repository reads it:
	// cmd/compositor builds its lumberjack-rotated log writer from its own
	// -log-file flag and passes the resulting Logger in.
	LogFile string

	// Logger holds the logging.Logger every subsystem is constructed
	// with. This must be set before Validate is called.
	Logger logging.Logger

	// LogLevel is the pipeline's logging verbosity; see the logging
	// package's Debug/Info/Warning/Error/Fatal level consts.
	LogLevel int8

	// Suppress holds the logger's suppression state.
	Suppress bool
}

// Validate checks Config's fields for validity, defaulting any that are
// unset, in the manner of revid/config.Config.Validate.
func (c *Config) Validate() error {
	for _, v := range Variables {
		if v.Validate != nil {
			v.Validate(c)
		}
	}
	return nil
}

// Update takes a map of configuration variable names to string values,
// parses each and applies it to the matching Config field, in the manner
// of revid/config.Config.Update.
func (c *Config) Update(vars map[string]string) {
	for _, v := range Variables {
		if val, ok := vars[v.Name]; ok && v.Update != nil {
			v.Update(c, val)
		}
	}
}

// LogInvalidField logs that a field was bad or unset and is being
// defaulted, in the manner of revid/config.Config.LogInvalidField.
func (c *Config) LogInvalidField(name string, def interface{}) {
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}
