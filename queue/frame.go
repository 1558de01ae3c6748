/*
DESCRIPTION
  frame.go defines the Frame and PipelineEvent values an input source
  feeds into a Queue, and the FrameTuple a Queue emits per output tick.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package queue

import "time"

// InputId identifies a registered input within a Queue. It is opaque and
// must be unique among currently-registered inputs.
type InputId string

// Frame is a single decoded frame from an input source.
type Frame struct {
	// PTS is the frame's presentation timestamp, relative to its input's
	// own start time. The queue delivers it unchanged, except that an
	// input's Offset, if set, is added to it.
	PTS time.Duration

	Width, Height int

	// Planes holds the frame's raw image (or audio sample) data, one
	// element per plane; a single-plane frame (packed RGB, interleaved
	// audio) uses Planes[0] only.
	Planes [][]byte
}

// PipelineEvent is what an input source sends on its receiver channel: a
// decoded Frame, or an end-of-stream marker. Exactly one of Frame or EOS
// applies to a given event.
type PipelineEvent struct {
	Frame Frame
	EOS   bool
}

// FrameTuple is emitted once per output tick: the frame the queue selected
// for every input that had one ready, keyed by InputId. An input absent
// from Frames was either not required, not yet registered, offset into
// the future, or had sent EOS with nothing left to deliver.
type FrameTuple struct {
	PTS    time.Duration
	Frames map[InputId]Frame
}
