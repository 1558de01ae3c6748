/*
DESCRIPTION
  errors.go defines the error taxonomy for the H.264 parser. Every error the
  parser returns is fatal to the stream it came from: callers are expected to
  drop that stream's in-flight access unit and, if the error is a Sps/Pps/
  Slice parse failure, stop feeding that stream rather than retry, matching
  the failure-handling approach the teacher uses for its own codec errors.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package h264

import "github.com/pkg/errors"

// ErrorKind classifies why the parser rejected a bitstream, so a caller can
// log or report the failure without string-matching on messages.
type ErrorKind int

const (
	// KindNalHeader indicates a malformed NAL unit header or a failure to
	// locate/strip emulation prevention bytes.
	KindNalHeader ErrorKind = iota

	// KindSps indicates a malformed SPS. An SPS using a feature this parser
	// does not support is reported as KindUnsupported instead.
	KindSps

	// KindPps indicates a malformed PPS, or one referencing an unknown SPS.
	KindPps

	// KindSlice indicates a malformed slice header, or one referencing an
	// unknown PPS.
	KindSlice

	// KindUnsupported indicates a syntactically valid bitstream construct
	// that is outside this parser's supported feature set: B-slices,
	// SI/SP-slices, field pictures, non-4:2:0 chroma, scaling lists,
	// long-term references, non-empty ref_pic_list_modification, adaptive
	// memory-control marking, PicOrderCountType 1, and gaps in frame_num.
	KindUnsupported
)

func (k ErrorKind) String() string {
	switch k {
	case KindNalHeader:
		return "nal-header"
	case KindSps:
		return "sps"
	case KindPps:
		return "pps"
	case KindSlice:
		return "slice"
	case KindUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// ParseError wraps an underlying parse failure with the ErrorKind that
// produced it.
type ParseError struct {
	Kind ErrorKind
	Err  error
}

func (e *ParseError) Error() string {
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

func newParseError(k ErrorKind, msg string, err error) *ParseError {
	return &ParseError{Kind: k, Err: errors.Wrap(err, msg)}
}

func unsupported(msg string) *ParseError {
	return &ParseError{Kind: KindUnsupported, Err: errors.New(msg)}
}
