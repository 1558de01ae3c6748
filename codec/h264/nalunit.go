/*
DESCRIPTION
  nalunit.go provides the NAL unit header and RBSP (raw byte sequence
  payload) extraction, following section 7.3.1 of ITU-T H.264 (04/2017).

  Only the baseline NAL unit header is parsed; the SVC/MVC/3D-AVC header
  extensions (sections G/H/J.7.3.1.1) are not, since scalable, multiview and
  3D coding are outside this parser's scope.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
  mrmod <mcmoranbjr@gmail.com>
*/

package h264

import (
	"bytes"
	"io"

	"github.com/ausocean/compositor/codec/h264/bits"
)

// NAL unit types from Table 7-1 that this parser understands; all other
// values are still parsed (so unknown NAL units can be skipped) but are not
// otherwise acted upon.
const (
	naluTypeSliceNonIDR = 1
	naluTypeSliceIDR    = 5
	naluTypeSEI         = 6
	naluTypeSPS         = 7
	naluTypePPS         = 8
	naluTypeAUD         = 9
	naluTypeEndOfSeq    = 10
	naluTypeEndOfStream = 11
)

// NALUnit describes a network abstraction layer unit, as defined in section
// 7.3.1 of the specification. Field semantics are defined in section 7.4.1.
type NALUnit struct {
	// forbidden_zero_bit, always 0.
	ForbiddenZeroBit uint8

	// nal_ref_idc, if not 0 indicates the NAL contains a sequence parameter
	// set, picture parameter set, or a slice (or slice data partition) of a
	// reference picture.
	RefIdc uint8

	// nal_unit_type, specifies the type of RBSP data contained in the NAL as
	// defined in Table 7-1.
	Type uint8

	// RBSP is the raw byte sequence payload with emulation prevention bytes
	// already removed.
	RBSP []byte
}

// parseNALUnit parses the header and RBSP of a single NAL unit (the bytes
// between two Annex-B start codes, exclusive), returning a *ParseError of
// kind KindNalHeader on failure.
func parseNALUnit(nal []byte) (*NALUnit, error) {
	if len(nal) == 0 {
		return nil, newParseError(KindNalHeader, "empty NAL unit", io.ErrUnexpectedEOF)
	}

	n := &NALUnit{
		ForbiddenZeroBit: (nal[0] >> 7) & 0x1,
		RefIdc:           (nal[0] >> 5) & 0x3,
		Type:             nal[0] & 0x1f,
	}
	n.RBSP = removeEmulationPrevention(nal[1:])
	return n, nil
}

// removeEmulationPrevention strips 0x03 emulation prevention bytes following
// any 0x0000 two-byte sequence, as described in section 7.4.1.1.
func removeEmulationPrevention(b []byte) []byte {
	out := make([]byte, 0, len(b))
	zeros := 0
	for i := 0; i < len(b); i++ {
		if zeros >= 2 && b[i] == 0x03 {
			zeros = 0
			continue
		}
		out = append(out, b[i])
		if b[i] == 0x00 {
			zeros++
		} else {
			zeros = 0
		}
	}
	return out
}

// newRBSPReader wraps a NAL unit's RBSP bytes in a bits.BitReader ready for
// the field-by-field reads of the SPS/PPS/slice-header parsers.
func newRBSPReader(rbsp []byte) *bits.BitReader {
	return bits.NewBitReader(bytes.NewReader(rbsp))
}
