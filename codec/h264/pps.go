/*
DESCRIPTION
  pps.go parses a picture parameter set RBSP, following section 7.3.2.2 of
  ITU-T H.264 (04/2017).

  Only the fields needed by the slice header parser and the decoder
  instruction program are parsed; slice groups, deblocking override fields,
  and scaling-matrix extensions are Non-goals and are rejected where they
  would otherwise be silently misparsed.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package h264

import "github.com/ausocean/compositor/codec/h264/bits"

// PPS describes the subset of a picture parameter set this parser needs.
type PPS struct {
	ID    uint64
	SPSID uint64

	EntropyCodingMode                 bool
	BottomFieldPicOrderInFramePresent bool
	NumSliceGroupsMinus1              uint64

	NumRefIdxL0DefaultActiveMinus1 uint64
	NumRefIdxL1DefaultActiveMinus1 uint64

	WeightedPred   bool
	WeightedBipred uint64

	PicInitQpMinus26 int64
	PicInitQsMinus26 int64

	DeblockingFilterControlPresent bool
	RedundantPicCntPresent         bool
}

// parsePPS parses a picture parameter set from the RBSP of a NAL unit of
// type naluTypePPS.
func parsePPS(rbsp []byte) (*PPS, error) {
	br := newRBSPReader(rbsp)
	p := &PPS{}

	var err error
	read := func(n int) uint64 {
		if err != nil {
			return 0
		}
		var v uint64
		v, err = br.ReadBits(n)
		return v
	}
	readUe := func() uint64 {
		if err != nil {
			return 0
		}
		var v uint64
		v, err = bits.ReadUe(br)
		return v
	}
	readSe := func() int64 {
		if err != nil {
			return 0
		}
		var v int64
		v, err = bits.ReadSe(br)
		return v
	}

	p.ID = readUe()
	p.SPSID = readUe()
	p.EntropyCodingMode = read(1) == 1
	p.BottomFieldPicOrderInFramePresent = read(1) == 1
	p.NumSliceGroupsMinus1 = readUe()
	if err != nil {
		return nil, newParseError(KindPps, "failed reading PPS header fields", err)
	}
	if p.NumSliceGroupsMinus1 > 0 {
		return nil, unsupported("slice groups are not supported")
	}

	p.NumRefIdxL0DefaultActiveMinus1 = readUe()
	p.NumRefIdxL1DefaultActiveMinus1 = readUe()
	p.WeightedPred = read(1) == 1
	p.WeightedBipred = read(2)
	p.PicInitQpMinus26 = readSe()
	p.PicInitQsMinus26 = readSe()
	readSe() // chroma_qp_index_offset, not needed by this parser.
	p.DeblockingFilterControlPresent = read(1) == 1
	read(1) // constrained_intra_pred_flag, not needed by this parser.
	p.RedundantPicCntPresent = read(1) == 1
	if err != nil {
		return nil, newParseError(KindPps, "failed reading PPS reference/deblocking fields", err)
	}

	return p, nil
}
