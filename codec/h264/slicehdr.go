/*
DESCRIPTION
  slicehdr.go parses a slice header, following section 7.3.3 of ITU-T H.264
  (04/2017).

  Only I and P slices of frame (non-field) pictures are supported; B, SI and
  SP slices, a non-empty ref_pic_list_modification, long-term references,
  and adaptive reference picture marking (MMCO) are all Non-goals and are
  rejected with KindUnsupported.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package h264

import "github.com/ausocean/compositor/codec/h264/bits"

// SliceType values, reduced mod 5 per Table 7-6; only sliceP and sliceI are
// accepted by this parser.
const (
	sliceP  = 0
	sliceB  = 1
	sliceI  = 2
	sliceSP = 3
	sliceSI = 4
)

// SliceHeader describes the subset of a slice header this parser needs to
// split access units, compute picture order count, and build P-slice
// reference lists.
type SliceHeader struct {
	FirstMbInSlice int
	SliceType      int // reduced mod 5
	PPSID          uint64
	FrameNum       int

	IdrPicFlag bool
	IDRPicID   uint64

	PicOrderCntLsb int

	NumRefIdxActiveOverrideFlag bool
	NumRefIdxL0ActiveMinus1     uint64

	// RefPicListModificationPresent is true if ref_pic_list_modification_flag_l0
	// was set; this parser requires it be false (an empty modification list).
	RefPicListModificationPresent bool

	// NoOutputOfPriorPicsFlag / LongTermReferenceFlag are only meaningful
	// when IdrPicFlag is true (dec_ref_pic_marking's idr branch).
	NoOutputOfPriorPicsFlag bool
	LongTermReferenceFlag   bool

	// AdaptiveRefPicMarkingModePresent is true if the non-IDR
	// adaptive_ref_pic_marking_mode_flag was set; this parser requires it
	// be false (sliding window only).
	AdaptiveRefPicMarkingModePresent bool
}

// IsIDR reports a slice header's IDR status: IdrPicFlag tracks
// nal_unit_type == 5 (section 7.4.1.2.4).
func (s *SliceHeader) IsIDR() bool { return s.IdrPicFlag }

// parseSliceHeader parses a slice header from the RBSP of a slice NAL unit.
// sps and pps must be the parameter sets the slice's pic_parameter_set_id
// and its SPSID resolve to. nalRefIdc is the containing NAL unit's
// nal_ref_idc, which gates whether dec_ref_pic_marking is present at all.
func parseSliceHeader(rbsp []byte, nalType, nalRefIdc uint8, sps *SPS, pps *PPS) (*SliceHeader, error) {
	br := newRBSPReader(rbsp)
	h := &SliceHeader{IdrPicFlag: nalType == naluTypeSliceIDR}

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

	h.FirstMbInSlice = int(readUe())
	h.SliceType = int(readUe() % 5)
	h.PPSID = readUe()
	if err != nil {
		return nil, newParseError(KindSlice, "failed reading slice_header leading fields", err)
	}
	if h.SliceType != sliceP && h.SliceType != sliceI {
		return nil, unsupported("only I and P slices are supported")
	}

	// field_pic_flag / bottom_field_flag are never present: sps.FrameMbsOnlyFlag
	// is enforced true by parseSPS, so field pictures cannot reach here.
	h.FrameNum = int(read(int(sps.Log2MaxFrameNumMinus4) + 4))

	if h.IdrPicFlag {
		h.IDRPicID = readUe()
	}

	if sps.PicOrderCntType == 0 {
		if pps.BottomFieldPicOrderInFramePresent {
			return nil, unsupported("bottom_field_pic_order_in_frame_present_flag is not supported")
		}
		h.PicOrderCntLsb = int(read(int(sps.Log2MaxPicOrderCntLsbMinus4) + 4))
	}
	if err != nil {
		return nil, newParseError(KindSlice, "failed reading frame_num/idr_pic_id/pic_order_cnt_lsb", err)
	}

	if pps.RedundantPicCntPresent {
		rpc := readUe()
		if err != nil {
			return nil, newParseError(KindSlice, "failed reading redundant_pic_cnt", err)
		}
		if rpc != 0 {
			return nil, unsupported("redundant coded pictures are not supported")
		}
	}

	if h.SliceType == sliceP {
		h.NumRefIdxActiveOverrideFlag = read(1) == 1
		if h.NumRefIdxActiveOverrideFlag {
			h.NumRefIdxL0ActiveMinus1 = readUe()
		} else {
			h.NumRefIdxL0ActiveMinus1 = pps.NumRefIdxL0DefaultActiveMinus1
		}
		if err != nil {
			return nil, newParseError(KindSlice, "failed reading num_ref_idx_active fields", err)
		}

		h.RefPicListModificationPresent = read(1) == 1
		if err != nil {
			return nil, newParseError(KindSlice, "failed reading ref_pic_list_modification_flag_l0", err)
		}
		if h.RefPicListModificationPresent {
			return nil, unsupported("ref_pic_list_modification is not supported")
		}
	}

	if nalRefIdc == 0 {
		return h, nil
	}

	if h.IdrPicFlag {
		h.NoOutputOfPriorPicsFlag = read(1) == 1
		h.LongTermReferenceFlag = read(1) == 1
		if err != nil {
			return nil, newParseError(KindSlice, "failed reading IDR dec_ref_pic_marking fields", err)
		}
		if h.LongTermReferenceFlag {
			return nil, unsupported("long-term references are not supported")
		}
		return h, nil
	}

	h.AdaptiveRefPicMarkingModePresent = read(1) == 1
	if err != nil {
		return nil, newParseError(KindSlice, "failed reading adaptive_ref_pic_marking_mode_flag", err)
	}
	if h.AdaptiveRefPicMarkingModePresent {
		return nil, unsupported("adaptive reference picture marking (MMCO) is not supported")
	}

	return h, nil
}
