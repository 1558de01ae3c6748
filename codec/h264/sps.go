/*
DESCRIPTION
  sps.go parses a sequence parameter set RBSP, following section 7.3.2.1.1 of
  ITU-T H.264 (04/2017).

  Only the fields needed to split access units, compute picture order count,
  size a frame and manage the DPB are parsed. Sequence-level scaling lists,
  non-4:2:0 chroma, separate colour planes and PicOrderCountType 1 are all
  Non-goals of this parser and are rejected with KindUnsupported rather than
  silently ignored.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package h264

import "github.com/ausocean/compositor/codec/h264/bits"

// chroma420 is the only ChromaFormatIDC this parser accepts.
const chroma420 = 1

// highProfileIDCs lists the profile_idc values whose SPS carries the extra
// chroma_format_idc/scaling-list block (section 7.3.2.1.1). This parser
// does not implement that block, so these profiles are rejected outright.
var highProfileIDCs = map[uint8]bool{
	100: true, 110: true, 122: true, 244: true, 44: true,
	83: true, 86: true, 118: true, 128: true, 138: true,
	139: true, 134: true, 135: true,
}

func isHighProfile(profile uint8) bool { return highProfileIDCs[profile] }

// SPS describes the subset of a sequence parameter set this parser needs.
type SPS struct {
	ID uint64

	Profile      uint8
	LevelIDC     uint8
	ConstraintSet [6]bool

	ChromaFormatIDC uint64

	Log2MaxFrameNumMinus4       uint64
	PicOrderCntType             uint64
	Log2MaxPicOrderCntLsbMinus4 uint64

	MaxNumRefFrames uint64

	PicWidthInMbsMinus1       uint64
	PicHeightInMapUnitsMinus1 uint64
	FrameMbsOnlyFlag          bool
	Direct8x8InferenceFlag    bool

	FrameCroppingFlag     bool
	FrameCropLeftOffset   uint64
	FrameCropRightOffset  uint64
	FrameCropTopOffset    uint64
	FrameCropBottomOffset uint64

	// VUI timing info, used only for FramerateHint.
	vuiTimingPresent bool
	numUnitsInTick   uint32
	timeScale        uint32
}

// Width returns the frame's width in luma samples, accounting for cropping.
func (s *SPS) Width() int {
	w := (int(s.PicWidthInMbsMinus1) + 1) * 16
	if s.FrameCroppingFlag {
		w -= 2 * (int(s.FrameCropLeftOffset) + int(s.FrameCropRightOffset))
	}
	return w
}

// Height returns the frame's height in luma samples, accounting for
// cropping. Since FrameMbsOnlyFlag must be true (field pictures are a
// Non-goal), the frame-height-in-map-units factor below is always 1.
func (s *SPS) Height() int {
	h := (int(s.PicHeightInMapUnitsMinus1) + 1) * 16
	if s.FrameCroppingFlag {
		h -= 2 * (int(s.FrameCropTopOffset) + int(s.FrameCropBottomOffset))
	}
	return h
}

// MaxFrameNum returns MaxFrameNum as derived in eq 7-10.
func (s *SPS) MaxFrameNum() int {
	return 1 << (s.Log2MaxFrameNumMinus4 + 4)
}

// MaxPicOrderCntLsb returns MaxPicOrderCntLsb as derived in eq 7-11. Only
// meaningful when PicOrderCntType == 0.
func (s *SPS) MaxPicOrderCntLsb() int {
	return 1 << (s.Log2MaxPicOrderCntLsbMinus4 + 4)
}

// FramerateHint returns the framerate implied by the SPS's VUI timing info,
// as num/den, and whether one was present. The original compositor uses
// this to pick a default output framerate when the control plane hasn't set
// one explicitly (see num_units_in_tick / time_scale, Annex E.2.1); per eq
// C-1 a frame consists of two ticks, so the frame rate is
// time_scale / (2 * num_units_in_tick).
func (s *SPS) FramerateHint() (num, den int, ok bool) {
	if !s.vuiTimingPresent || s.numUnitsInTick == 0 {
		return 0, 0, false
	}
	return int(s.timeScale), 2 * int(s.numUnitsInTick), true
}

// parseSPS parses a sequence parameter set from the RBSP of a NAL unit of
// type naluTypeSPS.
func parseSPS(rbsp []byte) (*SPS, error) {
	br := newRBSPReader(rbsp)
	s := &SPS{}

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

	s.Profile = uint8(read(8))
	for i := range s.ConstraintSet {
		s.ConstraintSet[i] = read(1) == 1
	}
	read(2) // reserved_zero_2bits
	s.LevelIDC = uint8(read(8))
	s.ID = readUe()
	if err != nil {
		return nil, newParseError(KindSps, "failed reading SPS header fields", err)
	}

	// chroma_format_idc and the high-profile scaling-list block are only
	// present for the profiles listed below; for any of them we bail out
	// rather than risk misparsing the scaling-list syntax this parser does
	// not implement (scaling lists are a Non-goal).
	if isHighProfile(s.Profile) {
		return nil, unsupported("high/scalable profile SPS extensions are not supported")
	}
	s.ChromaFormatIDC = chroma420

	s.Log2MaxFrameNumMinus4 = readUe()
	s.PicOrderCntType = readUe()
	if err != nil {
		return nil, newParseError(KindSps, "failed reading frame_num/poc type", err)
	}
	switch s.PicOrderCntType {
	case 0:
		s.Log2MaxPicOrderCntLsbMinus4 = readUe()
		if err != nil {
			return nil, newParseError(KindSps, "failed reading log2_max_pic_order_cnt_lsb_minus4", err)
		}
	case 2:
		// No further fields for type 2.
	default:
		return nil, unsupported("pic_order_cnt_type 1 is not supported")
	}

	s.MaxNumRefFrames = readUe()
	gapsAllowed := read(1) == 1
	if err != nil {
		return nil, newParseError(KindSps, "failed reading max_num_ref_frames/gaps flag", err)
	}
	if gapsAllowed {
		return nil, unsupported("gaps_in_frame_num_value_allowed_flag is not supported")
	}

	s.PicWidthInMbsMinus1 = readUe()
	s.PicHeightInMapUnitsMinus1 = readUe()
	s.FrameMbsOnlyFlag = read(1) == 1
	if err != nil {
		return nil, newParseError(KindSps, "failed reading picture size fields", err)
	}
	if !s.FrameMbsOnlyFlag {
		return nil, unsupported("field pictures are not supported")
	}

	s.Direct8x8InferenceFlag = read(1) == 1
	s.FrameCroppingFlag = read(1) == 1
	if s.FrameCroppingFlag {
		s.FrameCropLeftOffset = readUe()
		s.FrameCropRightOffset = readUe()
		s.FrameCropTopOffset = readUe()
		s.FrameCropBottomOffset = readUe()
	}
	if err != nil {
		return nil, newParseError(KindSps, "failed reading cropping fields", err)
	}

	vuiPresent := read(1) == 1
	if err != nil {
		return nil, newParseError(KindSps, "failed reading vui_parameters_present_flag", err)
	}
	if vuiPresent {
		parseVUITiming(br, s)
	}

	return s, nil
}

// parseVUITiming walks just enough of the VUI parameters syntax structure
// (Annex E.1.1) to reach and extract num_units_in_tick/time_scale, then
// stops: nothing past timing info is needed by this parser. Read errors are
// tolerated (the hint is simply left absent) since VUI is entirely optional
// metadata and a malformed tail of it must not fail SPS parsing as a whole.
func parseVUITiming(br *bits.BitReader, s *SPS) {
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

	if read(1) == 1 { // aspect_ratio_info_present_flag
		if read(8) == 255 { // Extended_SAR
			read(16)
			read(16)
		}
	}
	if read(1) == 1 { // overscan_info_present_flag
		read(1)
	}
	if read(1) == 1 { // video_signal_type_present_flag
		read(3)
		read(1)
		if read(1) == 1 { // colour_description_present_flag
			read(8)
			read(8)
			read(8)
		}
	}
	if read(1) == 1 { // chroma_loc_info_present_flag
		readUe()
		readUe()
	}
	if err != nil {
		return
	}
	s.vuiTimingPresent = read(1) == 1 // timing_info_present_flag
	if s.vuiTimingPresent && err == nil {
		s.numUnitsInTick = uint32(read(32))
		s.timeScale = uint32(read(32))
	}
	if err != nil {
		s.vuiTimingPresent = false
	}
}
