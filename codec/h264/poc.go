/*
DESCRIPTION
  poc.go computes PicOrderCnt for decoding types 0 and 2, following section
  8.2.1 of ITU-T H.264 (04/2017). Type 1 is a Non-goal (rejected at SPS
  parse time).

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package h264

// pocState tracks the running state needed to compute PicOrderCnt for
// decoding types 0 and 2 across a sequence of pictures, per section 8.2.1.
type pocState struct {
	prevPicOrderCntMsb int
	prevPicOrderCntLsb int

	frameNumOffset int
	prevFrameNum   int
}

func newPOCState() *pocState { return &pocState{} }

// reset clears accumulated state, called when a new IDR picture arrives
// (section 8.2.1: prevPicOrderCntMsb and prevPicOrderCntLsb are both set to
// 0 for an IDR picture unless dec_ref_pic_marking says otherwise, which
// this parser does not support carrying across IDRs).
func (s *pocState) reset() {
	s.prevPicOrderCntMsb = 0
	s.prevPicOrderCntLsb = 0
	s.frameNumOffset = 0
	s.prevFrameNum = 0
}

// picOrderCntType0 computes PicOrderCnt for a picture using decoding type 0
// (section 8.2.1.1), given the just-parsed slice header and its SPS.
func (s *pocState) picOrderCntType0(sps *SPS, h *SliceHeader) int {
	maxLsb := sps.MaxPicOrderCntLsb()

	var picOrderCntMsb int
	switch {
	case h.PicOrderCntLsb < s.prevPicOrderCntLsb &&
		s.prevPicOrderCntLsb-h.PicOrderCntLsb >= maxLsb/2:
		picOrderCntMsb = s.prevPicOrderCntMsb + maxLsb
	case h.PicOrderCntLsb > s.prevPicOrderCntLsb &&
		h.PicOrderCntLsb-s.prevPicOrderCntLsb > maxLsb/2:
		picOrderCntMsb = s.prevPicOrderCntMsb - maxLsb
	default:
		picOrderCntMsb = s.prevPicOrderCntMsb
	}

	poc := picOrderCntMsb + h.PicOrderCntLsb

	// prev* is updated here for every picture; finishAccessUnit restores it
	// after a non-reference picture, so only a reference picture
	// (nal_ref_idc != 0) updates prev* for the next picture. This parser
	// does not track memory_management_control_operation 5, so that
	// exception from 8.2.1.1 does not apply here.
	s.prevPicOrderCntMsb = picOrderCntMsb
	s.prevPicOrderCntLsb = h.PicOrderCntLsb

	return poc
}

// picOrderCntType2 computes PicOrderCnt for a picture using decoding type 2
// (section 8.2.1.3), tracking FrameNumOffset across frame_num wraparound.
func (s *pocState) picOrderCntType2(sps *SPS, h *SliceHeader, nalRefIdc uint8) int {
	if h.IdrPicFlag {
		s.frameNumOffset = 0
	} else if s.prevFrameNum > h.FrameNum {
		s.frameNumOffset += sps.MaxFrameNum()
	}

	tempPicOrderCnt := 2 * (s.frameNumOffset + h.FrameNum)
	if nalRefIdc == 0 {
		tempPicOrderCnt--
	}

	s.prevFrameNum = h.FrameNum
	return tempPicOrderCnt
}
