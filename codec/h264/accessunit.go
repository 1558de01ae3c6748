/*
DESCRIPTION
  accessunit.go detects access unit boundaries between consecutive coded
  slices, following the detection rules of section 7.4.1.2.4 of ITU-T H.264
  (04/2017). A new access unit begins at the first VCL NAL unit of a
  primary coded picture whose slice header differs from the previous
  slice's in any of the ways enumerated there.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package h264

// sliceKey holds the slice header fields section 7.4.1.2.4 compares between
// consecutive slices to detect an access unit boundary.
type sliceKey struct {
	frameNum       int
	ppsID          uint64
	refIdcZero     bool // true if nal_ref_idc == 0
	idrPicFlag     bool
	idrPicID       uint64
	picOrderCntLsb int
	havePOCLsb     bool
}

func newSliceKey(h *SliceHeader, nalRefIdc uint8, havePOCLsb bool) sliceKey {
	return sliceKey{
		frameNum:       h.FrameNum,
		ppsID:          h.PPSID,
		refIdcZero:     nalRefIdc == 0,
		idrPicFlag:     h.IdrPicFlag,
		idrPicID:       h.IDRPicID,
		picOrderCntLsb: h.PicOrderCntLsb,
		havePOCLsb:     havePOCLsb,
	}
}

// startsNewAccessUnit reports whether cur begins a new access unit relative
// to prev, per the applicable bullets of section 7.4.1.2.4. field_pic_flag
// and delta_pic_order_cnt_bottom are omitted: field pictures are a
// Non-goal and bottom_field_pic_order_in_frame_present_flag is rejected
// during slice header parsing, so neither can differ here.
func startsNewAccessUnit(prev, cur sliceKey) bool {
	switch {
	case cur.frameNum != prev.frameNum:
		return true
	case cur.ppsID != prev.ppsID:
		return true
	case cur.refIdcZero != prev.refIdcZero && (cur.refIdcZero || prev.refIdcZero):
		return true
	case cur.idrPicFlag != prev.idrPicFlag:
		return true
	case cur.idrPicFlag && prev.idrPicFlag && cur.idrPicID != prev.idrPicID:
		return true
	case cur.havePOCLsb && prev.havePOCLsb && cur.picOrderCntLsb != prev.picOrderCntLsb:
		return true
	default:
		return false
	}
}

// auSplitter accumulates VCL NAL units into access units, emitting a
// completed access unit each time a new one is detected.
type auSplitter struct {
	havePrev bool
	prevKey  sliceKey
	current  []sliceNALU
}

// sliceNALU pairs a parsed slice NAL unit with its header, carried through
// the splitter so the parser can build a DecoderInstruction from a whole
// access unit at once.
type sliceNALU struct {
	nal    *NALUnit
	header *SliceHeader
}

func newAUSplitter() *auSplitter { return &auSplitter{} }

// push adds a slice NAL unit to the splitter. If it begins a new access
// unit, the previously-accumulated access unit (if any) is returned and the
// pushed slice starts the next one; otherwise ok is false and the slice
// joined the in-progress access unit.
func (a *auSplitter) push(nal *NALUnit, header *SliceHeader) (completed []sliceNALU, ok bool) {
	key := newSliceKey(header, nal.RefIdc, header != nil)
	if a.havePrev && startsNewAccessUnit(a.prevKey, key) {
		completed = a.current
		a.current = nil
		ok = true
	}
	a.current = append(a.current, sliceNALU{nal: nal, header: header})
	a.prevKey = key
	a.havePrev = true
	return completed, ok
}

// flush returns any access unit still accumulated, for use at end-of-stream.
func (a *auSplitter) flush() []sliceNALU {
	cur := a.current
	a.current = nil
	a.havePrev = false
	return cur
}
