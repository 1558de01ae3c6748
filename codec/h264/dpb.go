/*
DESCRIPTION
  dpb.go implements a sliding-window decoded picture buffer, bounded by
  max(max_num_ref_frames, 1), following the "sliding window decoded
  reference picture marking process" of section 8.2.5.3 of ITU-T H.264
  (04/2017). Adaptive memory management (MMCO) is a Non-goal and is
  rejected earlier, at slice header parse time.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package h264

// DpbSlot describes one reference frame held in the decoded picture buffer.
type DpbSlot struct {
	// StorageID is the decoder-side slot identifier this frame was (or will
	// be) decoded into; it is what DecoderInstruction.DecodeAndStoreAs
	// names and what a later Decode instruction's RefIDs reference.
	StorageID int

	FrameNum    int
	FrameNumWrap int
	PicOrderCnt int
}

// dpb is a sliding-window decoded picture buffer for one stream.
type dpb struct {
	maxSize int
	slots   []DpbSlot
	nextID  int
}

func newDPB() *dpb {
	return &dpb{maxSize: 1}
}

// setMaxSize updates the window size from an SPS's max_num_ref_frames,
// clamped to at least 1 per this parser's sliding-window policy.
func (d *dpb) setMaxSize(maxNumRefFrames uint64) {
	n := int(maxNumRefFrames)
	if n < 1 {
		n = 1
	}
	d.maxSize = n
}

// reserveStorageID allocates the next decoder-side storage slot identifier,
// used for both reference and non-reference decodes so that every decoded
// picture has a stable identity in the instruction stream.
func (d *dpb) reserveStorageID() int {
	id := d.nextID
	d.nextID++
	return id
}

// insert adds a newly-decoded reference frame to the buffer, evicting the
// short-term slot with the smallest FrameNumWrap first if the window is
// full, per section 8.2.5.3's sliding-window marking process. currFrameNum
// and maxFrameNum are the just-decoded picture's frame_num and the SPS's
// MaxFrameNum, used to rank the existing slots' FrameNumWrap relative to
// it. Called only for reference pictures (nal_ref_idc != 0); non-reference
// pictures never enter the DPB under this parser's simplified output
// model.
func (d *dpb) insert(slot DpbSlot, currFrameNum, maxFrameNum int) (evicted []DpbSlot) {
	for len(d.slots) >= d.maxSize {
		minIdx := 0
		minWrap := frameNumWrap(d.slots[0].FrameNum, currFrameNum, maxFrameNum)
		for i := 1; i < len(d.slots); i++ {
			w := frameNumWrap(d.slots[i].FrameNum, currFrameNum, maxFrameNum)
			if w < minWrap {
				minWrap, minIdx = w, i
			}
		}
		d.slots[minIdx].FrameNumWrap = minWrap
		evicted = append(evicted, d.slots[minIdx])
		d.slots = append(d.slots[:minIdx], d.slots[minIdx+1:]...)
	}
	d.slots = append(d.slots, slot)
	return evicted
}

// clear empties the buffer; called when an IDR arrives, per section 8.2.5.1
// (all reference pictures are marked "unused for reference").
func (d *dpb) clear() (evicted []DpbSlot) {
	evicted = d.slots
	d.slots = nil
	return evicted
}

// refs returns the current reference frames, oldest first.
func (d *dpb) refs() []DpbSlot {
	return d.slots
}
