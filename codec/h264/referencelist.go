/*
DESCRIPTION
  referencelist.go builds the RefPicList0 used to decode a P slice,
  following the initialisation process of section 8.2.4.2.1 of ITU-T H.264
  (04/2017): short-term references ordered by descending FrameNumWrap,
  truncated to num_ref_idx_l0_active_minus1+1 entries.

  ref_pic_list_modification and long-term references are Non-goals, already
  rejected during slice header parsing, so this file only ever sees the
  default short-term ordering.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package h264

import "sort"

// frameNumWrap computes FrameNumWrap for a reference frame relative to the
// current picture's FrameNum, per section 8.2.4.1.
func frameNumWrap(frameNum, currFrameNum int, maxFrameNum int) int {
	if frameNum > currFrameNum {
		return frameNum - maxFrameNum
	}
	return frameNum
}

// buildRefPicList0 returns the ordered reference picture list for decoding
// a P slice, given the current DPB contents and the current slice header.
func buildRefPicList0(refs []DpbSlot, sps *SPS, h *SliceHeader) []DpbSlot {
	list := make([]DpbSlot, len(refs))
	copy(list, refs)
	for i := range list {
		list[i].FrameNumWrap = frameNumWrap(list[i].FrameNum, h.FrameNum, sps.MaxFrameNum())
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].FrameNumWrap > list[j].FrameNumWrap
	})

	n := int(h.NumRefIdxL0ActiveMinus1) + 1
	if n > len(list) {
		n = len(list)
	}
	return list[:n]
}
