/*
DESCRIPTION
  dpb_test.go provides testing for functionality in dpb.go.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
*/

package h264

import "testing"

func TestDPBSlidingWindowEviction(t *testing.T) {
	d := newDPB()
	d.setMaxSize(2)

	id0 := d.reserveStorageID()
	if evicted := d.insert(DpbSlot{StorageID: id0, FrameNum: 0}, 0, 16); len(evicted) != 0 {
		t.Fatalf("unexpected eviction on first insert: %v", evicted)
	}

	id1 := d.reserveStorageID()
	if evicted := d.insert(DpbSlot{StorageID: id1, FrameNum: 1}, 1, 16); len(evicted) != 0 {
		t.Fatalf("unexpected eviction on second insert: %v", evicted)
	}

	id2 := d.reserveStorageID()
	evicted := d.insert(DpbSlot{StorageID: id2, FrameNum: 2}, 2, 16)
	if len(evicted) != 1 || evicted[0].StorageID != id0 {
		t.Fatalf("got evicted %v, want the slot with smallest FrameNumWrap (id %d)", evicted, id0)
	}

	refs := d.refs()
	if len(refs) != 2 || refs[0].StorageID != id1 || refs[1].StorageID != id2 {
		t.Fatalf("got refs %v, want [id1 id2]", refs)
	}
}

// TestDPBSlidingWindowEvictionAcrossFrameNumWraparound checks that eviction
// is driven by FrameNumWrap, not array position, once frame_num has wrapped
// past MaxFrameNum.
func TestDPBSlidingWindowEvictionAcrossFrameNumWraparound(t *testing.T) {
	d := newDPB()
	d.setMaxSize(2)
	const maxFrameNum = 16

	idA := d.reserveStorageID()
	d.insert(DpbSlot{StorageID: idA, FrameNum: 14}, 14, maxFrameNum)
	idB := d.reserveStorageID()
	d.insert(DpbSlot{StorageID: idB, FrameNum: 15}, 15, maxFrameNum)

	// frame_num wraps back to 0; both resident slots (14, 15) now have a
	// negative FrameNumWrap relative to it, with 14 the smaller (older).
	idC := d.reserveStorageID()
	evicted := d.insert(DpbSlot{StorageID: idC, FrameNum: 0}, 0, maxFrameNum)
	if len(evicted) != 1 || evicted[0].StorageID != idA {
		t.Fatalf("got evicted %v, want the slot with smallest FrameNumWrap (id %d, frame_num 14)", evicted, idA)
	}
	if evicted[0].FrameNumWrap != 14-maxFrameNum {
		t.Errorf("evicted FrameNumWrap = %d, want %d", evicted[0].FrameNumWrap, 14-maxFrameNum)
	}

	refs := d.refs()
	if len(refs) != 2 || refs[0].StorageID != idB || refs[1].StorageID != idC {
		t.Fatalf("got refs %v, want [idB idC]", refs)
	}
}

func TestDPBClearOnIDR(t *testing.T) {
	d := newDPB()
	d.setMaxSize(4)
	d.insert(DpbSlot{StorageID: d.reserveStorageID(), FrameNum: 0}, 0, 16)
	d.insert(DpbSlot{StorageID: d.reserveStorageID(), FrameNum: 1}, 1, 16)

	evicted := d.clear()
	if len(evicted) != 2 {
		t.Fatalf("got %d evicted on clear, want 2", len(evicted))
	}
	if len(d.refs()) != 0 {
		t.Fatalf("refs not empty after clear: %v", d.refs())
	}
}

func TestDPBMaxSizeClampedToOne(t *testing.T) {
	d := newDPB()
	d.setMaxSize(0)
	if d.maxSize != 1 {
		t.Fatalf("maxSize = %d, want 1", d.maxSize)
	}
}
