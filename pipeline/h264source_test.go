/*
DESCRIPTION
  h264source_test.go tests h264FrameSource's decoder-back-end bookkeeping:
  placeholder plane sizing, and DPB storage-slot drop/reuse driven by a
  real parsed bitstream exhibiting sliding-window eviction.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package pipeline

import (
	"errors"
	"testing"

	"github.com/ausocean/compositor/codec/h264"
)

// bitStringToBytes converts a whitespace-separated binary string fixture
// into the bytes it describes, e.g. "1000 1111" -> []byte{0x8f}, mirroring
// codec/h264's own binToSlice test helper (duplicated here since it is
// unexported test tooling, not a shared production API).
func bitStringToBytes(s string) ([]byte, error) {
	var (
		a   byte = 0x80
		cur byte
		out []byte
	)
	for i, c := range s {
		switch c {
		case ' ':
			continue
		case '1':
			cur |= a
		case '0':
		default:
			return nil, errors.New("invalid binary string")
		}
		a >>= 1
		if a == 0 || i == len(s)-1 {
			out = append(out, cur)
			cur = 0
			a = 0x80
		}
	}
	return out, nil
}

func mustBits(t *testing.T, s string) []byte {
	t.Helper()
	b, err := bitStringToBytes(s)
	if err != nil {
		t.Fatalf("bitStringToBytes(%q): %v", s, err)
	}
	return b
}

func annexBUnit(header byte, rbsp []byte) []byte {
	out := []byte{0x00, 0x00, 0x01, header}
	return append(out, rbsp...)
}

// slidingWindowEvictionStream builds an Annex-B bytestream with
// max_num_ref_frames=2 followed by enough reference P-slices that the DPB
// must evict, so it drives the parser's real Drop emission end-to-end.
func slidingWindowEvictionStream(t *testing.T) []byte {
	t.Helper()

	spsRBSP := mustBits(t, ""+
		"0100 0010"+ // profile_idc = 66
		"000000"+
		"00"+
		"0001 1110"+ // level_idc = 30
		"1"+ // seq_parameter_set_id = 0
		"1"+ // log2_max_frame_num_minus4 = 0
		"1"+ // pic_order_cnt_type = 0
		"011"+ // log2_max_pic_order_cnt_lsb_minus4 = 2
		"011"+ // max_num_ref_frames = 2
		"0"+ // gaps_in_frame_num_value_allowed_flag = 0
		"00100"+ // pic_width_in_mbs_minus1 = 3
		"011"+ // pic_height_in_map_units_minus1 = 2
		"1"+ // frame_mbs_only_flag = 1
		"1"+ // direct_8x8_inference_flag = 1
		"0"+ // frame_cropping_flag = 0
		"0", // vui_parameters_present_flag = 0
	)

	ppsRBSP := mustBits(t, "1"+"1"+"0"+"0"+"1"+"1"+"1"+"0"+"00"+"1"+"1"+"1"+"0"+"0"+"0")

	idrRBSP := mustBits(t, ""+
		"1"+ // first_mb_in_slice = 0
		"011"+ // slice_type = 2 (I)
		"1"+ // pic_parameter_set_id = 0
		"0000"+ // frame_num u(4) = 0
		"1"+ // idr_pic_id = 0
		"000000"+ // pic_order_cnt_lsb u(6) = 0
		"0"+ // no_output_of_prior_pics_flag
		"0"+ // long_term_reference_flag
		"1", // rbsp_stop_one_bit, so the last byte is not all zeros
	)

	pSlice := func(frameNum, pocLsb string) []byte {
		return mustBits(t, "1"+"1"+"1"+frameNum+pocLsb+"0"+"0"+"0")
	}

	var stream []byte
	stream = append(stream, annexBUnit(0x67, spsRBSP)...)
	stream = append(stream, annexBUnit(0x68, ppsRBSP)...)
	stream = append(stream, annexBUnit(0x65, idrRBSP)...)
	stream = append(stream, annexBUnit(0x21, pSlice("0001", "000010"))...) // frame_num=1
	stream = append(stream, annexBUnit(0x21, pSlice("0010", "000100"))...) // frame_num=2
	stream = append(stream, annexBUnit(0x21, pSlice("0011", "000110"))...) // frame_num=3
	return stream
}

func TestPlaceholderPlanesBeforeSPSIsEmpty(t *testing.T) {
	s, _ := newH264FrameSource(&dumbLogger{})
	planes := s.placeholderPlanes()
	if len(planes) != 1 || len(planes[0]) != 0 {
		t.Errorf("placeholderPlanes before SPS = %v, want a single empty plane", planes)
	}
}

func TestPlaceholderPlanesSizedToSPS(t *testing.T) {
	s, _ := newH264FrameSource(&dumbLogger{})
	s.width, s.height = 16, 8
	planes := s.placeholderPlanes()
	if len(planes) != 3 {
		t.Fatalf("len(planes) = %d, want 3", len(planes))
	}
	if len(planes[0]) != 16*8 {
		t.Errorf("Y plane size = %d, want %d", len(planes[0]), 16*8)
	}
	if len(planes[1]) != 8*4 || len(planes[2]) != 8*4 {
		t.Errorf("chroma plane sizes = %d/%d, want %d/%d", len(planes[1]), len(planes[2]), 8*4, 8*4)
	}
}

// TestApplyHonorsDropBeforeStorageReuse drives apply() from a real parsed
// bitstream (max_num_ref_frames=2, an IDR and three reference P-slices)
// rather than hand-built instructions, so it exercises the parser's actual
// Drop emission rather than assuming it.
func TestApplyHonorsDropBeforeStorageReuse(t *testing.T) {
	stream := slidingWindowEvictionStream(t)

	p := h264.NewParser(nil)
	insts, err := p.Parse(stream)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	s, out := newH264FrameSource(&dumbLogger{})
	go func() {
		for range out {
		}
	}()

	for _, inst := range insts {
		s.apply(inst)
	}

	if len(s.storage) != 2 {
		t.Fatalf("len(storage) after stream = %d, want 2 (max_num_ref_frames)", len(s.storage))
	}

	var sawDrop bool
	for _, inst := range insts {
		if inst.Kind != h264.InstDrop {
			continue
		}
		sawDrop = true
		for _, id := range inst.Drop.ReferenceIDs {
			if _, ok := s.storage[id]; ok {
				t.Errorf("storage slot %d still present after stream, should have been freed by Drop", id)
			}
		}
	}
	if !sawDrop {
		t.Fatal("expected at least one Drop instruction from the sliding-window eviction fixture")
	}
}

func TestApplyIdrClearsStorage(t *testing.T) {
	s, out := newH264FrameSource(&dumbLogger{})
	s.width, s.height = 4, 4
	go func() {
		for range out {
		}
	}()

	s.apply(h264.DecoderInstruction{Kind: h264.InstDecodeAndStoreAs, Decode: &h264.DecodeInformation{StorageID: 1}})
	s.apply(h264.DecoderInstruction{Kind: h264.InstDecodeAndStoreAs, Decode: &h264.DecodeInformation{StorageID: 2}})
	if len(s.storage) != 2 {
		t.Fatalf("len(storage) = %d, want 2", len(s.storage))
	}

	s.apply(h264.DecoderInstruction{Kind: h264.InstIdr, Decode: &h264.DecodeInformation{StorageID: 0}})
	if len(s.storage) != 1 {
		t.Fatalf("len(storage) after Idr = %d, want 1 (only the Idr's own slot)", len(s.storage))
	}
	if _, ok := s.storage[0]; !ok {
		t.Error("expected the Idr's own storage slot to be populated")
	}
}
