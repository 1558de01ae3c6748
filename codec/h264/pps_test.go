/*
DESCRIPTION
  pps_test.go provides testing for functionality in pps.go.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
*/

package h264

import "testing"

func TestParsePPS(t *testing.T) {
	in, err := binToSlice("" +
		"1" + // pic_parameter_set_id ue(v) = 0
		"1" + // seq_parameter_set_id ue(v) = 0
		"0" + // entropy_coding_mode_flag = 0
		"0" + // bottom_field_pic_order_in_frame_present_flag = 0
		"1" + // num_slice_groups_minus1 ue(v) = 0
		"1" + // num_ref_idx_l0_default_active_minus1 ue(v) = 0
		"1" + // num_ref_idx_l1_default_active_minus1 ue(v) = 0
		"0" + // weighted_pred_flag = 0
		"00" + // weighted_bipred_idc = 0
		"1" + // pic_init_qp_minus26 se(v) = 0
		"1" + // pic_init_qs_minus26 se(v) = 0
		"1" + // chroma_qp_index_offset se(v) = 0
		"1" + // deblocking_filter_control_present_flag = 1
		"0" + // constrained_intra_pred_flag = 0
		"0", // redundant_pic_cnt_present_flag = 0
	)
	if err != nil {
		t.Fatalf("binToSlice: %v", err)
	}

	pps, err := parsePPS(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	switch {
	case pps.ID != 0:
		t.Errorf("ID = %d, want 0", pps.ID)
	case pps.SPSID != 0:
		t.Errorf("SPSID = %d, want 0", pps.SPSID)
	case pps.NumSliceGroupsMinus1 != 0:
		t.Errorf("NumSliceGroupsMinus1 = %d, want 0", pps.NumSliceGroupsMinus1)
	case !pps.DeblockingFilterControlPresent:
		t.Errorf("DeblockingFilterControlPresent = false, want true")
	case pps.RedundantPicCntPresent:
		t.Errorf("RedundantPicCntPresent = true, want false")
	}
}

func TestParsePPSRejectsSliceGroups(t *testing.T) {
	in, err := binToSlice("" +
		"1" + // pps id = 0
		"1" + // sps id = 0
		"0" + // entropy_coding_mode_flag
		"0" + // bottom_field...
		"010", // num_slice_groups_minus1 ue(v) = 1
	)
	if err != nil {
		t.Fatalf("binToSlice: %v", err)
	}

	_, err = parsePPS(in)
	pe, ok := err.(*ParseError)
	if !ok || pe.Kind != KindUnsupported {
		t.Fatalf("got %v, want an unsupported ParseError", err)
	}
}
