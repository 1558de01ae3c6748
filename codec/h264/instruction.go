/*
DESCRIPTION
  instruction.go defines the DecoderInstruction program the parser emits: a
  closed set of operations an external decoder back-end executes in order:
  one decode operation per access unit, preceded by a Drop when storing
  that picture evicts DPB slots (plus the Sps/Pps bookkeeping operations
  emitted as their NAL units are seen). The parser never performs macroblock, residual
  or pixel decode itself; it only ever tells a decoder back-end what to do
  with the bytes it has already classified.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package h264

// InstructionKind is the tag of a DecoderInstruction's closed union.
type InstructionKind int

const (
	// InstDecode decodes an access unit's slice data using the reference
	// frames in DecodeInformation.RefIDs, without storing the result for
	// future reference (a non-reference picture).
	InstDecode InstructionKind = iota

	// InstDecodeAndStoreAs decodes an access unit the same way InstDecode
	// does, but additionally stores the decoded picture under
	// DecodeInformation.StorageID for later reference.
	InstDecodeAndStoreAs

	// InstIdr clears the DPB and decodes an IDR access unit, storing it
	// under DecodeInformation.StorageID (an IDR is always a reference
	// picture in this parser's supported feature set).
	InstIdr

	// InstDrop instructs the decoder back-end to free the DPB storage slots
	// named in DropInformation.ReferenceIDs: slots evicted by the
	// sliding-window reference picture marking process (section 8.2.5.3) or
	// freed by an IDR's DPB reset. It carries no decodable bytes; a back-end
	// must honor it before any later DecodeAndStoreAs/Idr reuses the same
	// StorageID.
	InstDrop

	// InstSps registers a sequence parameter set with the decoder back-end.
	InstSps

	// InstPps registers a picture parameter set with the decoder back-end.
	InstPps
)

func (k InstructionKind) String() string {
	switch k {
	case InstDecode:
		return "Decode"
	case InstDecodeAndStoreAs:
		return "DecodeAndStoreAs"
	case InstIdr:
		return "Idr"
	case InstDrop:
		return "Drop"
	case InstSps:
		return "Sps"
	case InstPps:
		return "Pps"
	default:
		return "Unknown"
	}
}

// DecodeInformation is the payload carried by Decode, DecodeAndStoreAs and
// Idr instructions.
type DecodeInformation struct {
	// NALUs are the access unit's slice NAL units, RBSP-decoded and ready
	// for the decoder back-end to feed to its own bitstream parser (the
	// back-end still needs the raw bytes to run CAVLC/CABAC residual
	// decode, which is out of this package's scope).
	NALUs [][]byte

	// StorageID is set for DecodeAndStoreAs and Idr, naming the DPB slot
	// the decoded picture is stored under.
	StorageID int

	// RefIDs are the StorageIDs of the reference frames this access unit's
	// P slices decode against, in RefPicList0 order.
	RefIDs []int

	PicOrderCnt int
	FrameNum    int
}

// DropInformation is the payload carried by Drop instructions.
type DropInformation struct {
	// ReferenceIDs are the StorageIDs of the DPB slots the back-end must
	// free before allocating any later DecodeAndStoreAs/Idr into the same
	// id.
	ReferenceIDs []int
}

// DecoderInstruction is one entry in the program the parser emits.
type DecoderInstruction struct {
	Kind InstructionKind

	// Decode set for InstDecode, InstDecodeAndStoreAs, InstIdr.
	Decode *DecodeInformation

	// Drop set for InstDrop.
	Drop *DropInformation

	// Sps set for InstSps.
	Sps *SPS

	// Pps set for InstPps.
	Pps *PPS
}
