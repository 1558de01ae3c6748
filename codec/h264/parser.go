/*
DESCRIPTION
  parser.go is the top-level H.264 parser: it consumes an Annex-B
  bytestream, classifies NAL units, splits access units, computes picture
  order count, manages the decoded picture buffer, and emits the resulting
  DecoderInstruction program. It never decodes macroblock residuals; that is
  left to an external decoder back-end attaching at the DecoderInstruction
  seam (see Decode/DecodeAndStoreAs's NALUs field).

  Every error returned by Parse or delivered on Run's error channel is
  fatal to that stream: per the parser's error taxonomy, Sps/Pps/Slice
  parse failures mean the caller should stop feeding that stream.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package h264

import (
	"context"
	"io"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"

	"github.com/ausocean/compositor/codec/h264/bits"
)

func errUnknownPPS(id uint64) error { return errors.Errorf("pps id %d", id) }
func errUnknownSPS(id uint64) error { return errors.Errorf("sps id %d", id) }
func errNoActiveReferences() error  { return errors.New("no active reference pictures") }

// storageIDsOf returns the StorageIDs of slots, in the order given.
func storageIDsOf(slots []DpbSlot) []int {
	ids := make([]int, len(slots))
	for i, s := range slots {
		ids[i] = s.StorageID
	}
	return ids
}

// Parser turns an Annex-B H.264 bytestream into a DecoderInstruction
// program. A Parser is not safe for concurrent use by more than one
// goroutine; the intended usage is one Parser per input stream, matching
// the "one parser thread per stream" concurrency model described for the
// pipeline this package feeds.
type Parser struct {
	log logging.Logger

	ctx *Context
	dpb *dpb
	poc *pocState
	au  *auSplitter

	activeSPS *SPS
	activePPS *PPS
}

// NewParser returns a Parser ready to process one H.264 stream.
func NewParser(log logging.Logger) *Parser {
	return &Parser{
		log: log,
		ctx: NewContext(),
		dpb: newDPB(),
		poc: newPOCState(),
		au:  newAUSplitter(),
	}
}

// Parse processes a complete Annex-B bytestream and returns the
// DecoderInstruction program for it. It is the synchronous core that Run
// wraps for channel-based, cancellable delivery.
func (p *Parser) Parse(annexB []byte) ([]DecoderInstruction, error) {
	var out []DecoderInstruction
	for _, raw := range splitAnnexB(annexB) {
		nal, err := parseNALUnit(raw)
		if err != nil {
			return out, err
		}

		switch nal.Type {
		case naluTypeSPS:
			inst, err := p.handleSPS(nal)
			if err != nil {
				return out, err
			}
			out = append(out, inst)

		case naluTypePPS:
			inst, err := p.handlePPS(nal)
			if err != nil {
				return out, err
			}
			out = append(out, inst)

		case naluTypeSliceIDR, naluTypeSliceNonIDR:
			header, err := p.parseSliceOf(nal)
			if err != nil {
				return out, err
			}
			completed, ok := p.au.push(nal, header)
			if ok {
				insts, err := p.finishAccessUnit(completed)
				if err != nil {
					return out, err
				}
				out = append(out, insts...)
			}

		default:
			// AUD, SEI, filler and end-of-sequence/stream NAL units carry no
			// information this parser's output contract needs.
			if p.log != nil {
				p.log.Debug("skipping NAL unit not needed by the decoder instruction program", "type", nal.Type)
			}
		}
	}

	if tail := p.au.flush(); len(tail) > 0 {
		insts, err := p.finishAccessUnit(tail)
		if err != nil {
			return out, err
		}
		out = append(out, insts...)
	}

	return out, nil
}

func (p *Parser) handleSPS(nal *NALUnit) (DecoderInstruction, error) {
	sps, err := parseSPS(nal.RBSP)
	if err != nil {
		return DecoderInstruction{}, err
	}
	if err := p.ctx.AddSPS(sps); err != nil {
		return DecoderInstruction{}, newParseError(KindSps, "sps registration failed", err)
	}
	p.dpb.setMaxSize(sps.MaxNumRefFrames)
	return DecoderInstruction{Kind: InstSps, Sps: sps}, nil
}

func (p *Parser) handlePPS(nal *NALUnit) (DecoderInstruction, error) {
	pps, err := parsePPS(nal.RBSP)
	if err != nil {
		return DecoderInstruction{}, err
	}
	if err := p.ctx.AddPPS(pps); err != nil {
		return DecoderInstruction{}, newParseError(KindPps, "pps registration failed", err)
	}
	return DecoderInstruction{Kind: InstPps, Pps: pps}, nil
}

// parseSliceOf parses a slice NAL unit's header, resolving its PPS and SPS
// from context. The full slice header parse needs the PPS id before the
// SPS/PPS themselves are known, so this is done in two passes: a cheap
// peek at pic_parameter_set_id, then the full parse against the resolved
// parameter sets.
func (p *Parser) parseSliceOf(nal *NALUnit) (*SliceHeader, error) {
	ppsID, err := peekPPSID(nal.RBSP)
	if err != nil {
		return nil, newParseError(KindSlice, "failed reading pic_parameter_set_id", err)
	}
	pps, ok := p.ctx.PPS(ppsID)
	if !ok {
		return nil, newParseError(KindSlice, "slice references unknown pps", errUnknownPPS(ppsID))
	}
	sps, ok := p.ctx.SPS(pps.SPSID)
	if !ok {
		return nil, newParseError(KindSlice, "pps references unknown sps", errUnknownSPS(pps.SPSID))
	}

	header, err := parseSliceHeader(nal.RBSP, nal.Type, nal.RefIdc, sps, pps)
	if err != nil {
		return nil, err
	}

	p.activeSPS, p.activePPS = sps, pps
	return header, nil
}

// finishAccessUnit turns a completed run of same-access-unit slice NAL
// units into the DecoderInstruction(s) it produces, updating the DPB and
// the picture order count state. A reference picture that evicts a DPB
// slot produces two instructions: a Drop naming the freed StorageID(s),
// followed by the Idr/DecodeAndStoreAs for the picture itself, so a
// back-end always sees the free before the reuse.
func (p *Parser) finishAccessUnit(slices []sliceNALU) ([]DecoderInstruction, error) {
	first := slices[0]
	h := first.header
	sps, pps := p.activeSPS, p.activePPS

	var poc int
	switch sps.PicOrderCntType {
	case 0:
		if h.IdrPicFlag {
			p.poc.reset()
		}
		prevMsb, prevLsb := p.poc.prevPicOrderCntMsb, p.poc.prevPicOrderCntLsb
		poc = p.poc.picOrderCntType0(sps, h)
		if first.nal.RefIdc == 0 {
			// Only reference pictures advance the type-0 prev* state.
			p.poc.prevPicOrderCntMsb, p.poc.prevPicOrderCntLsb = prevMsb, prevLsb
		}
	case 2:
		poc = p.poc.picOrderCntType2(sps, h, first.nal.RefIdc)
	}

	nalus := make([][]byte, len(slices))
	for i, s := range slices {
		nalus[i] = s.nal.RBSP
	}

	isRef := first.nal.RefIdc != 0
	maxFrameNum := sps.MaxFrameNum()

	if h.IdrPicFlag {
		evicted := p.dpb.clear()
		storageID := p.dpb.reserveStorageID()
		p.dpb.insert(DpbSlot{StorageID: storageID, FrameNum: h.FrameNum, PicOrderCnt: poc}, h.FrameNum, maxFrameNum)

		var insts []DecoderInstruction
		if len(evicted) > 0 {
			insts = append(insts, DecoderInstruction{Kind: InstDrop, Drop: &DropInformation{ReferenceIDs: storageIDsOf(evicted)}})
		}
		insts = append(insts, DecoderInstruction{
			Kind: InstIdr,
			Decode: &DecodeInformation{
				NALUs:       nalus,
				StorageID:   storageID,
				PicOrderCnt: poc,
				FrameNum:    h.FrameNum,
			},
		})
		return insts, nil
	}

	var refIDs []int
	if h.SliceType == sliceP {
		refs := buildRefPicList0(p.dpb.refs(), sps, h)
		if len(refs) == 0 {
			return nil, newParseError(KindSlice, "p slice has no active reference pictures", errNoActiveReferences())
		}
		refIDs = make([]int, len(refs))
		for i, r := range refs {
			refIDs[i] = r.StorageID
		}
	}

	info := &DecodeInformation{
		NALUs:       nalus,
		RefIDs:      refIDs,
		PicOrderCnt: poc,
		FrameNum:    h.FrameNum,
	}

	if !isRef {
		return []DecoderInstruction{{Kind: InstDecode, Decode: info}}, nil
	}

	storageID := p.dpb.reserveStorageID()
	info.StorageID = storageID
	evicted := p.dpb.insert(DpbSlot{StorageID: storageID, FrameNum: h.FrameNum, PicOrderCnt: poc}, h.FrameNum, maxFrameNum)

	var insts []DecoderInstruction
	if len(evicted) > 0 {
		insts = append(insts, DecoderInstruction{Kind: InstDrop, Drop: &DropInformation{ReferenceIDs: storageIDsOf(evicted)}})
	}
	insts = append(insts, DecoderInstruction{Kind: InstDecodeAndStoreAs, Decode: info})
	return insts, nil
}

// Run processes r's Annex-B bytestream in its own goroutine, delivering the
// resulting instructions on the returned channel and stopping early if ctx
// is cancelled. The error channel receives at most one value and is closed
// immediately after, mirroring the should_close/select cancellation
// pattern used elsewhere in this pipeline.
func (p *Parser) Run(ctx context.Context, r io.Reader) (<-chan DecoderInstruction, <-chan error) {
	out := make(chan DecoderInstruction)
	errc := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errc)

		data, err := io.ReadAll(r)
		if err != nil {
			errc <- err
			return
		}

		insts, err := p.Parse(data)
		for _, inst := range insts {
			select {
			case out <- inst:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			errc <- err
		}
	}()

	return out, errc
}

// peekPPSID reads just first_mb_in_slice and slice_type, then
// pic_parameter_set_id, from a slice RBSP without needing a resolved SPS,
// since first_mb_in_slice and slice_type are themselves ue(v) fields that
// must be consumed in order first.
func peekPPSID(rbsp []byte) (uint64, error) {
	br := newRBSPReader(rbsp)
	if _, err := bits.ReadUe(br); err != nil { // first_mb_in_slice
		return 0, err
	}
	if _, err := bits.ReadUe(br); err != nil { // slice_type
		return 0, err
	}
	return bits.ReadUe(br) // pic_parameter_set_id
}
