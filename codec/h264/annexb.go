/*
DESCRIPTION
  annexb.go splits an Annex-B byte stream (one or more 00 00 01 / 00 00 00 01
  start-code-delimited NAL units) into individual NAL unit byte slices.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package h264

// splitAnnexB returns the byte ranges of each NAL unit in an Annex-B stream,
// with start codes and any trailing zero padding removed. The returned
// slices alias buf.
func splitAnnexB(buf []byte) [][]byte {
	starts := findStartCodes(buf)
	if len(starts) == 0 {
		return nil
	}

	var nals [][]byte
	for i, s := range starts {
		end := len(buf)
		if i+1 < len(starts) {
			end = starts[i+1].scStart
		}
		nal := buf[s.nalStart:end]
		nal = trimTrailingZeros(nal)
		if len(nal) > 0 {
			nals = append(nals, nal)
		}
	}
	return nals
}

type startCode struct {
	scStart int // offset of the leading 00 of the start code
	nalStart int // offset of the first byte after the start code
}

// findStartCodes locates every 00 00 01 start code in buf, treating a
// 4-byte 00 00 00 01 code as the 3-byte code with one extra leading zero.
func findStartCodes(buf []byte) []startCode {
	var codes []startCode
	for i := 0; i+2 < len(buf); i++ {
		if buf[i] == 0 && buf[i+1] == 0 && buf[i+2] == 1 {
			start := i
			if start > 0 && buf[start-1] == 0 {
				start--
			}
			codes = append(codes, startCode{scStart: start, nalStart: i + 3})
			i += 2
		}
	}
	return codes
}

// trimTrailingZeros drops zero-byte stream padding (cabac_zero_word and the
// like) that can appear between a NAL unit's real RBSP tail and the next
// start code.
func trimTrailingZeros(nal []byte) []byte {
	end := len(nal)
	for end > 0 && nal[end-1] == 0 {
		end--
	}
	return nal[:end]
}
