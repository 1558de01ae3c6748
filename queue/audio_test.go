/*
DESCRIPTION
  audio_test.go provides testing for functionality in audio.go.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package queue

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/go-audio/audio"
)

// buildWAV assembles a minimal, spec-correct mono or multi-channel 16-bit
// PCM WAV file from raw samples, for feeding into DecodeWAVFrames without
// depending on an external fixture file.
func buildWAV(t *testing.T, samples []int16, sampleRate, channels int) []byte {
	t.Helper()
	const bitsPerSample = 16
	dataSize := len(samples) * 2
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	buf := &bytes.Buffer{}
	buf.WriteString("RIFF")
	writeU32(buf, uint32(36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	writeU32(buf, 16)
	writeU16(buf, 1) // PCM
	writeU16(buf, uint16(channels))
	writeU32(buf, uint32(sampleRate))
	writeU32(buf, uint32(byteRate))
	writeU16(buf, uint16(blockAlign))
	writeU16(buf, uint16(bitsPerSample))
	buf.WriteString("data")
	writeU32(buf, uint32(dataSize))
	for _, s := range samples {
		writeU16(buf, uint16(s))
	}
	return buf.Bytes()
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func TestDecodeWAVFramesChunksAndPacksSamples(t *testing.T) {
	const sampleRate = 8000
	samples := make([]int16, 1500)
	for i := range samples {
		samples[i] = int16(i)
	}
	wavBytes := buildWAV(t, samples, sampleRate, 1)

	frames, err := DecodeWAVFrames(bytes.NewReader(wavBytes))
	if err != nil {
		t.Fatalf("DecodeWAVFrames: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("len(frames) = %d, want 2", len(frames))
	}

	if frames[0].PTS != 0 {
		t.Errorf("frames[0].PTS = %v, want 0", frames[0].PTS)
	}
	if frames[0].Width != audioChunkSamples {
		t.Errorf("frames[0].Width = %d, want %d", frames[0].Width, audioChunkSamples)
	}
	wantPTS := time.Duration(audioChunkSamples) * time.Second / time.Duration(sampleRate)
	if frames[1].PTS != wantPTS {
		t.Errorf("frames[1].PTS = %v, want %v", frames[1].PTS, wantPTS)
	}
	if frames[1].Width != 1500-audioChunkSamples {
		t.Errorf("frames[1].Width = %d, want %d", frames[1].Width, 1500-audioChunkSamples)
	}

	plane := frames[0].Planes[0]
	if len(plane) != audioChunkSamples*2 {
		t.Fatalf("len(plane) = %d, want %d", len(plane), audioChunkSamples*2)
	}
	for i := 0; i < 5; i++ {
		got := int16(binary.LittleEndian.Uint16(plane[i*2 : i*2+2]))
		if got != samples[i] {
			t.Errorf("plane sample %d = %d, want %d", i, got, samples[i])
		}
	}
}

func TestChunkIntBufferMultiChannel(t *testing.T) {
	buf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: 2, SampleRate: 48000},
		Data:   make([]int, audioChunkSamples*2+10), // one full stereo chunk plus a remainder
	}
	for i := range buf.Data {
		buf.Data[i] = i
	}

	frames := chunkIntBuffer(buf)
	if len(frames) != 2 {
		t.Fatalf("len(frames) = %d, want 2", len(frames))
	}
	if frames[0].Width != audioChunkSamples || frames[0].Height != 2 {
		t.Errorf("frames[0] = %+v, want Width %d Height 2", frames[0], audioChunkSamples)
	}
	if frames[1].Width != 5 || frames[1].Height != 2 {
		t.Errorf("frames[1] = %+v, want Width 5 Height 2", frames[1])
	}
}
