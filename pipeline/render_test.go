/*
DESCRIPTION
  render_test.go tests RenderTick's newline-delimited JSON encoding.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package pipeline

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/ausocean/compositor/queue"
	"github.com/ausocean/compositor/scene"
)

func TestRenderTickEncodeIsNewlineDelimitedJSON(t *testing.T) {
	tick := RenderTick{
		PTS:    33 * time.Millisecond,
		Inputs: []queue.InputId{"cam1", "cam2"},
		Layouts: []scene.RenderLayout{
			{Box: scene.Box{Top: 0, Left: 0, Width: 1920, Height: 1080}},
		},
	}

	var buf bytes.Buffer
	if err := tick.encode(&buf); err != nil {
		t.Fatalf("encode returned error: %v", err)
	}

	if !strings.HasSuffix(buf.String(), "\n") {
		t.Fatalf("encode output does not end in newline: %q", buf.String())
	}

	var got RenderTick
	if err := json.Unmarshal(bytes.TrimRight(buf.Bytes(), "\n"), &got); err != nil {
		t.Fatalf("could not unmarshal encoded tick: %v", err)
	}
	if got.PTS != tick.PTS || len(got.Inputs) != 2 || len(got.Layouts) != 1 {
		t.Errorf("decoded tick = %+v, want %+v", got, tick)
	}
}

func TestRenderTickEncodeTwoTicksAreTwoLines(t *testing.T) {
	var buf bytes.Buffer
	a := RenderTick{PTS: 0}
	b := RenderTick{PTS: time.Second}
	if err := a.encode(&buf); err != nil {
		t.Fatalf("encode a: %v", err)
	}
	if err := b.encode(&buf); err != nil {
		t.Fatalf("encode b: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), buf.String())
	}
}
