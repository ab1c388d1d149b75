package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestSimpleRendererWritesDeltasVerbatim(t *testing.T) {
	var buf bytes.Buffer
	r := NewSimpleRenderer(&buf)

	deltas := []string{"Hel", "lo", " world"}
	var accumulated string
	for _, delta := range deltas {
		accumulated += delta
		r.Chunk(delta, accumulated)
	}
	r.Finish(accumulated)

	if buf.String() != "Hello world\n" {
		t.Errorf("Expected 'Hello world\\n', got %q", buf.String())
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Error("Simple renderer must not emit cursor control sequences")
	}
}

func TestSimpleRendererRenderFull(t *testing.T) {
	var buf bytes.Buffer
	r := NewSimpleRenderer(&buf)

	r.RenderFull("full response")

	if buf.String() != "full response\n" {
		t.Errorf("Expected 'full response\\n', got %q", buf.String())
	}
}

func TestSimpleRendererNoDoubleNewline(t *testing.T) {
	var buf bytes.Buffer
	r := NewSimpleRenderer(&buf)

	r.RenderFull("ends with newline\n")

	if buf.String() != "ends with newline\n" {
		t.Errorf("Expected single trailing newline, got %q", buf.String())
	}
}

// throttledRenderer returns a rich renderer with a controllable clock.
func throttledRenderer(buf *bytes.Buffer) (*RichRenderer, *time.Time) {
	r := NewRichRenderer(buf, 80)
	now := time.Unix(1700000000, 0)
	r.now = func() time.Time { return now }
	return r, &now
}

func drawCount(output string) int {
	return strings.Count(output, "╭")
}

func TestRichRendererThrottlesRedraws(t *testing.T) {
	var buf bytes.Buffer
	r, now := throttledRenderer(&buf)

	r.Chunk("a", "a")
	if drawCount(buf.String()) != 1 {
		t.Fatalf("Expected first chunk to draw, got %d draws", drawCount(buf.String()))
	}

	// Rapid chunks inside the redraw interval are absorbed.
	for i := 0; i < 10; i++ {
		*now = now.Add(5 * time.Millisecond)
		r.Chunk("x", "ax")
	}
	if drawCount(buf.String()) != 1 {
		t.Errorf("Expected rapid chunks to be throttled, got %d draws", drawCount(buf.String()))
	}

	// Once the interval elapses the next chunk redraws.
	*now = now.Add(defaultRedrawInterval)
	r.Chunk("y", "axy")
	if drawCount(buf.String()) != 2 {
		t.Errorf("Expected redraw after interval, got %d draws", drawCount(buf.String()))
	}
}

func TestRichRendererFinishAlwaysDraws(t *testing.T) {
	var buf bytes.Buffer
	r, _ := throttledRenderer(&buf)

	r.Chunk("partial", "partial")
	before := drawCount(buf.String())

	// Finish must flush even though the interval has not elapsed.
	r.Finish("partial done")
	if drawCount(buf.String()) != before+1 {
		t.Errorf("Expected Finish to force a redraw, got %d draws", drawCount(buf.String()))
	}
	if !strings.Contains(buf.String(), "done") {
		t.Error("Expected final frame to contain the complete text")
	}
}

func TestRichRendererRedrawsInPlace(t *testing.T) {
	var buf bytes.Buffer
	r, now := throttledRenderer(&buf)

	r.Chunk("first", "first")
	*now = now.Add(defaultRedrawInterval)
	r.Chunk(" second", "first second")

	if !strings.Contains(buf.String(), "A\x1b[0J") {
		t.Error("Expected cursor-up and erase sequence between redraws")
	}
}

func TestRichRendererFinishMakesFramePermanent(t *testing.T) {
	var buf bytes.Buffer
	r, _ := throttledRenderer(&buf)

	r.Chunk("turn one", "turn one")
	r.Finish("turn one")

	pos := buf.Len()
	r.Chunk("turn two", "turn two")

	// The second turn must start a fresh frame instead of erasing the
	// finished one.
	if strings.Contains(buf.String()[pos:], "\x1b[0J") {
		t.Error("Expected new turn to draw below the finished frame")
	}
}

func TestRichRendererRenderFull(t *testing.T) {
	var buf bytes.Buffer
	r, _ := throttledRenderer(&buf)

	r.RenderFull("one shot answer")

	if drawCount(buf.String()) != 1 {
		t.Errorf("Expected exactly one draw, got %d", drawCount(buf.String()))
	}
	if !strings.Contains(buf.String(), "one shot answer") {
		t.Error("Expected panel to contain the response text")
	}
	if !strings.Contains(buf.String(), panelTitle) {
		t.Errorf("Expected panel title %q in output", panelTitle)
	}
}

func TestRichRendererWidthBounds(t *testing.T) {
	var buf bytes.Buffer

	r := NewRichRenderer(&buf, 0)
	if r.width != fallbackWidth {
		t.Errorf("Expected fallback width %d, got %d", fallbackWidth, r.width)
	}

	r = NewRichRenderer(&buf, 500)
	if r.width != maxPanelWidth {
		t.Errorf("Expected width capped at %d, got %d", maxPanelWidth, r.width)
	}
}
