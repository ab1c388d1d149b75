package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
)

const (
	panelTitle    = "AI Assistant"
	fallbackWidth = 80
	maxPanelWidth = 100

	// ~4 redraws per second keeps the panel smooth without flooding the
	// terminal at high chunk rates.
	defaultRedrawInterval = 250 * time.Millisecond
)

// StreamRenderer consumes a response as it arrives. Chunk is invoked
// after every delta with the accumulated buffer so far; Finish is
// invoked once the stream ends; RenderFull handles non-streaming
// responses in one shot.
type StreamRenderer interface {
	Chunk(delta, accumulated string)
	Finish(accumulated string)
	RenderFull(text string)
}

// SimpleRenderer writes each delta verbatim with no redraws, preserving
// terminal scrollback. Safe for dumb terminals, SSH sessions and pipes.
type SimpleRenderer struct {
	out io.Writer
}

func NewSimpleRenderer(out io.Writer) *SimpleRenderer {
	return &SimpleRenderer{out: out}
}

func (r *SimpleRenderer) Chunk(delta, _ string) {
	io.WriteString(r.out, delta)
}

func (r *SimpleRenderer) Finish(accumulated string) {
	if !strings.HasSuffix(accumulated, "\n") {
		io.WriteString(r.out, "\n")
	}
}

func (r *SimpleRenderer) RenderFull(text string) {
	io.WriteString(r.out, text)
	if !strings.HasSuffix(text, "\n") {
		io.WriteString(r.out, "\n")
	}
}

// RichRenderer re-renders the full accumulated text inside a bordered
// panel, moving the cursor back over the previous frame. Redraws are
// throttled; the chunk arrival rate does not dictate the redraw rate.
type RichRenderer struct {
	out   io.Writer
	width int

	redrawInterval time.Duration
	now            func() time.Time
	lastDraw       time.Time
	lastLines      int

	titleStyle lipgloss.Style
	panelStyle lipgloss.Style
}

// NewRichRenderer builds a panel renderer for a terminal of the given
// width. Pass 0 when the width is unknown.
func NewRichRenderer(out io.Writer, width int) *RichRenderer {
	if width <= 0 {
		width = fallbackWidth
	}
	if width > maxPanelWidth {
		width = maxPanelWidth
	}

	return &RichRenderer{
		out:            out,
		width:          width,
		redrawInterval: defaultRedrawInterval,
		now:            time.Now,
		titleStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("141")).
			Bold(true),
		panelStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("141")).
			Padding(0, 1).
			Width(width - 2),
	}
}

func (r *RichRenderer) Chunk(_, accumulated string) {
	if r.now().Sub(r.lastDraw) < r.redrawInterval {
		return
	}
	r.draw(accumulated)
}

// Finish always redraws so the final frame carries the complete text,
// even when the stream failed partway. The frame becomes permanent:
// the next turn starts a fresh panel below it.
func (r *RichRenderer) Finish(accumulated string) {
	r.draw(accumulated)
	r.reset()
}

func (r *RichRenderer) RenderFull(text string) {
	r.reset()
	r.draw(text)
	r.reset()
}

func (r *RichRenderer) reset() {
	r.lastLines = 0
	r.lastDraw = time.Time{}
}

func (r *RichRenderer) draw(text string) {
	if r.lastLines > 0 {
		// Move over the previous frame and erase it.
		fmt.Fprintf(r.out, "\x1b[%dA\x1b[0J", r.lastLines)
	}

	title := runewidth.Truncate(panelTitle, r.width-2, "…")
	frame := r.titleStyle.Render(title) + "\n" + r.panelStyle.Render(text)

	io.WriteString(r.out, frame+"\n")
	r.lastLines = strings.Count(frame, "\n") + 1
	r.lastDraw = r.now()
}
