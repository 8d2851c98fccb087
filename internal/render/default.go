package render

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/term"
)

type DefaultRenderer struct {
	Out io.Writer

	buffer       strings.Builder
	restoreState *term.State
	decorations  []*decoration

	// cells written this frame and the last, so stale ones can be blanked
	drawn, previous map[cell]int
}

type cell struct {
	Row, Col uint16
}

type decoration struct {
	X, Y    uint16
	Content string
	Frames  int // remaining frames until removed
}

func (r *DefaultRenderer) Init() error {
	state, err := term.MakeRaw(int(os.Stdout.Fd()))
	if nil != err {
		return err
	}
	r.restoreState = state

	fmt.Fprintf(r.out(), "%s%s%s",
		"\033[?1049h", // Enable alternate buffer
		"\033[?25l",   // Make the cursor invisible
		"\033[J",      // Clear the screen
	)
	return nil
}

func (r *DefaultRenderer) Deinit() error {
	fmt.Fprintf(r.out(), "%s%s",
		"\033[?1049l", // Disable alternate buffer
		"\033[?25h",   // Make the cursor visible
	)
	if nil == r.restoreState {
		return nil
	}
	return term.Restore(int(os.Stdout.Fd()), r.restoreState)
}

// Size falls back to 80x24 when stdout is not a terminal.
func (r *DefaultRenderer) Size() (cols, rows int) {
	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if nil != err || cols <= 0 || rows <= 0 {
		return 80, 24
	}
	return cols, rows
}

func (r *DefaultRenderer) AddDecoration(col, row uint16, content string, frames int) {
	r.decorations = append(r.decorations, &decoration{
		X:       col,
		Y:       row,
		Content: content,
		Frames:  frames,
	})
}

func (r *DefaultRenderer) tickDecorations() {
	nd := make([]*decoration, 0, len(r.decorations))
	for _, d := range r.decorations {
		if d.Frames == 0 {
			continue
		}
		r.Fill(d.Y, d.X, d.Content)
		nd = append(nd, d)
		d.Frames--
	}
	r.decorations = nd
}

func (r *DefaultRenderer) RenderLoop(period time.Duration, render func(now time.Time) bool) {
	cont := true
	for cont {
		now := time.Now()
		deadline := now.Add(period)

		cont = render(now)

		r.tickDecorations()
		r.flush()

		time.Sleep(time.Until(deadline))
	}
}

func (r *DefaultRenderer) Fill(row, column uint16, message string) {
	r.moveTo(row, column, message)
	r.buffer.WriteString(message)
}

func (r *DefaultRenderer) FillColor(row, column uint16, c color.RGBA, message string) {
	r.moveTo(row, column, message)
	r.buffer.WriteString("\033[38;2;")
	r.buffer.WriteString(strconv.FormatInt(int64(c.R), 10))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.FormatInt(int64(c.G), 10))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.FormatInt(int64(c.B), 10))
	r.buffer.WriteString("m")
	r.buffer.WriteString(message)
	r.buffer.WriteString("\033[0m")
}

func (r *DefaultRenderer) moveTo(row, column uint16, message string) {
	if nil == r.drawn {
		r.drawn = map[cell]int{}
	}
	width := utf8.RuneCountInString(stripEscapes(message))
	at := cell{row, column}
	if width > r.drawn[at] {
		r.drawn[at] = width
	}

	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.FormatInt(int64(row), 10))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.FormatInt(int64(column), 10))
	r.buffer.WriteString("H")
}

// flush blanks whatever was drawn last frame and not redrawn since, then
// writes the frame out.
func (r *DefaultRenderer) flush() {
	var blank strings.Builder
	for at, width := range r.previous {
		if r.drawn[at] >= width {
			continue
		}
		fmt.Fprintf(&blank, "\033[%d;%dH%s", at.Row, at.Col, strings.Repeat(" ", width))
	}

	io.WriteString(r.out(), blank.String()+r.buffer.String())
	r.buffer.Reset()
	r.previous, r.drawn = r.drawn, nil
}

func (r *DefaultRenderer) out() io.Writer {
	if nil == r.Out {
		return os.Stdout
	}
	return r.Out
}

func stripEscapes(s string) string {
	if !strings.Contains(s, "\033") {
		return s
	}
	var b strings.Builder
	escaped := false
	for _, c := range s {
		switch {
		case c == '\033':
			escaped = true
		case escaped:
			if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
				escaped = false
			}
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}
