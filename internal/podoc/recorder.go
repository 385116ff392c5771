package podoc

import (
	"fmt"
	"io"
	"strings"
)

// OpKind names a drawing operation.
type OpKind string

const (
	OpFont      OpKind = "font"
	OpText      OpKind = "text"
	OpTextRight OpKind = "text-right"
	OpLine      OpKind = "line"
	OpImage     OpKind = "image"
	OpAlpha     OpKind = "alpha"
)

// Op is one recorded drawing call.
type Op struct {
	Kind  OpKind
	Font  Font
	X, Y  float64
	X2    float64
	Y2    float64
	Text  string
	Image string
	Width float64
	Alpha float64
}

// Recorder is a Canvas that keeps the operations instead of drawing them.
// Two renders of the same input produce equal Ops.
type Recorder struct {
	Ops  []Op
	font Font
}

func (r *Recorder) SetFont(f Font) {
	r.font = f
	r.Ops = append(r.Ops, Op{Kind: OpFont, Font: f})
}

func (r *Recorder) Text(x, y float64, s string) {
	r.Ops = append(r.Ops, Op{Kind: OpText, Font: r.font, X: x, Y: y, Text: s})
}

func (r *Recorder) TextRight(x, y float64, s string) {
	r.Ops = append(r.Ops, Op{Kind: OpTextRight, Font: r.font, X: x, Y: y, Text: s})
}

func (r *Recorder) Line(x1, y1, x2, y2 float64) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, X: x1, Y: y1, X2: x2, Y2: y2})
}

func (r *Recorder) Image(a *Asset, x, y, w float64) error {
	r.Ops = append(r.Ops, Op{Kind: OpImage, X: x, Y: y, Width: w, Image: a.Name})
	return nil
}

func (r *Recorder) SetAlpha(alpha float64) {
	r.Ops = append(r.Ops, Op{Kind: OpAlpha, Alpha: alpha})
}

// Texts returns the drawn strings in drawing order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Ops {
		if op.Kind == OpText || op.Kind == OpTextRight {
			out = append(out, op.Text)
		}
	}
	return out
}

// Images returns the drawn image names in drawing order.
func (r *Recorder) Images() []string {
	var out []string
	for _, op := range r.Ops {
		if op.Kind == OpImage {
			out = append(out, op.Image)
		}
	}
	return out
}

// Find returns the first text op whose text equals s.
func (r *Recorder) Find(s string) (Op, bool) {
	for _, op := range r.Ops {
		if (op.Kind == OpText || op.Kind == OpTextRight) && op.Text == s {
			return op, true
		}
	}
	return Op{}, false
}

// WriteOutline prints one line per operation, skipping font changes.
func (r *Recorder) WriteOutline(w io.Writer) error {
	var b strings.Builder
	for _, op := range r.Ops {
		switch op.Kind {
		case OpText:
			fmt.Fprintf(&b, "text   %5.2f %5.2f %q\n", op.X, op.Y, op.Text)
		case OpTextRight:
			fmt.Fprintf(&b, "text<  %5.2f %5.2f %q\n", op.X, op.Y, op.Text)
		case OpLine:
			fmt.Fprintf(&b, "line   %5.2f %5.2f -> %5.2f %5.2f\n", op.X, op.Y, op.X2, op.Y2)
		case OpImage:
			fmt.Fprintf(&b, "image  %5.2f %5.2f w=%.2f %s\n", op.X, op.Y, op.Width, op.Image)
		case OpAlpha:
			fmt.Fprintf(&b, "alpha  %.2f\n", op.Alpha)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
