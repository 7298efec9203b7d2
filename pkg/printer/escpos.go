package printer

import (
	"bytes"
	"fmt"
	"strings"
)

// ESC/POS command bytes
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Text alignment
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Character sizes
const (
	FontNormal = 0x00
	FontDouble = 0x11
)

// Paper widths in characters
const (
	Width58mm = 32
	Width80mm = 48
)

// Document builds an ESC/POS byte stream for thermal printers. Every line
// helper fits its output into the paper width.
type Document struct {
	buf   bytes.Buffer
	width int
}

// NewDocument creates a document for the given character width, Width58mm by default.
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = Width58mm
	}
	d := &Document{width: charWidth}
	d.buf.Write([]byte{ESC, '@'})
	return d
}

func (d *Document) Width() int {
	return d.width
}

// FeedLines sends n line feeds.
func (d *Document) FeedLines(n int) *Document {
	d.buf.Write(bytes.Repeat([]byte{LF}, n))
	return d
}

func (d *Document) SetAlign(align int) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	return d
}

func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Text writes s, wrapping it onto as many lines as the width needs.
func (d *Document) Text(s string) *Document {
	for len(s) > d.width {
		d.line(s[:d.width])
		s = s[d.width:]
	}
	return d.line(s)
}

func (d *Document) TextF(format string, args ...interface{}) *Document {
	return d.Text(fmt.Sprintf(format, args...))
}

// Separator prints a full-width line of char.
func (d *Document) Separator(char byte) *Document {
	return d.line(strings.Repeat(string(char), d.width))
}

// Columns prints left flush left and right flush right on one line. left is
// truncated so that right always fits.
//
//	"2x Milk 1L                  5.00"
func (d *Document) Columns(left, right string) *Document {
	room := d.width - len(right) - 1
	if room < 1 {
		room = 1
	}
	if len(left) > room {
		left = left[:room]
	}
	return d.line(left + strings.Repeat(" ", d.width-len(left)-len(right)) + right)
}

// ItemLine prints "<qty>x <name>" with the line total on the right.
func (d *Document) ItemLine(qty int, name, total string) *Document {
	return d.Columns(fmt.Sprintf("%dx %s", qty, name), total)
}

// PartialCut feeds past the tear bar and cuts, leaving a hinge.
func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes returns the accumulated ESC/POS byte stream.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

func (d *Document) line(s string) *Document {
	d.buf.WriteString(s)
	d.buf.WriteByte(LF)
	return d
}
