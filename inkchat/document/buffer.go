// Package document models the editing surface the chat core operates on:
// line/column positions, range edits, cursor and selection state. The core
// never holds a private copy of the text across calls; every operation
// re-reads the current value and recomputes positions against it.
package document

import "strings"

// Position addresses a character in the buffer by zero-based line and column.
type Position struct {
	Line int
	Ch   int
}

// Range is a half-open span between two positions, From inclusive.
type Range struct {
	From Position
	To   Position
}

// Editor is the surface contract the chat core depends on. Positions passed
// in are clamped to the current text; offsets are byte offsets.
type Editor interface {
	Name() string
	Value() string
	SetValue(text string)
	RangeText(r Range) string
	ReplaceRange(text string, r Range)
	Cursor() Position
	SetCursor(pos Position)
	Selection() (text string, r Range, ok bool)
	Select(r Range)
	ClearSelection()
	OffsetToPosition(off int) Position
	PositionToOffset(pos Position) int
	LineCount() int
}

// Buffer is an in-memory Editor backed by a plain string. It is the
// implementation used by the CLI and by tests.
type Buffer struct {
	name      string
	text      string
	cursor    Position
	selection Range
	selected  bool
}

// NewBuffer creates a buffer with the cursor at the start of the text.
func NewBuffer(name, text string) *Buffer {
	return &Buffer{name: name, text: text}
}

func (b *Buffer) Name() string  { return b.name }
func (b *Buffer) Value() string { return b.text }

// SetValue replaces the whole buffer. The cursor is clamped to the new text;
// any active selection is dropped since its bounds are no longer meaningful.
func (b *Buffer) SetValue(text string) {
	b.text = text
	b.cursor = b.clamp(b.cursor)
	b.selected = false
}

// RangeText returns the text within r.
func (b *Buffer) RangeText(r Range) string {
	from := b.PositionToOffset(r.From)
	to := b.PositionToOffset(r.To)
	if from > to {
		from, to = to, from
	}
	return b.text[from:to]
}

// ReplaceRange splices text over r. The cursor is clamped afterwards but not
// repositioned; callers decide where it belongs next.
func (b *Buffer) ReplaceRange(text string, r Range) {
	from := b.PositionToOffset(r.From)
	to := b.PositionToOffset(r.To)
	if from > to {
		from, to = to, from
	}
	b.text = b.text[:from] + text + b.text[to:]
	b.cursor = b.clamp(b.cursor)
	b.selected = false
}

func (b *Buffer) Cursor() Position { return b.cursor }

func (b *Buffer) SetCursor(pos Position) { b.cursor = b.clamp(pos) }

// Selection reports the active selection, if any. An empty selection counts
// as no selection.
func (b *Buffer) Selection() (string, Range, bool) {
	if !b.selected {
		return "", Range{}, false
	}
	text := b.RangeText(b.selection)
	if text == "" {
		return "", Range{}, false
	}
	return text, b.selection, true
}

func (b *Buffer) Select(r Range) {
	b.selection = Range{From: b.clamp(r.From), To: b.clamp(r.To)}
	b.selected = true
}

func (b *Buffer) ClearSelection() { b.selected = false }

// OffsetToPosition converts a byte offset into a line/column position.
func (b *Buffer) OffsetToPosition(off int) Position {
	if off < 0 {
		off = 0
	}
	if off > len(b.text) {
		off = len(b.text)
	}
	prefix := b.text[:off]
	line := strings.Count(prefix, "\n")
	lineStart := strings.LastIndexByte(prefix, '\n') + 1
	return Position{Line: line, Ch: off - lineStart}
}

// PositionToOffset converts a line/column position into a byte offset,
// clamping out-of-range lines and columns.
func (b *Buffer) PositionToOffset(pos Position) int {
	lines := strings.Split(b.text, "\n")
	if pos.Line < 0 {
		return 0
	}
	if pos.Line >= len(lines) {
		return len(b.text)
	}
	off := 0
	for i := 0; i < pos.Line; i++ {
		off += len(lines[i]) + 1
	}
	ch := pos.Ch
	if ch < 0 {
		ch = 0
	}
	if ch > len(lines[pos.Line]) {
		ch = len(lines[pos.Line])
	}
	return off + ch
}

// LineCount reports the number of lines in the buffer. An empty buffer has
// one (empty) line.
func (b *Buffer) LineCount() int {
	return strings.Count(b.text, "\n") + 1
}

// End returns the position just past the last character.
func (b *Buffer) End() Position {
	return b.OffsetToPosition(len(b.text))
}

func (b *Buffer) clamp(pos Position) Position {
	return b.OffsetToPosition(b.PositionToOffset(pos))
}

// Ensure Buffer implements the Editor interface.
var _ Editor = (*Buffer)(nil)
