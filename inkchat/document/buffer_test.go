package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffsetPositionRoundTrip(t *testing.T) {
	b := NewBuffer("test.md", "alpha\nbeta\n\ngamma")

	cases := []struct {
		off int
		pos Position
	}{
		{0, Position{0, 0}},
		{5, Position{0, 5}},
		{6, Position{1, 0}},
		{10, Position{1, 4}},
		{11, Position{2, 0}},
		{12, Position{3, 0}},
		{17, Position{3, 5}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.pos, b.OffsetToPosition(tc.off), "offset %d", tc.off)
		assert.Equal(t, tc.off, b.PositionToOffset(tc.pos), "pos %+v", tc.pos)
	}
}

func TestPositionClamping(t *testing.T) {
	b := NewBuffer("test.md", "one\ntwo")

	assert.Equal(t, 3, b.PositionToOffset(Position{0, 99}))
	assert.Equal(t, len(b.Value()), b.PositionToOffset(Position{99, 0}))
	assert.Equal(t, 0, b.PositionToOffset(Position{-1, 0}))

	b.SetCursor(Position{99, 99})
	assert.Equal(t, b.End(), b.Cursor())
}

func TestReplaceRange(t *testing.T) {
	b := NewBuffer("test.md", "hello world")
	b.ReplaceRange("there", Range{From: Position{0, 6}, To: Position{0, 11}})
	assert.Equal(t, "hello there", b.Value())

	// Insertion at an empty range.
	b.ReplaceRange(">> ", Range{From: Position{0, 0}, To: Position{0, 0}})
	assert.Equal(t, ">> hello there", b.Value())
}

func TestSelection(t *testing.T) {
	b := NewBuffer("test.md", "pick me please")

	_, _, ok := b.Selection()
	assert.False(t, ok, "no selection by default")

	b.Select(Range{From: Position{0, 5}, To: Position{0, 7}})
	text, r, ok := b.Selection()
	require.True(t, ok)
	assert.Equal(t, "me", text)
	assert.Equal(t, Position{0, 5}, r.From)

	b.ClearSelection()
	_, _, ok = b.Selection()
	assert.False(t, ok)

	// Empty selections do not count.
	b.Select(Range{From: Position{0, 3}, To: Position{0, 3}})
	_, _, ok = b.Selection()
	assert.False(t, ok)
}

func TestSetValueDropsSelection(t *testing.T) {
	b := NewBuffer("test.md", "abc")
	b.Select(Range{From: Position{0, 0}, To: Position{0, 3}})
	b.SetValue("xyz\nnew")
	_, _, ok := b.Selection()
	assert.False(t, ok)
	assert.Equal(t, 2, b.LineCount())
}
