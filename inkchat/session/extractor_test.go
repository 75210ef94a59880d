package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-dev/inkchat/inkchat/codec"
	"github.com/inkwell-dev/inkchat/inkchat/document"
)

func newTestExtractor() *Extractor {
	return NewExtractor("//", fixedClock)
}

func TestCaptureFromDelimiter(t *testing.T) {
	ed := document.NewBuffer("test.md", "//what is 2+2")
	ed.SetCursor(ed.End())

	captured, err := newTestExtractor().Capture(ed)
	require.NoError(t, err)
	assert.Equal(t, "what is 2+2", captured.Content)

	turns := codec.DecodeTurns(ed.Value())
	require.Len(t, turns, 1)
	assert.Equal(t, codec.RoleUser, turns[0].Role)
	assert.Equal(t, "what is 2+2", turns[0].Content)
	// The raw prompt span, delimiter included, was replaced.
	assert.NotContains(t, ed.Value(), "//")
	// Cursor is on the first line after the inserted block.
	assert.Equal(t, captured.End, ed.Cursor())
	assert.Equal(t, 0, ed.Cursor().Ch)
}

func TestCaptureTakesLastDelimiterBeforeCursor(t *testing.T) {
	ed := document.NewBuffer("test.md", "//first question\nsome notes\n//second question")
	ed.SetCursor(ed.End())

	captured, err := newTestExtractor().Capture(ed)
	require.NoError(t, err)
	assert.Equal(t, "second question", captured.Content)
	// Earlier text stays untouched.
	assert.Contains(t, ed.Value(), "//first question")
}

func TestCaptureIgnoresTextAfterCursor(t *testing.T) {
	text := "//question\ntrailing notes"
	ed := document.NewBuffer("test.md", text)
	ed.SetCursor(document.Position{Line: 0, Ch: len("//question")})

	captured, err := newTestExtractor().Capture(ed)
	require.NoError(t, err)
	assert.Equal(t, "question", captured.Content)
	assert.Contains(t, ed.Value(), "trailing notes")
}

func TestCaptureMissingDelimiter(t *testing.T) {
	ed := document.NewBuffer("test.md", "no prompt here")
	ed.SetCursor(ed.End())

	_, err := newTestExtractor().Capture(ed)
	assert.ErrorIs(t, err, ErrMissingPromptDelimiter)
	assert.Equal(t, "no prompt here", ed.Value(), "no mutation on the error path")
}

func TestCaptureDelimiterInsideFenceDoesNotCount(t *testing.T) {
	text := "some notes\n```\n// not a prompt\n```\nmore notes"
	ed := document.NewBuffer("test.md", text)
	ed.SetCursor(ed.End())

	_, err := newTestExtractor().Capture(ed)
	assert.ErrorIs(t, err, ErrMissingPromptDelimiter)
	assert.Equal(t, text, ed.Value())
}

func TestCaptureDelimiterOutsideFenceStillFound(t *testing.T) {
	text := "```\n// sample\n```\n//real question"
	ed := document.NewBuffer("test.md", text)
	ed.SetCursor(ed.End())

	captured, err := newTestExtractor().Capture(ed)
	require.NoError(t, err)
	assert.Equal(t, "real question", captured.Content)
	assert.Contains(t, ed.Value(), "// sample", "fenced sample untouched")
}

func TestCaptureDelimiterInsideMetadataDoesNotCount(t *testing.T) {
	text := "---\nsystem: see https://example.com//docs\n---\nno prompt here"
	ed := document.NewBuffer("test.md", text)
	ed.SetCursor(ed.End())

	_, err := newTestExtractor().Capture(ed)
	assert.ErrorIs(t, err, ErrMissingPromptDelimiter)
	assert.Equal(t, text, ed.Value(), "metadata block untouched")
}

func TestCaptureDelimiterBelowMetadataStillFound(t *testing.T) {
	text := "---\nvector_store: vs://main\n---\n//real question"
	ed := document.NewBuffer("test.md", text)
	ed.SetCursor(ed.End())

	captured, err := newTestExtractor().Capture(ed)
	require.NoError(t, err)
	assert.Equal(t, "real question", captured.Content)
	assert.Contains(t, ed.Value(), "vector_store: vs://main")
}

func TestCaptureFromSelection(t *testing.T) {
	ed := document.NewBuffer("test.md", "please summarize this paragraph")
	ed.Select(document.Range{From: document.Position{Line: 0, Ch: 7}, To: document.Position{Line: 0, Ch: 16}})

	captured, err := newTestExtractor().Capture(ed)
	require.NoError(t, err)
	assert.Equal(t, "summarize", captured.Content)

	assert.True(t, strings.HasPrefix(ed.Value(), "please "))
	assert.True(t, strings.HasSuffix(ed.Value(), " this paragraph"))
	turns := codec.DecodeTurns(ed.Value())
	require.Len(t, turns, 1)
	assert.Equal(t, codec.RoleUser, turns[0].Role)
}

func TestSelectionAndDelimiterEncodeEqually(t *testing.T) {
	bySelection := document.NewBuffer("a.md", "what is 2+2")
	bySelection.Select(document.Range{From: document.Position{Line: 0, Ch: 0}, To: document.Position{Line: 0, Ch: 11}})
	_, err := newTestExtractor().Capture(bySelection)
	require.NoError(t, err)

	byDelimiter := document.NewBuffer("b.md", "//what is 2+2")
	byDelimiter.SetCursor(byDelimiter.End())
	_, err = newTestExtractor().Capture(byDelimiter)
	require.NoError(t, err)

	assert.Equal(t, bySelection.Value(), byDelimiter.Value())
}
