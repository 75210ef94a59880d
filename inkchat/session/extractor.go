package session

import (
	"strings"
	"time"

	"github.com/inkwell-dev/inkchat/inkchat/codec"
	"github.com/inkwell-dev/inkchat/inkchat/document"
)

// Captured is the outcome of prompt extraction: the raw prompt content and
// the position just past the encoded block written in its place.
type Captured struct {
	Content string
	End     document.Position
}

// Extractor locates the next unprocessed user input (the active selection,
// or the text after the last delimiter occurrence before the cursor) and
// rewrites it in place as an encoded user turn.
type Extractor struct {
	delimiter string
	clock     func() time.Time
}

// NewExtractor creates an extractor for the configured delimiter.
func NewExtractor(delimiter string, clock func() time.Time) *Extractor {
	if clock == nil {
		clock = time.Now
	}
	return &Extractor{delimiter: delimiter, clock: clock}
}

// Capture extracts the prompt and replaces its span with the encoded user
// turn. The cursor lands on the first line after the inserted block. The
// document is not mutated on the error path.
func (x *Extractor) Capture(ed document.Editor) (Captured, error) {
	if text, r, ok := ed.Selection(); ok {
		return x.replace(ed, strings.TrimSpace(text), ed.PositionToOffset(r.From), ed.PositionToOffset(r.To)), nil
	}

	text := ed.Value()
	cursor := ed.PositionToOffset(ed.Cursor())

	// Neutralize fenced code and the metadata block so a delimiter inside a
	// sample or a metadata value never counts as a prompt boundary. Masking
	// preserves length, so offsets into the masked text are valid in the
	// original.
	masked := codec.MaskFences(text[:cursor])
	if end := codec.BlockEnd(text); end > 0 {
		if end > len(masked) {
			end = len(masked)
		}
		head := []byte(masked[:end])
		for i := range head {
			if head[i] != '\n' {
				head[i] = ' '
			}
		}
		masked = string(head) + masked[end:]
	}
	start := strings.LastIndex(masked, x.delimiter)
	if start < 0 {
		return Captured{}, ErrMissingPromptDelimiter
	}

	content := strings.TrimSpace(text[start+len(x.delimiter) : cursor])
	return x.replace(ed, content, start, cursor), nil
}

// replace swaps the [from, to) span for the encoded block, recomputing all
// positions against the latest text.
func (x *Extractor) replace(ed document.Editor, content string, from, to int) Captured {
	block := codec.EncodeTurn(codec.RoleUser, content, x.clock())
	ed.ReplaceRange(block, document.Range{
		From: ed.OffsetToPosition(from),
		To:   ed.OffsetToPosition(to),
	})
	end := ed.OffsetToPosition(from + len(block))
	ed.SetCursor(end)
	return Captured{Content: content, End: end}
}
