package session

import (
	"strconv"
	"strings"
	"time"

	"github.com/inkwell-dev/inkchat/inkchat/codec"
	"github.com/inkwell-dev/inkchat/inkchat/document"
	ports "github.com/inkwell-dev/inkchat/inkchat/session/ports"
)

// Mutator applies metadata upserts and reply insertion against the live
// buffer. Positions are always recomputed from the current text, never
// reused across mutations.
type Mutator struct {
	clock func() time.Time
}

// NewMutator creates a mutator using clock for encode timestamps.
func NewMutator(clock func() time.Time) *Mutator {
	if clock == nil {
		clock = time.Now
	}
	return &Mutator{clock: clock}
}

// UpsertMetadata writes key: value into the document's metadata block,
// creating the block at offset 0 when absent. The cursor and any active
// selection shift down by however many lines the upsert added above them.
func (m *Mutator) UpsertMetadata(ed document.Editor, key, value string) {
	text := ed.Value()
	updated := codec.UpsertField(text, key, value)
	if updated == text {
		return
	}
	cursor := ed.Cursor()
	_, sel, selected := ed.Selection()
	added := strings.Count(updated, "\n") - strings.Count(text, "\n")
	ed.SetValue(updated)
	ed.SetCursor(document.Position{Line: cursor.Line + added, Ch: cursor.Ch})
	if selected {
		ed.Select(document.Range{
			From: document.Position{Line: sel.From.Line + added, Ch: sel.From.Ch},
			To:   document.Position{Line: sel.To.Line + added, Ch: sel.To.Ch},
		})
	}
}

// InsertReply encodes content as an assistant turn and inserts it at the
// current cursor, then moves the cursor to the line following the block.
func (m *Mutator) InsertReply(ed document.Editor, content string) {
	cursor := ed.Cursor()
	offset := ed.PositionToOffset(cursor)
	block := codec.EncodeTurn(codec.RoleAssistant, content, m.clock())
	ed.ReplaceRange(block, document.Range{From: cursor, To: cursor})
	ed.SetCursor(ed.OffsetToPosition(offset + len(block)))
}

// MergeUsage folds the provider's usage counters into the metadata block
// additively: new value = prior stored value + increment, defaulting to the
// raw value when no prior entry exists.
func (m *Mutator) MergeUsage(ed document.Editor, usage *ports.Usage) {
	if usage == nil {
		return
	}
	counters := []struct {
		key   string
		delta int
	}{
		{codec.KeyCompletionTokens, usage.CompletionTokens},
		{codec.KeyPromptTokens, usage.PromptTokens},
		{codec.KeyTotalTokens, usage.TotalTokens},
	}
	for _, c := range counters {
		meta, _ := codec.ParseMetadata(ed.Value())
		prior, _ := meta.Int(c.key)
		m.UpsertMetadata(ed, c.key, strconv.Itoa(prior+c.delta))
	}
}
