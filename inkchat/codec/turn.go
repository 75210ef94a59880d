package codec

import (
	"strings"
	"time"
)

// Marker syntax for turn blocks. A block header reads
// `<!-- role:<role>; <timestamp> -->`; the timestamp is cosmetic and the
// decoder relies on document order alone.
const (
	BlockStart = "<!--"
	BlockSep   = "-->"

	roleField   = "role:"
	quoteMarker = "> "

	// UserGlyph may appear immediately after the header on user turns.
	UserGlyph = "👤"

	// TimestampLayout is local wall-clock time at encode time.
	TimestampLayout = "2006-01-02T15:04"
)

// Role tags one side of the conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Known reports whether the role is one of the three recognized values.
// Blocks carrying any other role are not turns.
func (r Role) Known() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Turn is one role-tagged message unit. Content is fully stripped of
// encoding artifacts; consumers never see markers, quote prefixes, or the
// role glyph.
type Turn struct {
	Role    Role
	Content string
}

// EncodeTurn renders a role and content pair into the canonical text block.
// User turns carry the role glyph after the header and quote every content
// line; other roles keep the content raw. The result always ends with a
// newline.
func EncodeTurn(role Role, content string, at time.Time) string {
	var b strings.Builder
	b.WriteString(BlockStart)
	b.WriteString(" ")
	b.WriteString(roleField)
	b.WriteString(string(role))
	b.WriteString("; ")
	b.WriteString(at.Format(TimestampLayout))
	b.WriteString(" ")
	b.WriteString(BlockSep)
	if role == RoleUser {
		b.WriteString(UserGlyph)
		b.WriteString("\n")
		for _, line := range strings.Split(content, "\n") {
			b.WriteString(quoteMarker)
			b.WriteString(line)
			b.WriteString("\n")
		}
	} else {
		b.WriteString("\n")
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String()
}
