package codec

import "strings"

// block is one recognized turn header located during the scan.
type block struct {
	role       Role
	start      int // offset of the opening marker
	contentOff int // offset just past the closing marker
}

// DecodeTurns scans the full document and recovers the ordered sequence of
// encoded turns. Content cleanup removes the role glyph, quote prefixes, and
// surrounding whitespace. Blocks whose role is not recognized never become
// turns; their text stays part of the surrounding content.
func DecodeTurns(text string) []Turn {
	blocks := scanBlocks(text)
	if len(blocks) == 0 {
		return nil
	}
	turns := make([]Turn, 0, len(blocks))
	for i, b := range blocks {
		end := len(text)
		if i+1 < len(blocks) {
			end = blocks[i+1].start
		}
		turns = append(turns, Turn{
			Role:    b.role,
			Content: cleanContent(text[b.contentOff:end]),
		})
	}
	return turns
}

// scanBlocks walks the text once, recognizing well-formed turn headers. A
// marker pair whose interior does not parse as `role:<known-role>; ...` is
// ordinary text and does not terminate the preceding turn's content.
func scanBlocks(text string) []block {
	var blocks []block
	i := 0
	for {
		j := strings.Index(text[i:], BlockStart)
		if j < 0 {
			break
		}
		j += i
		k := strings.Index(text[j+len(BlockStart):], BlockSep)
		if k < 0 {
			break
		}
		headerEnd := j + len(BlockStart) + k + len(BlockSep)
		header := text[j+len(BlockStart) : headerEnd-len(BlockSep)]
		if role, ok := parseHeader(header); ok {
			blocks = append(blocks, block{role: role, start: j, contentOff: headerEnd})
			i = headerEnd
		} else {
			// Resume just past the rejected opening marker so a valid header
			// starting inside the rejected span is still recognized.
			i = j + len(BlockStart)
		}
	}
	return blocks
}

// parseHeader extracts the role from a marker interior of the form
// ` role:<role>; <timestamp> `.
func parseHeader(header string) (Role, bool) {
	header = strings.TrimSpace(header)
	if !strings.HasPrefix(header, roleField) {
		return "", false
	}
	rest := header[len(roleField):]
	value, _, found := strings.Cut(rest, ";")
	if !found {
		return "", false
	}
	role := Role(strings.TrimSpace(value))
	if !role.Known() {
		return "", false
	}
	return role, true
}

// cleanContent strips encoding artifacts: a single leading role glyph,
// surrounding whitespace, and one level of quoting.
func cleanContent(raw string) string {
	s := strings.TrimPrefix(raw, UserGlyph)
	s = strings.TrimSpace(s)
	s = dequote(s)
	return strings.TrimSpace(s)
}

// dequote removes one level of quote marking. When every non-empty line is
// quoted (the encoder's own output for multi-line user turns), one marker is
// stripped per line; otherwise only a single leading and trailing quote
// character is removed.
func dequote(s string) string {
	if s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	quoted := true
	for _, line := range lines {
		t := strings.TrimSpace(line)
		if t == "" {
			continue
		}
		if !strings.HasPrefix(t, ">") {
			quoted = false
			break
		}
	}
	if quoted {
		for i, line := range lines {
			t := strings.TrimPrefix(strings.TrimLeft(line, " \t"), ">")
			lines[i] = strings.TrimPrefix(t, " ")
		}
		return strings.Join(lines, "\n")
	}
	s = strings.TrimPrefix(s, ">")
	return strings.TrimSuffix(s, ">")
}
