package codec

// fenceMarker opens and closes a literal code region.
const fenceMarker = "```"

// MaskFences substitutes every fenced code region, fence lines included,
// with equal-length filler so offset arithmetic against the original text
// stays valid. Newlines are preserved; an unclosed fence masks through to
// the end of the text.
func MaskFences(text string) string {
	out := []byte(text)
	inFence := false
	lineStart := 0
	for i := 0; i <= len(text); i++ {
		if i < len(text) && text[i] != '\n' {
			continue
		}
		line := text[lineStart:i]
		isFence := isFenceLine(line)
		if inFence || isFence {
			for j := lineStart; j < i; j++ {
				out[j] = ' '
			}
		}
		if isFence {
			inFence = !inFence
		}
		lineStart = i + 1
	}
	return string(out)
}

func isFenceLine(line string) bool {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return len(line)-i >= len(fenceMarker) && line[i:i+len(fenceMarker)] == fenceMarker
}
