package protocol

import "strings"

// SanitizeName strips in-band color codes from a display string. A
// caret followed by a digit is a color code and both runes are
// dropped. "^^" is an escaped literal caret: one caret is emitted and
// the scan resumes at the second, so a color code after it is still
// stripped. A caret followed by anything else, or ending the string,
// is dropped on its own. The scan is rune-wise so non-ASCII names
// survive intact.
func SanitizeName(name string) string {
	runes := []rune(name)

	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(runes); i++ {
		if runes[i] != '^' {
			b.WriteRune(runes[i])
			continue
		}
		if i+1 < len(runes) && runes[i+1] == '^' {
			b.WriteRune('^')
			continue
		}
		if i+1 < len(runes) && runes[i+1] >= '0' && runes[i+1] <= '9' {
			i++
		}
	}

	return b.String()
}
