package feedback

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Polish normalizes free-form feedback: surrounding and repeated whitespace is
// collapsed, the first letter is capitalized and the text ends with punctuation.
func Polish(text string) string {
	out := strings.Join(strings.Fields(text), " ")
	if out == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(out)
	out = string(unicode.ToUpper(first)) + out[size:]

	last, _ := utf8.DecodeLastRuneInString(out)
	if !strings.ContainsRune(".!?", last) {
		out += "."
	}
	return out
}
