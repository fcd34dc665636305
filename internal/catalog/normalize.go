package catalog

import (
	"regexp"
	"strings"
)

var keywordSpacing = regexp.MustCompile(`^(msgid|msgid_plural|msgstr(?:\[\d+\])?)[ \t]+"`)

// Normalize applies the canonical text transforms to generated catalog text:
// any run of spaces or tabs between a msgid/msgstr keyword and the opening
// quote collapses to a single space, and continuation lines indented with
// exactly 8 spaces are reindented to 6. The transforms are pure text passes,
// so repeated application is a no-op.
func Normalize(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if m := keywordSpacing.FindStringSubmatch(line); m != nil {
			rest := line[len(m[0])-1:] // from the opening quote
			lines[i] = m[1] + " " + rest
			continue
		}
		if hasExactIndent(line, 8) {
			lines[i] = "      " + line[8:]
		}
	}
	return strings.Join(lines, "\n")
}

// hasExactIndent reports whether line starts with exactly n spaces.
func hasExactIndent(line string, n int) bool {
	if len(line) <= n {
		return false
	}
	for i := range n {
		if line[i] != ' ' {
			return false
		}
	}
	return line[n] != ' '
}
