package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCollapsesKeywordWhitespace(t *testing.T) {
	in := "msgid\t\"hello\"\nmsgstr   \t \"\"\n"
	want := "msgid \"hello\"\nmsgstr \"\"\n"
	assert.Equal(t, want, Normalize(in))
}

func TestNormalizeHandlesPluralForms(t *testing.T) {
	in := "msgid_plural\t\"files\"\nmsgstr[0]\t\"Datei\"\nmsgstr[1]  \"Dateien\"\n"
	want := "msgid_plural \"files\"\nmsgstr[0] \"Datei\"\nmsgstr[1] \"Dateien\"\n"
	assert.Equal(t, want, Normalize(in))
}

func TestNormalizeReindentsContinuationLines(t *testing.T) {
	in := "msgid \"\"\n        \"a long wrapped \"\n        \"message\"\n"
	want := "msgid \"\"\n      \"a long wrapped \"\n      \"message\"\n"
	assert.Equal(t, want, Normalize(in))
}

func TestNormalizeLeavesOtherIndentationAlone(t *testing.T) {
	cases := []string{
		"      \"already six\"\n",    // 6 spaces untouched
		"         \"nine spaces\"\n", // not exactly 8
		"#: src/m.py:1\n",
		"\"header continuation\"\n",
	}
	for _, in := range cases {
		assert.Equal(t, in, Normalize(in), "input %q must pass through unchanged", in)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	in := "msgid\t\"x\"\n        \"wrapped\"\nmsgstr \"\"\n"
	once := Normalize(in)
	assert.Equal(t, once, Normalize(once))
}
