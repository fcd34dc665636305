package logfields

import (
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"Phase", KeyPhase, "build", Phase("build")},
		{"Package", KeyPackage, "pb-dbhandler", Package("pb-dbhandler")},
		{"Locale", KeyLocale, "de", Locale("de")},
		{"Domain", KeyDomain, "py_pb_dbhandler", Domain("py_pb_dbhandler")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"Root", KeyRoot, "/tmp/stage", Root("/tmp/stage")},
		{"RunID", KeyRunID, "r1", RunID("r1")},
		{"Fingerprint", KeyFingerprint, "abc", Fingerprint("abc")},
		{"Command", KeyCommand, "msgfmt", Command("msgfmt")},
		{"Format", KeyFormat, "html", Format("html")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.attr.Key != tc.attrKey {
				t.Errorf("key = %q, want %q", tc.attr.Key, tc.attrKey)
			}
			if got := tc.attr.Value.String(); got != tc.attrVal {
				t.Errorf("value = %q, want %q", got, tc.attrVal)
			}
		})
	}
}

func TestErrorAttr(t *testing.T) {
	if got := Error(nil).Value.String(); got != "" {
		t.Errorf("nil error value = %q, want empty", got)
	}
}
