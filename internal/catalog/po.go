package catalog

import (
	"fmt"
	"strings"
)

// Entry is one message pair of a locale catalog.
type Entry struct {
	ID  string
	Str string
}

// POFile is a parsed locale catalog in source form.
type POFile struct {
	// Header is the msgstr of the empty msgid, carrying catalog metadata.
	Header  string
	Entries []Entry
}

// ParsePO parses a locale catalog. The parser is strict about the properties
// compilation depends on: every msgstr must follow a msgid, string lines must
// be properly quoted, and a msgid may appear only once.
func ParsePO(data []byte) (*POFile, error) {
	po := &POFile{}
	seen := make(map[string]bool)

	var (
		curID, curStr strings.Builder
		inEntry       bool
		inStr         bool // true while reading msgstr continuation, false for msgid
	)

	flush := func() error {
		if !inEntry {
			return nil
		}
		id := curID.String()
		if seen[id] {
			return fmt.Errorf("duplicate msgid %q", id)
		}
		seen[id] = true
		if id == "" {
			po.Header = curStr.String()
		} else {
			po.Entries = append(po.Entries, Entry{ID: id, Str: curStr.String()})
		}
		curID.Reset()
		curStr.Reset()
		inEntry = false
		inStr = false
		return nil
	}

	for lineNo, rawLine := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(rawLine)
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			continue

		case strings.HasPrefix(line, "msgid "):
			if err := flush(); err != nil {
				return nil, err
			}
			s, err := unquotePOLine(strings.TrimPrefix(line, "msgid "))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
			}
			curID.WriteString(s)
			inEntry = true
			inStr = false

		case strings.HasPrefix(line, "msgstr "):
			if !inEntry {
				return nil, fmt.Errorf("line %d: msgstr without msgid", lineNo+1)
			}
			s, err := unquotePOLine(strings.TrimPrefix(line, "msgstr "))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
			}
			curStr.WriteString(s)
			inStr = true

		case strings.HasPrefix(line, "\""):
			if !inEntry {
				return nil, fmt.Errorf("line %d: continuation string outside an entry", lineNo+1)
			}
			s, err := unquotePOLine(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
			}
			if inStr {
				curStr.WriteString(s)
			} else {
				curID.WriteString(s)
			}

		default:
			return nil, fmt.Errorf("line %d: unexpected content %q", lineNo+1, line)
		}
	}

	if err := flush(); err != nil {
		return nil, err
	}
	return po, nil
}

// unquotePOLine parses a single quoted PO string segment.
func unquotePOLine(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", fmt.Errorf("malformed string segment %q", s)
	}
	body := s[1 : len(s)-1]

	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '"' {
			return "", fmt.Errorf("unescaped quote in %q", s)
		}
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", fmt.Errorf("trailing backslash in %q", s)
		}
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		default:
			return "", fmt.Errorf("unsupported escape \\%c in %q", body[i], s)
		}
	}
	return b.String(), nil
}
