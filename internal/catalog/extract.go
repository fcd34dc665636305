// Package catalog implements the translation catalog pipeline: template
// extraction from application source, normalization of the generated template,
// compilation of per-locale catalogs to binary form, and installation under a
// locale-root hierarchy.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"git.home.luguber.info/inful/pkgforge/internal/errors"
)

// Location points at a marker call site in the source tree.
type Location struct {
	File string
	Line int
}

// Message is one extracted translatable string with every place it occurs.
type Message struct {
	ID        string
	Locations []Location
}

// Extractor scans a source tree for translatable strings and writes a
// template catalog.
type Extractor struct {
	SourceDir  string
	Extensions []string
	Markers    []string // marker function names, e.g. "_" and "__"

	PackageName string
	Version     string
	Contact     string
	WrapWidth   int

	// Now is the template creation timestamp source; overridable in tests
	// for stable output.
	Now func() time.Time
}

// CollectSources returns the source files considered for extraction, sorted
// lexicographically and deduplicated, so catalog contents are stable across
// re-runs regardless of filesystem enumeration order.
func (e *Extractor) CollectSources() ([]string, error) {
	extSet := make(map[string]bool, len(e.Extensions))
	for _, ext := range e.Extensions {
		extSet[ext] = true
	}

	seen := make(map[string]bool)
	var files []string
	err := filepath.WalkDir(e.SourceDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !extSet[filepath.Ext(path)] {
			return nil
		}
		rel, err := filepath.Rel(e.SourceDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !seen[rel] {
			seen[rel] = true
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect sources: %w", err)
	}

	sort.Strings(files)
	return files, nil
}

// Extract scans the collected sources and writes the normalized template
// catalog to outPath. The write is atomic: the template is assembled in a
// temporary file and renamed into place, so a failed extraction never leaves
// a partial catalog.
func (e *Extractor) Extract(outPath string) error {
	files, err := e.CollectSources()
	if err != nil {
		return errors.ExtractionFailed(err)
	}

	var messages []*Message
	index := make(map[string]*Message)

	for _, rel := range files {
		data, err := os.ReadFile(filepath.Join(e.SourceDir, filepath.FromSlash(rel)))
		if err != nil {
			return errors.ExtractionFailed(err)
		}
		for _, hit := range scanMarkers(string(data), e.Markers) {
			msg, ok := index[hit.text]
			if !ok {
				msg = &Message{ID: hit.text}
				index[hit.text] = msg
				messages = append(messages, msg)
			}
			msg.Locations = append(msg.Locations, Location{File: rel, Line: hit.line})
		}
	}

	raw := e.render(messages)
	normalized := Normalize(raw)

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return errors.ExtractionFailed(err)
	}
	tmp := outPath + ".tmp"
	if err := os.WriteFile(tmp, []byte(normalized), 0o644); err != nil {
		return errors.ExtractionFailed(err)
	}
	if err := os.Rename(tmp, outPath); err != nil {
		return errors.ExtractionFailed(err)
	}
	return nil
}

type markerHit struct {
	text string
	line int
}

// scanMarkers finds single-line string literals passed to the recognized
// marker functions. Both quote styles of the declared source language are
// accepted.
func scanMarkers(source string, markers []string) []markerHit {
	var hits []markerHit
	lines := strings.Split(source, "\n")
	for lineNo, line := range lines {
		for _, marker := range markers {
			needle := marker + "("
			offset := 0
			for {
				idx := strings.Index(line[offset:], needle)
				if idx < 0 {
					break
				}
				pos := offset + idx
				// Reject matches inside identifiers (e.g. gettext( matching _().
				if pos > 0 && isIdentChar(line[pos-1]) {
					offset = pos + len(needle)
					continue
				}
				text, ok := parseStringLiteral(line[pos+len(needle):])
				if ok {
					hits = append(hits, markerHit{text: text, line: lineNo + 1})
				}
				offset = pos + len(needle)
			}
		}
	}
	return hits
}

func isIdentChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// parseStringLiteral reads a quoted literal at the start of s, skipping
// leading whitespace and an optional u/b prefix.
func parseStringLiteral(s string) (string, bool) {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	if i < len(s) && (s[i] == 'u' || s[i] == 'b') {
		i++
	}
	if i >= len(s) || (s[i] != '"' && s[i] != '\'') {
		return "", false
	}
	quote := s[i]
	i++
	var b strings.Builder
	for i < len(s) {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			b.WriteByte(s[i+1])
			i += 2
		case c == quote:
			return b.String(), true
		default:
			b.WriteByte(c)
			i++
		}
	}
	return "", false
}
