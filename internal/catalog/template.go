package catalog

import (
	"fmt"
	"strings"
	"time"
)

// render produces the raw template text before normalization. Entries are
// ordered by source file because messages are collected from lexically sorted
// files; the header carries the package identity metadata.
func (e *Extractor) render(messages []*Message) string {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}

	var b strings.Builder

	fmt.Fprintf(&b, "# Translation template for %s.\n", e.PackageName)
	fmt.Fprintf(&b, "# Copyright (C) %d %s\n", now().Year(), e.PackageName)
	fmt.Fprintf(&b, "# This file is distributed under the same license as the %s package.\n", e.PackageName)
	b.WriteString("#\n")
	b.WriteString("#, fuzzy\n")
	b.WriteString("msgid \"\"\n")
	b.WriteString("msgstr \"\"\n")
	fmt.Fprintf(&b, "\"Project-Id-Version: %s %s\\n\"\n", e.PackageName, e.Version)
	fmt.Fprintf(&b, "\"Report-Msgid-Bugs-To: %s\\n\"\n", e.Contact)
	fmt.Fprintf(&b, "\"POT-Creation-Date: %s\\n\"\n", now().Format("2006-01-02 15:04-0700"))
	b.WriteString("\"PO-Revision-Date: YEAR-MO-DA HO:MI+ZONE\\n\"\n")
	b.WriteString("\"Last-Translator: FULL NAME <EMAIL@ADDRESS>\\n\"\n")
	b.WriteString("\"Language-Team: LANGUAGE <LL@li.org>\\n\"\n")
	b.WriteString("\"MIME-Version: 1.0\\n\"\n")
	b.WriteString("\"Content-Type: text/plain; charset=UTF-8\\n\"\n")
	b.WriteString("\"Content-Transfer-Encoding: 8bit\\n\"\n")

	for _, msg := range messages {
		b.WriteString("\n")
		for _, loc := range msg.Locations {
			fmt.Fprintf(&b, "#: %s:%d\n", loc.File, loc.Line)
		}
		writeKeyword(&b, "msgid", msg.ID, e.WrapWidth)
		b.WriteString("msgstr \"\"\n")
	}

	return b.String()
}

// writeKeyword emits a keyword line in the raw tool style: a tab between
// keyword and string, and 8-space indented continuation lines for wrapped
// strings. Normalize turns these into the canonical form.
func writeKeyword(b *strings.Builder, keyword, value string, wrap int) {
	escaped := escapePOString(value)
	if wrap <= 0 || len(keyword)+len(escaped)+4 <= wrap {
		fmt.Fprintf(b, "%s\t\"%s\"\n", keyword, escaped)
		return
	}

	fmt.Fprintf(b, "%s\t\"\"\n", keyword)
	for _, chunk := range wrapChunks(escaped, wrap-2) {
		fmt.Fprintf(b, "        \"%s\"\n", chunk)
	}
}

// wrapChunks splits an escaped string at word boundaries, keeping each chunk
// within width where possible.
func wrapChunks(s string, width int) []string {
	if width < 10 {
		width = 10
	}
	var chunks []string
	for len(s) > width {
		cut := strings.LastIndex(s[:width], " ")
		if cut <= 0 {
			cut = width
		} else {
			cut++ // keep the trailing space on the chunk
		}
		chunks = append(chunks, s[:cut])
		s = s[cut:]
	}
	if s != "" {
		chunks = append(chunks, s)
	}
	return chunks
}

func escapePOString(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		"\"", "\\\"",
		"\n", "\\n",
		"\t", "\\t",
	)
	return r.Replace(s)
}
