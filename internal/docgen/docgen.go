// Package docgen produces documentation artifacts for the documentation
// package. Hypertext output is rendered in-process from the source tree's
// markdown documents; the paginated format is delegated to an external
// generator through its command contract. Neither writes outside its given
// output directory.
package docgen

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"

	"git.home.luguber.info/inful/pkgforge/internal/errors"
	"git.home.luguber.info/inful/pkgforge/internal/logfields"
	"git.home.luguber.info/inful/pkgforge/internal/run"
)

// Generator renders documentation from the application source tree.
type Generator struct {
	Dir         string   // working directory for the delegated generator
	SourcePaths []string // files or directories scanned for markdown documents

	Runner           run.Runner
	PaginatedCommand []string // external generator, {out} substituted
}

// GenerateHTML renders every markdown document found under SourcePaths into
// outDir, plus an index page linking them.
func (g *Generator) GenerateHTML(outDir string) error {
	docs, err := g.collectDocs()
	if err != nil {
		return errors.DocGenerationFailed("html", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.DocGenerationFailed("html", err)
	}

	md := goldmark.New()
	var names []string
	for _, doc := range docs {
		source, err := os.ReadFile(doc)
		if err != nil {
			return errors.DocGenerationFailed("html", err)
		}

		var body bytes.Buffer
		if err := md.Convert(source, &body); err != nil {
			return errors.DocGenerationFailed("html", fmt.Errorf("render %s: %w", doc, err))
		}

		name := htmlName(doc)
		page := renderPage(strings.TrimSuffix(name, ".html"), body.String())
		if err := os.WriteFile(filepath.Join(outDir, name), []byte(page), 0o644); err != nil {
			return errors.DocGenerationFailed("html", err)
		}
		names = append(names, name)
	}

	index := renderIndex(names)
	if err := os.WriteFile(filepath.Join(outDir, "index.html"), []byte(index), 0o644); err != nil {
		return errors.DocGenerationFailed("html", err)
	}

	slog.Info("Generated hypertext documentation", logfields.Path(outDir), slog.Int("documents", len(names)))
	return nil
}

// GeneratePaginated invokes the external paginated-format generator. With no
// generator configured the format is skipped, not failed: the documentation
// package then ships hypertext only.
func (g *Generator) GeneratePaginated(ctx context.Context, outDir string) error {
	if len(g.PaginatedCommand) == 0 {
		slog.Debug("No paginated documentation generator configured, skipping")
		return nil
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.DocGenerationFailed("paginated", err)
	}

	argv := run.Substitute(g.PaginatedCommand, map[string]string{"out": outDir})
	if err := g.Runner.Run(ctx, g.Dir, argv...); err != nil {
		return errors.DocGenerationFailed("paginated", err)
	}
	slog.Info("Generated paginated documentation", logfields.Path(outDir))
	return nil
}

// collectDocs enumerates markdown documents, sorted for stable index order.
func (g *Generator) collectDocs() ([]string, error) {
	var docs []string
	for _, root := range g.SourcePaths {
		info, err := os.Stat(root)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			docs = append(docs, root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(strings.ToLower(path), ".md") {
				docs = append(docs, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(docs)
	return docs, nil
}

func htmlName(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base + ".html"
}

func renderPage(title, body string) string {
	return fmt.Sprintf("<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>%s</title></head>\n<body>\n%s</body>\n</html>\n",
		html.EscapeString(title), body)
}

func renderIndex(names []string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>Documentation</title></head>\n<body>\n<ul>\n")
	for _, name := range names {
		fmt.Fprintf(&b, "<li><a href=\"%s\">%s</a></li>\n", name, html.EscapeString(name))
	}
	b.WriteString("</ul>\n</body>\n</html>\n")
	return b.String()
}
