// Package fingerprint computes deterministic content hashes over input file
// trees. Build re-execution is decided by comparing fingerprints rather than
// file modification times, so clock skew and mtime-preserving checkouts cannot
// produce stale no-op builds.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Tree computes a hash over every regular file under the given roots. The
// result covers relative paths and file contents; enumeration order does not
// matter because entries are sorted before hashing. Directories whose paths
// appear in skip are pruned; matching is by exact path, so a source
// subdirectory that merely shares a name with an output directory is still
// hashed. Roots that do not exist contribute nothing.
func Tree(roots []string, skip []string) (string, error) {
	skipSet := make(map[string]bool, len(skip))
	for _, s := range skip {
		skipSet[filepath.Clean(s)] = true
	}

	type entry struct {
		path string
		sum  string
	}
	var entries []entry

	for _, root := range roots {
		info, err := os.Stat(root)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			sum, err := fileSum(root)
			if err != nil {
				return "", err
			}
			entries = append(entries, entry{path: filepath.ToSlash(root), sum: sum})
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if skipSet[filepath.Clean(path)] {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			sum, err := fileSum(path)
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			entries = append(entries, entry{path: filepath.ToSlash(filepath.Join(filepath.Base(root), rel)), sum: sum})
			return nil
		})
		if err != nil {
			return "", fmt.Errorf("walk %s: %w", root, err)
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].path < entries[j].path })

	h := sha256.New()
	for _, e := range entries {
		fmt.Fprintf(h, "%s\x00%s\n", e.path, e.sum)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// File returns the hex sha256 of a single file's contents.
func File(path string) (string, error) {
	return fileSum(path)
}

func fileSum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
