package scanner

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var skipDirs = map[string]bool{
	"vendor":       true,
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"bin":          true,
}

const (
	documentPattern = "**/*.{yaml,yml,json}"
	listPattern     = "**/{endpoints,routes}.txt"
	sniffSize       = 4 * 1024
)

// SpecScanner implements domain.SpecFinder by globbing a directory tree for
// OpenAPI documents and endpoint lists.
type SpecScanner struct{}

func New() *SpecScanner {
	return &SpecScanner{}
}

// Find returns spec files under dir, relative paths joined onto dir, in
// lexical order. YAML and JSON files count only when their head mentions an
// openapi or swagger version key.
func (s *SpecScanner) Find(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	fsys := os.DirFS(dir)
	var found []string

	docs, err := doublestar.Glob(fsys, documentPattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	for _, rel := range docs {
		if skipped(rel) || filepath.Base(rel) == ".apigrade.yaml" {
			continue
		}
		ok, err := looksLikeOpenAPI(fsys, rel)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", rel, err)
		}
		if ok {
			found = append(found, filepath.Join(dir, filepath.FromSlash(rel)))
		}
	}

	lists, err := doublestar.Glob(fsys, listPattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	for _, rel := range lists {
		if !skipped(rel) {
			found = append(found, filepath.Join(dir, filepath.FromSlash(rel)))
		}
	}

	sort.Strings(found)
	return found, nil
}

func skipped(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if skipDirs[part] {
			return true
		}
	}
	return false
}

func looksLikeOpenAPI(fsys fs.FS, rel string) (bool, error) {
	f, err := fsys.Open(rel)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, sniffSize)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	text := string(head[:n])
	for _, key := range []string{"openapi", "swagger"} {
		if strings.Contains(text, key+":") || strings.Contains(text, `"`+key+`"`) {
			return true, nil
		}
	}
	return false, nil
}
