// Package fonts locates font files under the asset directories.
package fonts

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"
)

// Extensions we consider as font files.
var Exts = []string{".ttf", ".otf"}

// BaseDirs returns candidate base directories for fonts under assetsDir.
// The bare assetsDir is searched too, where single font files usually live.
func BaseDirs(assetsDir string) []string {
	if assetsDir == "" {
		assetsDir = "assets"
	}
	return []string{path.Join(assetsDir, "fonts"), assetsDir}
}

// ScanDir returns relative paths of all font files under dir (e.g. "Roboto/Roboto-Regular.ttf").
// Paths use forward slashes. A missing dir yields no paths and no error.
func ScanDir(fsys afero.Fs, dir string) ([]string, error) {
	var out []string
	dir = path.Clean(dir)
	err := afero.Walk(fsys, dir, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		if isFont(p) {
			rel := strings.TrimPrefix(strings.TrimPrefix(toSlash(p), dir), "/")
			out = append(out, rel)
		}
		return nil
	})
	return out, err
}

func toSlash(p string) string { return strings.ReplaceAll(p, "\\", "/") }

func isFont(p string) bool {
	ext := strings.ToLower(path.Ext(toSlash(p)))
	for _, e := range Exts {
		if ext == e {
			return true
		}
	}
	return false
}

// normalizeForMatch lowercases and removes spaces, dashes, and underscores for fuzzy matching.
func normalizeForMatch(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}

// SearchCandidates returns search terms to try in order when the exact path failed.
// Example: "Roboto/Roboto-Regular.ttf" -> ["Roboto/Roboto-Regular.ttf", "Roboto", "Roboto/Roboto-Regular"].
func SearchCandidates(pathOrName string) []string {
	seen := map[string]bool{pathOrName: true}
	candidates := []string{pathOrName}
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			candidates = append(candidates, s)
		}
	}
	// First path segment (e.g. "Roboto" from "Roboto/Roboto-Regular.ttf")
	if i := strings.IndexAny(pathOrName, "/\\"); i > 0 {
		add(pathOrName[:i])
	}
	// File name before its first hyphen (e.g. "Roboto" from "Roboto-Regular.ttf")
	base := pathOrName[strings.LastIndexAny(pathOrName, "/\\")+1:]
	if i := strings.Index(base, "-"); i > 0 {
		add(base[:i])
	}
	// Name without .ttf/.otf extension
	for _, ext := range Exts {
		if strings.HasSuffix(strings.ToLower(pathOrName), ext) {
			add(pathOrName[:len(pathOrName)-len(ext)])
			break
		}
	}
	return candidates
}

// FindFont searches the font directories under assetsDir for a font file whose path matches search.
// search can be a name like "Roboto" or a partial path like "Roboto-Regular".
// Returns the relative path and the full path on fsys. When multiple files match,
// one whose path contains "Regular" is preferred.
func FindFont(fsys afero.Fs, assetsDir, search string) (relPath string, fullPath string, err error) {
	for _, term := range SearchCandidates(search) {
		rel, full, err := findOne(fsys, assetsDir, term)
		if err == nil {
			return rel, full, nil
		}
	}
	return "", "", os.ErrNotExist
}

func findOne(fsys afero.Fs, assetsDir, search string) (string, string, error) {
	norm := normalizeForMatch(search)
	if norm == "" {
		return "", "", os.ErrNotExist
	}
	var candidates []struct{ rel, full string }
	for _, base := range BaseDirs(assetsDir) {
		list, walkErr := ScanDir(fsys, base)
		if walkErr != nil || len(list) == 0 {
			continue
		}
		for _, rel := range list {
			if strings.Contains(normalizeForMatch(rel), norm) {
				candidates = append(candidates, struct{ rel, full string }{rel, path.Join(base, rel)})
			}
		}
	}
	if len(candidates) == 0 {
		return "", "", os.ErrNotExist
	}
	// Prefer path containing "regular" when multiple match
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c.rel), "regular") {
			return c.rel, c.full, nil
		}
	}
	return candidates[0].rel, candidates[0].full, nil
}
