// Package walker enumerates a directory tree for the indexer, applying the
// ignore-directory and ignore-file sets and classifying each surviving path
// as text or binary.
package walker

import (
	"bytes"
	"os"
	"path/filepath"
)

// ignoreDirs lists directory basenames never descended into: version
// control, language build/cache dirs, vendored dependencies, IDE dirs, OS
// metadata.
var ignoreDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
	"dist":         true,
	"build":        true,
	"target":       true,
	".next":        true,
	".idea":        true,
	".vscode":      true,
	".DS_Store":    true,
	".canopy":      true,
	".treeline":    true,
}

// ignoreFileSuffixes lists file-name suffixes skipped outright: compiled
// artifacts, images, archives, fonts, minified/source-map outputs.
// Lockfiles are matched by exact basename in ignoreFileNames below.
var ignoreFileSuffixes = []string{
	".min.js", ".map", ".pyc", ".pyo", ".o", ".a", ".so", ".dylib", ".dll",
	".exe", ".class", ".jar", ".war",
	".png", ".jpg", ".jpeg", ".gif", ".ico", ".bmp", ".svg", ".webp",
	".zip", ".tar", ".gz", ".tgz", ".bz2", ".7z", ".rar",
	".woff", ".woff2", ".ttf", ".eot",
}

var ignoreFileNames = map[string]bool{
	"package-lock.json": true,
	"yarn.lock":         true,
	"pnpm-lock.yaml":    true,
	"go.sum":            true,
	"Cargo.lock":        true,
	"poetry.lock":       true,
}

func ignoredDir(name string) bool {
	return ignoreDirs[name]
}

func ignoredFile(name string) bool {
	if ignoreFileNames[name] {
		return true
	}
	for _, suf := range ignoreFileSuffixes {
		if len(name) >= len(suf) && name[len(name)-len(suf):] == suf {
			return true
		}
	}
	return false
}

// Walk recursively enumerates root, invoking fn for every surviving file
// path (directories and ignored entries are skipped silently). Symlinks are
// followed; cycles are avoided by tracking the canonical (resolved) paths
// of the directories currently being descended, so a directory reached
// through a symlink and through its real path is listed under both.
func Walk(root string, fn func(path string) error) error {
	visited := map[string]bool{}
	return walkDir(root, visited, fn)
}

func walkDir(dir string, visited map[string]bool, fn func(path string) error) error {
	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		real = dir
	}
	if visited[real] {
		return nil
	}
	visited[real] = true
	defer delete(visited, real)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.Mode()&os.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(path)
			if err != nil {
				continue
			}
			st, err := os.Stat(target)
			if err != nil {
				continue
			}
			if st.IsDir() {
				if ignoredDir(name) {
					continue
				}
				if err := walkDir(path, visited, fn); err != nil {
					return err
				}
				continue
			}
			if ignoredFile(name) {
				continue
			}
			if err := fn(path); err != nil {
				return err
			}
			continue
		}

		if entry.IsDir() {
			if ignoredDir(name) {
				continue
			}
			if err := walkDir(path, visited, fn); err != nil {
				return err
			}
			continue
		}

		if ignoredFile(name) {
			continue
		}
		if err := fn(path); err != nil {
			return err
		}
	}
	return nil
}

// encodings tried in order when probing whether a file is text.
var encodingCascade = []string{"utf-8", "utf-8-sig", "latin-1", "cp1252"}

// IsText reports whether the given bytes look like text: no null byte in
// the first 512 bytes and at least one of the encoding-cascade candidates
// decodes cleanly. Go's standard library has no latin-1/cp1252 decoders
// with failure signals distinguishable from utf-8 (they're both
// single-byte supersets of nothing-can-fail), so the practical cascade
// collapses to the null-byte probe alone; no UTF-8 check is made, since
// bytes that fail UTF-8 would still be accepted as text under
// latin-1/cp1252 (every byte sequence is valid there), matching the source's always-succeeds fallback
// cascade.
func IsText(content []byte) bool {
	probeLen := len(content)
	if probeLen > 512 {
		probeLen = 512
	}
	return !bytes.Contains(content[:probeLen], []byte{0})
}
