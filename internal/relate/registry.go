package relate

import (
	"path"
	"strings"
)

// Registry maps a "potential module name" to the file id(s) that could be
// referred to by it. A name with more than one candidate is ambiguous and
// never resolves — the suffix-fallback tie-break the reference resolver
// applies by construction, since shorter suffixes are the ones likeliest
// to collide.
type Registry struct {
	names map[string][]int64
}

// isIndexFile reports whether an extension-stripped basename is an
// index/package-init file, which potentialModuleNames collapses to its
// containing directory before suffix enumeration, per "index files
// (index.*, __init__.py) collapsed to their parent directory".
func isIndexFile(base string) bool {
	if base == "__init__" {
		return true
	}
	return base == "index"
}

// stripKnownExtension removes the last extension component tree-sitter's
// language classification cares about. ".d.ts" is stripped as a whole unit
// so declaration files collapse onto the same module name as their
// implementation.
func stripKnownExtension(p string) string {
	if strings.HasSuffix(p, ".d.ts") {
		return strings.TrimSuffix(p, ".d.ts")
	}
	ext := path.Ext(p)
	if ext == "" {
		return p
	}
	return strings.TrimSuffix(p, ext)
}

// potentialModuleNames enumerates every suffix path-prefix of a
// normalized, extension-stripped path: "src/foo/bar" yields
// ["src/foo/bar", "foo/bar", "bar"].
func potentialModuleNames(normalizedPath string) []string {
	noExt := stripKnownExtension(normalizedPath)
	dir, base := path.Split(noExt)
	dir = strings.TrimSuffix(dir, "/")
	if isIndexFile(base) {
		noExt = dir
	}
	if noExt == "" {
		return nil
	}
	parts := strings.Split(noExt, "/")
	names := make([]string, 0, len(parts))
	for i := range parts {
		names = append(names, strings.Join(parts[i:], "/"))
	}
	return names
}

// BuildRegistry constructs the batch-wide name -> file-id registry from
// every file's normalized path, built once per relationship-extraction
// pass and shared across all files' lookups.
func BuildRegistry(files []FileInput) *Registry {
	reg := &Registry{names: make(map[string][]int64)}
	for _, f := range files {
		for _, name := range potentialModuleNames(f.Path) {
			reg.names[name] = append(reg.names[name], f.FileID)
		}
	}
	return reg
}

// exact returns the unique file id registered under name, or (0, false) if
// the name is unregistered or ambiguous.
func (r *Registry) exact(name string) (int64, bool) {
	ids := r.names[name]
	if len(ids) == 1 {
		return ids[0], true
	}
	return 0, false
}

// suffixMatch finds registry entries whose key is name or ends in
// "/"+name, the last-resort lookup for absolute imports. Ambiguous matches
// (more than one distinct file id across all matching keys) resolve to
// nothing.
func (r *Registry) suffixMatch(name string) (int64, bool) {
	suffix := "/" + name
	seen := map[int64]bool{}
	var matched []int64
	for key, ids := range r.names {
		if key != name && !strings.HasSuffix(key, suffix) {
			continue
		}
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				matched = append(matched, id)
			}
		}
	}
	if len(matched) == 1 {
		return matched[0], true
	}
	return 0, false
}

var absoluteRootPrefixes = []string{"src/", "lib/", "dist/"}

// joinModulePath appends a trailing segment onto a (possibly empty) module
// path, used to turn "from X import Y" into the candidate "X/Y" when Y is
// itself a submodule file rather than a symbol defined inside X.
func joinModulePath(base, seg string) string {
	if base == "" {
		return seg
	}
	return base + "/" + seg
}

// resolveAbsolute implements §4.4 step 4: direct lookup, then common root
// prefixes, then suffix match. submoduleCandidates (the statement's
// imported names) are each tried appended to modulePath as a fallback, for
// the "from package import submodule" form where the imported name is a
// file, not a symbol defined within modulePath itself.
func (r *Registry) resolveAbsolute(modulePath string, submoduleCandidates []string) (int64, bool) {
	if id, ok := r.exact(modulePath); ok {
		return id, true
	}
	for _, prefix := range absoluteRootPrefixes {
		if id, ok := r.exact(prefix + modulePath); ok {
			return id, true
		}
	}
	if id, ok := r.suffixMatch(modulePath); ok {
		return id, true
	}
	for _, sub := range submoduleCandidates {
		if sub == "" || sub == "*" {
			continue
		}
		if id, ok := r.resolveAbsolute(joinModulePath(modulePath, sub), nil); ok {
			return id, true
		}
	}
	return 0, false
}

// resolveRelative implements §4.4 step 3: the relative path has already
// been combined against the importing file's directory; look up its own
// potential module names, most-specific first. submoduleCandidates is the
// same "from package import submodule" fallback resolveAbsolute applies.
func (r *Registry) resolveRelative(combinedPath string, submoduleCandidates []string) (int64, bool) {
	for _, name := range potentialModuleNames(combinedPath) {
		if id, ok := r.exact(name); ok {
			return id, true
		}
	}
	for _, sub := range submoduleCandidates {
		if sub == "" || sub == "*" {
			continue
		}
		if id, ok := r.resolveRelative(joinModulePath(combinedPath, sub), nil); ok {
			return id, true
		}
	}
	return 0, false
}

// resolveImport dispatches to the relative or absolute resolution path
// depending on parsed.isRelative, combining a relative module path against
// the importing file's directory first. symbols carries the statement's
// imported names, tried as submodule-file fallbacks when the base module
// path itself doesn't resolve (e.g. "from . import helper" where modname
// is empty and "helper" is a sibling file, not a symbol).
func resolveImport(reg *Registry, sourcePath string, parsed parsedImport, symbols []string) (int64, bool) {
	if !parsed.isRelative {
		return reg.resolveAbsolute(parsed.modulePath, symbols)
	}
	dir := path.Dir(sourcePath)
	combined := combineRelative(dir, parsed.modulePath)
	return reg.resolveRelative(combined, symbols)
}

// combineRelative applies the leading "./"/"../" segments of a relative
// module path against the importing file's directory.
func combineRelative(sourceDir, modulePath string) string {
	if sourceDir == "." {
		sourceDir = ""
	}
	parts := strings.Split(modulePath, "/")
	dir := sourceDir
	i := 0
	for i < len(parts) && (parts[i] == "." || parts[i] == "..") {
		if parts[i] == ".." {
			dir = path.Dir(dir)
			if dir == "." {
				dir = ""
			}
		}
		i++
	}
	remaining := strings.Join(parts[i:], "/")
	if dir == "" {
		return remaining
	}
	if remaining == "" {
		return dir
	}
	return dir + "/" + remaining
}
