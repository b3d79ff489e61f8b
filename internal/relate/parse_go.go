package relate

import "regexp"

var goImportPathPattern = regexp.MustCompile(`"([^"]+)"`)

// parseGoImport recovers the quoted import path from a Go import_spec's
// text. Go import paths are full module paths, not path-relative
// references, so they are always resolved as absolute names. The registry
// is keyed by project-relative file paths and has no notion of the
// importing module's own path prefix, so a module-qualified path such as
// "example.com/m/pkg" matches no entry; an import path resolves only when
// it equals the extension-stripped trailing segments of exactly one file
// path (for example "widget" for internal/widget/widget.go).
func parseGoImport(content string) (parsedImport, bool) {
	m := goImportPathPattern.FindStringSubmatch(content)
	if m == nil {
		return parsedImport{}, false
	}
	return parsedImport{modulePath: m[1], isRelative: false}, true
}
