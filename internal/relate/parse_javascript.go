package relate

import (
	"regexp"
	"strings"
)

// jsModulePathPatterns mirrors the reference TypeScript/JavaScript
// relationship extractor's regex fallback chain: ES6 "from" imports,
// require() calls, dynamic import() calls, and bare side-effect imports.
var jsModulePathPatterns = []*regexp.Regexp{
	regexp.MustCompile(`from\s+['"]([^'"]+)['"]`),
	regexp.MustCompile(`require\s*\(\s*['"]([^'"]+)['"]\s*\)`),
	regexp.MustCompile(`import\s*\(\s*['"]([^'"]+)['"]\s*\)`),
	regexp.MustCompile(`^import\s+['"]([^'"]+)['"]`),
}

// parseJSImport recovers (module_path, is_relative) from one JavaScript or
// TypeScript import/require/dynamic-import statement's text.
func parseJSImport(content string) (parsedImport, bool) {
	content = strings.TrimSpace(content)
	for _, pat := range jsModulePathPatterns {
		if m := pat.FindStringSubmatch(content); m != nil {
			return parsedImport{modulePath: m[1], isRelative: strings.HasPrefix(m[1], ".")}, true
		}
	}
	return parsedImport{}, false
}
