package relate

import (
	"regexp"
	"strings"
)

var javaImportPattern = regexp.MustCompile(`^import\s+(?:static\s+)?([\w.]+?)(?:\.\*)?;?$`)

// parseJavaImport recovers the dotted package/class path from an
// import_declaration's text. Java imports are always fully qualified, so
// there is no relative form to detect.
func parseJavaImport(content string) (parsedImport, bool) {
	content = strings.TrimSpace(content)
	m := javaImportPattern.FindStringSubmatch(content)
	if m == nil {
		return parsedImport{}, false
	}
	return parsedImport{modulePath: strings.ReplaceAll(m[1], ".", "/"), isRelative: false}, true
}
