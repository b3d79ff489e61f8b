// Package lang classifies files by language and memoizes tree-sitter
// grammars, one per language for the process lifetime; each Parser call
// builds a fresh parser over the cached grammar.
package lang

import (
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	ts "github.com/smacker/go-tree-sitter/typescript/typescript"
)

// extToLanguage maps file extensions and bare filenames to canonical
// language tags. Basenames are checked first by the caller (for names like
// Dockerfile that carry no extension).
var extToLanguage = map[string]string{
	".go":   "go",
	".ts":   "typescript",
	".tsx":  "typescript",
	".js":   "javascript",
	".jsx":  "javascript",
	".mjs":  "javascript",
	".py":   "python",
	".rs":   "rust",
	".c":    "c",
	".h":    "c",
	".cpp":  "cpp",
	".cc":   "cpp",
	".cxx":  "cpp",
	".hpp":  "cpp",
	".java": "java",
	".php":  "php",
	".rb":   "ruby",
}

// nameToLanguage handles files classified by full basename rather than
// extension.
var nameToLanguage = map[string]string{
	"Makefile":  "make",
	"Dockerfile": "docker",
}

// LanguageOf returns the canonical language tag for a path, or ("", false)
// if the file is not recognized (language_of in spec terms).
func LanguageOf(path string) (string, bool) {
	base := filepath.Base(path)
	if l, ok := nameToLanguage[base]; ok {
		return l, true
	}
	ext := strings.ToLower(filepath.Ext(path))
	l, ok := extToLanguage[ext]
	return l, ok
}

// Cache lazily instantiates and caches one tree-sitter Language per
// canonical language tag. Immutable after first touch per language;
// concurrent readers are safe.
type Cache struct {
	once      sync.Once
	grammars  map[string]*sitter.Language
}

func (pc *Cache) init() {
	pc.once.Do(func() {
		pc.grammars = map[string]*sitter.Language{
			"go":         golang.GetLanguage(),
			"typescript": ts.GetLanguage(),
			"javascript": javascript.GetLanguage(),
			"python":     python.GetLanguage(),
			"java":       java.GetLanguage(),
			"rust":       rust.GetLanguage(),
			"c":          c.GetLanguage(),
			"cpp":        cpp.GetLanguage(),
			"php":        php.GetLanguage(),
			"ruby":       ruby.GetLanguage(),
		}
	})
}

// Get returns the memoized tree-sitter Language for a canonical language
// tag, or (nil, false) if no grammar is registered for it.
func (pc *Cache) Get(language string) (*sitter.Language, bool) {
	pc.init()
	l, ok := pc.grammars[language]
	return l, ok
}

// Parser returns a freshly constructed *sitter.Parser bound to the
// language's grammar, or (nil, false) if the grammar is unavailable.
// Parsers themselves are not memoized — go-tree-sitter's Parser carries
// mutable parse state and is not safe to share across concurrent files —
// only the underlying Language grammar is cached.
func (pc *Cache) Parser(language string) (*sitter.Parser, bool) {
	g, ok := pc.Get(language)
	if !ok {
		return nil, false
	}
	p := sitter.NewParser()
	p.SetLanguage(g)
	return p, true
}
