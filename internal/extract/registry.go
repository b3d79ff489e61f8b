package extract

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jward/treeline/internal/ids"
)

// Extractor is the trait every language implements: extract_all composes
// the per-category extractors in the fixed order imports, exports, enums,
// variables, functions, classes, interfaces, type aliases.
type Extractor interface {
	ExtractImports(src []byte, root *sitter.Node) []*Block
	ExtractExports(src []byte, root *sitter.Node) []*Block
	ExtractEnums(src []byte, root *sitter.Node) []*Block
	ExtractVariables(src []byte, root *sitter.Node) []*Block
	ExtractFunctions(src []byte, root *sitter.Node) []*Block
	ExtractClasses(src []byte, root *sitter.Node) []*Block
	ExtractInterfaces(src []byte, root *sitter.Node) []*Block
	ExtractTypeAliases(src []byte, root *sitter.Node) []*Block
	// CommentPrefix returns the language's line-comment token, used when
	// splicing block-ref markers into split large functions.
	CommentPrefix() string
}

// ExtractAll composes an Extractor's per-category methods in the fixed
// order the spec mandates, then empties class content and assigns ids.
// Returns (blocks, ok); ok is false if the file's block sequence
// overflowed (§9), in which case the caller must mark the file unsupported
// and discard blocks entirely rather than persist a partial set.
func ExtractAll(e Extractor, src []byte, root *sitter.Node, normalizedPath string) ([]*Block, bool) {
	var all []*Block
	all = append(all, e.ExtractImports(src, root)...)
	all = append(all, e.ExtractExports(src, root)...)
	all = append(all, e.ExtractEnums(src, root)...)
	all = append(all, e.ExtractVariables(src, root)...)
	all = append(all, e.ExtractFunctions(src, root)...)
	all = append(all, e.ExtractClasses(src, root)...)
	all = append(all, e.ExtractInterfaces(src, root)...)
	all = append(all, e.ExtractTypeAliases(src, root)...)

	for i, b := range all {
		if b.Name == "" {
			all[i].Name = "anonymous"
		}
	}

	seq := ids.NewSequencer(normalizedPath)
	if !AssignIDs(all, seq) {
		return nil, false
	}
	SplitLargeFunctions(all, e.CommentPrefix())
	EmptyClassContent(all)
	return all, true
}

// Factory constructs a fresh Extractor instance for one file's extraction.
// Extractors carry no shared mutable state across files, so a factory
// rather than a singleton keeps per-file use trivially concurrency-safe.
type Factory func() Extractor

// registry is the explicit language -> extractor-factory table, built at
// init time rather than via import-side-effect auto-registration.
var registry = map[string]Factory{
	"go":         func() Extractor { return &GoExtractor{} },
	"python":     func() Extractor { return &PythonExtractor{} },
	"javascript": func() Extractor { return &JavaScriptExtractor{} },
	"typescript": func() Extractor { return &TypeScriptExtractor{} },
	"java":       func() Extractor { return &JavaExtractor{} },
}

// Register registers a custom extractor factory for a language, or
// overrides an existing one. Exposed for tests and for embedding hosts that
// want to add a language without forking this package.
func Register(language string, f Factory) {
	registry[language] = f
}

// For returns the extractor factory for a language, or (nil, false) if no
// extractor is registered — the file must then be recorded unsupported
// with reason "no extractor registered for language", a valid instance of
// the unsupported-file lifecycle rather than a parse failure.
func For(language string) (Factory, bool) {
	f, ok := registry[language]
	return f, ok
}

// SupportedLanguages returns the languages with a registered extractor.
func SupportedLanguages() []string {
	langs := make([]string, 0, len(registry))
	for l := range registry {
		langs = append(langs, l)
	}
	return langs
}
