// Package relate resolves import blocks recovered by internal/extract into
// cross-file relationship edges, grounded on the reference implementation's
// per-language relationship extractors: a registry of "potential module
// names" built once per batch, and a language-dispatch table that routes
// each file's import blocks to the parser that knows its import syntax.
package relate

import "github.com/jward/treeline/internal/extract"

// FileInput is everything the resolver needs about one file: its assigned
// file id, its normalized project-relative path, its language tag, and the
// blocks its extractor produced (only the import blocks are read here).
type FileInput struct {
	FileID int64
	Path   string
	Language string
	Blocks []*extract.Block
}

// Relationship is a resolved edge: an import block in SourceFileID whose
// module path resolved to TargetFileID.
type Relationship struct {
	SourceFileID  int64
	TargetFileID  int64
	ImportContent string
	Symbols       []string
}

// Resolve builds the module registry from every file in the batch, then
// routes each file's import blocks to its language's parser and resolution
// rules, producing one edge per import that resolves to a file present in
// the batch. Imports resolving to their own source file are dropped.
// Unknown languages produce no relationships for that file.
func Resolve(files []FileInput) []Relationship {
	return ResolveFiles(BuildRegistry(files), files)
}

// ResolveFiles runs the per-file import-resolution loop against an
// already-built registry. Split out from Resolve so the incremental
// reconciler can build the registry from every file in the updated
// snapshot while resolving only the changed files' import blocks against
// it (§4.7 step 9): a file's imports may target an unchanged neighbor that
// never re-parses in this run.
func ResolveFiles(reg *Registry, files []FileInput) []Relationship {
	var out []Relationship
	for _, f := range files {
		parse, ok := dispatch[f.Language]
		if !ok {
			continue
		}
		for _, block := range f.Blocks {
			if block.Type != extract.KindImport {
				continue
			}
			parsed, ok := parse(block.Content)
			if !ok {
				continue
			}
			symbols := block.Symbols
			if len(symbols) == 0 {
				symbols = parsed.symbols
			}
			targetID, ok := resolveImport(reg, f.Path, parsed, symbols)
			if !ok || targetID == f.FileID {
				continue
			}
			out = append(out, Relationship{
				SourceFileID:  f.FileID,
				TargetFileID:  targetID,
				ImportContent: block.Content,
				Symbols:       symbols,
			})
		}
	}
	return out
}

// parsedImport is the (module_path, symbols, is_relative) triple recovered
// from one import statement's text.
type parsedImport struct {
	modulePath string
	symbols    []string
	isRelative bool
}

// importParser recovers the module path (and any symbols the text-level
// parse can add) from one import block's raw content.
type importParser func(content string) (parsedImport, bool)

// dispatch routes a file's import blocks to the parser for its language.
// Languages absent from this table produce no relationships, per the
// "small language-dispatch registry" / "unknown languages produce no
// relationships" rule.
var dispatch = map[string]importParser{
	"go":         parseGoImport,
	"python":     parsePythonImport,
	"javascript": parseJSImport,
	"typescript": parseJSImport,
	"java":       parseJavaImport,
}
