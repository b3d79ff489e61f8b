package relate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/treeline/internal/extract"
)

func importBlock(content string) *extract.Block {
	return &extract.Block{Type: extract.KindImport, Name: "import", Content: content}
}

// importBlockWithSymbols mirrors what the real Python extractor produces
// for a "from X import Y" statement: Y is recovered from the AST's
// import_from_statement node, not from the text-level regex parser.
func importBlockWithSymbols(content string, symbols ...string) *extract.Block {
	b := importBlock(content)
	b.Symbols = symbols
	return b
}

func TestParsePythonImport(t *testing.T) {
	cases := []struct {
		name       string
		content    string
		wantPath   string
		wantRel    bool
	}{
		{"plain", "import os", "os", false},
		{"dotted", "import pkg.sub", "pkg/sub", false},
		{"from-dot", "from . import sibling", ".", true},
		{"from-dotdot", "from ..pkg import helper", "../pkg", true},
		{"importlib", `importlib.import_module("pkg.sub")`, "pkg/sub", false},
		{"dunder", `__import__("pkg.sub")`, "pkg/sub", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			parsed, ok := parsePythonImport(c.content)
			require.True(t, ok)
			assert.Equal(t, c.wantPath, parsed.modulePath)
			assert.Equal(t, c.wantRel, parsed.isRelative)
		})
	}
}

func TestPyRelativeModulePath(t *testing.T) {
	assert.Equal(t, ".", pyRelativeModulePath(1, ""))
	assert.Equal(t, "sibling", pyRelativeModulePath(1, "sibling"))
	assert.Equal(t, "../pkg/helper", pyRelativeModulePath(2, "pkg.helper"))
}

func TestResolveFiles_PythonRelativeImport(t *testing.T) {
	files := []FileInput{
		{FileID: 1, Path: "pkg/main.py", Language: "python", Blocks: []*extract.Block{
			importBlockWithSymbols("from . import sibling", "sibling"),
		}},
		{FileID: 2, Path: "pkg/sibling.py", Language: "python"},
	}
	edges := Resolve(files)
	require.Len(t, edges, 1)
	assert.Equal(t, int64(1), edges[0].SourceFileID)
	assert.Equal(t, int64(2), edges[0].TargetFileID)
}

// TestResolveFiles_PythonFromImportSymbolNotFile covers the case the
// submodule-name fallback must NOT wrongly satisfy: "from .b import B"
// where b.py defines a symbol named B, not a sibling file called B. The
// primary module-path lookup on "b" resolves first; the "B" fallback
// never gets a chance to produce a false match since resolution already
// succeeded.
func TestResolveFiles_PythonFromImportSymbolNotFile(t *testing.T) {
	files := []FileInput{
		{FileID: 1, Path: "pkg/main.py", Language: "python", Blocks: []*extract.Block{
			importBlockWithSymbols("from .b import B", "B"),
		}},
		{FileID: 2, Path: "pkg/b.py", Language: "python"},
	}
	edges := Resolve(files)
	require.Len(t, edges, 1)
	assert.Equal(t, int64(2), edges[0].TargetFileID)
}

func TestResolveFiles_GoImport(t *testing.T) {
	// The registry is built from file paths, so a Go import resolves by
	// matching the package's conventional same-named file ("widget/widget.go")
	// rather than the module's full import path, which the registry has no
	// notion of.
	files := []FileInput{
		{FileID: 1, Path: "cmd/main.go", Language: "go", Blocks: []*extract.Block{
			importBlock(`"widget"`),
		}},
		{FileID: 2, Path: "internal/widget/widget.go", Language: "go"},
	}
	edges := Resolve(files)
	require.Len(t, edges, 1)
	assert.Equal(t, int64(2), edges[0].TargetFileID)
}

func TestResolveFiles_AmbiguousSuffixDropsEdge(t *testing.T) {
	files := []FileInput{
		{FileID: 1, Path: "app/main.py", Language: "python", Blocks: []*extract.Block{
			importBlock("import widget"),
		}},
		{FileID: 2, Path: "a/widget.py", Language: "python"},
		{FileID: 3, Path: "b/widget.py", Language: "python"},
	}
	edges := Resolve(files)
	assert.Empty(t, edges, "a suffix match with more than one candidate must resolve to nothing")
}

func TestResolveFiles_SelfImportDropped(t *testing.T) {
	files := []FileInput{
		{FileID: 1, Path: "pkg/solo.py", Language: "python", Blocks: []*extract.Block{
			importBlock("import solo"),
		}},
	}
	edges := Resolve(files)
	assert.Empty(t, edges)
}

func TestResolveFiles_UnknownLanguageProducesNoEdges(t *testing.T) {
	files := []FileInput{
		{FileID: 1, Path: "main.rs", Language: "rust", Blocks: []*extract.Block{
			importBlock("use crate::widget;"),
		}},
		{FileID: 2, Path: "widget.rs", Language: "rust"},
	}
	edges := Resolve(files)
	assert.Empty(t, edges)
}

func TestBuildRegistry_IndexFileCollapsesToDirectory(t *testing.T) {
	files := []FileInput{
		{FileID: 1, Path: "pkg/widget/index.js"},
	}
	reg := BuildRegistry(files)
	id, ok := reg.exact("pkg/widget")
	require.True(t, ok)
	assert.Equal(t, int64(1), id)
}

func TestResolveFiles_SplitRegistryMatchesFullResolve(t *testing.T) {
	files := []FileInput{
		{FileID: 1, Path: "pkg/main.py", Language: "python", Blocks: []*extract.Block{
			importBlockWithSymbols("from . import sibling", "sibling"),
		}},
		{FileID: 2, Path: "pkg/sibling.py", Language: "python"},
	}
	full := Resolve(files)

	reg := BuildRegistry(files)
	onlyChanged := []FileInput{files[0]}
	split := ResolveFiles(reg, onlyChanged)

	require.Len(t, full, 1)
	require.Len(t, split, 1)
	assert.Equal(t, full[0], split[0])
}
