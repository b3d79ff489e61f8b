package extract

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parsePy(t *testing.T, src string) (*sitter.Node, []byte) {
	t.Helper()
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	tree, err := p.ParseCtx(context.Background(), nil, []byte(src))
	require.NoError(t, err)
	return tree.RootNode(), []byte(src)
}

const pySample = `import os
from . import sibling
from ..pkg import helper as h

__all__ = ["Color", "greet"]


class Color(Enum):
    RED = 1
    GREEN = 2


class Greeter:
    def __init__(self, name):
        self.name = name

    def greet(self):
        return f"hello {self.name}"


def greet(name):
    return Greeter(name).greet()
`

func TestPythonExtractor_ExtractAll(t *testing.T) {
	root, src := parsePy(t, pySample)
	blocks, ok := ExtractAll(PythonExtractor{}, src, root, "sample.py")
	require.True(t, ok)

	var names []string
	var kinds []Kind
	for _, b := range blocks {
		names = append(names, b.Name)
		kinds = append(kinds, b.Type)
	}
	assert.Contains(t, names, "Greeter")
	assert.Contains(t, names, "greet")
	assert.Contains(t, names, "__all__")
	assert.Contains(t, kinds, KindImport)
	assert.Contains(t, kinds, KindExport)
	assert.Contains(t, kinds, KindEnum)
	assert.Contains(t, kinds, KindClass)
}

func TestPythonExtractor_EnumNotDoubleCountedAsClass(t *testing.T) {
	root, src := parsePy(t, pySample)
	classes := PythonExtractor{}.ExtractClasses(src, root)
	for _, c := range classes {
		assert.NotEqual(t, "Color", c.Name, "an Enum subclass must be emitted only as an enum block")
	}
}

func TestPythonExtractor_ImportBlocks(t *testing.T) {
	root, src := parsePy(t, pySample)
	imports := PythonExtractor{}.ExtractImports(src, root)
	require.Len(t, imports, 3)
	for _, b := range imports {
		assert.Equal(t, KindImport, b.Type)
	}
}

func TestPythonExtractor_DynamicImport(t *testing.T) {
	src := `import importlib

mod = importlib.import_module("pkg.sub")
`
	root, bsrc := parsePy(t, src)
	imports := PythonExtractor{}.ExtractImports(bsrc, root)
	assert.Len(t, imports, 2)
}

// A function at or below the 300-line threshold must be emitted as a pure
// leaf (§4.3, §9/P9): a nested closure inside it is not split out into a
// child block, and the outer function's content keeps the closure's text
// inline rather than a [BLOCK_REF:...] marker.
func TestPythonExtractor_SmallFunctionWithClosure_NotSplit(t *testing.T) {
	src := `def outer():
    def inner():
        return 1
    return inner()
`
	root, bsrc := parsePy(t, src)
	funcs := PythonExtractor{}.ExtractFunctions(bsrc, root)
	require.Len(t, funcs, 1)
	outer := funcs[0]
	assert.Equal(t, "outer", outer.Name)
	assert.Empty(t, outer.Children, "a function at or below 300 lines must not have nested-function children")
	assert.Contains(t, outer.Content, "def inner")
	assert.NotContains(t, outer.Content, "BLOCK_REF")
}
