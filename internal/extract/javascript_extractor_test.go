package extract

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseJS(t *testing.T, src string) (*sitter.Node, []byte) {
	t.Helper()
	p := sitter.NewParser()
	p.SetLanguage(javascript.GetLanguage())
	tree, err := p.ParseCtx(context.Background(), nil, []byte(src))
	require.NoError(t, err)
	return tree.RootNode(), []byte(src)
}

const jsSample = `import { readFile } from 'fs';
const fs2 = require('fs');

export const PI = 3.14;

export class Greeter {
  constructor(name) {
    this.name = name;
  }

  greet() {
    return "hello " + this.name;
  }
}

function greet(name) {
  return new Greeter(name).greet();
}

export default greet;
`

func TestJavaScriptExtractor_ExtractAll(t *testing.T) {
	root, src := parseJS(t, jsSample)
	blocks, ok := ExtractAll(JavaScriptExtractor{}, src, root, "sample.js")
	require.True(t, ok)

	var names []string
	var kinds []Kind
	for _, b := range blocks {
		names = append(names, b.Name)
		kinds = append(kinds, b.Type)
	}
	assert.Contains(t, names, "Greeter")
	assert.Contains(t, names, "greet")
	assert.Contains(t, kinds, KindImport)
	assert.Contains(t, kinds, KindClass)
	assert.Contains(t, kinds, KindFunction)
	assert.Contains(t, kinds, KindExport)
}

func TestJavaScriptExtractor_DynamicRequireCounted(t *testing.T) {
	root, src := parseJS(t, jsSample)
	imports := JavaScriptExtractor{}.ExtractImports(src, root)
	// one ES6 import + one require() call
	assert.Len(t, imports, 2)
}

func TestJavaScriptExtractor_ClassNestsMethodAsFunctionChild(t *testing.T) {
	root, src := parseJS(t, jsSample)
	classes := JavaScriptExtractor{}.ExtractClasses(src, root)
	require.Len(t, classes, 1)
	var methodNames []string
	for _, c := range classes[0].Children {
		methodNames = append(methodNames, c.Name)
	}
	assert.Contains(t, methodNames, "greet")
	assert.Contains(t, methodNames, "constructor")
}

func TestJavaScriptExtractor_NoTypeScriptConstructs(t *testing.T) {
	root, src := parseJS(t, jsSample)
	e := JavaScriptExtractor{}
	assert.Empty(t, e.ExtractEnums(src, root))
	assert.Empty(t, e.ExtractInterfaces(src, root))
	assert.Empty(t, e.ExtractTypeAliases(src, root))
}
