package extract

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/treeline/internal/ids"
)

func parseGo(t *testing.T, src string) (*sitter.Node, []byte) {
	t.Helper()
	p := sitter.NewParser()
	p.SetLanguage(golang.GetLanguage())
	tree, err := p.ParseCtx(context.Background(), nil, []byte(src))
	require.NoError(t, err)
	return tree.RootNode(), []byte(src)
}

const goSample = `package sample

import (
	"fmt"
	"os"
)

type Widget struct {
	Name string
	Size int
}

func (w *Widget) Describe() string {
	return fmt.Sprintf("%s (%d)", w.Name, w.Size)
}

func main() {
	os.Exit(0)
}
`

func TestGoExtractor_ExtractAll(t *testing.T) {
	root, src := parseGo(t, goSample)
	extractor := GoExtractor{}

	blocks, ok := ExtractAll(extractor, src, root, "sample.go")
	require.True(t, ok)
	require.NotEmpty(t, blocks)

	var names []string
	var kinds []Kind
	for _, b := range blocks {
		names = append(names, b.Name)
		kinds = append(kinds, b.Type)
	}
	assert.Contains(t, names, "Widget")
	assert.Contains(t, names, "Describe")
	assert.Contains(t, names, "main")
	assert.Contains(t, kinds, KindImport)
	assert.Contains(t, kinds, KindClass)
	assert.Contains(t, kinds, KindFunction)
}

func TestGoExtractor_Imports(t *testing.T) {
	root, src := parseGo(t, goSample)
	imports := GoExtractor{}.ExtractImports(src, root)
	require.Len(t, imports, 2)
	var paths []string
	for _, b := range imports {
		paths = append(paths, b.Symbols[0])
	}
	assert.ElementsMatch(t, []string{"fmt", "os"}, paths)
}

func TestGoExtractor_ClassContentEmptiedAfterExtractAll(t *testing.T) {
	root, src := parseGo(t, goSample)
	blocks, ok := ExtractAll(GoExtractor{}, src, root, "sample.go")
	require.True(t, ok)

	for _, b := range blocks {
		if b.Type == KindClass {
			assert.Empty(t, b.Content, "class content must be cleared; children carry the detail")
		}
	}
}

func TestGoExtractor_BlockIDsDeterministic(t *testing.T) {
	root1, src1 := parseGo(t, goSample)
	blocks1, ok := ExtractAll(GoExtractor{}, src1, root1, "sample.go")
	require.True(t, ok)

	root2, src2 := parseGo(t, goSample)
	blocks2, ok := ExtractAll(GoExtractor{}, src2, root2, "sample.go")
	require.True(t, ok)

	require.Equal(t, len(blocks1), len(blocks2))
	for i := range blocks1 {
		assert.Equal(t, blocks1[i].ID, blocks2[i].ID)
		hash, _ := ids.Decode(blocks1[i].ID)
		assert.Equal(t, ids.PathHash("sample.go"), hash)
	}
}

func TestGoExtractor_SplitsLargeFunctions(t *testing.T) {
	src := "package big\n\nfunc Outer() {\n\tf := func() {\n\t\t_ = 2\n\t}\n\tf()\n"
	for i := 0; i < maxFunctionLines+10; i++ {
		src += "\t_ = 1\n"
	}
	src += "}\n"

	root, bsrc := parseGo(t, src)
	blocks, ok := ExtractAll(GoExtractor{}, bsrc, root, "big.go")
	require.True(t, ok)

	var outer *Block
	for _, b := range blocks {
		if b.Name == "Outer" {
			outer = b
		}
	}
	require.NotNil(t, outer)
	assert.Contains(t, outer.Content, "[BLOCK_REF:")
}
