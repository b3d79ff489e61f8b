package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// GoExtractor implements Extractor for Go source, grounded on the
// node-type/field-name conventions of the Go tree-sitter grammar: function
// and method declarations expose "name", "parameters", "result", and
// (methods only) "receiver" fields; import declarations wrap either a bare
// import_spec or an import_spec_list; type declarations wrap a type_spec
// whose child discriminates struct/interface/alias.
type GoExtractor struct{}

func (GoExtractor) CommentPrefix() string { return "//" }

func (GoExtractor) ExtractImports(src []byte, root *sitter.Node) []*Block {
	var blocks []*Block
	for _, decl := range TopLevelChildren(root, map[string]bool{"import_declaration": true}) {
		specs := collectGoImportSpecs(decl)
		for _, spec := range specs {
			path := goImportPath(src, spec)
			symbols := []string{}
			if path != "" {
				symbols = []string{path}
			}
			blocks = append(blocks, NewBlock(spec, src, KindImport, "import", symbols))
		}
	}
	return blocks
}

func collectGoImportSpecs(decl *sitter.Node) []*sitter.Node {
	var specs []*sitter.Node
	for i := 0; i < int(decl.ChildCount()); i++ {
		child := decl.Child(i)
		switch child.Type() {
		case "import_spec":
			specs = append(specs, child)
		case "import_spec_list":
			for j := 0; j < int(child.ChildCount()); j++ {
				inner := child.Child(j)
				if inner.Type() == "import_spec" {
					specs = append(specs, inner)
				}
			}
		}
	}
	return specs
}

func goImportPath(src []byte, spec *sitter.Node) string {
	pathNode := spec.ChildByFieldName("path")
	if pathNode == nil {
		return ""
	}
	return strings.Trim(NodeText(src, pathNode), `"`)
}

func (GoExtractor) ExtractExports(src []byte, root *sitter.Node) []*Block {
	// Go has no export statement syntax; exported identifiers are a
	// capitalization convention, not a declaration form, so there is no
	// sentinel node to recognize.
	return nil
}

func (GoExtractor) ExtractEnums(src []byte, root *sitter.Node) []*Block {
	var blocks []*Block
	for _, decl := range TopLevelChildren(root, map[string]bool{"const_declaration": true}) {
		if !goConstUsesIota(src, decl) {
			continue
		}
		names := goSpecNames(src, decl, "const_spec")
		for _, n := range names {
			b := NewBlock(decl, src, KindEnum, n.name, nil)
			b.StartLine, b.EndLine, b.StartCol, b.EndCol = n.startLine, n.endLine, n.startCol, n.endCol
			blocks = append(blocks, b)
		}
	}
	return blocks
}

func goConstUsesIota(src []byte, decl *sitter.Node) bool {
	return strings.Contains(NodeText(src, decl), "iota")
}

type namedSpan struct {
	name                                       string
	startLine, endLine, startCol, endCol       int
}

// goSpecNames returns one entry per declared identifier across all
// var_spec/const_spec children of decl, per the "one block per declared
// identifier in multi-assign forms" rule.
func goSpecNames(src []byte, decl *sitter.Node, specType string) []namedSpan {
	var out []namedSpan
	for i := 0; i < int(decl.ChildCount()); i++ {
		spec := decl.Child(i)
		if spec.Type() != specType {
			continue
		}
		sl, el, sc, ec := Position(spec)
		for j := 0; j < int(spec.ChildCount()); j++ {
			c := spec.Child(j)
			if c.Type() == "identifier" {
				out = append(out, namedSpan{NodeText(src, c), sl, el, sc, ec})
			}
		}
	}
	return out
}

func (GoExtractor) ExtractVariables(src []byte, root *sitter.Node) []*Block {
	var blocks []*Block
	for _, decl := range TopLevelChildren(root, map[string]bool{"var_declaration": true}) {
		for _, n := range goSpecNames(src, decl, "var_spec") {
			b := NewBlock(decl, src, KindVariable, n.name, nil)
			b.StartLine, b.EndLine, b.StartCol, b.EndCol = n.startLine, n.endLine, n.startCol, n.endCol
			blocks = append(blocks, b)
		}
	}
	for _, decl := range TopLevelChildren(root, map[string]bool{"const_declaration": true}) {
		if goConstUsesIota(src, decl) {
			continue
		}
		for _, n := range goSpecNames(src, decl, "const_spec") {
			b := NewBlock(decl, src, KindVariable, n.name, nil)
			b.StartLine, b.EndLine, b.StartCol, b.EndCol = n.startLine, n.endLine, n.startCol, n.endCol
			blocks = append(blocks, b)
		}
	}
	return blocks
}

func (GoExtractor) ExtractFunctions(src []byte, root *sitter.Node) []*Block {
	types := map[string]bool{"function_declaration": true, "method_declaration": true}
	var blocks []*Block
	for _, fn := range TopLevelChildren(root, types) {
		blocks = append(blocks, goFunctionBlock(src, fn))
	}
	return blocks
}

func goFunctionBlock(src []byte, fn *sitter.Node) *Block {
	nameNode := fn.ChildByFieldName("name")
	name := ""
	if nameNode != nil {
		name = NodeText(src, nameNode)
	}
	b := NewBlock(fn, src, KindFunction, name, nil)
	if b.LineCount() <= maxFunctionLines {
		return b
	}

	body := fn.ChildByFieldName("body")
	if body != nil {
		for _, lit := range NestedByType(body, map[string]bool{"func_literal": true}) {
			child := NewBlock(lit, src, KindFunction, "anonymous", nil)
			b.Children = append(b.Children, child)
		}
	}
	return b
}

func (GoExtractor) ExtractClasses(src []byte, root *sitter.Node) []*Block {
	var blocks []*Block
	for _, decl := range TopLevelChildren(root, map[string]bool{"type_declaration": true}) {
		for i := 0; i < int(decl.ChildCount()); i++ {
			spec := decl.Child(i)
			if spec.Type() != "type_spec" {
				continue
			}
			typeNode := spec.ChildByFieldName("type")
			if typeNode == nil || typeNode.Type() != "struct_type" {
				continue
			}
			nameNode := spec.ChildByFieldName("name")
			name := ""
			if nameNode != nil {
				name = NodeText(src, nameNode)
			}
			b := NewBlock(spec, src, KindClass, name, nil)
			for _, field := range NestedByType(typeNode, map[string]bool{"field_declaration": true}) {
				for _, fn := range goFieldNames(src, field) {
					b.Children = append(b.Children, NewBlock(field, src, KindVariable, fn, nil))
				}
			}
			blocks = append(blocks, b)
		}
	}
	return blocks
}

func goFieldNames(src []byte, field *sitter.Node) []string {
	var names []string
	nameNode := field.ChildByFieldName("name")
	if nameNode != nil {
		names = append(names, NodeText(src, nameNode))
		return names
	}
	for i := 0; i < int(field.ChildCount()); i++ {
		c := field.Child(i)
		if c.Type() == "field_identifier" {
			names = append(names, NodeText(src, c))
		}
	}
	return names
}

func (GoExtractor) ExtractInterfaces(src []byte, root *sitter.Node) []*Block {
	var blocks []*Block
	for _, decl := range TopLevelChildren(root, map[string]bool{"type_declaration": true}) {
		for i := 0; i < int(decl.ChildCount()); i++ {
			spec := decl.Child(i)
			if spec.Type() != "type_spec" {
				continue
			}
			typeNode := spec.ChildByFieldName("type")
			if typeNode == nil || typeNode.Type() != "interface_type" {
				continue
			}
			nameNode := spec.ChildByFieldName("name")
			name := ""
			if nameNode != nil {
				name = NodeText(src, nameNode)
			}
			blocks = append(blocks, NewBlock(spec, src, KindInterface, name, nil))
		}
	}
	return blocks
}

func (GoExtractor) ExtractTypeAliases(src []byte, root *sitter.Node) []*Block {
	var blocks []*Block
	for _, decl := range TopLevelChildren(root, map[string]bool{"type_declaration": true}) {
		for i := 0; i < int(decl.ChildCount()); i++ {
			spec := decl.Child(i)
			if spec.Type() != "type_spec" {
				continue
			}
			typeNode := spec.ChildByFieldName("type")
			if typeNode == nil || typeNode.Type() == "struct_type" || typeNode.Type() == "interface_type" {
				continue
			}
			nameNode := spec.ChildByFieldName("name")
			name := ""
			if nameNode != nil {
				name = NodeText(src, nameNode)
			}
			blocks = append(blocks, NewBlock(spec, src, KindTypeAlias, name, nil))
		}
	}
	return blocks
}
