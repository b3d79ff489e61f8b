package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// jsFunctionTypes are the node types treated as "a function" for nesting
// and large-function-splitting purposes across JavaScript and TypeScript.
var jsFunctionTypes = map[string]bool{
	"function_declaration":           true,
	"generator_function_declaration": true,
	"function":                       true,
	"generator_function":             true,
	"arrow_function":                 true,
	"method_definition":              true,
}

func jsTopLevel(root *sitter.Node, types map[string]bool) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		// export_statement wraps the declaration it exports; unwrap so the
		// wrapped declaration is still treated as top-level.
		if child.Type() == "export_statement" {
			if decl := child.ChildByFieldName("declaration"); decl != nil {
				child = decl
			}
		}
		if types[child.Type()] {
			out = append(out, child)
		}
	}
	return out
}

func jsIdentifierName(src []byte, n *sitter.Node) string {
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		return NodeText(src, nameNode)
	}
	return FirstIdentifier(src, n, identifierTypes)
}

// jsImports extracts import_statement/import declarations plus dynamic
// require()/import() calls, shared by JS and TS.
func jsImports(src []byte, root *sitter.Node) []*Block {
	var blocks []*Block
	for _, imp := range jsTopLevel(root, map[string]bool{"import_statement": true}) {
		blocks = append(blocks, jsImportBlock(src, imp))
	}
	blocks = append(blocks, jsDynamicImports(src, root)...)
	return blocks
}

func jsImportBlock(src []byte, n *sitter.Node) *Block {
	var symbols []string
	clause := n.ChildByFieldName("import_clause")
	if clause == nil {
		// fall back: search children for import_clause (field name varies
		// across grammar versions).
		for i := 0; i < int(n.ChildCount()); i++ {
			if n.Child(i).Type() == "import_clause" {
				clause = n.Child(i)
				break
			}
		}
	}
	if clause != nil {
		symbols = jsImportClauseSymbols(src, clause)
	}
	if len(symbols) == 0 {
		symbols = []string{"*"}
	}
	return NewBlock(n, src, KindImport, "import", symbols)
}

func jsImportClauseSymbols(src []byte, clause *sitter.Node) []string {
	var symbols []string
	for i := 0; i < int(clause.ChildCount()); i++ {
		child := clause.Child(i)
		switch child.Type() {
		case "identifier":
			symbols = append(symbols, NodeText(src, child))
		case "namespace_import":
			symbols = append(symbols, "*")
		case "named_imports":
			for j := 0; j < int(child.ChildCount()); j++ {
				spec := child.Child(j)
				if spec.Type() != "import_specifier" {
					continue
				}
				name := spec.ChildByFieldName("name")
				if alias := spec.ChildByFieldName("alias"); alias != nil {
					name = alias
				}
				if name != nil {
					symbols = append(symbols, NodeText(src, name))
				}
			}
		}
	}
	return symbols
}

func jsDynamicImports(src []byte, root *sitter.Node) []*Block {
	var blocks []*Block
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "call_expression" {
			fn := n.ChildByFieldName("function")
			if fn != nil {
				t := fn.Type()
				text := NodeText(src, fn)
				if t == "import" || text == "require" {
					blocks = append(blocks, NewBlock(n, src, KindImport, "import", []string{"*"}))
				}
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return blocks
}

// jsExports handles both `export <decl>` (declarations already picked up
// by the category extractors via jsTopLevel's unwrapping) and
// `export { a, b }` / `export default x` forms, which carry no other
// block identity of their own.
func jsExports(src []byte, root *sitter.Node) []*Block {
	var blocks []*Block
	for i := 0; i < int(root.ChildCount()); i++ {
		n := root.Child(i)
		if n.Type() != "export_statement" {
			continue
		}
		if n.ChildByFieldName("declaration") != nil {
			continue // already represented as its own function/class/etc block
		}
		var symbols []string
		for j := 0; j < int(n.ChildCount()); j++ {
			c := n.Child(j)
			if c.Type() == "export_clause" {
				for k := 0; k < int(c.ChildCount()); k++ {
					spec := c.Child(k)
					if spec.Type() == "export_specifier" {
						if name := spec.ChildByFieldName("name"); name != nil {
							symbols = append(symbols, NodeText(src, name))
						}
					}
				}
			}
		}
		if strings.Contains(NodeText(src, n), "default") && len(symbols) == 0 {
			symbols = []string{"default"}
		}
		blocks = append(blocks, NewBlock(n, src, KindExport, "export", symbols))
	}
	return blocks
}

func jsVariables(src []byte, root *sitter.Node) []*Block {
	var blocks []*Block
	decls := jsTopLevel(root, map[string]bool{"lexical_declaration": true, "variable_declaration": true})
	for _, decl := range decls {
		for i := 0; i < int(decl.ChildCount()); i++ {
			declarator := decl.Child(i)
			if declarator.Type() != "variable_declarator" {
				continue
			}
			nameNode := declarator.ChildByFieldName("name")
			if nameNode == nil {
				continue
			}
			for _, name := range jsBindingNames(src, nameNode) {
				blocks = append(blocks, NewBlock(decl, src, KindVariable, name, nil))
			}
		}
	}
	return blocks
}

func jsBindingNames(src []byte, n *sitter.Node) []string {
	switch n.Type() {
	case "identifier":
		return []string{NodeText(src, n)}
	case "object_pattern", "array_pattern":
		var names []string
		for i := 0; i < int(n.ChildCount()); i++ {
			names = append(names, jsBindingNames(src, n.Child(i))...)
		}
		return names
	default:
		return nil
	}
}

func jsFunctionBlock(src []byte, fn *sitter.Node) *Block {
	name := jsIdentifierName(src, fn)
	b := NewBlock(fn, src, KindFunction, name, nil)
	if b.LineCount() <= maxFunctionLines {
		return b
	}
	body := fn.ChildByFieldName("body")
	if body != nil {
		for _, nested := range NestedByType(body, jsFunctionTypes) {
			b.Children = append(b.Children, jsFunctionBlock(src, nested))
		}
	}
	return b
}

func jsFunctions(src []byte, root *sitter.Node) []*Block {
	var blocks []*Block
	types := map[string]bool{"function_declaration": true, "generator_function_declaration": true}
	for _, fn := range jsTopLevel(root, types) {
		blocks = append(blocks, jsFunctionBlock(src, fn))
	}
	// top-level `const f = () => {...}` / `const f = function(){...}` is
	// represented as a variable above; it is not double-counted as a
	// function block here, matching the "one block per construct" rule.
	return blocks
}

func jsClasses(src []byte, root *sitter.Node) []*Block {
	var blocks []*Block
	for _, cls := range jsTopLevel(root, map[string]bool{"class_declaration": true}) {
		name := jsIdentifierName(src, cls)
		b := NewBlock(cls, src, KindClass, name, nil)
		body := cls.ChildByFieldName("body")
		if body != nil {
			for i := 0; i < int(body.ChildCount()); i++ {
				member := body.Child(i)
				if member.Type() == "method_definition" {
					b.Children = append(b.Children, jsFunctionBlock(src, member))
				} else if member.Type() == "field_definition" {
					if prop := member.ChildByFieldName("property"); prop != nil {
						b.Children = append(b.Children, NewBlock(member, src, KindVariable, NodeText(src, prop), nil))
					}
				}
			}
		}
		blocks = append(blocks, b)
	}
	return blocks
}
