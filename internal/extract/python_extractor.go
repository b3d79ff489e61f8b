package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// PythonExtractor implements Extractor for Python, grounded directly on
// the reference extractor's node-type choices: import_statement /
// import_from_statement for imports, function_definition /
// class_definition for functions/classes, assignment for variables, and
// the class_definition-with-"Enum"-superclass pattern for enums.
type PythonExtractor struct{}

func (PythonExtractor) CommentPrefix() string { return "#" }

func pyUnwrapDecorated(n *sitter.Node) *sitter.Node {
	if n.Type() == "decorated_definition" {
		if def := n.ChildByFieldName("definition"); def != nil {
			return def
		}
	}
	return n
}

func pyTopLevel(root *sitter.Node, types map[string]bool) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(root.ChildCount()); i++ {
		child := pyUnwrapDecorated(root.Child(i))
		if child.Type() == "expression_statement" && child.NamedChildCount() > 0 {
			child = child.NamedChild(0) // module-level assignments are wrapped
		}
		if types[child.Type()] {
			out = append(out, child)
		}
	}
	return out
}

func (PythonExtractor) ExtractImports(src []byte, root *sitter.Node) []*Block {
	var blocks []*Block
	types := map[string]bool{"import_statement": true, "import_from_statement": true}
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if types[n.Type()] {
			blocks = append(blocks, pyImportBlock(src, n))
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	blocks = append(blocks, pyDynamicImports(src, root)...)
	return blocks
}

func pyImportBlock(src []byte, n *sitter.Node) *Block {
	var symbols []string
	switch n.Type() {
	case "import_statement":
		if nameNode := n.ChildByFieldName("name"); nameNode != nil {
			symbols = append(symbols, NodeText(src, nameNode))
		}
	case "import_from_statement":
		if mod := n.ChildByFieldName("module_name"); mod != nil {
			symbols = append(symbols, NodeText(src, mod))
		}
		symbols = append(symbols, pyImportedSymbols(src, n)...)
	}
	return NewBlock(n, src, KindImport, "import", symbols)
}

func pyImportedSymbols(src []byte, n *sitter.Node) []string {
	var names []string
	for i := 0; i < int(n.ChildCount()); i++ {
		list := n.Child(i)
		if list.Type() != "import_list" {
			continue
		}
		for j := 0; j < int(list.ChildCount()); j++ {
			item := list.Child(j)
			switch item.Type() {
			case "identifier":
				names = append(names, NodeText(src, item))
			case "aliased_import":
				if nameNode := item.ChildByFieldName("name"); nameNode != nil {
					names = append(names, NodeText(src, nameNode))
				}
			}
		}
	}
	if len(names) == 0 {
		// bare "import *" style whole-module import.
		names = append(names, "*")
	}
	return names
}

var pyDynamicImportPatterns = []string{"importlib.import_module", "__import__", "importlib.__import__"}

func pyDynamicImports(src []byte, root *sitter.Node) []*Block {
	var blocks []*Block
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "call" {
			fn := n.ChildByFieldName("function")
			if fn != nil {
				fnText := NodeText(src, fn)
				for _, pat := range pyDynamicImportPatterns {
					if strings.Contains(fnText, pat) {
						blocks = append(blocks, NewBlock(n, src, KindImport, "import", []string{"*"}))
						break
					}
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

func (PythonExtractor) ExtractExports(src []byte, root *sitter.Node) []*Block {
	var blocks []*Block
	for _, assign := range pyTopLevel(root, map[string]bool{"assignment": true}) {
		left := assign.ChildByFieldName("left")
		if left != nil && NodeText(src, left) == "__all__" {
			blocks = append(blocks, NewBlock(assign, src, KindExport, "__all__", []string{"__all__"}))
		}
	}
	return blocks
}

func (PythonExtractor) ExtractEnums(src []byte, root *sitter.Node) []*Block {
	var blocks []*Block
	for _, cls := range pyTopLevel(root, map[string]bool{"class_definition": true}) {
		sc := cls.ChildByFieldName("superclasses")
		if sc == nil || !strings.Contains(NodeText(src, sc), "Enum") {
			continue
		}
		nameNode := cls.ChildByFieldName("name")
		name := ""
		if nameNode != nil {
			name = NodeText(src, nameNode)
		}
		b := NewBlock(cls, src, KindEnum, name, nil)
		body := cls.ChildByFieldName("body")
		if body != nil {
			for _, assign := range NestedByType(body, map[string]bool{"assignment": true}) {
				for _, n := range pyAssignmentNames(src, assign) {
					b.Children = append(b.Children, NewBlock(assign, src, KindVariable, n, nil))
				}
			}
		}
		blocks = append(blocks, b)
	}
	return blocks
}

func pyAssignmentNames(src []byte, n *sitter.Node) []string {
	left := n.ChildByFieldName("left")
	if left == nil {
		return nil
	}
	return pyPatternNames(src, left)
}

func pyPatternNames(src []byte, n *sitter.Node) []string {
	switch n.Type() {
	case "identifier":
		return []string{NodeText(src, n)}
	case "tuple_pattern", "pattern_list", "list_pattern":
		var names []string
		for i := 0; i < int(n.ChildCount()); i++ {
			names = append(names, pyPatternNames(src, n.Child(i))...)
		}
		return names
	default:
		return nil
	}
}

func (PythonExtractor) ExtractVariables(src []byte, root *sitter.Node) []*Block {
	var blocks []*Block
	for _, assign := range pyTopLevel(root, map[string]bool{"assignment": true}) {
		for _, n := range pyAssignmentNames(src, assign) {
			blocks = append(blocks, NewBlock(assign, src, KindVariable, n, nil))
		}
	}
	return blocks
}

func (PythonExtractor) ExtractFunctions(src []byte, root *sitter.Node) []*Block {
	var blocks []*Block
	for _, fn := range pyTopLevel(root, map[string]bool{"function_definition": true}) {
		blocks = append(blocks, pyFunctionBlock(src, fn))
	}
	return blocks
}

func pyFunctionBlock(src []byte, fn *sitter.Node) *Block {
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
		for _, nested := range NestedByType(body, map[string]bool{"function_definition": true}) {
			b.Children = append(b.Children, pyFunctionBlock(src, nested))
		}
	}
	return b
}

func (PythonExtractor) ExtractClasses(src []byte, root *sitter.Node) []*Block {
	var blocks []*Block
	for _, cls := range pyTopLevel(root, map[string]bool{"class_definition": true}) {
		if sc := cls.ChildByFieldName("superclasses"); sc != nil && strings.Contains(NodeText(src, sc), "Enum") {
			continue // already emitted as an enum
		}
		nameNode := cls.ChildByFieldName("name")
		name := ""
		if nameNode != nil {
			name = NodeText(src, nameNode)
		}
		b := NewBlock(cls, src, KindClass, name, nil)
		body := cls.ChildByFieldName("body")
		if body != nil {
			for _, m := range NestedByType(body, map[string]bool{"function_definition": true}) {
				b.Children = append(b.Children, pyFunctionBlock(src, m))
			}
			for _, assign := range NestedByType(body, map[string]bool{"assignment": true}) {
				for _, n := range pyAssignmentNames(src, assign) {
					b.Children = append(b.Children, NewBlock(assign, src, KindVariable, n, nil))
				}
			}
		}
		blocks = append(blocks, b)
	}
	return blocks
}

func (PythonExtractor) ExtractInterfaces(src []byte, root *sitter.Node) []*Block {
	return nil // not applicable to Python
}

func (PythonExtractor) ExtractTypeAliases(src []byte, root *sitter.Node) []*Block {
	return nil // not applicable to Python
}
