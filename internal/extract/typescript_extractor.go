package extract

import sitter "github.com/smacker/go-tree-sitter"

// TypeScriptExtractor implements Extractor for TypeScript. It shares the
// import/export/variable/function/class node-type conventions with
// JavaScript (tree-sitter-typescript is a superset grammar of
// tree-sitter-javascript) and adds interface_declaration, enum_declaration,
// and type_alias_declaration, the three construct kinds plain JS lacks.
type TypeScriptExtractor struct{}

func (TypeScriptExtractor) CommentPrefix() string { return "//" }

func (TypeScriptExtractor) ExtractImports(src []byte, root *sitter.Node) []*Block {
	return jsImports(src, root)
}

func (TypeScriptExtractor) ExtractExports(src []byte, root *sitter.Node) []*Block {
	return jsExports(src, root)
}

func (TypeScriptExtractor) ExtractEnums(src []byte, root *sitter.Node) []*Block {
	var blocks []*Block
	for _, n := range jsTopLevel(root, map[string]bool{"enum_declaration": true}) {
		name := jsIdentifierName(src, n)
		b := NewBlock(n, src, KindEnum, name, nil)
		if body := n.ChildByFieldName("body"); body != nil {
			for i := 0; i < int(body.ChildCount()); i++ {
				member := body.Child(i)
				if member.Type() == "enum_assignment" || member.Type() == "property_identifier" {
					memberName := member
					if nameField := member.ChildByFieldName("name"); nameField != nil {
						memberName = nameField
					}
					b.Children = append(b.Children, NewBlock(member, src, KindVariable, NodeText(src, memberName), nil))
				}
			}
		}
		blocks = append(blocks, b)
	}
	return blocks
}

func (TypeScriptExtractor) ExtractVariables(src []byte, root *sitter.Node) []*Block {
	return jsVariables(src, root)
}

func (TypeScriptExtractor) ExtractFunctions(src []byte, root *sitter.Node) []*Block {
	return jsFunctions(src, root)
}

func (TypeScriptExtractor) ExtractClasses(src []byte, root *sitter.Node) []*Block {
	return jsClasses(src, root)
}

func (TypeScriptExtractor) ExtractInterfaces(src []byte, root *sitter.Node) []*Block {
	var blocks []*Block
	for _, n := range jsTopLevel(root, map[string]bool{"interface_declaration": true}) {
		name := jsIdentifierName(src, n)
		b := NewBlock(n, src, KindInterface, name, nil)
		if body := n.ChildByFieldName("body"); body != nil {
			for i := 0; i < int(body.ChildCount()); i++ {
				member := body.Child(i)
				switch member.Type() {
				case "method_signature":
					b.Children = append(b.Children, NewBlock(member, src, KindFunction, jsIdentifierName(src, member), nil))
				case "property_signature":
					b.Children = append(b.Children, NewBlock(member, src, KindVariable, jsIdentifierName(src, member), nil))
				}
			}
		}
		blocks = append(blocks, b)
	}
	return blocks
}

func (TypeScriptExtractor) ExtractTypeAliases(src []byte, root *sitter.Node) []*Block {
	var blocks []*Block
	for _, n := range jsTopLevel(root, map[string]bool{"type_alias_declaration": true}) {
		name := jsIdentifierName(src, n)
		blocks = append(blocks, NewBlock(n, src, KindTypeAlias, name, nil))
	}
	return blocks
}
