package extract

import sitter "github.com/smacker/go-tree-sitter"

// TopLevelChildren returns root's direct children whose type is in types —
// the "only top-level declarations produce blocks" rule every extractor
// applies before looking for nested elements.
func TopLevelChildren(root *sitter.Node, types map[string]bool) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if types[child.Type()] {
			out = append(out, child)
		}
	}
	return out
}

// NestedByType walks parent's subtree (excluding parent itself) looking for
// the first-encountered descendants whose type is in types, and does not
// recurse further into a match once found — "traverse children; if child
// type is a recognized nested type, emit a block at depth > 0; do not
// recurse into that child" (§4.3).
func NestedByType(parent *sitter.Node, types map[string]bool) []*sitter.Node {
	var out []*sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			if types[child.Type()] {
				out = append(out, child)
				continue
			}
			walk(child)
		}
	}
	walk(parent)
	return out
}

var identifierTypes = map[string]bool{
	"identifier":      true,
	"type_identifier": true,
	"property_identifier": true,
	"field_identifier": true,
}
