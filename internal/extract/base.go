package extract

import (
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jward/treeline/internal/ids"
)

// maxFunctionLines is the large-function-splitting threshold (§4.3): a
// function body at or below this many lines is emitted verbatim.
const maxFunctionLines = 300

// Position returns the 1-based inclusive line span and 0-based column span
// of a tree-sitter node, matching the position contract every extractor
// must honor.
func Position(n *sitter.Node) (startLine, endLine, startCol, endCol int) {
	sp, ep := n.StartPoint(), n.EndPoint()
	return int(sp.Row) + 1, int(ep.Row) + 1, int(sp.Column), int(ep.Column)
}

// NodeText slices the exact source text covered by a node.
func NodeText(src []byte, n *sitter.Node) string {
	return string(src[n.StartByte():n.EndByte()])
}

// NewBlock builds a Block from a node, capturing its position, text, and
// byte span (the byte span is used only internally, for large-function
// splicing, and never leaves this package).
func NewBlock(n *sitter.Node, src []byte, kind Kind, name string, symbols []string) *Block {
	sl, el, sc, ec := Position(n)
	return &Block{
		Type:      kind,
		Name:      name,
		Content:   NodeText(src, n),
		Symbols:   symbols,
		StartLine: sl,
		EndLine:   el,
		StartCol:  sc,
		EndCol:    ec,
		startByte: n.StartByte(),
		endByte:   n.EndByte(),
	}
}

// NameOrAnonymous returns name if non-empty, else the spec's fallback.
func NameOrAnonymous(name string) string {
	if name == "" {
		return "anonymous"
	}
	return name
}

// FirstIdentifier walks n's subtree (not descending into children whose own
// type is itself one of identifierTypes, since the first match wins) and
// returns the text of the first node whose type is in identifierTypes, or
// "" if none is found. Used as the generic "first identifier in the name
// field" fallback when a grammar doesn't expose a named "name" field.
func FirstIdentifier(src []byte, n *sitter.Node, identifierTypes map[string]bool) string {
	if n == nil {
		return ""
	}
	var found string
	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		if found != "" {
			return
		}
		if identifierTypes[node.Type()] {
			found = NodeText(src, node)
			return
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i))
			if found != "" {
				return
			}
		}
	}
	walk(n)
	return found
}

// AssignIDs walks blocks in the fixed category order they were appended
// (imports, exports, enums, variables, functions, classes, interfaces, type
// aliases — the caller composes that order) and assigns each block's id via
// a stable depth-first pre-order traversal: a block's id is assigned before
// its children's, and children are visited in source (encounter) order
// before moving to the next sibling. Returns false the moment the
// sequencer overflows; the whole file must then be marked unsupported
// rather than persisting a partially-numbered block set.
func AssignIDs(blocks []*Block, seq *ids.Sequencer) bool {
	var assign func(b *Block, parent *int64) bool
	assign = func(b *Block, parent *int64) bool {
		id, ok := seq.Next()
		if !ok {
			return false
		}
		b.ID = id
		b.ParentID = parent
		for _, child := range b.Children {
			if !assign(child, &b.ID) {
				return false
			}
		}
		return true
	}
	for _, b := range blocks {
		if !assign(b, nil) {
			return false
		}
	}
	return true
}

// SplitLargeFunctions rewrites every function block (at any depth) whose
// line span exceeds maxFunctionLines: each of its function-kind children is
// replaced in the parent's content by a block-ref marker using the
// language's line-comment prefix, processed in reverse source order so
// earlier replacements don't shift the byte offsets of later ones. Must run
// after AssignIDs, since the marker embeds the child's id.
func SplitLargeFunctions(blocks []*Block, commentPrefix string) {
	var walk func(b *Block)
	walk = func(b *Block) {
		for _, child := range b.Children {
			walk(child)
		}
		if b.Type != KindFunction || b.LineCount() <= maxFunctionLines {
			return
		}
		var nested []*Block
		for _, child := range b.Children {
			if child.Type == KindFunction {
				nested = append(nested, child)
			}
		}
		if len(nested) == 0 {
			return
		}
		sort.Slice(nested, func(i, j int) bool { return nested[i].startByte > nested[j].startByte })
		content := b.Content
		base := b.startByte
		for _, child := range nested {
			cs := int(child.startByte - base)
			ce := int(child.endByte - base)
			if cs < 0 || ce > len(content) || cs > ce {
				continue
			}
			marker := ids.BlockRefMarker(commentPrefix, child.ID)
			content = content[:cs] + marker + content[ce:]
		}
		b.Content = content
	}
	for _, b := range blocks {
		walk(b)
	}
}

// EmptyClassContent clears the content of every class block at any depth,
// per the rule that a class's own content is redundant with its children's.
func EmptyClassContent(blocks []*Block) {
	var walk func(b *Block)
	walk = func(b *Block) {
		if b.Type == KindClass {
			b.Content = ""
		}
		for _, child := range b.Children {
			walk(child)
		}
	}
	for _, b := range blocks {
		walk(b)
	}
}
