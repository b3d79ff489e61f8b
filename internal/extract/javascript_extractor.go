package extract

import sitter "github.com/smacker/go-tree-sitter"

// JavaScriptExtractor implements Extractor for JavaScript, grounded on the
// tree-sitter-javascript grammar's declaration node types: import_statement
// for imports, function_declaration/class_declaration for functions and
// classes, lexical_declaration/variable_declaration for variables. Plain
// JavaScript has no interface, enum, or type-alias declaration forms.
type JavaScriptExtractor struct{}

func (JavaScriptExtractor) CommentPrefix() string { return "//" }

func (JavaScriptExtractor) ExtractImports(src []byte, root *sitter.Node) []*Block {
	return jsImports(src, root)
}

func (JavaScriptExtractor) ExtractExports(src []byte, root *sitter.Node) []*Block {
	return jsExports(src, root)
}

func (JavaScriptExtractor) ExtractEnums(src []byte, root *sitter.Node) []*Block {
	return nil // not applicable to JavaScript
}

func (JavaScriptExtractor) ExtractVariables(src []byte, root *sitter.Node) []*Block {
	return jsVariables(src, root)
}

func (JavaScriptExtractor) ExtractFunctions(src []byte, root *sitter.Node) []*Block {
	return jsFunctions(src, root)
}

func (JavaScriptExtractor) ExtractClasses(src []byte, root *sitter.Node) []*Block {
	return jsClasses(src, root)
}

func (JavaScriptExtractor) ExtractInterfaces(src []byte, root *sitter.Node) []*Block {
	return nil // not applicable to JavaScript
}

func (JavaScriptExtractor) ExtractTypeAliases(src []byte, root *sitter.Node) []*Block {
	return nil // not applicable to JavaScript
}
