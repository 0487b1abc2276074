package mdcode

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Images parses a Markdown document and returns the destination of every image
// node, in document order. Image syntax inside code blocks, HTML blocks or other
// raw regions is not an image node and is not reported. Backslash escapes are
// removed from the returned destinations.
func Images(source []byte) ([]string, error) {
	parser := goldmark.DefaultParser()
	root := parser.Parse(text.NewReader(source))

	var dests []string

	err := ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || node.Kind() != ast.KindImage {
			return ast.WalkContinue, nil
		}

		if img, ok := node.(*ast.Image); ok {
			dests = append(dests, string(util.UnescapePunctuations(img.Destination)))
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	return dests, nil
}
