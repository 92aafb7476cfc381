package render

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
)

// NodeType discriminates parsed nodes.
type NodeType int

const (
	TextNode NodeType = iota
	ElementNode
)

// Node is one node of a parsed markup fragment. There is no goal to parse the
// way a browser does: the tree stays as close to the source as possible, with
// no implied html/head/body structure.
type Node struct {
	Type      NodeType
	Tag       string
	Attr      []html.Attribute
	Text      string
	SelfClose bool
	Children  []*Node
}

// voidElements are HTML elements that never carry children; their start tag
// is the whole element.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// Parse tokenizes a markup fragment into a Node tree using a stack of open
// elements. Unmatched end tags are ignored; elements left open at EOF are
// implicitly closed.
func Parse(r io.Reader) ([]*Node, error) {
	z := html.NewTokenizer(r)

	root := &Node{Type: ElementNode}
	stack := []*Node{root}
	top := func() *Node { return stack[len(stack)-1] }

	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, fmt.Errorf("tokenize markup: %w", err)
			}
			return root.Children, nil

		case html.TextToken:
			text := string(z.Text())
			if text == "" {
				continue
			}
			top().Children = append(top().Children, &Node{Type: TextNode, Text: text})

		case html.StartTagToken:
			t := z.Token()
			n := &Node{Type: ElementNode, Tag: t.Data, Attr: t.Attr}
			top().Children = append(top().Children, n)
			if !voidElements[t.Data] {
				stack = append(stack, n)
			}

		case html.SelfClosingTagToken:
			t := z.Token()
			top().Children = append(top().Children, &Node{
				Type:      ElementNode,
				Tag:       t.Data,
				Attr:      t.Attr,
				SelfClose: true,
			})

		case html.EndTagToken:
			t := z.Token()
			// Pop to the matching open element, leaving the root in place.
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].Tag == t.Data {
					stack = stack[:i]
					break
				}
			}

		case html.CommentToken, html.DoctypeToken:
			// Dropped from the tree.
		}
	}
}
