package xmlrpc

import (
	"encoding/xml"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// node is a read-only cursor over a parsed XML element: tag name, direct
// character data and child elements in document order. Comments, processing
// instructions and directives are dropped while building the tree.
type node struct {
	name     string
	text     string
	children []*node
}

// readDocument parses an XML document into a node tree and returns the root
// element. The decoder is strict and resolves non-UTF-8 charsets via the
// encoding label of the XML header.
func readDocument(r io.Reader) (*node, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true
	dec.CharsetReader = charset.NewReaderLabel

	var root *node
	var stack []*node
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: t.Name.Local}
			if len(stack) == 0 {
				if root != nil {
					return nil, xml.UnmarshalError("multiple root elements")
				}
				root = n
			} else {
				top := stack[len(stack)-1]
				top.children = append(top.children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text += string(t)
			}
		}
	}
	if root == nil {
		return nil, xml.UnmarshalError("no root element")
	}
	return root, nil
}

// child returns the first child element with the given name, compared
// case-insensitively, or nil.
func (n *node) child(name string) *node {
	for _, c := range n.children {
		if strings.EqualFold(c.name, name) {
			return c
		}
	}
	return nil
}

// childAll returns all child elements with the given name, compared
// case-insensitively.
func (n *node) childAll(name string) []*node {
	var r []*node
	for _, c := range n.children {
		if strings.EqualFold(c.name, name) {
			r = append(r, c)
		}
	}
	return r
}

// path walks a chain of first-match children and returns the final node, or
// nil if any step is missing.
func (n *node) path(names ...string) *node {
	c := n
	for _, name := range names {
		if c = c.child(name); c == nil {
			return nil
		}
	}
	return c
}

// trimmedText returns the node's character data with surrounding whitespace
// removed.
func (n *node) trimmedText() string {
	return strings.TrimSpace(n.text)
}
