package dom

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element is a handle to an element node of a Document.
type Element struct {
	doc  *Document
	node *html.Node
}

// Tag returns the element name.
func (e *Element) Tag() string {
	return e.node.Data
}

// AppendElement creates a child element and returns it.
// An empty class adds no class attribute.
func (e *Element) AppendElement(tag, class string) *Element {
	child := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	if class != "" {
		child.Attr = []html.Attribute{{Key: "class", Val: class}}
	}

	e.doc.mu.Lock()
	e.node.AppendChild(child)
	e.doc.mu.Unlock()

	return &Element{doc: e.doc, node: child}
}

// AppendText appends text. Consecutive appends extend the same text node.
func (e *Element) AppendText(text string) {
	if text == "" {
		return
	}

	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	if last := e.node.LastChild; last != nil && last.Type == html.TextNode {
		last.Data += text
		return
	}
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// SetText replaces the element's children with a single text node.
func (e *Element) SetText(text string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	removeChildren(e.node)
	if text != "" {
		e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

// SetInnerHTML replaces the element's children with a parsed fragment.
func (e *Element) SetInnerHTML(fragment string) error {
	context := &html.Node{
		Type:     html.ElementNode,
		Data:     e.node.Data,
		DataAtom: e.node.DataAtom,
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}

	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	removeChildren(e.node)
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
	return nil
}

// Empty removes all children.
func (e *Element) Empty() {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	removeChildren(e.node)
}

// Attr returns an attribute value, or "" when absent.
func (e *Element) Attr(key string) string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	for _, a := range e.node.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// SetAttr sets or replaces an attribute.
func (e *Element) SetAttr(key, value string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	setAttr(e.node, key, value)
}

// Classes returns the element's class list.
func (e *Element) Classes() []string {
	return strings.Fields(e.Attr("class"))
}

// HasClass reports whether the element carries class.
func (e *Element) HasClass(class string) bool {
	return slices.Contains(e.Classes(), class)
}

// AddClass adds class to the element's class list if missing.
func (e *Element) AddClass(class string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	var classes []string
	for _, a := range e.node.Attr {
		if a.Key == "class" {
			classes = strings.Fields(a.Val)
		}
	}
	if slices.Contains(classes, class) {
		return
	}
	setAttr(e.node, "class", strings.Join(append(classes, class), " "))
}

// Children returns the element children, skipping text and comment nodes.
func (e *Element) Children() []*Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	var out []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, &Element{doc: e.doc, node: c})
		}
	}
	return out
}

// TextNodes returns the data of the element's direct text children.
func (e *Element) TextNodes() []string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	var out []string
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			out = append(out, c.Data)
		}
	}
	return out
}

// Text returns the concatenated text content of the element and its descendants.
func (e *Element) Text() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	var sb strings.Builder
	collectText(e.node, &sb)
	return sb.String()
}

// OuterHTML serializes the element and its subtree.
func (e *Element) OuterHTML() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	var buf bytes.Buffer
	if err := html.Render(&buf, e.node); err != nil {
		return ""
	}
	return buf.String()
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
}

func setAttr(n *html.Node, key, value string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}
