package mdexec

import "github.com/alnah/go-mdexec/internal/dom"

// Element is the document-rendering sink the processor and runner write to.
// It is the only view they have of the host document.
type Element interface {
	// CreateChild appends a new child element. An empty class adds no class attribute.
	CreateChild(tag, class string) Element
	// AppendText appends text, merging with a trailing text node if present.
	AppendText(text string)
	// SetText replaces all children with a single text node.
	SetText(text string)
	// SetHTML replaces all children with the parsed HTML fragment.
	SetHTML(fragment string) error
	// AddClass adds a class if not already present.
	AddClass(class string)
	// SetAttr sets an attribute value.
	SetAttr(key, value string)
	// Empty removes all children.
	Empty()
}

// domElement adapts an internal/dom element to the Element sink.
type domElement struct {
	el *dom.Element
}

// Compile-time interface check.
var _ Element = (*domElement)(nil)

// wrapElement returns an Element backed by a dom element.
func wrapElement(el *dom.Element) Element {
	return &domElement{el: el}
}

func (d *domElement) CreateChild(tag, class string) Element {
	return &domElement{el: d.el.AppendElement(tag, class)}
}

func (d *domElement) AppendText(text string)        { d.el.AppendText(text) }
func (d *domElement) SetText(text string)           { d.el.SetText(text) }
func (d *domElement) SetHTML(fragment string) error { return d.el.SetInnerHTML(fragment) }
func (d *domElement) AddClass(class string)         { d.el.AddClass(class) }
func (d *domElement) SetAttr(key, value string)     { d.el.SetAttr(key, value) }
func (d *domElement) Empty()                        { d.el.Empty() }
