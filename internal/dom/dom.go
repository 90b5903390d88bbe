// Package dom provides a mutable HTML document for streaming script output.
//
// A Document wraps a golang.org/x/net/html node tree behind a single mutex so
// that several block runs can append to their own output containers while
// the host later serializes the whole tree. Elements are handles into the
// tree; every read and write goes through the owning Document's lock.
package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Sentinel errors for document operations.
var (
	ErrParse    = errors.New("failed to parse HTML")
	ErrSelector = errors.New("invalid selector")
	ErrRender   = errors.New("failed to render HTML")
)

// Document is an HTML tree safe for concurrent mutation through its Elements.
type Document struct {
	mu   sync.Mutex
	root *html.Node
}

// Parse reads a complete HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return &Document{root: root}, nil
}

// ParseString parses a complete HTML document from a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Query returns the elements matching a CSS selector, in document order.
func (d *Document) Query(selector string) ([]*Element, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrSelector, selector, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	nodes := sel.MatchAll(d.root)
	elems := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		elems = append(elems, &Element{doc: d, node: n})
	}
	return elems, nil
}

// QueryOne returns the first element matching selector, or nil.
func (d *Document) QueryOne(selector string) (*Element, error) {
	elems, err := d.Query(selector)
	if err != nil || len(elems) == 0 {
		return nil, err
	}
	return elems[0], nil
}

// Render serializes the document.
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := html.Render(w, d.root); err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}
	return nil
}

// String serializes the document, returning an empty string on failure.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}
