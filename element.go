package openspout

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// OpenDocument namespace URIs, mapped back to their canonical prefixes so
// element and attribute names keep the schema spelling after decoding.
const (
	nsOffice  = "urn:oasis:names:tc:opendocument:xmlns:office:1.0"
	nsTable   = "urn:oasis:names:tc:opendocument:xmlns:table:1.0"
	nsText    = "urn:oasis:names:tc:opendocument:xmlns:text:1.0"
	nsStyle   = "urn:oasis:names:tc:opendocument:xmlns:style:1.0"
	nsConfig  = "urn:oasis:names:tc:opendocument:xmlns:config:1.0"
	nsFo      = "urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0"
	nsDraw    = "urn:oasis:names:tc:opendocument:xmlns:drawing:1.0"
	nsXlink   = "http://www.w3.org/1999/xlink"
	nsCalcext = "urn:org:documentfoundation:names:experimental:calc:xmlns:calcext:1.0"
)

var namespacePrefixes = map[string]string{
	nsOffice:  "office",
	nsTable:   "table",
	nsText:    "text",
	nsStyle:   "style",
	nsConfig:  "config",
	nsFo:      "fo",
	nsDraw:    "draw",
	nsXlink:   "xlink",
	nsCalcext: "calcext",
}

// Node is a single node in a parsed markup tree: either a TextNode or an
// *Element.
type Node interface {
	node()
}

// TextNode is literal character data.
type TextNode string

func (TextNode) node() {}

// Element is an immutable markup element: a qualified tag name, its
// attributes, and an ordered sequence of child nodes.
type Element struct {
	name     string
	attrs    map[string]string
	children []Node
}

func (*Element) node() {}

// NewElement builds an Element. The attribute map is copied, so the caller
// may reuse or modify it afterwards.
func NewElement(name string, attrs map[string]string, children ...Node) *Element {
	copied := make(map[string]string, len(attrs))
	for k, v := range attrs {
		copied[k] = v
	}
	return &Element{name: name, attrs: copied, children: children}
}

// Name returns the qualified tag name, e.g. "table:table-cell".
func (e *Element) Name() string { return e.name }

// Attr returns the value of the named attribute, or "" when absent.
func (e *Element) Attr(name string) string { return e.attrs[name] }

// Children returns the element's child nodes in document order.
func (e *Element) Children() []Node { return e.children }

// Descendants returns every descendant element with the given qualified
// name, in document order.
func (e *Element) Descendants(name string) []*Element {
	var found []*Element
	var visit func(*Element)
	visit = func(el *Element) {
		for _, child := range el.children {
			if c, ok := child.(*Element); ok {
				if c.name == name {
					found = append(found, c)
				}
				visit(c)
			}
		}
	}
	visit(e)
	return found
}

// Text returns the concatenated character data of the element and all of
// its descendants, in document order.
func (e *Element) Text() string {
	var b strings.Builder
	e.appendText(&b)
	return b.String()
}

func (e *Element) appendText(b *strings.Builder) {
	for _, child := range e.children {
		switch n := child.(type) {
		case TextNode:
			b.WriteString(string(n))
		case *Element:
			n.appendText(b)
		}
	}
}

// ParseFragment reads a single element and its subtree from r. Character
// data and processing instructions before the first element are skipped.
func ParseFragment(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse fragment: %w", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			return parseElement(dec, start)
		}
	}
}

// parseElement builds the subtree rooted at start, consuming tokens from dec
// up to and including the matching end element.
func parseElement(dec *xml.Decoder, start xml.StartElement) (*Element, error) {
	el := &Element{
		name:  qualifiedName(start.Name),
		attrs: make(map[string]string, len(start.Attr)),
	}
	for _, attr := range start.Attr {
		if isNamespaceDecl(attr.Name) {
			continue
		}
		el.attrs[qualifiedName(attr.Name)] = attr.Value
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse element %s: %w", el.name, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := parseElement(dec, t)
			if err != nil {
				return nil, err
			}
			el.children = append(el.children, child)
		case xml.CharData:
			// The decoder reuses its buffer; converting copies.
			el.children = append(el.children, TextNode(t))
		case xml.EndElement:
			return el, nil
		}
	}
}

// qualifiedName turns a decoded xml.Name back into its prefixed spelling.
// Names in unknown namespaces keep the full URI as prefix to stay distinct.
func qualifiedName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	if prefix, ok := namespacePrefixes[n.Space]; ok {
		return prefix + ":" + n.Local
	}
	return n.Space + ":" + n.Local
}

func isNamespaceDecl(n xml.Name) bool {
	return n.Space == "xmlns" || (n.Space == "" && n.Local == "xmlns")
}
