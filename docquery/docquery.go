package docquery

import (
	"os"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Node is one node of a parsed document.
type Node = xmlquery.Node

// Document is a parsed schema document plus its registered namespace
// prefixes.
type Document struct {
	root       *xmlquery.Node
	namespaces map[string]string
	path       string
}

// Parse reads and parses the document at path.
func Parse(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	root, err := xmlquery.Parse(f)
	if err != nil {
		return nil, err
	}
	return &Document{root: root, path: path}, nil
}

// Path returns the filesystem path the document was parsed from.
func (d *Document) Path() string {
	return d.path
}

// Bind registers a namespace prefix for subsequent queries.
func (d *Document) Bind(prefix, uri string) {
	if d.namespaces == nil {
		d.namespaces = make(map[string]string)
	}
	d.namespaces[prefix] = uri
}

func (d *Document) compile(expr string) (*xpath.Expr, error) {
	if len(d.namespaces) > 0 {
		return xpath.CompileWithNS(expr, d.namespaces)
	}
	return xpath.Compile(expr)
}

// Query evaluates a path expression from the document root and returns every
// matching node.
func (d *Document) Query(expr string) ([]*Node, error) {
	ce, err := d.compile(expr)
	if err != nil {
		return nil, err
	}
	return xmlquery.QuerySelectorAll(d.root, ce), nil
}

// QueryOne evaluates a path expression from the document root and returns the
// first match, or nil when nothing matches.
func (d *Document) QueryOne(expr string) (*Node, error) {
	ce, err := d.compile(expr)
	if err != nil {
		return nil, err
	}
	return xmlquery.QuerySelector(d.root, ce), nil
}

// QueryFrom evaluates a path expression relative to n.
func (d *Document) QueryFrom(n *Node, expr string) ([]*Node, error) {
	ce, err := d.compile(expr)
	if err != nil {
		return nil, err
	}
	return xmlquery.QuerySelectorAll(n, ce), nil
}

// QueryOneFrom evaluates a path expression relative to n and returns the
// first match, or nil when nothing matches.
func (d *Document) QueryOneFrom(n *Node, expr string) (*Node, error) {
	ce, err := d.compile(expr)
	if err != nil {
		return nil, err
	}
	return xmlquery.QuerySelector(n, ce), nil
}

// Attr returns the value of the named attribute and whether it is present.
func Attr(n *Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Text returns the trimmed text content of a node.
func Text(n *Node) string {
	return strings.TrimSpace(n.InnerText())
}
