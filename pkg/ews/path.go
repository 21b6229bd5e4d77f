package ews

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// CompilePath compiles a namespace-prefixed path into an etree.Path.
//
// Every "prefix:Name" selector is rewritten to match on local name and
// namespace URI, so the query works whatever prefixes the server used in
// its response:
//
//	//m:Items/*  ->  //*[local-name()='Items'][namespace-uri()='...messages']/*
//
// Unprefixed selectors, "*", "." and ".." and bracket filters pass through
// unchanged. Attribute selection ("/@Name") is not part of a compiled path;
// use Query.Attr for that.
func CompilePath(ns Namespaces, expr string) (etree.Path, error) {
	if expr == "" {
		return etree.Path{}, fmt.Errorf("empty path")
	}

	segments := splitPath(expr)
	for i, seg := range segments {
		rewritten, err := rewriteSegment(ns, seg)
		if err != nil {
			return etree.Path{}, fmt.Errorf("path %q: %w", expr, err)
		}
		segments[i] = rewritten
	}

	path, err := etree.CompilePath(strings.Join(segments, "/"))
	if err != nil {
		return etree.Path{}, fmt.Errorf("path %q: %w", expr, err)
	}
	return path, nil
}

// rewriteSegment rewrites the selector of a single path segment.
func rewriteSegment(ns Namespaces, seg string) (string, error) {
	sel, filters := seg, ""
	if idx := strings.IndexByte(seg, '['); idx >= 0 {
		sel, filters = seg[:idx], seg[idx:]
	}

	prefix, local, ok := strings.Cut(sel, ":")
	if !ok {
		return seg, nil
	}

	uri, found := ns.Lookup(prefix)
	if !found {
		return "", fmt.Errorf("%w: %s", ErrUnknownPrefix, prefix)
	}

	return "*[local-name()='" + local + "'][namespace-uri()='" + uri + "']" + filters, nil
}

// splitPath splits on '/' outside of quoted filter values. Empty pieces are
// kept because they carry the "//" (descendant) meaning.
func splitPath(path string) []string {
	var pieces []string
	start := 0
	var quote byte
	for i := 0; i < len(path); i++ {
		switch {
		case quote != 0:
			if path[i] == quote {
				quote = 0
			}
		case path[i] == '\'' || path[i] == '"':
			quote = path[i]
		case path[i] == '/':
			pieces = append(pieces, path[start:i])
			start = i + 1
		}
	}
	return append(pieces, path[start:])
}

// splitAttr splits "elem/path/@Attr" into the element path and attribute
// name. ok is false when the expression does not select an attribute.
func splitAttr(expr string) (elemPath, attr string, ok bool) {
	idx := strings.LastIndex(expr, "/@")
	if idx < 0 {
		return expr, "", false
	}
	return expr[:idx], expr[idx+2:], true
}

// Query evaluates prefixed path expressions against one document.
type Query struct {
	doc *etree.Document
	ns  Namespaces
}

// NewQuery binds a document to a namespace table.
func NewQuery(doc *etree.Document, ns Namespaces) *Query {
	return &Query{doc: doc, ns: ns}
}

// Namespaces returns the table used to resolve prefixes.
func (q *Query) Namespaces() Namespaces {
	return q.ns
}

// All returns every element matching expr.
func (q *Query) All(expr string) ([]*etree.Element, error) {
	return q.AllFrom(q.root(), expr)
}

// AllFrom returns every element matching expr evaluated relative to e.
func (q *Query) AllFrom(e *etree.Element, expr string) ([]*etree.Element, error) {
	if e == nil {
		return nil, nil
	}
	path, err := CompilePath(q.ns, expr)
	if err != nil {
		return nil, err
	}
	return e.FindElementsPath(path), nil
}

// First returns the first element matching expr, or nil.
func (q *Query) First(expr string) (*etree.Element, error) {
	return q.FirstFrom(q.root(), expr)
}

// FirstFrom returns the first element matching expr relative to e, or nil.
func (q *Query) FirstFrom(e *etree.Element, expr string) (*etree.Element, error) {
	if e == nil {
		return nil, nil
	}
	path, err := CompilePath(q.ns, expr)
	if err != nil {
		return nil, err
	}
	return e.FindElementPath(path), nil
}

// Text returns the trimmed text of the first element matching expr.
// found is false when nothing matches.
func (q *Query) Text(expr string) (text string, found bool, err error) {
	e, err := q.First(expr)
	if err != nil || e == nil {
		return "", false, err
	}
	return strings.TrimSpace(e.Text()), true, nil
}

// Attr reads an attribute selected with a trailing "/@Name".
func (q *Query) Attr(expr string) (value string, found bool, err error) {
	elemPath, attr, ok := splitAttr(expr)
	if !ok {
		return "", false, fmt.Errorf("path %q does not select an attribute", expr)
	}
	e, err := q.First(elemPath)
	if err != nil || e == nil {
		return "", false, err
	}
	a := e.SelectAttr(attr)
	if a == nil {
		return "", false, nil
	}
	return a.Value, true, nil
}

// Value reads either an attribute ("/@Name" suffix) or element text.
func (q *Query) Value(expr string) (string, bool, error) {
	if _, _, ok := splitAttr(expr); ok {
		return q.Attr(expr)
	}
	return q.Text(expr)
}

func (q *Query) root() *etree.Element {
	if q.doc == nil {
		return nil
	}
	return &q.doc.Element
}
