// Package query selects and filters decoded EWS items.
//
// A Selector combines an optional expr-lang boolean filter, evaluated once
// per item, with an optional JSONPath applied to the surviving items:
//
//	sel, err := query.New(`kind == "message"`, `$[*].message.subject.text`)
//	subjects, err := sel.Apply(resp.Items.List)
//
// Filter expressions see three variables: item (the whole record), kind
// (the record's root element name, e.g. "message") and index. kind is empty
// for records that are not a single element, such as the metadata record of
// FindItem or a merged ResolveNames record.
package query

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/ohler55/ojg/jp"

	"github.com/getmockd/ewsparse/pkg/xmlvalue"
)

// Selector filters and projects a list of decoded values. The zero value
// passes everything through unchanged.
type Selector struct {
	where *vm.Program
	path  jp.Expr
}

// filterEnv is the compile-time environment for filter expressions.
func filterEnv(item map[string]any, kind string, index int) map[string]any {
	return map[string]any{
		"item":  item,
		"kind":  kind,
		"index": index,
	}
}

// New compiles a filter expression and a JSONPath. Either may be empty.
func New(where, path string) (*Selector, error) {
	s := &Selector{}

	if where != "" {
		program, err := expr.Compile(where, expr.Env(filterEnv(nil, "", 0)), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile filter %q: %w", where, err)
		}
		s.where = program
	}

	if path != "" {
		x, err := jp.ParseString(path)
		if err != nil {
			return nil, fmt.Errorf("parse JSONPath %q: %w", path, err)
		}
		s.path = x
	}

	return s, nil
}

// Empty reports whether the selector neither filters nor projects.
func (s *Selector) Empty() bool {
	return s == nil || (s.where == nil && s.path == nil)
}

// Filter returns the values for which the filter expression is true.
func (s *Selector) Filter(values []xmlvalue.Value) ([]xmlvalue.Value, error) {
	if s == nil || s.where == nil {
		return values, nil
	}

	kept := make([]xmlvalue.Value, 0, len(values))
	for i, v := range values {
		out, err := expr.Run(s.where, filterEnv(v.Plain(), kindOf(v), i))
		if err != nil {
			return nil, fmt.Errorf("filter item %d: %w", i, err)
		}
		if ok, _ := out.(bool); ok {
			kept = append(kept, v)
		}
	}
	return kept, nil
}

// kindOf returns the element name of a single-element record, or "".
func kindOf(v xmlvalue.Value) string {
	if len(v) != 1 {
		return ""
	}
	name, body := v.Root()
	if body == nil {
		return ""
	}
	return name
}

// Apply filters values and then applies the JSONPath to the filtered list.
// Without a JSONPath the filtered values are returned in plain form.
func (s *Selector) Apply(values []xmlvalue.Value) ([]any, error) {
	kept, err := s.Filter(values)
	if err != nil {
		return nil, err
	}

	plain := xmlvalue.PlainList(kept)
	if s == nil || s.path == nil {
		return plain, nil
	}
	return s.path.Get(plain), nil
}

// ApplyValue filters and projects a single value. The JSONPath is evaluated
// against the value itself rather than a one-element list.
func (s *Selector) ApplyValue(v xmlvalue.Value) ([]any, error) {
	if v == nil {
		return []any{}, nil
	}

	kept, err := s.Filter([]xmlvalue.Value{v})
	if err != nil {
		return nil, err
	}
	if len(kept) == 0 {
		return []any{}, nil
	}

	plain := v.Plain()
	if s == nil || s.path == nil {
		return []any{plain}, nil
	}
	return s.path.Get(plain), nil
}
