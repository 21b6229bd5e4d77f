package xmlvalue

import (
	"sort"
	"strings"

	"github.com/beevik/etree"
	"github.com/samber/lo"
)

// TextKey is the key under which an element's character data is stored.
const TextKey = "text"

// Value is the generic recursive representation of an XML subtree.
//
// Keys are snake_case element or attribute names. Values are one of:
//   - string for attributes and TextKey
//   - Value for a child element that occurs once
//   - []Value for a child element that occurs more than once
//
// Synthetic records built by callers may additionally hold bool or int.
type Value map[string]any

// Key converts an XML local name into a Value key (e.g. "ItemId" -> "item_id").
func Key(name string) string {
	return lo.SnakeCase(name)
}

// Convert converts an element into a Value keyed by the element's own name:
//
//	<t:Message><t:Subject>Hi</t:Subject></t:Message>
//
// becomes
//
//	{"message": {"subject": {"text": "Hi"}}}
//
// A nil element yields nil.
func Convert(e *etree.Element) Value {
	if e == nil {
		return nil
	}
	return Value{Key(e.Tag): Body(e)}
}

// Body converts the attributes, children and text of an element into a
// Value without wrapping it in the element's name.
func Body(e *etree.Element) Value {
	body := Value{}
	if e == nil {
		return body
	}

	for _, a := range e.Attr {
		if a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns") {
			continue
		}
		body[Key(a.Key)] = a.Value
	}

	for _, c := range e.ChildElements() {
		key := Key(c.Tag)
		child := Body(c)
		switch existing := body[key].(type) {
		case nil:
			body[key] = child
		case Value:
			body[key] = []Value{existing, child}
		case []Value:
			body[key] = append(existing, child)
		default:
			// an attribute already claimed the key
			body[key] = []Value{child}
		}
	}

	if text := strings.TrimSpace(e.Text()); text != "" {
		body[TextKey] = text
	}

	return body
}

// Root returns the single top-level key of a converted value and its body.
// When the value holds more than one key (e.g. after a merge) the
// alphabetically first key is returned.
func (v Value) Root() (string, Value) {
	if len(v) == 0 {
		return "", nil
	}
	keys := lo.Keys(v)
	sort.Strings(keys)
	body, _ := v[keys[0]].(Value)
	return keys[0], body
}

// Merge returns a new Value holding the keys of v overlaid with the keys of
// other. Neither input is modified.
func (v Value) Merge(other Value) Value {
	return lo.Assign(v, other)
}

// Lookup walks nested Values by key. It stops at the first missing key or
// non-Value intermediate.
func (v Value) Lookup(path ...string) (any, bool) {
	var cur any = v
	for _, key := range path {
		m, ok := cur.(Value)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Text returns the character data stored at path, e.g.
// v.Text("watermark") reads v["watermark"]["text"].
func (v Value) Text(path ...string) (string, bool) {
	raw, ok := v.Lookup(append(path, TextKey)...)
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok
}

// Plain converts the value into map[string]any / []any trees so that
// libraries that switch on concrete JSON types can walk it.
func (v Value) Plain() map[string]any {
	out := make(map[string]any, len(v))
	for k, val := range v {
		out[k] = plain(val)
	}
	return out
}

// PlainList converts a slice of Values the same way Plain does.
func PlainList(list []Value) []any {
	return lo.Map(list, func(v Value, _ int) any { return v.Plain() })
}

func plain(val any) any {
	switch t := val.(type) {
	case Value:
		return t.Plain()
	case []Value:
		return PlainList(t)
	default:
		return t
	}
}
