package ews

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/samber/lo"

	"github.com/getmockd/ewsparse/pkg/xmlvalue"
)

// Rule extracts the items of one operation's response.
//
// Rules never modify the document or the status they are given. They
// return a fresh Items value or an error; on error the items are discarded.
type Rule interface {
	Apply(q *Query, status Status) (Items, error)
}

// Gate decides what a non-success status means before a rule runs.
type Gate int

const (
	// GateNone ignores the status.
	GateNone Gate = iota
	// GateProtocol fails with *ProtocolError.
	GateProtocol
	// GateSubscription fails with *SubscriptionExpiredError.
	GateSubscription
	// GatePermissive never fails. The caller must inspect Response.Status
	// itself.
	// TODO: Unsubscribe is the only user; decide whether a failed
	// unsubscribe should surface as *ProtocolError.
	GatePermissive
)

func (g Gate) String() string {
	switch g {
	case GateProtocol:
		return "protocol"
	case GateSubscription:
		return "subscription"
	case GatePermissive:
		return "permissive"
	default:
		return "none"
	}
}

// Check returns the error the gate raises for status, or nil.
func (g Gate) Check(status Status) error {
	if status.Success() {
		return nil
	}
	switch g {
	case GateProtocol:
		return &ProtocolError{Code: status.Code, Message: status.Message}
	case GateSubscription:
		return &SubscriptionExpiredError{ProtocolError{Code: status.Code, Message: status.Message}}
	default:
		return nil
	}
}

// Gated runs Rule only when Gate lets the status through.
type Gated struct {
	Gate Gate
	Rule Rule
}

func (g Gated) Apply(q *Query, status Status) (Items, error) {
	if err := g.Gate.Check(status); err != nil {
		return Items{}, err
	}
	return g.Rule.Apply(q, status)
}

// NoItems extracts nothing.
type NoItems struct{}

func (NoItems) Apply(*Query, Status) (Items, error) {
	return Items{}, nil
}

// SingleRule converts the first element matching Path. A missing element
// gives empty Items.
type SingleRule struct {
	Path string
}

func (r SingleRule) Apply(q *Query, _ Status) (Items, error) {
	e, err := q.First(r.Path)
	if err != nil {
		return Items{}, err
	}
	return Items{Value: xmlvalue.Convert(e)}, nil
}

// Pick selects which matches a ListRule keeps.
type Pick int

const (
	PickAll Pick = iota
	PickFirst
	PickLast
)

// ListRule converts the elements matching Path, in document order.
type ListRule struct {
	Path string
	Pick Pick
}

func (r ListRule) Apply(q *Query, _ Status) (Items, error) {
	matches, err := q.All(r.Path)
	if err != nil {
		return Items{}, err
	}

	switch r.Pick {
	case PickFirst:
		matches = lo.Subset(matches, 0, 1)
	case PickLast:
		if last, ok := lo.Last(matches); ok {
			matches = []*etree.Element{last}
		}
	}

	return Items{List: convertAll(matches)}, nil
}

// MergedRecordRule merges the first match of each path into one record and
// returns it as a one-element list. Nothing matching gives an empty list.
type MergedRecordRule struct {
	Paths []string
}

func (r MergedRecordRule) Apply(q *Query, _ Status) (Items, error) {
	var record xmlvalue.Value
	for _, p := range r.Paths {
		e, err := q.First(p)
		if err != nil {
			return Items{}, err
		}
		if e == nil {
			continue
		}
		record = record.Merge(xmlvalue.Convert(e))
	}
	if record == nil {
		return Items{List: []xmlvalue.Value{}}, nil
	}
	return Items{List: []xmlvalue.Value{record}}, nil
}

// MergeJoinRule pairs two children of every element matching Path. Parents
// without Secondary are skipped; a parent with Secondary but no Primary is
// malformed.
type MergeJoinRule struct {
	Path      string
	Primary   string
	Secondary string
}

func (r MergeJoinRule) Apply(q *Query, _ Status) (Items, error) {
	parents, err := q.All(r.Path)
	if err != nil {
		return Items{}, err
	}

	list := make([]xmlvalue.Value, 0, len(parents))
	for _, parent := range parents {
		secondary, err := q.FirstFrom(parent, r.Secondary)
		if err != nil {
			return Items{}, err
		}
		if secondary == nil {
			continue
		}
		primary, err := q.FirstFrom(parent, r.Primary)
		if err != nil {
			return Items{}, err
		}
		if primary == nil {
			return Items{}, &MalformedResponseError{Element: r.Primary}
		}
		list = append(list, xmlvalue.Convert(primary).Merge(xmlvalue.Convert(secondary)))
	}
	return Items{List: list}, nil
}

// FieldKind is the type a metadata field is coerced to.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldInt
	FieldBool
)

// MetaField is one scalar of a synthetic metadata record. Path may end in
// "/@Attr" to read an attribute.
type MetaField struct {
	Key      string
	Path     string
	Kind     FieldKind
	Required bool
}

func (f MetaField) read(q *Query) (any, error) {
	raw, found, err := q.Value(f.Path)
	if err != nil {
		return nil, err
	}
	if !found && f.Required {
		return nil, &MalformedResponseError{Element: f.Path}
	}
	switch f.Kind {
	case FieldInt:
		return ParseInt(raw), nil
	case FieldBool:
		return ParseBool(raw), nil
	default:
		return raw, nil
	}
}

// RecordSelector finds the records that follow a metadata record.
type RecordSelector interface {
	Select(q *Query) ([]*etree.Element, error)
}

// PathSelector selects every element matching a path.
type PathSelector string

func (s PathSelector) Select(q *Query) ([]*etree.Element, error) {
	return q.All(string(s))
}

// ChildrenExcept selects the children of every Parent match in document
// order, skipping children named in Except (prefixed names such as
// "t:MoreEvents").
type ChildrenExcept struct {
	Parent string
	Except []string
}

func (s ChildrenExcept) Select(q *Query) ([]*etree.Element, error) {
	parents, err := q.All(s.Parent)
	if err != nil || len(parents) == 0 {
		return nil, err
	}

	type qname struct{ uri, local string }
	skip := make(map[qname]bool, len(s.Except))
	for _, name := range s.Except {
		prefix, local, _ := strings.Cut(name, ":")
		uri, ok := q.Namespaces().Lookup(prefix)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPrefix, prefix)
		}
		skip[qname{uri, local}] = true
	}

	var children []*etree.Element
	for _, parent := range parents {
		children = append(children, lo.Reject(parent.ChildElements(), func(c *etree.Element, _ int) bool {
			return skip[qname{c.NamespaceURI(), c.Tag}]
		})...)
	}
	return children, nil
}

// MetadataListRule emits a synthetic metadata record followed by one record
// per selected element.
//
// Fields are evaluated before any record is converted. When
// WatermarkFromLast is set and there is at least one record, the metadata
// "watermark" field is the last record's watermark. It is removed when the
// last record has none, so an earlier record's watermark never survives.
type MetadataListRule struct {
	Fields            []MetaField
	Records           RecordSelector
	WatermarkFromLast bool
}

// WatermarkKey is the metadata field back-filled from records.
const WatermarkKey = "watermark"

func (r MetadataListRule) Apply(q *Query, _ Status) (Items, error) {
	meta := xmlvalue.Value{}
	for _, f := range r.Fields {
		v, err := f.read(q)
		if err != nil {
			return Items{}, err
		}
		meta[f.Key] = v
	}

	elems, err := r.Records.Select(q)
	if err != nil {
		return Items{}, err
	}

	list := make([]xmlvalue.Value, 0, len(elems)+1)
	list = append(list, meta)
	list = append(list, convertAll(elems)...)

	if r.WatermarkFromLast && len(elems) > 0 {
		delete(meta, WatermarkKey)
		if _, body := list[len(list)-1].Root(); body != nil {
			if wm, ok := body.Text(WatermarkKey); ok {
				meta[WatermarkKey] = wm
			}
		}
	}
	return Items{List: list}, nil
}

// ParseBool reports whether s is "true" in any letter case. Anything else,
// including empty text, is false.
func ParseBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

// ParseInt parses a decimal count. Unparseable text yields 0.
func ParseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func convertAll(elems []*etree.Element) []xmlvalue.Value {
	return lo.Map(elems, func(e *etree.Element, _ int) xmlvalue.Value {
		return xmlvalue.Convert(e)
	})
}
