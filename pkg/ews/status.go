package ews

import (
	"strings"

	"github.com/beevik/etree"
)

// Fault is a SOAP fault found in a response body.
type Fault struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
	Detail  string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// DecodeStatus extracts the per-message status from a response document.
//
// The status comes from the first element in the messages namespace that
// carries a ResponseClass attribute (e.g. m:GetItemResponseMessage), with
// its m:ResponseCode and m:MessageText children. A SOAP fault in the body
// takes precedence and is reported as an Error status. A document with
// neither yields a Status with ResponseClassUnknown.
func DecodeStatus(doc *etree.Document, ns Namespaces) (Status, error) {
	q := NewQuery(doc, ns)

	fault, err := FindFault(q)
	if err != nil {
		return Status{}, err
	}
	if fault != nil {
		return FailureStatus(fault.Code, fault.Message), nil
	}

	messagesURI, _ := ns.Lookup(PrefixMessages)
	candidates, err := q.All("//*[@ResponseClass]")
	if err != nil {
		return Status{}, err
	}
	for _, e := range candidates {
		if messagesURI != "" && e.NamespaceURI() != messagesURI {
			continue
		}
		status := Status{Class: ParseResponseClass(e.SelectAttrValue("ResponseClass", ""))}
		if c, err := q.FirstFrom(e, PrefixMessages+":ResponseCode"); err == nil && c != nil {
			status.Code = strings.TrimSpace(c.Text())
		}
		if m, err := q.FirstFrom(e, PrefixMessages+":MessageText"); err == nil && m != nil {
			status.Message = strings.TrimSpace(m.Text())
		}
		return status, nil
	}

	return Status{}, nil
}

// FindFault returns the SOAP 1.1 or 1.2 fault in the body, or nil.
func FindFault(q *Query) (*Fault, error) {
	if e, err := q.First("//" + PrefixSOAP + ":Fault"); err != nil {
		return nil, err
	} else if e != nil {
		return &Fault{
			Code:    childText(e, "faultcode"),
			Message: childText(e, "faultstring"),
			Detail:  innerXML(e.SelectElement("detail")),
		}, nil
	}

	e, err := q.First("//" + PrefixSOAP12 + ":Fault")
	if err != nil || e == nil {
		return nil, err
	}
	fault := &Fault{}
	if v, _ := q.FirstFrom(e, PrefixSOAP12+":Code/"+PrefixSOAP12+":Value"); v != nil {
		fault.Code = strings.TrimSpace(v.Text())
	}
	if t, _ := q.FirstFrom(e, PrefixSOAP12+":Reason/"+PrefixSOAP12+":Text"); t != nil {
		fault.Message = strings.TrimSpace(t.Text())
	}
	if d, _ := q.FirstFrom(e, PrefixSOAP12+":Detail"); d != nil {
		fault.Detail = innerXML(d)
	}
	return fault, nil
}

// childText reads an unqualified child's text; SOAP 1.1 fault children are
// not namespace qualified.
func childText(e *etree.Element, tag string) string {
	for _, c := range e.ChildElements() {
		if c.Tag == tag {
			return strings.TrimSpace(c.Text())
		}
	}
	return ""
}

func innerXML(e *etree.Element) string {
	if e == nil {
		return ""
	}
	doc := etree.NewDocument()
	for _, c := range e.ChildElements() {
		doc.AddChild(c.Copy())
	}
	s, err := doc.WriteToString()
	if err != nil {
		return ""
	}
	if s == "" {
		return strings.TrimSpace(e.Text())
	}
	return s
}
