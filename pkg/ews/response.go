package ews

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"github.com/getmockd/ewsparse/pkg/xmlvalue"
)

// ResponseClass is the ResponseClass attribute of an EWS response message.
type ResponseClass string

const (
	ResponseClassUnknown ResponseClass = ""
	ResponseClassSuccess ResponseClass = "Success"
	ResponseClassWarning ResponseClass = "Warning"
	ResponseClassError   ResponseClass = "Error"
)

// ParseResponseClass maps attribute text to a ResponseClass. Unrecognised
// text is kept verbatim so it can be reported.
func ParseResponseClass(s string) ResponseClass {
	s = strings.TrimSpace(s)
	for _, c := range []ResponseClass{ResponseClassSuccess, ResponseClassWarning, ResponseClassError} {
		if strings.EqualFold(s, string(c)) {
			return c
		}
	}
	return ResponseClass(s)
}

// Status is the per-message status decoded from a response.
type Status struct {
	Class   ResponseClass `json:"class" yaml:"class"`
	Code    string        `json:"code,omitempty" yaml:"code,omitempty"`
	Message string        `json:"message,omitempty" yaml:"message,omitempty"`
}

// Success reports whether the response class is Success. Warning counts as
// failure.
func (s Status) Success() bool {
	return s.Class == ResponseClassSuccess
}

// SuccessStatus is the status of a plain successful response.
func SuccessStatus() Status {
	return Status{Class: ResponseClassSuccess, Code: "NoError"}
}

// FailureStatus builds an Error status carrying code and message.
func FailureStatus(code, message string) Status {
	return Status{Class: ResponseClassError, Code: code, Message: message}
}

// Items is what an extraction rule produces. Single-value operations set
// Value; list operations set List. For metadata-prefixed operations List[0]
// is the synthetic metadata record.
type Items struct {
	Value xmlvalue.Value   `json:"value,omitempty" yaml:"value,omitempty"`
	List  []xmlvalue.Value `json:"list,omitempty" yaml:"list,omitempty"`
}

// Empty reports whether nothing was extracted.
func (i Items) Empty() bool {
	return i.Value == nil && len(i.List) == 0
}

// Len returns the number of extracted values.
func (i Items) Len() int {
	if i.Value != nil {
		return 1
	}
	return len(i.List)
}

// Response is a decoded EWS response.
type Response struct {
	ID        string          `json:"id" yaml:"id"`
	Operation Operation       `json:"-" yaml:"-"`
	Status    Status          `json:"status" yaml:"status"`
	Items     Items           `json:"items" yaml:"items"`
	Document  *etree.Document `json:"-" yaml:"-"`
}

func newResponse(op Operation, doc *etree.Document, status Status, items Items) *Response {
	return &Response{
		ID:        uuid.NewString(),
		Operation: op,
		Status:    status,
		Items:     items,
		Document:  doc,
	}
}

// Metadata returns the synthetic metadata record of a metadata-prefixed
// response (FindItem, GetEvents, SyncFolderItems) and the records after it.
func (r *Response) Metadata() (meta xmlvalue.Value, records []xmlvalue.Value) {
	if r == nil || len(r.Items.List) == 0 {
		return nil, nil
	}
	return r.Items.List[0], r.Items.List[1:]
}
