package ews

import (
	"maps"
	"slices"
)

// Namespace prefixes understood by every path expression in this package.
const (
	PrefixMessages = "m"
	PrefixTypes    = "t"
	PrefixSOAP     = "soap"
	PrefixSOAP12   = "soap12"
)

// Namespace URIs used by Exchange Web Services responses.
const (
	MessagesNamespace = "http://schemas.microsoft.com/exchange/services/2006/messages"
	TypesNamespace    = "http://schemas.microsoft.com/exchange/services/2006/types"
	SOAP11Namespace   = "http://schemas.xmlsoap.org/soap/envelope/"
	SOAP12Namespace   = "http://www.w3.org/2003/05/soap-envelope"
)

// Namespaces maps path prefixes to namespace URIs. The zero value is empty.
// A Namespaces value is never modified after construction, so it can be
// shared freely between goroutines.
type Namespaces struct {
	uris map[string]string
}

// DefaultNamespaces returns the table used for EWS responses.
func DefaultNamespaces() Namespaces {
	return NewNamespaces(map[string]string{
		PrefixMessages: MessagesNamespace,
		PrefixTypes:    TypesNamespace,
		PrefixSOAP:     SOAP11Namespace,
		PrefixSOAP12:   SOAP12Namespace,
	})
}

// NewNamespaces builds a table from prefix -> URI pairs. The map is copied.
func NewNamespaces(uris map[string]string) Namespaces {
	return Namespaces{uris: maps.Clone(uris)}
}

// Lookup returns the URI bound to prefix.
func (n Namespaces) Lookup(prefix string) (string, bool) {
	uri, ok := n.uris[prefix]
	return uri, ok
}

// With returns a copy of the table with prefix bound to uri.
func (n Namespaces) With(prefix, uri string) Namespaces {
	uris := maps.Clone(n.uris)
	if uris == nil {
		uris = make(map[string]string, 1)
	}
	uris[prefix] = uri
	return Namespaces{uris: uris}
}

// Prefixes returns the bound prefixes in sorted order.
func (n Namespaces) Prefixes() []string {
	return slices.Sorted(maps.Keys(n.uris))
}

// Len returns the number of bound prefixes.
func (n Namespaces) Len() int {
	return len(n.uris)
}
