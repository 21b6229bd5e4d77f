package ews

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// MaxBodySize bounds the response bodies ReadDocument accepts (32MB).
const MaxBodySize = 32 << 20

// ReadDocument parses a raw SOAP response body. Bodies declaring a non-UTF-8
// encoding are converted while reading. The root element must be a SOAP
// 1.1 or 1.2 Envelope.
func ReadDocument(body []byte) (*etree.Document, error) {
	if len(body) == 0 {
		return nil, errors.New("empty response body")
	}
	if len(body) > MaxBodySize {
		return nil, fmt.Errorf("response body exceeds %d bytes", MaxBodySize)
	}

	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, fmt.Errorf("invalid XML: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: empty document", ErrNotEnvelope)
	}
	if root.Tag != "Envelope" {
		return nil, fmt.Errorf("%w: root element is %s", ErrNotEnvelope, root.Tag)
	}
	switch root.NamespaceURI() {
	case SOAP11Namespace, SOAP12Namespace:
	default:
		return nil, fmt.Errorf("%w: unexpected namespace %q", ErrNotEnvelope, root.NamespaceURI())
	}

	return doc, nil
}

// DetectSOAPVersion reports "1.2" for SOAP 1.2 envelopes and "1.1" otherwise.
func DetectSOAPVersion(doc *etree.Document) string {
	if root := doc.Root(); root != nil && root.NamespaceURI() == SOAP12Namespace {
		return "1.2"
	}
	return "1.1"
}
