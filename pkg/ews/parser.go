package ews

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/beevik/etree"

	"github.com/getmockd/ewsparse/pkg/logging"
	"github.com/getmockd/ewsparse/pkg/util"
)

// Option configures a Parser.
type Option func(*Parser)

// WithNamespaces replaces the namespace table.
func WithNamespaces(ns Namespaces) Option {
	return func(p *Parser) {
		p.ns = ns
	}
}

// WithRegistry replaces the rule registry.
func WithRegistry(r *Registry) Option {
	return func(p *Parser) {
		if r != nil {
			p.registry = r
		}
	}
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(log *slog.Logger) Option {
	return func(p *Parser) {
		if log == nil {
			log = logging.Nop()
		}
		p.log = log
	}
}

// Parser decodes EWS responses. A Parser is immutable after NewParser and
// safe for concurrent use.
type Parser struct {
	ns       Namespaces
	registry *Registry
	log      *slog.Logger
}

// NewParser creates a parser using DefaultNamespaces and DefaultRegistry
// unless overridden by opts.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		ns:       DefaultNamespaces(),
		registry: DefaultRegistry(),
		log:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Namespaces returns the parser's namespace table.
func (p *Parser) Namespaces() Namespaces {
	return p.ns
}

// Registry returns the parser's rule registry.
func (p *Parser) Registry() *Registry {
	return p.registry
}

// Parse runs the extraction rule for op against an already-parsed document
// and its decoded status.
//
// On error the returned *Response is nil: gated failures yield
// *ProtocolError or *SubscriptionExpiredError, structurally broken success
// responses yield *MalformedResponseError.
func (p *Parser) Parse(ctx context.Context, op Operation, doc *etree.Document, status Status) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rule, ok := p.registry.Lookup(op)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, op)
	}

	items, err := rule.Apply(NewQuery(doc, p.ns), status)
	if err != nil {
		var malformed *MalformedResponseError
		if errors.As(err, &malformed) && malformed.Operation == OpUnknown {
			malformed.Operation = op
		}
		p.log.Warn("ews response rejected",
			"operation", op.String(),
			"class", string(status.Class),
			"code", status.Code,
			"error", err)
		return nil, err
	}

	resp := newResponse(op, doc, status, items)
	p.log.Debug("ews response decoded",
		"id", resp.ID,
		"operation", op.String(),
		"class", string(status.Class),
		"items", items.Len())
	return resp, nil
}

// ParseBytes reads a raw response body, decodes its status and runs the
// extraction rule for op.
func (p *Parser) ParseBytes(ctx context.Context, op Operation, body []byte) (*Response, error) {
	doc, err := ReadDocument(body)
	if err != nil {
		p.log.Debug("unreadable ews response",
			"operation", op.String(),
			"body", util.TruncateBody(string(body), 0),
			"error", err)
		return nil, fmt.Errorf("read %s response: %w", op, err)
	}

	status, err := DecodeStatus(doc, p.ns)
	if err != nil {
		return nil, fmt.Errorf("decode %s status: %w", op, err)
	}

	return p.Parse(ctx, op, doc, status)
}
