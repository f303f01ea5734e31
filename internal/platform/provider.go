package platform

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrUnsupported is returned when no provider is registered for a target kind.
	ErrUnsupported = errors.New("no provider registered for target")
	// ErrTimeout is wrapped by adapters when a wait exceeds its budget.
	ErrTimeout = errors.New("timed out")
)

// Provider bundles the capabilities available for one verification target.
// Waiter and Screenshotter are nil when the target cannot support them; an
// in-memory document has nothing to wait for.
type Provider struct {
	DOM           DOM
	Waiter        Waiter
	Screenshotter Screenshotter
	closer        func() error
}

// NewProvider builds a provider. closer may be nil.
func NewProvider(dom DOM, waiter Waiter, shooter Screenshotter, closer func() error) *Provider {
	return &Provider{DOM: dom, Waiter: waiter, Screenshotter: shooter, closer: closer}
}

// Close releases resources held by the provider.
func (p *Provider) Close() error {
	if p == nil || p.closer == nil {
		return nil
	}
	return p.closer()
}

// OpenFunc opens a provider for a target of one kind.
type OpenFunc func(ctx context.Context, target string, opts OpenOptions) (*Provider, error)

var (
	openersMu sync.RWMutex
	openers   = map[string]OpenFunc{}
)

// Register installs the opener for a target kind. Adapter packages call it
// from init().
func Register(kind string, fn OpenFunc) {
	openersMu.Lock()
	defer openersMu.Unlock()
	openers[kind] = fn
}

// Open returns a provider for target using the opener registered for its kind.
func Open(ctx context.Context, target string, opts OpenOptions) (*Provider, error) {
	kind := TargetKind(target)
	openersMu.RLock()
	fn := openers[kind]
	openersMu.RUnlock()
	if fn == nil {
		return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupported, target, kind)
	}
	if opts.TestIDAttribute == "" {
		opts.TestIDAttribute = DefaultTestIDAttribute
	}
	return fn(ctx, target, opts)
}
