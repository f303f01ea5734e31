package platform

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Unsupported(t *testing.T) {
	openersMu.Lock()
	orig := openers
	openers = map[string]OpenFunc{}
	openersMu.Unlock()
	defer func() {
		openersMu.Lock()
		openers = orig
		openersMu.Unlock()
	}()

	_, err := Open(context.Background(), "page.html", OpenOptions{})
	assert.True(t, errors.Is(err, ErrUnsupported))
}

func TestOpen_DispatchesByKind(t *testing.T) {
	openersMu.Lock()
	orig := openers
	openers = map[string]OpenFunc{}
	openersMu.Unlock()
	defer func() {
		openersMu.Lock()
		openers = orig
		openersMu.Unlock()
	}()

	var gotKind, gotAttr string
	Register(KindHTML, func(_ context.Context, _ string, opts OpenOptions) (*Provider, error) {
		gotKind, gotAttr = KindHTML, opts.TestIDAttribute
		return NewProvider(nil, nil, nil, nil), nil
	})
	Register(KindBrowser, func(_ context.Context, _ string, opts OpenOptions) (*Provider, error) {
		gotKind, gotAttr = KindBrowser, opts.TestIDAttribute
		return NewProvider(nil, nil, nil, nil), nil
	})

	_, err := Open(context.Background(), "fixtures/page.html", OpenOptions{})
	require.NoError(t, err)
	assert.Equal(t, KindHTML, gotKind)
	assert.Equal(t, DefaultTestIDAttribute, gotAttr)

	_, err = Open(context.Background(), "HTTPS://app.example.com/risks", OpenOptions{TestIDAttribute: "data-qa"})
	require.NoError(t, err)
	assert.Equal(t, KindBrowser, gotKind)
	assert.Equal(t, "data-qa", gotAttr)
}

func TestProvider_Close(t *testing.T) {
	var nilProvider *Provider
	assert.NoError(t, nilProvider.Close())
	assert.NoError(t, NewProvider(nil, nil, nil, nil).Close())

	closed := false
	p := NewProvider(nil, nil, nil, func() error { closed = true; return nil })
	assert.NoError(t, p.Close())
	assert.True(t, closed)
}
