package server

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Stefan/ppm-saas-sub008/internal/manifest"
	"github.com/Stefan/ppm-saas-sub008/internal/model"
)

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text, res.IsError
}

func TestGenerateTestID(t *testing.T) {
	s := New(Config{})
	text, isErr := call(t, s.handleGenerateTestID, map[string]interface{}{
		"component": "VarianceKPIs", "element": "Budget Card", "variant": "over",
	})
	assert.False(t, isErr)
	assert.Equal(t, "variance-kpis-budget-card-over", text)

	_, isErr = call(t, s.handleGenerateTestID, map[string]interface{}{})
	assert.True(t, isErr)
}

func TestValidateManifest(t *testing.T) {
	s := New(Config{})

	text, isErr := call(t, s.handleValidateManifest, nil)
	assert.False(t, isErr)
	var results map[string]manifest.ValidationResult
	require.NoError(t, yaml.Unmarshal([]byte(text), &results))
	assert.True(t, results["page:Dashboard"].Valid)

	text, isErr = call(t, s.handleValidateManifest, map[string]interface{}{
		"manifest": "pages:\n  - name: Broken\n    sections: []\n",
	})
	assert.True(t, isErr)
	assert.Contains(t, text, "path")

	_, isErr = call(t, s.handleValidateManifest, map[string]interface{}{"path": filepath.Join(t.TempDir(), "none.yaml")})
	assert.True(t, isErr)
}

const kpiCardHTML = `<div data-testid="kpicard">
  <span data-testid="kpicard-label">Budget</span>
  <span data-testid="kpicard-value">1.2M</span>
</div>`

func TestVerifyHTML_Component(t *testing.T) {
	s := New(Config{})

	text, isErr := call(t, s.handleVerifyHTML, map[string]interface{}{"html": kpiCardHTML, "component": "KPICard"})
	assert.False(t, isErr, text)
	var result model.VerificationResult
	require.NoError(t, yaml.Unmarshal([]byte(text), &result))
	assert.True(t, result.Passed)
	assert.Equal(t, 2, result.ElementsFound)

	text, isErr = call(t, s.handleVerifyHTML, map[string]interface{}{
		"html": kpiCardHTML, "component": "KPICard", "state": "loading", "report": true,
	})
	assert.True(t, isErr)
	assert.Contains(t, text, "kpicard-skeleton")
	assert.Contains(t, text, "Missing elements")
}

func TestVerifyHTML_PageFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "risks.html")
	require.NoError(t, os.WriteFile(path, []byte(`<div data-testid="risks-actions"><button data-testid="risks-add-button" role="button" tabindex="0">Add</button></div>`), 0o644))
	s := New(Config{CacheTTL: time.Minute})
	t.Cleanup(func() { _ = s.Close() })

	text, isErr := call(t, s.handleVerifyHTML, map[string]interface{}{
		"path": path, "page": "Risks", "condition": "user can edit risks",
	})
	assert.False(t, isErr, text)

	_, isErr = call(t, s.handleVerifyHTML, map[string]interface{}{"path": path, "page": "Risks"})
	assert.True(t, isErr, "the unconditional sections are absent")
	assert.Equal(t, 1, s.cache.Len())
}

func TestVerifyHTML_BadArguments(t *testing.T) {
	s := New(Config{})
	tests := []map[string]interface{}{
		{"html": kpiCardHTML},
		{"html": kpiCardHTML, "page": "Risks", "component": "KPICard"},
		{"page": "Risks"},
		{"html": kpiCardHTML, "page": "Nope"},
		{"html": kpiCardHTML, "component": "Nope"},
	}
	for _, args := range tests {
		_, isErr := call(t, s.handleVerifyHTML, args)
		assert.True(t, isErr, "%v", args)
	}
}

func TestCheckInteractive(t *testing.T) {
	s := New(Config{})
	html := `<button data-testid="ok">Save</button><button data-testid="bad"></button>`

	_, isErr := call(t, s.handleCheckInteractive, map[string]interface{}{"html": html, "ids": "ok"})
	assert.False(t, isErr)

	text, isErr := call(t, s.handleCheckInteractive, map[string]interface{}{"html": html, "ids": "ok, bad"})
	assert.True(t, isErr)
	assert.Contains(t, text, "bad")

	_, isErr = call(t, s.handleCheckInteractive, map[string]interface{}{"html": html, "ids": " , "})
	assert.True(t, isErr)
}

func TestListStructures(t *testing.T) {
	text, isErr := call(t, New(Config{}).handleListStructures, nil)
	assert.False(t, isErr)

	var listing struct {
		Pages []struct {
			Name string `yaml:"name"`
		} `yaml:"pages"`
		Components []struct {
			Name   string   `yaml:"name"`
			States []string `yaml:"states"`
		} `yaml:"components"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(text), &listing))
	assert.Len(t, listing.Pages, 4)
	require.Len(t, listing.Components, 5)
	assert.Equal(t, "DataTable", listing.Components[0].Name)
	assert.Equal(t, []string{"empty", "error", "loading"}, listing.Components[0].States)
}

func TestParams(t *testing.T) {
	params := map[string]interface{}{"s": "x", "n": 3.0, "b": true, "nil": nil}
	assert.Equal(t, "x", stringParam(params, "s", ""))
	assert.Equal(t, "3", stringParam(params, "n", ""))
	assert.Equal(t, "d", stringParam(params, "nil", "d"))
	assert.Equal(t, "d", stringParam(params, "missing", "d"))
	assert.True(t, boolParam(params, "b", false))
	assert.True(t, boolParam(params, "s", true))
}
