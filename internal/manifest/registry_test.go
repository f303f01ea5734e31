package manifest

import (
	"errors"
	"sync"
	"testing"

	"github.com/Stefan/ppm-saas-sub008/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_Lookup(t *testing.T) {
	r, err := NewRegistry([]model.PageStructure{validPage()}, []model.ComponentStructure{validComponent()})
	require.NoError(t, err)

	p, err := r.Page("Financials")
	require.NoError(t, err)
	assert.Equal(t, "/financials", p.Path)

	c, err := r.Component("KPICard")
	require.NoError(t, err)
	assert.Equal(t, "kpicard", c.TestID)

	_, err = r.Page("Nope")
	assert.True(t, errors.Is(err, ErrUnknownPage))
	_, err = r.Component("Nope")
	assert.True(t, errors.Is(err, ErrUnknownComponent))
}

func TestNewRegistry_RejectsDuplicates(t *testing.T) {
	_, err := NewRegistry([]model.PageStructure{validPage(), validPage()}, nil)
	assert.Error(t, err)

	_, err = NewRegistry(nil, []model.ComponentStructure{validComponent(), validComponent()})
	assert.Error(t, err)

	_, err = NewRegistry([]model.PageStructure{{Path: "/x"}}, nil)
	assert.Error(t, err)
}

func TestRegistry_IsImmutable(t *testing.T) {
	pages := []model.PageStructure{validPage()}
	r, err := NewRegistry(pages, []model.ComponentStructure{validComponent()})
	require.NoError(t, err)

	// Mutating the input after construction must not leak in.
	pages[0].Sections[0].Elements[0].TestID = "mutated"
	p, _ := r.Page("Financials")
	assert.Equal(t, "financials-total", p.Sections[0].Elements[0].TestID)

	// Mutating a returned value must not leak back.
	p.Sections[0].Elements[0].TestID = "mutated"
	c, _ := r.Component("KPICard")
	c.States["loading"][0].TestID = "mutated"

	p2, _ := r.Page("Financials")
	c2, _ := r.Component("KPICard")
	assert.Equal(t, "financials-total", p2.Sections[0].Elements[0].TestID)
	assert.Equal(t, "kpicard-skeleton", c2.States["loading"][0].TestID)
}

func TestRegistry_ConcurrentReaders(t *testing.T) {
	r := Default()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, name := range r.PageNames() {
				_, err := r.Page(name)
				assert.NoError(t, err)
			}
			for _, name := range r.ComponentNames() {
				_, err := r.Component(name)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
}

func TestRegistry_NamesSorted(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{"Dashboard", "Financials", "Resources", "Risks"}, r.PageNames())
	assert.Equal(t, []string{"DataTable", "KPICard", "ResourceHeatmap", "RiskMatrix", "VarianceKPIs"}, r.ComponentNames())
}

func TestDefault_AllManifestsValid(t *testing.T) {
	for key, res := range Default().ValidateAll() {
		assert.True(t, res.Valid, "%s: %v", key, res.ErrorMessages())
		assert.Empty(t, res.Warnings, "%s: %v", key, res.WarningMessages())
	}
}

func TestDefault_IsShared(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestDefaultFor_SelectorsUseAttribute(t *testing.T) {
	p, err := DefaultFor("data-qa").Page("Dashboard")
	require.NoError(t, err)
	assert.Equal(t, `[data-qa="dashboard-header"]`, p.WaitForSelector)
	assert.Equal(t, []string{`[data-qa="dashboard-last-updated"]`}, p.MaskSelectors)

	p, err = Default().Page("Dashboard")
	require.NoError(t, err)
	assert.Equal(t, `[data-testid="dashboard-header"]`, p.WaitForSelector)

	assert.Same(t, Default(), DefaultFor(""))
	assert.Same(t, DefaultFor("data-qa"), DefaultFor("data-qa"))
	assert.NotSame(t, Default(), DefaultFor("data-qa"))
}
