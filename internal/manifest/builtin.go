package manifest

import (
	"sync"

	"github.com/Stefan/ppm-saas-sub008/internal/model"
	"github.com/Stefan/ppm-saas-sub008/internal/platform"
	"github.com/Stefan/ppm-saas-sub008/internal/testid"
)

var (
	defaultsMu sync.Mutex
	defaults   = map[string]*Registry{}
)

// Default returns the registry of the project-management app's own pages
// and components, with selectors on data-testid.
func Default() *Registry {
	return DefaultFor(platform.DefaultTestIDAttribute)
}

// DefaultFor returns the built-in registry whose wait and mask selectors
// match test IDs on attr. Each attribute's registry is built once and
// shared.
func DefaultFor(attr string) *Registry {
	if attr == "" {
		attr = platform.DefaultTestIDAttribute
	}
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	if r, ok := defaults[attr]; ok {
		return r
	}
	r, err := NewRegistry(builtinPages(attr), builtinComponents())
	if err != nil {
		panic("manifest: invalid builtin manifests: " + err.Error())
	}
	defaults[attr] = r
	return r
}

func intPtr(v int) *int { return &v }

func el(id, desc string, required bool, children ...model.ElementDefinition) model.ElementDefinition {
	return model.ElementDefinition{TestID: id, Required: required, Description: desc, Children: children}
}

func withA11y(e model.ElementDefinition, a model.AccessibilityRequirement) model.ElementDefinition {
	e.Accessibility = &a
	return e
}


// pageHeader builds the header section shared by every page.
func pageHeader(page string) model.SectionDefinition {
	ids := testid.NewBuilder(page)
	return model.SectionDefinition{
		Name:     "Header",
		TestID:   ids.Element("header"),
		Required: true,
		Elements: []model.ElementDefinition{
			withA11y(el(ids.Element("title"), page+" page title", true), model.AccessibilityRequirement{Role: "heading"}),
			withA11y(el(ids.Element("refresh-button"), page+" refresh button", false),
				model.AccessibilityRequirement{AriaLabel: "Refresh data"}),
		},
	}
}

func builtinPages(attr string) []model.PageStructure {
	waitFor := func(id string) string { return platform.TestIDSelector(attr, id) }

	dash := testid.NewBuilder("Dashboard")
	fin := testid.NewBuilder("Financials")
	risk := testid.NewBuilder("Risks")
	res := testid.NewBuilder("Resources")

	return []model.PageStructure{
		{
			Path: "/dashboards",
			Name: "Dashboard",
			Sections: []model.SectionDefinition{
				pageHeader("Dashboard"),
				{
					Name: "KPIs", TestID: dash.Element("kpis"), Required: true,
					Elements: []model.ElementDefinition{
						el(testid.Generate("VarianceKPIs", "", ""), "variance KPI strip", true,
							el(testid.Generate("VarianceKPIs", "budget", ""), "budget variance card", true),
							el(testid.Generate("VarianceKPIs", "schedule", ""), "schedule variance card", true),
						),
						el(dash.Element("health-score"), "portfolio health score", false),
					},
				},
				{
					Name: "Projects", TestID: dash.Element("projects"), Required: true,
					Elements: []model.ElementDefinition{
						withA11y(el(dash.Element("project-list"), "project list", true), model.AccessibilityRequirement{Role: "list"}),
						withA11y(el(dash.Element("project-search"), "project search input", true),
							model.AccessibilityRequirement{AriaLabel: "Search projects"}),
					},
				},
				{
					Name: "Alerts", TestID: dash.Element("alerts"), Required: false,
					Elements: []model.ElementDefinition{
						el(dash.Element("alert-item"), "alert entry", false),
					},
				},
			},
			WaitForSelector: waitFor(dash.Element("header")),
			MaskSelectors:   []string{waitFor(dash.Element("last-updated"))},
		},
		{
			Path: "/financials",
			Name: "Financials",
			Sections: []model.SectionDefinition{
				pageHeader("Financials"),
				{
					Name: "Budget Summary", TestID: fin.Element("budget-summary"), Required: true,
					Elements: []model.ElementDefinition{
						el(fin.Element("total-budget"), "total budget figure", true),
						el(fin.Element("actual-cost"), "actual cost figure", true),
						el(fin.Element("forecast"), "forecast at completion", false),
					},
				},
				{
					Name: "Variance Table", TestID: fin.Element("variance-table"), Required: true,
					Elements: []model.ElementDefinition{
						withA11y(el(fin.Element("variance-table-grid"), "variance grid", true),
							model.AccessibilityRequirement{Role: "table", AriaLabelledBy: fin.Element("variance-table-caption")}),
					},
				},
				{
					Name: "Cost Chart", TestID: fin.Element("cost-chart"), Required: false,
					Elements: []model.ElementDefinition{
						el(fin.Element("cost-chart-legend"), "chart legend", false),
					},
				},
			},
			WaitForSelector: waitFor(fin.Element("budget-summary")),
			MaskSelectors:   []string{waitFor(fin.Element("cost-chart"))},
		},
		{
			Path: "/risks",
			Name: "Risks",
			Sections: []model.SectionDefinition{
				pageHeader("Risks"),
				{
					Name: "Risk Matrix", TestID: risk.Element("matrix-section"), Required: true,
					Elements: []model.ElementDefinition{
						withA11y(el(testid.Generate("RiskMatrix", "", ""), "probability/impact matrix", true),
							model.AccessibilityRequirement{Role: "grid", AriaLabel: "Risk matrix"}),
					},
				},
				{
					Name: "Risk Register", TestID: risk.Element("register"), Required: true,
					Elements: []model.ElementDefinition{
						el(risk.Element("register-table"), "risk register table", true),
						withA11y(el(risk.Element("filter"), "risk filter dropdown", false),
							model.AccessibilityRequirement{AriaLabel: "Filter risks"}),
					},
				},
			},
			ConditionalSections: []model.ConditionalSection{
				{
					Condition: "user can edit risks",
					Sections: []model.SectionDefinition{{
						Name: "Risk Actions", TestID: risk.Element("actions"), Required: true,
						Elements: []model.ElementDefinition{
							withA11y(el(risk.Element("add-button"), "add risk button", true),
								model.AccessibilityRequirement{Role: "button", TabIndex: intPtr(0)}),
						},
					}},
				},
			},
			WaitForSelector: waitFor(risk.Element("register")),
		},
		{
			Path: "/resources",
			Name: "Resources",
			Sections: []model.SectionDefinition{
				pageHeader("Resources"),
				{
					Name: "Heatmap", TestID: res.Element("heatmap-section"), Required: true,
					Elements: []model.ElementDefinition{
						el(testid.Generate("ResourceHeatmap", "", ""), "utilisation heatmap", true),
					},
				},
				{
					Name: "Allocations", TestID: res.Element("allocations"), Required: true,
					Elements: []model.ElementDefinition{
						el(res.Element("allocation-table"), "allocation table", true),
						el(res.Element("over-allocation-warning"), "over-allocation banner", false),
					},
				},
			},
			WaitForSelector: waitFor(res.Element("allocations")),
		},
	}
}

// stateSet returns the conventional loading/error/empty states for a
// component.
func stateSet(ids testid.Builder, component string) model.ComponentStates {
	return model.ComponentStates{
		"loading": {
			withA11y(el(ids.Element("skeleton"), component+" loading skeleton", true),
				model.AccessibilityRequirement{AriaLabel: "Loading"}),
		},
		"error": {
			withA11y(el(ids.Element("error"), component+" error message", true), model.AccessibilityRequirement{Role: "alert"}),
			el(ids.Element("retry-button"), component+" retry button", true),
		},
		"empty": {
			el(ids.Element("empty-state"), component+" empty state", true),
		},
	}
}

func builtinComponents() []model.ComponentStructure {
	kpi := testid.NewBuilder("KPICard")
	variance := testid.NewBuilder("VarianceKPIs")
	table := testid.NewBuilder("DataTable")
	matrix := testid.NewBuilder("RiskMatrix")
	heatmap := testid.NewBuilder("ResourceHeatmap")

	return []model.ComponentStructure{
		{
			Name:   "KPICard",
			TestID: kpi.Root(),
			RequiredElements: []model.ElementDefinition{
				el(kpi.Element("label"), "KPI label", true),
				el(kpi.Element("value"), "KPI value", true),
			},
			OptionalElements: []model.ElementDefinition{
				el(kpi.Variant("trend", "up"), "upward trend indicator", false),
				el(kpi.Variant("trend", "down"), "downward trend indicator", false),
			},
			States:      stateSet(kpi, "KPI card"),
			Description: "Single key performance indicator with optional trend",
		},
		{
			Name:   "VarianceKPIs",
			TestID: variance.Root(),
			RequiredElements: []model.ElementDefinition{
				el(variance.Element("budget"), "budget variance card", true),
				el(variance.Element("schedule"), "schedule variance card", true),
			},
			States:      stateSet(variance, "variance KPIs"),
			Description: "Budget and schedule variance strip",
		},
		{
			Name:   "DataTable",
			TestID: table.Root(),
			RequiredElements: []model.ElementDefinition{
				withA11y(el(table.Element("grid"), "table grid", true), model.AccessibilityRequirement{Role: "table"}),
				el(table.Element("header"), "column header row", true),
				el(table.Element("pagination"), "pagination controls", true,
					withA11y(el(table.Element("next-page"), "next page button", true),
						model.AccessibilityRequirement{AriaLabel: "Next page"}),
					withA11y(el(table.Element("prev-page"), "previous page button", true),
						model.AccessibilityRequirement{AriaLabel: "Previous page"}),
				),
			},
			States:      stateSet(table, "data table"),
			Description: "Sortable, paginated data table",
		},
		{
			Name:   "RiskMatrix",
			TestID: matrix.Root(),
			RequiredElements: []model.ElementDefinition{
				withA11y(el(matrix.Element("grid"), "5x5 probability/impact grid", true),
					model.AccessibilityRequirement{Role: "grid", AriaLabel: "Risk matrix"}),
				el(matrix.Element("legend"), "severity legend", true),
			},
			States: model.ComponentStates{
				"empty": {el(matrix.Element("empty-state"), "no risks message", true)},
			},
			Description: "Probability/impact risk matrix",
		},
		{
			Name:   "ResourceHeatmap",
			TestID: heatmap.Root(),
			RequiredElements: []model.ElementDefinition{
				el(heatmap.Element("grid"), "utilisation grid", true),
				el(heatmap.Element("scale"), "utilisation colour scale", true),
			},
			States:      stateSet(heatmap, "resource heatmap"),
			Description: "Weekly resource utilisation heatmap",
		},
	}
}
