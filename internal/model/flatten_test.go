package model

import "testing"

func buildDefinitionTree() []ElementDefinition {
	return []ElementDefinition{
		{
			TestID: "table", Required: true, Description: "data table",
			Children: []ElementDefinition{
				{TestID: "table-header", Required: true, Description: "header row"},
				{
					TestID: "table-body", Required: true, Description: "body",
					Children: []ElementDefinition{
						{TestID: "table-row", Required: false, Description: "row"},
					},
				},
			},
		},
		{TestID: "pagination", Required: false, Description: "pager"},
	}
}

func TestFlattenDefinitions_Order(t *testing.T) {
	flat := FlattenDefinitions(buildDefinitionTree())
	want := []string{"table", "table-header", "table-body", "table-row", "pagination"}
	if len(flat) != len(want) {
		t.Fatalf("got %d definitions, want %d", len(flat), len(want))
	}
	for i, id := range want {
		if flat[i].TestID != id {
			t.Errorf("flat[%d] = %q, want %q", i, flat[i].TestID, id)
		}
	}
}

func TestFlattenDefinitions_PathAndDepth(t *testing.T) {
	flat := FlattenDefinitions(buildDefinitionTree())
	row := flat[3]
	if row.Path != "table > table-body > table-row" {
		t.Errorf("path = %q", row.Path)
	}
	if row.Depth != 2 {
		t.Errorf("depth = %d, want 2", row.Depth)
	}
	if flat[0].Path != "table" || flat[0].Depth != 0 {
		t.Errorf("root path/depth = %q/%d", flat[0].Path, flat[0].Depth)
	}
}

func TestFlattenDefinitions_DropsChildren(t *testing.T) {
	for _, f := range FlattenDefinitions(buildDefinitionTree()) {
		if f.Children != nil {
			t.Errorf("%s: flat definition should not carry children", f.TestID)
		}
	}
}

func TestFlattenDefinitions_Empty(t *testing.T) {
	if flat := FlattenDefinitions(nil); len(flat) != 0 {
		t.Errorf("expected empty result, got %d", len(flat))
	}
}

func TestCollectTestIDs(t *testing.T) {
	ids := CollectTestIDs(buildDefinitionTree())
	if len(ids) != 5 || ids[0] != "table" || ids[4] != "pagination" {
		t.Errorf("unexpected ids: %v", ids)
	}
}
