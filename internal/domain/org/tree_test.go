package org

import "testing"

func TestBuildChartTree(t *testing.T) {
	nodes := []ChartNode{
		{ID: "ceo", Name: "CEO"},
		{ID: "cto", Name: "CTO", ParentID: "ceo", Order: 2},
		{ID: "cfo", Name: "CFO", ParentID: "ceo", Order: 1},
		{ID: "eng", Name: "Engineering Lead", ParentID: "cto"},
	}

	roots := BuildChartTree(nodes)
	if len(roots) != 1 {
		t.Fatalf("roots = %d, want 1", len(roots))
	}
	root := roots[0]
	if root.ID != "ceo" {
		t.Fatalf("root = %s, want ceo", root.ID)
	}
	if len(root.Children) != 2 {
		t.Fatalf("root children = %d, want 2", len(root.Children))
	}
	// Sorted by order, CFO (1) before CTO (2).
	if root.Children[0].ID != "cfo" || root.Children[1].ID != "cto" {
		t.Fatalf("children order = %s, %s", root.Children[0].ID, root.Children[1].ID)
	}
	if len(root.Children[1].Children) != 1 || root.Children[1].Children[0].ID != "eng" {
		t.Fatal("expected eng under cto")
	}
}

func TestBuildChartTreeMissingParentBecomesRoot(t *testing.T) {
	nodes := []ChartNode{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B", ParentID: "gone"},
	}
	roots := BuildChartTree(nodes)
	if len(roots) != 2 {
		t.Fatalf("roots = %d, want 2", len(roots))
	}
}

func TestBuildChartTreeSiblingsSortedByName(t *testing.T) {
	nodes := []ChartNode{
		{ID: "1", Name: "Zeta"},
		{ID: "2", Name: "Alpha"},
	}
	roots := BuildChartTree(nodes)
	if roots[0].Name != "Alpha" {
		t.Fatalf("first root = %s, want Alpha", roots[0].Name)
	}
}

func TestBuildChartTreeEmpty(t *testing.T) {
	if roots := BuildChartTree(nil); len(roots) != 0 {
		t.Fatalf("roots = %d, want 0", len(roots))
	}
}
