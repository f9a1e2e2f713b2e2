package org

import "sort"

// BuildChartTree groups nodes by parent id and sorts siblings by their order
// field. Nodes whose parent is missing are treated as roots so a partially
// filtered list still renders.
func BuildChartTree(nodes []ChartNode) []*ChartTreeNode {
	byID := make(map[string]*ChartTreeNode, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = &ChartTreeNode{ChartNode: n, Children: []*ChartTreeNode{}}
	}

	var roots []*ChartTreeNode
	for _, n := range nodes {
		node := byID[n.ID]
		if n.ParentID == "" {
			roots = append(roots, node)
			continue
		}
		parent, ok := byID[n.ParentID]
		if !ok {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	var sortChildren func(items []*ChartTreeNode)
	sortChildren = func(items []*ChartTreeNode) {
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Order == items[j].Order {
				return items[i].Name < items[j].Name
			}
			return items[i].Order < items[j].Order
		})
		for _, item := range items {
			sortChildren(item.Children)
		}
	}
	sortChildren(roots)
	return roots
}
