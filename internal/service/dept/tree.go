package dept

import (
	"sort"

	"github.com/fisker/zadmin-backend/internal/model"
)

// BuildTree 构建部门树，父部门不在列表中的部门作为顶级节点
func BuildTree(depts []model.Dept) []model.Dept {
	if len(depts) == 0 {
		return []model.Dept{}
	}

	flat := make([]model.Dept, len(depts))
	copy(flat, depts)
	sort.SliceStable(flat, func(i, j int) bool {
		if flat[i].Sort != flat[j].Sort {
			return flat[i].Sort < flat[j].Sort
		}
		return flat[i].ID < flat[j].ID
	})

	present := make(map[int64]struct{}, len(flat))
	for _, d := range flat {
		present[d.ID] = struct{}{}
	}

	children := make(map[int64][]model.Dept)
	var roots []model.Dept
	for _, d := range flat {
		if _, ok := present[d.ParentID]; ok && d.ParentID != d.ID {
			children[d.ParentID] = append(children[d.ParentID], d)
			continue
		}
		roots = append(roots, d)
	}

	var attach func(d model.Dept, depth int) model.Dept
	attach = func(d model.Dept, depth int) model.Dept {
		d.Children = []model.Dept{}
		// 祖级列表保证无环，深度上限只防御脏数据
		if depth > len(flat) {
			return d
		}
		for _, c := range children[d.ID] {
			d.Children = append(d.Children, attach(c, depth+1))
		}
		return d
	}

	tree := make([]model.Dept, 0, len(roots))
	for _, r := range roots {
		tree = append(tree, attach(r, 0))
	}
	return tree
}
