package permission

import (
	"context"
	"fmt"
	"sort"

	"github.com/fisker/zadmin-backend/internal/model"
)

// MenuTree 用户可见的菜单节点（扁平、按 sort 排序）与按钮权限
type MenuTree struct {
	Menus          []model.Menu
	PermissionURLs []string
}

// MenuTreeBuilder 由菜单记录生成无断层的菜单树
type MenuTreeBuilder struct {
	menus MenuStore
}

func NewMenuTreeBuilder(menus MenuStore) *MenuTreeBuilder {
	return &MenuTreeBuilder{menus: menus}
}

// Build 生成菜单树
// 返回的每个节点的父节点要么是根，要么也在结果中；已停用节点及其下级不返回
func (b *MenuTreeBuilder) Build(ctx context.Context, records []model.Menu, isSuperAdmin bool) (*MenuTree, error) {
	if isSuperAdmin {
		all, err := b.menus.FindAllMenus(ctx)
		if err != nil {
			return nil, fmt.Errorf("find all menus: %w", err)
		}
		records = all
	}

	// 按钮权限包含所有类型的菜单
	urls := make(map[string]struct{})
	for _, m := range records {
		if m.APIURL != "" {
			urls[m.APIURL] = struct{}{}
		}
	}

	known := make(map[int64]model.Menu, len(records))
	for _, m := range records {
		known[m.ID] = m
	}

	included := make(map[int64]struct{})
	for _, m := range records {
		if m.IsButton() {
			continue
		}
		included[m.ID] = struct{}{}
		if m.ParentID != model.RootParentID {
			included[m.ParentID] = struct{}{}
		}
	}

	nodes, err := b.closeOverParents(ctx, included, known)
	if err != nil {
		return nil, err
	}

	menus := pruneDisabled(nodes)
	sortMenus(menus)

	return &MenuTree{
		Menus:          menus,
		PermissionURLs: sortedKeys(urls),
	}, nil
}

// closeOverParents 补齐所有祖先节点，数据库中不存在的ID会被忽略
func (b *MenuTreeBuilder) closeOverParents(ctx context.Context, included map[int64]struct{}, known map[int64]model.Menu) (map[int64]model.Menu, error) {
	nodes := make(map[int64]model.Menu, len(included))
	missing := make(map[int64]struct{})
	pending := make([]int64, 0, len(included))
	for id := range included {
		pending = append(pending, id)
	}

	for len(pending) > 0 {
		var fetch []int64
		var next []int64
		for _, id := range pending {
			if _, ok := nodes[id]; ok {
				continue
			}
			if _, ok := missing[id]; ok {
				continue
			}
			if m, ok := known[id]; ok {
				nodes[id] = m
				if m.ParentID != model.RootParentID {
					next = append(next, m.ParentID)
				}
				continue
			}
			fetch = append(fetch, id)
		}

		if len(fetch) > 0 {
			fetched, err := b.menus.FindMenusByIDs(ctx, fetch)
			if err != nil {
				return nil, fmt.Errorf("find menus by ids: %w", err)
			}
			found := make(map[int64]struct{}, len(fetched))
			for _, m := range fetched {
				found[m.ID] = struct{}{}
				known[m.ID] = m
				nodes[m.ID] = m
				if m.ParentID != model.RootParentID {
					next = append(next, m.ParentID)
				}
			}
			for _, id := range fetch {
				if _, ok := found[id]; !ok {
					missing[id] = struct{}{}
				}
			}
		}
		pending = next
	}
	return nodes, nil
}

// pruneDisabled 去掉停用节点、停用节点的下级以及父节点缺失的节点
func pruneDisabled(nodes map[int64]model.Menu) []model.Menu {
	const (
		visiting = iota + 1
		keep
		drop
	)
	state := make(map[int64]int, len(nodes))

	var visit func(id int64) bool
	visit = func(id int64) bool {
		switch state[id] {
		case keep:
			return true
		case drop, visiting:
			// visiting 表示存在环
			return false
		}
		m, ok := nodes[id]
		if !ok || !m.IsEnabled() {
			state[id] = drop
			return false
		}
		state[id] = visiting
		ok = m.ParentID == model.RootParentID || visit(m.ParentID)
		if ok {
			state[id] = keep
		} else {
			state[id] = drop
		}
		return ok
	}

	out := make([]model.Menu, 0, len(nodes))
	for id, m := range nodes {
		if visit(id) {
			out = append(out, m)
		}
	}
	return out
}

func sortMenus(menus []model.Menu) {
	sort.Slice(menus, func(i, j int) bool {
		if menus[i].Sort != menus[j].Sort {
			return menus[i].Sort < menus[j].Sort
		}
		return menus[i].ID < menus[j].ID
	})
}

// BuildTree 构建菜单树，父节点不在列表中的节点作为顶级节点
func BuildTree(menus []model.Menu) []model.Menu {
	if len(menus) == 0 {
		return []model.Menu{}
	}

	flat := make([]model.Menu, len(menus))
	copy(flat, menus)
	sortMenus(flat)

	present := make(map[int64]struct{}, len(flat))
	for _, m := range flat {
		present[m.ID] = struct{}{}
	}

	children := make(map[int64][]model.Menu)
	var roots []model.Menu
	for _, m := range flat {
		if _, ok := present[m.ParentID]; ok && m.ParentID != m.ID {
			children[m.ParentID] = append(children[m.ParentID], m)
			continue
		}
		roots = append(roots, m)
	}

	var attach func(m model.Menu, seen map[int64]bool) model.Menu
	attach = func(m model.Menu, seen map[int64]bool) model.Menu {
		m.Children = []model.Menu{}
		if seen[m.ID] {
			return m
		}
		seen[m.ID] = true
		for _, c := range children[m.ID] {
			m.Children = append(m.Children, attach(c, seen))
		}
		return m
	}

	seen := make(map[int64]bool, len(flat))
	tree := make([]model.Menu, 0, len(roots))
	for _, r := range roots {
		tree = append(tree, attach(r, seen))
	}
	return tree
}
