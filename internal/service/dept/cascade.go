package dept

import (
	"context"
	"fmt"
	"time"

	"github.com/fisker/zadmin-backend/internal/model"
	"github.com/fisker/zadmin-backend/pkg/logger"
	"github.com/fisker/zadmin-backend/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrDeptNotFound       = model.NewNotFoundError("department not found")
	ErrParentNotFound     = model.NewValidationError("parent department not found")
	ErrParentDisabled     = model.NewValidationError("parent department is disabled")
	ErrParentIsSelf       = model.NewValidationError("parent department cannot be itself")
	ErrParentIsDescendant = model.NewValidationError("parent department cannot be a descendant")
	ErrDuplicateName      = model.NewValidationError("department name already exists")
	ErrHasChildren        = model.NewBusinessError("has child nodes")
	ErrHasMembers         = model.NewBusinessError("has assigned members")
	ErrHasEnabledChildren = model.NewBusinessError("department has enabled child departments")
)

// Store 部门数据访问
type Store interface {
	// Transaction 在同一个数据库事务中执行 fn
	Transaction(ctx context.Context, fn func(store Store) error) error

	CreateDept(ctx context.Context, d *model.Dept) error
	SaveDept(ctx context.Context, d *model.Dept) error
	DeleteDept(ctx context.Context, id int64) error

	FindDeptByID(ctx context.Context, id int64) (*model.Dept, error)
	FindDeptsByIDs(ctx context.Context, ids []int64) ([]model.Dept, error)
	FindDeptByName(ctx context.Context, parentID int64, name string) (*model.Dept, error)
	FindChildDepts(ctx context.Context, id int64) ([]model.Dept, error)
	FindDescendants(ctx context.Context, prefix model.AncestorPath) ([]model.Dept, error)
	FindDepts(ctx context.Context, req model.DeptListRequest) ([]model.Dept, error)

	CountChildDepts(ctx context.Context, id int64) (int64, error)
	CountEnabledChildDepts(ctx context.Context, id int64) (int64, error)
	CountUsersInDept(ctx context.Context, id int64) (int64, error)

	BulkUpdateStatus(ctx context.Context, ids []int64, status int8) error
	UpdateAncestors(ctx context.Context, id int64, ancestors model.AncestorPath) error
}

// Locker 树结构写锁
type Locker interface {
	Acquire(ctx context.Context) (func(), error)
}

// CascadeService 维护部门祖级列表与状态级联
// 新增、移动、启用、删除在全局结构写锁内执行，移动时整棵子树的改写在一个事务中完成
type CascadeService struct {
	store Store
	lock  Locker
}

func NewCascadeService(store Store, lock Locker) *CascadeService {
	return &CascadeService{store: store, lock: lock}
}

func (s *CascadeService) withLock(ctx context.Context, fn func() error) error {
	start := time.Now()
	release, err := s.lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire structure lock: %w", err)
	}
	defer release()
	metrics.StructureLockWait.Observe(time.Since(start).Seconds())
	return fn()
}

// OnCreate 校验上级部门并计算祖级列表后创建部门
func (s *CascadeService) OnCreate(ctx context.Context, d *model.Dept) error {
	return s.withLock(ctx, func() error {
		return s.store.Transaction(ctx, func(st Store) error {
			if err := checkName(ctx, st, d.ParentID, d.DeptName, 0); err != nil {
				return err
			}

			d.Ancestors = model.AncestorPath{}
			if d.ParentID != model.RootParentID {
				parent, err := st.FindDeptByID(ctx, d.ParentID)
				if err != nil {
					return err
				}
				if parent == nil {
					return ErrParentNotFound
				}
				if !parent.IsEnabled() {
					return ErrParentDisabled
				}
				d.Ancestors = parent.SubtreePrefix()
			}

			if err := st.CreateDept(ctx, d); err != nil {
				return fmt.Errorf("create dept: %w", err)
			}
			logger.Info("dept created",
				zap.Int64("id", d.ID),
				zap.Int64("parentId", d.ParentID),
				zap.String("ancestors", d.Ancestors.String()))
			return nil
		})
	})
}

// OnMove 将部门移动到新的上级下，并改写全部子孙的祖级列表
func (s *CascadeService) OnMove(ctx context.Context, id, newParentID int64) error {
	return s.withLock(ctx, func() error {
		return s.store.Transaction(ctx, func(st Store) error {
			node, err := st.FindDeptByID(ctx, id)
			if err != nil {
				return err
			}
			if node == nil {
				return ErrDeptNotFound
			}
			if err := move(ctx, st, node, newParentID); err != nil {
				return err
			}
			if err := st.SaveDept(ctx, node); err != nil {
				return fmt.Errorf("save dept: %w", err)
			}
			if node.IsEnabled() {
				return enableAncestors(ctx, st, node)
			}
			return nil
		})
	})
}

// move 计算新的祖级列表并改写子孙，node 的 ParentID/Ancestors 会被修改但不保存
func move(ctx context.Context, st Store, node *model.Dept, newParentID int64) error {
	if newParentID == node.ID {
		return ErrParentIsSelf
	}

	newAncestors := model.AncestorPath{}
	if newParentID != model.RootParentID {
		parent, err := st.FindDeptByID(ctx, newParentID)
		if err != nil {
			return err
		}
		if parent == nil {
			return ErrParentNotFound
		}
		if parent.Ancestors.Contains(node.ID) {
			return ErrParentIsDescendant
		}
		newAncestors = parent.SubtreePrefix()
	}

	oldPrefix := node.SubtreePrefix()
	newPrefix := newAncestors.Child(node.ID)
	node.ParentID = newParentID
	node.Ancestors = newAncestors

	descendants, err := st.FindDescendants(ctx, oldPrefix)
	if err != nil {
		return fmt.Errorf("find descendants of dept %d: %w", node.ID, err)
	}
	for _, d := range descendants {
		if err := st.UpdateAncestors(ctx, d.ID, d.Ancestors.ReplacePrefix(oldPrefix, newPrefix)); err != nil {
			return fmt.Errorf("rewrite ancestors of dept %d: %w", d.ID, err)
		}
	}

	metrics.DeptCascadeUpdates.WithLabelValues("move").Add(float64(len(descendants) + 1))
	logger.Info("dept moved",
		zap.Int64("id", node.ID),
		zap.String("from", oldPrefix.String()),
		zap.String("to", newPrefix.String()),
		zap.Int("descendants", len(descendants)))
	return nil
}

// OnEnable 启用部门及其所有已停用的祖先
func (s *CascadeService) OnEnable(ctx context.Context, id int64) error {
	return s.withLock(ctx, func() error {
		return s.store.Transaction(ctx, func(st Store) error {
			node, err := st.FindDeptByID(ctx, id)
			if err != nil {
				return err
			}
			if node == nil {
				return ErrDeptNotFound
			}
			if !node.IsEnabled() {
				if err := st.BulkUpdateStatus(ctx, []int64{node.ID}, model.StatusEnabled); err != nil {
					return err
				}
				metrics.DeptCascadeUpdates.WithLabelValues("enable").Inc()
			}
			return enableAncestors(ctx, st, node)
		})
	})
}

func enableAncestors(ctx context.Context, st Store, node *model.Dept) error {
	if len(node.Ancestors) == 0 {
		return nil
	}
	ancestors, err := st.FindDeptsByIDs(ctx, node.Ancestors)
	if err != nil {
		return fmt.Errorf("find ancestors of dept %d: %w", node.ID, err)
	}
	var disabled []int64
	for _, a := range ancestors {
		if !a.IsEnabled() {
			disabled = append(disabled, a.ID)
		}
	}
	if len(disabled) == 0 {
		return nil
	}
	if err := st.BulkUpdateStatus(ctx, disabled, model.StatusEnabled); err != nil {
		return fmt.Errorf("enable ancestors of dept %d: %w", node.ID, err)
	}
	metrics.DeptCascadeUpdates.WithLabelValues("enable").Add(float64(len(disabled)))
	logger.Info("dept ancestors enabled", zap.Int64("id", node.ID), zap.Int64s("ancestors", disabled))
	return nil
}

// UpdateStatus 批量修改状态；启用时同时启用每个部门的祖先，停用不向下级传播
func (s *CascadeService) UpdateStatus(ctx context.Context, ids []int64, status int8) error {
	return s.withLock(ctx, func() error {
		return s.store.Transaction(ctx, func(st Store) error {
			if status == model.StatusEnabled {
				depts, err := st.FindDeptsByIDs(ctx, ids)
				if err != nil {
					return err
				}
				for i := range depts {
					if err := enableAncestors(ctx, st, &depts[i]); err != nil {
						return err
					}
				}
			}
			return st.BulkUpdateStatus(ctx, ids, status)
		})
	})
}

// Update 更新部门信息，上级变化时移动子树，启用时级联启用祖先
func (s *CascadeService) Update(ctx context.Context, d *model.Dept) error {
	if d.ParentID == d.ID {
		return ErrParentIsSelf
	}
	return s.withLock(ctx, func() error {
		return s.store.Transaction(ctx, func(st Store) error {
			current, err := st.FindDeptByID(ctx, d.ID)
			if err != nil {
				return err
			}
			if current == nil {
				return ErrDeptNotFound
			}
			if err := checkName(ctx, st, d.ParentID, d.DeptName, d.ID); err != nil {
				return err
			}
			if d.Status == model.StatusDisabled {
				n, err := st.CountEnabledChildDepts(ctx, d.ID)
				if err != nil {
					return err
				}
				if n > 0 {
					return ErrHasEnabledChildren
				}
			}

			if current.ParentID != d.ParentID {
				if err := move(ctx, st, current, d.ParentID); err != nil {
					return err
				}
			}
			d.Ancestors = current.Ancestors

			if err := st.SaveDept(ctx, d); err != nil {
				return fmt.Errorf("save dept: %w", err)
			}
			if d.IsEnabled() {
				return enableAncestors(ctx, st, d)
			}
			return nil
		})
	})
}

// CanDelete 下级部门与部门成员并发检查，两项都通过才允许删除
func (s *CascadeService) CanDelete(ctx context.Context, id int64) error {
	var children, members int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.store.CountChildDepts(gctx, id)
		children = n
		return err
	})
	g.Go(func() error {
		n, err := s.store.CountUsersInDept(gctx, id)
		members = n
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("check dept %d before delete: %w", id, err)
	}

	if children > 0 {
		return ErrHasChildren
	}
	if members > 0 {
		return ErrHasMembers
	}
	return nil
}

// Delete 删除部门
func (s *CascadeService) Delete(ctx context.Context, id int64) error {
	return s.withLock(ctx, func() error {
		d, err := s.store.FindDeptByID(ctx, id)
		if err != nil {
			return err
		}
		if d == nil {
			return ErrDeptNotFound
		}
		if err := s.CanDelete(ctx, id); err != nil {
			return err
		}
		if err := s.store.DeleteDept(ctx, id); err != nil {
			return fmt.Errorf("delete dept: %w", err)
		}
		logger.Info("dept deleted", zap.Int64("id", id))
		return nil
	})
}

// Get 部门详情
func (s *CascadeService) Get(ctx context.Context, id int64) (*model.Dept, error) {
	d, err := s.store.FindDeptByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDeptNotFound
	}
	return d, nil
}

// List 部门列表，req.Tree 为 true 时返回树形结构
func (s *CascadeService) List(ctx context.Context, req model.DeptListRequest) ([]model.Dept, error) {
	depts, err := s.store.FindDepts(ctx, req)
	if err != nil {
		return nil, err
	}
	if req.Tree {
		return BuildTree(depts), nil
	}
	return depts, nil
}

func checkName(ctx context.Context, st Store, parentID int64, name string, selfID int64) error {
	existing, err := st.FindDeptByName(ctx, parentID, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return ErrDuplicateName
	}
	return nil
}
