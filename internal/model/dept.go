package model

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// AncestorPath 祖级列表，从根到父节点的ID序列
// 只在持久化边界转换为逗号分隔的字符串，根节点为空串
type AncestorPath []int64

// Child 子节点的祖级列表：当前列表 ++ [id]
func (p AncestorPath) Child(id int64) AncestorPath {
	out := make(AncestorPath, 0, len(p)+1)
	out = append(out, p...)
	return append(out, id)
}

// Contains 是否包含某个祖先
func (p AncestorPath) Contains(id int64) bool {
	for _, v := range p {
		if v == id {
			return true
		}
	}
	return false
}

// HasPrefix 是否以 prefix 开头
func (p AncestorPath) HasPrefix(prefix AncestorPath) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i := range prefix {
		if p[i] != prefix[i] {
			return false
		}
	}
	return true
}

// ReplacePrefix 将开头的 oldPrefix 替换为 newPrefix，不匹配时原样返回
func (p AncestorPath) ReplacePrefix(oldPrefix, newPrefix AncestorPath) AncestorPath {
	if !p.HasPrefix(oldPrefix) {
		return p
	}
	out := make(AncestorPath, 0, len(newPrefix)+len(p)-len(oldPrefix))
	out = append(out, newPrefix...)
	return append(out, p[len(oldPrefix):]...)
}

func (p AncestorPath) String() string {
	parts := make([]string, len(p))
	for i, id := range p {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// ParseAncestorPath 解析逗号分隔的祖级字符串
func ParseAncestorPath(s string) (AncestorPath, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return AncestorPath{}, nil
	}
	parts := strings.Split(s, ",")
	path := make(AncestorPath, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ancestor path %q: %w", s, err)
		}
		path = append(path, id)
	}
	return path, nil
}

// Value 实现 driver.Valuer
func (p AncestorPath) Value() (driver.Value, error) {
	return p.String(), nil
}

// Scan 实现 sql.Scanner
func (p *AncestorPath) Scan(value interface{}) error {
	var s string
	switch v := value.(type) {
	case nil:
		*p = AncestorPath{}
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("unsupported ancestor path type %T", value)
	}
	path, err := ParseAncestorPath(s)
	if err != nil {
		return err
	}
	*p = path
	return nil
}

// Dept 部门模型
type Dept struct {
	ID        int64        `json:"id" gorm:"primaryKey;autoIncrement"`
	ParentID  int64        `json:"parentId" gorm:"not null;default:0;index"` // 0 表示顶级部门
	Ancestors AncestorPath `json:"ancestors" gorm:"type:varchar(500);not null;default:'';index"`
	DeptName  string       `json:"deptName" gorm:"type:varchar(50);not null"`
	Sort      int          `json:"sort" gorm:"default:0"`
	Leader    string       `json:"leader" gorm:"type:varchar(20)"`
	Phone     string       `json:"phone" gorm:"type:varchar(20)"`
	Email     string       `json:"email" gorm:"type:varchar(50)"`
	Status    int8         `json:"status" gorm:"not null"` // 0:停用 1:正常
	Children  []Dept       `json:"children,omitempty" gorm:"-"`
	CreatedAt time.Time    `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time    `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (Dept) TableName() string {
	return "sys_dept"
}

// IsEnabled 是否启用
func (d Dept) IsEnabled() bool {
	return d.Status == StatusEnabled
}

// SubtreePrefix 子孙节点祖级列表的公共前缀
func (d Dept) SubtreePrefix() AncestorPath {
	return d.Ancestors.Child(d.ID)
}

// AddDeptRequest 添加部门请求
type AddDeptRequest struct {
	ParentID int64  `json:"parentId" binding:"min=0"`
	DeptName string `json:"deptName" binding:"required"`
	Sort     int    `json:"sort"`
	Leader   string `json:"leader"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Status   int8   `json:"status" binding:"oneof=0 1"`
}

// UpdateDeptRequest 更新部门请求
type UpdateDeptRequest struct {
	ID int64 `json:"id" binding:"required"`
	AddDeptRequest
}

// UpdateDeptStatusRequest 批量修改部门状态
type UpdateDeptStatusRequest struct {
	IDs    []int64 `json:"ids" binding:"required,min=1"`
	Status int8    `json:"status" binding:"oneof=0 1"`
}

// DeptListRequest 查询部门列表
type DeptListRequest struct {
	DeptName string `json:"deptName"`
	Status   *int8  `json:"status"`
	Tree     bool   `json:"tree"`
}
