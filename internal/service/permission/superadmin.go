package permission

import (
	"github.com/fisker/zadmin-backend/internal/model"
)

// IsSuperAdmin 是否持有超级管理员角色
func IsSuperAdmin(roleIDs []int64) bool {
	for _, id := range roleIDs {
		if id == model.SuperAdminRoleID {
			return true
		}
	}
	return false
}
