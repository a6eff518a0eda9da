package system

import (
	"net/http"

	"github.com/fisker/zadmin-backend/internal/model"
	"github.com/fisker/zadmin-backend/internal/service/system"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	roles *system.RoleService
}

func NewUserHandler(roles *system.RoleService) *UserHandler {
	return &UserHandler{roles: roles}
}

// QueryUserRole 用户的角色分配情况
// @Summary 查询用户角色
// @Tags users
// @Accept json
// @Produce json
// @Param body body model.QueryUserRoleRequest true "User"
// @Success 200 {object} model.Response
// @Router /api/system/user/queryUserRole [post]
func (h *UserHandler) QueryUserRole(c *gin.Context) {
	var req model.QueryUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	resp, err := h.roles.QueryUserRole(c.Request.Context(), req.UserID)
	if err != nil {
		model.HandleError(c, err, "query user role")
		return
	}
	c.JSON(http.StatusOK, model.Success(resp))
}

// UpdateUserRole 替换用户的角色
// @Summary 更新用户角色
// @Tags users
// @Accept json
// @Produce json
// @Param body body model.UpdateUserRoleRequest true "User roles"
// @Success 200 {object} model.Response
// @Router /api/system/user/updateUserRole [post]
func (h *UserHandler) UpdateUserRole(c *gin.Context) {
	var req model.UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	if err := h.roles.UpdateUserRole(c.Request.Context(), req.UserID, req.RoleIDs); err != nil {
		model.HandleError(c, err, "update user role")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}
