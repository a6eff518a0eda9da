package permission

import (
	"net/http"

	"github.com/fisker/zadmin-backend/internal/model"
	"github.com/fisker/zadmin-backend/internal/service/system"
	"github.com/gin-gonic/gin"
)

type RoleHandler struct {
	service *system.RoleService
}

func NewRoleHandler(service *system.RoleService) *RoleHandler {
	return &RoleHandler{service: service}
}

// ListRoles 获取角色列表
// @Summary 获取角色列表
// @Tags roles
// @Produce json
// @Success 200 {object} model.Response
// @Router /api/system/role/queryRoleList [post]
func (h *RoleHandler) ListRoles(c *gin.Context) {
	roles, err := h.service.ListRoles(c.Request.Context())
	if err != nil {
		model.HandleError(c, err, "list roles")
		return
	}
	c.JSON(http.StatusOK, model.Success(roles))
}

// AddRole 创建角色
// @Summary 创建角色
// @Tags roles
// @Accept json
// @Produce json
// @Param role body model.AddRoleRequest true "Role"
// @Success 200 {object} model.Response
// @Router /api/system/role/addRole [post]
func (h *RoleHandler) AddRole(c *gin.Context) {
	var req model.AddRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	role, err := h.service.AddRole(c.Request.Context(), &req)
	if err != nil {
		model.HandleError(c, err, "add role")
		return
	}
	c.JSON(http.StatusOK, model.Success(role))
}

// DeleteRoles 删除角色
// @Summary 删除角色，已分配给用户的角色不能删除
// @Tags roles
// @Accept json
// @Produce json
// @Param body body model.IDsRequest true "Role IDs"
// @Success 200 {object} model.Response
// @Router /api/system/role/deleteRole [post]
func (h *RoleHandler) DeleteRoles(c *gin.Context) {
	var req model.IDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	if err := h.service.DeleteRoles(c.Request.Context(), req.IDs); err != nil {
		model.HandleError(c, err, "delete roles")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

// QueryRoleMenu 角色的菜单分配情况
// @Summary 查询角色菜单
// @Tags roles
// @Accept json
// @Produce json
// @Param body body model.IDRequest true "Role ID"
// @Success 200 {object} model.Response
// @Router /api/system/role/queryRoleMenu [post]
func (h *RoleHandler) QueryRoleMenu(c *gin.Context) {
	var req model.IDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	resp, err := h.service.QueryRoleMenu(c.Request.Context(), req.ID)
	if err != nil {
		model.HandleError(c, err, "query role menu")
		return
	}
	c.JSON(http.StatusOK, model.Success(resp))
}

// UpdateRoleMenu 替换角色的菜单，用户重新登录后生效
// @Summary 更新角色菜单
// @Tags roles
// @Accept json
// @Produce json
// @Param body body model.UpdateRoleMenuRequest true "Role menus"
// @Success 200 {object} model.Response
// @Router /api/system/role/updateRoleMenu [post]
func (h *RoleHandler) UpdateRoleMenu(c *gin.Context) {
	var req model.UpdateRoleMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	if err := h.service.UpdateRoleMenu(c.Request.Context(), req.RoleID, req.MenuIDs); err != nil {
		model.HandleError(c, err, "update role menu")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}
