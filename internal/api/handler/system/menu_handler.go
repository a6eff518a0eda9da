package system

import (
	"net/http"

	"github.com/fisker/zadmin-backend/internal/model"
	"github.com/fisker/zadmin-backend/internal/service/system"
	"github.com/gin-gonic/gin"
)

type MenuHandler struct {
	service *system.MenuService
}

func NewMenuHandler(service *system.MenuService) *MenuHandler {
	return &MenuHandler{service: service}
}

// AddMenu 添加菜单
// @Summary 添加菜单
// @Tags menus
// @Accept json
// @Produce json
// @Param body body model.AddMenuRequest true "Menu"
// @Success 200 {object} model.Response
// @Router /api/system/menu/addMenu [post]
func (h *MenuHandler) AddMenu(c *gin.Context) {
	var req model.AddMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	menu, err := h.service.AddMenu(c.Request.Context(), &req)
	if err != nil {
		model.HandleError(c, err, "add menu")
		return
	}
	c.JSON(http.StatusOK, model.Success(menu))
}

// UpdateMenu 更新菜单
// @Router /api/system/menu/updateMenu [post]
func (h *MenuHandler) UpdateMenu(c *gin.Context) {
	var req model.UpdateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	if err := h.service.UpdateMenu(c.Request.Context(), &req); err != nil {
		model.HandleError(c, err, "update menu")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

// UpdateMenuStatus 批量修改菜单状态
// @Router /api/system/menu/updateMenuStatus [post]
func (h *MenuHandler) UpdateMenuStatus(c *gin.Context) {
	var req model.UpdateMenuStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	if err := h.service.UpdateMenuStatus(c.Request.Context(), req.IDs, req.Status); err != nil {
		model.HandleError(c, err, "update menu status")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

// DeleteMenu 删除菜单
// @Router /api/system/menu/deleteMenu [post]
func (h *MenuHandler) DeleteMenu(c *gin.Context) {
	var req model.IDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	if err := h.service.DeleteMenu(c.Request.Context(), req.ID); err != nil {
		model.HandleError(c, err, "delete menu")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

// GetMenu 菜单详情
// @Router /api/system/menu/queryMenuDetail [post]
func (h *MenuHandler) GetMenu(c *gin.Context) {
	var req model.IDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	menu, err := h.service.GetMenu(c.Request.Context(), req.ID)
	if err != nil {
		model.HandleError(c, err, "get menu")
		return
	}
	c.JSON(http.StatusOK, model.Success(menu))
}

// ListMenus 菜单列表
// @Router /api/system/menu/queryMenuList [post]
func (h *MenuHandler) ListMenus(c *gin.Context) {
	var req model.MenuListRequest
	// 请求体可以为空
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
			return
		}
	}
	if c.Query("tree") == "true" {
		req.Tree = true
	}

	menus, err := h.service.ListMenus(c.Request.Context(), req)
	if err != nil {
		model.HandleError(c, err, "list menus")
		return
	}
	c.JSON(http.StatusOK, model.Success(menus))
}
