package system

import (
	"net/http"

	"github.com/fisker/zadmin-backend/internal/model"
	"github.com/fisker/zadmin-backend/internal/service/dept"
	"github.com/gin-gonic/gin"
)

type DeptHandler struct {
	service *dept.CascadeService
}

func NewDeptHandler(service *dept.CascadeService) *DeptHandler {
	return &DeptHandler{service: service}
}

// AddDept 添加部门
// @Summary 添加部门，上级部门必须存在且为启用状态
// @Tags depts
// @Accept json
// @Produce json
// @Param body body model.AddDeptRequest true "Dept"
// @Success 200 {object} model.Response
// @Router /api/system/dept/addDept [post]
func (h *DeptHandler) AddDept(c *gin.Context) {
	var req model.AddDeptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	d := newDept(&req)
	if err := h.service.OnCreate(c.Request.Context(), d); err != nil {
		model.HandleError(c, err, "add dept")
		return
	}
	c.JSON(http.StatusOK, model.Success(d))
}

// UpdateDept 更新部门
// @Summary 更新部门，上级变化时同步改写全部下级的祖级列表
// @Tags depts
// @Accept json
// @Produce json
// @Param body body model.UpdateDeptRequest true "Dept"
// @Success 200 {object} model.Response
// @Router /api/system/dept/updateDept [post]
func (h *DeptHandler) UpdateDept(c *gin.Context) {
	var req model.UpdateDeptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	d := newDept(&req.AddDeptRequest)
	d.ID = req.ID
	if err := h.service.Update(c.Request.Context(), d); err != nil {
		model.HandleError(c, err, "update dept")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

// UpdateDeptStatus 批量修改部门状态
// @Router /api/system/dept/updateDeptStatus [post]
func (h *DeptHandler) UpdateDeptStatus(c *gin.Context) {
	var req model.UpdateDeptStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	if err := h.service.UpdateStatus(c.Request.Context(), req.IDs, req.Status); err != nil {
		model.HandleError(c, err, "update dept status")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

// DeleteDept 删除部门
// @Router /api/system/dept/deleteDept [post]
func (h *DeptHandler) DeleteDept(c *gin.Context) {
	var req model.IDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	if err := h.service.Delete(c.Request.Context(), req.ID); err != nil {
		model.HandleError(c, err, "delete dept")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

// GetDept 部门详情
// @Router /api/system/dept/queryDeptDetail [post]
func (h *DeptHandler) GetDept(c *gin.Context) {
	var req model.IDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	d, err := h.service.Get(c.Request.Context(), req.ID)
	if err != nil {
		model.HandleError(c, err, "get dept")
		return
	}
	c.JSON(http.StatusOK, model.Success(d))
}

// ListDepts 部门列表
// @Router /api/system/dept/queryDeptList [post]
func (h *DeptHandler) ListDepts(c *gin.Context) {
	var req model.DeptListRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
			return
		}
	}
	if c.Query("tree") == "true" {
		req.Tree = true
	}

	depts, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		model.HandleError(c, err, "list depts")
		return
	}
	c.JSON(http.StatusOK, model.Success(depts))
}

func newDept(req *model.AddDeptRequest) *model.Dept {
	return &model.Dept{
		ParentID: req.ParentID,
		DeptName: req.DeptName,
		Sort:     req.Sort,
		Leader:   req.Leader,
		Phone:    req.Phone,
		Email:    req.Email,
		Status:   req.Status,
	}
}
