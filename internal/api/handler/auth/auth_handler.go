package auth

import (
	"net/http"

	"github.com/fisker/zadmin-backend/internal/api/middleware"
	"github.com/fisker/zadmin-backend/internal/model"
	authService "github.com/fisker/zadmin-backend/internal/service/auth"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service *authService.AuthService
}

func NewAuthHandler(service *authService.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login 用户登录
// @Summary 手机号密码登录，返回携带权限快照的令牌
// @Tags auth
// @Accept json
// @Produce json
// @Param body body model.LoginRequest true "Login"
// @Success 200 {object} model.Response
// @Router /api/system/user/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		model.HandleError(c, err, "login")
		return
	}

	c.JSON(http.StatusOK, model.Success(resp))
}

// QueryUserMenu 当前用户的菜单树与按钮权限
// @Summary 当前用户菜单
// @Tags auth
// @Produce json
// @Param tree query boolean false "Nested tree"
// @Success 200 {object} model.Response
// @Router /api/system/user/queryUserMenu [get]
func (h *AuthHandler) QueryUserMenu(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, model.Error(401, "未登录"))
		return
	}

	resp, err := h.service.QueryUserMenu(c.Request.Context(), userID, c.Query("tree") == "true")
	if err != nil {
		model.HandleError(c, err, "query user menu")
		return
	}

	c.JSON(http.StatusOK, model.Success(resp))
}
