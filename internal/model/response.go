package model

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fisker/zadmin-backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(data interface{}) Response {
	return Response{
		Code:    0,
		Message: "success",
		Data:    data,
	}
}

func Error(code int, message string) Response {
	return Response{
		Code:    code,
		Message: message,
	}
}

// IDRequest 按ID操作的请求
type IDRequest struct {
	ID int64 `json:"id" binding:"required"`
}

// IDsRequest 批量操作的请求
type IDsRequest struct {
	IDs []int64 `json:"ids" binding:"required,min=1"`
}

// HandleError 统一错误处理函数，根据错误类型确定状态码，记录详细日志并返回错误响应
func HandleError(c *gin.Context, err error, context ...string) {
	code := StatusOf(err)

	requestPath := c.Request.URL.Path
	if c.Request.URL.RawQuery != "" {
		requestPath = fmt.Sprintf("%s?%s", requestPath, c.Request.URL.RawQuery)
	}

	userID := ""
	if uid, exists := c.Get("userID"); exists {
		userID = fmt.Sprintf("%v", uid)
	}

	// 业务错误直接返回给调用方，内部错误不暴露细节
	message := "internal server error"
	var appErr *AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	logMsg := err.Error()
	if len(context) > 0 {
		logMsg = fmt.Sprintf("%s: %v", context[0], err)
	}

	if code >= http.StatusInternalServerError {
		logger.Errorf("Request error [%d]: %s\n  Request: %s %s\n  Client IP: %s\n  User ID: %s",
			code, logMsg, c.Request.Method, requestPath, c.ClientIP(), userID)
	} else {
		logger.Warnf("Request rejected [%d]: %s (%s %s, user %s)",
			code, logMsg, c.Request.Method, requestPath, userID)
	}

	c.JSON(code, Error(code, message))
}

// StatusOf 错误类型到 HTTP 状态码的映射
func StatusOf(err error) int {
	switch KindOf(err) {
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	case KindBusiness:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
