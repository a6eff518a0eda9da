package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/fisker/zadmin-backend/internal/model"
	"github.com/fisker/zadmin-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryMiddleware 自定义错误恢复中间件，记录请求信息与堆栈后返回 500
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		err, ok := recovered.(error)
		if !ok {
			err = fmt.Errorf("%v", recovered)
		}

		fullURL := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			fullURL = fmt.Sprintf("%s?%s", c.Request.URL.Path, c.Request.URL.RawQuery)
		}

		fields := []zap.Field{
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("url", fullURL),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.String("stack", string(debug.Stack())),
		}
		if uid, exists := c.Get("userID"); exists {
			fields = append(fields, zap.Any("user_id", uid))
		}
		if uname, exists := c.Get("username"); exists {
			fields = append(fields, zap.Any("username", uname))
		}
		logger.Error("Panic recovered", fields...)

		// panic 内容可能包含内部细节，不返回给调用方
		c.AbortWithStatusJSON(http.StatusInternalServerError, model.Error(http.StatusInternalServerError, "internal server error"))
	})
}
