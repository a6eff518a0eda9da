package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/fisker/zadmin-backend/internal/model"
	"github.com/fisker/zadmin-backend/internal/service/auth"
	"github.com/fisker/zadmin-backend/pkg/logger"
	"github.com/fisker/zadmin-backend/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	ErrEmptyCredential = model.NewAuthenticationError("empty credential")
	ErrBadFormat       = model.NewAuthenticationError("bad format")
	ErrForbidden       = model.NewAuthorizationError("forbidden")
)

type userIDKey struct{}

// UserIDFromContext 读取鉴权通过后注入的用户ID
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey{}).(int64)
	return id, ok
}

// AuthorizationMiddleware 校验令牌，并按令牌中的权限快照精确匹配请求路径
func AuthorizationMiddleware(tokens *auth.TokenService, loginPaths []string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(loginPaths))
	for _, p := range loginPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := skip[path]; ok {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if strings.TrimSpace(header) == "" {
			reject(c, ErrEmptyCredential, "empty_credential")
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || parts[0] != "Bearer" {
			reject(c, ErrBadFormat, "bad_format")
			return
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			reject(c, err, verifyReason(err))
			return
		}

		if !claims.HasPermission(path) {
			c.Set("userID", claims.UserID)
			reject(c, ErrForbidden, "forbidden")
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("username", claims.UserName)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), userIDKey{}, claims.UserID))
		c.Next()
	}
}

func reject(c *gin.Context, err error, reason string) {
	code := model.StatusOf(err)
	message := err.Error()
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	fields := []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("reason", message),
		zap.String("client_ip", c.ClientIP()),
	}
	if uid, ok := c.Get("userID"); ok {
		fields = append(fields, zap.Any("user_id", uid))
	}
	logger.Warn("request rejected", fields...)
	metrics.AuthRejectionsTotal.WithLabelValues(reason).Inc()

	c.AbortWithStatusJSON(code, model.Error(code, message))
}

func verifyReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return "expired"
	case errors.Is(err, auth.ErrTokenSignatureInvalid):
		return "signature_invalid"
	case errors.Is(err, auth.ErrTokenMalformed):
		return "malformed"
	}
	return "invalid"
}
