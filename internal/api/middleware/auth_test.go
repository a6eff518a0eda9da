package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fisker/zadmin-backend/internal/model"
	"github.com/fisker/zadmin-backend/internal/service/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loginPath = "/api/system/user/login"

func newEngine(tokens *auth.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RecoveryMiddleware(), AuthorizationMiddleware(tokens, []string{loginPath}))

	echo := func(c *gin.Context) {
		id, ok := UserIDFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"userId": id, "ok": ok, "username": c.GetString("username")})
	}
	r.POST(loginPath, echo)
	r.POST("/post/add", echo)
	r.GET("/post/list", echo)
	r.POST("/post/delete", echo)
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func do(r *gin.Engine, method, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) model.Response {
	t.Helper()
	var resp model.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAuthorizationScenario(t *testing.T) {
	tokens := auth.NewTokenService("secret", time.Hour)
	r := newEngine(tokens)

	// Alice 只有 Editor 角色
	token, err := tokens.Create(42, "alice", []string{"/post/add", "/post/list"})
	require.NoError(t, err)

	w := do(r, http.MethodPost, "/post/delete", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "forbidden", decode(t, w).Message)

	w = do(r, http.MethodPost, "/post/add", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		UserID   int64  `json:"userId"`
		OK       bool   `json:"ok"`
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.OK)
	assert.EqualValues(t, 42, body.UserID)
	assert.Equal(t, "alice", body.Username)
}

func TestAuthorizationRejections(t *testing.T) {
	now := time.Now()
	tokens := auth.NewTokenService("secret", time.Hour)
	r := newEngine(tokens)

	valid, err := tokens.Create(1, "bob", []string{"/post/list"})
	require.NoError(t, err)
	forged, err := auth.NewTokenService("other", time.Hour).Create(1, "bob", []string{"/post/list"})
	require.NoError(t, err)
	expired, err := auth.NewTokenService("secret", time.Minute).
		WithClock(func() time.Time { return now.Add(-time.Hour) }).
		Create(1, "bob", []string{"/post/list"})
	require.NoError(t, err)

	tests := []struct {
		name          string
		path          string
		authorization string
		wantCode      int
		wantMessage   string
	}{
		{"缺少凭证", "/post/list", "", http.StatusUnauthorized, "empty credential"},
		{"空白凭证", "/post/list", "   ", http.StatusUnauthorized, "empty credential"},
		{"缺少前缀", "/post/list", valid, http.StatusUnauthorized, "bad format"},
		{"前缀错误", "/post/list", "Token " + valid, http.StatusUnauthorized, "bad format"},
		{"多余字段", "/post/list", "Bearer " + valid + " extra", http.StatusUnauthorized, "bad format"},
		{"无法解析", "/post/list", "Bearer not-a-token", http.StatusUnauthorized, "token malformed"},
		{"签名错误", "/post/list", "Bearer " + forged, http.StatusUnauthorized, "token signature invalid"},
		{"已过期", "/post/list", "Bearer " + expired, http.StatusUnauthorized, "token expired"},
		{"未注册路径同样鉴权", "/post/list/all", "Bearer " + valid, http.StatusForbidden, "forbidden"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodGet, tt.path, tt.authorization)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantMessage, decode(t, w).Message)
		})
	}

	w := do(r, http.MethodGet, "/post/list", "Bearer "+valid)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginPathSkipsAuthorization(t *testing.T) {
	r := newEngine(auth.NewTokenService("secret", time.Hour))

	w := do(r, http.MethodPost, loginPath, "")
	require.Equal(t, http.StatusOK, w.Code)

	// 登录路径精确匹配
	w = do(r, http.MethodPost, "/post/add", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPathMustMatchExactly(t *testing.T) {
	tokens := auth.NewTokenService("secret", time.Hour)
	r := newEngine(tokens)

	token, err := tokens.Create(3, "carol", []string{"/post"})
	require.NoError(t, err)

	w := do(r, http.MethodPost, "/post/add", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRecoveryHidesPanicDetails(t *testing.T) {
	tokens := auth.NewTokenService("secret", time.Hour)
	r := newEngine(tokens)
	token, err := tokens.Create(1, "admin", []string{"/panic"})
	require.NoError(t, err)

	w := do(r, http.MethodGet, "/panic", "Bearer "+token)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decode(t, w).Message)
}
