package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/fisker/zadmin-backend/internal/model"
	"github.com/fisker/zadmin-backend/internal/service/auth"
	"github.com/fisker/zadmin-backend/pkg/config"
	"github.com/fisker/zadmin-backend/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	engine *gin.Engine
	repos  *Repositories
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.db")
	cfg, err := config.Parse([]byte(fmt.Sprintf(`
server:
  mode: test
database:
  driver: sqlite
  path: %q
security:
  jwt_secret: test-secret
  admin_password: admin-pass
`, path)))
	require.NoError(t, err)

	db, err := database.Open(&cfg.Database)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.AutoMigrateAll(db))
	require.NoError(t, database.Seed(db, cfg.Security.AdminPassword))

	repos := InitializeRepositories(db)
	services := InitializeServices(repos, cfg)
	return &testServer{
		engine: NewEngine(cfg, InitializeHandlers(services), services),
		repos:  repos,
	}
}

func (s *testServer) call(t *testing.T, method, path, token string, body interface{}) (int, model.Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var resp model.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func (s *testServer) login(t *testing.T, mobile, password string) (int, string) {
	t.Helper()
	code, resp := s.call(t, http.MethodPost, "/api/system/user/login", "", model.LoginRequest{Mobile: mobile, Password: password})
	if code != http.StatusOK {
		return code, ""
	}
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var login model.LoginResponse
	require.NoError(t, json.Unmarshal(data, &login))
	return code, login.Token
}

func decodeData(t *testing.T, resp model.Response, out interface{}) {
	t.Helper()
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminFlow(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.login(t, database.AdminMobile, "wrong")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, token := s.login(t, database.AdminMobile, "admin-pass")
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, token)

	code, resp := s.call(t, http.MethodGet, "/api/system/user/queryUserMenu?tree=true", token, nil)
	require.Equal(t, http.StatusOK, code)
	var menu model.UserMenuResponse
	decodeData(t, resp, &menu)
	assert.Equal(t, "admin", menu.Name)
	require.Len(t, menu.SysMenu, 1)
	assert.Contains(t, menu.BtnMenu, "/api/system/dept/deleteDept")

	code, resp = s.call(t, http.MethodPost, "/api/system/dept/addDept", token, model.AddDeptRequest{ParentID: 1, DeptName: "研发", Status: model.StatusEnabled})
	require.Equal(t, http.StatusOK, code)
	var d model.Dept
	decodeData(t, resp, &d)
	assert.Equal(t, model.AncestorPath{1}, d.Ancestors)

	code, resp = s.call(t, http.MethodPost, "/api/system/dept/addDept", token, model.AddDeptRequest{ParentID: 1, DeptName: "研发"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.call(t, http.MethodPost, "/api/system/dept/deleteDept", token, model.IDRequest{ID: 1})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = s.call(t, http.MethodPost, "/api/system/dept/queryDeptDetail", token, model.IDRequest{ID: 999})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestEditorIsLimitedToAssignedMenus(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)
	_, adminToken := s.login(t, database.AdminMobile, "admin-pass")

	// 编辑角色只分配部门列表与当前用户菜单两个接口
	code, resp := s.call(t, http.MethodPost, "/api/system/role/addRole", adminToken, model.AddRoleRequest{RoleName: "Editor", Status: model.StatusEnabled})
	require.Equal(t, http.StatusOK, code)
	var role model.Role
	decodeData(t, resp, &role)

	menus, err := s.repos.Menu.FindAllMenus(ctx)
	require.NoError(t, err)
	var menuIDs []int64
	for _, m := range menus {
		if m.APIURL == "/api/system/dept/queryDeptList" || m.APIURL == "/api/system/user/queryUserMenu" {
			menuIDs = append(menuIDs, m.ID)
		}
	}
	require.Len(t, menuIDs, 2)
	code, _ = s.call(t, http.MethodPost, "/api/system/role/updateRoleMenu", adminToken, model.UpdateRoleMenuRequest{RoleID: role.ID, MenuIDs: menuIDs})
	require.Equal(t, http.StatusOK, code)

	hash, err := auth.HashPassword("alice-pass")
	require.NoError(t, err)
	alice := &model.User{Mobile: "13800000000", UserName: "alice", Password: hash, Status: model.StatusEnabled}
	require.NoError(t, s.repos.User.Create(ctx, alice))

	// 没有角色时不能登录
	code, _ = s.login(t, alice.Mobile, "alice-pass")
	assert.Equal(t, http.StatusConflict, code)

	code, _ = s.call(t, http.MethodPost, "/api/system/user/updateUserRole", adminToken, model.UpdateUserRoleRequest{UserID: alice.ID, RoleIDs: []int64{role.ID}})
	require.Equal(t, http.StatusOK, code)

	code, aliceToken := s.login(t, alice.Mobile, "alice-pass")
	require.Equal(t, http.StatusOK, code)

	code, _ = s.call(t, http.MethodPost, "/api/system/dept/queryDeptList?tree=true", aliceToken, nil)
	assert.Equal(t, http.StatusOK, code)

	code, resp = s.call(t, http.MethodPost, "/api/system/dept/deleteDept", aliceToken, model.IDRequest{ID: 1})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "forbidden", resp.Message)

	code, resp = s.call(t, http.MethodGet, "/api/system/user/queryUserMenu", aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	var menu model.UserMenuResponse
	decodeData(t, resp, &menu)
	assert.ElementsMatch(t, []string{"/api/system/dept/queryDeptList", "/api/system/user/queryUserMenu"}, menu.BtnMenu)

	code, _ = s.call(t, http.MethodPost, "/api/system/dept/queryDeptList", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}
