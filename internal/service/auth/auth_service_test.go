package auth

import (
	"context"
	"testing"
	"time"

	"github.com/fisker/zadmin-backend/internal/model"
	"github.com/fisker/zadmin-backend/internal/service/permission"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeDirectory struct {
	users     map[int64]*model.User
	userRoles map[int64][]int64
	roleMenus map[int64][]int64
	menus     []model.Menu
}

func (d *fakeDirectory) FindByID(_ context.Context, id int64) (*model.User, error) {
	return d.users[id], nil
}

func (d *fakeDirectory) FindByMobile(_ context.Context, mobile string) (*model.User, error) {
	for _, u := range d.users {
		if u.Mobile == mobile {
			return u, nil
		}
	}
	return nil, nil
}

func (d *fakeDirectory) FindRoleIDsByUserID(_ context.Context, userID int64) ([]int64, error) {
	return d.userRoles[userID], nil
}

func (d *fakeDirectory) FindMenusByRoleIDs(_ context.Context, roleIDs []int64) ([]model.Menu, error) {
	want := make(map[int64]struct{})
	for _, r := range roleIDs {
		for _, id := range d.roleMenus[r] {
			want[id] = struct{}{}
		}
	}
	return d.filter(want), nil
}

func (d *fakeDirectory) FindAllMenus(_ context.Context) ([]model.Menu, error) {
	return append([]model.Menu(nil), d.menus...), nil
}

func (d *fakeDirectory) FindMenusByIDs(_ context.Context, ids []int64) ([]model.Menu, error) {
	want := make(map[int64]struct{})
	for _, id := range ids {
		want[id] = struct{}{}
	}
	return d.filter(want), nil
}

func (d *fakeDirectory) filter(want map[int64]struct{}) []model.Menu {
	var out []model.Menu
	for _, m := range d.menus {
		if _, ok := want[m.ID]; ok {
			out = append(out, m)
		}
	}
	return out
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newTestAuthService(t *testing.T) (*AuthService, *TokenService) {
	t.Helper()
	pw := hash(t, "123456")
	dir := &fakeDirectory{
		users: map[int64]*model.User{
			1: {ID: 1, Mobile: "18613030001", UserName: "admin", Password: pw, Status: model.StatusEnabled},
			2: {ID: 2, Mobile: "18613030002", UserName: "alice", Password: pw, Status: model.StatusEnabled},
			3: {ID: 3, Mobile: "18613030003", UserName: "bob", Password: pw, Status: model.StatusEnabled},
			4: {ID: 4, Mobile: "18613030004", UserName: "carol", Password: pw, Status: model.StatusDisabled},
		},
		userRoles: map[int64][]int64{
			1: {model.SuperAdminRoleID},
			2: {2},
			4: {2},
		},
		roleMenus: map[int64][]int64{
			2: {11, 12, 13},
		},
		menus: []model.Menu{
			{ID: 10, ParentID: 0, MenuName: "文章", MenuType: model.MenuTypeDirectory, Status: model.StatusEnabled, Sort: 1},
			{ID: 11, ParentID: 10, MenuName: "文章列表", MenuType: model.MenuTypePage, APIURL: "/post/list", Status: model.StatusEnabled, Sort: 1},
			{ID: 12, ParentID: 11, MenuName: "新增", MenuType: model.MenuTypeButton, APIURL: "/post/add", Status: model.StatusEnabled, Sort: 1},
			{ID: 13, ParentID: 11, MenuName: "删除", MenuType: model.MenuTypeButton, APIURL: "/post/delete", Status: model.StatusDisabled, Sort: 2},
			{ID: 20, ParentID: 0, MenuName: "系统", MenuType: model.MenuTypeDirectory, Status: model.StatusEnabled, Sort: 2},
			{ID: 21, ParentID: 20, MenuName: "用户", MenuType: model.MenuTypePage, APIURL: "/system/user/list", Status: model.StatusEnabled, Sort: 1},
		},
	}

	tokens := NewTokenService("secret", time.Hour)
	resolver := permission.NewResolver(dir, dir, false)
	builder := permission.NewMenuTreeBuilder(dir)
	return NewAuthService(dir, dir, resolver, builder, tokens, false), tokens
}

func TestLogin(t *testing.T) {
	svc, tokens := newTestAuthService(t)
	ctx := context.Background()

	t.Run("普通用户登录，令牌携带权限快照", func(t *testing.T) {
		resp, err := svc.Login(ctx, &model.LoginRequest{Mobile: "18613030002", Password: "123456"})
		require.NoError(t, err)

		claims, err := tokens.Verify(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, int64(2), claims.UserID)
		assert.Equal(t, "alice", claims.UserName)
		assert.Equal(t, []string{"/post/add", "/post/list"}, claims.Permissions)
	})

	t.Run("超级管理员获得全部接口", func(t *testing.T) {
		resp, err := svc.Login(ctx, &model.LoginRequest{Mobile: "18613030001", Password: "123456"})
		require.NoError(t, err)

		claims, err := tokens.Verify(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, []string{"/post/add", "/post/delete", "/post/list", "/system/user/list"}, claims.Permissions)
	})

	tests := []struct {
		name    string
		req     model.LoginRequest
		wantErr error
	}{
		{name: "密码错误", req: model.LoginRequest{Mobile: "18613030002", Password: "bad"}, wantErr: ErrInvalidCredentials},
		{name: "用户不存在", req: model.LoginRequest{Mobile: "0", Password: "123456"}, wantErr: ErrInvalidCredentials},
		{name: "没有角色不能登录", req: model.LoginRequest{Mobile: "18613030003", Password: "123456"}, wantErr: ErrNoPermission},
		{name: "用户已停用", req: model.LoginRequest{Mobile: "18613030004", Password: "123456"}, wantErr: ErrUserDisabled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoginExpiresAtMatchesToken(t *testing.T) {
	svc, tokens := newTestAuthService(t)

	// 每次取时间都前进一秒，响应中的过期时间必须来自令牌本身
	clock := time.Unix(1700000000, 0)
	tokens.WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	})

	resp, err := svc.Login(context.Background(), &model.LoginRequest{Mobile: "18613030002", Password: "123456"})
	require.NoError(t, err)

	claims, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, claims.ExpiresAt.Unix(), resp.ExpiresAt.Unix())
}

func TestQueryUserMenu(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	resp, err := svc.QueryUserMenu(ctx, 2, false)
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Name)
	assert.Equal(t, []string{"/post/add", "/post/list"}, resp.BtnMenu)
	require.Len(t, resp.SysMenu, 2)
	assert.Equal(t, int64(10), resp.SysMenu[0].ID)
	assert.Equal(t, int64(11), resp.SysMenu[1].ID)

	nested, err := svc.QueryUserMenu(ctx, 1, true)
	require.NoError(t, err)
	require.Len(t, nested.SysMenu, 2)
	assert.Equal(t, int64(10), nested.SysMenu[0].ID)
	require.Len(t, nested.SysMenu[0].Children, 1)
	assert.Equal(t, int64(11), nested.SysMenu[0].Children[0].ID)
	assert.Len(t, nested.BtnMenu, 4)

	none, err := svc.QueryUserMenu(ctx, 3, false)
	require.NoError(t, err)
	assert.Empty(t, none.SysMenu)
	assert.Empty(t, none.BtnMenu)

	_, err = svc.QueryUserMenu(ctx, 99, false)
	assert.Equal(t, model.KindNotFound, model.KindOf(err))
}
