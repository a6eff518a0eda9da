package auth

import (
	"context"
	"fmt"

	"github.com/fisker/zadmin-backend/internal/model"
	"github.com/fisker/zadmin-backend/internal/service/permission"
	"github.com/fisker/zadmin-backend/pkg/logger"
	"github.com/fisker/zadmin-backend/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = model.NewAuthenticationError("invalid mobile or password")
	ErrUserDisabled       = model.NewBusinessError("user is disabled")
	ErrNoPermission       = model.NewBusinessError("user has no role or menu assigned, cannot log in")
)

// UserStore 用户数据访问
type UserStore interface {
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByMobile(ctx context.Context, mobile string) (*model.User, error)
}

type AuthService struct {
	users           UserStore
	menus           permission.MenuStore
	resolver        *permission.Resolver
	treeBuilder     *permission.MenuTreeBuilder
	tokens          *TokenService
	includeDisabled bool
}

// NewAuthService 创建认证服务
func NewAuthService(
	users UserStore,
	menus permission.MenuStore,
	resolver *permission.Resolver,
	treeBuilder *permission.MenuTreeBuilder,
	tokens *TokenService,
	includeDisabled bool,
) *AuthService {
	return &AuthService{
		users:           users,
		menus:           menus,
		resolver:        resolver,
		treeBuilder:     treeBuilder,
		tokens:          tokens,
		includeDisabled: includeDisabled,
	}
}

// Login 校验密码，计算权限快照并签发令牌
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.users.FindByMobile(ctx, req.Mobile)
	if err != nil {
		return nil, fmt.Errorf("find user by mobile: %w", err)
	}
	if user == nil {
		metrics.LoginsTotal.WithLabelValues("failed").Inc()
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		metrics.LoginsTotal.WithLabelValues("failed").Inc()
		logger.Warn("login rejected: wrong password", zap.Int64("userId", user.ID))
		return nil, ErrInvalidCredentials
	}
	if user.Status != model.StatusEnabled {
		metrics.LoginsTotal.WithLabelValues("failed").Inc()
		return nil, ErrUserDisabled
	}

	permissions, err := s.resolver.Resolve(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(permissions) == 0 {
		metrics.LoginsTotal.WithLabelValues("failed").Inc()
		logger.Warn("login rejected: empty permission set", zap.Int64("userId", user.ID))
		return nil, ErrNoPermission
	}

	token, claims, err := s.tokens.Issue(user.ID, user.UserName, permissions)
	if err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.PermissionSetSize.Observe(float64(len(permissions)))
	logger.Info("user logged in",
		zap.Int64("userId", user.ID),
		zap.String("userName", user.UserName),
		zap.Int("permissions", len(permissions)))

	return &model.LoginResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// QueryUserMenu 当前用户的菜单树与按钮权限
func (s *AuthService) QueryUserMenu(ctx context.Context, userID int64, nested bool) (*model.UserMenuResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user %d: %w", userID, err)
	}
	if user == nil {
		return nil, model.NewNotFoundError("user not found")
	}

	roleIDs, err := s.resolver.RoleIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find roles for user %d: %w", userID, err)
	}

	superAdmin := permission.IsSuperAdmin(roleIDs)
	var records []model.Menu
	if !superAdmin && len(roleIDs) > 0 {
		records, err = s.menus.FindMenusByRoleIDs(ctx, roleIDs)
		if err != nil {
			return nil, fmt.Errorf("find menus for roles: %w", err)
		}
		if !s.includeDisabled {
			records = enabledOnly(records)
		}
	}

	tree, err := s.treeBuilder.Build(ctx, records, superAdmin)
	if err != nil {
		return nil, err
	}

	menus := tree.Menus
	if nested {
		menus = permission.BuildTree(menus)
	}
	return &model.UserMenuResponse{
		SysMenu: menus,
		BtnMenu: tree.PermissionURLs,
		Name:    user.UserName,
	}, nil
}

func enabledOnly(menus []model.Menu) []model.Menu {
	out := menus[:0:0]
	for _, m := range menus {
		if m.IsEnabled() {
			out = append(out, m)
		}
	}
	return out
}

// HashPassword 生成 bcrypt 密码
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
