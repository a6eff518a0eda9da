package auth

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/fisker/zadmin-backend/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "zadmin"

// 令牌校验失败的原因，均为认证错误
var (
	ErrTokenMalformed        = model.NewAuthenticationError("token malformed")
	ErrTokenSignatureInvalid = model.NewAuthenticationError("token signature invalid")
	ErrTokenExpired          = model.NewAuthenticationError("token expired")
)

// ErrSigning 令牌序列化或签名失败
var ErrSigning = errors.New("token signing failed")

// Claims 令牌载荷：身份与签发时刻的权限快照
type Claims struct {
	UserID      int64    `json:"userId"`
	UserName    string   `json:"userName"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// HasPermission 精确匹配接口路径
func (c *Claims) HasPermission(path string) bool {
	i := sort.SearchStrings(c.Permissions, path)
	return i < len(c.Permissions) && c.Permissions[i] == path
}

// TokenService 签发与校验 HS256 令牌
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService 创建令牌服务
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock 替换时钟（测试使用）
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// Create 签发令牌，权限集合去重排序后写入
func (s *TokenService) Create(userID int64, userName string, permissions []string) (string, error) {
	token, _, err := s.Issue(userID, userName, permissions)
	return token, err
}

// Issue 签发令牌并返回写入令牌的载荷，过期时间以载荷为准
func (s *TokenService) Issue(userID int64, userName string, permissions []string) (string, *Claims, error) {
	now := s.now()
	claims := &Claims{
		UserID:      userID,
		UserName:    userName,
		Permissions: normalize(permissions),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrSigning, err)
	}
	return signed, claims, nil
}

// Verify 校验令牌并返回载荷
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignatureInvalid
		default:
			return nil, ErrTokenMalformed
		}
	}
	if !token.Valid {
		return nil, ErrTokenMalformed
	}

	// 旧令牌或手工构造的令牌可能未排序
	claims.Permissions = normalize(claims.Permissions)
	return claims, nil
}

func normalize(permissions []string) []string {
	set := make(map[string]struct{}, len(permissions))
	out := make([]string, 0, len(permissions))
	for _, p := range permissions {
		if p == "" {
			continue
		}
		if _, ok := set[p]; ok {
			continue
		}
		set[p] = struct{}{}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
