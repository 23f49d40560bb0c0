// Package service はビジネスロジックを担当します
// 認証・ルーム管理・デバイス/製品管理などの処理を提供します
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"devicehub-api/internal/idgen"
	"devicehub-api/internal/models"
	"devicehub-api/internal/repo"
)

// Identity は認証済みユーザーの識別情報
type Identity struct {
	UserID string // ユーザーID
	Role   string // ロール (user / admin)
}

// IsAdmin は管理者かどうかを返します
func (i Identity) IsAdmin() bool { return i.Role == models.RoleAdmin }

// AuthService はユーザー登録・ログイン・トークン検証を担当します
type AuthService struct {
	users  repo.UserRepo
	tokens repo.TokenCache
	secret []byte
	expiry time.Duration
}

// NewAuthService は新しいAuthServiceを作成します
// secretはJWTの署名鍵で、空にはできません
func NewAuthService(users repo.UserRepo, tokens repo.TokenCache, secret string, expiry time.Duration) (*AuthService, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret must not be empty")
	}
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &AuthService{users: users, tokens: tokens, secret: []byte(secret), expiry: expiry}, nil
}

// Register は新規ユーザーを登録します
// パスワードはbcryptでハッシュしてから保存します
func (s *AuthService) Register(ctx context.Context, email, name, password string) (models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:       idgen.NewULID(),
		Email:    email,
		Name:     name,
		Password: string(hashed),
		Role:     models.RoleUser,
	}
	if err := s.users.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}
	return user, nil
}

// Login はメールアドレスとパスワードを検証し、アクセストークンを発行します
// 発行したトークンはRedisにもキャッシュします
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.User{}, "", ErrBadCredentials
		}
		return models.User{}, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.User{}, "", ErrBadCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return models.User{}, "", err
	}

	// キャッシュ失敗はログインを妨げない
	if err := s.tokens.CacheToken(ctx, user.Email, token); err != nil {
		logrus.WithError(err).Warn("failed to cache access token")
	}
	return user, token, nil
}

// issueToken はユーザーのJWT (HS256) を発行します
func (s *AuthService) issueToken(user models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.expiry).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify はAuthorizationヘッダー形式の資格情報を検証し、識別情報を返します
// 形式が不正・署名不一致・期限切れの場合はErrInvalidTokenを返します
func (s *AuthService) Verify(ctx context.Context, credentialHeader string) (Identity, error) {
	tokenStr, err := bearerToken(credentialHeader)
	if err != nil {
		return Identity{}, err
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: sub, Role: role}, nil
}

// GetUser はIDでユーザーを取得します
func (s *AuthService) GetUser(ctx context.Context, userID string) (models.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// ListUsers はユーザー一覧を取得します（管理者向け）
func (s *AuthService) ListUsers(ctx context.Context, page, perPage int) ([]models.User, error) {
	return s.users.ListUsers(ctx, page, perPage)
}

// bearerToken は "Bearer <token>" 形式のヘッダーからトークンを取り出します
func bearerToken(header string) (string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", ErrInvalidToken
	}
	return strings.TrimSpace(parts[1]), nil
}
