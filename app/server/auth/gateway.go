package auth

import (
	"concentrate-quality/app/server/models"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrWrongCredentials         = errors.New("incorrect username or password")
	ErrMissingOrMalformedHeader = errors.New("missing or malformed authorization header")
	ErrInvalidCredentials       = errors.New("could not validate credentials")
)

type UserFinder interface {
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type PasswordVerifier interface {
	Verify(password, hash string) bool
}

type TokenService interface {
	Issue(subject string, ttl time.Duration) (string, error)
	Validate(token string) (string, error)
}

type Gateway struct {
	users     UserFinder
	passwords PasswordVerifier
	tokens    TokenService
	ttl       time.Duration // 签发令牌时显式传入的有效期
}

func NewGateway(users UserFinder, passwords PasswordVerifier, tokens TokenService, ttl time.Duration) *Gateway {
	return &Gateway{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
		ttl:       ttl,
	}
}

// Login 校验用户名与密码，成功后签发访问令牌
func (g *Gateway) Login(ctx context.Context, username, password string) (string, error) {
	user, err := g.users.FindUserByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if user == nil || !g.passwords.Verify(password, user.HashedPassword) {
		return "", ErrWrongCredentials
	}

	token, err := g.tokens.Issue(user.Username, g.ttl)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	return token, nil
}

// AuthenticateRequest 从 Authorization 头中解析出当前用户
func (g *Gateway) AuthenticateRequest(ctx context.Context, authHeader string) (*models.User, error) {
	// 提取 token
	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return nil, ErrMissingOrMalformedHeader
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingOrMalformedHeader
	}

	// 验证 token
	username, err := g.tokens.Validate(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}

	// 令牌中的用户需要仍然存在
	user, err := g.users.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %q not found", ErrInvalidCredentials, username)
	}

	return user, nil
}
