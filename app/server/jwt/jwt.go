package jwt

import (
	"concentrate-quality/app/server/constants"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrExpired          = errors.New("token is expired")
	ErrMalformedToken   = errors.New("token is malformed")
)

type JWT struct {
	key    []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration // 调用方未指定有效期时使用
}

func New(key string, algorithm string) (*JWT, error) {
	if len(key) == 0 {
		return nil, errors.New("key is empty")
	}

	// 只支持 HMAC 系列算法
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm: %s", algorithm)
	}

	return &JWT{
		key:    []byte(key),
		method: method,
		ttl:    constants.DefaultTokenTTL,
	}, nil
}

// Issue 签发携带 subject 的令牌， ttl 为 0 时使用默认有效期
func (j *JWT) Issue(subject string, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = j.ttl
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}

	// 签名并返回
	signed, err := jwt.NewWithClaims(j.method, claims).SignedString(j.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate 校验签名与有效期，返回令牌中的 subject
func (j *JWT) Validate(tokenString string) (string, error) {
	if len(tokenString) == 0 {
		return "", ErrMalformedToken
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return j.key, nil
	}, jwt.WithValidMethods([]string{j.method.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", fmt.Errorf("%w: %w", ErrExpired, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", fmt.Errorf("%w: %w", ErrInvalidSignature, err)
		default:
			return "", fmt.Errorf("%w: %w", ErrMalformedToken, err)
		}
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrMalformedToken)
	}

	return claims.Subject, nil
}
