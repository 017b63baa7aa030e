package auth

import (
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

type Hasher struct {
	params *argon2id.Params
}

// NewHasher 使用给定参数创建密码哈希器， nil 表示使用 argon2id.DefaultParams
func NewHasher(params *argon2id.Params) *Hasher {
	if params == nil {
		params = argon2id.DefaultParams
	}
	return &Hasher{params: params}
}

func (h *Hasher) Hash(password string) (string, error) {
	hash, err := argon2id.CreateHash(password, h.params)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

// Verify 校验密码，任何格式错误都视为不匹配
func (h *Hasher) Verify(password, hash string) bool {
	switch {
	case strings.HasPrefix(hash, "$argon2id$"):
		// argon2 在轮数或并行度为 0 时会 panic ，先检查参数
		params, _, _, err := argon2id.DecodeHash(hash)
		if err != nil || params.Iterations < 1 || params.Parallelism < 1 {
			return false
		}
		match, err := argon2id.ComparePasswordAndHash(password, hash)
		return err == nil && match
	case strings.HasPrefix(hash, "$2a$"), strings.HasPrefix(hash, "$2b$"), strings.HasPrefix(hash, "$2y$"):
		// 旧系统留下的 bcrypt 哈希
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	default:
		return false
	}
}
