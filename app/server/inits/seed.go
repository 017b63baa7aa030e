package inits

import (
	"concentrate-quality/app/server/models"
	"concentrate-quality/app/server/store"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
)

//go:embed initial_users.json
var defaultUsers []byte

type initialUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserInserter interface {
	InsertUser(ctx context.Context, username, hashedPassword string) (*models.User, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
}

// SeedUsers 写入默认用户，已存在的用户跳过；
// file 为空时使用内置列表，列表格式错误只记录日志
func SeedUsers(ctx context.Context, l *zap.Logger, users UserInserter, hasher PasswordHasher, file string) error {
	raw := defaultUsers
	if file != "" {
		var err error
		if raw, err = os.ReadFile(file); err != nil {
			return fmt.Errorf("failed to read initial users: %w", err)
		}
	}

	var list []initialUser
	if err := json.Unmarshal(raw, &list); err != nil {
		l.Error("failed to parse initial users", zap.String("file", file), zap.Error(err))
		return nil
	}

	created := 0
	for _, u := range list {
		if u.Username == "" {
			l.Warn("skipping initial user without username")
			continue
		}

		hash, err := hasher.Hash(u.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password for %q: %w", u.Username, err)
		}

		if _, err = users.InsertUser(ctx, u.Username, hash); err != nil {
			if errors.Is(err, store.ErrDuplicateUser) {
				// 已经存在
				continue
			}
			return fmt.Errorf("failed to create initial user %q: %w", u.Username, err)
		}
		created++
	}

	l.Info("initial users ensured", zap.Int("created", created), zap.Int("total", len(list)))
	return nil
}
