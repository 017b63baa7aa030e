// Package store persists users and monthly concentrate quality records.
package store

import (
	"concentrate-quality/app/server/models"
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var ErrDuplicateUser = errors.New("user already exists")

// unique_violation
const pgUniqueViolation = "23505"

type Store struct {
	db *gorm.DB

	// 替换模式是否只删除提交用户自己的数据
	// 线上行为是删除整个周期内所有用户的数据
	replaceByUser bool
}

type Option func(*Store)

// WithUserScopedReplace 让替换模式只删除提交用户在该周期的数据
func WithUserScopedReplace(enabled bool) Option {
	return func(s *Store) {
		s.replaceByUser = enabled
	}
}

func New(db *gorm.DB, opts ...Option) *Store {
	s := &Store{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSchema 确保 users 与 concentrate_quality 表存在，可重复执行
func (s *Store) CreateSchema(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.QualityRecord{},
	); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// FindUserByUsername 用户不存在时返回 nil, nil
func (s *Store) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user %q: %w", username, err)
	}
	return &user, nil
}

func (s *Store) InsertUser(ctx context.Context, username, hashedPassword string) (*models.User, error) {
	user := models.User{
		Username:       username,
		HashedPassword: hashedPassword,
		IsActive:       true,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("insert user %q: %w", username, err)
	}
	return &user, nil
}

// UpsertMonthRecords 在同一个事务中写入该周期的记录，
// replace 为真时先删除周期内已有的记录，要么全部写入，要么全部不写入
func (s *Store) UpsertMonthRecords(ctx context.Context, month, year int, userID uint, records []models.QualityRecord, replace bool) error {
	rows := make([]models.QualityRecord, len(records))
	for i, r := range records {
		rows[i] = models.QualityRecord{
			Name:      r.Name,
			Iron:      r.Iron,
			Silicon:   r.Silicon,
			Aluminum:  r.Aluminum,
			Calcium:   r.Calcium,
			Sulfur:    r.Sulfur,
			Month:     month,
			Year:      year,
			CreatedBy: userID,
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if replace {
			del := tx.Where("month = ? AND year = ?", month, year)
			if s.replaceByUser {
				del = del.Where("created_by = ?", userID)
			}
			if err := del.Delete(&models.QualityRecord{}).Error; err != nil {
				return fmt.Errorf("delete records for %02d/%d: %w", month, year, err)
			}
		}

		if len(rows) == 0 {
			return nil
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("insert records for %02d/%d: %w", month, year, err)
		}
		return nil
	})
}

// QueryMonthRecords 返回用户在该周期的记录，不保证顺序
func (s *Store) QueryMonthRecords(ctx context.Context, month, year int, userID uint) ([]models.QualityRecord, error) {
	records := []models.QualityRecord{}
	if err := s.db.WithContext(ctx).
		Where("month = ? AND year = ? AND created_by = ?", month, year, userID).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("query records for %02d/%d: %w", month, year, err)
	}
	return records, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
