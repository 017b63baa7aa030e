package store

import (
	"concentrate-quality/app/server/models"
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB 打开一个每个测试独立的内存 sqlite 数据库并建表
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, New(db).CreateSchema(context.Background()))
	return db
}

func sample(name string, v float64) models.QualityRecord {
	return models.QualityRecord{Name: name, Iron: v, Silicon: v / 2, Aluminum: 1.5, Calcium: 0.25, Sulfur: 0.01}
}

func names(records []models.QualityRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Name)
	}
	sort.Strings(out)
	return out
}

func TestCreateSchema_Idempotent(t *testing.T) {
	db := openTestDB(t)
	s := New(db)

	require.NoError(t, s.CreateSchema(context.Background()))
	assert.True(t, db.Migrator().HasTable(&models.User{}))
	assert.True(t, db.Migrator().HasTable(&models.QualityRecord{}))
}

func TestInsertUser_AndFind(t *testing.T) {
	ctx := context.Background()
	s := New(openTestDB(t))

	user, err := s.InsertUser(ctx, "alice", "hash-1")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.True(t, user.IsActive)

	found, err := s.FindUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "hash-1", found.HashedPassword)
	assert.True(t, found.IsActive)
}

func TestFindUserByUsername_Absent(t *testing.T) {
	s := New(openTestDB(t))

	found, err := s.FindUserByUsername(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestInsertUser_Duplicate(t *testing.T) {
	ctx := context.Background()
	s := New(openTestDB(t))

	first, err := s.InsertUser(ctx, "alice", "hash-1")
	require.NoError(t, err)

	_, err = s.InsertUser(ctx, "alice", "hash-2")
	require.ErrorIs(t, err, ErrDuplicateUser)

	found, err := s.FindUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, first.ID, found.ID)
	assert.Equal(t, "hash-1", found.HashedPassword)
}

func TestInsertUser_PostgresUniqueViolation(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	_, err = New(db).InsertUser(context.Background(), "alice", "hash")
	assert.ErrorIs(t, err, ErrDuplicateUser)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertUser_PostgresOtherError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnError(errors.New("db down"))
	mock.ExpectRollback()

	_, err = New(db).InsertUser(context.Background(), "alice", "hash")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateUser)
	assert.Contains(t, err.Error(), "db down")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertMonthRecords_AppendAndQuery(t *testing.T) {
	ctx := context.Background()
	s := New(openTestDB(t))

	user, err := s.InsertUser(ctx, "alice", "h")
	require.NoError(t, err)

	require.NoError(t, s.UpsertMonthRecords(ctx, 5, 2024, user.ID, []models.QualityRecord{sample("a", 60), sample("b", 62)}, false))
	require.NoError(t, s.UpsertMonthRecords(ctx, 5, 2024, user.ID, []models.QualityRecord{sample("c", 64)}, false))
	require.NoError(t, s.UpsertMonthRecords(ctx, 6, 2024, user.ID, []models.QualityRecord{sample("june", 64)}, false))

	got, err := s.QueryMonthRecords(ctx, 5, 2024, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, names(got))
	for _, r := range got {
		assert.Equal(t, 5, r.Month)
		assert.Equal(t, 2024, r.Year)
		assert.Equal(t, user.ID, r.CreatedBy)
		assert.False(t, r.CreatedAt.IsZero())
	}
}

func TestQueryMonthRecords_Empty(t *testing.T) {
	s := New(openTestDB(t))

	got, err := s.QueryMonthRecords(context.Background(), 1, 2030, 1)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestQueryMonthRecords_ScopedByUser(t *testing.T) {
	ctx := context.Background()
	s := New(openTestDB(t))

	alice, err := s.InsertUser(ctx, "alice", "h")
	require.NoError(t, err)
	bob, err := s.InsertUser(ctx, "bob", "h")
	require.NoError(t, err)

	require.NoError(t, s.UpsertMonthRecords(ctx, 5, 2024, alice.ID, []models.QualityRecord{sample("a", 60)}, false))
	require.NoError(t, s.UpsertMonthRecords(ctx, 5, 2024, bob.ID, []models.QualityRecord{sample("b", 61)}, false))

	got, err := s.QueryMonthRecords(ctx, 5, 2024, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, names(got))
}

func TestUpsertMonthRecords_Replace(t *testing.T) {
	ctx := context.Background()
	s := New(openTestDB(t))

	user, err := s.InsertUser(ctx, "alice", "h")
	require.NoError(t, err)

	require.NoError(t, s.UpsertMonthRecords(ctx, 5, 2024, user.ID, []models.QualityRecord{sample("old-1", 60), sample("old-2", 61)}, false))
	require.NoError(t, s.UpsertMonthRecords(ctx, 4, 2024, user.ID, []models.QualityRecord{sample("april", 61)}, false))
	require.NoError(t, s.UpsertMonthRecords(ctx, 5, 2024, user.ID, []models.QualityRecord{sample("new-1", 63), sample("new-2", 64), sample("new-3", 65)}, true))

	got, err := s.QueryMonthRecords(ctx, 5, 2024, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"new-1", "new-2", "new-3"}, names(got))

	april, err := s.QueryMonthRecords(ctx, 4, 2024, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"april"}, names(april))
}

func TestUpsertMonthRecords_ReplaceIsPeriodWide(t *testing.T) {
	ctx := context.Background()
	s := New(openTestDB(t))

	alice, err := s.InsertUser(ctx, "alice", "h")
	require.NoError(t, err)
	bob, err := s.InsertUser(ctx, "bob", "h")
	require.NoError(t, err)

	require.NoError(t, s.UpsertMonthRecords(ctx, 5, 2024, bob.ID, []models.QualityRecord{sample("bob", 60)}, false))
	require.NoError(t, s.UpsertMonthRecords(ctx, 5, 2024, alice.ID, []models.QualityRecord{sample("alice", 61)}, true))

	got, err := s.QueryMonthRecords(ctx, 5, 2024, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUpsertMonthRecords_ReplaceScopedByUser(t *testing.T) {
	ctx := context.Background()
	s := New(openTestDB(t), WithUserScopedReplace(true))

	alice, err := s.InsertUser(ctx, "alice", "h")
	require.NoError(t, err)
	bob, err := s.InsertUser(ctx, "bob", "h")
	require.NoError(t, err)

	require.NoError(t, s.UpsertMonthRecords(ctx, 5, 2024, bob.ID, []models.QualityRecord{sample("bob", 60)}, false))
	require.NoError(t, s.UpsertMonthRecords(ctx, 5, 2024, alice.ID, []models.QualityRecord{sample("alice-old", 61)}, false))
	require.NoError(t, s.UpsertMonthRecords(ctx, 5, 2024, alice.ID, []models.QualityRecord{sample("alice-new", 62)}, true))

	bobs, err := s.QueryMonthRecords(ctx, 5, 2024, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, names(bobs))

	alices, err := s.QueryMonthRecords(ctx, 5, 2024, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice-new"}, names(alices))
}

func TestUpsertMonthRecords_ReplaceWithNothing(t *testing.T) {
	ctx := context.Background()
	s := New(openTestDB(t))

	user, err := s.InsertUser(ctx, "alice", "h")
	require.NoError(t, err)

	require.NoError(t, s.UpsertMonthRecords(ctx, 5, 2024, user.ID, []models.QualityRecord{sample("old", 60)}, false))
	require.NoError(t, s.UpsertMonthRecords(ctx, 5, 2024, user.ID, nil, true))

	got, err := s.QueryMonthRecords(ctx, 5, 2024, user.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUpsertMonthRecords_FailureKeepsOldSet(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	s := New(db)

	// 在插入记录前注入错误，模拟事务中途失败
	var failInsert atomic.Bool
	errBoom := errors.New("boom")
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_insert", func(tx *gorm.DB) {
		if failInsert.Load() && tx.Statement.Table == (models.QualityRecord{}).TableName() {
			_ = tx.AddError(errBoom)
		}
	}))

	user, err := s.InsertUser(ctx, "alice", "h")
	require.NoError(t, err)
	require.NoError(t, s.UpsertMonthRecords(ctx, 5, 2024, user.ID, []models.QualityRecord{sample("old-1", 60), sample("old-2", 61)}, false))

	failInsert.Store(true)
	err = s.UpsertMonthRecords(ctx, 5, 2024, user.ID, []models.QualityRecord{sample("new-1", 62)}, true)
	require.ErrorIs(t, err, errBoom)
	failInsert.Store(false)

	got, err := s.QueryMonthRecords(ctx, 5, 2024, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"old-1", "old-2"}, names(got))
}
