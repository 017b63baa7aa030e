// Package cache keeps computed summary reports in redis.
package cache

import (
	"concentrate-quality/app/server/constants"
	"concentrate-quality/app/server/types"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Summary 报表缓存。调用方在查询数据库之前读取 Generation ，
// 并把它交给 Set ；期间周期被 InvalidatePeriod 过则不写入
type Summary interface {
	Get(ctx context.Context, month, year int, userID uint) (*types.SummaryResponse, error)
	Generation(ctx context.Context, month, year int) (int64, error)
	Set(ctx context.Context, month, year int, userID uint, generation int64, summary *types.SummaryResponse) error
	InvalidatePeriod(ctx context.Context, month, year int) error
}

// ErrMiss 缓存中没有对应的报表
var ErrMiss = errors.New("cache miss")

type RedisSummary struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSummary(rdb *redis.Client, ttl time.Duration) *RedisSummary {
	if ttl <= 0 {
		ttl = constants.CacheExpireSummary
	}
	return &RedisSummary{rdb: rdb, ttl: ttl}
}

func periodKey(month, year int) string {
	return fmt.Sprintf(constants.CacheKeySummaryPeriod, year, month)
}

func generationKey(month, year int) string {
	return fmt.Sprintf(constants.CacheKeySummaryGeneration, year, month)
}

func userField(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}

func (r *RedisSummary) Get(ctx context.Context, month, year int, userID uint) (*types.SummaryResponse, error) {
	cacheBytes, err := r.rdb.HGet(ctx, periodKey(month, year), userField(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("query summary cache: %w", err)
	}

	var summary types.SummaryResponse
	if err = json.Unmarshal(cacheBytes, &summary); err != nil {
		// 可能是无效的缓存，清理掉
		r.rdb.HDel(ctx, periodKey(month, year), userField(userID))
		return nil, fmt.Errorf("unmarshal cached summary: %w", err)
	}
	return &summary, nil
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readGeneration(ctx context.Context, c getter, key string) (int64, error) {
	gen, err := c.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (r *RedisSummary) Generation(ctx context.Context, month, year int) (int64, error) {
	gen, err := readGeneration(ctx, r.rdb, generationKey(month, year))
	if err != nil {
		return 0, fmt.Errorf("query summary generation: %w", err)
	}
	return gen, nil
}

// Set 只有在周期版本仍为 generation 时写入，否则直接丢弃
func (r *RedisSummary) Set(ctx context.Context, month, year int, userID uint, generation int64, summary *types.SummaryResponse) error {
	cacheBytes, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	key, genKey := periodKey(month, year), generationKey(month, year)
	err = r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx, genKey)
		if err != nil {
			return err
		}
		if current != generation {
			// 计算期间有新的数据写入
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, userField(userID), cacheBytes)
			pipe.Expire(ctx, key, r.ttl)
			return nil
		})
		return err
	}, genKey)
	if err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			// 版本在 WATCH 之后被修改
			return nil
		}
		return fmt.Errorf("store summary cache: %w", err)
	}
	return nil
}

// InvalidatePeriod 替换模式可能删除其他用户的数据，所以整个周期一起失效
func (r *RedisSummary) InvalidatePeriod(ctx context.Context, month, year int) error {
	genKey := generationKey(month, year)
	if _, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, constants.CacheExpireSummaryGeneration)
		pipe.Del(ctx, periodKey(month, year))
		return nil
	}); err != nil {
		return fmt.Errorf("invalidate summary cache: %w", err)
	}
	return nil
}

// Disabled 未配置 redis 时使用，总是未命中
type Disabled struct{}

func (Disabled) Get(context.Context, int, int, uint) (*types.SummaryResponse, error) {
	return nil, ErrMiss
}

func (Disabled) Generation(context.Context, int, int) (int64, error) {
	return 0, nil
}

func (Disabled) Set(context.Context, int, int, uint, int64, *types.SummaryResponse) error {
	return nil
}

func (Disabled) InvalidatePeriod(context.Context, int, int) error {
	return nil
}
