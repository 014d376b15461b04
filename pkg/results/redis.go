package results

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const redisKey = "duel:results"

// RedisStore keeps results as a capped list of JSON documents
type RedisStore struct {
	rdb     *redis.Client
	maxKept int
}

// NewRedisStore connects to the url and checks the server answers
func NewRedisStore(ctx context.Context, url string, maxKept int) (*RedisStore, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewRedisStoreFromClient(rdb, maxKept), nil
}

// NewRedisStoreFromClient wraps an existing client
func NewRedisStoreFromClient(rdb *redis.Client, maxKept int) *RedisStore {
	if maxKept <= 0 {
		maxKept = defaultMaxKept
	}

	return &RedisStore{rdb: rdb, maxKept: maxKept}
}

// SaveResult pushes the result onto the head of the list and trims the tail
func (s *RedisStore) SaveResult(ctx context.Context, r Result) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.LPush(ctx, redisKey, raw)
	pipe.LTrim(ctx, redisKey, 0, int64(s.maxKept-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save result: %w", err)
	}

	return nil
}

// Recent returns up to limit results, newest first
func (s *RedisStore) Recent(ctx context.Context, limit int) ([]Result, error) {
	limit = normalizeLimit(limit)

	raws, err := s.rdb.LRange(ctx, redisKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}

	out := make([]Result, 0, len(raws))
	for _, raw := range raws {
		var r Result
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return nil, fmt.Errorf("decode result: %w", err)
		}
		out = append(out, r)
	}

	return out, nil
}

// Close closes the client
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
