package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9" // Redis OpenTelemetry 钩子
	"github.com/redis/go-redis/v9"

	"resume-parser-go/internal/config"
	"resume-parser-go/internal/constants"
	"resume-parser-go/internal/types"
)

// defaultRecordTTL 未配置时解析结果的缓存时间
const defaultRecordTTL = 7 * 24 * time.Hour

// Redis 解析结果缓存，键由后端名和文件 MD5 组成
type Redis struct {
	Client    *redis.Client
	recordTTL time.Duration
}

// NewRedisAdapter 创建 Redis 连接并注册追踪钩子
func NewRedisAdapter(cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,

		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
		MaxRetries:   cfg.MaxRetries,
	})

	// 记录所有 Redis 操作的 span
	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("failed to instrument Redis with OpenTelemetry: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	return NewRedisWithClient(client, time.Duration(cfg.RecordTTLHours)*time.Hour), nil
}

// NewRedisWithClient 使用已有客户端，ttl 不大于 0 时使用默认值
func NewRedisWithClient(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = defaultRecordTTL
	}
	return &Redis{Client: client, recordTTL: ttl}
}

// RecordKey 格式: app:resume:record:{backend}:{md5}
func RecordKey(backend, md5Hex string) string {
	return fmt.Sprintf(constants.KeyResumeRecord, backend, md5Hex)
}

// GetRecord 实现 processor.RecordCache；未命中时返回 false 且 err 为 nil
func (r *Redis) GetRecord(ctx context.Context, backend, md5Hex string) (*types.ResumeRecord, bool, error) {
	val, err := r.Client.Get(ctx, RecordKey(backend, md5Hex)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get record: %w", err)
	}

	rec := types.NewResumeRecord()
	if err := json.Unmarshal([]byte(val), rec); err != nil {
		return nil, false, fmt.Errorf("decode cached record: %w", err)
	}
	return rec.Normalize(), true, nil
}

// SetRecord 实现 processor.RecordCache
func (r *Redis) SetRecord(ctx context.Context, backend, md5Hex string, rec *types.ResumeRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := r.Client.Set(ctx, RecordKey(backend, md5Hex), data, r.recordTTL).Err(); err != nil {
		return fmt.Errorf("redis set record: %w", err)
	}
	return nil
}

// Ping checks the Redis connection
func (r *Redis) Ping(ctx context.Context) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	return r.Client.Ping(ctx).Err()
}

// Close closes the Redis client connection
func (r *Redis) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}
