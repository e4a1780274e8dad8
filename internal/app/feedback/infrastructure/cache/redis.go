package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"smartfeedback/internal/app/feedback/entity"
	"smartfeedback/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	serviceName      = "feedback-service"
	feedbackCacheKey = "feedback:all"
)

// RedisCache кеширует отсортированный список отзывов
// Инвалидируется при каждой успешной вставке нового отзыва
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(addr, password string, db int, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

// NewRedisCacheWithClient оборачивает готовый клиент (для тестов с miniredis)
func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get возвращает закешированный список или nil при промахе
func (r *RedisCache) Get(ctx context.Context) ([]entity.Feedback, error) {
	data, err := r.client.Get(ctx, feedbackCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			metrics.RecordCacheMiss(serviceName, "feedback")
			return nil, nil
		}
		metrics.RecordRedisError(serviceName, "get")
		return nil, fmt.Errorf("failed to get feedback from cache: %w", err)
	}

	var feedbacks []entity.Feedback
	if err := json.Unmarshal(data, &feedbacks); err != nil {
		metrics.RecordRedisError(serviceName, "get")
		return nil, fmt.Errorf("failed to unmarshal cached feedback: %w", err)
	}

	metrics.RecordCacheHit(serviceName, "feedback")
	return feedbacks, nil
}

func (r *RedisCache) Set(ctx context.Context, feedbacks []entity.Feedback) error {
	data, err := json.Marshal(feedbacks)
	if err != nil {
		return fmt.Errorf("failed to marshal feedback: %w", err)
	}

	if err := r.client.Set(ctx, feedbackCacheKey, data, r.ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, "set")
		return fmt.Errorf("failed to set feedback in cache: %w", err)
	}

	return nil
}

func (r *RedisCache) Invalidate(ctx context.Context) error {
	if err := r.client.Del(ctx, feedbackCacheKey).Err(); err != nil {
		metrics.RecordRedisError(serviceName, "del")
		return fmt.Errorf("failed to invalidate feedback cache: %w", err)
	}
	return nil
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
