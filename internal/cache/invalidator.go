package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	recordKeyTemplateConstant = "%spost:%d"
	routesKeySuffixConstant   = "rewrite_rules"
)

// Invalidator drops cached record lookups and the cached routing table.
// Both operations are idempotent; callers treat failures as advisory.
type Invalidator interface {
	InvalidateRecord(executionContext context.Context, recordIdentifier int64) error
	InvalidateRoutes(executionContext context.Context) error
}

// RecordKey builds the object-cache key for a single record.
func RecordKey(keyPrefix string, recordIdentifier int64) string {
	return fmt.Sprintf(recordKeyTemplateConstant, keyPrefix, recordIdentifier)
}

// RoutesKey builds the cache key holding the rewrite-route table.
func RoutesKey(keyPrefix string) string {
	return keyPrefix + routesKeySuffixConstant
}

// RedisInvalidator deletes cache keys from a Redis object-cache backend.
type RedisInvalidator struct {
	redisClient *redis.Client
	keyPrefix   string
}

// NewRedisInvalidator constructs an invalidator connected per the configuration.
func NewRedisInvalidator(configuration Configuration) *RedisInvalidator {
	sanitized := configuration.Sanitize()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     sanitized.RedisAddress,
		Password: sanitized.RedisPassword,
		DB:       sanitized.RedisDatabase,
	})

	return &RedisInvalidator{redisClient: redisClient, keyPrefix: sanitized.KeyPrefix}
}

// InvalidateRecord deletes the cached lookup for a single record.
func (invalidator *RedisInvalidator) InvalidateRecord(executionContext context.Context, recordIdentifier int64) error {
	return invalidator.redisClient.Del(executionContext, RecordKey(invalidator.keyPrefix, recordIdentifier)).Err()
}

// InvalidateRoutes deletes the cached rewrite-route table.
func (invalidator *RedisInvalidator) InvalidateRoutes(executionContext context.Context) error {
	return invalidator.redisClient.Del(executionContext, RoutesKey(invalidator.keyPrefix)).Err()
}

// Close releases the underlying Redis connection.
func (invalidator *RedisInvalidator) Close() error {
	return invalidator.redisClient.Close()
}

// NoopInvalidator satisfies Invalidator for installs without a cache backend.
type NoopInvalidator struct{}

// InvalidateRecord does nothing.
func (NoopInvalidator) InvalidateRecord(context.Context, int64) error {
	return nil
}

// InvalidateRoutes does nothing.
func (NoopInvalidator) InvalidateRoutes(context.Context) error {
	return nil
}
