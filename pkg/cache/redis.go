package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// RedisCache implementa a interface Cache usando Redis
type RedisCache struct {
	client *redis.Client
	logger *zap.Logger
	tracer trace.Tracer
}

// NewRedisClient cria e verifica um cliente Redis
func NewRedisClient(opts *redis.Options, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("falha ao conectar ao Redis",
			zap.String("addr", opts.Addr),
			zap.Error(err))
		return nil, err
	}

	logger.Info("conexão com Redis estabelecida",
		zap.String("addr", opts.Addr),
		zap.Int("db", opts.DB))

	return client, nil
}

// NewRedisCache cria uma nova instância de RedisCache
func NewRedisCache(client *redis.Client, logger *zap.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		logger: logger,
		tracer: otel.GetTracerProvider().Tracer("fleetwise.cache.redis"),
	}
}

// Set armazena um valor no cache, serializado como JSON
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	ctx, span := c.tracer.Start(ctx, "RedisCache.Set",
		trace.WithAttributes(attribute.String("cache.key", key)))
	defer span.End()

	data, err := json.Marshal(value)
	if err != nil {
		span.SetStatus(codes.Error, "marshal failure")
		return err
	}

	if err := c.client.Set(ctx, key, data, expiration).Err(); err != nil {
		span.SetStatus(codes.Error, "set failure")
		c.logger.Error("falha ao gravar no cache Redis", zap.String("key", key), zap.Error(err))
		return err
	}

	return nil
}

// Get recupera um valor do cache; retorna false em cache miss
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	ctx, span := c.tracer.Start(ctx, "RedisCache.Get",
		trace.WithAttributes(attribute.String("cache.key", key)))
	defer span.End()

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		span.SetAttributes(attribute.Bool("cache.hit", false))
		return false, nil
	}
	if err != nil {
		span.SetStatus(codes.Error, "get failure")
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		span.SetStatus(codes.Error, "unmarshal failure")
		return true, err
	}

	span.SetAttributes(attribute.Bool("cache.hit", true))
	return true, nil
}

// Delete remove um valor do cache
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// Clear remove todos os valores do cache
func (c *RedisCache) Clear(ctx context.Context) error {
	return c.client.FlushDB(ctx).Err()
}

// Ping verifica se o cache está acessível
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
