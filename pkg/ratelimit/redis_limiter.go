package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// LimitConfig configura o comportamento do limitador
type LimitConfig struct {
	Key    string        // Chave única para identificar o limite
	Limit  int           // Número máximo de requisições
	Period time.Duration // Período de tempo para o limite
}

// RedisLimiter implementa rate limiting de janela fixa usando Redis.
// O contador é compartilhado entre instâncias do serviço.
type RedisLimiter struct {
	RedisClient *redis.Client
	logger      *zap.Logger
	tracer      trace.Tracer
}

// NewRedisLimiter cria um novo limitador baseado em Redis
func NewRedisLimiter(redisClient *redis.Client, logger *zap.Logger) *RedisLimiter {
	return &RedisLimiter{
		RedisClient: redisClient,
		logger:      logger,
		tracer:      otel.GetTracerProvider().Tracer("fleetwise.ratelimit"),
	}
}

// script incrementa o contador da janela e define a expiração na primeira
// requisição, de forma atômica.
var script = redis.NewScript(`
    local key = KEYS[1]
    local limit = tonumber(ARGV[1])
    local expireAt = tonumber(ARGV[2])

    local count = redis.call('INCR', key)
    if count == 1 then
        redis.call('EXPIREAT', key, expireAt)
    end

    return {count, limit - count}
`)

// Allow verifica se a requisição é permitida dentro do limite de taxa.
// Retorna: permitido, limite, restante, tempo até o reset, erro.
// Em caso de falha do Redis a requisição é permitida (fail-open).
func (r *RedisLimiter) Allow(ctx context.Context, config LimitConfig) (bool, int, int, time.Duration, error) {
	ctx, span := r.tracer.Start(ctx, "RedisLimiter.Allow",
		trace.WithAttributes(
			attribute.String("ratelimit.key", config.Key),
			attribute.Int("ratelimit.limit", config.Limit),
		),
	)
	defer span.End()

	if config.Limit <= 0 {
		span.SetStatus(codes.Error, "invalid limit")
		return true, 0, 0, 0, errors.New("limite deve ser maior que zero")
	}
	if config.Period <= 0 {
		span.SetStatus(codes.Error, "invalid period")
		return true, 0, 0, 0, errors.New("período deve ser maior que zero")
	}

	key := fmt.Sprintf("ratelimit:%s", config.Key)
	now := time.Now().Unix()
	periodSeconds := int64(config.Period.Seconds())
	expireAt := now - (now % periodSeconds) + periodSeconds
	resetAfter := time.Duration(expireAt-now) * time.Second

	result, err := script.Run(ctx, r.RedisClient, []string{key}, config.Limit, expireAt).Result()
	if err != nil {
		r.logger.Error("erro ao executar script de rate limit", zap.Error(err))
		span.SetStatus(codes.Error, "redis script error")
		return true, config.Limit, config.Limit, resetAfter, err
	}

	resultArray, ok := result.([]interface{})
	if !ok || len(resultArray) != 2 {
		r.logger.Error("resultado inesperado do script de rate limit", zap.Any("result", result))
		span.SetStatus(codes.Error, "unexpected result")
		return true, config.Limit, config.Limit, resetAfter, errors.New("resultado inválido do Redis")
	}

	count, _ := strconv.Atoi(fmt.Sprintf("%v", resultArray[0]))
	remaining, _ := strconv.Atoi(fmt.Sprintf("%v", resultArray[1]))
	if remaining < 0 {
		remaining = 0
	}

	allowed := count <= config.Limit

	span.SetAttributes(
		attribute.Int("ratelimit.count", count),
		attribute.Bool("ratelimit.allowed", allowed),
	)
	if !allowed {
		span.SetStatus(codes.Error, "rate limit exceeded")
	} else {
		span.SetStatus(codes.Ok, "")
	}

	return allowed, config.Limit, remaining, resetAfter, nil
}
