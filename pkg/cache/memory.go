package cache

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// HitRatioReporter recebe a taxa de acerto do cache para métricas
type HitRatioReporter interface {
	UpdateCacheHitRatio(cacheType string, ratio float64)
}

// MemoryCache implementa a interface Cache usando armazenamento em memória
type MemoryCache struct {
	cache    *gocache.Cache
	logger   *zap.Logger
	hits     int64
	misses   int64
	reporter HitRatioReporter
}

// NewMemoryCache cria uma nova instância de MemoryCache
func NewMemoryCache(defaultExpiration, cleanupInterval time.Duration, reporter HitRatioReporter, logger *zap.Logger) *MemoryCache {
	return &MemoryCache{
		cache:    gocache.New(defaultExpiration, cleanupInterval),
		logger:   logger,
		reporter: reporter,
	}
}

// Set armazena um valor no cache
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.cache.Set(key, value, expiration)
	return nil
}

// Get recupera um valor do cache. Estruturas passam por JSON como
// intermediário para desacoplar o valor armazenado do destino.
func (c *MemoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	value, found := c.cache.Get(key)
	if !found {
		atomic.AddInt64(&c.misses, 1)
		c.reportHitRatio()
		return false, nil
	}

	atomic.AddInt64(&c.hits, 1)
	c.reportHitRatio()

	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Error("falha ao serializar do cache", zap.Error(err))
		return true, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Error("falha ao deserializar para o destino", zap.Error(err))
		return true, err
	}

	return true, nil
}

// Delete remove um valor do cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear remove todos os valores do cache
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.cache.Flush()
	return nil
}

// Ping verifica se o cache está funcionando
func (c *MemoryCache) Ping(ctx context.Context) error {
	return nil // O cache em memória está sempre disponível
}

func (c *MemoryCache) reportHitRatio() {
	if c.reporter == nil {
		return
	}

	hits := atomic.LoadInt64(&c.hits)
	total := hits + atomic.LoadInt64(&c.misses)
	if total > 0 {
		c.reporter.UpdateCacheHitRatio("memory", float64(hits)/float64(total))
	}
}
