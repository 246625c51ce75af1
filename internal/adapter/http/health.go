package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleetwise/fleetwise-api/pkg/cache"
)

// Pinger verifica a conectividade de uma dependência externa
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatusHandler expõe os endpoints de saúde da API
type StatusHandler struct {
	environment string
	db          Pinger
	cache       cache.Cache
	logger      *zap.Logger
}

// NewStatusHandler cria um novo handler de status
func NewStatusHandler(environment string, db Pinger, cacheStore cache.Cache, logger *zap.Logger) *StatusHandler {
	return &StatusHandler{
		environment: environment,
		db:          db,
		cache:       cacheStore,
		logger:      logger,
	}
}

// Root responde a raiz da API com uma mensagem de boas-vindas
func (h *StatusHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sucesso":  true,
		"mensagem": "FleetWise API está funcionando!",
	})
}

// Status confirma que o processo está no ar
func (h *StatusHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "online",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": h.environment,
	})
}

// Readiness verifica as dependências em paralelo antes de declarar a API pronta
func (h *StatusHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	type checkResult struct {
		name string
		err  error
	}

	checks := map[string]func(context.Context) error{}
	if h.db != nil {
		checks["database"] = h.db.Ping
	}
	if h.cache != nil {
		checks["cache"] = h.cache.Ping
	}

	results := make(chan checkResult, len(checks))
	var wg sync.WaitGroup
	for name, check := range checks {
		wg.Add(1)
		go func(name string, check func(context.Context) error) {
			defer wg.Done()
			results <- checkResult{name: name, err: check(ctx)}
		}(name, check)
	}
	wg.Wait()
	close(results)

	status := http.StatusOK
	details := gin.H{}
	for result := range results {
		if result.err != nil {
			h.logger.Warn("Dependência indisponível",
				zap.String("dependency", result.name),
				zap.Error(result.err))
			details[result.name] = "indisponível"
			status = http.StatusServiceUnavailable
		} else {
			details[result.name] = "ok"
		}
	}

	state := "pronto"
	if status != http.StatusOK {
		state = "degradado"
	}

	c.JSON(status, gin.H{
		"status":       state,
		"dependencias": details,
	})
}
