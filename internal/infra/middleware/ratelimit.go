package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleetwise/fleetwise-api/internal/infra/metrics"
	"github.com/fleetwise/fleetwise-api/pkg/ratelimit"
)

// RateLimitMiddleware aplica limites de taxa por IP. O limite de login
// é mais restrito para frear credential stuffing.
type RateLimitMiddleware struct {
	limiter *ratelimit.RedisLimiter
	metrics *metrics.APIMetrics
	logger  *zap.Logger

	ipLimit     int
	ipPeriod    time.Duration
	loginLimit  int
	loginPeriod time.Duration
}

// NewRateLimitMiddleware cria um novo middleware de rate limiting
func NewRateLimitMiddleware(limiter *ratelimit.RedisLimiter, apiMetrics *metrics.APIMetrics, ipLimit int, ipPeriod time.Duration, loginLimit int, loginPeriod time.Duration, logger *zap.Logger) *RateLimitMiddleware {
	if ipLimit <= 0 {
		ipLimit = 100
	}
	if ipPeriod <= 0 {
		ipPeriod = time.Minute
	}
	if loginLimit <= 0 {
		loginLimit = 5
	}
	if loginPeriod <= 0 {
		loginPeriod = 10 * time.Minute
	}
	return &RateLimitMiddleware{
		limiter:     limiter,
		metrics:     apiMetrics,
		logger:      logger,
		ipLimit:     ipLimit,
		ipPeriod:    ipPeriod,
		loginLimit:  loginLimit,
		loginPeriod: loginPeriod,
	}
}

// IPRateLimit limita o tráfego geral da API por IP de origem
func (m *RateLimitMiddleware) IPRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.allow(c, ratelimit.LimitConfig{
			Key:    "ip:" + c.ClientIP(),
			Limit:  m.ipLimit,
			Period: m.ipPeriod,
		}, "ip_limit", "Taxa de requisições excedida. Tente novamente em alguns minutos")
	}
}

// LoginRateLimit limita tentativas de login por IP de origem
func (m *RateLimitMiddleware) LoginRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.allow(c, ratelimit.LimitConfig{
			Key:    "login:" + c.ClientIP(),
			Limit:  m.loginLimit,
			Period: m.loginPeriod,
		}, "login_limit", "Muitas tentativas de login deste IP. Tente novamente em alguns minutos")
	}
}

func (m *RateLimitMiddleware) allow(c *gin.Context, config ratelimit.LimitConfig, limitType, message string) {
	allowed, limit, remaining, resetAfter, err := m.limiter.Allow(c.Request.Context(), config)
	if err != nil {
		// Falha do limitador não derruba a requisição
		m.logger.Error("erro ao verificar rate limit", zap.Error(err))
		c.Next()
		return
	}

	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(resetAfter).Unix(), 10))

	if !allowed {
		if m.metrics != nil {
			path := c.FullPath()
			if path == "" {
				path = c.Request.URL.Path
			}
			m.metrics.RateLimitExceeded(path, c.Request.Method, limitType)
		}

		c.Header("Retry-After", strconv.Itoa(int(resetAfter.Seconds())))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"sucesso":  false,
			"mensagem": message,
		})
		return
	}

	c.Next()
}
