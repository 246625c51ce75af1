package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleetwise/fleetwise-api/pkg/logging"
)

// Middleware agrupa todos os middlewares da aplicação
type Middleware struct {
	logger              *logging.ContextLogger
	authMiddleware      *AuthMiddleware
	recoveryMiddleware  *RecoveryMiddleware
	securityMiddleware  *SecurityMiddleware
	tracingMiddleware   *TracingMiddleware
	metricsMiddleware   *MetricsMiddleware
	rateLimitMiddleware *RateLimitMiddleware
}

// NewMiddleware cria um novo conjunto de middlewares com dependências explícitas
func NewMiddleware(logger *zap.Logger, authMW *AuthMiddleware, rateLimitMW *RateLimitMiddleware, metricsMW *MetricsMiddleware, serviceName string) *Middleware {
	return &Middleware{
		logger:              &logging.ContextLogger{Logger: logger},
		authMiddleware:      authMW,
		recoveryMiddleware:  NewRecoveryMiddleware(logger),
		securityMiddleware:  NewSecurityMiddleware(logger),
		tracingMiddleware:   NewTracingMiddleware(logger, serviceName),
		metricsMiddleware:   metricsMW,
		rateLimitMiddleware: rateLimitMW,
	}
}

// Authenticate middleware para autenticação de usuários
func (m *Middleware) Authenticate(c *gin.Context) {
	m.authMiddleware.Authenticate(c)
}

// Authorize restringe a rota aos papéis informados
func (m *Middleware) Authorize(roles ...string) gin.HandlerFunc {
	return m.authMiddleware.Authorize(roles...)
}

// Recovery middleware para recuperação de pânicos
func (m *Middleware) Recovery() gin.HandlerFunc {
	return m.recoveryMiddleware.Recovery()
}

// SecurityHeaders adiciona cabeçalhos de segurança
func (m *Middleware) SecurityHeaders() gin.HandlerFunc {
	return m.securityMiddleware.Headers()
}

// CORS configura Cross-Origin Resource Sharing
func (m *Middleware) CORS() gin.HandlerFunc {
	return m.securityMiddleware.CORS()
}

// Tracing retorna o middleware de tracing
func (m *Middleware) Tracing() gin.HandlerFunc {
	return m.tracingMiddleware.Middleware()
}

// Metrics retorna o middleware de métricas
func (m *Middleware) Metrics() gin.HandlerFunc {
	if m.metricsMiddleware != nil {
		return m.metricsMiddleware.Middleware()
	}
	return func(c *gin.Context) {
		c.Next()
	}
}

// IPRateLimit retorna o limitador geral por IP
func (m *Middleware) IPRateLimit() gin.HandlerFunc {
	if m.rateLimitMiddleware != nil {
		return m.rateLimitMiddleware.IPRateLimit()
	}
	return func(c *gin.Context) {
		c.Next()
	}
}

// LoginRateLimit retorna o limitador de tentativas de login
func (m *Middleware) LoginRateLimit() gin.HandlerFunc {
	if m.rateLimitMiddleware != nil {
		return m.rateLimitMiddleware.LoginRateLimit()
	}
	return func(c *gin.Context) {
		c.Next()
	}
}

// Logger registra cada requisição concluída, com trace_id quando o
// tracing está ativo
func (m *Middleware) Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		m.logger.InfoCtx(c.Request.Context(), "request completed",
			zap.String("path", path),
			zap.String("method", c.Request.Method),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}
