package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleetwise/fleetwise-api/internal/app/auth"
	"github.com/fleetwise/fleetwise-api/internal/domain/model"
	apierrors "github.com/fleetwise/fleetwise-api/pkg/errors"
)

// Chaves usadas para guardar identidade no contexto da requisição
const (
	ContextUserKey   = "user"
	ContextClaimsKey = "claims"
)

// AuthMiddleware gerencia autenticação e autorização por papel
type AuthMiddleware struct {
	authService *auth.Service
	logger      *zap.Logger
}

// NewAuthMiddleware cria uma nova instância do middleware de autenticação
func NewAuthMiddleware(authService *auth.Service, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		logger:      logger,
	}
}

// Authenticate exige um bearer token válido e uma conta ativa.
// Cada requisição re-verifica o token; não há refresh nem rotação.
func (m *AuthMiddleware) Authenticate(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"sucesso":  false,
			"mensagem": "Acesso não autorizado. Faça login para continuar",
		})
		return
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader || tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"sucesso":  false,
			"mensagem": "Formato inválido do token",
		})
		return
	}

	user, claims, err := m.authService.VerifyToken(c.Request.Context(), tokenString)
	if err != nil {
		// Apenas a mensagem pública; o erro original fica fora do envelope
		apiErr := apierrors.FromError(err)
		c.AbortWithStatusJSON(apiErr.Code, gin.H{
			"sucesso":  false,
			"mensagem": apiErr.Message,
		})
		return
	}

	c.Set(ContextUserKey, user)
	c.Set(ContextClaimsKey, claims)
	c.Next()
}

// Authorize restringe a rota aos papéis informados. Deve ser usado
// depois de Authenticate.
func (m *AuthMiddleware) Authorize(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"sucesso":  false,
				"mensagem": "Acesso não autorizado. Faça login para continuar",
			})
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		m.logger.Warn("acesso negado por papel",
			zap.String("user_id", user.ID),
			zap.String("role", user.Role),
			zap.String("path", c.Request.URL.Path))

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"sucesso":  false,
			"mensagem": "Você não tem permissão para acessar este recurso",
		})
	}
}

// CurrentUser retorna o usuário autenticado do contexto, ou nil
func CurrentUser(c *gin.Context) *model.User {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*model.User)
	if !ok {
		return nil
	}
	return user
}
