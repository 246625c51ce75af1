package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleetwise/fleetwise-api/internal/app/auth"
	"github.com/fleetwise/fleetwise-api/internal/infra/metrics"
	"github.com/fleetwise/fleetwise-api/internal/infra/middleware"
	apierrors "github.com/fleetwise/fleetwise-api/pkg/errors"
)

// AuthHandler expõe registro, login e manutenção da própria conta
type AuthHandler struct {
	service   *auth.Service
	responder *Responder
	metrics   *metrics.APIMetrics
	logger    *zap.Logger
}

// NewAuthHandler cria um novo handler de autenticação. apiMetrics pode ser
// nil quando a coleta de métricas está desabilitada.
func NewAuthHandler(service *auth.Service, responder *Responder, apiMetrics *metrics.APIMetrics, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service:   service,
		responder: responder,
		metrics:   apiMetrics,
		logger:    logger,
	}
}

// RegisterRequest é o corpo de POST /auth/cadastro
type RegisterRequest struct {
	Name     string `json:"nome" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"senha" binding:"required,min=8"`
	Role     string `json:"tipo"`
}

// Register registra um novo usuário
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.Error(c, apierrors.BadRequest("Dados inválidos", err))
		return
	}

	user, err := h.service.Register(c.Request.Context(), auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		h.responder.Error(c, err)
		return
	}

	h.responder.OK(c, http.StatusCreated, "Usuário registrado com sucesso", gin.H{"usuario": user})
}

// LoginRequest é o corpo de POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"senha" binding:"required"`
}

// Login autentica e retorna o token com os dados do usuário
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.Error(c, apierrors.BadRequest("Email e senha são obrigatórios", err))
		return
	}

	token, user, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if h.metrics != nil {
			h.metrics.LoginAttempt("failure")
		}
		h.responder.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.LoginAttempt("success")
	}

	h.responder.OK(c, http.StatusOK, "Login realizado com sucesso", gin.H{
		"token":   token,
		"usuario": user,
	})
}

// Profile retorna a conta do usuário autenticado
func (h *AuthHandler) Profile(c *gin.Context) {
	current := middleware.CurrentUser(c)
	if current == nil {
		h.responder.Error(c, apierrors.Unauthorized("", nil))
		return
	}

	user, err := h.service.CurrentUser(c.Request.Context(), current.ID)
	if err != nil {
		h.responder.Error(c, err)
		return
	}

	h.responder.OK(c, http.StatusOK, "Usuário encontrado", gin.H{"usuario": user})
}

// UpdateProfileRequest é o corpo de PUT /usuario/atualizar
type UpdateProfileRequest struct {
	Name            string `json:"nome"`
	Email           string `json:"email"`
	Role            string `json:"tipo"`
	CurrentPassword string `json:"senhaAtual"`
	NewPassword     string `json:"novaSenha"`
}

// UpdateProfile atualiza a conta do usuário autenticado
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	current := middleware.CurrentUser(c)
	if current == nil {
		h.responder.Error(c, apierrors.Unauthorized("", nil))
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.Error(c, apierrors.BadRequest("Dados inválidos", err))
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), current.ID, auth.UpdateProfileInput{
		Name:            req.Name,
		Email:           req.Email,
		Role:            req.Role,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		h.responder.Error(c, err)
		return
	}

	h.responder.OK(c, http.StatusOK, "Usuário atualizado com sucesso", gin.H{"usuario": user})
}

// Deactivate desativa a conta do usuário autenticado
func (h *AuthHandler) Deactivate(c *gin.Context) {
	current := middleware.CurrentUser(c)
	if current == nil {
		h.responder.Error(c, apierrors.Unauthorized("", nil))
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), current.ID); err != nil {
		h.responder.Error(c, err)
		return
	}

	h.responder.OK(c, http.StatusOK, "Usuário desativado com sucesso", nil)
}
