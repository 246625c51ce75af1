package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleetwise/fleetwise-api/internal/app/user"
	apierrors "github.com/fleetwise/fleetwise-api/pkg/errors"
)

// UserHandler expõe a administração de usuários (somente admin)
type UserHandler struct {
	service   *user.Service
	responder *Responder
	logger    *zap.Logger
}

// NewUserHandler cria um novo handler administrativo de usuários
func NewUserHandler(service *user.Service, responder *Responder, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		service:   service,
		responder: responder,
		logger:    logger,
	}
}

// CreateUserRequest é o corpo de POST /usuarios
type CreateUserRequest struct {
	Name     string `json:"nome" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"senha" binding:"required,min=8"`
	Role     string `json:"tipo"`
}

// Create cria um usuário em nome de um administrador
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.Error(c, apierrors.BadRequest("Dados inválidos", err))
		return
	}

	created, err := h.service.Create(c.Request.Context(), user.CreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		h.responder.Error(c, err)
		return
	}

	h.responder.OK(c, http.StatusCreated, "Usuário criado com sucesso", gin.H{"usuario": created})
}

// List retorna todos os usuários cadastrados
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		h.responder.Error(c, err)
		return
	}

	h.responder.OK(c, http.StatusOK, "Usuários listados com sucesso", gin.H{"usuarios": users})
}

// Get retorna um usuário pelo ID
func (h *UserHandler) Get(c *gin.Context) {
	found, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.responder.Error(c, err)
		return
	}

	h.responder.OK(c, http.StatusOK, "Usuário encontrado", gin.H{"usuario": found})
}

// UpdateUserRequest é o corpo de PUT /usuarios/:id
type UpdateUserRequest struct {
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Role     string `json:"tipo"`
	Password string `json:"senha"`
}

// Update atualiza um usuário pelo ID
func (h *UserHandler) Update(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.Error(c, apierrors.BadRequest("Dados inválidos", err))
		return
	}

	updated, err := h.service.Update(c.Request.Context(), c.Param("id"), user.UpdateInput{
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		h.responder.Error(c, err)
		return
	}

	h.responder.OK(c, http.StatusOK, "Usuário atualizado com sucesso", gin.H{"usuario": updated})
}

// Delete desativa um usuário pelo ID
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.service.SoftDelete(c.Request.Context(), c.Param("id")); err != nil {
		h.responder.Error(c, err)
		return
	}

	h.responder.OK(c, http.StatusOK, "Usuário desativado com sucesso", nil)
}
