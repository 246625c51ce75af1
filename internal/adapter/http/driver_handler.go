package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleetwise/fleetwise-api/internal/app/driver"
	apierrors "github.com/fleetwise/fleetwise-api/pkg/errors"
)

// DriverHandler expõe o CRUD de motoristas
type DriverHandler struct {
	service   *driver.Service
	responder *Responder
	logger    *zap.Logger
}

// NewDriverHandler cria um novo handler de motoristas
func NewDriverHandler(service *driver.Service, responder *Responder, logger *zap.Logger) *DriverHandler {
	return &DriverHandler{
		service:   service,
		responder: responder,
		logger:    logger,
	}
}

// DriverRequest é o corpo de criação/atualização de motoristas
type DriverRequest struct {
	FullName       string `json:"nome_completo"`
	CPF            string `json:"cpf"`
	RG             string `json:"rg"`
	BirthDate      string `json:"data_nascimento"`
	CNHNumber      string `json:"cnh_numero"`
	CNHCategory    string `json:"cnh_categoria"`
	CNHExpiry      string `json:"cnh_data_vencimento"`
	PrimaryPhone   string `json:"telefone_principal"`
	Email          string `json:"email"`
	EmergencyPhone string `json:"telefone_emergencia"`
	Address        string `json:"endereco_completo"`
	Status         string `json:"status"`
}

func parseDriverID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, apierrors.BadRequest("ID de motorista inválido", err)
	}
	return uint(id), nil
}

// Create cadastra um motorista
func (h *DriverHandler) Create(c *gin.Context) {
	var req DriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.Error(c, apierrors.BadRequest("Dados inválidos", err))
		return
	}

	created, err := h.service.Create(c.Request.Context(), driver.CreateInput{
		FullName:       req.FullName,
		CPF:            req.CPF,
		RG:             req.RG,
		BirthDate:      req.BirthDate,
		CNHNumber:      req.CNHNumber,
		CNHCategory:    req.CNHCategory,
		CNHExpiry:      req.CNHExpiry,
		PrimaryPhone:   req.PrimaryPhone,
		Email:          req.Email,
		EmergencyPhone: req.EmergencyPhone,
		Address:        req.Address,
		Status:         req.Status,
	})
	if err != nil {
		h.responder.Error(c, err)
		return
	}

	h.responder.OK(c, http.StatusCreated, "Motorista cadastrado com sucesso", gin.H{"motorista": created})
}

// List retorna todos os motoristas
func (h *DriverHandler) List(c *gin.Context) {
	drivers, err := h.service.List(c.Request.Context())
	if err != nil {
		h.responder.Error(c, err)
		return
	}

	h.responder.OK(c, http.StatusOK, "Motoristas listados com sucesso", gin.H{"motoristas": drivers})
}

// Get retorna um motorista pelo ID
func (h *DriverHandler) Get(c *gin.Context) {
	id, err := parseDriverID(c)
	if err != nil {
		h.responder.Error(c, err)
		return
	}

	found, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.responder.Error(c, err)
		return
	}

	h.responder.OK(c, http.StatusOK, "Motorista encontrado", gin.H{"motorista": found})
}

// Update atualiza um motorista pelo ID
func (h *DriverHandler) Update(c *gin.Context) {
	id, err := parseDriverID(c)
	if err != nil {
		h.responder.Error(c, err)
		return
	}

	var req DriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.Error(c, apierrors.BadRequest("Dados inválidos", err))
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, driver.UpdateInput{
		FullName:       req.FullName,
		CPF:            req.CPF,
		RG:             req.RG,
		BirthDate:      req.BirthDate,
		CNHNumber:      req.CNHNumber,
		CNHCategory:    req.CNHCategory,
		CNHExpiry:      req.CNHExpiry,
		PrimaryPhone:   req.PrimaryPhone,
		Email:          req.Email,
		EmergencyPhone: req.EmergencyPhone,
		Address:        req.Address,
		Status:         req.Status,
	})
	if err != nil {
		h.responder.Error(c, err)
		return
	}

	h.responder.OK(c, http.StatusOK, "Motorista atualizado com sucesso", gin.H{"motorista": updated})
}

// Delete inativa um motorista pelo ID
func (h *DriverHandler) Delete(c *gin.Context) {
	id, err := parseDriverID(c)
	if err != nil {
		h.responder.Error(c, err)
		return
	}

	if err := h.service.SoftDelete(c.Request.Context(), id); err != nil {
		h.responder.Error(c, err)
		return
	}

	h.responder.OK(c, http.StatusOK, "Motorista removido com sucesso", nil)
}
