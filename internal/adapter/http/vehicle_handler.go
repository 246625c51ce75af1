package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleetwise/fleetwise-api/internal/app/vehicle"
	apierrors "github.com/fleetwise/fleetwise-api/pkg/errors"
)

// VehicleHandler expõe o CRUD de veículos
type VehicleHandler struct {
	service   *vehicle.Service
	responder *Responder
	logger    *zap.Logger
}

// NewVehicleHandler cria um novo handler de veículos
func NewVehicleHandler(service *vehicle.Service, responder *Responder, logger *zap.Logger) *VehicleHandler {
	return &VehicleHandler{
		service:   service,
		responder: responder,
		logger:    logger,
	}
}

// VehicleRequest é o corpo de criação/atualização de veículos
type VehicleRequest struct {
	Plate   string `json:"placa"`
	Chassis string `json:"chassi"`
	Make    string `json:"marca"`
	Model   string `json:"modelo"`
	Year    int    `json:"ano"`
	Color   string `json:"cor"`
	Type    string `json:"tipo"`
	Status  string `json:"status"`
}

func parseVehicleID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, apierrors.BadRequest("ID de veículo inválido", err)
	}
	return uint(id), nil
}

// Create cadastra um veículo
func (h *VehicleHandler) Create(c *gin.Context) {
	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.Error(c, apierrors.BadRequest("Dados inválidos", err))
		return
	}

	created, err := h.service.Create(c.Request.Context(), vehicle.CreateInput{
		Plate:   req.Plate,
		Chassis: req.Chassis,
		Make:    req.Make,
		Model:   req.Model,
		Year:    req.Year,
		Color:   req.Color,
		Type:    req.Type,
		Status:  req.Status,
	})
	if err != nil {
		h.responder.Error(c, err)
		return
	}

	h.responder.OK(c, http.StatusCreated, "Veículo cadastrado com sucesso", gin.H{"veiculo": created})
}

// List retorna todos os veículos
func (h *VehicleHandler) List(c *gin.Context) {
	vehicles, err := h.service.List(c.Request.Context())
	if err != nil {
		h.responder.Error(c, err)
		return
	}

	h.responder.OK(c, http.StatusOK, "Veículos listados com sucesso", gin.H{"veiculos": vehicles})
}

// Get retorna um veículo pelo ID
func (h *VehicleHandler) Get(c *gin.Context) {
	id, err := parseVehicleID(c)
	if err != nil {
		h.responder.Error(c, err)
		return
	}

	found, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.responder.Error(c, err)
		return
	}

	h.responder.OK(c, http.StatusOK, "Veículo encontrado", gin.H{"veiculo": found})
}

// Update atualiza um veículo pelo ID
func (h *VehicleHandler) Update(c *gin.Context) {
	id, err := parseVehicleID(c)
	if err != nil {
		h.responder.Error(c, err)
		return
	}

	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.Error(c, apierrors.BadRequest("Dados inválidos", err))
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, vehicle.UpdateInput{
		Plate:   req.Plate,
		Chassis: req.Chassis,
		Make:    req.Make,
		Model:   req.Model,
		Year:    req.Year,
		Color:   req.Color,
		Type:    req.Type,
		Status:  req.Status,
	})
	if err != nil {
		h.responder.Error(c, err)
		return
	}

	h.responder.OK(c, http.StatusOK, "Veículo atualizado com sucesso", gin.H{"veiculo": updated})
}

// Delete inativa um veículo pelo ID
func (h *VehicleHandler) Delete(c *gin.Context) {
	id, err := parseVehicleID(c)
	if err != nil {
		h.responder.Error(c, err)
		return
	}

	if err := h.service.SoftDelete(c.Request.Context(), id); err != nil {
		h.responder.Error(c, err)
		return
	}

	h.responder.OK(c, http.StatusOK, "Veículo removido com sucesso", nil)
}
