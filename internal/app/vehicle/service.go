package vehicle

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/fleetwise/fleetwise-api/internal/domain/model"
	"github.com/fleetwise/fleetwise-api/pkg/cache"
	apierrors "github.com/fleetwise/fleetwise-api/pkg/errors"
)

const listCacheKey = "veiculos:list"

// Repository define a interface para acesso a dados de veículo
type Repository interface {
	Create(ctx context.Context, vehicle *model.Vehicle) error
	FindByID(ctx context.Context, id uint) (*model.Vehicle, error)
	FindByPlate(ctx context.Context, plate string) (*model.Vehicle, error)
	FindByChassis(ctx context.Context, chassis string) (*model.Vehicle, error)
	List(ctx context.Context) ([]*model.Vehicle, error)
	Update(ctx context.Context, vehicle *model.Vehicle) error
}

// Service implementa o CRUD de veículos com verificação de unicidade de
// placa e chassi e exclusão lógica via status
type Service struct {
	repo     Repository
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewService cria um novo serviço de veículos
func NewService(repo Repository, c cache.Cache, cacheTTL time.Duration, logger *zap.Logger) *Service {
	if c == nil {
		c = &cache.NoOpCache{}
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Service{repo: repo, cache: c, cacheTTL: cacheTTL, logger: logger}
}

// CreateInput são os dados de cadastro de um veículo
type CreateInput struct {
	Plate   string
	Chassis string
	Make    string
	Model   string
	Year    int
	Color   string
	Type    string
	Status  string
}

// Create cadastra um veículo, verificando placa e chassi duplicados
func (s *Service) Create(ctx context.Context, input CreateInput) (*model.Vehicle, error) {
	if input.Plate == "" || input.Chassis == "" || input.Make == "" || input.Model == "" ||
		input.Year == 0 || input.Color == "" || input.Type == "" {
		return nil, apierrors.BadRequest("Os campos placa, chassi, marca, modelo, ano, cor e tipo são obrigatórios", nil)
	}

	if input.Year < model.MinVehicleYear {
		return nil, apierrors.BadRequest("Ano de fabricação inválido", nil)
	}

	if _, err := s.repo.FindByPlate(ctx, input.Plate); err == nil {
		return nil, apierrors.Conflict("Placa já cadastrada", nil)
	} else if !errors.Is(err, apierrors.ErrNotFound) {
		return nil, err
	}
	if _, err := s.repo.FindByChassis(ctx, input.Chassis); err == nil {
		return nil, apierrors.Conflict("Chassi já cadastrado", nil)
	} else if !errors.Is(err, apierrors.ErrNotFound) {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = model.VehicleStatusActive
	}

	vehicle := &model.Vehicle{
		Plate:   input.Plate,
		Chassis: input.Chassis,
		Make:    input.Make,
		Model:   input.Model,
		Year:    input.Year,
		Color:   input.Color,
		Type:    input.Type,
		Status:  status,
	}

	if err := s.repo.Create(ctx, vehicle); err != nil {
		if errors.Is(err, apierrors.ErrDuplicate) {
			return nil, apierrors.Conflict("Placa ou chassi já cadastrados", err)
		}
		return nil, err
	}

	s.invalidateList(ctx)
	s.logger.Info("veículo cadastrado", zap.Uint("id", vehicle.ID), zap.String("placa", vehicle.Plate))
	return vehicle, nil
}

// List retorna todos os veículos, com cache de leitura
func (s *Service) List(ctx context.Context) ([]*model.Vehicle, error) {
	var cached []*model.Vehicle
	if found, err := s.cache.Get(ctx, listCacheKey, &cached); err == nil && found {
		return cached, nil
	}

	vehicles, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, listCacheKey, vehicles, s.cacheTTL); err != nil {
		s.logger.Warn("falha ao gravar lista de veículos no cache", zap.Error(err))
	}

	return vehicles, nil
}

// GetByID busca um veículo pelo id
func (s *Service) GetByID(ctx context.Context, id uint) (*model.Vehicle, error) {
	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apierrors.ErrNotFound) {
			return nil, apierrors.NotFound("Veículo", err)
		}
		return nil, err
	}
	return vehicle, nil
}

// UpdateInput são os campos atualizáveis; valores zero são mantidos
type UpdateInput struct {
	Plate   string
	Chassis string
	Make    string
	Model   string
	Year    int
	Color   string
	Type    string
	Status  string
}

// Update aplica uma atualização parcial. Alterações de placa ou chassi
// re-verificam unicidade excluindo o próprio registro.
func (s *Service) Update(ctx context.Context, id uint, input UpdateInput) (*model.Vehicle, error) {
	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apierrors.ErrNotFound) {
			return nil, apierrors.NotFound("Veículo", err)
		}
		return nil, err
	}

	if input.Plate != "" && input.Plate != vehicle.Plate {
		if existing, err := s.repo.FindByPlate(ctx, input.Plate); err == nil && existing.ID != vehicle.ID {
			return nil, apierrors.Conflict("Placa já cadastrada para outro veículo", nil)
		} else if err != nil && !errors.Is(err, apierrors.ErrNotFound) {
			return nil, err
		}
		vehicle.Plate = input.Plate
	}
	if input.Chassis != "" && input.Chassis != vehicle.Chassis {
		if existing, err := s.repo.FindByChassis(ctx, input.Chassis); err == nil && existing.ID != vehicle.ID {
			return nil, apierrors.Conflict("Chassi já cadastrado para outro veículo", nil)
		} else if err != nil && !errors.Is(err, apierrors.ErrNotFound) {
			return nil, err
		}
		vehicle.Chassis = input.Chassis
	}

	if input.Year != 0 {
		if input.Year < model.MinVehicleYear {
			return nil, apierrors.BadRequest("Ano de fabricação inválido", nil)
		}
		vehicle.Year = input.Year
	}
	if input.Make != "" {
		vehicle.Make = input.Make
	}
	if input.Model != "" {
		vehicle.Model = input.Model
	}
	if input.Color != "" {
		vehicle.Color = input.Color
	}
	if input.Type != "" {
		vehicle.Type = input.Type
	}
	if input.Status != "" {
		vehicle.Status = input.Status
	}

	vehicle.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, vehicle); err != nil {
		if errors.Is(err, apierrors.ErrDuplicate) {
			return nil, apierrors.Conflict("Placa ou chassi já cadastrados para outro veículo", err)
		}
		return nil, err
	}

	s.invalidateList(ctx)
	return vehicle, nil
}

// SoftDelete muda o status para inativo; a linha é preservada
func (s *Service) SoftDelete(ctx context.Context, id uint) error {
	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apierrors.ErrNotFound) {
			return apierrors.NotFound("Veículo", err)
		}
		return err
	}

	vehicle.Status = model.VehicleStatusInactive
	vehicle.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, vehicle); err != nil {
		return err
	}

	s.invalidateList(ctx)
	s.logger.Info("veículo desativado", zap.Uint("id", id))
	return nil
}

func (s *Service) invalidateList(ctx context.Context) {
	if err := s.cache.Delete(ctx, listCacheKey); err != nil {
		s.logger.Warn("falha ao invalidar cache de veículos", zap.Error(err))
	}
}
