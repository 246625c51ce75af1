package database

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fleetwise/fleetwise-api/internal/domain/model"
	apierrors "github.com/fleetwise/fleetwise-api/pkg/errors"
)

// VehicleRepository persiste veículos via GORM
type VehicleRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewVehicleRepository cria um novo repositório de veículos
func NewVehicleRepository(db *gorm.DB, logger *zap.Logger) *VehicleRepository {
	return &VehicleRepository{db: db, logger: logger}
}

// Create insere um novo veículo
func (r *VehicleRepository) Create(ctx context.Context, vehicle *model.Vehicle) error {
	if err := r.db.WithContext(ctx).Create(vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apierrors.ErrDuplicate
		}
		r.logger.Error("falha ao criar veículo", zap.String("placa", vehicle.Plate), zap.Error(err))
		return err
	}
	return nil
}

// FindByID busca um veículo pelo id
func (r *VehicleRepository) FindByID(ctx context.Context, id uint) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	if err := r.db.WithContext(ctx).First(&vehicle, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.ErrNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

// FindByPlate busca um veículo pela placa
func (r *VehicleRepository) FindByPlate(ctx context.Context, plate string) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	if err := r.db.WithContext(ctx).Where("placa = ?", plate).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.ErrNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

// FindByChassis busca um veículo pelo chassi
func (r *VehicleRepository) FindByChassis(ctx context.Context, chassis string) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	if err := r.db.WithContext(ctx).Where("chassi = ?", chassis).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.ErrNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

// List retorna todos os veículos
func (r *VehicleRepository) List(ctx context.Context) ([]*model.Vehicle, error) {
	var vehicles []*model.Vehicle
	if err := r.db.WithContext(ctx).Order("id").Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

// Update grava todos os campos do veículo
func (r *VehicleRepository) Update(ctx context.Context, vehicle *model.Vehicle) error {
	if err := r.db.WithContext(ctx).Save(vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apierrors.ErrDuplicate
		}
		r.logger.Error("falha ao atualizar veículo", zap.Uint("id", vehicle.ID), zap.Error(err))
		return err
	}
	return nil
}
