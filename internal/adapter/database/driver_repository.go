package database

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fleetwise/fleetwise-api/internal/domain/model"
	apierrors "github.com/fleetwise/fleetwise-api/pkg/errors"
)

// DriverRepository persiste motoristas via GORM
type DriverRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewDriverRepository cria um novo repositório de motoristas
func NewDriverRepository(db *gorm.DB, logger *zap.Logger) *DriverRepository {
	return &DriverRepository{db: db, logger: logger}
}

// Create insere um novo motorista
func (r *DriverRepository) Create(ctx context.Context, driver *model.Driver) error {
	if err := r.db.WithContext(ctx).Create(driver).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apierrors.ErrDuplicate
		}
		r.logger.Error("falha ao criar motorista", zap.String("cpf", driver.CPF), zap.Error(err))
		return err
	}
	return nil
}

// FindByID busca um motorista pelo id
func (r *DriverRepository) FindByID(ctx context.Context, id uint) (*model.Driver, error) {
	var driver model.Driver
	if err := r.db.WithContext(ctx).First(&driver, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.ErrNotFound
		}
		return nil, err
	}
	return &driver, nil
}

// FindByCPF busca um motorista pelo CPF
func (r *DriverRepository) FindByCPF(ctx context.Context, cpf string) (*model.Driver, error) {
	var driver model.Driver
	if err := r.db.WithContext(ctx).Where("cpf = ?", cpf).First(&driver).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.ErrNotFound
		}
		return nil, err
	}
	return &driver, nil
}

// FindByCNH busca um motorista pelo número da CNH
func (r *DriverRepository) FindByCNH(ctx context.Context, cnh string) (*model.Driver, error) {
	var driver model.Driver
	if err := r.db.WithContext(ctx).Where("cnh_numero = ?", cnh).First(&driver).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.ErrNotFound
		}
		return nil, err
	}
	return &driver, nil
}

// List retorna todos os motoristas
func (r *DriverRepository) List(ctx context.Context) ([]*model.Driver, error) {
	var drivers []*model.Driver
	if err := r.db.WithContext(ctx).Order("id").Find(&drivers).Error; err != nil {
		return nil, err
	}
	return drivers, nil
}

// Update grava todos os campos do motorista
func (r *DriverRepository) Update(ctx context.Context, driver *model.Driver) error {
	if err := r.db.WithContext(ctx).Save(driver).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apierrors.ErrDuplicate
		}
		r.logger.Error("falha ao atualizar motorista", zap.Uint("id", driver.ID), zap.Error(err))
		return err
	}
	return nil
}
