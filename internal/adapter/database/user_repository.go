package database

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fleetwise/fleetwise-api/internal/domain/model"
	apierrors "github.com/fleetwise/fleetwise-api/pkg/errors"
)

// UserRepository persiste usuários via GORM
type UserRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewUserRepository cria um novo repositório de usuários
func NewUserRepository(db *gorm.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

// Create insere um novo usuário. Violação do índice único de email é
// traduzida para ErrDuplicate, mesmo quando a corrida passou pela
// pré-verificação do serviço.
func (r *UserRepository) Create(ctx context.Context, user *model.UserEntity) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apierrors.ErrDuplicate
		}
		r.logger.Error("falha ao criar usuário", zap.String("email", user.Email), zap.Error(err))
		return err
	}
	return nil
}

// FindByID busca um usuário pelo id
func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.UserEntity, error) {
	var user model.UserEntity
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail busca um usuário pelo email (comparação exata)
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.UserEntity, error) {
	var user model.UserEntity
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByName busca um usuário pelo nome (comparação exata)
func (r *UserRepository) FindByName(ctx context.Context, name string) (*model.UserEntity, error) {
	var user model.UserEntity
	if err := r.db.WithContext(ctx).Where("nome = ?", name).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// List retorna todos os usuários
func (r *UserRepository) List(ctx context.Context) ([]*model.UserEntity, error) {
	var users []*model.UserEntity
	if err := r.db.WithContext(ctx).Order("criado_em").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update grava todos os campos do usuário
func (r *UserRepository) Update(ctx context.Context, user *model.UserEntity) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apierrors.ErrDuplicate
		}
		r.logger.Error("falha ao atualizar usuário", zap.String("id", user.ID), zap.Error(err))
		return err
	}
	return nil
}
