package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleetwise/fleetwise-api/internal/app/auth"
	"github.com/fleetwise/fleetwise-api/internal/domain/model"
	apierrors "github.com/fleetwise/fleetwise-api/pkg/errors"
	"github.com/fleetwise/fleetwise-api/pkg/security"
)

// Service implementa o CRUD administrativo de usuários
type Service struct {
	repo   auth.UserRepository
	hasher *security.Hasher
	logger *zap.Logger
}

// NewService cria um novo serviço de usuários
func NewService(repo auth.UserRepository, hasher *security.Hasher, logger *zap.Logger) *Service {
	return &Service{repo: repo, hasher: hasher, logger: logger}
}

// CreateInput são os dados para criação de usuário pelo administrador
type CreateInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Create cria um usuário, com verificação de unicidade de email
func (s *Service) Create(ctx context.Context, input CreateInput) (*model.User, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, apierrors.BadRequest("Nome, email e senha são obrigatórios", nil)
	}

	if input.Role == "" {
		input.Role = model.RoleDriver
	}
	if !model.ValidRole(input.Role) {
		return nil, apierrors.BadRequest("Tipo de usuário inválido", nil)
	}

	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, apierrors.Conflict("Email já cadastrado", nil)
	} else if !errors.Is(err, apierrors.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.logger.Error("falha ao gerar hash da senha", zap.Error(err))
		return nil, apierrors.InternalServer("Erro ao processar senha", err)
	}

	entity := &model.UserEntity{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		Active:       true,
	}

	if err := s.repo.Create(ctx, entity); err != nil {
		if errors.Is(err, apierrors.ErrDuplicate) {
			return nil, apierrors.Conflict("Email já cadastrado", err)
		}
		return nil, err
	}

	return entity.ToUser(), nil
}

// List retorna todos os usuários, sem os hashes de senha
func (s *Service) List(ctx context.Context) ([]*model.User, error) {
	entities, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	users := make([]*model.User, 0, len(entities))
	for _, e := range entities {
		users = append(users, e.ToUser())
	}
	return users, nil
}

// GetByID busca um usuário pelo id
func (s *Service) GetByID(ctx context.Context, id string) (*model.User, error) {
	entity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apierrors.ErrNotFound) {
			return nil, apierrors.NotFound("Usuário", err)
		}
		return nil, err
	}
	return entity.ToUser(), nil
}

// UpdateInput são os campos atualizáveis; vazios são mantidos
type UpdateInput struct {
	Name     string
	Email    string
	Role     string
	Password string
}

// Update aplica uma atualização parcial, re-verificando unicidade de
// email com exclusão do próprio id
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*model.User, error) {
	entity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apierrors.ErrNotFound) {
			return nil, apierrors.NotFound("Usuário", err)
		}
		return nil, err
	}

	if input.Email != "" && input.Email != entity.Email {
		if existing, err := s.repo.FindByEmail(ctx, input.Email); err == nil && existing.ID != entity.ID {
			return nil, apierrors.Conflict("Email já cadastrado para outro usuário", nil)
		} else if err != nil && !errors.Is(err, apierrors.ErrNotFound) {
			return nil, err
		}
		entity.Email = input.Email
	}
	if input.Name != "" {
		entity.Name = input.Name
	}
	if input.Role != "" {
		if !model.ValidRole(input.Role) {
			return nil, apierrors.BadRequest("Tipo de usuário inválido", nil)
		}
		entity.Role = input.Role
	}
	if input.Password != "" {
		hash, err := s.hasher.Hash(input.Password)
		if err != nil {
			s.logger.Error("falha ao gerar hash da senha", zap.Error(err))
			return nil, apierrors.InternalServer("Erro ao processar senha", err)
		}
		entity.PasswordHash = hash
	}

	entity.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, entity); err != nil {
		if errors.Is(err, apierrors.ErrDuplicate) {
			return nil, apierrors.Conflict("Email já cadastrado para outro usuário", err)
		}
		return nil, err
	}

	return entity.ToUser(), nil
}

// SoftDelete desativa o usuário; a linha é preservada
func (s *Service) SoftDelete(ctx context.Context, id string) error {
	entity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apierrors.ErrNotFound) {
			return apierrors.NotFound("Usuário", err)
		}
		return err
	}

	entity.Active = false
	entity.UpdatedAt = time.Now()
	return s.repo.Update(ctx, entity)
}
