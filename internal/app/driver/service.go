package driver

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/fleetwise/fleetwise-api/internal/domain/model"
	"github.com/fleetwise/fleetwise-api/pkg/cache"
	apierrors "github.com/fleetwise/fleetwise-api/pkg/errors"
)

const listCacheKey = "motoristas:list"

// Repository define a interface para acesso a dados de motorista
type Repository interface {
	Create(ctx context.Context, driver *model.Driver) error
	FindByID(ctx context.Context, id uint) (*model.Driver, error)
	FindByCPF(ctx context.Context, cpf string) (*model.Driver, error)
	FindByCNH(ctx context.Context, cnh string) (*model.Driver, error)
	List(ctx context.Context) ([]*model.Driver, error)
	Update(ctx context.Context, driver *model.Driver) error
}

// Service implementa o CRUD de motoristas com verificação de unicidade
// de CPF e CNH e exclusão lógica via status
type Service struct {
	repo     Repository
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewService cria um novo serviço de motoristas
func NewService(repo Repository, c cache.Cache, cacheTTL time.Duration, logger *zap.Logger) *Service {
	if c == nil {
		c = &cache.NoOpCache{}
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Service{repo: repo, cache: c, cacheTTL: cacheTTL, logger: logger}
}

// CreateInput são os dados de cadastro de um motorista. Datas usam o
// formato 2006-01-02.
type CreateInput struct {
	FullName       string
	CPF            string
	RG             string
	BirthDate      string
	CNHNumber      string
	CNHCategory    string
	CNHExpiry      string
	PrimaryPhone   string
	Email          string
	EmergencyPhone string
	Address        string
	Status         string
}

// Create cadastra um motorista, verificando CPF e CNH duplicados
func (s *Service) Create(ctx context.Context, input CreateInput) (*model.Driver, error) {
	if input.FullName == "" || input.CPF == "" || input.CNHNumber == "" || input.CNHExpiry == "" {
		return nil, apierrors.BadRequest("Os campos nome_completo, cpf, cnh_numero e cnh_data_vencimento são obrigatórios", nil)
	}

	cnhExpiry, err := time.Parse(model.DateOnly, input.CNHExpiry)
	if err != nil {
		return nil, apierrors.BadRequest("Data de vencimento da CNH inválida", err)
	}

	var birthDate *time.Time
	if input.BirthDate != "" {
		parsed, err := time.Parse(model.DateOnly, input.BirthDate)
		if err != nil {
			return nil, apierrors.BadRequest("Data de nascimento inválida", err)
		}
		birthDate = &parsed
	}

	if _, err := s.repo.FindByCPF(ctx, input.CPF); err == nil {
		return nil, apierrors.Conflict("CPF já cadastrado", nil)
	} else if !errors.Is(err, apierrors.ErrNotFound) {
		return nil, err
	}
	if _, err := s.repo.FindByCNH(ctx, input.CNHNumber); err == nil {
		return nil, apierrors.Conflict("CNH já cadastrada", nil)
	} else if !errors.Is(err, apierrors.ErrNotFound) {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = model.DriverStatusActive
	}

	driver := &model.Driver{
		FullName:       input.FullName,
		CPF:            input.CPF,
		RG:             input.RG,
		BirthDate:      birthDate,
		CNHNumber:      input.CNHNumber,
		CNHCategory:    input.CNHCategory,
		CNHExpiry:      cnhExpiry,
		PrimaryPhone:   input.PrimaryPhone,
		Email:          input.Email,
		EmergencyPhone: input.EmergencyPhone,
		Address:        input.Address,
		Status:         status,
	}

	if err := s.repo.Create(ctx, driver); err != nil {
		if errors.Is(err, apierrors.ErrDuplicate) {
			return nil, apierrors.Conflict("CPF ou CNH já cadastrados", err)
		}
		return nil, err
	}

	s.invalidateList(ctx)
	s.logger.Info("motorista cadastrado", zap.Uint("id", driver.ID), zap.String("cpf", driver.CPF))
	return driver, nil
}

// List retorna todos os motoristas, com cache de leitura
func (s *Service) List(ctx context.Context) ([]*model.Driver, error) {
	var cached []*model.Driver
	if found, err := s.cache.Get(ctx, listCacheKey, &cached); err == nil && found {
		return cached, nil
	}

	drivers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, listCacheKey, drivers, s.cacheTTL); err != nil {
		s.logger.Warn("falha ao gravar lista de motoristas no cache", zap.Error(err))
	}

	return drivers, nil
}

// GetByID busca um motorista pelo id
func (s *Service) GetByID(ctx context.Context, id uint) (*model.Driver, error) {
	driver, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apierrors.ErrNotFound) {
			return nil, apierrors.NotFound("Motorista", err)
		}
		return nil, err
	}
	return driver, nil
}

// UpdateInput são os campos atualizáveis; vazios são mantidos
type UpdateInput struct {
	FullName       string
	CPF            string
	RG             string
	BirthDate      string
	CNHNumber      string
	CNHCategory    string
	CNHExpiry      string
	PrimaryPhone   string
	Email          string
	EmergencyPhone string
	Address        string
	Status         string
}

// Update aplica uma atualização parcial. Alterações de CPF ou CNH
// re-verificam unicidade excluindo o próprio registro.
func (s *Service) Update(ctx context.Context, id uint, input UpdateInput) (*model.Driver, error) {
	driver, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apierrors.ErrNotFound) {
			return nil, apierrors.NotFound("Motorista", err)
		}
		return nil, err
	}

	if input.CPF != "" && input.CPF != driver.CPF {
		if existing, err := s.repo.FindByCPF(ctx, input.CPF); err == nil && existing.ID != driver.ID {
			return nil, apierrors.Conflict("CPF já cadastrado para outro motorista", nil)
		} else if err != nil && !errors.Is(err, apierrors.ErrNotFound) {
			return nil, err
		}
		driver.CPF = input.CPF
	}
	if input.CNHNumber != "" && input.CNHNumber != driver.CNHNumber {
		if existing, err := s.repo.FindByCNH(ctx, input.CNHNumber); err == nil && existing.ID != driver.ID {
			return nil, apierrors.Conflict("CNH já cadastrada para outro motorista", nil)
		} else if err != nil && !errors.Is(err, apierrors.ErrNotFound) {
			return nil, err
		}
		driver.CNHNumber = input.CNHNumber
	}

	if input.BirthDate != "" {
		parsed, err := time.Parse(model.DateOnly, input.BirthDate)
		if err != nil {
			return nil, apierrors.BadRequest("Data de nascimento inválida", err)
		}
		driver.BirthDate = &parsed
	}
	if input.CNHExpiry != "" {
		parsed, err := time.Parse(model.DateOnly, input.CNHExpiry)
		if err != nil {
			return nil, apierrors.BadRequest("Data de vencimento da CNH inválida", err)
		}
		driver.CNHExpiry = parsed
	}
	if input.FullName != "" {
		driver.FullName = input.FullName
	}
	if input.RG != "" {
		driver.RG = input.RG
	}
	if input.CNHCategory != "" {
		driver.CNHCategory = input.CNHCategory
	}
	if input.PrimaryPhone != "" {
		driver.PrimaryPhone = input.PrimaryPhone
	}
	if input.Email != "" {
		driver.Email = input.Email
	}
	if input.EmergencyPhone != "" {
		driver.EmergencyPhone = input.EmergencyPhone
	}
	if input.Address != "" {
		driver.Address = input.Address
	}
	if input.Status != "" {
		driver.Status = input.Status
	}

	driver.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, driver); err != nil {
		if errors.Is(err, apierrors.ErrDuplicate) {
			return nil, apierrors.Conflict("CPF ou CNH já cadastrados para outro motorista", err)
		}
		return nil, err
	}

	s.invalidateList(ctx)
	return driver, nil
}

// SoftDelete muda o status para Inativo; a linha é preservada
func (s *Service) SoftDelete(ctx context.Context, id uint) error {
	driver, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apierrors.ErrNotFound) {
			return apierrors.NotFound("Motorista", err)
		}
		return err
	}

	driver.Status = model.DriverStatusInactive
	driver.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, driver); err != nil {
		return err
	}

	s.invalidateList(ctx)
	s.logger.Info("motorista desativado", zap.Uint("id", id))
	return nil
}

func (s *Service) invalidateList(ctx context.Context) {
	if err := s.cache.Delete(ctx, listCacheKey); err != nil {
		s.logger.Warn("falha ao invalidar cache de motoristas", zap.Error(err))
	}
}
