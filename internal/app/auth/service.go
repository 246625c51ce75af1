package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleetwise/fleetwise-api/internal/domain/model"
	apierrors "github.com/fleetwise/fleetwise-api/pkg/errors"
	"github.com/fleetwise/fleetwise-api/pkg/security"
)

// Mensagem única para email desconhecido e senha incorreta, para não
// permitir enumeração de contas.
const genericLoginMessage = "Usuário ou senha inválidos"

// UserRepository define a interface para acesso a dados de usuário
type UserRepository interface {
	Create(ctx context.Context, user *model.UserEntity) error
	FindByID(ctx context.Context, id string) (*model.UserEntity, error)
	FindByEmail(ctx context.Context, email string) (*model.UserEntity, error)
	FindByName(ctx context.Context, name string) (*model.UserEntity, error)
	List(ctx context.Context) ([]*model.UserEntity, error)
	Update(ctx context.Context, user *model.UserEntity) error
}

// Service gerencia registro, login e manutenção da própria conta
type Service struct {
	userRepo   UserRepository
	hasher     *security.Hasher
	keyManager *security.KeyManager
	tokenTTL   time.Duration
	logger     *zap.Logger
}

// NewService cria um novo serviço de autenticação
func NewService(userRepo UserRepository, hasher *security.Hasher, keyManager *security.KeyManager, tokenTTL time.Duration, logger *zap.Logger) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{
		userRepo:   userRepo,
		hasher:     hasher,
		keyManager: keyManager,
		tokenTTL:   tokenTTL,
		logger:     logger,
	}
}

// RegisterInput são os dados de cadastro de um novo usuário
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Register cria uma nova conta. Nome e email são comparados de forma
// exata com os valores armazenados; qualquer coincidência é conflito.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, apierrors.BadRequest("Nome, email e senha são obrigatórios", nil)
	}

	if input.Role == "" {
		input.Role = model.RoleDriver
	}
	if !model.ValidRole(input.Role) {
		return nil, apierrors.BadRequest("Tipo de usuário inválido", nil)
	}

	if _, err := s.userRepo.FindByName(ctx, input.Name); err == nil {
		return nil, apierrors.Conflict("Usuário ou email já cadastrado", nil)
	} else if !errors.Is(err, apierrors.ErrNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.FindByEmail(ctx, input.Email); err == nil {
		return nil, apierrors.Conflict("Usuário ou email já cadastrado", nil)
	} else if !errors.Is(err, apierrors.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.logger.Error("falha ao gerar hash da senha", zap.Error(err))
		return nil, apierrors.InternalServer("Erro ao processar senha", err)
	}

	user := &model.UserEntity{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		Active:       true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// O índice único de email é a garantia final sob concorrência.
		if errors.Is(err, apierrors.ErrDuplicate) {
			return nil, apierrors.Conflict("Usuário ou email já cadastrado", err)
		}
		return nil, err
	}

	s.logger.Info("usuário registrado", zap.String("id", user.ID), zap.String("email", user.Email))
	return user.ToUser(), nil
}

// Login autentica por email e senha e emite um token JWT.
// Contas inativas e senhas incorretas recebem a mesma resposta genérica.
func (s *Service) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	if email == "" || password == "" {
		return "", nil, apierrors.BadRequest("Email e senha são obrigatórios", nil)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apierrors.ErrNotFound) {
			return "", nil, apierrors.Unauthorized(genericLoginMessage, nil)
		}
		return "", nil, err
	}

	if !user.Active || !s.hasher.Verify(password, user.PasswordHash) {
		s.logger.Warn("falha na autenticação", zap.String("email", email))
		return "", nil, apierrors.Unauthorized(genericLoginMessage, nil)
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("falha ao atualizar último login", zap.String("id", user.ID), zap.Error(err))
		return "", nil, err
	}

	token, err := s.keyManager.GenerateToken(user.ID, user.Name, user.Email, user.Role, s.tokenTTL)
	if err != nil {
		return "", nil, apierrors.InternalServer("Erro ao gerar token", err)
	}

	s.logger.Info("login bem-sucedido", zap.String("id", user.ID))
	return token, user.ToUser(), nil
}

// CurrentUser busca a conta referida pelas claims de um token já verificado
func (s *Service) CurrentUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apierrors.ErrNotFound) {
			return nil, apierrors.NotFound("Usuário", err)
		}
		return nil, err
	}
	return user.ToUser(), nil
}

// UpdateProfileInput são os campos atualizáveis da própria conta.
// Campos vazios são mantidos como estão (atualização parcial).
type UpdateProfileInput struct {
	Name            string
	Email           string
	Role            string
	CurrentPassword string
	NewPassword     string
}

// UpdateProfile aplica uma atualização parcial na conta. Troca de senha
// exige senha atual e nova em conjunto, com verificação da atual.
func (s *Service) UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apierrors.ErrNotFound) {
			return nil, apierrors.NotFound("Usuário", err)
		}
		return nil, err
	}

	changingPassword := input.CurrentPassword != "" || input.NewPassword != ""
	if changingPassword {
		if input.CurrentPassword == "" || input.NewPassword == "" {
			return nil, apierrors.BadRequest("Senha atual e nova senha devem ser informadas em conjunto", nil)
		}
		if !s.hasher.Verify(input.CurrentPassword, user.PasswordHash) {
			return nil, apierrors.BadRequest("Senha atual incorreta", nil)
		}
		hash, err := s.hasher.Hash(input.NewPassword)
		if err != nil {
			s.logger.Error("falha ao gerar hash da senha", zap.Error(err))
			return nil, apierrors.InternalServer("Erro ao processar senha", err)
		}
		user.PasswordHash = hash
	}

	if input.Email != "" && input.Email != user.Email {
		if existing, err := s.userRepo.FindByEmail(ctx, input.Email); err == nil && existing.ID != user.ID {
			return nil, apierrors.Conflict("Email já cadastrado para outro usuário", nil)
		} else if err != nil && !errors.Is(err, apierrors.ErrNotFound) {
			return nil, err
		}
		user.Email = input.Email
	}
	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Role != "" {
		if !model.ValidRole(input.Role) {
			return nil, apierrors.BadRequest("Tipo de usuário inválido", nil)
		}
		user.Role = input.Role
	}

	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, apierrors.ErrDuplicate) {
			return nil, apierrors.Conflict("Email já cadastrado para outro usuário", err)
		}
		return nil, err
	}

	return user.ToUser(), nil
}

// Deactivate desativa a conta (exclusão lógica); a linha é preservada
func (s *Service) Deactivate(ctx context.Context, id string) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apierrors.ErrNotFound) {
			return apierrors.NotFound("Usuário", err)
		}
		return err
	}

	user.Active = false
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("usuário desativado", zap.String("id", id))
	return nil
}

// GenerateToken emite um token com a expiração padrão do serviço
func (s *Service) GenerateToken(id, name, email, role string) (string, error) {
	return s.keyManager.GenerateToken(id, name, email, role, s.tokenTTL)
}

// VerifyToken valida um token e retorna o usuário ativo correspondente.
// Usuário inexistente ou desativado invalida o token.
func (s *Service) VerifyToken(ctx context.Context, tokenString string) (*model.User, *security.Claims, error) {
	claims, err := s.keyManager.VerifyToken(tokenString)
	if err != nil {
		return nil, nil, apierrors.Unauthorized("Token inválido ou expirado. Faça login novamente", err)
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apierrors.ErrNotFound) {
			return nil, nil, apierrors.Unauthorized("O usuário associado a este token não existe mais", err)
		}
		return nil, nil, err
	}

	if !user.Active {
		return nil, nil, apierrors.Unauthorized("Esta conta foi desativada. Entre em contato com o administrador", nil)
	}

	return user.ToUser(), claims, nil
}
