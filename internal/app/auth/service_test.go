package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fleetwise/fleetwise-api/internal/app/auth"
	"github.com/fleetwise/fleetwise-api/internal/domain/model"
	"github.com/fleetwise/fleetwise-api/internal/mocks"
	"github.com/fleetwise/fleetwise-api/internal/testutils"
	apierrors "github.com/fleetwise/fleetwise-api/pkg/errors"
	"github.com/fleetwise/fleetwise-api/pkg/security"
)

func newTestService(t *testing.T, repo *mocks.MockUserRepository) (*auth.Service, *security.Hasher) {
	logger := testutils.TestLogger(t)
	hasher := security.NewHasher(bcrypt.MinCost)
	keyManager := security.NewKeyManager("um-segredo-de-teste-com-32-caracteres!", logger)
	return auth.NewService(repo, hasher, keyManager, time.Hour, logger), hasher
}

func TestAuthService_Register(t *testing.T) {
	t.Run("creates user with hashed password", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()

		mockRepo := new(mocks.MockUserRepository)
		service, hasher := newTestService(t, mockRepo)

		mockRepo.On("FindByName", mock.Anything, "João").
			Return(nil, apierrors.ErrNotFound).Once()
		mockRepo.On("FindByEmail", mock.Anything, "joao@example.com").
			Return(nil, apierrors.ErrNotFound).Once()

		var created *model.UserEntity
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.UserEntity")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*model.UserEntity)
			}).
			Return(nil).Once()

		user, err := service.Register(ctx, auth.RegisterInput{
			Name:     "João",
			Email:    "joao@example.com",
			Password: "senha-forte",
		})

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.NotEmpty(t, created.ID)
		assert.NotEqual(t, "senha-forte", created.PasswordHash)
		assert.True(t, hasher.Verify("senha-forte", created.PasswordHash))
		// Role defaults to motorista when omitted
		assert.Equal(t, model.RoleDriver, created.Role)
		assert.True(t, created.Active)
		assert.Equal(t, "joao@example.com", user.Email)
		mockRepo.AssertExpectations(t)
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()

		mockRepo := new(mocks.MockUserRepository)
		service, _ := newTestService(t, mockRepo)

		mockRepo.On("FindByName", mock.Anything, "João").
			Return(&model.UserEntity{ID: "existing"}, nil).Once()

		_, err := service.Register(ctx, auth.RegisterInput{
			Name:     "João",
			Email:    "novo@example.com",
			Password: "senha-forte",
		})

		require.Error(t, err)
		assert.Equal(t, 400, apierrors.FromError(err).Code)
		assert.Equal(t, "Usuário ou email já cadastrado", apierrors.FromError(err).Message)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()

		mockRepo := new(mocks.MockUserRepository)
		service, _ := newTestService(t, mockRepo)

		mockRepo.On("FindByName", mock.Anything, "Maria").
			Return(nil, apierrors.ErrNotFound).Once()
		mockRepo.On("FindByEmail", mock.Anything, "maria@example.com").
			Return(&model.UserEntity{ID: "existing"}, nil).Once()

		_, err := service.Register(ctx, auth.RegisterInput{
			Name:     "Maria",
			Email:    "maria@example.com",
			Password: "senha-forte",
		})

		require.Error(t, err)
		assert.Equal(t, "Usuário ou email já cadastrado", apierrors.FromError(err).Message)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("maps unique index violation to conflict", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()

		mockRepo := new(mocks.MockUserRepository)
		service, _ := newTestService(t, mockRepo)

		mockRepo.On("FindByName", mock.Anything, "Ana").
			Return(nil, apierrors.ErrNotFound).Once()
		mockRepo.On("FindByEmail", mock.Anything, "ana@example.com").
			Return(nil, apierrors.ErrNotFound).Once()
		// A concurrent insert between the check and the write
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.UserEntity")).
			Return(apierrors.ErrDuplicate).Once()

		_, err := service.Register(ctx, auth.RegisterInput{
			Name:     "Ana",
			Email:    "ana@example.com",
			Password: "senha-forte",
		})

		require.Error(t, err)
		assert.True(t, apierrors.IsConflict(err))
		assert.Equal(t, 400, apierrors.FromError(err).Code)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()

		mockRepo := new(mocks.MockUserRepository)
		service, _ := newTestService(t, mockRepo)

		_, err := service.Register(ctx, auth.RegisterInput{Name: "Só o nome"})
		require.Error(t, err)
		assert.Equal(t, 400, apierrors.FromError(err).Code)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()

		mockRepo := new(mocks.MockUserRepository)
		service, _ := newTestService(t, mockRepo)

		_, err := service.Register(ctx, auth.RegisterInput{
			Name:     "Ana",
			Email:    "ana@example.com",
			Password: "senha-forte",
			Role:     "superuser",
		})
		require.Error(t, err)
		assert.Equal(t, 400, apierrors.FromError(err).Code)
	})
}

func TestAuthService_Login(t *testing.T) {
	makeUser := func(t *testing.T, hasher *security.Hasher, active bool) *model.UserEntity {
		hash, err := hasher.Hash("senha-correta")
		require.NoError(t, err)
		return &model.UserEntity{
			ID:           "user-1",
			Name:         "Maria",
			Email:        "maria@example.com",
			PasswordHash: hash,
			Role:         model.RoleManager,
			Active:       active,
		}
	}

	t.Run("issues token and records last login", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()

		mockRepo := new(mocks.MockUserRepository)
		service, hasher := newTestService(t, mockRepo)
		entity := makeUser(t, hasher, true)

		mockRepo.On("FindByEmail", mock.Anything, "maria@example.com").
			Return(entity, nil).Once()
		mockRepo.On("Update", mock.Anything, entity).
			Return(nil).Once()

		token, user, err := service.Login(ctx, "maria@example.com", "senha-correta")

		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "user-1", user.ID)
		require.NotNil(t, entity.LastLogin)
		assert.WithinDuration(t, time.Now(), *entity.LastLogin, time.Minute)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown email gets generic message", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()

		mockRepo := new(mocks.MockUserRepository)
		service, _ := newTestService(t, mockRepo)

		mockRepo.On("FindByEmail", mock.Anything, "naoexiste@example.com").
			Return(nil, apierrors.ErrNotFound).Once()

		_, _, err := service.Login(ctx, "naoexiste@example.com", "qualquer")

		require.Error(t, err)
		apiErr := apierrors.FromError(err)
		assert.Equal(t, 401, apiErr.Code)
		assert.Equal(t, "Usuário ou senha inválidos", apiErr.Message)
	})

	t.Run("wrong password gets the same generic message", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()

		mockRepo := new(mocks.MockUserRepository)
		service, hasher := newTestService(t, mockRepo)

		mockRepo.On("FindByEmail", mock.Anything, "maria@example.com").
			Return(makeUser(t, hasher, true), nil).Once()

		_, _, err := service.Login(ctx, "maria@example.com", "senha-errada")

		require.Error(t, err)
		apiErr := apierrors.FromError(err)
		assert.Equal(t, 401, apiErr.Code)
		assert.Equal(t, "Usuário ou senha inválidos", apiErr.Message)
		mockRepo.AssertNotCalled(t, "Update")
	})

	t.Run("inactive account cannot login even with right password", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()

		mockRepo := new(mocks.MockUserRepository)
		service, hasher := newTestService(t, mockRepo)

		mockRepo.On("FindByEmail", mock.Anything, "maria@example.com").
			Return(makeUser(t, hasher, false), nil).Once()

		_, _, err := service.Login(ctx, "maria@example.com", "senha-correta")

		require.Error(t, err)
		apiErr := apierrors.FromError(err)
		assert.Equal(t, 401, apiErr.Code)
		assert.Equal(t, "Usuário ou senha inválidos", apiErr.Message)
	})
}

func TestAuthService_UpdateProfile(t *testing.T) {
	t.Run("password change requires both fields", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()

		mockRepo := new(mocks.MockUserRepository)
		service, hasher := newTestService(t, mockRepo)

		hash, err := hasher.Hash("senha-atual")
		require.NoError(t, err)
		mockRepo.On("FindByID", mock.Anything, "user-1").
			Return(&model.UserEntity{ID: "user-1", PasswordHash: hash}, nil).Once()

		_, err = service.UpdateProfile(ctx, "user-1", auth.UpdateProfileInput{
			NewPassword: "nova-senha",
		})

		require.Error(t, err)
		assert.Equal(t, 400, apierrors.FromError(err).Code)
		mockRepo.AssertNotCalled(t, "Update")
	})

	t.Run("rejects wrong current password", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()

		mockRepo := new(mocks.MockUserRepository)
		service, hasher := newTestService(t, mockRepo)

		hash, err := hasher.Hash("senha-atual")
		require.NoError(t, err)
		mockRepo.On("FindByID", mock.Anything, "user-1").
			Return(&model.UserEntity{ID: "user-1", PasswordHash: hash}, nil).Once()

		_, err = service.UpdateProfile(ctx, "user-1", auth.UpdateProfileInput{
			CurrentPassword: "senha-errada",
			NewPassword:     "nova-senha",
		})

		require.Error(t, err)
		assert.Equal(t, "Senha atual incorreta", apierrors.FromError(err).Message)
	})

	t.Run("changes password and keeps other fields", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()

		mockRepo := new(mocks.MockUserRepository)
		service, hasher := newTestService(t, mockRepo)

		hash, err := hasher.Hash("senha-atual")
		require.NoError(t, err)
		entity := &model.UserEntity{
			ID: "user-1", Name: "Maria", Email: "maria@example.com",
			PasswordHash: hash, Role: model.RoleManager, Active: true,
		}
		mockRepo.On("FindByID", mock.Anything, "user-1").Return(entity, nil).Once()
		mockRepo.On("Update", mock.Anything, entity).Return(nil).Once()

		user, err := service.UpdateProfile(ctx, "user-1", auth.UpdateProfileInput{
			CurrentPassword: "senha-atual",
			NewPassword:     "nova-senha",
		})

		require.NoError(t, err)
		assert.Equal(t, "Maria", user.Name)
		assert.True(t, hasher.Verify("nova-senha", entity.PasswordHash))
		mockRepo.AssertExpectations(t)
	})

	t.Run("rejects email already used by another account", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()

		mockRepo := new(mocks.MockUserRepository)
		service, _ := newTestService(t, mockRepo)

		mockRepo.On("FindByID", mock.Anything, "user-1").
			Return(&model.UserEntity{ID: "user-1", Email: "antigo@example.com"}, nil).Once()
		mockRepo.On("FindByEmail", mock.Anything, "tomado@example.com").
			Return(&model.UserEntity{ID: "user-2"}, nil).Once()

		_, err := service.UpdateProfile(ctx, "user-1", auth.UpdateProfileInput{
			Email: "tomado@example.com",
		})

		require.Error(t, err)
		assert.True(t, apierrors.IsConflict(err))
		mockRepo.AssertNotCalled(t, "Update")
	})
}

func TestAuthService_Deactivate(t *testing.T) {
	ctx, cancel := testutils.ContextWithTimeout(t)
	defer cancel()

	mockRepo := new(mocks.MockUserRepository)
	service, _ := newTestService(t, mockRepo)

	entity := &model.UserEntity{ID: "user-1", Active: true}
	mockRepo.On("FindByID", mock.Anything, "user-1").Return(entity, nil).Once()
	mockRepo.On("Update", mock.Anything, entity).Return(nil).Once()

	err := service.Deactivate(ctx, "user-1")

	require.NoError(t, err)
	assert.False(t, entity.Active)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_VerifyToken(t *testing.T) {
	t.Run("valid token for active user", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()

		mockRepo := new(mocks.MockUserRepository)
		service, _ := newTestService(t, mockRepo)

		token, err := service.GenerateToken("user-1", "Maria", "maria@example.com", model.RoleAdmin)
		require.NoError(t, err)

		mockRepo.On("FindByID", mock.Anything, "user-1").
			Return(&model.UserEntity{ID: "user-1", Name: "Maria", Active: true, Role: model.RoleAdmin}, nil).Once()

		user, claims, err := service.VerifyToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)
		assert.Equal(t, model.RoleAdmin, claims.Role)
	})

	t.Run("token of deleted user is rejected", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()

		mockRepo := new(mocks.MockUserRepository)
		service, _ := newTestService(t, mockRepo)

		token, err := service.GenerateToken("user-x", "Sumiu", "sumiu@example.com", model.RoleDriver)
		require.NoError(t, err)

		mockRepo.On("FindByID", mock.Anything, "user-x").
			Return(nil, apierrors.ErrNotFound).Once()

		_, _, err = service.VerifyToken(ctx, token)
		require.Error(t, err)
		assert.Equal(t, 401, apierrors.FromError(err).Code)
	})

	t.Run("token of deactivated user is rejected", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()

		mockRepo := new(mocks.MockUserRepository)
		service, _ := newTestService(t, mockRepo)

		token, err := service.GenerateToken("user-1", "Maria", "maria@example.com", model.RoleDriver)
		require.NoError(t, err)

		mockRepo.On("FindByID", mock.Anything, "user-1").
			Return(&model.UserEntity{ID: "user-1", Active: false}, nil).Once()

		_, _, err = service.VerifyToken(ctx, token)
		require.Error(t, err)
		assert.Equal(t, 401, apierrors.FromError(err).Code)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()

		mockRepo := new(mocks.MockUserRepository)
		service, _ := newTestService(t, mockRepo)

		_, _, err := service.VerifyToken(ctx, "nao-e-um-token")
		require.Error(t, err)
		assert.Equal(t, 401, apierrors.FromError(err).Code)
	})
}
