package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/fleetwise/fleetwise-api/internal/domain/model"
)

// MockDriverRepository é um mock para o driver.Repository
type MockDriverRepository struct {
	mock.Mock
}

func (m *MockDriverRepository) Create(ctx context.Context, driver *model.Driver) error {
	args := m.Called(ctx, driver)
	return args.Error(0)
}

func (m *MockDriverRepository) FindByID(ctx context.Context, id uint) (*model.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Driver), args.Error(1)
}

func (m *MockDriverRepository) FindByCPF(ctx context.Context, cpf string) (*model.Driver, error) {
	args := m.Called(ctx, cpf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Driver), args.Error(1)
}

func (m *MockDriverRepository) FindByCNH(ctx context.Context, cnh string) (*model.Driver, error) {
	args := m.Called(ctx, cnh)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Driver), args.Error(1)
}

func (m *MockDriverRepository) List(ctx context.Context) ([]*model.Driver, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Driver), args.Error(1)
}

func (m *MockDriverRepository) Update(ctx context.Context, driver *model.Driver) error {
	args := m.Called(ctx, driver)
	return args.Error(0)
}
