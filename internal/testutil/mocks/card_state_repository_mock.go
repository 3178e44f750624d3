package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/creatorblue32/bonsai-medical/internal/models"
)

// MockCardStateRepository is a mock implementation of repository.CardStateRepository
type MockCardStateRepository struct {
	mock.Mock
}

func (m *MockCardStateRepository) Load(ctx context.Context, profileID int64) (map[string]models.CardState, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]models.CardState), args.Error(1)
}

func (m *MockCardStateRepository) Upsert(ctx context.Context, profileID int64, state models.CardState) error {
	args := m.Called(ctx, profileID, state)
	return args.Error(0)
}

func (m *MockCardStateRepository) SaveAll(ctx context.Context, profileID int64, states map[string]models.CardState) error {
	args := m.Called(ctx, profileID, states)
	return args.Error(0)
}
