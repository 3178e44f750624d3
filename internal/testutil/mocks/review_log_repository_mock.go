package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/creatorblue32/bonsai-medical/internal/models"
	"github.com/creatorblue32/bonsai-medical/internal/repository"
)

// MockReviewLogRepository is a mock implementation of repository.ReviewLogRepository
type MockReviewLogRepository struct {
	mock.Mock
}

func (m *MockReviewLogRepository) Insert(ctx context.Context, rec models.ReviewRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockReviewLogRepository) ListByProfile(ctx context.Context, profileID int64, filter repository.ReviewFilter) ([]models.ReviewRecord, error) {
	args := m.Called(ctx, profileID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReviewRecord), args.Error(1)
}
