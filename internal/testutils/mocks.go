package testutils

import (
	"context"

	"review-eval/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockSink struct {
	mock.Mock
}

func (m *MockSink) Append(ctx context.Context, records []models.RatingRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}
