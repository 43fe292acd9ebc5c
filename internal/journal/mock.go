package journal

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mrz1836/go-syncguard/internal/testutil"
)

// MockRecorder is a mock implementation of the Recorder interface
type MockRecorder struct {
	mock.Mock
}

// Record mock implementation
func (m *MockRecorder) Record(ctx context.Context, entry *Entry) error {
	args := m.Called(ctx, entry)
	return testutil.ExtractError(args)
}
