package validation

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mrz1836/go-syncguard/internal/detect"
	"github.com/mrz1836/go-syncguard/internal/recovery"
)

// MockFixer is a mock implementation of the Fixer interface
type MockFixer struct {
	mock.Mock
}

// RegenerateProfile mock implementation
func (m *MockFixer) RegenerateProfile(ctx context.Context, name string, dryRun bool) *recovery.RegenerateResult {
	args := m.Called(ctx, name, dryRun)
	if result, ok := args.Get(0).(*recovery.RegenerateResult); ok {
		return result
	}
	return &recovery.RegenerateResult{Profile: name, DryRun: dryRun}
}

// CleanupArchives mock implementation
func (m *MockFixer) CleanupArchives(ctx context.Context, corrupted []detect.ArtifactResult, dryRun bool) *recovery.CleanupResult {
	args := m.Called(ctx, corrupted, dryRun)
	if result, ok := args.Get(0).(*recovery.CleanupResult); ok {
		return result
	}
	return &recovery.CleanupResult{DryRun: dryRun}
}
