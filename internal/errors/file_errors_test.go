package errors //nolint:revive,nolintlint // internal test package, name conflict intentional

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTestPermission = errors.New("permission denied")

func TestFileOperationError(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		path      string
		err       error
		want      string
		wantNil   bool
	}{
		{
			name:      "read operation error",
			operation: "read",
			path:      "/path/to/gdrive.prf",
			err:       errTestPermission,
			want:      "file operation failed: read '/path/to/gdrive.prf': permission denied",
		},
		{
			name:      "nil error returns nil",
			operation: "read",
			path:      "/path/to/gdrive.prf",
			wantNil:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FileOperationError(tt.operation, tt.path, tt.err)
			if tt.wantNil {
				assert.NoError(t, err)
				return
			}
			require.EqualError(t, err, tt.want)
			require.ErrorIs(t, err, errFileOperationTemplate)
			require.ErrorIs(t, err, errTestPermission)
		})
	}
}

func TestFileConvenienceFunctions(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string, error) error
		op   string
	}{
		{"read", FileReadError, "read"},
		{"write", FileWriteError, "write"},
		{"open", FileOpenError, "open"},
		{"create", FileCreateError, "create"},
		{"delete", FileDeleteError, "delete"},
		{"stat", FileStatError, "stat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn("/u/ar123", errTestPermission)
			require.EqualError(t, err, "file operation failed: "+tt.op+" '/u/ar123': permission denied")
			assert.NoError(t, tt.fn("/u/ar123", nil))
		})
	}
}

func TestDirectoryConvenienceFunctions(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string, error) error
		op   string
	}{
		{"create", DirectoryCreateError, "create"},
		{"read", DirectoryReadError, "read"},
		{"walk", DirectoryWalkError, "walk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn("/u/backups", errTestPermission)
			require.EqualError(t, err, "directory operation failed: "+tt.op+" '/u/backups': permission denied")
			require.ErrorIs(t, err, errDirectoryOperationTemplate)
			assert.NoError(t, tt.fn("/u/backups", nil))
		})
	}
}
