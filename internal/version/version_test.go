package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGet(t *testing.T) {
	t.Cleanup(Reset)

	Set("v1.4.0", "abc1234", "2026-01-02")
	assert.Equal(t, "v1.4.0", Get())
	assert.False(t, IsDev())

	info := GetInfo()
	assert.Equal(t, "abc1234", info.Commit)
	assert.Equal(t, "2026-01-02", info.BuildDate)
	assert.Equal(t, runtime.Version(), info.GoVersion)

	Set("", "", "")
	assert.Equal(t, "v1.4.0", Get())
}

func TestSatisfies(t *testing.T) {
	tests := []struct {
		name       string
		current    string
		constraint string
		want       bool
		wantErr    bool
	}{
		{"empty constraint", "v1.0.0", "", true, false},
		{"meets", "v1.4.0", ">= 1.2", true, false},
		{"too old", "v1.1.0", ">= 1.2", false, false},
		{"range", "v2.0.0", ">= 1.2, < 2", false, false},
		{"dev build", "dev", ">= 9", true, false},
		{"bad constraint", "v1.0.0", "not-a-constraint!!", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := satisfies(tt.current, tt.constraint)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
