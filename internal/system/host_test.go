package system

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostSourceDiskUsage(t *testing.T) {
	src := NewHostSource(0)
	assert.Equal(t, DefaultCPUWindow, src.Window())

	usage, err := src.DiskUsage(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Greater(t, usage.TotalBytes, uint64(0))
	assert.LessOrEqual(t, usage.FreeBytes, usage.TotalBytes)
	assert.GreaterOrEqual(t, usage.FreePercent(), 0.0)
	assert.LessOrEqual(t, usage.FreePercent(), 100.0)
}

func TestHostSourceDiskUsageMissingPath(t *testing.T) {
	src := NewHostSource(0)
	missing := filepath.Join(t.TempDir(), "does", "not", "exist")

	_, err := src.DiskUsage(context.Background(), missing)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPathUnreadable)
	assert.Contains(t, err.Error(), missing)
}

func TestClampPercent(t *testing.T) {
	assert.Equal(t, 0.0, clampPercent(-3))
	assert.Equal(t, 55.5, clampPercent(55.5))
	assert.Equal(t, 100.0, clampPercent(180))
}
