package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileMaintenanceStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maintenance.json")
	store := NewFileMaintenanceStore(path)

	t.Run("missing file means disabled", func(t *testing.T) {
		enabled, err := store.Get()

		require.NoError(t, err)
		assert.False(t, enabled)
	})

	t.Run("set persists across instances", func(t *testing.T) {
		require.NoError(t, store.Set(true))

		enabled, err := NewFileMaintenanceStore(path).Get()

		require.NoError(t, err)
		assert.True(t, enabled)
	})
}

func TestMaintenanceToggle(t *testing.T) {
	svc := NewMaintenanceService(NewMemoryMaintenanceStore())

	enabled, err := svc.Status()
	require.NoError(t, err)
	assert.False(t, enabled)

	enabled, err = svc.Toggle()
	require.NoError(t, err)
	assert.True(t, enabled)

	enabled, err = svc.Toggle()
	require.NoError(t, err)
	assert.False(t, enabled)
}
