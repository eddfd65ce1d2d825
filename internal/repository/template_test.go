package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harvest/internal/domain"
	"harvest/internal/repository/dao"
)

func TestReportTemplateRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewReportTemplateRepository(dao.NewReportTemplateDAO(newTestDB(t)))

	first, err := repo.Create(ctx, domain.ReportTemplate{
		Name:     "Weekday",
		Sections: []byte(`{"weekday":["prayer"]}`),
		IsActive: true,
	})
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	second, err := repo.Create(ctx, domain.ReportTemplate{
		Name:     "Weekend",
		Sections: []byte(`{"weekend":["service"]}`),
	})
	require.NoError(t, err)

	t.Run("find active", func(t *testing.T) {
		active, err := repo.FindActive(ctx)

		require.NoError(t, err)
		assert.Equal(t, first.ID, active.ID)
	})

	t.Run("activate flips the single active flag", func(t *testing.T) {
		require.NoError(t, repo.Activate(ctx, second.ID))

		active, err := repo.FindActive(ctx)
		require.NoError(t, err)
		assert.Equal(t, second.ID, active.ID)

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		activeCount := 0
		for _, tmpl := range all {
			if tmpl.IsActive {
				activeCount++
			}
		}
		assert.Equal(t, 1, activeCount)
	})

	t.Run("activate unknown id", func(t *testing.T) {
		err := repo.Activate(ctx, 999)

		assert.ErrorIs(t, err, ErrTemplateNotFound)
	})

	t.Run("sections survive the round trip", func(t *testing.T) {
		got, err := repo.FindByID(ctx, first.ID)

		require.NoError(t, err)
		assert.JSONEq(t, `{"weekday":["prayer"]}`, string(got.Sections))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, first.ID))

		_, err := repo.FindByID(ctx, first.ID)
		assert.ErrorIs(t, err, ErrTemplateNotFound)
	})

	t.Run("no active template after deleting the active one", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, second.ID))

		_, err := repo.FindActive(ctx)
		assert.ErrorIs(t, err, ErrNoActiveTemplate)
	})
}
