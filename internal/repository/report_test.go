package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harvest/internal/domain"
	"harvest/internal/repository/dao"
)

func TestReportRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	reports := NewReportRepository(dao.NewReportDAO(db))
	users := NewUserRepository(dao.NewUserDAO(db))

	alice, err := users.Create(ctx, domain.User{
		Fullname: "Alice", Email: "alice@example.com", Password: "x",
		Role: domain.RoleMember, Country: "Kenya",
	})
	require.NoError(t, err)
	bob, err := users.Create(ctx, domain.User{
		Fullname: "Bob", Email: "bob@example.com", Password: "x",
		Role: domain.RoleMember, Country: "France",
	})
	require.NoError(t, err)

	day1 := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)
	day3 := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)

	mk := func(userID uint, date time.Time, hours float64) domain.Report {
		rep, err := reports.Create(ctx, domain.Report{
			UserID: userID, Date: date, Name: "n", Country: "c",
			EvangelismHours: hours,
		})
		require.NoError(t, err)

		return rep
	}

	r1 := mk(alice.ID, day1, 1)
	mk(alice.ID, day2, 2)
	mk(bob.ID, day3, 3)

	t.Run("attachments round trip", func(t *testing.T) {
		saved, err := reports.AddAttachments(ctx, r1.ID, []domain.Attachment{
			{FileURL: "/uploads/a.png", FileType: "image/png"},
			{FileURL: "/uploads/b.pdf", FileType: "application/pdf"},
		})
		require.NoError(t, err)
		require.Len(t, saved, 2)

		got, err := reports.FindByID(ctx, r1.ID)
		require.NoError(t, err)
		assert.Len(t, got.Attachments, 2)
	})

	t.Run("find in scope by users", func(t *testing.T) {
		got, err := reports.FindInScope(ctx, []uint{alice.ID}, nil, nil)

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.True(t, got[0].Date.Before(got[1].Date), "ascending by date")
	})

	t.Run("nil user list means no restriction", func(t *testing.T) {
		got, err := reports.FindInScope(ctx, nil, nil, nil)

		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("date range is inclusive", func(t *testing.T) {
		end := day2
		got, err := reports.FindInScope(ctx, nil, &day2, &end)

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, alice.ID, got[0].UserID)
	})

	t.Run("open-ended start", func(t *testing.T) {
		got, err := reports.FindInScope(ctx, nil, &day3, nil)

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, bob.ID, got[0].UserID)
	})

	t.Run("update preserves attachments rows", func(t *testing.T) {
		rep, err := reports.FindByID(ctx, r1.ID)
		require.NoError(t, err)

		rep.EvangelismHours = 9
		_, err = reports.Update(ctx, rep)
		require.NoError(t, err)

		got, err := reports.FindByID(ctx, r1.ID)
		require.NoError(t, err)
		assert.InDelta(t, 9, got.EvangelismHours, 0.001)
		assert.Len(t, got.Attachments, 2)
	})

	t.Run("delete cascades attachments", func(t *testing.T) {
		require.NoError(t, reports.Delete(ctx, r1.ID))

		_, err := reports.FindByID(ctx, r1.ID)
		assert.ErrorIs(t, err, ErrReportNotFound)

		var count int64
		require.NoError(t, db.Model(&dao.Attachment{}).Where("report_id = ?", r1.ID).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("missing report", func(t *testing.T) {
		_, err := reports.FindByID(ctx, 9999)

		assert.ErrorIs(t, err, ErrReportNotFound)
	})
}
