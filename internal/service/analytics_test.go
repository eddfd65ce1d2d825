package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harvest/internal/domain"
)

type stubAnalyticsUsers struct {
	users []domain.User
}

func (s *stubAnalyticsUsers) FindByID(_ context.Context, id uint) (domain.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}

	return domain.User{}, ErrUserNotFound
}

func (s *stubAnalyticsUsers) FindAll(_ context.Context) ([]domain.User, error) {
	return s.users, nil
}

func (s *stubAnalyticsUsers) FindByCountry(_ context.Context, country string) ([]domain.User, error) {
	out := make([]domain.User, 0)
	for _, u := range s.users {
		if u.Country == country {
			out = append(out, u)
		}
	}

	return out, nil
}

type stubAnalyticsReports struct {
	reports []domain.Report
}

func (s *stubAnalyticsReports) FindForUsers(_ context.Context, userIDs []uint, from, to time.Time) ([]domain.Report, error) {
	ids := make(map[uint]bool, len(userIDs))
	for _, id := range userIDs {
		ids[id] = true
	}

	out := make([]domain.Report, 0)
	for _, r := range s.reports {
		if ids[r.UserID] && !r.Date.Before(from) && !r.Date.After(to) {
			out = append(out, r)
		}
	}

	return out, nil
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestParseWindow(t *testing.T) {
	assert.Equal(t, 7, ParseWindow("week"))
	assert.Equal(t, 30, ParseWindow("month"))
	assert.Equal(t, 365, ParseWindow("year"))
	assert.Equal(t, 30, ParseWindow(""))
	assert.Equal(t, 30, ParseWindow("fortnight"))
}

func TestComputeMemberStats(t *testing.T) {
	user := domain.User{ID: 1, Fullname: "Alice", Country: "Kenya"}
	today := day(2026, 8, 30)

	t.Run("full week", func(t *testing.T) {
		reports := make([]domain.Report, 0, 7)
		for i := 0; i < 7; i++ {
			reports = append(reports, domain.Report{
				UserID:          1,
				Date:            today.AddDate(0, 0, -i),
				EvangelismHours: 1.5,
			})
		}

		stats := ComputeMemberStats(user, reports, 7, today)

		assert.Equal(t, 7, stats.ReportsSubmitted)
		assert.Equal(t, 100, stats.CompletionRate)
		assert.Equal(t, 7, stats.CurrentStreak)
		assert.Equal(t, 0, stats.MissedDays)
		assert.InDelta(t, 10.5, stats.TotalEvangelismHours, 0.001)
		require.NotNil(t, stats.LastReportDate)
		assert.Equal(t, today, *stats.LastReportDate)
	})

	t.Run("no reports", func(t *testing.T) {
		stats := ComputeMemberStats(user, nil, 7, today)

		assert.Equal(t, 0, stats.ReportsSubmitted)
		assert.Equal(t, 0, stats.CompletionRate)
		assert.Equal(t, 0, stats.CurrentStreak)
		assert.Equal(t, 7, stats.MissedDays)
		assert.Nil(t, stats.LastReportDate)
	})

	t.Run("streak requires a report today", func(t *testing.T) {
		reports := []domain.Report{
			{UserID: 1, Date: today.AddDate(0, 0, -1)},
			{UserID: 1, Date: today.AddDate(0, 0, -2)},
		}

		stats := ComputeMemberStats(user, reports, 7, today)

		assert.Equal(t, 0, stats.CurrentStreak)
		assert.Equal(t, 2, stats.ReportsSubmitted)
	})

	t.Run("streak stops at the first gap", func(t *testing.T) {
		reports := []domain.Report{
			{UserID: 1, Date: today},
			{UserID: 1, Date: today.AddDate(0, 0, -1)},
			{UserID: 1, Date: today.AddDate(0, 0, -3)},
		}

		stats := ComputeMemberStats(user, reports, 7, today)

		assert.Equal(t, 2, stats.CurrentStreak)
	})

	t.Run("duplicate days count once toward the streak", func(t *testing.T) {
		reports := []domain.Report{
			{UserID: 1, Date: today},
			{UserID: 1, Date: today.Add(4 * time.Hour)},
			{UserID: 1, Date: today.AddDate(0, 0, -1)},
		}

		stats := ComputeMemberStats(user, reports, 7, today)

		assert.Equal(t, 2, stats.CurrentStreak)
		assert.Equal(t, 3, stats.ReportsSubmitted)
	})

	t.Run("duplicates can drive missed days negative", func(t *testing.T) {
		reports := make([]domain.Report, 0, 10)
		for i := 0; i < 10; i++ {
			reports = append(reports, domain.Report{UserID: 1, Date: today})
		}

		stats := ComputeMemberStats(user, reports, 7, today)

		assert.Equal(t, 10, stats.ReportsSubmitted)
		assert.Equal(t, -3, stats.MissedDays)
		assert.Equal(t, 143, stats.CompletionRate)
	})

	t.Run("rate rounds to nearest", func(t *testing.T) {
		reports := []domain.Report{
			{UserID: 1, Date: today},
			{UserID: 1, Date: today.AddDate(0, 0, -1)},
		}

		stats := ComputeMemberStats(user, reports, 7, today)

		// 2/7 = 28.57...
		assert.Equal(t, 29, stats.CompletionRate)
	})
}

func TestAnalyticsBuild(t *testing.T) {
	today := day(2026, 8, 30)

	users := &stubAnalyticsUsers{users: []domain.User{
		{ID: 1, Fullname: "Alice", Role: domain.RoleMember, Country: "Kenya"},
		{ID: 2, Fullname: "Bob", Role: domain.RoleMember, Country: "Kenya"},
		{ID: 3, Fullname: "Carol", Role: domain.RoleLeader, Country: "France"},
		{ID: 4, Fullname: "Root", Role: domain.RoleAdmin},
	}}
	reports := &stubAnalyticsReports{reports: []domain.Report{
		{UserID: 1, Date: today, EvangelismHours: 2},
		{UserID: 1, Date: today.AddDate(0, 0, -1), EvangelismHours: 1},
		{UserID: 2, Date: today.AddDate(0, 0, -2)},
	}}

	newSvc := func() *AnalyticsService {
		svc := NewAnalyticsService(users, reports)
		svc.now = func() time.Time { return today }

		return svc
	}

	t.Run("admin sees all non-admin users with country rollup", func(t *testing.T) {
		summary, err := newSvc().Build(context.Background(), domain.User{ID: 4, Role: domain.RoleAdmin}, "week")

		require.NoError(t, err)
		assert.Equal(t, "week", summary.Range)
		assert.Equal(t, 7, summary.ExpectedDays)
		assert.Equal(t, 3, summary.TotalMembers)
		assert.Equal(t, 3, summary.TotalReports)
		assert.InDelta(t, 3.0, summary.TotalEvangelismHours, 0.001)
		assert.Equal(t, 2, summary.TopStreak)
		assert.Len(t, summary.CountryStats, 2)
		assert.Equal(t, "Kenya", summary.CountryStats[0].Country)
		assert.Equal(t, 2, summary.CountryStats[0].Members)
	})

	t.Run("leader sees own country only, no rollup", func(t *testing.T) {
		viewer := domain.User{ID: 3, Role: domain.RoleLeader, Country: "France"}

		summary, err := newSvc().Build(context.Background(), viewer, "month")

		require.NoError(t, err)
		assert.Equal(t, 1, summary.TotalMembers)
		assert.Equal(t, "Carol", summary.Members[0].Fullname)
		assert.Empty(t, summary.CountryStats)
	})

	t.Run("member sees only themselves", func(t *testing.T) {
		viewer := domain.User{ID: 1, Role: domain.RoleMember, Country: "Kenya"}

		summary, err := newSvc().Build(context.Background(), viewer, "")

		require.NoError(t, err)
		assert.Equal(t, "month", summary.Range)
		assert.Equal(t, 30, summary.ExpectedDays)
		require.Len(t, summary.Members, 1)
		assert.Equal(t, 2, summary.Members[0].ReportsSubmitted)
		assert.Equal(t, 2, summary.Members[0].CurrentStreak)
	})

	t.Run("empty user set yields zeroed summary", func(t *testing.T) {
		svc := NewAnalyticsService(&stubAnalyticsUsers{}, reports)
		svc.now = func() time.Time { return today }

		summary, err := svc.Build(context.Background(), domain.User{ID: 4, Role: domain.RoleAdmin}, "week")

		require.NoError(t, err)
		assert.Zero(t, summary.TotalMembers)
		assert.Zero(t, summary.AverageCompletion)
		assert.Empty(t, summary.Members)
	})
}
