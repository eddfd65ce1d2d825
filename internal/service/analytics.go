package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"harvest/internal/domain"
)

const (
	windowWeek  = 7
	windowMonth = 30
	windowYear  = 365
)

// ParseWindow maps a range name to its nominal day count. The
// denominator is fixed at the window length regardless of user tenure.
func ParseWindow(name string) int {
	switch name {
	case "week":
		return windowWeek
	case "year":
		return windowYear
	case "month", "":
		return windowMonth
	default:
		return windowMonth
	}
}

type AnalyticsUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	FindByCountry(ctx context.Context, country string) ([]domain.User, error)
}

type AnalyticsReportRepository interface {
	FindForUsers(ctx context.Context, userIDs []uint, from, to time.Time) ([]domain.Report, error)
}

type AnalyticsService struct {
	users   AnalyticsUserRepository
	reports AnalyticsReportRepository
	now     func() time.Time
}

func NewAnalyticsService(users AnalyticsUserRepository, reports AnalyticsReportRepository) *AnalyticsService {
	return &AnalyticsService{
		users:   users,
		reports: reports,
		now:     time.Now,
	}
}

// Build computes the performance summary for the users visible to the
// viewer: admin sees all non-admin users, a leader their own country's
// non-admin users, a member only themselves.
func (s *AnalyticsService) Build(ctx context.Context, viewer domain.User, rangeName string) (domain.AnalyticsSummary, error) {
	days := ParseWindow(rangeName)
	today := DateOnly(s.now())
	windowStart := today.AddDate(0, 0, -(days - 1))

	visible, err := s.visibleUsers(ctx, viewer)
	if err != nil {
		return domain.AnalyticsSummary{}, err
	}

	summary := domain.AnalyticsSummary{
		Range:          rangeName,
		ExpectedDays:   days,
		Members:        []domain.MemberStats{},
		TopPerformers:  []domain.MemberStats{},
		NeedsAttention: []domain.MemberStats{},
	}
	if rangeName == "" {
		summary.Range = "month"
	}
	if len(visible) == 0 {
		return summary, nil
	}

	reports, err := s.reports.FindForUsers(ctx, userIDs(visible), windowStart, EndOfDay(today))
	if err != nil {
		return domain.AnalyticsSummary{}, fmt.Errorf("s.reports.FindForUsers -> %w", err)
	}

	byUser := make(map[uint][]domain.Report, len(visible))
	for _, rep := range reports {
		byUser[rep.UserID] = append(byUser[rep.UserID], rep)
	}

	members := make([]domain.MemberStats, 0, len(visible))
	for _, u := range visible {
		members = append(members, ComputeMemberStats(u, byUser[u.ID], days, today))
	}
	summary.Members = members

	summary.TopPerformers = topPerformers(members, 10)
	summary.NeedsAttention = needsAttention(members, 70)
	if viewer.Role == domain.RoleAdmin {
		summary.CountryStats = countryRollup(members)
	}

	totalRate := 0
	for _, m := range members {
		summary.TotalReports += m.ReportsSubmitted
		summary.TotalEvangelismHours += m.TotalEvangelismHours
		totalRate += m.CompletionRate
		if m.CurrentStreak > summary.TopStreak {
			summary.TopStreak = m.CurrentStreak
		}
	}
	summary.TotalMembers = len(members)
	summary.AverageCompletion = roundRatio(totalRate, len(members))

	return summary, nil
}

func (s *AnalyticsService) visibleUsers(ctx context.Context, viewer domain.User) ([]domain.User, error) {
	switch viewer.Role {
	case domain.RoleAdmin:
		all, err := s.users.FindAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("s.users.FindAll -> %w", err)
		}
		return excludeAdmins(all), nil

	case domain.RoleLeader:
		all, err := s.users.FindByCountry(ctx, viewer.Country)
		if err != nil {
			return nil, fmt.Errorf("s.users.FindByCountry -> %w", err)
		}
		return excludeAdmins(all), nil

	case domain.RoleMember:
		self, err := s.users.FindByID(ctx, viewer.ID)
		if err != nil {
			return nil, fmt.Errorf("s.users.FindByID -> %w", err)
		}
		return []domain.User{self}, nil

	default:
		return nil, domain.ErrInvalidRole
	}
}

// ComputeMemberStats derives one user's window statistics. Duplicate
// reports on the same day all count toward reportsSubmitted (so
// missedDays can go negative) but a streak day counts once.
func ComputeMemberStats(user domain.User, reports []domain.Report, expectedDays int, today time.Time) domain.MemberStats {
	stats := domain.MemberStats{
		UserID:   user.ID,
		Fullname: user.Fullname,
		Country:  user.Country,
	}

	daysWithReport := make(map[time.Time]bool, len(reports))
	var last time.Time
	for _, rep := range reports {
		stats.ReportsSubmitted++
		stats.TotalEvangelismHours += rep.EvangelismHours

		day := DateOnly(rep.Date)
		daysWithReport[day] = true
		if day.After(last) {
			last = day
		}
	}

	if !last.IsZero() {
		lastCopy := last
		stats.LastReportDate = &lastCopy
	}

	// Walk backward from today; the streak is 0 unless today itself
	// has a report.
	for day := today; daysWithReport[day]; day = day.AddDate(0, 0, -1) {
		stats.CurrentStreak++
	}

	stats.CompletionRate = roundRatio(stats.ReportsSubmitted*100, expectedDays)
	stats.MissedDays = expectedDays - stats.ReportsSubmitted

	return stats
}

func topPerformers(members []domain.MemberStats, limit int) []domain.MemberStats {
	sorted := make([]domain.MemberStats, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CompletionRate > sorted[j].CompletionRate
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	return sorted
}

func needsAttention(members []domain.MemberStats, threshold int) []domain.MemberStats {
	flagged := make([]domain.MemberStats, 0)
	for _, m := range members {
		if m.CompletionRate < threshold {
			flagged = append(flagged, m)
		}
	}
	sort.SliceStable(flagged, func(i, j int) bool {
		return flagged[i].CompletionRate < flagged[j].CompletionRate
	})

	return flagged
}

func countryRollup(members []domain.MemberStats) []domain.CountryStats {
	type acc struct {
		count int
		total int
	}
	byCountry := make(map[string]*acc)
	for _, m := range members {
		a := byCountry[m.Country]
		if a == nil {
			a = &acc{}
			byCountry[m.Country] = a
		}
		a.count++
		a.total += m.CompletionRate
	}

	out := make([]domain.CountryStats, 0, len(byCountry))
	for country, a := range byCountry {
		out = append(out, domain.CountryStats{
			Country:           country,
			Members:           a.count,
			AverageCompletion: roundRatio(a.total, a.count),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AverageCompletion != out[j].AverageCompletion {
			return out[i].AverageCompletion > out[j].AverageCompletion
		}
		return out[i].Country < out[j].Country
	})

	return out
}

func excludeAdmins(users []domain.User) []domain.User {
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		if u.Role != domain.RoleAdmin {
			out = append(out, u)
		}
	}

	return out
}

func roundRatio(numerator, denominator int) int {
	if denominator == 0 {
		return 0
	}

	return int(math.Round(float64(numerator) / float64(denominator)))
}

// DateOnly truncates to midnight UTC; dates are the unit of
// aggregation.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func EndOfDay(day time.Time) time.Time {
	return day.Add(24*time.Hour - time.Nanosecond)
}
