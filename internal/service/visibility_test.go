package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harvest/internal/domain"
)

func uintPtr(v uint) *uint {
	return &v
}

func TestResolveScope_Member(t *testing.T) {
	viewer := domain.User{ID: 7, Role: domain.RoleMember, Country: "Kenya"}
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter ReportFilter
	}{
		{
			name:   "no filters",
			filter: ReportFilter{},
		},
		{
			name: "user and country filters are ignored",
			filter: ReportFilter{
				UserID:      uintPtr(99),
				Country:     "France",
				SearchQuery: "someone else",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.filter.StartDate = &start

			scope, err := ResolveScope(viewer, tt.filter, nil)

			require.NoError(t, err)
			assert.Equal(t, []uint{7}, scope.UserIDs)
			assert.False(t, scope.MatchNone)
			assert.Equal(t, &start, scope.StartDate)
		})
	}
}

func TestResolveScope_Leader(t *testing.T) {
	viewer := domain.User{ID: 1, Role: domain.RoleLeader, Country: "Kenya"}
	candidates := []domain.User{
		{ID: 1, Fullname: "Alice Leader", Country: "Kenya", Contact: "+254700000001"},
		{ID: 2, Fullname: "Bob Member", Country: "Kenya", Contact: "+254700000002"},
		{ID: 3, Fullname: "Carol Abroad", Country: "France", Contact: "+33100000003"},
	}

	tests := []struct {
		name      string
		filter    ReportFilter
		wantIDs   []uint
		wantNone  bool
		wantError error
	}{
		{
			name:    "country scope by default",
			filter:  ReportFilter{},
			wantIDs: []uint{1, 2},
		},
		{
			name:    "country filter cannot widen the scope",
			filter:  ReportFilter{Country: "France"},
			wantIDs: []uint{1, 2},
		},
		{
			name:    "search narrows within country",
			filter:  ReportFilter{SearchQuery: "bob"},
			wantIDs: []uint{2},
		},
		{
			name:    "search matches contact",
			filter:  ReportFilter{SearchQuery: "254700000002"},
			wantIDs: []uint{2},
		},
		{
			name:    "own-country userId allowed",
			filter:  ReportFilter{UserID: uintPtr(2)},
			wantIDs: []uint{2},
		},
		{
			name:    "own-country userId allowed even when the search misses it",
			filter:  ReportFilter{UserID: uintPtr(2), SearchQuery: "alice"},
			wantIDs: []uint{2},
		},
		{
			name:      "out-of-country userId is a violation",
			filter:    ReportFilter{UserID: uintPtr(3)},
			wantError: ErrScopeViolation,
		},
		{
			name:      "unknown userId is a violation",
			filter:    ReportFilter{UserID: uintPtr(42)},
			wantError: ErrScopeViolation,
		},
		{
			name:     "search with no matches is empty, not an error",
			filter:   ReportFilter{SearchQuery: "nobody"},
			wantNone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope, err := ResolveScope(viewer, tt.filter, candidates)

			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantNone, scope.MatchNone)
			if !tt.wantNone {
				assert.Equal(t, tt.wantIDs, scope.UserIDs)
			}
		})
	}
}

func TestResolveScope_Admin(t *testing.T) {
	viewer := domain.User{ID: 10, Role: domain.RoleAdmin}
	candidates := []domain.User{
		{ID: 1, Fullname: "Alice", Country: "Kenya"},
		{ID: 2, Fullname: "Bob", Country: "Kenya"},
		{ID: 3, Fullname: "Alice French", Country: "France"},
	}

	tests := []struct {
		name     string
		filter   ReportFilter
		wantIDs  []uint
		wantNone bool
	}{
		{
			name:    "no filters means unrestricted",
			filter:  ReportFilter{},
			wantIDs: nil,
		},
		{
			name:    "country filter",
			filter:  ReportFilter{Country: "Kenya"},
			wantIDs: []uint{1, 2},
		},
		{
			name:    "country and search intersect",
			filter:  ReportFilter{Country: "Kenya", SearchQuery: "alice"},
			wantIDs: []uint{1},
		},
		{
			name:     "empty intersection is empty, never an error",
			filter:   ReportFilter{Country: "France", SearchQuery: "bob"},
			wantNone: true,
		},
		{
			name:    "userId inside the intersection",
			filter:  ReportFilter{Country: "Kenya", UserID: uintPtr(2)},
			wantIDs: []uint{2},
		},
		{
			name:     "userId outside the intersection degrades to no match",
			filter:   ReportFilter{Country: "France", UserID: uintPtr(1)},
			wantNone: true,
		},
		{
			name:     "nonexistent userId degrades to no match",
			filter:   ReportFilter{UserID: uintPtr(42), Country: "Kenya"},
			wantNone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope, err := ResolveScope(viewer, tt.filter, candidates)

			require.NoError(t, err)
			assert.Equal(t, tt.wantNone, scope.MatchNone)
			if !tt.wantNone {
				assert.Equal(t, tt.wantIDs, scope.UserIDs)
			}
		})
	}
}

func TestResolveScope_InvalidRole(t *testing.T) {
	_, err := ResolveScope(domain.User{ID: 1, Role: "ghost"}, ReportFilter{}, nil)

	require.ErrorIs(t, err, domain.ErrInvalidRole)
}
