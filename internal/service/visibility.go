package service

import (
	"errors"
	"strings"
	"time"

	"harvest/internal/domain"
)

// ErrScopeViolation is the leader-side hard authorization boundary: a
// leader asked for a user outside their country.
var ErrScopeViolation = errors.New("requested user is outside the allowed scope")

// ReportFilter is the caller-supplied narrowing of a report listing,
// export or analytics query. Zero values mean "not supplied".
type ReportFilter struct {
	UserID      *uint
	Country     string
	SearchQuery string
	StartDate   *time.Time
	EndDate     *time.Time
}

// Scope is the concrete row selection produced by ResolveScope.
// A nil UserIDs means no user restriction at all (admin without
// filters); MatchNone is the sentinel "impossible" selection that
// matches no rows.
type Scope struct {
	UserIDs   []uint
	MatchNone bool
	StartDate *time.Time
	EndDate   *time.Time
}

// ResolveScope turns (viewer, filter) into the selection to apply to
// the report store. It is a pure function: the candidate user set (the
// one auxiliary lookup) is fetched by the caller beforehand.
//
// Rules, in priority order:
//   - member: forced to self; only the date range survives.
//   - leader: forced to the leader's country. A search query narrows
//     within that set; an explicit userId outside the country is an
//     authorization failure, not an empty result.
//   - admin: country and search filters intersect. An explicit userId
//     outside the intersection (or unknown) degrades to MatchNone so
//     the response is an empty list and existence is not leaked.
func ResolveScope(viewer domain.User, filter ReportFilter, candidates []domain.User) (Scope, error) {
	scope := Scope{
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
	}

	switch viewer.Role {
	case domain.RoleMember:
		scope.UserIDs = []uint{viewer.ID}
		return scope, nil

	case domain.RoleLeader:
		countrySet := filterByCountry(candidates, viewer.Country)

		// The country set alone is the authorization boundary; a search
		// query must not turn an in-country userId into a violation.
		if filter.UserID != nil {
			if !containsUser(countrySet, *filter.UserID) {
				return Scope{}, ErrScopeViolation
			}
			scope.UserIDs = []uint{*filter.UserID}
			return scope, nil
		}

		set := filterBySearch(countrySet, filter.SearchQuery)
		scope.UserIDs = userIDs(set)
		if len(scope.UserIDs) == 0 {
			scope.MatchNone = true
		}
		return scope, nil

	case domain.RoleAdmin:
		hasUserFilter := filter.Country != "" || filter.SearchQuery != ""

		set := candidates
		if filter.Country != "" {
			set = filterByCountry(set, filter.Country)
		}
		set = filterBySearch(set, filter.SearchQuery)

		if filter.UserID != nil {
			if !containsUser(set, *filter.UserID) {
				scope.MatchNone = true
				return scope, nil
			}
			scope.UserIDs = []uint{*filter.UserID}
			return scope, nil
		}

		if !hasUserFilter {
			return scope, nil // unrestricted
		}

		scope.UserIDs = userIDs(set)
		if len(scope.UserIDs) == 0 {
			scope.MatchNone = true
		}
		return scope, nil

	default:
		return Scope{}, domain.ErrInvalidRole
	}
}

func filterByCountry(users []domain.User, country string) []domain.User {
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		if u.Country == country {
			out = append(out, u)
		}
	}

	return out
}

// filterBySearch keeps users whose full name or contact number
// contains the query, case-insensitively. An empty query keeps all.
func filterBySearch(users []domain.User, query string) []domain.User {
	if query == "" {
		return users
	}

	q := strings.ToLower(query)
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Fullname), q) ||
			strings.Contains(strings.ToLower(u.Contact), q) {
			out = append(out, u)
		}
	}

	return out
}

func containsUser(users []domain.User, id uint) bool {
	for _, u := range users {
		if u.ID == id {
			return true
		}
	}

	return false
}

func userIDs(users []domain.User) []uint {
	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	return ids
}
