package domain

import "time"

// MemberStats is one user's submission performance over the trailing
// analytics window.
type MemberStats struct {
	UserID               uint       `json:"user_id"`
	Fullname             string     `json:"fullname"`
	Country              string     `json:"country"`
	ReportsSubmitted     int        `json:"reportsSubmitted"`
	CompletionRate       int        `json:"completionRate"`
	CurrentStreak        int        `json:"currentStreak"`
	TotalEvangelismHours float64    `json:"totalEvangelismHours"`
	MissedDays           int        `json:"missedDays"`
	LastReportDate       *time.Time `json:"lastReportDate"`
}

type CountryStats struct {
	Country           string `json:"country"`
	Members           int    `json:"members"`
	AverageCompletion int    `json:"averageCompletion"`
}

type AnalyticsSummary struct {
	Range                string         `json:"range"`
	ExpectedDays         int            `json:"expectedDays"`
	TotalMembers         int            `json:"totalMembers"`
	TotalReports         int            `json:"totalReports"`
	TotalEvangelismHours float64        `json:"totalEvangelismHours"`
	AverageCompletion    int            `json:"averageCompletion"`
	TopStreak            int            `json:"topStreak"`
	Members              []MemberStats  `json:"members"`
	TopPerformers        []MemberStats  `json:"topPerformers"`
	NeedsAttention       []MemberStats  `json:"needsAttention"`
	CountryStats         []CountryStats `json:"countryStats,omitempty"`
}
