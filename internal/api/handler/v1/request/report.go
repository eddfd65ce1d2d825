package request

import (
	"errors"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"harvest/internal/domain"
	"harvest/internal/service"
)

const dateLayout = "2006-01-02"

var errInvalidDate = errors.New("dates must be formatted as YYYY-MM-DD")

// SaveReportRequest is bound from multipart form fields; files ride
// alongside in the same form.
type SaveReportRequest struct {
	Date string `form:"date"`

	EvangelismHours      float64 `form:"evangelism_hours"`
	PeopleReached        int     `form:"people_reached"`
	ContactsReceived     int     `form:"contacts_received"`
	BibleStudySessions   int     `form:"bible_study_sessions"`
	BibleStudyAttendants int     `form:"bible_study_attendants"`
	UniqueAttendants     int     `form:"unique_attendants"`
	Newcomers            int     `form:"newcomers"`
	MeditationMinutes    int     `form:"meditation_minutes"`
	PrayerMinutes        int     `form:"prayer_minutes"`
	MorningService       bool    `form:"morning_service"`
	RegularService       bool    `form:"regular_service"`
	SermonsListened      int     `form:"sermons_listened"`
	ArticlesWritten      int     `form:"articles_written"`
	ExerciseMinutes      int     `form:"exercise_minutes"`

	Reflections    string `form:"reflections"`
	Thanksgiving   string `form:"thanksgiving"`
	Repentance     string `form:"repentance"`
	PrayerRequests string `form:"prayer_requests"`
	OtherWork      string `form:"other_work"`
	TomorrowTasks  string `form:"tomorrow_tasks"`
}

func (req *SaveReportRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Date, validation.Required, validation.Date(dateLayout)),
		validation.Field(&req.EvangelismHours, validation.Min(0.0)),
		validation.Field(&req.PeopleReached, validation.Min(0)),
		validation.Field(&req.ContactsReceived, validation.Min(0)),
		validation.Field(&req.BibleStudySessions, validation.Min(0)),
		validation.Field(&req.BibleStudyAttendants, validation.Min(0)),
		validation.Field(&req.UniqueAttendants, validation.Min(0)),
		validation.Field(&req.Newcomers, validation.Min(0)),
		validation.Field(&req.MeditationMinutes, validation.Min(0)),
		validation.Field(&req.PrayerMinutes, validation.Min(0)),
		validation.Field(&req.SermonsListened, validation.Min(0)),
		validation.Field(&req.ArticlesWritten, validation.Min(0)),
		validation.Field(&req.ExerciseMinutes, validation.Min(0)),
	)
	if err != nil {
		return err
	}

	return nil
}

// UpdateReportRequest allows omitting the date to keep the stored one.
type UpdateReportRequest struct {
	SaveReportRequest
}

func (req *UpdateReportRequest) Validate() error {
	return validation.ValidateStruct(
		&req.SaveReportRequest,
		validation.Field(&req.Date, validation.Date(dateLayout)),
		validation.Field(&req.EvangelismHours, validation.Min(0.0)),
		validation.Field(&req.PeopleReached, validation.Min(0)),
		validation.Field(&req.ContactsReceived, validation.Min(0)),
		validation.Field(&req.BibleStudySessions, validation.Min(0)),
		validation.Field(&req.BibleStudyAttendants, validation.Min(0)),
		validation.Field(&req.UniqueAttendants, validation.Min(0)),
		validation.Field(&req.Newcomers, validation.Min(0)),
		validation.Field(&req.MeditationMinutes, validation.Min(0)),
		validation.Field(&req.PrayerMinutes, validation.Min(0)),
		validation.Field(&req.SermonsListened, validation.Min(0)),
		validation.Field(&req.ArticlesWritten, validation.Min(0)),
		validation.Field(&req.ExerciseMinutes, validation.Min(0)),
	)
}

func (req *SaveReportRequest) ToDomain() domain.Report {
	report := domain.Report{
		EvangelismHours:      req.EvangelismHours,
		PeopleReached:        req.PeopleReached,
		ContactsReceived:     req.ContactsReceived,
		BibleStudySessions:   req.BibleStudySessions,
		BibleStudyAttendants: req.BibleStudyAttendants,
		UniqueAttendants:     req.UniqueAttendants,
		Newcomers:            req.Newcomers,
		MeditationMinutes:    req.MeditationMinutes,
		PrayerMinutes:        req.PrayerMinutes,
		MorningService:       req.MorningService,
		RegularService:       req.RegularService,
		SermonsListened:      req.SermonsListened,
		ArticlesWritten:      req.ArticlesWritten,
		ExerciseMinutes:      req.ExerciseMinutes,
		Reflections:          req.Reflections,
		Thanksgiving:         req.Thanksgiving,
		Repentance:           req.Repentance,
		PrayerRequests:       req.PrayerRequests,
		OtherWork:            req.OtherWork,
		TomorrowTasks:        req.TomorrowTasks,
	}

	if req.Date != "" {
		// Validate already checked the layout.
		report.Date, _ = time.Parse(dateLayout, req.Date)
	}

	return report
}

// ParseReportFilter reads the listing/export query parameters. Single
// `date` is shorthand for an exact-day range.
func ParseReportFilter(get func(string) string) (service.ReportFilter, error) {
	var filter service.ReportFilter

	filter.Country = get("country")
	filter.SearchQuery = get("searchQuery")

	if raw := get("userId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return service.ReportFilter{}, errors.New("userId must be a number")
		}
		uid := uint(id)
		filter.UserID = &uid
	}

	if raw := get("date"); raw != "" {
		day, err := time.Parse(dateLayout, raw)
		if err != nil {
			return service.ReportFilter{}, errInvalidDate
		}
		start := service.DateOnly(day)
		end := service.EndOfDay(start)
		filter.StartDate = &start
		filter.EndDate = &end

		return filter, nil
	}

	if raw := get("startDate"); raw != "" {
		start, err := time.Parse(dateLayout, raw)
		if err != nil {
			return service.ReportFilter{}, errInvalidDate
		}
		start = service.DateOnly(start)
		filter.StartDate = &start
	}
	if raw := get("endDate"); raw != "" {
		end, err := time.Parse(dateLayout, raw)
		if err != nil {
			return service.ReportFilter{}, errInvalidDate
		}
		end = service.EndOfDay(service.DateOnly(end))
		filter.EndDate = &end
	}

	return filter, nil
}
