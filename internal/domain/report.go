package domain

import "time"

// Report is one activity submission. Name, Country and Church are
// snapshots taken from the user at submission time so historical rows
// keep the country the user reported from.
type Report struct {
	ID     uint      `json:"id"`
	UserID uint      `json:"user_id"`
	Date   time.Time `json:"date"`

	Name    string `json:"name"`
	Country string `json:"country"`
	Church  string `json:"church"`

	EvangelismHours      float64 `json:"evangelism_hours"`
	PeopleReached        int     `json:"people_reached"`
	ContactsReceived     int     `json:"contacts_received"`
	BibleStudySessions   int     `json:"bible_study_sessions"`
	BibleStudyAttendants int     `json:"bible_study_attendants"`
	UniqueAttendants     int     `json:"unique_attendants"`
	Newcomers            int     `json:"newcomers"`
	MeditationMinutes    int     `json:"meditation_minutes"`
	PrayerMinutes        int     `json:"prayer_minutes"`
	MorningService       bool    `json:"morning_service"`
	RegularService       bool    `json:"regular_service"`
	SermonsListened      int     `json:"sermons_listened"`
	ArticlesWritten      int     `json:"articles_written"`
	ExerciseMinutes      int     `json:"exercise_minutes"`

	Reflections    string `json:"reflections"`
	Thanksgiving   string `json:"thanksgiving"`
	Repentance     string `json:"repentance"`
	PrayerRequests string `json:"prayer_requests"`
	OtherWork      string `json:"other_work"`
	TomorrowTasks  string `json:"tomorrow_tasks"`

	Attachments []Attachment `json:"attachments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Attachment struct {
	ID       uint   `json:"id"`
	ReportID uint   `json:"report_id"`
	FileURL  string `json:"file_url"`
	FileType string `json:"file_type"`
}
