package domain

import (
	"encoding/json"
	"time"
)

// ReportTemplate describes the submission form: visible sections and
// required fields per report kind (weekday vs weekend) plus UI labels,
// all carried as an opaque JSON document. At most one template is
// active at any time.
type ReportTemplate struct {
	ID        uint            `json:"id"`
	Name      string          `json:"name"`
	Sections  json.RawMessage `json:"sections"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// DefaultTemplateSections is materialized lazily when no template
// exists yet.
const DefaultTemplateSections = `{
  "weekday": {
    "sections": ["evangelism", "bible_study", "spiritual_life", "reflections"],
    "required": ["date", "evangelism_hours", "reflections"]
  },
  "weekend": {
    "sections": ["evangelism", "bible_study", "spiritual_life", "services", "reflections"],
    "required": ["date", "morning_service", "regular_service", "reflections"]
  },
  "labels": {
    "evangelism_hours": "Evangelism Hours",
    "people_reached": "People Reached",
    "reflections": "Reflections"
  }
}`
