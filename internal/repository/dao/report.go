package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrReportNotFound     = errors.New("report not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
)

type Report struct {
	ID     uint      `gorm:"primaryKey"`
	UserID uint      `gorm:"not null;index"`
	Date   time.Time `gorm:"not null;index"`

	// Snapshot of the submitting user, kept for historical accuracy.
	Name    string `gorm:"not null"`
	Country string
	Church  string

	EvangelismHours      float64
	PeopleReached        int
	ContactsReceived     int
	BibleStudySessions   int
	BibleStudyAttendants int
	UniqueAttendants     int
	Newcomers            int
	MeditationMinutes    int
	PrayerMinutes        int
	MorningService       bool
	RegularService       bool
	SermonsListened      int
	ArticlesWritten      int
	ExerciseMinutes      int

	Reflections    string
	Thanksgiving   string
	Repentance     string
	PrayerRequests string
	OtherWork      string
	TomorrowTasks  string

	Attachments []Attachment `gorm:"foreignKey:ReportID"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Attachment struct {
	ID       uint   `gorm:"primaryKey"`
	ReportID uint   `gorm:"not null;index"`
	FileURL  string `gorm:"not null"`
	FileType string
}

type ReportDAO struct {
	db *gorm.DB
}

func NewReportDAO(db *gorm.DB) *ReportDAO {
	return &ReportDAO{
		db: db,
	}
}

func (d *ReportDAO) Insert(ctx context.Context, report Report) (Report, error) {
	result := d.db.WithContext(ctx).Create(&report)
	if result.Error != nil {
		return Report{}, result.Error
	}

	return report, nil
}

func (d *ReportDAO) FindByID(ctx context.Context, id uint) (Report, error) {
	var report Report

	result := d.db.WithContext(ctx).Preload("Attachments").First(&report, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Report{}, ErrReportNotFound
		}

		return Report{}, result.Error
	}

	return report, nil
}

// FindInScope lists reports ascending by date. A nil userIDs means no
// user restriction; nil date bounds mean an open range on that side.
func (d *ReportDAO) FindInScope(ctx context.Context, userIDs []uint, start, end *time.Time) ([]Report, error) {
	query := d.db.WithContext(ctx).Preload("Attachments").Order("date ASC, id ASC")

	if userIDs != nil {
		query = query.Where("user_id IN ?", userIDs)
	}
	if start != nil {
		query = query.Where("date >= ?", *start)
	}
	if end != nil {
		query = query.Where("date <= ?", *end)
	}

	var reports []Report
	result := query.Find(&reports)
	if result.Error != nil {
		return nil, result.Error
	}

	return reports, nil
}

// FindForUsers is the analytics fetch: no attachment preload, closed
// date range.
func (d *ReportDAO) FindForUsers(ctx context.Context, userIDs []uint, from, to time.Time) ([]Report, error) {
	var reports []Report

	result := d.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC").
		Find(&reports)
	if result.Error != nil {
		return nil, result.Error
	}

	return reports, nil
}

func (d *ReportDAO) Update(ctx context.Context, report Report) (Report, error) {
	result := d.db.WithContext(ctx).Omit("Attachments").Save(&report)
	if result.Error != nil {
		return Report{}, result.Error
	}

	return report, nil
}

// Delete removes the report and its attachments in one transaction.
func (d *ReportDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("report_id = ?", id).Delete(&Attachment{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&Report{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrReportNotFound
		}

		return nil
	})
}

func (d *ReportDAO) InsertAttachments(ctx context.Context, attachments []Attachment) ([]Attachment, error) {
	if len(attachments) == 0 {
		return nil, nil
	}

	result := d.db.WithContext(ctx).Create(&attachments)
	if result.Error != nil {
		return nil, result.Error
	}

	return attachments, nil
}

func (d *ReportDAO) FindAttachmentsByReportID(ctx context.Context, reportID uint) ([]Attachment, error) {
	var attachments []Attachment

	result := d.db.WithContext(ctx).Where("report_id = ?", reportID).Find(&attachments)
	if result.Error != nil {
		return nil, result.Error
	}

	return attachments, nil
}
