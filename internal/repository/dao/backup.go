package dao

import (
	"context"

	"gorm.io/gorm"
)

// BackupDAO reads full table snapshots for the SQL backup script.
type BackupDAO struct {
	db *gorm.DB
}

func NewBackupDAO(db *gorm.DB) *BackupDAO {
	return &BackupDAO{
		db: db,
	}
}

type Snapshot struct {
	Users       []User
	Reports     []Report
	Attachments []Attachment
	Templates   []ReportTemplate
}

func (d *BackupDAO) FetchSnapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	if err := d.db.WithContext(ctx).Order("id ASC").Find(&snap.Users).Error; err != nil {
		return Snapshot{}, err
	}
	if err := d.db.WithContext(ctx).Order("id ASC").Find(&snap.Reports).Error; err != nil {
		return Snapshot{}, err
	}
	if err := d.db.WithContext(ctx).Order("id ASC").Find(&snap.Attachments).Error; err != nil {
		return Snapshot{}, err
	}
	if err := d.db.WithContext(ctx).Order("id ASC").Find(&snap.Templates).Error; err != nil {
		return Snapshot{}, err
	}

	return snap, nil
}
