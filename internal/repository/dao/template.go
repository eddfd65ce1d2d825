package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrTemplateNotFound = errors.New("report template not found")
	ErrNoActiveTemplate = errors.New("no active report template")
)

type ReportTemplate struct {
	ID       uint   `gorm:"primaryKey"`
	Name     string `gorm:"unique;not null"`
	Sections string `gorm:"not null"` // JSON document
	IsActive bool   `gorm:"not null;default:false;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type ReportTemplateDAO struct {
	db *gorm.DB
}

func NewReportTemplateDAO(db *gorm.DB) *ReportTemplateDAO {
	return &ReportTemplateDAO{
		db: db,
	}
}

func (d *ReportTemplateDAO) Insert(ctx context.Context, template ReportTemplate) (ReportTemplate, error) {
	result := d.db.WithContext(ctx).Create(&template)
	if result.Error != nil {
		return ReportTemplate{}, result.Error
	}

	return template, nil
}

func (d *ReportTemplateDAO) FindAll(ctx context.Context) ([]ReportTemplate, error) {
	var templates []ReportTemplate

	result := d.db.WithContext(ctx).Order("id ASC").Find(&templates)
	if result.Error != nil {
		return nil, result.Error
	}

	return templates, nil
}

func (d *ReportTemplateDAO) FindByID(ctx context.Context, id uint) (ReportTemplate, error) {
	var template ReportTemplate

	result := d.db.WithContext(ctx).First(&template, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ReportTemplate{}, ErrTemplateNotFound
		}

		return ReportTemplate{}, result.Error
	}

	return template, nil
}

func (d *ReportTemplateDAO) FindActive(ctx context.Context) (ReportTemplate, error) {
	var template ReportTemplate

	result := d.db.WithContext(ctx).First(&template, "is_active = ?", true)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ReportTemplate{}, ErrNoActiveTemplate
		}

		return ReportTemplate{}, result.Error
	}

	return template, nil
}

func (d *ReportTemplateDAO) Update(ctx context.Context, template ReportTemplate) (ReportTemplate, error) {
	result := d.db.WithContext(ctx).Save(&template)
	if result.Error != nil {
		return ReportTemplate{}, result.Error
	}

	return template, nil
}

func (d *ReportTemplateDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&ReportTemplate{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTemplateNotFound
	}

	return nil
}

// Activate flips the single global active flag: everything off, then
// the requested template on, in one transaction.
func (d *ReportTemplateDAO) Activate(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&ReportTemplate{}).Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}

		result := tx.Model(&ReportTemplate{}).Where("id = ?", id).Update("is_active", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTemplateNotFound
		}

		return nil
	})
}
