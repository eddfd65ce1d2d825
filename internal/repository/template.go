package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"harvest/internal/domain"
	"harvest/internal/repository/dao"
)

var (
	ErrTemplateNotFound = dao.ErrTemplateNotFound
	ErrNoActiveTemplate = dao.ErrNoActiveTemplate
)

type ReportTemplateDAO interface {
	Insert(ctx context.Context, template dao.ReportTemplate) (dao.ReportTemplate, error)
	FindAll(ctx context.Context) ([]dao.ReportTemplate, error)
	FindByID(ctx context.Context, id uint) (dao.ReportTemplate, error)
	FindActive(ctx context.Context) (dao.ReportTemplate, error)
	Update(ctx context.Context, template dao.ReportTemplate) (dao.ReportTemplate, error)
	Delete(ctx context.Context, id uint) error
	Activate(ctx context.Context, id uint) error
}

type ReportTemplateRepository struct {
	dao ReportTemplateDAO
}

func NewReportTemplateRepository(dao ReportTemplateDAO) *ReportTemplateRepository {
	return &ReportTemplateRepository{
		dao: dao,
	}
}

func (r *ReportTemplateRepository) Create(ctx context.Context, template domain.ReportTemplate) (domain.ReportTemplate, error) {
	created, err := r.dao.Insert(ctx, r.domainToDAO(template))
	if err != nil {
		return domain.ReportTemplate{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *ReportTemplateRepository) FindAll(ctx context.Context) ([]domain.ReportTemplate, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	out := make([]domain.ReportTemplate, 0, len(found))
	for _, t := range found {
		out = append(out, r.daoToDomain(t))
	}

	return out, nil
}

func (r *ReportTemplateRepository) FindByID(ctx context.Context, id uint) (domain.ReportTemplate, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.ReportTemplate{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ReportTemplateRepository) FindActive(ctx context.Context) (domain.ReportTemplate, error) {
	found, err := r.dao.FindActive(ctx)
	if err != nil {
		return domain.ReportTemplate{}, fmt.Errorf("r.dao.FindActive -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ReportTemplateRepository) Update(ctx context.Context, template domain.ReportTemplate) (domain.ReportTemplate, error) {
	updated, err := r.dao.Update(ctx, r.domainToDAO(template))
	if err != nil {
		return domain.ReportTemplate{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *ReportTemplateRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *ReportTemplateRepository) Activate(ctx context.Context, id uint) error {
	if err := r.dao.Activate(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Activate -> %w", err)
	}

	return nil
}

func (r *ReportTemplateRepository) daoToDomain(t dao.ReportTemplate) domain.ReportTemplate {
	return domain.ReportTemplate{
		ID:        t.ID,
		Name:      t.Name,
		Sections:  json.RawMessage(t.Sections),
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func (r *ReportTemplateRepository) domainToDAO(t domain.ReportTemplate) dao.ReportTemplate {
	return dao.ReportTemplate{
		ID:        t.ID,
		Name:      t.Name,
		Sections:  string(t.Sections),
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
