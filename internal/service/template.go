package service

import (
	"context"
	"errors"
	"fmt"

	"harvest/internal/domain"
	"harvest/internal/repository"
)

var ErrTemplateNotFound = repository.ErrTemplateNotFound

type ReportTemplateRepository interface {
	Create(ctx context.Context, template domain.ReportTemplate) (domain.ReportTemplate, error)
	FindAll(ctx context.Context) ([]domain.ReportTemplate, error)
	FindByID(ctx context.Context, id uint) (domain.ReportTemplate, error)
	FindActive(ctx context.Context) (domain.ReportTemplate, error)
	Update(ctx context.Context, template domain.ReportTemplate) (domain.ReportTemplate, error)
	Delete(ctx context.Context, id uint) error
	Activate(ctx context.Context, id uint) error
}

type ReportTemplateService struct {
	repo ReportTemplateRepository
}

func NewReportTemplateService(repo ReportTemplateRepository) *ReportTemplateService {
	return &ReportTemplateService{
		repo: repo,
	}
}

// ListTemplates lazily materializes the "Default" template when the
// registry is empty, so submitters always have an active form.
func (s *ReportTemplateService) ListTemplates(ctx context.Context) ([]domain.ReportTemplate, error) {
	templates, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	if len(templates) == 0 {
		created, err := s.repo.Create(ctx, domain.ReportTemplate{
			Name:     "Default",
			Sections: []byte(domain.DefaultTemplateSections),
			IsActive: true,
		})
		if err != nil {
			return nil, fmt.Errorf("s.repo.Create -> %w", err)
		}
		templates = append(templates, created)
	}

	return templates, nil
}

func (s *ReportTemplateService) GetTemplate(ctx context.Context, id uint) (domain.ReportTemplate, error) {
	template, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.ReportTemplate{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return template, nil
}

// GetActiveTemplate falls back to the lazy Default when nothing is
// active yet.
func (s *ReportTemplateService) GetActiveTemplate(ctx context.Context) (domain.ReportTemplate, error) {
	template, err := s.repo.FindActive(ctx)
	if err == nil {
		return template, nil
	}
	if !errors.Is(err, repository.ErrNoActiveTemplate) {
		return domain.ReportTemplate{}, fmt.Errorf("s.repo.FindActive -> %w", err)
	}

	templates, err := s.ListTemplates(ctx)
	if err != nil {
		return domain.ReportTemplate{}, err
	}
	for _, t := range templates {
		if t.IsActive {
			return t, nil
		}
	}

	// Registry was non-empty but nothing active; activate the first.
	if err := s.repo.Activate(ctx, templates[0].ID); err != nil {
		return domain.ReportTemplate{}, fmt.Errorf("s.repo.Activate -> %w", err)
	}

	return s.repo.FindActive(ctx)
}

func (s *ReportTemplateService) CreateTemplate(ctx context.Context, template domain.ReportTemplate) (domain.ReportTemplate, error) {
	created, err := s.repo.Create(ctx, template)
	if err != nil {
		return domain.ReportTemplate{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	// Creating as active must keep the single-active invariant.
	if created.IsActive {
		if err := s.repo.Activate(ctx, created.ID); err != nil {
			return domain.ReportTemplate{}, fmt.Errorf("s.repo.Activate -> %w", err)
		}
	}

	return created, nil
}

func (s *ReportTemplateService) UpdateTemplate(ctx context.Context, id uint, name string, sections []byte) (domain.ReportTemplate, error) {
	template, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.ReportTemplate{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if name != "" {
		template.Name = name
	}
	if len(sections) > 0 {
		template.Sections = sections
	}

	updated, err := s.repo.Update(ctx, template)
	if err != nil {
		return domain.ReportTemplate{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *ReportTemplateService) DeleteTemplate(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// ActivateTemplate flips the single global active flag to the given
// template.
func (s *ReportTemplateService) ActivateTemplate(ctx context.Context, id uint) (domain.ReportTemplate, error) {
	if err := s.repo.Activate(ctx, id); err != nil {
		return domain.ReportTemplate{}, fmt.Errorf("s.repo.Activate -> %w", err)
	}

	return s.repo.FindByID(ctx, id)
}
