package service

import (
	"context"
	"fmt"
	"time"

	"harvest/internal/domain"
	"harvest/internal/repository"
)

var ErrReportNotFound = repository.ErrReportNotFound

type ReportRepository interface {
	Create(ctx context.Context, report domain.Report) (domain.Report, error)
	FindByID(ctx context.Context, id uint) (domain.Report, error)
	FindInScope(ctx context.Context, userIDs []uint, start, end *time.Time) ([]domain.Report, error)
	Update(ctx context.Context, report domain.Report) (domain.Report, error)
	Delete(ctx context.Context, id uint) error
	AddAttachments(ctx context.Context, reportID uint, attachments []domain.Attachment) ([]domain.Attachment, error)
}

type ReportUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	FindByCountry(ctx context.Context, country string) ([]domain.User, error)
}

type ReportService struct {
	repo  ReportRepository
	users ReportUserRepository
	now   func() time.Time
}

func NewReportService(repo ReportRepository, users ReportUserRepository) *ReportService {
	return &ReportService{
		repo:  repo,
		users: users,
		now:   time.Now,
	}
}

// List returns the reports visible to the viewer under the filter,
// ascending by date. The candidate-user lookup is the single auxiliary
// query the resolver contract allows.
func (s *ReportService) List(ctx context.Context, viewer domain.User, filter ReportFilter) ([]domain.Report, error) {
	scope, err := s.resolve(ctx, viewer, filter)
	if err != nil {
		return nil, err
	}
	if scope.MatchNone {
		return []domain.Report{}, nil
	}

	reports, err := s.repo.FindInScope(ctx, scope.UserIDs, scope.StartDate, scope.EndDate)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindInScope -> %w", err)
	}

	return reports, nil
}

// ListForExport applies the export default: when no dates are given
// the range collapses to the current day.
func (s *ReportService) ListForExport(ctx context.Context, viewer domain.User, filter ReportFilter) ([]domain.Report, error) {
	if filter.StartDate == nil && filter.EndDate == nil {
		today := DateOnly(s.now())
		end := EndOfDay(today)
		filter.StartDate = &today
		filter.EndDate = &end
	}

	return s.List(ctx, viewer, filter)
}

// Create submits a report for the viewer, snapshotting their current
// name, country and church onto the row.
func (s *ReportService) Create(ctx context.Context, viewer domain.User, report domain.Report, attachments []domain.Attachment) (domain.Report, error) {
	owner, err := s.users.FindByID(ctx, viewer.ID)
	if err != nil {
		return domain.Report{}, fmt.Errorf("s.users.FindByID -> %w", err)
	}

	report.UserID = owner.ID
	report.Name = owner.Fullname
	report.Country = owner.Country
	report.Church = owner.Church
	report.Date = DateOnly(report.Date)

	created, err := s.repo.Create(ctx, report)
	if err != nil {
		return domain.Report{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	if len(attachments) > 0 {
		saved, err := s.repo.AddAttachments(ctx, created.ID, attachments)
		if err != nil {
			return domain.Report{}, fmt.Errorf("s.repo.AddAttachments -> %w", err)
		}
		created.Attachments = saved
	}

	return created, nil
}

func (s *ReportService) Get(ctx context.Context, viewer domain.User, id uint) (domain.Report, error) {
	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Report{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if err := s.authorizeRead(ctx, viewer, report); err != nil {
		return domain.Report{}, err
	}

	return report, nil
}

// Update is last-write-wins; concurrent edits are not detected.
func (s *ReportService) Update(ctx context.Context, viewer domain.User, id uint, updated domain.Report) (domain.Report, error) {
	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Report{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if err := s.authorizeRead(ctx, viewer, report); err != nil {
		return domain.Report{}, err
	}

	// Identity, ownership and snapshot fields are not editable.
	updated.ID = report.ID
	updated.UserID = report.UserID
	updated.Name = report.Name
	updated.Country = report.Country
	updated.Church = report.Church
	updated.CreatedAt = report.CreatedAt
	if updated.Date.IsZero() {
		updated.Date = report.Date
	} else {
		updated.Date = DateOnly(updated.Date)
	}

	saved, err := s.repo.Update(ctx, updated)
	if err != nil {
		return domain.Report{}, fmt.Errorf("s.repo.Update -> %w", err)
	}
	saved.Attachments = report.Attachments

	return saved, nil
}

// Delete is restricted to admins and own-country leaders; owners
// cannot delete their own submissions.
func (s *ReportService) Delete(ctx context.Context, viewer domain.User, id uint) error {
	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	switch viewer.Role {
	case domain.RoleAdmin:
	case domain.RoleLeader:
		owner, err := s.users.FindByID(ctx, report.UserID)
		if err != nil {
			return fmt.Errorf("s.users.FindByID -> %w", err)
		}
		if owner.Country != viewer.Country {
			return ErrPermissionDenied
		}
	default:
		return ErrPermissionDenied
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// authorizeRead allows the owner, an own-country leader (checked
// against the owner's current country, not the snapshot) and admins.
func (s *ReportService) authorizeRead(ctx context.Context, viewer domain.User, report domain.Report) error {
	switch viewer.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleLeader:
		if report.UserID == viewer.ID {
			return nil
		}
		owner, err := s.users.FindByID(ctx, report.UserID)
		if err != nil {
			return fmt.Errorf("s.users.FindByID -> %w", err)
		}
		if owner.Country != viewer.Country {
			return ErrPermissionDenied
		}
		return nil
	default:
		if report.UserID != viewer.ID {
			return ErrPermissionDenied
		}
		return nil
	}
}

// resolve performs the candidate lookup required by the viewer's role
// and filter, then delegates to the pure resolver.
func (s *ReportService) resolve(ctx context.Context, viewer domain.User, filter ReportFilter) (Scope, error) {
	var (
		candidates []domain.User
		err        error
	)

	switch viewer.Role {
	case domain.RoleMember:
		// No lookup needed; scope is forced to self.
	case domain.RoleLeader:
		candidates, err = s.users.FindByCountry(ctx, viewer.Country)
	case domain.RoleAdmin:
		if filter.Country != "" || filter.SearchQuery != "" || filter.UserID != nil {
			candidates, err = s.users.FindAll(ctx)
		}
	default:
		return Scope{}, domain.ErrInvalidRole
	}
	if err != nil {
		return Scope{}, fmt.Errorf("candidate lookup -> %w", err)
	}

	return ResolveScope(viewer, filter, candidates)
}
