package repository

import (
	"context"
	"fmt"
	"time"

	"harvest/internal/domain"
	"harvest/internal/repository/dao"
)

var ErrReportNotFound = dao.ErrReportNotFound

type ReportDAO interface {
	Insert(ctx context.Context, report dao.Report) (dao.Report, error)
	FindByID(ctx context.Context, id uint) (dao.Report, error)
	FindInScope(ctx context.Context, userIDs []uint, start, end *time.Time) ([]dao.Report, error)
	FindForUsers(ctx context.Context, userIDs []uint, from, to time.Time) ([]dao.Report, error)
	Update(ctx context.Context, report dao.Report) (dao.Report, error)
	Delete(ctx context.Context, id uint) error
	InsertAttachments(ctx context.Context, attachments []dao.Attachment) ([]dao.Attachment, error)
}

type ReportRepository struct {
	dao ReportDAO
}

func NewReportRepository(dao ReportDAO) *ReportRepository {
	return &ReportRepository{
		dao: dao,
	}
}

func (r *ReportRepository) Create(ctx context.Context, report domain.Report) (domain.Report, error) {
	created, err := r.dao.Insert(ctx, r.domainToDAO(report))
	if err != nil {
		return domain.Report{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *ReportRepository) FindByID(ctx context.Context, id uint) (domain.Report, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Report{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ReportRepository) FindInScope(ctx context.Context, userIDs []uint, start, end *time.Time) ([]domain.Report, error) {
	found, err := r.dao.FindInScope(ctx, userIDs, start, end)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindInScope -> %w", err)
	}

	return r.daoToDomainSlice(found), nil
}

func (r *ReportRepository) FindForUsers(ctx context.Context, userIDs []uint, from, to time.Time) ([]domain.Report, error) {
	found, err := r.dao.FindForUsers(ctx, userIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindForUsers -> %w", err)
	}

	return r.daoToDomainSlice(found), nil
}

func (r *ReportRepository) Update(ctx context.Context, report domain.Report) (domain.Report, error) {
	updated, err := r.dao.Update(ctx, r.domainToDAO(report))
	if err != nil {
		return domain.Report{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *ReportRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *ReportRepository) AddAttachments(ctx context.Context, reportID uint, attachments []domain.Attachment) ([]domain.Attachment, error) {
	daoAttachments := make([]dao.Attachment, 0, len(attachments))
	for _, a := range attachments {
		daoAttachments = append(daoAttachments, dao.Attachment{
			ReportID: reportID,
			FileURL:  a.FileURL,
			FileType: a.FileType,
		})
	}

	created, err := r.dao.InsertAttachments(ctx, daoAttachments)
	if err != nil {
		return nil, fmt.Errorf("r.dao.InsertAttachments -> %w", err)
	}

	out := make([]domain.Attachment, 0, len(created))
	for _, a := range created {
		out = append(out, r.attachmentToDomain(a))
	}

	return out, nil
}

func (r *ReportRepository) daoToDomain(rep dao.Report) domain.Report {
	attachments := make([]domain.Attachment, 0, len(rep.Attachments))
	for _, a := range rep.Attachments {
		attachments = append(attachments, r.attachmentToDomain(a))
	}

	return domain.Report{
		ID:                   rep.ID,
		UserID:               rep.UserID,
		Date:                 rep.Date,
		Name:                 rep.Name,
		Country:              rep.Country,
		Church:               rep.Church,
		EvangelismHours:      rep.EvangelismHours,
		PeopleReached:        rep.PeopleReached,
		ContactsReceived:     rep.ContactsReceived,
		BibleStudySessions:   rep.BibleStudySessions,
		BibleStudyAttendants: rep.BibleStudyAttendants,
		UniqueAttendants:     rep.UniqueAttendants,
		Newcomers:            rep.Newcomers,
		MeditationMinutes:    rep.MeditationMinutes,
		PrayerMinutes:        rep.PrayerMinutes,
		MorningService:       rep.MorningService,
		RegularService:       rep.RegularService,
		SermonsListened:      rep.SermonsListened,
		ArticlesWritten:      rep.ArticlesWritten,
		ExerciseMinutes:      rep.ExerciseMinutes,
		Reflections:          rep.Reflections,
		Thanksgiving:         rep.Thanksgiving,
		Repentance:           rep.Repentance,
		PrayerRequests:       rep.PrayerRequests,
		OtherWork:            rep.OtherWork,
		TomorrowTasks:        rep.TomorrowTasks,
		Attachments:          attachments,
		CreatedAt:            rep.CreatedAt,
		UpdatedAt:            rep.UpdatedAt,
	}
}

func (r *ReportRepository) domainToDAO(rep domain.Report) dao.Report {
	return dao.Report{
		ID:                   rep.ID,
		UserID:               rep.UserID,
		Date:                 rep.Date,
		Name:                 rep.Name,
		Country:              rep.Country,
		Church:               rep.Church,
		EvangelismHours:      rep.EvangelismHours,
		PeopleReached:        rep.PeopleReached,
		ContactsReceived:     rep.ContactsReceived,
		BibleStudySessions:   rep.BibleStudySessions,
		BibleStudyAttendants: rep.BibleStudyAttendants,
		UniqueAttendants:     rep.UniqueAttendants,
		Newcomers:            rep.Newcomers,
		MeditationMinutes:    rep.MeditationMinutes,
		PrayerMinutes:        rep.PrayerMinutes,
		MorningService:       rep.MorningService,
		RegularService:       rep.RegularService,
		SermonsListened:      rep.SermonsListened,
		ArticlesWritten:      rep.ArticlesWritten,
		ExerciseMinutes:      rep.ExerciseMinutes,
		Reflections:          rep.Reflections,
		Thanksgiving:         rep.Thanksgiving,
		Repentance:           rep.Repentance,
		PrayerRequests:       rep.PrayerRequests,
		OtherWork:            rep.OtherWork,
		TomorrowTasks:        rep.TomorrowTasks,
		CreatedAt:            rep.CreatedAt,
		UpdatedAt:            rep.UpdatedAt,
	}
}

func (r *ReportRepository) attachmentToDomain(a dao.Attachment) domain.Attachment {
	return domain.Attachment{
		ID:       a.ID,
		ReportID: a.ReportID,
		FileURL:  a.FileURL,
		FileType: a.FileType,
	}
}

func (r *ReportRepository) daoToDomainSlice(reports []dao.Report) []domain.Report {
	out := make([]domain.Report, 0, len(reports))
	for _, rep := range reports {
		out = append(out, r.daoToDomain(rep))
	}

	return out
}
