package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"harvest/internal/repository/dao"
)

var ErrBackupNotFound = errors.New("backup file not found")

type BackupDAO interface {
	FetchSnapshot(ctx context.Context) (dao.Snapshot, error)
}

type BackupInfo struct {
	Filename  string    `json:"filename"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// BackupService snapshots the four tables into a portable SQL script
// under dir. Script generation is pure; only Create/History/Resolve
// touch the filesystem.
type BackupService struct {
	dao BackupDAO
	dir string
	now func() time.Time
}

func NewBackupService(dao BackupDAO, dir string) *BackupService {
	return &BackupService{
		dao: dao,
		dir: dir,
		now: time.Now,
	}
}

func (s *BackupService) Create(ctx context.Context) (BackupInfo, error) {
	snap, err := s.dao.FetchSnapshot(ctx)
	if err != nil {
		return BackupInfo{}, fmt.Errorf("s.dao.FetchSnapshot -> %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return BackupInfo{}, fmt.Errorf("os.MkdirAll -> %w", err)
	}

	filename := fmt.Sprintf("backup-%s-%s.sql",
		s.now().Format("20060102-150405"), uuid.NewString()[:8])
	script := BuildBackupScript(snap)

	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		return BackupInfo{}, fmt.Errorf("os.WriteFile -> %w", err)
	}

	return BackupInfo{
		Filename:  filename,
		Size:      int64(len(script)),
		CreatedAt: s.now(),
	}, nil
}

// History lists generated backups, newest first.
func (s *BackupService) History() ([]BackupInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []BackupInfo{}, nil
		}

		return nil, fmt.Errorf("os.ReadDir -> %w", err)
	}

	backups := make([]BackupInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Filename:  entry.Name(),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})

	return backups, nil
}

// Resolve maps a requested filename to its on-disk path, refusing
// anything that is not a plain generated backup name.
func (s *BackupService) Resolve(filename string) (string, error) {
	if filename != filepath.Base(filename) ||
		!strings.HasPrefix(filename, "backup-") ||
		!strings.HasSuffix(filename, ".sql") {
		return "", ErrBackupNotFound
	}

	path := filepath.Join(s.dir, filename)
	if _, err := os.Stat(path); err != nil {
		return "", ErrBackupNotFound
	}

	return path, nil
}

// BuildBackupScript emits a single-transaction restore script:
// truncate in dependency order, reinsert every row, then correct the
// serial sequences so future inserts don't collide.
func BuildBackupScript(snap dao.Snapshot) string {
	var b strings.Builder

	b.WriteString("BEGIN;\n\n")
	b.WriteString("TRUNCATE TABLE attachments CASCADE;\n")
	b.WriteString("TRUNCATE TABLE reports CASCADE;\n")
	b.WriteString("TRUNCATE TABLE report_templates CASCADE;\n")
	b.WriteString("TRUNCATE TABLE users CASCADE;\n\n")

	for _, u := range snap.Users {
		b.WriteString(fmt.Sprintf(
			"INSERT INTO users (id, fullname, email, password, role, country, contact, address, church, profile_image, reset_token, reset_token_expiry, created_at, updated_at) VALUES (%d, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s);\n",
			u.ID, quoteSQL(u.Fullname), quoteSQL(u.Email), quoteSQL(u.Password),
			quoteSQL(u.Role), quoteSQL(u.Country), quoteSQL(u.Contact),
			quoteSQL(u.Address), quoteSQL(u.Church), quoteSQL(u.ProfileImage),
			quoteSQL(u.ResetToken), quoteSQLTimePtr(u.ResetTokenExpiry),
			quoteSQLTime(u.CreatedAt), quoteSQLTime(u.UpdatedAt)))
	}
	b.WriteString("\n")

	for _, r := range snap.Reports {
		b.WriteString(fmt.Sprintf(
			"INSERT INTO reports (id, user_id, date, name, country, church, evangelism_hours, people_reached, contacts_received, bible_study_sessions, bible_study_attendants, unique_attendants, newcomers, meditation_minutes, prayer_minutes, morning_service, regular_service, sermons_listened, articles_written, exercise_minutes, reflections, thanksgiving, repentance, prayer_requests, other_work, tomorrow_tasks, created_at, updated_at) VALUES (%d, %d, %s, %s, %s, %s, %s, %d, %d, %d, %d, %d, %d, %d, %d, %s, %s, %d, %d, %d, %s, %s, %s, %s, %s, %s, %s, %s);\n",
			r.ID, r.UserID, quoteSQLTime(r.Date), quoteSQL(r.Name),
			quoteSQL(r.Country), quoteSQL(r.Church),
			strconv.FormatFloat(r.EvangelismHours, 'f', -1, 64),
			r.PeopleReached, r.ContactsReceived, r.BibleStudySessions,
			r.BibleStudyAttendants, r.UniqueAttendants, r.Newcomers,
			r.MeditationMinutes, r.PrayerMinutes,
			quoteSQLBool(r.MorningService), quoteSQLBool(r.RegularService),
			r.SermonsListened, r.ArticlesWritten, r.ExerciseMinutes,
			quoteSQL(r.Reflections), quoteSQL(r.Thanksgiving),
			quoteSQL(r.Repentance), quoteSQL(r.PrayerRequests),
			quoteSQL(r.OtherWork), quoteSQL(r.TomorrowTasks),
			quoteSQLTime(r.CreatedAt), quoteSQLTime(r.UpdatedAt)))
	}
	b.WriteString("\n")

	for _, a := range snap.Attachments {
		b.WriteString(fmt.Sprintf(
			"INSERT INTO attachments (id, report_id, file_url, file_type) VALUES (%d, %d, %s, %s);\n",
			a.ID, a.ReportID, quoteSQL(a.FileURL), quoteSQL(a.FileType)))
	}
	b.WriteString("\n")

	for _, t := range snap.Templates {
		b.WriteString(fmt.Sprintf(
			"INSERT INTO report_templates (id, name, sections, is_active, created_at, updated_at) VALUES (%d, %s, %s, %s, %s, %s);\n",
			t.ID, quoteSQL(t.Name), quoteSQL(t.Sections), quoteSQLBool(t.IsActive),
			quoteSQLTime(t.CreatedAt), quoteSQLTime(t.UpdatedAt)))
	}
	b.WriteString("\n")

	for _, table := range []string{"users", "reports", "attachments", "report_templates"} {
		b.WriteString(fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 1));\n",
			table, table))
	}

	b.WriteString("\nCOMMIT;\n")

	return b.String()
}

func quoteSQL(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteSQLBool(v bool) string {
	if v {
		return "TRUE"
	}

	return "FALSE"
}

func quoteSQLTime(t time.Time) string {
	return "'" + t.UTC().Format("2006-01-02 15:04:05.999999") + "'"
}

func quoteSQLTimePtr(t *time.Time) string {
	if t == nil {
		return "NULL"
	}

	return quoteSQLTime(*t)
}
