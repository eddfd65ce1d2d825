package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harvest/internal/repository/dao"
)

type stubBackupDAO struct {
	snap dao.Snapshot
}

func (s *stubBackupDAO) FetchSnapshot(_ context.Context) (dao.Snapshot, error) {
	return s.snap, nil
}

func TestBuildBackupScript(t *testing.T) {
	created := time.Date(2026, 8, 30, 10, 30, 0, 0, time.UTC)
	snap := dao.Snapshot{
		Users: []dao.User{
			{
				ID:        1,
				Fullname:  "Alice O'Brien",
				Email:     "alice@example.com",
				Password:  "$2a$10$hash",
				Role:      "member",
				Country:   "Ireland",
				CreatedAt: created,
				UpdatedAt: created,
			},
		},
		Reports: []dao.Report{
			{
				ID:              3,
				UserID:          1,
				Date:            created,
				Name:            "Alice O'Brien",
				Country:         "Ireland",
				EvangelismHours: 2.5,
				MorningService:  true,
				Reflections:     "it's fine; really",
				CreatedAt:       created,
				UpdatedAt:       created,
			},
		},
		Attachments: []dao.Attachment{
			{ID: 5, ReportID: 3, FileURL: "/uploads/a.png", FileType: "image/png"},
		},
		Templates: []dao.ReportTemplate{
			{ID: 1, Name: "Default", Sections: `{"weekday":[]}`, IsActive: true, CreatedAt: created, UpdatedAt: created},
		},
	}

	script := BuildBackupScript(snap)

	t.Run("wrapped in a transaction", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(script, "BEGIN;"))
		assert.True(t, strings.HasSuffix(strings.TrimSpace(script), "COMMIT;"))
	})

	t.Run("truncates in dependency order", func(t *testing.T) {
		attachments := strings.Index(script, "TRUNCATE TABLE attachments")
		reports := strings.Index(script, "TRUNCATE TABLE reports")
		templates := strings.Index(script, "TRUNCATE TABLE report_templates")
		users := strings.Index(script, "TRUNCATE TABLE users")

		require.True(t, attachments >= 0 && reports >= 0 && templates >= 0 && users >= 0)
		assert.Less(t, attachments, reports)
		assert.Less(t, reports, templates)
		assert.Less(t, templates, users)
	})

	t.Run("quotes are doubled", func(t *testing.T) {
		assert.Contains(t, script, "'Alice O''Brien'")
		assert.Contains(t, script, "'it''s fine; really'")
	})

	t.Run("value rendering", func(t *testing.T) {
		assert.Contains(t, script, "2.5")
		assert.Contains(t, script, "TRUE")
		assert.Contains(t, script, "NULL")
		assert.Contains(t, script, "'2026-08-30 10:30:00'")
	})

	t.Run("users are inserted before reports", func(t *testing.T) {
		userInsert := strings.Index(script, "INSERT INTO users")
		reportInsert := strings.Index(script, "INSERT INTO reports")
		attachmentInsert := strings.Index(script, "INSERT INTO attachments")

		require.True(t, userInsert >= 0 && reportInsert >= 0 && attachmentInsert >= 0)
		assert.Less(t, userInsert, reportInsert)
		assert.Less(t, reportInsert, attachmentInsert)
	})

	t.Run("sequences are corrected", func(t *testing.T) {
		for _, table := range []string{"users", "reports", "attachments", "report_templates"} {
			assert.Contains(t, script,
				"SELECT setval(pg_get_serial_sequence('"+table+"', 'id'), COALESCE((SELECT MAX(id) FROM "+table+"), 1));")
		}
	})
}

func TestBackupService(t *testing.T) {
	dir := t.TempDir()
	svc := NewBackupService(&stubBackupDAO{}, dir)
	svc.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }

	info, err := svc.Create(context.Background())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(info.Filename, "backup-20260830-120000-"))
	assert.True(t, strings.HasSuffix(info.Filename, ".sql"))
	assert.Positive(t, info.Size)

	data, err := os.ReadFile(filepath.Join(dir, info.Filename))
	require.NoError(t, err)
	assert.Contains(t, string(data), "BEGIN;")

	t.Run("history lists the new file", func(t *testing.T) {
		backups, err := svc.History()

		require.NoError(t, err)
		require.Len(t, backups, 1)
		assert.Equal(t, info.Filename, backups[0].Filename)
	})

	t.Run("resolve returns the on-disk path", func(t *testing.T) {
		path, err := svc.Resolve(info.Filename)

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, info.Filename), path)
	})

	t.Run("resolve rejects traversal and foreign names", func(t *testing.T) {
		for _, name := range []string{
			"../secrets.sql",
			"backup-1/../../etc/passwd",
			"notes.txt",
			"backup-missing.sql",
		} {
			_, err := svc.Resolve(name)
			assert.ErrorIs(t, err, ErrBackupNotFound, name)
		}
	})

	t.Run("history on a missing dir is empty", func(t *testing.T) {
		empty := NewBackupService(&stubBackupDAO{}, filepath.Join(dir, "nope"))

		backups, err := empty.History()

		require.NoError(t, err)
		assert.Empty(t, backups)
	})
}
