package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"harvest/internal/domain"
)

func sampleReport() domain.Report {
	return domain.Report{
		ID:                   1,
		UserID:               1,
		Date:                 time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		Name:                 "Alice",
		Country:              "Kenya",
		Church:               "Nairobi Central",
		EvangelismHours:      2.5,
		PeopleReached:        4,
		MorningService:       true,
		Reflections:          "a good day",
		TomorrowTasks:        "follow up with contacts",
		BibleStudySessions:   1,
		BibleStudyAttendants: 6,
	}
}

func TestWriteExcel(t *testing.T) {
	var buf bytes.Buffer

	err := WriteExcel(&buf, []domain.Report{sampleReport()})
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Reports")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, ReportColumns, rows[0])

	row := rows[1]
	assert.Equal(t, "2026-08-30", row[0])
	assert.Equal(t, "Alice", row[1])
	assert.Equal(t, "Kenya", row[2])
	assert.Equal(t, "Nairobi Central", row[3])
	assert.Equal(t, "2.5", row[4])
	assert.Equal(t, "Yes", row[13])
	assert.Equal(t, "No", row[14])
}

func TestWriteExcel_Empty(t *testing.T) {
	var buf bytes.Buffer

	err := WriteExcel(&buf, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Reports")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, ReportColumns, rows[0])
}

func TestReportColumnCount(t *testing.T) {
	assert.Len(t, ReportColumns, 24)
	assert.Len(t, reportRow(sampleReport()), len(ReportColumns))
}
