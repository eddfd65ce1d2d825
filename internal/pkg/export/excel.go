package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"harvest/internal/domain"
)

// ReportColumns is the fixed column order shared by the spreadsheet
// and PDF renderers.
var ReportColumns = []string{
	"Date",
	"Name",
	"Country",
	"Church",
	"Evangelism Hours",
	"People Reached",
	"Contacts Received",
	"Bible Study Sessions",
	"Bible Study Attendants",
	"Unique Attendants",
	"Newcomers",
	"Meditation(min)",
	"Prayer(min)",
	"Morning Service",
	"Regular Service",
	"Sermons Listened",
	"Articles Written",
	"Exercise(min)",
	"Reflections",
	"Thanksgiving",
	"Repentance",
	"Prayer Requests",
	"Other Work",
	"Tomorrow Tasks",
}

func reportRow(r domain.Report) []interface{} {
	return []interface{}{
		r.Date.Format("2006-01-02"),
		r.Name,
		r.Country,
		r.Church,
		r.EvangelismHours,
		r.PeopleReached,
		r.ContactsReceived,
		r.BibleStudySessions,
		r.BibleStudyAttendants,
		r.UniqueAttendants,
		r.Newcomers,
		r.MeditationMinutes,
		r.PrayerMinutes,
		yesNo(r.MorningService),
		yesNo(r.RegularService),
		r.SermonsListened,
		r.ArticlesWritten,
		r.ExerciseMinutes,
		r.Reflections,
		r.Thanksgiving,
		r.Repentance,
		r.PrayerRequests,
		r.OtherWork,
		r.TomorrowTasks,
	}
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}

	return "No"
}

// WriteExcel renders reports as a single-sheet workbook, one row per
// report under a bold header.
func WriteExcel(w io.Writer, reports []domain.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Reports"

	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("f.NewSheet -> %w", err)
	}
	f.SetActiveSheet(index)
	if err = f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("f.DeleteSheet -> %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("f.NewStyle -> %w", err)
	}

	for i, col := range ReportColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("excelize.CoordinatesToCellName -> %w", err)
		}
		if err = f.SetCellValue(sheet, cell, col); err != nil {
			return fmt.Errorf("f.SetCellValue -> %w", err)
		}
		if err = f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("f.SetCellStyle -> %w", err)
		}
	}

	for i, report := range reports {
		cell := "A" + strconv.Itoa(i+2)
		row := reportRow(report)
		if err = f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("f.SetSheetRow -> %w", err)
		}
	}

	if err = f.Write(w); err != nil {
		return fmt.Errorf("f.Write -> %w", err)
	}

	return nil
}
