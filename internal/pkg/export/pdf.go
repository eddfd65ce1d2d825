package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"harvest/internal/domain"
)

type pdfLine struct {
	label string
	value string
}

// WritePDF renders one page per report. Metrics are grouped the way
// the submission form groups them, with free-text sections last.
func WritePDF(w io.Writer, reports []domain.Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)

	if len(reports) == 0 {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 14)
		pdf.Cell(0, 10, "Activity Reports")
		pdf.Ln(12)
		pdf.SetFont("Helvetica", "", 11)
		pdf.Cell(0, 8, "No reports in the selected range.")
	}

	for _, r := range reports {
		pdf.AddPage()

		pdf.SetFont("Helvetica", "B", 14)
		pdf.Cell(0, 10, fmt.Sprintf("Activity Report - %s", r.Date.Format("2006-01-02")))
		pdf.Ln(10)

		pdf.SetFont("Helvetica", "", 11)
		pdf.Cell(0, 7, fmt.Sprintf("%s  |  %s  |  %s", r.Name, r.Country, r.Church))
		pdf.Ln(10)

		writePDFSection(pdf, "Evangelism", []pdfLine{
			{"Evangelism Hours", fmt.Sprintf("%.1f", r.EvangelismHours)},
			{"People Reached", fmt.Sprintf("%d", r.PeopleReached)},
			{"Contacts Received", fmt.Sprintf("%d", r.ContactsReceived)},
		})
		writePDFSection(pdf, "Bible Study", []pdfLine{
			{"Sessions", fmt.Sprintf("%d", r.BibleStudySessions)},
			{"Attendants", fmt.Sprintf("%d", r.BibleStudyAttendants)},
			{"Unique Attendants", fmt.Sprintf("%d", r.UniqueAttendants)},
			{"Newcomers", fmt.Sprintf("%d", r.Newcomers)},
		})
		writePDFSection(pdf, "Devotion", []pdfLine{
			{"Meditation (min)", fmt.Sprintf("%d", r.MeditationMinutes)},
			{"Prayer (min)", fmt.Sprintf("%d", r.PrayerMinutes)},
			{"Morning Service", yesNo(r.MorningService)},
			{"Regular Service", yesNo(r.RegularService)},
			{"Sermons Listened", fmt.Sprintf("%d", r.SermonsListened)},
		})
		writePDFSection(pdf, "Personal", []pdfLine{
			{"Articles Written", fmt.Sprintf("%d", r.ArticlesWritten)},
			{"Exercise (min)", fmt.Sprintf("%d", r.ExerciseMinutes)},
		})

		writePDFText(pdf, "Reflections", r.Reflections)
		writePDFText(pdf, "Thanksgiving", r.Thanksgiving)
		writePDFText(pdf, "Repentance", r.Repentance)
		writePDFText(pdf, "Prayer Requests", r.PrayerRequests)
		writePDFText(pdf, "Other Work", r.OtherWork)
		writePDFText(pdf, "Tomorrow's Tasks", r.TomorrowTasks)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf.Output -> %w", err)
	}

	return nil
}

func writePDFSection(pdf *fpdf.Fpdf, title string, lines []pdfLine) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range lines {
		pdf.Cell(70, 6, line.label)
		pdf.Cell(0, 6, line.value)
		pdf.Ln(6)
	}
	pdf.Ln(3)
}

func writePDFText(pdf *fpdf.Fpdf, title, body string) {
	if body == "" {
		return
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, body, "", "L", false)
	pdf.Ln(3)
}
