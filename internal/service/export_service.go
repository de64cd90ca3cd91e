package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/admissions-portal-api/internal/models"
	appErrors "github.com/noah-isme/admissions-portal-api/pkg/errors"
	"github.com/noah-isme/admissions-portal-api/pkg/export"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	RenderSummary(title, subtitle string, sections []export.Section) ([]byte, error)
}

var applicationExportHeaders = []string{
	"Application Number", "First Name", "Last Name", "Email", "Phone", "Program", "Level",
	"Intake Year", "Intake Semester", "Mode of Study", "Status", "Terms Agreed", "Submitted At", "Created At",
}

var contactExportHeaders = []string{"Name", "Email", "Subject", "Message", "Status", "Admin Notes", "Received At"}

// ExportService renders applications and contact messages into CSV and PDF files.
type ExportService struct {
	csv csvRenderer
	pdf pdfRenderer
}

// NewExportService constructs an ExportService. Nil renderers fall back to the defaults.
func NewExportService(csv csvRenderer, pdf pdfRenderer) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{csv: csv, pdf: pdf}
}

// ApplicationsCSV renders one row per application.
func (s *ExportService) ApplicationsCSV(apps []models.ApplicationView) ([]byte, error) {
	rows := make([]map[string]string, 0, len(apps))
	for _, app := range apps {
		rows = append(rows, map[string]string{
			"Application Number": deref(app.ApplicationNumber),
			"First Name":         app.PersonalInfo.FirstName,
			"Last Name":          app.PersonalInfo.LastName,
			"Email":              app.PersonalInfo.Email,
			"Phone":              app.PersonalInfo.Phone,
			"Program":            app.CourseSelection.Program,
			"Level":              app.CourseSelection.Level,
			"Intake Year":        strconv.Itoa(app.CourseSelection.IntakeYear),
			"Intake Semester":    app.CourseSelection.IntakeSemester,
			"Mode of Study":      app.CourseSelection.ModeOfStudy,
			"Status":             string(app.Status),
			"Terms Agreed":       strconv.FormatBool(app.TermsAgreed),
			"Submitted At":       formatTime(app.SubmittedAt),
			"Created At":         app.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	data, err := s.csv.Render(export.Dataset{Headers: applicationExportHeaders, Rows: rows})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render applications export")
	}
	return data, nil
}

// ApplicationSummaryPDF lays out a single application for printing.
func (s *ExportService) ApplicationSummaryPDF(app *models.ApplicationView) ([]byte, error) {
	p := app.PersonalInfo
	l := app.LocationInfo
	c := app.CourseSelection

	sections := []export.Section{
		{
			Heading: "Personal Information",
			Fields: []export.Field{
				{Label: "Full name", Value: app.FullName},
				{Label: "Email", Value: p.Email},
				{Label: "Phone", Value: p.Phone},
				{Label: "Date of birth", Value: formatDate(p.DateOfBirth)},
				{Label: "Gender", Value: p.Gender},
				{Label: "Nationality", Value: p.Nationality},
			},
		},
		{
			Heading: "Location",
			Fields: []export.Field{
				{Label: "Province", Value: l.Province},
				{Label: "District", Value: l.District},
				{Label: "Sector", Value: l.Sector},
				{Label: "Cell", Value: l.Cell},
				{Label: "Village", Value: l.Village},
				{Label: "Address", Value: l.Address},
			},
		},
		{
			Heading: "Course Selection",
			Fields: []export.Field{
				{Label: "Program", Value: c.Program},
				{Label: "Level", Value: c.Level},
				{Label: "Specialization", Value: c.Specialization},
				{Label: "Intake", Value: fmt.Sprintf("%s %d", c.IntakeSemester, c.IntakeYear)},
				{Label: "Mode of study", Value: c.ModeOfStudy},
			},
		},
		{
			Heading: "Documents",
			Table:   documentTable(&app.Documents),
		},
		{
			Heading: "Status",
			Fields: []export.Field{
				{Label: "Current status", Value: string(app.Status)},
				{Label: "Submitted at", Value: formatTime(app.SubmittedAt)},
				{Label: "Reviewed at", Value: formatTime(app.ReviewedAt)},
				{Label: "Review notes", Value: deref(app.ReviewNotes)},
			},
			Table: historyTable(app.StatusHistory),
		},
	}

	subtitle := "Draft application"
	if app.ApplicationNumber != nil {
		subtitle = *app.ApplicationNumber
	}
	data, err := s.pdf.RenderSummary("Application Summary", subtitle, sections)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render application summary")
	}
	return data, nil
}

// ContactsCSV renders the contact inbox.
func (s *ExportService) ContactsCSV(contacts []models.Contact) ([]byte, error) {
	rows := make([]map[string]string, 0, len(contacts))
	for _, contact := range contacts {
		rows = append(rows, map[string]string{
			"Name":        contact.FullName(),
			"Email":       contact.Email,
			"Subject":     contact.Subject,
			"Message":     contact.Message,
			"Status":      string(contact.Status),
			"Admin Notes": contact.AdminNotes,
			"Received At": contact.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	data, err := s.csv.Render(export.Dataset{Headers: contactExportHeaders, Rows: rows})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render contacts export")
	}
	return data, nil
}

func documentTable(docs *models.Documents) export.Dataset {
	headers := []string{"Slot", "File", "Size"}
	rows := make([]map[string]string, 0, len(models.SingleDocumentSlots)+len(docs.RecommendationLetters))
	for _, slot := range models.SingleDocumentSlots {
		row := map[string]string{"Slot": string(slot), "File": "missing"}
		if meta := docs.Slot(slot); meta != nil {
			row["File"] = fileLabel(*meta)
			row["Size"] = strconv.FormatInt(meta.Size, 10)
		}
		rows = append(rows, row)
	}
	for i, letter := range docs.RecommendationLetters {
		rows = append(rows, map[string]string{
			"Slot": fmt.Sprintf("recommendation letter %d", i+1),
			"File": fileLabel(letter),
			"Size": strconv.FormatInt(letter.Size, 10),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func historyTable(history models.StatusHistory) export.Dataset {
	if len(history) == 0 {
		return export.Dataset{}
	}
	rows := make([]map[string]string, 0, len(history))
	for _, entry := range history {
		rows = append(rows, map[string]string{
			"Status": string(entry.Status),
			"When":   entry.ChangedAt.UTC().Format(time.RFC3339),
			"Notes":  entry.Notes,
		})
	}
	return export.Dataset{Headers: []string{"Status", "When", "Notes"}, Rows: rows}
}

func fileLabel(meta models.FileMeta) string {
	if meta.OriginalName != "" {
		return meta.OriginalName
	}
	return meta.Filename
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}
