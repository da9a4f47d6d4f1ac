package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/student-records-api/internal/models"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
	"github.com/noah-isme/student-records-api/pkg/export"
)

// Export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// StudentRosterHeaders are the columns of the student roster.
var StudentRosterHeaders = []string{"Student ID", "First Name", "Last Name", "Gender", "National ID", "Phone Number"}

var markSheetHeaders = []string{"Student ID", "Student Name", "Course Code", "Course Name", "Mark", "Recorded At"}

type studentExportSource interface {
	ListForExport(ctx context.Context) ([]models.Student, error)
}

type markExportSource interface {
	ListForExport(ctx context.Context, courseID *int64) ([]models.MarkDetail, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders the student roster and mark sheets.
type ExportService struct {
	students studentExportSource
	marks    markExportSource
	csv      csvRenderer
	pdf      pdfRenderer
	title    string
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to the
// default exporters.
func NewExportService(students studentExportSource, marks markExportSource, csv csvRenderer, pdf pdfRenderer, title string, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{students: students, marks: marks, csv: csv, pdf: pdf, title: title, logger: logger, now: time.Now}
}

// Students renders every student in the requested format.
func (s *ExportService) Students(ctx context.Context, format string) (*ExportFile, error) {
	format, err := normalizeFormat(format)
	if err != nil {
		return nil, err
	}
	students, err := s.students.ListForExport(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	return s.render(StudentRosterDataset(students), format, "students", s.heading("Student Roster"))
}

// Marks renders a mark sheet, optionally for a single course.
func (s *ExportService) Marks(ctx context.Context, format string, courseID *int64) (*ExportFile, error) {
	format, err := normalizeFormat(format)
	if err != nil {
		return nil, err
	}
	marks, err := s.marks.ListForExport(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load marks")
	}
	name := "marks"
	if courseID != nil {
		name = fmt.Sprintf("marks-course-%d", *courseID)
	}
	return s.render(MarkSheetDataset(marks), format, name, s.heading("Mark Sheet"))
}

// StudentRosterDataset maps students onto the roster columns.
func StudentRosterDataset(students []models.Student) export.Dataset {
	rows := make([]map[string]string, 0, len(students))
	for _, st := range students {
		rows = append(rows, map[string]string{
			"Student ID":   st.StudentID,
			"First Name":   st.FirstName,
			"Last Name":    st.LastName,
			"Gender":       st.Gender,
			"National ID":  st.NationalID,
			"Phone Number": st.PhoneNumber,
		})
	}
	return export.Dataset{Headers: StudentRosterHeaders, Rows: rows}
}

// MarkSheetDataset maps mark details onto the mark sheet columns.
func MarkSheetDataset(marks []models.MarkDetail) export.Dataset {
	rows := make([]map[string]string, 0, len(marks))
	for _, m := range marks {
		rows = append(rows, map[string]string{
			"Student ID":   m.StudentCode,
			"Student Name": m.StudentFirstName + " " + m.StudentLastName,
			"Course Code":  m.CourseCode,
			"Course Name":  m.CourseName,
			"Mark":         fmt.Sprintf("%.2f", m.Mark.Mark),
			"Recorded At":  m.RecordedAt.UTC().Format(time.RFC3339),
		})
	}
	return export.Dataset{Headers: markSheetHeaders, Rows: rows}
}

func (s *ExportService) heading(section string) string {
	if s.title == "" {
		return section
	}
	return s.title + " - " + section
}

func (s *ExportService) render(data export.Dataset, format, name, title string) (*ExportFile, error) {
	stamp := s.now().UTC().Format("20060102-150405")
	file := &ExportFile{Filename: fmt.Sprintf("%s-%s.%s", name, stamp, format)}
	var err error
	switch format {
	case FormatPDF:
		file.ContentType = "application/pdf"
		file.Body, err = s.pdf.Render(data, title)
	default:
		file.ContentType = "text/csv; charset=utf-8"
		file.Body, err = s.csv.Render(data)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render "+format)
	}
	s.logger.Debug("export rendered", zap.String("file", file.Filename), zap.Int("rows", len(data.Rows)))
	return file, nil
}

func normalizeFormat(format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatPDF:
		return format, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}
