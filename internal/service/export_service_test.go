package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-records-api/internal/models"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

type exportSourceStub struct {
	students []models.Student
	marks    []models.MarkDetail
	course   *int64
	err      error
}

func (s *exportSourceStub) ListForExport(ctx context.Context) ([]models.Student, error) {
	return s.students, s.err
}

type markExportStub struct{ *exportSourceStub }

func (s markExportStub) ListForExport(ctx context.Context, courseID *int64) ([]models.MarkDetail, error) {
	s.course = courseID
	return s.marks, s.err
}

func newExportService(src *exportSourceStub) *ExportService {
	svc := NewExportService(src, markExportStub{src}, nil, nil, "Student Records", nil)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC) }
	return svc
}

func TestExportStudentsCSV(t *testing.T) {
	src := &exportSourceStub{students: []models.Student{
		{StudentID: "ST1", FirstName: "Ada", LastName: "Lovelace", Gender: "F", NationalID: "N1", PhoneNumber: "555"},
	}}

	file, err := newExportService(src).Students(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "students-20240501-080000.csv", file.Filename)
	assert.Equal(t, "Student ID,First Name,Last Name,Gender,National ID,Phone Number\nST1,Ada,Lovelace,F,N1,555\n", string(file.Body))
}

func TestExportMarksPDFForCourse(t *testing.T) {
	src := &exportSourceStub{marks: []models.MarkDetail{
		{Mark: models.Mark{Mark: 88.5, RecordedAt: time.Now()}, StudentCode: "ST1", CourseCode: "MTH101"},
	}}
	course := int64(10)

	file, err := newExportService(src).Marks(context.Background(), "PDF", &course)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasPrefix(file.Filename, "marks-course-10-"))
	assert.True(t, strings.HasPrefix(string(file.Body), "%PDF-"))
	assert.Equal(t, &course, src.course)
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	_, err := newExportService(&exportSourceStub{}).Students(context.Background(), "xml")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestExportSourceFailure(t *testing.T) {
	_, err := newExportService(&exportSourceStub{err: errors.New("db down")}).Marks(context.Background(), "csv", nil)
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}

func TestMarkSheetDatasetFormatsMarks(t *testing.T) {
	data := MarkSheetDataset([]models.MarkDetail{{Mark: models.Mark{Mark: 70}, StudentFirstName: "A", StudentLastName: "B"}})
	assert.Equal(t, "70.00", data.Rows[0]["Mark"])
	assert.Equal(t, "A B", data.Rows[0]["Student Name"])
}
