package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/student-records-api/internal/dto"
	"github.com/noah-isme/student-records-api/internal/models"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

const (
	// ImportSuccessMessage is reported when every row was stored.
	ImportSuccessMessage = "File uploaded successfully."
	importFailurePrefix  = "Error processing CSV file: "
	importFieldCount     = 3
	defaultMaxImportSize = 5 << 20
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type studentLookup interface {
	FindByStudentID(ctx context.Context, studentID string) (*models.Student, error)
}

type courseLookup interface {
	FindByCode(ctx context.Context, code string) (*models.Course, error)
}

type markWriter interface {
	Create(ctx context.Context, mark *models.Mark) error
	CreateBatch(ctx context.Context, marks []models.Mark) error
}

type uploadStore interface {
	SaveUpload(original string, r io.Reader) (string, error)
	Delete(rel string) error
}

type dashboardInvalidator interface {
	Invalidate(ctx context.Context)
}

// MarkImportConfig tunes bulk imports.
type MarkImportConfig struct {
	AllowedExtensions []string
	MaxFileSize       int64
	Atomic            bool
}

// MarkImportParams groups the importer's collaborators. Storage, Dashboard and
// Metrics are optional.
type MarkImportParams struct {
	Students  studentLookup
	Courses   courseLookup
	Marks     markWriter
	Storage   uploadStore
	Dashboard dashboardInvalidator
	Metrics   *MetricsService
	Logger    *zap.Logger
	Config    MarkImportConfig
}

// MarkImportService turns an uploaded student_id,course_code,mark sheet into
// Mark rows.
type MarkImportService struct {
	students  studentLookup
	courses   courseLookup
	marks     markWriter
	storage   uploadStore
	dashboard dashboardInvalidator
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       MarkImportConfig
	allowed   map[string]bool
}

// NewMarkImportService constructs the importer.
func NewMarkImportService(params MarkImportParams) *MarkImportService {
	cfg := params.Config
	if len(cfg.AllowedExtensions) == 0 {
		cfg.AllowedExtensions = []string{".csv"}
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = defaultMaxImportSize
	}
	allowed := make(map[string]bool, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = true
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarkImportService{
		students:  params.Students,
		courses:   params.Courses,
		marks:     params.Marks,
		storage:   params.Storage,
		dashboard: params.Dashboard,
		metrics:   params.Metrics,
		logger:    logger,
		cfg:       cfg,
		allowed:   allowed,
	}
}

// Atomic reports whether imports run in a single transaction.
func (s *MarkImportService) Atomic() bool {
	return s.cfg.Atomic
}

// sheetRow is one data row with the 1-based line it came from.
type sheetRow struct {
	fields []string
	line   int
}

// Import validates and stores the uploaded file. The outcome, including any
// failure, is carried in the returned result.
func (s *MarkImportService) Import(ctx context.Context, filename string, size int64, r io.Reader) *dto.MarkImportResult {
	start := time.Now()
	result := &dto.MarkImportResult{Atomic: s.cfg.Atomic}
	defer func() {
		outcome := "success"
		if result.Error != nil {
			outcome = strings.ToLower(result.Error.Code)
		}
		s.metrics.RecordImport(outcome, result.Created, time.Since(start))
		fields := []zap.Field{
			zap.String("file", filename),
			zap.Bool("atomic", s.cfg.Atomic),
			zap.Int("created", result.Created),
			zap.Duration("duration", time.Since(start)),
		}
		if result.Error != nil {
			s.logger.Warn("mark import failed", append(fields, zap.String("code", result.Error.Code), zap.Int("row", result.FailedRow), zap.Error(result.Error))...)
			return
		}
		s.logger.Info("mark import finished", fields...)
	}()

	ext := strings.ToLower(filepath.Ext(filename))
	if !s.allowed[ext] {
		s.fail(result, appErrors.Clone(appErrors.ErrInvalidFileType, ""))
		return result
	}
	if size > s.cfg.MaxFileSize {
		s.fail(result, s.tooLarge())
		return result
	}

	data, err := io.ReadAll(io.LimitReader(r, s.cfg.MaxFileSize+1))
	if err != nil {
		s.fail(result, appErrors.CloneWrap(appErrors.ErrProcessing, err, "read upload: "+err.Error()))
		return result
	}
	if int64(len(data)) > s.cfg.MaxFileSize {
		s.fail(result, s.tooLarge())
		return result
	}

	rows, err := parseSheet(ext, data)
	if err != nil {
		s.fail(result, err)
		return result
	}
	if len(rows) < 2 {
		s.fail(result, appErrors.Clone(appErrors.ErrEmptyOrInvalidData, ""))
		return result
	}

	var upload *string
	if s.storage != nil {
		stored, err := s.storage.SaveUpload(filename, bytes.NewReader(data))
		if err != nil {
			s.fail(result, appErrors.CloneWrap(appErrors.ErrProcessing, err, "store upload: "+err.Error()))
			return result
		}
		upload = &stored
		result.File = stored
	}

	err = s.importRows(ctx, rows[1:], upload, result)
	if result.Created > 0 && s.dashboard != nil {
		s.dashboard.Invalidate(ctx)
	}
	if err != nil {
		if upload != nil && result.Created == 0 {
			s.discardUpload(*upload, result)
		}
		s.fail(result, err)
		return result
	}
	result.Succeeded = true
	result.Message = ImportSuccessMessage
	return result
}

// discardUpload removes a stored file no mark row points at.
func (s *MarkImportService) discardUpload(rel string, result *dto.MarkImportResult) {
	if err := s.storage.Delete(rel); err != nil {
		s.logger.Warn("failed to remove orphaned upload", zap.String("path", rel), zap.Error(err))
		return
	}
	result.File = ""
}

func (s *MarkImportService) importRows(ctx context.Context, rows []sheetRow, upload *string, result *dto.MarkImportResult) error {
	studentIDs := make(map[string]int64)
	courseIDs := make(map[string]int64)
	pending := make([]models.Mark, 0, len(rows))

	for i, row := range rows {
		number := i + 1
		mark, err := s.resolveRow(ctx, number, row, studentIDs, courseIDs)
		if err != nil {
			result.FailedRow, result.FailedLine = number, row.line
			return err
		}
		mark.FileUpload = upload
		if s.cfg.Atomic {
			pending = append(pending, *mark)
			continue
		}
		if err := s.marks.Create(ctx, mark); err != nil {
			result.FailedRow, result.FailedLine = number, row.line
			return rowError(appErrors.ErrProcessing, number, row.line, err, "save mark: "+err.Error())
		}
		result.Created++
	}

	if s.cfg.Atomic {
		if err := s.marks.CreateBatch(ctx, pending); err != nil {
			return appErrors.CloneWrap(appErrors.ErrProcessing, err, "save marks: "+err.Error())
		}
		result.Created = len(pending)
	}
	return nil
}

func (s *MarkImportService) resolveRow(ctx context.Context, number int, row sheetRow, studentIDs, courseIDs map[string]int64) (*models.Mark, error) {
	if len(row.fields) != importFieldCount {
		return nil, rowError(appErrors.ErrProcessing, number, row.line, nil,
			fmt.Sprintf("expected %d fields (student_id, course_code, mark), got %d", importFieldCount, len(row.fields)))
	}
	studentCode := strings.TrimSpace(row.fields[0])
	courseCode := strings.TrimSpace(row.fields[1])

	studentID, ok := studentIDs[studentCode]
	if !ok {
		student, err := s.students.FindByStudentID(ctx, studentCode)
		if err != nil {
			return nil, lookupError(err, number, row.line, "student", studentCode)
		}
		studentID = student.ID
		studentIDs[studentCode] = studentID
	}

	courseID, ok := courseIDs[courseCode]
	if !ok {
		course, err := s.courses.FindByCode(ctx, courseCode)
		if err != nil {
			return nil, lookupError(err, number, row.line, "course", courseCode)
		}
		courseID = course.ID
		courseIDs[courseCode] = courseID
	}

	value, err := ParseMark(row.fields[2])
	if err != nil {
		appErr := appErrors.FromError(err)
		return nil, rowError(appErr, number, row.line, nil, appErr.Message)
	}
	return &models.Mark{StudentID: studentID, CourseID: courseID, Mark: value}, nil
}

// ParseMark coerces a literal mark into a value rounded to two decimals and
// checks it against the accepted range.
func ParseMark(raw string) (float64, error) {
	trimmed := strings.TrimSpace(raw)
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, appErrors.Clone(appErrors.ErrValueCoercion, fmt.Sprintf("mark %q is not a number", raw))
	}
	value = round2(value)
	if value < models.MinMark || value > models.MaxMark {
		return 0, appErrors.Clone(appErrors.ErrMarkOutOfRange,
			fmt.Sprintf("mark %s is outside %g-%g", trimmed, models.MinMark, models.MaxMark))
	}
	return value, nil
}

func lookupError(err error, number, line int, entity, key string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return rowError(appErrors.ErrLookupFailure, number, line, nil, fmt.Sprintf("%s %q not found", entity, key))
	}
	return rowError(appErrors.ErrProcessing, number, line, err, fmt.Sprintf("look up %s %q: %v", entity, key, err))
}

// rowError clones base with a message locating the data row and file line.
func rowError(base *appErrors.Error, number, line int, cause error, msg string) *appErrors.Error {
	return appErrors.CloneWrap(base, cause, fmt.Sprintf("row %d (line %d): %s", number, line, msg))
}

func (s *MarkImportService) tooLarge() *appErrors.Error {
	return appErrors.Clone(appErrors.ErrFileTooLarge, fmt.Sprintf("file exceeds the %d byte upload limit", s.cfg.MaxFileSize))
}

func (s *MarkImportService) fail(result *dto.MarkImportResult, err error) {
	appErr := appErrors.FromError(err)
	result.Succeeded = false
	result.Error = appErr
	switch appErr.Code {
	case appErrors.ErrInvalidFileType.Code, appErrors.ErrEmptyOrInvalidData.Code, appErrors.ErrFileTooLarge.Code:
		result.Message = appErr.Message
	default:
		result.Message = importFailurePrefix + appErr.Message
	}
}

func parseSheet(ext string, data []byte) ([]sheetRow, error) {
	if ext == ".xlsx" {
		return parseWorkbook(data)
	}
	return parseCSV(data)
}

func parseCSV(data []byte) ([]sheetRow, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, appErrors.Clone(appErrors.ErrProcessing, "file is not valid UTF-8 text")
	}
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows []sheetRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, appErrors.CloneWrap(appErrors.ErrProcessing, err, err.Error())
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, sheetRow{fields: record, line: line})
	}
	return rows, nil
}

func parseWorkbook(data []byte) ([]sheetRow, error) {
	book, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, appErrors.CloneWrap(appErrors.ErrProcessing, err, "open workbook: "+err.Error())
	}
	defer book.Close() //nolint:errcheck

	sheet := book.GetSheetName(0)
	if sheet == "" {
		return nil, nil
	}
	cells, err := book.GetRows(sheet)
	if err != nil {
		return nil, appErrors.CloneWrap(appErrors.ErrProcessing, err, "read sheet "+sheet+": "+err.Error())
	}
	rows := make([]sheetRow, 0, len(cells))
	for i, record := range cells {
		if isBlank(record) {
			continue
		}
		rows = append(rows, sheetRow{fields: record, line: i + 1})
	}
	return rows, nil
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
