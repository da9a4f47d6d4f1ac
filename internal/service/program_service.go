package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/student-records-api/internal/models"
)

type programRepository interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.Program, int, error)
	FindByID(ctx context.Context, id int64) (*models.Program, error)
	Courses(ctx context.Context, programID int64) ([]models.Course, error)
	Create(ctx context.Context, program *models.Program) error
	Update(ctx context.Context, program *models.Program) error
	Delete(ctx context.Context, id int64) error
	SetCourses(ctx context.Context, programID int64, courseIDs []int64) error
}

// ProgramRequest is the payload for creating or replacing a program. A nil
// CourseIDs leaves the course set unchanged on update.
type ProgramRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description string  `json:"description"`
	CourseIDs   []int64 `json:"course_ids" validate:"omitempty,dive,gt=0"`
}

// SetCoursesRequest replaces a program's courses.
type SetCoursesRequest struct {
	CourseIDs []int64 `json:"course_ids" validate:"dive,gt=0"`
}

// ProgramService handles programs and their course sets.
type ProgramService struct {
	repo      programRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProgramService constructs the program service.
func NewProgramService(repo programRepository, validate *validator.Validate, logger *zap.Logger) *ProgramService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramService{repo: repo, validator: validate, logger: logger}
}

// List returns programs with total_courses.
func (s *ProgramService) List(ctx context.Context, filter models.ListFilter) ([]models.Program, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storeError(err, "program", "list")
	}
	return items, filter.Paginate(total), nil
}

// Get returns a program with its courses.
func (s *ProgramService) Get(ctx context.Context, id int64) (*models.ProgramDetail, error) {
	program, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "program", "load")
	}
	courses, err := s.repo.Courses(ctx, id)
	if err != nil {
		return nil, storeError(err, "program", "load")
	}
	if courses == nil {
		courses = []models.Course{}
	}
	return &models.ProgramDetail{Program: *program, Courses: courses}, nil
}

// Create stores a program and attaches the requested courses.
func (s *ProgramService) Create(ctx context.Context, req ProgramRequest) (*models.ProgramDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "program")
	}
	program := &models.Program{Name: req.Name, Description: req.Description}
	if err := s.repo.Create(ctx, program); err != nil {
		return nil, storeError(err, "program", "create")
	}
	if len(req.CourseIDs) > 0 {
		if err := s.repo.SetCourses(ctx, program.ID, dedupeIDs(req.CourseIDs)); err != nil {
			return nil, storeError(err, "program", "attach courses to")
		}
	}
	return s.Get(ctx, program.ID)
}

// Update replaces program fields and, when given, its courses.
func (s *ProgramService) Update(ctx context.Context, id int64, req ProgramRequest) (*models.ProgramDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "program")
	}
	if err := s.repo.Update(ctx, &models.Program{ID: id, Name: req.Name, Description: req.Description}); err != nil {
		return nil, storeError(err, "program", "update")
	}
	if req.CourseIDs != nil {
		if err := s.repo.SetCourses(ctx, id, dedupeIDs(req.CourseIDs)); err != nil {
			return nil, storeError(err, "program", "attach courses to")
		}
	}
	return s.Get(ctx, id)
}

// SetCourses replaces the course set of a program in one transaction.
func (s *ProgramService) SetCourses(ctx context.Context, id int64, req SetCoursesRequest) (*models.ProgramDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "program courses")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, storeError(err, "program", "load")
	}
	if err := s.repo.SetCourses(ctx, id, dedupeIDs(req.CourseIDs)); err != nil {
		return nil, storeError(err, "program", "attach courses to")
	}
	return s.Get(ctx, id)
}

// Delete removes a program.
func (s *ProgramService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "program", "delete")
	}
	return nil
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
