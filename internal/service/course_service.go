package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/student-records-api/internal/models"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.Course, int, error)
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
}

// CourseRequest is the payload for creating or replacing a course.
type CourseRequest struct {
	Code        string `json:"code" validate:"required,max=20"`
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

// CourseService handles courses.
type CourseService struct {
	repo      courseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(repo courseRepository, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, validator: validate, logger: logger}
}

// List returns courses and pagination metadata.
func (s *CourseService) List(ctx context.Context, filter models.ListFilter) ([]models.Course, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storeError(err, "course", "list")
	}
	return items, filter.Paginate(total), nil
}

// Get returns one course.
func (s *CourseService) Get(ctx context.Context, id int64) (*models.Course, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "course", "load")
	}
	return item, nil
}

// Create stores a new course with a unique code.
func (s *CourseService) Create(ctx context.Context, req CourseRequest) (*models.Course, error) {
	item, err := s.prepare(ctx, req, 0)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, storeError(err, "course", "create")
	}
	return item, nil
}

// Update replaces a course.
func (s *CourseService) Update(ctx context.Context, id int64, req CourseRequest) (*models.Course, error) {
	item, err := s.prepare(ctx, req, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, storeError(err, "course", "update")
	}
	return item, nil
}

// Delete removes a course with its marks.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "course", "delete")
	}
	s.logger.Info("course deleted", zap.Int64("course_id", id))
	return nil
}

func (s *CourseService) prepare(ctx context.Context, req CourseRequest, id int64) (*models.Course, error) {
	req.Code = strings.TrimSpace(req.Code)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "course")
	}
	exists, err := s.repo.ExistsByCode(ctx, req.Code, id)
	if err != nil {
		return nil, storeError(err, "course", "validate")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrUniqueViolation, "course code already used")
	}
	return &models.Course{ID: id, Code: req.Code, Name: req.Name, Description: req.Description}, nil
}
