package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/student-records-api/internal/models"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

type markRepository interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.MarkDetail, int, error)
	FindByID(ctx context.Context, id int64) (*models.MarkDetail, error)
	Create(ctx context.Context, mark *models.Mark) error
	Update(ctx context.Context, mark *models.Mark) error
	Delete(ctx context.Context, id int64) error
}

// MarkRequest is the payload for recording or correcting a single mark.
type MarkRequest struct {
	StudentID int64   `json:"student_id" validate:"required,gt=0"`
	CourseID  int64   `json:"course_id" validate:"required,gt=0"`
	Mark      float64 `json:"mark" validate:"gte=0,lte=100"`
}

// MarkService handles individual marks. Every write invalidates the dashboard.
type MarkService struct {
	repo      markRepository
	dashboard dashboardInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMarkService constructs the mark service. dashboard may be nil.
func NewMarkService(repo markRepository, dashboard dashboardInvalidator, validate *validator.Validate, logger *zap.Logger) *MarkService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarkService{repo: repo, dashboard: dashboard, validator: validate, logger: logger}
}

// List returns marks with student and course identifiers.
func (s *MarkService) List(ctx context.Context, filter models.ListFilter) ([]models.MarkDetail, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storeError(err, "mark", "list")
	}
	return items, filter.Paginate(total), nil
}

// Get returns one mark.
func (s *MarkService) Get(ctx context.Context, id int64) (*models.MarkDetail, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "mark", "load")
	}
	return item, nil
}

// Create records a mark. Unknown students or courses yield CONFLICT.
func (s *MarkService) Create(ctx context.Context, req MarkRequest) (*models.Mark, error) {
	mark, err := s.prepare(req, 0)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, mark); err != nil {
		return nil, storeError(err, "mark", "create")
	}
	s.invalidate(ctx)
	return mark, nil
}

// Update corrects a mark.
func (s *MarkService) Update(ctx context.Context, id int64, req MarkRequest) (*models.Mark, error) {
	mark, err := s.prepare(req, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, mark); err != nil {
		return nil, storeError(err, "mark", "update")
	}
	s.invalidate(ctx)
	return mark, nil
}

// Delete removes a mark.
func (s *MarkService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "mark", "delete")
	}
	s.invalidate(ctx)
	return nil
}

func (s *MarkService) prepare(req MarkRequest, id int64) (*models.Mark, error) {
	if err := s.validator.Struct(req); err != nil {
		if req.Mark < models.MinMark || req.Mark > models.MaxMark {
			return nil, appErrors.CloneWrap(appErrors.ErrMarkOutOfRange, err, "mark must be between 0 and 100")
		}
		return nil, validationError(err, "mark")
	}
	return &models.Mark{ID: id, StudentID: req.StudentID, CourseID: req.CourseID, Mark: round2(req.Mark)}, nil
}

func (s *MarkService) invalidate(ctx context.Context) {
	if s.dashboard != nil {
		s.dashboard.Invalidate(ctx)
	}
}
