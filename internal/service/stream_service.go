package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/student-records-api/internal/models"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

type streamRepository interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.Stream, int, error)
	FindByID(ctx context.Context, id int64) (*models.Stream, error)
	Create(ctx context.Context, stream *models.Stream) error
	Update(ctx context.Context, stream *models.Stream) error
	Delete(ctx context.Context, id int64) error
}

// StreamRequest is the payload for creating or replacing a stream.
type StreamRequest struct {
	Name      string      `json:"name" validate:"required,max=100"`
	StartDate models.Date `json:"start_date"`
	EndDate   models.Date `json:"end_date"`
}

// StreamService handles academic streams.
type StreamService struct {
	repo      streamRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewStreamService constructs the stream service.
func NewStreamService(repo streamRepository, validate *validator.Validate, logger *zap.Logger) *StreamService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreamService{repo: repo, validator: validate, logger: logger, now: time.Now}
}

// List returns streams with is_active computed for today.
func (s *StreamService) List(ctx context.Context, filter models.ListFilter) ([]models.Stream, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storeError(err, "stream", "list")
	}
	now := s.now()
	for i := range items {
		items[i].IsActive = items[i].ActiveOn(now)
	}
	return items, filter.Paginate(total), nil
}

// Get returns one stream.
func (s *StreamService) Get(ctx context.Context, id int64) (*models.Stream, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "stream", "load")
	}
	item.IsActive = item.ActiveOn(s.now())
	return item, nil
}

// Create stores a new stream.
func (s *StreamService) Create(ctx context.Context, req StreamRequest) (*models.Stream, error) {
	item, err := s.validate(req, 0)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, storeError(err, "stream", "create")
	}
	item.IsActive = item.ActiveOn(s.now())
	return item, nil
}

// Update replaces a stream.
func (s *StreamService) Update(ctx context.Context, id int64, req StreamRequest) (*models.Stream, error) {
	item, err := s.validate(req, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, storeError(err, "stream", "update")
	}
	item.IsActive = item.ActiveOn(s.now())
	return item, nil
}

// Delete removes a stream.
func (s *StreamService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "stream", "delete")
	}
	return nil
}

func (s *StreamService) validate(req StreamRequest, id int64) (*models.Stream, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "stream")
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date and end_date are required")
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must not be before start_date")
	}
	return &models.Stream{ID: id, Name: req.Name, StartDate: req.StartDate, EndDate: req.EndDate}, nil
}
