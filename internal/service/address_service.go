package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/student-records-api/internal/models"
)

type addressRepository interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.Address, int, error)
	FindByID(ctx context.Context, id int64) (*models.Address, error)
	Create(ctx context.Context, address *models.Address) error
	Update(ctx context.Context, address *models.Address) error
	Delete(ctx context.Context, id int64) error
}

// AddressRequest is the payload for creating or replacing an address.
type AddressRequest struct {
	AddressLine1 string  `json:"address_line_1" validate:"required,max=255"`
	AddressLine2 *string `json:"address_line_2" validate:"omitempty,max=255"`
	City         string  `json:"city" validate:"required,max=100"`
	Province     string  `json:"province" validate:"required,max=100"`
	PostalCode   string  `json:"postal_code" validate:"required,max=20"`
}

func (r AddressRequest) model(id int64) *models.Address {
	return &models.Address{
		ID:           id,
		AddressLine1: r.AddressLine1,
		AddressLine2: r.AddressLine2,
		City:         r.City,
		Province:     r.Province,
		PostalCode:   r.PostalCode,
	}
}

// AddressService handles address records.
type AddressService struct {
	repo      addressRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAddressService constructs the address service.
func NewAddressService(repo addressRepository, validate *validator.Validate, logger *zap.Logger) *AddressService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AddressService{repo: repo, validator: validate, logger: logger}
}

// List returns addresses and pagination metadata.
func (s *AddressService) List(ctx context.Context, filter models.ListFilter) ([]models.Address, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storeError(err, "address", "list")
	}
	return items, filter.Paginate(total), nil
}

// Get returns one address.
func (s *AddressService) Get(ctx context.Context, id int64) (*models.Address, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "address", "load")
	}
	return item, nil
}

// Create stores a new address.
func (s *AddressService) Create(ctx context.Context, req AddressRequest) (*models.Address, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "address")
	}
	item := req.model(0)
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, storeError(err, "address", "create")
	}
	return item, nil
}

// Update replaces an address.
func (s *AddressService) Update(ctx context.Context, id int64, req AddressRequest) (*models.Address, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "address")
	}
	item := req.model(id)
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, storeError(err, "address", "update")
	}
	return item, nil
}

// Delete removes an address. Addresses still used by students yield CONFLICT.
func (s *AddressService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "address", "delete")
	}
	s.logger.Info("address deleted", zap.Int64("address_id", id))
	return nil
}
