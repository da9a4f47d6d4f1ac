package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/student-records-api/internal/models"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.StudentDetail, int, error)
	FindByID(ctx context.Context, id int64) (*models.StudentDetail, error)
	ExistsByStudentID(ctx context.Context, studentID string, excludeID int64) (bool, error)
	ExistsByNationalID(ctx context.Context, nationalID string, excludeID int64) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) error
}

// StudentRequest is the payload for creating or replacing a student.
type StudentRequest struct {
	StudentID         string `json:"student_id" validate:"required,max=20"`
	FirstName         string `json:"first_name" validate:"required,max=100"`
	LastName          string `json:"last_name" validate:"required,max=100"`
	Gender            string `json:"gender" validate:"required,oneof=M F"`
	NationalID        string `json:"national_id" validate:"required,max=20"`
	PhoneNumber       string `json:"phone_number" validate:"required,max=20"`
	ParentName        string `json:"parent_name" validate:"required,max=100"`
	ParentPhoneNumber string `json:"parent_phone_number" validate:"required,max=20"`
	ProgramID         *int64 `json:"program_id" validate:"omitempty,gt=0"`
	StreamID          *int64 `json:"stream_id" validate:"omitempty,gt=0"`
	AddressID         int64  `json:"address_id" validate:"required,gt=0"`
}

// StudentService handles student records.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

// List returns students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.ListFilter) ([]models.StudentDetail, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storeError(err, "student", "list")
	}
	return students, filter.Paginate(total), nil
}

// Get returns detailed student information.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.StudentDetail, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "student", "load")
	}
	return student, nil
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, req StudentRequest) (*models.Student, error) {
	student, err := s.prepare(ctx, req, 0)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, storeError(err, "student", "create")
	}
	s.logger.Info("student created", zap.Int64("id", student.ID), zap.String("student_id", student.StudentID))
	return student, nil
}

// Update replaces a student record.
func (s *StudentService) Update(ctx context.Context, id int64, req StudentRequest) (*models.Student, error) {
	student, err := s.prepare(ctx, req, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, storeError(err, "student", "update")
	}
	return student, nil
}

// Delete removes a student and their marks.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "student", "delete")
	}
	s.logger.Info("student deleted", zap.Int64("id", id))
	return nil
}

func (s *StudentService) prepare(ctx context.Context, req StudentRequest, id int64) (*models.Student, error) {
	req.StudentID = strings.TrimSpace(req.StudentID)
	req.NationalID = strings.TrimSpace(req.NationalID)
	req.Gender = strings.ToUpper(strings.TrimSpace(req.Gender))
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "student")
	}

	exists, err := s.repo.ExistsByStudentID(ctx, req.StudentID, id)
	if err != nil {
		return nil, storeError(err, "student", "validate")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrUniqueViolation, "student_id already used")
	}
	exists, err = s.repo.ExistsByNationalID(ctx, req.NationalID, id)
	if err != nil {
		return nil, storeError(err, "student", "validate")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrUniqueViolation, "national_id already used")
	}

	return &models.Student{
		ID:                id,
		StudentID:         req.StudentID,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Gender:            req.Gender,
		NationalID:        req.NationalID,
		PhoneNumber:       req.PhoneNumber,
		ParentName:        req.ParentName,
		ParentPhoneNumber: req.ParentPhoneNumber,
		ProgramID:         req.ProgramID,
		StreamID:          req.StreamID,
		AddressID:         req.AddressID,
	}, nil
}
