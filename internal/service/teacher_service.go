package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/student-records-api/internal/models"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

type teacherRepository interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.TeacherDetail, int, error)
	FindByID(ctx context.Context, id int64) (*models.TeacherDetail, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByNationalID(ctx context.Context, nationalID string, excludeID int64) (bool, error)
	Create(ctx context.Context, user *models.User, teacher *models.Teacher) error
	Update(ctx context.Context, detail *models.TeacherDetail) error
	Delete(ctx context.Context, id int64) error
}

// TeacherProfile holds the teacher fields shared by create and update.
type TeacherProfile struct {
	FirstName         string      `json:"first_name" validate:"required,max=150"`
	LastName          string      `json:"last_name" validate:"required,max=150"`
	Email             string      `json:"email" validate:"omitempty,email,max=254"`
	DateOfBirth       models.Date `json:"date_of_birth"`
	Gender            string      `json:"gender" validate:"required,oneof=M F"`
	NationalID        string      `json:"national_id" validate:"required,max=20"`
	PhoneNumber       string      `json:"phone_number" validate:"required,max=20"`
	AddressID         *int64      `json:"address_id" validate:"omitempty,gt=0"`
	Qualifications    string      `json:"qualifications"`
	YearsOfExperience int         `json:"years_of_experience" validate:"gte=0"`
}

// CreateTeacherRequest creates the teacher and its login account.
type CreateTeacherRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	TeacherProfile
}

// UpdateTeacherRequest replaces the teacher profile.
type UpdateTeacherRequest struct {
	TeacherProfile
}

// TeacherService handles teachers and their linked accounts.
type TeacherService struct {
	repo      teacherRepository
	validator *validator.Validate
	logger    *zap.Logger
	hashCost  int
}

// NewTeacherService constructs the teacher service.
func NewTeacherService(repo teacherRepository, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, validator: validate, logger: logger, hashCost: bcrypt.DefaultCost}
}

// List returns teachers and pagination metadata.
func (s *TeacherService) List(ctx context.Context, filter models.ListFilter) ([]models.TeacherDetail, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storeError(err, "teacher", "list")
	}
	return items, filter.Paginate(total), nil
}

// Get returns one teacher.
func (s *TeacherService) Get(ctx context.Context, id int64) (*models.TeacherDetail, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "teacher", "load")
	}
	return item, nil
}

// Create stores the user account and teacher profile together.
func (s *TeacherService) Create(ctx context.Context, req CreateTeacherRequest) (*models.TeacherDetail, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := s.validateProfile(req, req.TeacherProfile); err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, storeError(err, "teacher", "validate")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrUniqueViolation, "username already used")
	}
	if err := s.checkNationalID(ctx, req.NationalID, 0); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	user := &models.User{
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	teacher := req.TeacherProfile.teacher(0, 0)
	if err := s.repo.Create(ctx, user, teacher); err != nil {
		return nil, storeError(err, "teacher", "create")
	}
	s.logger.Info("teacher created", zap.Int64("id", teacher.ID), zap.String("username", user.Username))
	return &models.TeacherDetail{
		Teacher:   *teacher,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	}, nil
}

// Update replaces the teacher profile and account names.
func (s *TeacherService) Update(ctx context.Context, id int64, req UpdateTeacherRequest) (*models.TeacherDetail, error) {
	if err := s.validateProfile(req, req.TeacherProfile); err != nil {
		return nil, err
	}
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "teacher", "load")
	}
	if err := s.checkNationalID(ctx, req.NationalID, id); err != nil {
		return nil, err
	}
	detail := &models.TeacherDetail{
		Teacher:   *req.TeacherProfile.teacher(id, current.UserID),
		Username:  current.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
	if err := s.repo.Update(ctx, detail); err != nil {
		return nil, storeError(err, "teacher", "update")
	}
	return detail, nil
}

// Delete removes the teacher together with its account.
func (s *TeacherService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "teacher", "delete")
	}
	s.logger.Info("teacher deleted", zap.Int64("id", id))
	return nil
}

func (s *TeacherService) validateProfile(req interface{}, profile TeacherProfile) error {
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "teacher")
	}
	if profile.DateOfBirth.IsZero() {
		return appErrors.Clone(appErrors.ErrValidation, "date_of_birth is required")
	}
	return nil
}

func (s *TeacherService) checkNationalID(ctx context.Context, nationalID string, excludeID int64) error {
	exists, err := s.repo.ExistsByNationalID(ctx, nationalID, excludeID)
	if err != nil {
		return storeError(err, "teacher", "validate")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrUniqueViolation, "national_id already used")
	}
	return nil
}

func (p TeacherProfile) teacher(id, userID int64) *models.Teacher {
	return &models.Teacher{
		ID:                id,
		UserID:            userID,
		DateOfBirth:       p.DateOfBirth,
		Gender:            strings.ToUpper(p.Gender),
		NationalID:        p.NationalID,
		PhoneNumber:       p.PhoneNumber,
		AddressID:         p.AddressID,
		Qualifications:    p.Qualifications,
		YearsOfExperience: p.YearsOfExperience,
	}
}
