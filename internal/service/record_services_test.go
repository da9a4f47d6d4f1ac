package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/student-records-api/internal/models"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

type streamRepoStub struct {
	items []models.Stream
}

func (r *streamRepoStub) List(ctx context.Context, filter models.ListFilter) ([]models.Stream, int, error) {
	return r.items, len(r.items), nil
}
func (r *streamRepoStub) FindByID(ctx context.Context, id int64) (*models.Stream, error) {
	return nil, sql.ErrNoRows
}
func (r *streamRepoStub) Create(ctx context.Context, stream *models.Stream) error {
	stream.ID = 1
	return nil
}
func (r *streamRepoStub) Update(ctx context.Context, stream *models.Stream) error { return nil }
func (r *streamRepoStub) Delete(ctx context.Context, id int64) error             { return nil }

func TestStreamServiceRejectsEndBeforeStart(t *testing.T) {
	svc := NewStreamService(&streamRepoStub{}, nil, nil)

	_, err := svc.Create(context.Background(), StreamRequest{
		Name:      "2024 Intake",
		StartDate: models.NewDate(2024, 9, 1),
		EndDate:   models.NewDate(2024, 8, 31),
	})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Create(context.Background(), StreamRequest{Name: "No dates"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestStreamServiceComputesActive(t *testing.T) {
	repo := &streamRepoStub{items: []models.Stream{
		{ID: 1, StartDate: models.NewDate(2024, 1, 1), EndDate: models.NewDate(2024, 12, 31)},
		{ID: 2, StartDate: models.NewDate(2023, 1, 1), EndDate: models.NewDate(2023, 12, 31)},
	}}
	svc := NewStreamService(repo, nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 12, 31, 18, 0, 0, 0, time.UTC) }

	items, _, err := svc.List(context.Background(), models.ListFilter{})
	require.NoError(t, err)
	assert.True(t, items[0].IsActive)
	assert.False(t, items[1].IsActive)

	same, err := svc.Create(context.Background(), StreamRequest{Name: "One day", StartDate: models.NewDate(2024, 12, 31), EndDate: models.NewDate(2024, 12, 31)})
	require.NoError(t, err)
	assert.True(t, same.IsActive)
}

type courseRepoStub struct {
	codes map[string]int64
}

func (r *courseRepoStub) List(ctx context.Context, filter models.ListFilter) ([]models.Course, int, error) {
	return nil, 0, nil
}
func (r *courseRepoStub) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	return nil, sql.ErrNoRows
}
func (r *courseRepoStub) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	id, ok := r.codes[code]
	return ok && id != excludeID, nil
}
func (r *courseRepoStub) Create(ctx context.Context, course *models.Course) error {
	course.ID = 5
	return nil
}
func (r *courseRepoStub) Update(ctx context.Context, course *models.Course) error { return sql.ErrNoRows }
func (r *courseRepoStub) Delete(ctx context.Context, id int64) error             { return nil }

func TestCourseServiceUniqueCode(t *testing.T) {
	svc := NewCourseService(&courseRepoStub{codes: map[string]int64{"MTH101": 1}}, nil, nil)

	_, err := svc.Create(context.Background(), CourseRequest{Code: " MTH101 ", Name: "Maths"})
	assert.ErrorIs(t, err, appErrors.ErrUniqueViolation)

	course, err := svc.Create(context.Background(), CourseRequest{Code: "ENG101", Name: "English"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), course.ID)

	_, err = svc.Update(context.Background(), 9, CourseRequest{Code: "ENG102", Name: "English II"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

type addressRepoStub struct{ deleteErr error }

func (r *addressRepoStub) List(ctx context.Context, filter models.ListFilter) ([]models.Address, int, error) {
	return nil, 0, nil
}
func (r *addressRepoStub) FindByID(ctx context.Context, id int64) (*models.Address, error) {
	return &models.Address{ID: id}, nil
}
func (r *addressRepoStub) Create(ctx context.Context, address *models.Address) error { return nil }
func (r *addressRepoStub) Update(ctx context.Context, address *models.Address) error { return nil }
func (r *addressRepoStub) Delete(ctx context.Context, id int64) error               { return r.deleteErr }

func TestAddressServiceDeleteInUseIsConflict(t *testing.T) {
	svc := NewAddressService(&addressRepoStub{deleteErr: &pq.Error{Code: "23503"}}, nil, nil)
	assert.ErrorIs(t, svc.Delete(context.Background(), 1), appErrors.ErrConflict)

	_, err := svc.Create(context.Background(), AddressRequest{City: "Nairobi"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

type programRepoStub struct {
	programs map[int64]*models.Program
	courses  map[int64][]int64
}

func (r *programRepoStub) List(ctx context.Context, filter models.ListFilter) ([]models.Program, int, error) {
	return nil, 0, nil
}
func (r *programRepoStub) FindByID(ctx context.Context, id int64) (*models.Program, error) {
	p, ok := r.programs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *p
	clone.TotalCourses = len(r.courses[id])
	return &clone, nil
}
func (r *programRepoStub) Courses(ctx context.Context, programID int64) ([]models.Course, error) {
	var out []models.Course
	for _, id := range r.courses[programID] {
		out = append(out, models.Course{ID: id})
	}
	return out, nil
}
func (r *programRepoStub) Create(ctx context.Context, program *models.Program) error {
	program.ID = int64(len(r.programs) + 1)
	r.programs[program.ID] = program
	return nil
}
func (r *programRepoStub) Update(ctx context.Context, program *models.Program) error { return nil }
func (r *programRepoStub) Delete(ctx context.Context, id int64) error                { return nil }
func (r *programRepoStub) SetCourses(ctx context.Context, programID int64, courseIDs []int64) error {
	r.courses[programID] = courseIDs
	return nil
}

func TestProgramServiceCreateWithCourses(t *testing.T) {
	repo := &programRepoStub{programs: map[int64]*models.Program{}, courses: map[int64][]int64{}}
	svc := NewProgramService(repo, nil, nil)

	detail, err := svc.Create(context.Background(), ProgramRequest{Name: "Science", CourseIDs: []int64{3, 1, 3}})
	require.NoError(t, err)
	assert.Equal(t, 2, detail.TotalCourses)
	assert.Len(t, detail.Courses, 2)
	assert.Equal(t, []int64{3, 1}, repo.courses[detail.ID])
}

func TestProgramServiceSetCoursesUnknownProgram(t *testing.T) {
	svc := NewProgramService(&programRepoStub{programs: map[int64]*models.Program{}, courses: map[int64][]int64{}}, nil, nil)
	_, err := svc.SetCourses(context.Background(), 7, SetCoursesRequest{CourseIDs: []int64{1}})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

type teacherRepoStub struct {
	usernames map[string]bool
	user      *models.User
	teacher   *models.Teacher
}

func (r *teacherRepoStub) List(ctx context.Context, filter models.ListFilter) ([]models.TeacherDetail, int, error) {
	return nil, 0, nil
}
func (r *teacherRepoStub) FindByID(ctx context.Context, id int64) (*models.TeacherDetail, error) {
	return nil, sql.ErrNoRows
}
func (r *teacherRepoStub) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.usernames[username], nil
}
func (r *teacherRepoStub) ExistsByNationalID(ctx context.Context, nationalID string, excludeID int64) (bool, error) {
	return false, nil
}
func (r *teacherRepoStub) Create(ctx context.Context, user *models.User, teacher *models.Teacher) error {
	user.ID, teacher.ID, teacher.UserID = 10, 20, 10
	r.user, r.teacher = user, teacher
	return nil
}
func (r *teacherRepoStub) Update(ctx context.Context, detail *models.TeacherDetail) error { return nil }
func (r *teacherRepoStub) Delete(ctx context.Context, id int64) error                    { return nil }

func validTeacherRequest() CreateTeacherRequest {
	return CreateTeacherRequest{
		Username: "jdoe",
		Password: "correct horse",
		TeacherProfile: TeacherProfile{
			FirstName:         "John",
			LastName:          "Doe",
			Email:             "jdoe@example.com",
			DateOfBirth:       models.NewDate(1980, 4, 2),
			Gender:            "M",
			NationalID:        "T1",
			PhoneNumber:       "555",
			YearsOfExperience: 4,
		},
	}
}

func TestTeacherServiceCreateHashesPassword(t *testing.T) {
	repo := &teacherRepoStub{usernames: map[string]bool{}}
	svc := NewTeacherService(repo, nil, nil)
	svc.hashCost = bcrypt.MinCost

	detail, err := svc.Create(context.Background(), validTeacherRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(20), detail.ID)
	assert.Equal(t, "jdoe", detail.Username)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.user.PasswordHash), []byte("correct horse")))
}

func TestTeacherServiceCreateValidation(t *testing.T) {
	svc := NewTeacherService(&teacherRepoStub{usernames: map[string]bool{"jdoe": true}}, nil, nil)

	_, err := svc.Create(context.Background(), validTeacherRequest())
	assert.ErrorIs(t, err, appErrors.ErrUniqueViolation)

	req := validTeacherRequest()
	req.YearsOfExperience = -1
	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	req = validTeacherRequest()
	req.DateOfBirth = models.Date{}
	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

type markRepoStub struct {
	createErr error
	created   []models.Mark
}

func (r *markRepoStub) List(ctx context.Context, filter models.ListFilter) ([]models.MarkDetail, int, error) {
	return nil, 0, nil
}
func (r *markRepoStub) FindByID(ctx context.Context, id int64) (*models.MarkDetail, error) {
	return nil, sql.ErrNoRows
}
func (r *markRepoStub) Create(ctx context.Context, mark *models.Mark) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, *mark)
	return nil
}
func (r *markRepoStub) Update(ctx context.Context, mark *models.Mark) error { return nil }
func (r *markRepoStub) Delete(ctx context.Context, id int64) error         { return sql.ErrNoRows }

type invalidationCounter struct{ n int }

func (c *invalidationCounter) Invalidate(ctx context.Context) { c.n++ }

func TestMarkServiceCreateInvalidatesDashboard(t *testing.T) {
	repo := &markRepoStub{}
	counter := &invalidationCounter{}
	svc := NewMarkService(repo, counter, nil, nil)

	mark, err := svc.Create(context.Background(), MarkRequest{StudentID: 1, CourseID: 2, Mark: 66.666})
	require.NoError(t, err)
	assert.Equal(t, 66.67, mark.Mark)
	assert.Equal(t, 1, counter.n)

	assert.ErrorIs(t, svc.Delete(context.Background(), 9), appErrors.ErrNotFound)
	assert.Equal(t, 1, counter.n)
}

func TestMarkServiceRangeAndReferences(t *testing.T) {
	svc := NewMarkService(&markRepoStub{}, nil, nil, nil)
	_, err := svc.Create(context.Background(), MarkRequest{StudentID: 1, CourseID: 2, Mark: 101})
	assert.ErrorIs(t, err, appErrors.ErrMarkOutOfRange)

	_, err = svc.Create(context.Background(), MarkRequest{CourseID: 2, Mark: 50})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	svc = NewMarkService(&markRepoStub{createErr: &pq.Error{Code: "23503"}}, nil, nil, nil)
	_, err = svc.Create(context.Background(), MarkRequest{StudentID: 99, CourseID: 2, Mark: 50})
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}
