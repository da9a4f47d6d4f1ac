// Command populate fills the database with fake records for local testing.
//
//	go run ./scripts/populate -kind student -count 50
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/student-records-api/internal/models"
	"github.com/noah-isme/student-records-api/internal/repository"
	"github.com/noah-isme/student-records-api/pkg/config"
	"github.com/noah-isme/student-records-api/pkg/database"
)

var kinds = []string{"address", "stream", "course", "program", "student", "teacher", "mark"}

type populator struct {
	db        *sqlx.DB
	fake      *gofakeit.Faker
	addresses *repository.AddressRepository
	streams   *repository.StreamRepository
	courses   *repository.CourseRepository
	programs  *repository.ProgramRepository
	students  *repository.StudentRepository
	teachers  *repository.TeacherRepository
	marks     *repository.MarkRepository
}

func main() {
	var (
		kind  string
		count int
		seed  int64
	)
	flag.StringVar(&kind, "kind", "student", "record kind: "+strings.Join(kinds, ", "))
	flag.IntVar(&count, "count", 10, "number of records to create")
	flag.Int64Var(&seed, "seed", 0, "random seed (0 picks a random one)")
	flag.Parse()

	if count <= 0 {
		log.Fatalf("count must be positive")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	p := &populator{
		db:        db,
		fake:      gofakeit.New(seed),
		addresses: repository.NewAddressRepository(db),
		streams:   repository.NewStreamRepository(db),
		courses:   repository.NewCourseRepository(db),
		programs:  repository.NewProgramRepository(db),
		students:  repository.NewStudentRepository(db),
		teachers:  repository.NewTeacherRepository(db),
		marks:     repository.NewMarkRepository(db),
	}

	create, err := p.creator(kind)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	for i := 0; i < count; i++ {
		if err := create(ctx); err != nil {
			log.Fatalf("create %s %d: %v", kind, i+1, err)
		}
	}
	log.Printf("successfully created %d %s records", count, kind)
}

func (p *populator) creator(kind string) (func(context.Context) error, error) {
	switch kind {
	case "address":
		return func(ctx context.Context) error { _, err := p.address(ctx); return err }, nil
	case "stream":
		return p.stream, nil
	case "course":
		return p.course, nil
	case "program":
		return p.program, nil
	case "student":
		return p.student, nil
	case "teacher":
		return p.teacher, nil
	case "mark":
		return p.mark, nil
	}
	return nil, fmt.Errorf("unknown kind %q, expected one of %s", kind, strings.Join(kinds, ", "))
}

func (p *populator) address(ctx context.Context) (int64, error) {
	address := &models.Address{
		AddressLine1: p.fake.Street(),
		City:         p.fake.City(),
		Province:     p.fake.State(),
		PostalCode:   p.fake.Zip(),
	}
	if p.fake.Bool() {
		line2 := fmt.Sprintf("Apt. %d", p.fake.Number(1, 999))
		address.AddressLine2 = &line2
	}
	if err := p.addresses.Create(ctx, address); err != nil {
		return 0, err
	}
	return address.ID, nil
}

func (p *populator) stream(ctx context.Context) error {
	now := time.Now()
	start := p.fake.DateRange(now.AddDate(-1, 0, 0), now.AddDate(0, 0, -1))
	end := p.fake.DateRange(now.AddDate(0, 0, 1), now.AddDate(1, 0, 0))
	return p.streams.Create(ctx, &models.Stream{
		Name:      fmt.Sprintf("%s %d", p.fake.Word(), start.Year()),
		StartDate: dateOf(start),
		EndDate:   dateOf(end),
	})
}

func (p *populator) course(ctx context.Context) error {
	return p.courses.Create(ctx, &models.Course{
		Code:        p.fake.DigitN(5),
		Name:        p.fake.HipsterSentence(3),
		Description: p.fake.Paragraph(1, 3, 12, " "),
	})
}

func (p *populator) program(ctx context.Context) error {
	program := &models.Program{Name: p.fake.JobTitle(), Description: p.fake.Paragraph(1, 2, 12, " ")}
	if err := p.programs.Create(ctx, program); err != nil {
		return err
	}
	var courseIDs []int64
	if err := p.db.SelectContext(ctx, &courseIDs, `SELECT id FROM courses ORDER BY random() LIMIT $1`, p.fake.Number(1, 5)); err != nil {
		return fmt.Errorf("pick courses: %w", err)
	}
	return p.programs.SetCourses(ctx, program.ID, courseIDs)
}

func (p *populator) student(ctx context.Context) error {
	addressID, err := p.randomID(ctx, "addresses")
	if err != nil {
		return err
	}
	if addressID == nil {
		id, err := p.address(ctx)
		if err != nil {
			return err
		}
		addressID = &id
	}
	programID, err := p.randomID(ctx, "programs")
	if err != nil {
		return err
	}
	streamID, err := p.randomID(ctx, "streams")
	if err != nil {
		return err
	}

	gender := p.fake.RandomString([]string{models.GenderMale, models.GenderFemale})
	return p.students.Create(ctx, &models.Student{
		StudentID:         p.fake.DigitN(8),
		FirstName:         p.fake.FirstName(),
		LastName:          p.fake.LastName(),
		Gender:            gender,
		NationalID:        p.fake.DigitN(10),
		PhoneNumber:       p.fake.Phone(),
		ParentName:        p.fake.Name(),
		ParentPhoneNumber: p.fake.Phone(),
		ProgramID:         programID,
		StreamID:          streamID,
		AddressID:         *addressID,
	})
}

func (p *populator) teacher(ctx context.Context) error {
	addressID, err := p.address(ctx)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(p.fake.Password(true, true, true, false, false, 12)), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		Username:     p.fake.Username() + p.fake.DigitN(3),
		FirstName:    p.fake.FirstName(),
		LastName:     p.fake.LastName(),
		Email:        p.fake.Email(),
		PasswordHash: string(hash),
	}
	now := time.Now()
	teacher := &models.Teacher{
		DateOfBirth:       dateOf(p.fake.DateRange(now.AddDate(-65, 0, 0), now.AddDate(-25, 0, 0))),
		Gender:            p.fake.RandomString([]string{models.GenderMale, models.GenderFemale}),
		NationalID:        p.fake.DigitN(10),
		PhoneNumber:       p.fake.Phone(),
		AddressID:         &addressID,
		Qualifications:    p.fake.Paragraph(1, 2, 10, " "),
		YearsOfExperience: p.fake.Number(1, 20),
	}
	return p.teachers.Create(ctx, user, teacher)
}

func (p *populator) mark(ctx context.Context) error {
	studentID, err := p.randomID(ctx, "students")
	if err != nil {
		return err
	}
	courseID, err := p.randomID(ctx, "courses")
	if err != nil {
		return err
	}
	if studentID == nil || courseID == nil {
		return errors.New("marks need at least one student and one course")
	}
	return p.marks.Create(ctx, &models.Mark{
		StudentID: *studentID,
		CourseID:  *courseID,
		Mark:      float64(p.fake.Number(0, 100)),
	})
}

// randomID returns the id of a random row, or nil when the table is empty.
func (p *populator) randomID(ctx context.Context, table string) (*int64, error) {
	var id int64
	err := p.db.GetContext(ctx, &id, fmt.Sprintf(`SELECT id FROM %s ORDER BY random() LIMIT 1`, table))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pick %s: %w", table, err)
	}
	return &id, nil
}

func dateOf(t time.Time) models.Date {
	return models.NewDate(t.Year(), t.Month(), t.Day())
}
