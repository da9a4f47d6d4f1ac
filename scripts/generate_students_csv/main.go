// Command generate_students_csv writes a synthetic student roster in the same
// layout as the roster export.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/noah-isme/student-records-api/internal/models"
	"github.com/noah-isme/student-records-api/internal/service"
	"github.com/noah-isme/student-records-api/pkg/export"
)

func main() {
	var (
		out   string
		count int
	)
	flag.StringVar(&out, "out", "students.csv", "output file")
	flag.IntVar(&count, "count", 500, "number of students")
	flag.Parse()

	f, err := os.Create(out)
	if err != nil {
		log.Fatalf("create %s: %v", out, err)
	}
	defer f.Close()

	if err := export.NewCSVExporter().Write(f, service.StudentRosterDataset(syntheticStudents(count))); err != nil {
		log.Fatalf("write roster: %v", err)
	}
	log.Printf("successfully generated CSV file: %s", out)
}

func syntheticStudents(n int) []models.Student {
	students := make([]models.Student, 0, n)
	for i := 1; i <= n; i++ {
		gender := models.GenderFemale
		if i%2 == 0 {
			gender = models.GenderMale
		}
		students = append(students, models.Student{
			StudentID:   fmt.Sprintf("ST%d", i),
			FirstName:   fmt.Sprintf("John%d", i),
			LastName:    fmt.Sprintf("Doe%d", i),
			Gender:      gender,
			NationalID:  fmt.Sprintf("123456%03d", i),
			PhoneNumber: fmt.Sprintf("123456%03d", i),
		})
	}
	return students
}
