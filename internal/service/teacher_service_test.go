package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/student-records-api/internal/models"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

func validTeacherFieldsRequest() CreateTeacherRequest {
	return CreateTeacherRequest{
		Username: "ada",
		Password: "s3cret-pass",
		TeacherProfile: TeacherProfile{
			FirstName:   "Ada",
			LastName:    "Lovelace",
			Email:       "ada@example.com",
			DateOfBirth: models.Date{Time: time.Date(1985, 12, 10, 0, 0, 0, 0, time.UTC)},
			Gender:      "F",
			NationalID:  "T-100",
			PhoneNumber: "0800",
		},
	}
}

func TestTeacherServiceCreateFieldValidation(t *testing.T) {
	cases := map[string]func(*CreateTeacherRequest){
		"email too long":   func(r *CreateTeacherRequest) { r.Email = strings.Repeat("a", 250) + "@example.com" },
		"email malformed":  func(r *CreateTeacherRequest) { r.Email = "not-an-email" },
		"short password":   func(r *CreateTeacherRequest) { r.Password = "short" },
		"missing birthday": func(r *CreateTeacherRequest) { r.DateOfBirth = models.Date{} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			// validation fails before the repository is touched
			svc := NewTeacherService(nil, nil, nil)
			req := validTeacherFieldsRequest()
			mutate(&req)

			_, err := svc.Create(context.Background(), req)
			assert.ErrorIs(t, err, appErrors.ErrValidation)
		})
	}
}
