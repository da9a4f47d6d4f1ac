package models

// Gender values accepted for students and teachers.
const (
	GenderMale   = "M"
	GenderFemale = "F"
)

// Student represents a learner registered in the institution.
type Student struct {
	ID                int64  `db:"id" json:"id"`
	StudentID         string `db:"student_id" json:"student_id"`
	FirstName         string `db:"first_name" json:"first_name"`
	LastName          string `db:"last_name" json:"last_name"`
	Gender            string `db:"gender" json:"gender"`
	NationalID        string `db:"national_id" json:"national_id"`
	PhoneNumber       string `db:"phone_number" json:"phone_number"`
	ParentName        string `db:"parent_name" json:"parent_name"`
	ParentPhoneNumber string `db:"parent_phone_number" json:"parent_phone_number"`
	ProgramID         *int64 `db:"program_id" json:"program_id,omitempty"`
	StreamID          *int64 `db:"stream_id" json:"stream_id,omitempty"`
	AddressID         int64  `db:"address_id" json:"address_id"`
}

// FullName joins first and last name.
func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// StudentDetail adds the names of the referenced program and stream.
type StudentDetail struct {
	Student
	ProgramName *string `db:"program_name" json:"program_name,omitempty"`
	StreamName  *string `db:"stream_name" json:"stream_name,omitempty"`
}
