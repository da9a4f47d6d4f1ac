package models

import "time"

// User is the login identity a teacher is linked to.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Teacher is an instructor profile bound one-to-one to a User.
type Teacher struct {
	ID                int64  `db:"id" json:"id"`
	UserID            int64  `db:"user_id" json:"user_id"`
	DateOfBirth       Date   `db:"date_of_birth" json:"date_of_birth"`
	Gender            string `db:"gender" json:"gender"`
	NationalID        string `db:"national_id" json:"national_id"`
	PhoneNumber       string `db:"phone_number" json:"phone_number"`
	AddressID         *int64 `db:"address_id" json:"address_id,omitempty"`
	Qualifications    string `db:"qualifications" json:"qualifications"`
	YearsOfExperience int    `db:"years_of_experience" json:"years_of_experience"`
}

// TeacherDetail is a teacher joined with the account fields shown in listings.
type TeacherDetail struct {
	Teacher
	Username  string `db:"username" json:"username"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Email     string `db:"email" json:"email"`
}
