package models

// Address is a postal address shared by students and teachers.
type Address struct {
	ID           int64   `db:"id" json:"id"`
	AddressLine1 string  `db:"address_line_1" json:"address_line_1"`
	AddressLine2 *string `db:"address_line_2" json:"address_line_2,omitempty"`
	City         string  `db:"city" json:"city"`
	Province     string  `db:"province" json:"province"`
	PostalCode   string  `db:"postal_code" json:"postal_code"`
}
