package domain

import "time"

// Doctor models a practitioner who owns appointment slots.
type Doctor struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Speciality   string
	Degree       string
	Experience   string
	About        string
	Fees         int64
	AddressLine1 string
	AddressLine2 string
	Available    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DoctorProfile is the mutable slice of a doctor record exposed through the
// profile endpoints.
type DoctorProfile struct {
	Fees         int64
	About        string
	AddressLine1 string
	AddressLine2 string
	Available    bool
}
