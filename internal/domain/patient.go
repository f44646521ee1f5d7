package domain

import "time"

// Patient is the domain model for end-users who book appointments.
type Patient struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Gender       string
	DOB          string
	AddressLine1 string
	AddressLine2 string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
