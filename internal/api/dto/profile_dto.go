package dto

import "github.com/clinicore/clinic-scheduler/internal/domain"

// DoctorProfileView is the doctor record exposed through profile endpoints.
type DoctorProfileView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Speciality   string `json:"speciality"`
	Degree       string `json:"degree"`
	Experience   string `json:"experience"`
	About        string `json:"about"`
	Fees         int64  `json:"fees"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	Available    bool   `json:"available"`
}

// NewDoctorProfileView maps a doctor to its wire shape, dropping the hash.
func NewDoctorProfileView(doctor *domain.Doctor) DoctorProfileView {
	return DoctorProfileView{
		ID:           doctor.ID,
		Name:         doctor.Name,
		Email:        doctor.Email,
		Speciality:   doctor.Speciality,
		Degree:       doctor.Degree,
		Experience:   doctor.Experience,
		About:        doctor.About,
		Fees:         doctor.Fees,
		AddressLine1: doctor.AddressLine1,
		AddressLine2: doctor.AddressLine2,
		Available:    doctor.Available,
	}
}

// UpdateDoctorProfileRequest payload for doctor profile updates.
type UpdateDoctorProfileRequest struct {
	Fees         int64  `json:"fees"`
	About        string `json:"about"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	Available    bool   `json:"available"`
}

// AddDoctorRequest payload for the admin add-doctor endpoint.
type AddDoctorRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Speciality   string `json:"speciality"`
	Degree       string `json:"degree"`
	Experience   string `json:"experience"`
	About        string `json:"about"`
	Fees         int64  `json:"fees"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
}

// ChangeAvailabilityRequest payload for the admin availability toggle.
type ChangeAvailabilityRequest struct {
	DoctorID string `json:"docId"`
}

// PatientProfileView is the patient record exposed through profile endpoints.
type PatientProfileView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Gender       string `json:"gender"`
	DOB          string `json:"dob"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
}

// NewPatientProfileView maps a patient to its wire shape.
func NewPatientProfileView(patient *domain.Patient) PatientProfileView {
	return PatientProfileView{
		ID:           patient.ID,
		Name:         patient.Name,
		Email:        patient.Email,
		Phone:        patient.Phone,
		Gender:       patient.Gender,
		DOB:          patient.DOB,
		AddressLine1: patient.AddressLine1,
		AddressLine2: patient.AddressLine2,
	}
}

// UpdatePatientProfileRequest payload for patient profile updates.
type UpdatePatientProfileRequest struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Gender       string `json:"gender"`
	DOB          string `json:"dob"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
}
