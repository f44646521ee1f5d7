package domain

// Role enumerates the caller kinds the service recognizes.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePatient:
		return true
	}
	return false
}

// Identity is the authenticated caller attached to a request after the
// authorization gate admits it.
type Identity struct {
	SubjectID string
	Role      Role
	Email     string
}
