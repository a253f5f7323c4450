package model

// Role is the resolved capability of an authenticated principal.
type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
	RoleManager Role = "manager"
)

// Identity is resolved once at the transport boundary and passed
// explicitly into every core operation that needs an owner or an
// authorization check. Core code never probes tokens or headers.
type Identity struct {
	Role      Role   `json:"role"`
	SubjectID string `json:"subject_id"`
}

func (i Identity) IsStudent() bool { return i.Role == RoleStudent }
func (i Identity) IsStaff() bool   { return i.Role == RoleStaff }
func (i Identity) IsManager() bool { return i.Role == RoleManager }

// Owns reports whether the identity owns a row carrying the given
// student/staff references.
func (i Identity) Owns(studentID, staffID *string) bool {
	switch i.Role {
	case RoleStudent:
		return studentID != nil && *studentID == i.SubjectID
	case RoleStaff:
		return staffID != nil && *staffID == i.SubjectID
	default:
		return false
	}
}
