package model

import "time"

// Role determines which lifecycle operations a user may invoke.
type Role string

const (
	RoleParent          Role = "PARENT"
	RoleDonor           Role = "DONOR"
	RoleSchoolAdmin     Role = "SCHOOL_ADMIN"
	RolePurchasingAdmin Role = "PURCHASING_ADMIN"
	RoleSuperAdmin      Role = "SUPER_ADMIN"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleParent, RoleDonor, RoleSchoolAdmin, RolePurchasingAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// User represents a registered account: parent, donor, or staff.
type User struct {
	ID           int64
	Login        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
