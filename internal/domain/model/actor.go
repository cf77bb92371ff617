package model

// Actor identifies the authenticated caller of an operation.
type Actor struct {
	UserID int64
	Role   Role
}

// Staff reports whether the actor belongs to the back office.
func (a Actor) Staff() bool {
	return a.Role == RolePurchasingAdmin || a.Role == RoleSuperAdmin
}
