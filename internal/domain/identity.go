package domain

// Identity is the authenticated caller resolved from a bearer token.
type Identity struct {
	UserID int64
	Role   Role
	Email  string
}

// IsAdmin reports whether the caller holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// IsEngineer reports whether the caller holds the engineer role.
func (i Identity) IsEngineer() bool {
	return i.Role == RoleEngineer
}
