package domain

import "time"

// Role enumerates account kinds.
type Role string

const (
	RoleUser     Role = "user"
	RoleEngineer Role = "engineer"
	RoleAdmin    Role = "admin"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleEngineer, RoleAdmin:
		return true
	}
	return false
}

// UserStatus represents the approval state of an account.
type UserStatus string

const (
	UserStatusPending  UserStatus = "pending"
	UserStatusApproved UserStatus = "approved"
	UserStatusRejected UserStatus = "rejected"
)

// InitialStatusFor returns the status a freshly registered account of role starts in.
func InitialStatusFor(role Role) UserStatus {
	if role == RoleUser {
		return UserStatusApproved
	}
	return UserStatusPending
}

// User is any account: complainant, engineer or admin.
// Exactly one of PasswordHash and ExternalID is set.
type User struct {
	ID             int64
	Name           string
	Email          string
	PasswordHash   *string
	ExternalID     *string
	Role           Role
	Status         UserStatus
	Specialization *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsApproved reports whether the account may authenticate.
func (u *User) IsApproved() bool {
	return u != nil && u.Status == UserStatusApproved
}

// IsAssignable reports whether u can be set as a complaint assignee.
func (u *User) IsAssignable() bool {
	return u != nil && u.Role == RoleEngineer && u.Status == UserStatusApproved
}
