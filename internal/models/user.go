package models

import "strings"

// Role represents an account role.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ParseRole maps login/signup role names to a Role, ignoring case and surrounding space.
// "student" is accepted as an alias of "user"; anything unrecognized falls back to RoleUser.
func ParseRole(s string) Role {
	if strings.EqualFold(strings.TrimSpace(s), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}

// UserStatus is the account status set by administrators.
type UserStatus string

const (
	UserApproved UserStatus = "Approved"
	UserBlocked  UserStatus = "Blocked"
)

// Valid reports whether s is a known user status.
func (s UserStatus) Valid() bool {
	return s == UserApproved || s == UserBlocked
}

// User is a student or administrator account. Passwords are stored as given.
type User struct {
	ID       int64      `json:"id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     Role       `json:"role"`
	Status   UserStatus `json:"status"`
}

// UserPublic is User without the password for API responses.
type UserPublic struct {
	ID     int64      `json:"id"`
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	Role   Role       `json:"role"`
	Status UserStatus `json:"status"`
}

// ToPublic converts User to UserPublic.
func (u *User) ToPublic() UserPublic {
	return UserPublic{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Status: u.Status,
	}
}

// SignupInput is the payload for creating an account.
type SignupInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"`
}

// StudentRoster is a student account with its approved courses, used by the admin user list.
type StudentRoster struct {
	UserPublic
	RegisteredCourses []string `json:"registeredCourses"`
	Schedule          []string `json:"schedule"`
}
