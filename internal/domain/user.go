package domain

import "time"

// UserRole enumerates directory roles.
type UserRole string

const (
	UserRoleEmployee  UserRole = "employee"
	UserRoleAdmin     UserRole = "admin"
	UserRoleITSupport UserRole = "it_support"
	UserRoleManager   UserRole = "manager"
)

// User is a directory entry. The service stores no credentials; users are
// referenced as ticket creators, assignees and activity actors.
type User struct {
	ID          int64
	Email       string
	FullName    string
	SlackUserID *string
	Department  *string
	Role        UserRole
	IsActive    bool
	Phone       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ParseUserRole validates a role string.
func ParseUserRole(s string) (UserRole, bool) {
	switch UserRole(s) {
	case UserRoleEmployee, UserRoleAdmin, UserRoleITSupport, UserRoleManager:
		return UserRole(s), true
	}
	return "", false
}
