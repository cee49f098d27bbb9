package domain

import "time"

// Role is the application-wide role of a user. Admins and managers may
// mutate project data; contractors only read the projects they are
// assigned to.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleManager    Role = "MANAGER"
	RoleContractor Role = "CONTRACTOR"
)

// User represents an application user.
type User struct {
	UserID       string `json:"userID" db:"user_id"`
	Username     string `json:"username" db:"username"`
	Name         string `json:"name" db:"name"`
	Email        string `json:"email" db:"email"`
	Phone        string `json:"phone" db:"phone"`
	Role         Role   `json:"role" db:"role"`
	PasswordHash string `json:"-" db:"password_hash"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"` // Used for soft delete
}

// CanManage reports whether the role is allowed to perform mutations.
func (r Role) CanManage() bool {
	return r == RoleAdmin || r == RoleManager
}
