package domain

import "time"

// Roles disponibles para usuarios.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID            string     `json:"id"`
	FullName      string     `json:"full_name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	PasswordHash  string     `json:"-"`
	Role          string     `json:"role"`
	IsActive      bool       `json:"is_active"`
	EmailVerified bool       `json:"email_verified"`
	PhoneVerified bool       `json:"phone_verified"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	LastLogin     *time.Time `json:"last_login"`
	LoginCount    int        `json:"login_count"`
}

// IsAdmin indica si el usuario tiene rol admin.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
