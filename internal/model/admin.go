package model

import "time"

// Admin roles accepted by the admin API.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// AdminUser mirrors a row of the admin_users table. PasswordHash never
// leaves the server; use Summary for responses.
type AdminUser struct {
	ID           uint64     `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// AdminSummary is the public view of an admin returned by login and verify.
type AdminSummary struct {
	ID        uint64    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary strips everything but the public fields.
func (a AdminUser) Summary() AdminSummary {
	return AdminSummary{ID: a.ID, Username: a.Username, Role: a.Role, CreatedAt: a.CreatedAt}
}

// Identity is what a verified access token says about its bearer.
type Identity struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
