package models

// UserRole represents the available roles.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleStudent  UserRole = "student"
	RoleInvestor UserRole = "investor"
)

// Valid reports whether the role is known.
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleStudent || r == RoleInvestor
}

// UserStatus marks an account as usable or not.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

// User is one row of the user table.
type User struct {
	Username string     `json:"username"`
	Password string     `json:"-"`
	Status   UserStatus `json:"status"`
	Role     UserRole   `json:"role"`
}

// Active reports whether the account may log in.
func (u User) Active() bool {
	return u.Status == UserStatusActive
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
