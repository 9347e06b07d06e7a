package domain

// Role is the closed set of actor roles. Authorization decisions key off
// this value only, never off designation or privilege tags.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleStaff    Role = "STAFF"
	RoleCustomer Role = "CUSTOMER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleCustomer:
		return true
	}
	return false
}

// Identity is the authenticated actor as issued at login. It is immutable
// for the lifetime of a session and replaced wholesale on re-login.
type Identity struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Role        Role     `json:"role"`
	Designation string   `json:"designation,omitempty"`
	Privileges  []string `json:"privileges,omitempty"`
}
