package domain

import "time"

type StaffStatus string

const (
	StaffActive   StaffStatus = "ACTIVE"
	StaffInactive StaffStatus = "INACTIVE"
)

// Staff is a back-office user. Designation decides the role: ADMIN staff
// authenticate as RoleAdmin, everyone else as RoleStaff.
type Staff struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Designation  string      `json:"designation"`
	Department   string      `json:"department,omitempty"`
	PhoneNumber  string      `json:"phoneNumber,omitempty"`
	Privileges   []string    `json:"privileges,omitempty"`
	Status       StaffStatus `json:"status"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// Role maps the designation onto the closed role set.
func (s Staff) Role() Role {
	if s.Designation == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleStaff
}
