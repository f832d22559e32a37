package user

import (
	"time"

	"github.com/ultramanx88/internship-system-sub007/internal/common"
)

type Role string

const (
	RoleStudent          Role = "student"
	RoleCourseInstructor Role = "course_instructor"
	RoleCommittee        Role = "committee"
	RoleStaff            Role = "staff"
	RoleSupervisor       Role = "supervisor"
)

type User struct {
	ID        common.UUID `json:"id"`
	FullName  string      `json:"full_name"`
	Email     string      `json:"email"`
	Roles     []Role      `json:"roles"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Identity is the authenticated caller as the auth middleware hands it to
// the stage services. The workflow trusts it and performs no credential
// checks of its own.
type Identity struct {
	UserID common.UUID
	Roles  []Role
	Active Role
}

func (i Identity) Has(role Role) bool {
	if i.Active == role {
		return true
	}
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}
