package types

import "time"

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleUser       Role = "user"
)

// Profile mirrors the auth provider's user row with app-level fields.
// ID is the JWT subject.
type Profile struct {
	ID          string    `db:"id" json:"id"`
	DisplayName *string   `db:"display_name" json:"displayName"`
	Role        Role      `db:"role" json:"role"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

func (r Role) CanModerate() bool {
	return r == RoleAdmin || r == RoleSupervisor
}
