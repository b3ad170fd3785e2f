package enums

// UserRole mirrors the user_role enum in Postgres.
type UserRole string

const (
	UserRoleSeller    UserRole = "seller"
	UserRoleAdmin     UserRole = "admin"
	UserRoleModerator UserRole = "moderator"
)

// IsValid reports whether the role is one of the known values.
func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleSeller, UserRoleAdmin, UserRoleModerator:
		return true
	}
	return false
}
