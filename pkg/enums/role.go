package enums

import "fmt"

// UserRole controls which API surfaces a user can reach.
type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleMediaBuyer UserRole = "media_buyer"
	RoleOperator   UserRole = "operator"
)

var validUserRoles = []UserRole{
	RoleAdmin,
	RoleMediaBuyer,
	RoleOperator,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the role is recognized.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw strings into UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
