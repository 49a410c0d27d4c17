package enums

import "fmt"

// ProfileRole represents an account's permission tier.
type ProfileRole string

const (
	// RoleVisitor is the least-privileged tier and the fail-safe default for
	// unmapped legacy role strings.
	RoleVisitor   ProfileRole = "visitor"
	RoleMember    ProfileRole = "member"
	RoleOperator  ProfileRole = "operator"
	RoleCollector ProfileRole = "collector"
)

var validProfileRoles = []ProfileRole{
	RoleVisitor,
	RoleMember,
	RoleOperator,
	RoleCollector,
}

// String implements fmt.Stringer.
func (r ProfileRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known ProfileRole.
func (r ProfileRole) IsValid() bool {
	for _, candidate := range validProfileRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseProfileRole converts raw input into a ProfileRole.
func ParseProfileRole(value string) (ProfileRole, error) {
	for _, candidate := range validProfileRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid profile role %q", value)
}
