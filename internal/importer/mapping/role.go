package mapping

import (
	"strings"

	"github.com/discfound/discfound-backend/pkg/enums"
)

// roleTable maps legacy role strings (lower-cased) to controlled roles.
// Anything not listed falls through to visitor.
var roleTable = map[string]enums.ProfileRole{
	"admin":         enums.RoleOperator,
	"administrator": enums.RoleOperator,
	"staff":         enums.RoleOperator,
	"operator":      enums.RoleOperator,
	"member":        enums.RoleMember,
	"player":        enums.RoleMember,
	"user":          enums.RoleMember,
	"collector":     enums.RoleCollector,
	"reseller":      enums.RoleCollector,
	"visitor":       enums.RoleVisitor,
	"guest":         enums.RoleVisitor,
}

// MapRole resolves a free-text legacy role, case-insensitively. Blank or
// unmapped input yields the least-privileged role, never an elevated one.
func MapRole(raw string) enums.ProfileRole {
	key := strings.ToLower(strings.TrimSpace(raw))
	if role, ok := roleTable[key]; ok {
		return role
	}
	return enums.RoleVisitor
}

// MapSourceStatus interprets a legacy source status column. Only Active and
// Enabled (case-insensitive) count as active.
func MapSourceStatus(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "active", "enabled":
		return true
	default:
		return false
	}
}
