package auth

import "strings"

const (
	RoleUser    = "user"
	RoleManager = "manager"
	RoleHR      = "hr"
	RoleAdmin   = "admin"
)

// roleRank is the privilege order: admin > hr > manager > user.
var roleRank = map[string]int{
	RoleUser:    1,
	RoleManager: 2,
	RoleHR:      3,
	RoleAdmin:   4,
}

var Roles = []string{RoleUser, RoleManager, RoleHR, RoleAdmin}

func KnownRole(role string) bool {
	_, ok := roleRank[NormalizeRole(role)]
	return ok
}

func NormalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

// AtLeast reports whether role carries at least the privilege of required.
// Unknown roles never satisfy any requirement.
func AtLeast(role, required string) bool {
	have, ok := roleRank[NormalizeRole(role)]
	if !ok {
		return false
	}
	need, ok := roleRank[NormalizeRole(required)]
	if !ok {
		return false
	}
	return have >= need
}
