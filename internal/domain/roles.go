package domain

import (
	mapset "github.com/deckarep/golang-set/v2"
)

type Role string

const (
	RoleEmployee Role = "Employee"
	RoleManager  Role = "Manager"
	RoleAdmin    Role = "Admin"
)

var validRoles = mapset.NewSet[Role](RoleEmployee, RoleManager, RoleAdmin)

// ParseRoles validates that the labels are non-empty and drawn from
// the role vocabulary. Duplicates are collapsed, input order is kept.
func ParseRoles(labels []string) ([]Role, error) {
	if len(labels) == 0 {
		return nil, ErrInvalidRoles
	}
	seen := mapset.NewSet[Role]()
	roles := make([]Role, 0, len(labels))
	for _, label := range labels {
		role := Role(label)
		if !validRoles.Contains(role) {
			return nil, ErrInvalidRoles
		}
		if !seen.Add(role) {
			continue
		}
		roles = append(roles, role)
	}
	return roles, nil
}

func RoleStrings(roles []Role) []string {
	ss := make([]string, 0, len(roles))
	for _, role := range roles {
		ss = append(ss, string(role))
	}
	return ss
}
