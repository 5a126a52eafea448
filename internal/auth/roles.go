package auth

import (
	"fmt"
	"strings"
)

// Role is the closed set of clinic roles. Stored on the user record and
// carried in the token's "role" claim.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleDoctor       Role = "DOCTOR"
	RoleReceptionist Role = "RECEPTIONIST"
	RolePatient      Role = "PATIENT"
)

// AllRoles lists every valid role.
var AllRoles = []Role{RoleAdmin, RoleDoctor, RoleReceptionist, RolePatient}

// ParseRole normalizes and validates a role string.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllRoles {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Valid reports whether the role is one of the four clinic roles.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) String() string {
	return string(r)
}
