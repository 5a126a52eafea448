package auth

import (
	"errors"
	"log"
	"strings"
)

// ErrForbidden is returned for every authorization denial.
var ErrForbidden = errors.New("forbidden - insufficient permissions")

// Ownership carries the owner emails of an already-fetched target record.
// Callers must populate it from the stored record, never from
// client-supplied identifiers.
type Ownership struct {
	PatientEmail string
	DoctorEmail  string
}

// Guard decides ALLOW/FORBIDDEN for an action against a target record.
// Existence is checked by the caller first; the guard assumes the record
// was found, so its only outcomes are nil and ErrForbidden.
type Guard struct {
	perms Permissions
}

// NewGuard constructs a guard over a role->grants table.
func NewGuard(perms Permissions) *Guard {
	return &Guard{perms: perms}
}

// Authorize checks whether the principal may perform action
// (e.g. "visit:cancel") on the record owned per owners.
// A grant scoped "any" allows unconditionally; a grant scoped "own"
// allows only when the principal's email matches one of the owner emails.
func (g *Guard) Authorize(pr *Principal, action string, owners Ownership) error {
	if pr == nil {
		return ErrForbidden
	}
	scope, ok := g.grantScope(pr.Role, action)
	if !ok {
		log.Printf("[PERMISSION DENIED] User: %d, Role: %s, Action: %s", pr.UserID, pr.Role, action)
		return ErrForbidden
	}
	if scope == "any" {
		return nil
	}
	if matchOwner(pr.Email, owners) {
		return nil
	}
	log.Printf("[OWNERSHIP DENIED] User: %d, Role: %s, Action: %s", pr.UserID, pr.Role, action)
	return ErrForbidden
}

// AuthorizeAny checks an action with no single target record (lists,
// unscoped creates). Only an "any"-scoped grant allows it.
func (g *Guard) AuthorizeAny(pr *Principal, action string) error {
	if pr == nil {
		return ErrForbidden
	}
	if scope, ok := g.grantScope(pr.Role, action); ok && scope == "any" {
		return nil
	}
	log.Printf("[PERMISSION DENIED] User: %d, Role: %s, Action: %s", pr.UserID, pr.Role, action)
	return ErrForbidden
}

// grantScope returns the widest scope the role holds for action.
func (g *Guard) grantScope(role Role, action string) (string, bool) {
	grants, ok := g.perms[string(role)]
	if !ok {
		return "", false
	}
	scope := ""
	for _, grant := range grants {
		if strings.HasPrefix(grant, action+":") {
			s := grant[len(action)+1:]
			if s == "any" {
				return "any", true
			}
			if s == "own" {
				scope = "own"
			}
		}
	}
	return scope, scope != ""
}

// HasAction reports whether the role holds any grant for action,
// regardless of scope. Used by route middleware for the coarse check;
// ownership is decided per record by Authorize.
func HasAction(perms Permissions, role Role, action string) bool {
	g := Guard{perms: perms}
	_, ok := g.grantScope(role, action)
	return ok
}

// matchOwner compares the acting identity's email against the target
// record's owner emails, case-insensitively.
func matchOwner(email string, owners Ownership) bool {
	if email == "" {
		return false
	}
	if owners.PatientEmail != "" && strings.EqualFold(email, owners.PatientEmail) {
		return true
	}
	if owners.DoctorEmail != "" && strings.EqualFold(email, owners.DoctorEmail) {
		return true
	}
	return false
}
