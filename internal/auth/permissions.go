package auth

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Permissions maps role -> []grant, where a grant is "resource:verb:scope"
// and scope is "any" or "own". A grant scoped "own" only applies when the
// acting identity's email matches the target record's owner email.
type Permissions map[string][]string

type permissionsFile struct {
	Roles map[string][]string `yaml:"roles"`
}

// LoadPermissions loads a permissions.yml file and returns a role->grants map.
func LoadPermissions(path string) (Permissions, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pf permissionsFile
	if err := yaml.Unmarshal(b, &pf); err != nil {
		return nil, err
	}
	// Role keys are stored uppercase so lookups never re-normalize.
	perms := make(Permissions, len(pf.Roles))
	for role, grants := range pf.Roles {
		perms[strings.ToUpper(role)] = grants
	}
	if err := perms.validate(); err != nil {
		return nil, err
	}
	return perms, nil
}

// DefaultPermissions returns the compiled-in grant table. permissions.yml,
// when present, replaces it wholesale.
func DefaultPermissions() Permissions {
	return Permissions{
		"ADMIN": {
			"patient:create:any", "patient:read:any", "patient:update:any", "patient:delete:any",
			"doctor:create:any", "doctor:read:any", "doctor:update:any", "doctor:delete:any",
			"visit:create:any", "visit:read:any", "visit:update:any",
			"visit:complete:any", "visit:cancel:any", "visit:delete:any",
			"document:create:any", "document:read:any", "document:update:any", "document:delete:any",
			"user:create:any", "user:read:any", "user:delete:any",
		},
		"RECEPTIONIST": {
			"patient:create:any", "patient:read:any", "patient:update:any",
			"doctor:read:any",
			"visit:create:any", "visit:read:any", "visit:update:any",
			"visit:complete:any", "visit:cancel:any",
			"document:create:any", "document:read:any", "document:update:any",
		},
		"DOCTOR": {
			"patient:read:any",
			"doctor:read:any",
			"visit:read:own", "visit:update:own", "visit:complete:own", "visit:cancel:own",
			"document:create:any", "document:read:any", "document:update:any",
		},
		"PATIENT": {
			"patient:read:own", "patient:update:own",
			"doctor:read:any",
			"visit:create:own", "visit:read:own", "visit:cancel:own",
			"document:read:own",
		},
	}
}

func (p Permissions) validate() error {
	for role, grants := range p {
		if !Role(strings.ToUpper(role)).Valid() {
			return fmt.Errorf("permissions: unknown role %q", role)
		}
		for _, g := range grants {
			parts := strings.Split(g, ":")
			if len(parts) != 3 || (parts[2] != "any" && parts[2] != "own") {
				return fmt.Errorf("permissions: malformed grant %q for role %q", g, role)
			}
		}
	}
	return nil
}
