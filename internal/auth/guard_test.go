package auth

import (
	"errors"
	"testing"
)

func testPrincipal(role Role, email string) *Principal {
	return &Principal{UserID: 1, Email: email, Role: role}
}

func TestAuthorize_AdminAllowsEverything(t *testing.T) {
	guard := NewGuard(DefaultPermissions())
	pr := testPrincipal(RoleAdmin, "admin@clinic.test")

	actions := []string{
		"patient:delete", "doctor:delete", "visit:delete", "document:delete",
		"visit:update", "patient:read",
	}
	for _, action := range actions {
		if err := guard.Authorize(pr, action, Ownership{}); err != nil {
			t.Errorf("expected ADMIN allowed for %s, got %v", action, err)
		}
	}
}

func TestAuthorize_PatientOwnVisit(t *testing.T) {
	guard := NewGuard(DefaultPermissions())

	owners := Ownership{PatientEmail: "p@x.com", DoctorEmail: "d@x.com"}

	// Own visit: read and cancel allowed.
	own := testPrincipal(RolePatient, "p@x.com")
	if err := guard.Authorize(own, "visit:read", owners); err != nil {
		t.Errorf("expected own read allowed, got %v", err)
	}
	if err := guard.Authorize(own, "visit:cancel", owners); err != nil {
		t.Errorf("expected own cancel allowed, got %v", err)
	}

	// Another patient's visit: forbidden regardless of the role's grants.
	other := testPrincipal(RolePatient, "someone-else@x.com")
	if err := guard.Authorize(other, "visit:read", owners); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for foreign visit read, got %v", err)
	}
	if err := guard.Authorize(other, "visit:cancel", owners); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for foreign visit cancel, got %v", err)
	}
}

func TestAuthorize_DoctorOwnVisit(t *testing.T) {
	guard := NewGuard(DefaultPermissions())
	owners := Ownership{PatientEmail: "p@x.com", DoctorEmail: "doc@clinic.test"}

	own := testPrincipal(RoleDoctor, "doc@clinic.test")
	for _, action := range []string{"visit:update", "visit:complete", "visit:cancel"} {
		if err := guard.Authorize(own, action, owners); err != nil {
			t.Errorf("expected own %s allowed for doctor, got %v", action, err)
		}
	}

	other := testPrincipal(RoleDoctor, "other-doc@clinic.test")
	for _, action := range []string{"visit:update", "visit:complete", "visit:cancel"} {
		if err := guard.Authorize(other, action, owners); !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden for foreign %s, got %v", action, err)
		}
	}
}

func TestAuthorize_EmailMatchIsCaseInsensitive(t *testing.T) {
	guard := NewGuard(DefaultPermissions())
	owners := Ownership{PatientEmail: "Patient@X.com"}

	pr := testPrincipal(RolePatient, "patient@x.com")
	if err := guard.Authorize(pr, "patient:read", owners); err != nil {
		t.Errorf("expected case-insensitive owner match, got %v", err)
	}
}

func TestAuthorize_DeleteIsAdminOnly(t *testing.T) {
	guard := NewGuard(DefaultPermissions())

	cases := []struct {
		role  Role
		email string
	}{
		{RoleReceptionist, "rec@clinic.test"},
		{RoleDoctor, "doc@clinic.test"},
		{RolePatient, "p@x.com"},
	}
	owners := Ownership{PatientEmail: "p@x.com", DoctorEmail: "doc@clinic.test"}

	for _, tc := range cases {
		pr := testPrincipal(tc.role, tc.email)
		for _, action := range []string{"patient:delete", "doctor:delete", "visit:delete", "document:delete"} {
			// Ownership must not help: even the record's own patient/doctor
			// cannot delete it.
			if err := guard.Authorize(pr, action, owners); !errors.Is(err, ErrForbidden) {
				t.Errorf("role %s: expected ErrForbidden for %s, got %v", tc.role, action, err)
			}
		}
	}
}

func TestAuthorize_ReceptionistScope(t *testing.T) {
	guard := NewGuard(DefaultPermissions())
	pr := testPrincipal(RoleReceptionist, "rec@clinic.test")

	allowed := []string{
		"patient:create", "patient:read", "patient:update",
		"doctor:read",
		"visit:create", "visit:read", "visit:update", "visit:complete", "visit:cancel",
		"document:create", "document:read", "document:update",
	}
	for _, action := range allowed {
		if err := guard.Authorize(pr, action, Ownership{}); err != nil {
			t.Errorf("expected RECEPTIONIST allowed for %s, got %v", action, err)
		}
	}

	if err := guard.Authorize(pr, "doctor:update", Ownership{}); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for doctor:update, got %v", err)
	}
}

func TestAuthorizeAny_OwnScopeDoesNotGrantLists(t *testing.T) {
	guard := NewGuard(DefaultPermissions())

	// PATIENT holds visit:read:own, which must not allow an unscoped list.
	pr := testPrincipal(RolePatient, "p@x.com")
	if err := guard.AuthorizeAny(pr, "visit:read"); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for unscoped visit list, got %v", err)
	}

	rec := testPrincipal(RoleReceptionist, "rec@clinic.test")
	if err := guard.AuthorizeAny(rec, "visit:read"); err != nil {
		t.Errorf("expected RECEPTIONIST allowed for unscoped visit list, got %v", err)
	}
}

func TestAuthorize_NilPrincipal(t *testing.T) {
	guard := NewGuard(DefaultPermissions())
	if err := guard.Authorize(nil, "visit:read", Ownership{}); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for nil principal, got %v", err)
	}
}

func TestHasAction(t *testing.T) {
	perms := DefaultPermissions()

	if !HasAction(perms, RolePatient, "visit:cancel") {
		t.Error("expected PATIENT to hold some grant for visit:cancel")
	}
	if HasAction(perms, RolePatient, "visit:complete") {
		t.Error("expected PATIENT to hold no grant for visit:complete")
	}
	if !HasAction(perms, RoleDoctor, "visit:complete") {
		t.Error("expected DOCTOR to hold a grant for visit:complete")
	}
}
