package policy

import (
	"testing"

	"habita/auth/internal/models"
	"habita/auth/internal/repository"
)

func strPtr(s string) *string {
	return &s
}

func rolePtr(r models.Role) *models.Role {
	return &r
}

func TestMemberRegistration(t *testing.T) {
	tests := []struct {
		name      string
		caller    Caller
		requested string
		allowed   bool
		effective string
	}{
		{
			name:      "admin with explicit tenant",
			caller:    Caller{ID: "a1", Role: models.RoleAdmin},
			requested: "T9",
			allowed:   true,
			effective: "T9",
		},
		{
			name:      "admin defaults to own tenant",
			caller:    Caller{ID: "a1", Role: models.RoleAdmin, Inmobiliaria: "T1"},
			requested: "",
			allowed:   true,
			effective: "T1",
		},
		{
			name:      "owner forced to own tenant",
			caller:    Caller{ID: "o1", Role: models.RoleOwner, Inmobiliaria: "T1"},
			requested: "T2",
			allowed:   true,
			effective: "T1",
		},
		{
			name:      "owner without request stays on own tenant",
			caller:    Caller{ID: "o1", Role: models.RoleOwner, Inmobiliaria: "T1"},
			requested: "",
			allowed:   true,
			effective: "T1",
		},
		{
			name:      "agente denied",
			caller:    Caller{ID: "g1", Role: models.RoleAgente, Inmobiliaria: "T1"},
			requested: "T1",
			allowed:   false,
		},
		{
			name:      "unknown role denied",
			caller:    Caller{ID: "x1", Role: "viewer"},
			requested: "T1",
			allowed:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			effective, d := MemberRegistration(tt.caller, tt.requested)
			if d.Allowed != tt.allowed {
				t.Fatalf("allowed = %v, want %v (reason %q)", d.Allowed, tt.allowed, d.Reason)
			}
			if tt.allowed && effective != tt.effective {
				t.Fatalf("effective tenant = %q, want %q", effective, tt.effective)
			}
			if !tt.allowed && d.Reason == "" {
				t.Fatal("denial carries no reason")
			}
		})
	}
}

func TestCanDeleteUser(t *testing.T) {
	tests := []struct {
		name    string
		caller  Caller
		target  string
		allowed bool
	}{
		{"admin deletes anyone", Caller{ID: "a1", Role: models.RoleAdmin}, "u9", true},
		{"self delete", Caller{ID: "u9", Role: models.RoleAgente}, "u9", true},
		{"agente deletes other", Caller{ID: "g1", Role: models.RoleAgente}, "u9", false},
		{"owner deletes other", Caller{ID: "o1", Role: models.RoleOwner}, "u9", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if d := CanDeleteUser(tt.caller, tt.target); d.Allowed != tt.allowed {
				t.Fatalf("allowed = %v, want %v", d.Allowed, tt.allowed)
			}
		})
	}
}

func TestFilterUpdateDeniesOutsiders(t *testing.T) {
	caller := Caller{ID: "g1", Role: models.RoleAgente}
	_, d := FilterUpdate(caller, "u9", repository.UserUpdate{Email: strPtr("new@x.com")})
	if d.Allowed {
		t.Fatal("expected denial for non-admin updating another user")
	}
}

func TestFilterUpdateTenantChangeIsAdminOnly(t *testing.T) {
	caller := Caller{ID: "u1", Role: models.RoleOwner, Inmobiliaria: "T1"}
	_, d := FilterUpdate(caller, "u1", repository.UserUpdate{InmobiliariaID: strPtr("T2")})
	if d.Allowed {
		t.Fatal("expected denial for non-admin tenant change")
	}
	if d.Reason != ReasonTenantAdmin {
		t.Fatalf("reason = %q, want %q", d.Reason, ReasonTenantAdmin)
	}

	admin := Caller{ID: "a1", Role: models.RoleAdmin}
	upd, d := FilterUpdate(admin, "u1", repository.UserUpdate{InmobiliariaID: strPtr("T2")})
	if !d.Allowed {
		t.Fatalf("admin tenant change denied: %q", d.Reason)
	}
	if upd.InmobiliariaID == nil || *upd.InmobiliariaID != "T2" {
		t.Fatal("admin tenant change stripped")
	}
}

func TestFilterUpdateStripsRoleForNonAdmin(t *testing.T) {
	caller := Caller{ID: "u1", Role: models.RoleAgente}
	upd, d := FilterUpdate(caller, "u1", repository.UserUpdate{
		Role:  rolePtr(models.RoleAdmin),
		Email: strPtr("new@x.com"),
	})
	if !d.Allowed {
		t.Fatalf("self update denied: %q", d.Reason)
	}
	if upd.Role != nil {
		t.Fatal("role change by non-admin not stripped")
	}
	if upd.Email == nil || *upd.Email != "new@x.com" {
		t.Fatal("remaining fields must survive the strip")
	}

	admin := Caller{ID: "a1", Role: models.RoleAdmin}
	upd, d = FilterUpdate(admin, "u1", repository.UserUpdate{Role: rolePtr(models.RoleOwner)})
	if !d.Allowed || upd.Role == nil {
		t.Fatal("admin role change must pass through")
	}
}

func TestCanListAllUsers(t *testing.T) {
	if d := CanListAllUsers(Caller{ID: "a1", Role: models.RoleAdmin}); !d.Allowed {
		t.Fatal("admin denied")
	}
	for _, role := range []models.Role{models.RoleOwner, models.RoleAgente, "viewer"} {
		if d := CanListAllUsers(Caller{ID: "u1", Role: role}); d.Allowed {
			t.Fatalf("role %q allowed to list all users", role)
		}
	}
}

func TestInmobiliariaListScope(t *testing.T) {
	tests := []struct {
		name      string
		caller    Caller
		requested string
		allowed   bool
		effective string
		reason    string
	}{
		{
			name:      "admin queries any tenant",
			caller:    Caller{ID: "a1", Role: models.RoleAdmin},
			requested: "T7",
			allowed:   true,
			effective: "T7",
		},
		{
			name:      "owner queries own tenant",
			caller:    Caller{ID: "o1", Role: models.RoleOwner, Inmobiliaria: "T1"},
			requested: "T1",
			allowed:   true,
			effective: "T1",
		},
		{
			name:      "owner queries foreign tenant",
			caller:    Caller{ID: "o1", Role: models.RoleOwner, Inmobiliaria: "T1"},
			requested: "T2",
			allowed:   false,
		},
		{
			name:      "agente defaults to own tenant",
			caller:    Caller{ID: "g1", Role: models.RoleAgente, Inmobiliaria: "T3"},
			requested: "",
			allowed:   true,
			effective: "T3",
		},
		{
			name:      "caller without tenant and no request",
			caller:    Caller{ID: "g1", Role: models.RoleAgente},
			requested: "",
			allowed:   false,
			reason:    ReasonNoInmobiliaria,
		},
		{
			name:      "unprivileged role denied",
			caller:    Caller{ID: "x1", Role: "viewer", Inmobiliaria: "T1"},
			requested: "T1",
			allowed:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			effective, d := InmobiliariaListScope(tt.caller, tt.requested)
			if d.Allowed != tt.allowed {
				t.Fatalf("allowed = %v, want %v (reason %q)", d.Allowed, tt.allowed, d.Reason)
			}
			if tt.allowed && effective != tt.effective {
				t.Fatalf("effective tenant = %q, want %q", effective, tt.effective)
			}
			if tt.reason != "" && d.Reason != tt.reason {
				t.Fatalf("reason = %q, want %q", d.Reason, tt.reason)
			}
		})
	}
}
