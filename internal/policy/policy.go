// Package policy is the single place where role and tenant rules live.
// Handlers never check roles inline; they ask this package and map a
// denial to a response.
package policy

import (
	"habita/auth/internal/models"
	"habita/auth/internal/repository"
)

// Caller is the decoded identity a decision is evaluated against.
type Caller struct {
	ID           string
	Username     string
	Role         models.Role
	Inmobiliaria string
}

// Decision is an allow/deny outcome with the reason for a denial.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

const (
	ReasonDenied         = "Permission denied"
	ReasonTenantAdmin    = "Only admin can update id_inmobiliaria"
	ReasonNoInmobiliaria = "You must belong to an inmobiliaria for this action"
)

// MemberRole is the role every tenant-registered member receives.
const MemberRole = models.RoleAgente

// CanViewProfile gates profile reads. Any authenticated caller may look
// up any profile; the handler filters the returned fields.
func CanViewProfile(Caller) Decision {
	return allow()
}

// MemberRegistration decides whether the caller may register a member
// and under which tenant. An owner is always pinned to their own
// tenant, whatever tenant was requested.
func MemberRegistration(caller Caller, requested string) (string, Decision) {
	if requested == "" {
		requested = caller.Inmobiliaria
	}

	switch caller.Role {
	case models.RoleAdmin:
		return requested, allow()
	case models.RoleOwner:
		return caller.Inmobiliaria, allow()
	default:
		return "", deny(ReasonDenied)
	}
}

// CanDeleteUser allows admins and self-deletion.
func CanDeleteUser(caller Caller, targetID string) Decision {
	if caller.Role == models.RoleAdmin || caller.ID == targetID {
		return allow()
	}
	return deny(ReasonDenied)
}

// FilterUpdate decides whether the caller may update the target and
// strips fields the caller may not touch. A tenant change by a
// non-admin is a denial; a role change by a non-admin is silently
// dropped and the rest of the update goes through.
func FilterUpdate(caller Caller, targetID string, upd repository.UserUpdate) (repository.UserUpdate, Decision) {
	admin := caller.Role == models.RoleAdmin

	if !admin && caller.ID != targetID {
		return repository.UserUpdate{}, deny(ReasonDenied)
	}
	if upd.InmobiliariaID != nil && !admin {
		return repository.UserUpdate{}, deny(ReasonTenantAdmin)
	}
	if upd.Role != nil && !admin {
		upd.Role = nil
	}
	return upd, allow()
}

// CanListAllUsers is admin-only.
func CanListAllUsers(caller Caller) Decision {
	if caller.Role == models.RoleAdmin {
		return allow()
	}
	return deny(ReasonDenied)
}

// InmobiliariaListScope resolves which tenant a listing call actually
// targets. No requested tenant defaults to the caller's own; a caller
// without one is denied. Admins may query any tenant, owners and
// agentes only their own, anyone else nothing.
func InmobiliariaListScope(caller Caller, requested string) (string, Decision) {
	if requested == "" {
		if caller.Inmobiliaria == "" {
			return "", deny(ReasonNoInmobiliaria)
		}
		requested = caller.Inmobiliaria
	}

	switch caller.Role {
	case models.RoleAdmin:
		return requested, allow()
	case models.RoleOwner, models.RoleAgente:
		if caller.Inmobiliaria != requested {
			return "", deny(ReasonDenied)
		}
		return requested, allow()
	default:
		return "", deny(ReasonDenied)
	}
}
