package model

// Role enumerations are closed string types so that authorization checks
// compare typed values instead of raw literals.  The string values match the
// enum columns in the database.

// PlatformRole is the global privilege level of a user, independent of any
// ranch membership.
type PlatformRole string

const (
	PlatformRoleUser       PlatformRole = "user"
	PlatformRoleAdmin      PlatformRole = "admin"
	PlatformRoleSuperAdmin PlatformRole = "super_admin"
)

// Valid reports whether the value is one of the known platform roles.
func (r PlatformRole) Valid() bool {
	switch r {
	case PlatformRoleUser, PlatformRoleAdmin, PlatformRoleSuperAdmin:
		return true
	}
	return false
}

// RanchRole is the per-ranch privilege level carried by a membership.
type RanchRole string

const (
	RanchRoleOwner       RanchRole = "owner"
	RanchRoleManager     RanchRole = "manager"
	RanchRoleVet         RanchRole = "vet"
	RanchRoleStorekeeper RanchRole = "storekeeper"
	RanchRoleWorker      RanchRole = "worker"
)

// Valid reports whether the value is one of the known ranch roles.
func (r RanchRole) Valid() bool {
	switch r {
	case RanchRoleOwner, RanchRoleManager, RanchRoleVet, RanchRoleStorekeeper, RanchRoleWorker:
		return true
	}
	return false
}

// In reports whether the role appears in the given allow-list.
func (r RanchRole) In(allowed ...RanchRole) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// MemberStatus is the activation state of a ranch membership.
type MemberStatus string

const (
	MemberStatusActive   MemberStatus = "active"
	MemberStatusPending  MemberStatus = "pending"
	MemberStatusDisabled MemberStatus = "disabled"
)

// Valid reports whether the value is one of the known membership statuses.
func (s MemberStatus) Valid() bool {
	switch s {
	case MemberStatusActive, MemberStatusPending, MemberStatusDisabled:
		return true
	}
	return false
}

// CanChangePlatformRole applies the platform-role escalation rules:
// a super_admin target is immutable, only a super_admin may grant
// super_admin, and an admin may not modify another admin.
func CanChangePlatformRole(requester, target, newRole PlatformRole) error {
	if target == PlatformRoleSuperAdmin {
		return ErrTargetSuperAdmin
	}
	if newRole == PlatformRoleSuperAdmin && requester != PlatformRoleSuperAdmin {
		return ErrSuperAdminGrant
	}
	if requester == PlatformRoleAdmin && target == PlatformRoleAdmin {
		return ErrAdminPeer
	}
	return nil
}
