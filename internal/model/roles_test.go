package model

import (
	"errors"
	"testing"
)

func TestCanChangePlatformRole_SuperAdminImmutable(t *testing.T) {
	err := CanChangePlatformRole(PlatformRoleSuperAdmin, PlatformRoleSuperAdmin, PlatformRoleUser)
	if !errors.Is(err, ErrTargetSuperAdmin) {
		t.Fatalf("expected ErrTargetSuperAdmin, got %v", err)
	}
}

func TestCanChangePlatformRole_OnlySuperAdminGrantsSuperAdmin(t *testing.T) {
	err := CanChangePlatformRole(PlatformRoleAdmin, PlatformRoleUser, PlatformRoleSuperAdmin)
	if !errors.Is(err, ErrSuperAdminGrant) {
		t.Fatalf("expected ErrSuperAdminGrant, got %v", err)
	}
	if err := CanChangePlatformRole(PlatformRoleSuperAdmin, PlatformRoleUser, PlatformRoleSuperAdmin); err != nil {
		t.Fatalf("super admin should grant super admin, got %v", err)
	}
}

func TestCanChangePlatformRole_AdminCannotTouchAdmin(t *testing.T) {
	err := CanChangePlatformRole(PlatformRoleAdmin, PlatformRoleAdmin, PlatformRoleUser)
	if !errors.Is(err, ErrAdminPeer) {
		t.Fatalf("expected ErrAdminPeer, got %v", err)
	}
	if err := CanChangePlatformRole(PlatformRoleSuperAdmin, PlatformRoleAdmin, PlatformRoleUser); err != nil {
		t.Fatalf("super admin should demote admin, got %v", err)
	}
}

func TestCanChangePlatformRole_AdminPromotesUser(t *testing.T) {
	if err := CanChangePlatformRole(PlatformRoleAdmin, PlatformRoleUser, PlatformRoleAdmin); err != nil {
		t.Fatalf("admin should promote user to admin, got %v", err)
	}
}

func TestRanchRoleIn(t *testing.T) {
	if !RanchRoleVet.In(RanchRoleOwner, RanchRoleManager, RanchRoleVet) {
		t.Fatal("vet should match allow-list containing vet")
	}
	if RanchRoleWorker.In(RanchRoleOwner, RanchRoleManager) {
		t.Fatal("worker should not match owner/manager allow-list")
	}
}

func TestRoleValidation(t *testing.T) {
	if PlatformRole("root").Valid() {
		t.Fatal("unknown platform role accepted")
	}
	if !RanchRoleStorekeeper.Valid() {
		t.Fatal("storekeeper rejected")
	}
	if MemberStatus("archived").Valid() {
		t.Fatal("unknown member status accepted")
	}
}
