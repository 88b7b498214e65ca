package service

import (
	"errors"
	"testing"
	"time"

	"github.com/revinhocontact-cloud/rxcartcart/internal/authorization"
	"github.com/revinhocontact-cloud/rxcartcart/internal/models"
)

func strPtr(v string) *string { return &v }

func seedUsers(t *testing.T, repo *fakeUserRepo) (admin, customer *models.User) {
	t.Helper()
	admin = &models.User{Name: "Admin", Email: "admin@example.com", Role: authorization.RoleAdmin, Plan: authorization.PlanEnterprise, Status: authorization.StatusActive}
	customer = &models.User{Name: "Loja", Email: "loja@example.com", Role: authorization.RoleCustomer, Plan: authorization.PlanFree, Status: authorization.StatusActive}
	if err := repo.Create(admin); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if err := repo.Create(customer); err != nil {
		t.Fatalf("create customer: %v", err)
	}
	return admin, customer
}

func TestUserUpdate(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	admin, customer := seedUsers(t, repo)

	validUntil := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	usage := 12
	updated, err := svc.Update(admin.ID, customer.ID, models.UpdateUserRequest{
		Plan:       strPtr("pro"),
		Status:     strPtr("expired"),
		ValidUntil: models.OptionalTime{Set: true, Value: &validUntil},
		Usage:      &usage,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Plan != authorization.PlanPro || updated.Status != authorization.StatusExpired {
		t.Fatalf("unexpected plan/status %s/%s", updated.Plan, updated.Status)
	}
	if !updated.ValidUntil.Equal(validUntil) || updated.Usage != 12 {
		t.Fatalf("unexpected validity/usage %+v", updated)
	}
	if updated.Role != authorization.RoleCustomer {
		t.Fatalf("absent fields must be left alone, role=%s", updated.Role)
	}

	if _, err := svc.Update(admin.ID, customer.ID, models.UpdateUserRequest{Plan: strPtr("GOLD")}); !errors.Is(err, ErrInvalidPlan) {
		t.Fatalf("expected ErrInvalidPlan, got %v", err)
	}
	if _, err := svc.Update(admin.ID, 99, models.UpdateUserRequest{}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAdminCannotLockThemselvesOut(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	admin, customer := seedUsers(t, repo)

	if _, err := svc.Update(admin.ID, admin.ID, models.UpdateUserRequest{Role: strPtr("CUSTOMER")}); !errors.Is(err, ErrCannotDemoteMe) {
		t.Fatalf("expected ErrCannotDemoteMe on self demotion, got %v", err)
	}
	if _, err := svc.Update(admin.ID, admin.ID, models.UpdateUserRequest{Status: strPtr("INACTIVE")}); !errors.Is(err, ErrCannotDemoteMe) {
		t.Fatalf("expected ErrCannotDemoteMe on self deactivation, got %v", err)
	}
	if err := svc.Delete(admin.ID, admin.ID); !errors.Is(err, ErrCannotDemoteMe) {
		t.Fatalf("expected ErrCannotDemoteMe on self delete, got %v", err)
	}

	if err := svc.Delete(admin.ID, customer.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := svc.Get(customer.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected deleted user to be gone, got %v", err)
	}
}
