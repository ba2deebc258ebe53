package user

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"garden-planner-go/internal/auth"
	"garden-planner-go/internal/domain/common"
	"garden-planner-go/internal/domain/validation"
	"gorm.io/gorm"
)

type fakeRepo struct {
	users      map[string]*AgendaUser
	roles      map[string][]string
	emailReads int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users: make(map[string]*AgendaUser),
		roles: make(map[string][]string),
	}
}

func (r *fakeRepo) active(id string) (*AgendaUser, bool) {
	user, ok := r.users[id]
	if !ok || user.DeletedAt.Valid {
		return nil, false
	}
	return user, true
}

func (r *fakeRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeRepo) List(ctx context.Context, filter ListFilter) ([]AgendaUser, error) {
	result := make([]AgendaUser, 0)
	for _, user := range r.users {
		if !user.DeletedAt.Valid {
			result = append(result, *user)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].LastName < result[j].LastName })
	return result, nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*AgendaUser, error) {
	user, ok := r.active(id)
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeRepo) GetByEmail(ctx context.Context, email string) (*AgendaUser, error) {
	r.emailReads++
	for _, user := range r.users {
		if user.Email == email && !user.DeletedAt.Valid {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeRepo) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := r.active(id)
	return ok, nil
}

func (r *fakeRepo) Create(ctx context.Context, user *AgendaUser) error {
	for _, existing := range r.users {
		if existing.Email == user.Email || existing.UserName == user.UserName {
			return common.ErrDuplicate
		}
	}
	copied := *user
	copied.CreatedAt = time.Now().UTC()
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeRepo) Update(ctx context.Context, user *AgendaUser, expectedVersion int64) (bool, error) {
	stored, ok := r.active(user.ID)
	if !ok || stored.Version != expectedVersion {
		return false, nil
	}
	if user.VehicleID != nil {
		for _, other := range r.users {
			if other.ID != user.ID && !other.DeletedAt.Valid && other.VehicleID != nil && *other.VehicleID == *user.VehicleID {
				return false, common.ErrDuplicate
			}
		}
	}
	copied := *user
	copied.Version = expectedVersion + 1
	r.users[user.ID] = &copied
	return true, nil
}

func (r *fakeRepo) SoftDelete(ctx context.Context, id string) (bool, error) {
	user, ok := r.active(id)
	if !ok {
		return false, nil
	}
	user.DeletedAt = gorm.DeletedAt{Time: time.Now().UTC(), Valid: true}
	return true, nil
}

func (r *fakeRepo) ListRoles(ctx context.Context, userID string) ([]string, error) {
	roles := append([]string{}, r.roles[userID]...)
	sort.Strings(roles)
	return roles, nil
}

func (r *fakeRepo) ListRolesByUserIDs(ctx context.Context, userIDs []string) (map[string][]string, error) {
	result := make(map[string][]string, len(userIDs))
	for _, id := range userIDs {
		result[id], _ = r.ListRoles(ctx, id)
	}
	return result, nil
}

func (r *fakeRepo) ReplaceRoles(ctx context.Context, userID string, roles []string) error {
	r.roles[userID] = append([]string{}, roles...)
	return nil
}

type mapCache struct {
	mu    sync.Mutex
	items map[string]string
}

func newMapCache() *mapCache {
	return &mapCache{items: make(map[string]string)}
}

func (c *mapCache) GetID(ctx context.Context, email string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.items[email]
	return id, ok
}

func (c *mapCache) SetID(ctx context.Context, email, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[email] = userID
}

func (c *mapCache) DeleteID(ctx context.Context, email string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, email)
}

type fakeVehicles map[string]bool

func (v fakeVehicles) Exists(ctx context.Context, id string) (bool, error) {
	return v[id], nil
}

type fakeLanguages map[string]bool

func (l fakeLanguages) IsActive(code string) bool {
	return l[code]
}

func newTestService() (*Service, *fakeRepo, *mapCache) {
	repo := newFakeRepo()
	cache := newMapCache()
	svc := NewService(repo, fakeVehicles{"v-1": true}, fakeLanguages{"nl": true, "en": true}, cache)
	return svc, repo, cache
}

func register(t *testing.T, svc *Service, email string) *UserWithRoles {
	t.Helper()
	created, err := svc.Register(context.Background(), RegisterInput{
		FirstName:       "Jan",
		LastName:        "Peeters",
		UserName:        email,
		Email:           email,
		Password:        "Tuinman123",
		ConfirmPassword: "Tuinman123",
		LanguageCode:    "NL",
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return created
}

func TestRegisterAssignsUserRole(t *testing.T) {
	svc, repo, cache := newTestService()

	created := register(t, svc, "Jan@Example.com")

	if created.User.Email != "jan@example.com" {
		t.Fatalf("expected normalized email, got %q", created.User.Email)
	}
	if len(created.Roles) != 1 || created.Roles[0] != string(auth.RoleUser) {
		t.Fatalf("expected User role, got %v", created.Roles)
	}
	if created.User.LanguageCode == nil || *created.User.LanguageCode != "nl" {
		t.Fatalf("expected language nl, got %v", created.User.LanguageCode)
	}
	if created.User.PasswordHash == "Tuinman123" {
		t.Fatalf("expected password to be hashed")
	}
	if id, ok := cache.GetID(context.Background(), "jan@example.com"); !ok || id != created.User.ID {
		t.Fatalf("expected cache to hold new user id")
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected one stored user, got %d", len(repo.users))
	}
}

func TestRegisterRejectsMismatchedPasswordAndUnknownLanguage(t *testing.T) {
	svc, repo, _ := newTestService()

	_, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Jan", LastName: "Peeters", UserName: "jan", Email: "jan@example.com",
		Password: "Tuinman123", ConfirmPassword: "Other1234",
	})
	if _, ok := validation.As(err); !ok {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = svc.Register(context.Background(), RegisterInput{
		FirstName: "Jan", LastName: "Peeters", UserName: "jan", Email: "jan@example.com",
		Password: "Tuinman123", ConfirmPassword: "Tuinman123", LanguageCode: "fr",
	})
	if _, ok := validation.As(err); !ok {
		t.Fatalf("expected validation error for inactive language, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatalf("expected no stored users, got %d", len(repo.users))
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _, _ := newTestService()
	created := register(t, svc, "jan@example.com")

	got, err := svc.Authenticate(context.Background(), "JAN@example.com", "Tuinman123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.User.ID != created.User.ID {
		t.Fatalf("expected %s, got %s", created.User.ID, got.User.ID)
	}

	if _, err := svc.Authenticate(context.Background(), "jan@example.com", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "nobody@example.com", "Tuinman123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got %v", err)
	}
}

func TestResolveIDUsesCache(t *testing.T) {
	repo := newFakeRepo()
	cache := newMapCache()
	svc := NewService(repo, fakeVehicles{}, nil, cache)
	repo.users["u-1"] = &AgendaUser{ID: "u-1", Email: "tuin@example.com", Version: 1}

	for i := 0; i < 3; i++ {
		id, err := svc.ResolveID(context.Background(), "Tuin@example.com")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if id != "u-1" {
			t.Fatalf("expected u-1, got %s", id)
		}
	}
	if repo.emailReads != 1 {
		t.Fatalf("expected one store lookup, got %d", repo.emailReads)
	}
}

func TestUpdateAndDeleteInvalidateCache(t *testing.T) {
	svc, _, cache := newTestService()
	created := register(t, svc, "old@example.com")
	version := created.User.Version

	updated, err := svc.Update(context.Background(), created.User.ID, UpdateInput{
		FirstName: "Jan", LastName: "Peeters", UserName: "jan", Email: "new@example.com", Version: &version,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.User.Version != version+1 {
		t.Fatalf("expected version %d, got %d", version+1, updated.User.Version)
	}
	if _, ok := cache.GetID(context.Background(), "old@example.com"); ok {
		t.Fatalf("expected old email to be evicted")
	}

	if _, err := svc.ResolveID(context.Background(), "new@example.com"); err != nil {
		t.Fatalf("expected resolve of new email, got %v", err)
	}

	if err := svc.Delete(context.Background(), created.User.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := cache.GetID(context.Background(), "new@example.com"); ok {
		t.Fatalf("expected deleted user to be evicted")
	}
	if _, err := svc.ResolveID(context.Background(), "new@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := svc.Delete(context.Background(), created.User.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestUpdateStaleVersionConflicts(t *testing.T) {
	svc, _, _ := newTestService()
	created := register(t, svc, "jan@example.com")
	stale := created.User.Version - 1

	_, err := svc.Update(context.Background(), created.User.ID, UpdateInput{
		FirstName: "Jan", LastName: "Peeters", UserName: "jan", Email: "jan@example.com", Version: &stale,
	})
	if !errors.Is(err, common.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestSetRoles(t *testing.T) {
	svc, _, _ := newTestService()
	created := register(t, svc, "jan@example.com")
	admin := auth.NewRoleSet(auth.RoleAdmin)

	roles, err := svc.SetRoles(context.Background(), admin, created.User.ID, []string{"employee", "Admin", "EMPLOYEE"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(roles) != 2 || roles[0] != "Admin" || roles[1] != "Employee" {
		t.Fatalf("unexpected roles %v", roles)
	}

	if _, err := svc.SetRoles(context.Background(), admin, created.User.ID, []string{"Gardener"}); err == nil {
		t.Fatalf("expected validation error for unknown role")
	}
	if _, err := svc.SetRoles(context.Background(), admin, "missing", []string{"Admin"}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSetRolesAdminMembershipNeedsAdmin(t *testing.T) {
	svc, repo, _ := newTestService()
	userAdmin := auth.NewRoleSet(auth.RoleUserAdmin)
	customer := register(t, svc, "klant@example.com")

	if _, err := svc.SetRoles(context.Background(), userAdmin, customer.User.ID, []string{"Admin"}); !errors.Is(err, ErrAdminRoleRequired) {
		t.Fatalf("expected admin role required, got %v", err)
	}
	if roles := repo.roles[customer.User.ID]; len(roles) != 1 || roles[0] != "User" {
		t.Fatalf("expected roles untouched, got %v", roles)
	}

	roles, err := svc.SetRoles(context.Background(), userAdmin, customer.User.ID, []string{"Employee"})
	if err != nil {
		t.Fatalf("expected user admin to grant employee, got %v", err)
	}
	if len(roles) != 1 || roles[0] != "Employee" {
		t.Fatalf("unexpected roles %v", roles)
	}

	boss := register(t, svc, "baas@example.com")
	repo.roles[boss.User.ID] = []string{"Admin"}
	if _, err := svc.SetRoles(context.Background(), userAdmin, boss.User.ID, []string{"User"}); !errors.Is(err, ErrAdminRoleRequired) {
		t.Fatalf("expected admin role required to demote an admin, got %v", err)
	}
}

func TestAssignAndUnassignVehicle(t *testing.T) {
	svc, _, _ := newTestService()
	created := register(t, svc, "jan@example.com")

	if _, err := svc.AssignVehicle(context.Background(), created.User.ID, "v-404"); err == nil {
		t.Fatalf("expected error for unknown vehicle")
	}

	assigned, err := svc.AssignVehicle(context.Background(), created.User.ID, "v-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if assigned.User.VehicleID == nil || *assigned.User.VehicleID != "v-1" {
		t.Fatalf("expected vehicle v-1, got %v", assigned.User.VehicleID)
	}

	other := register(t, svc, "piet@example.com")
	if _, err := svc.AssignVehicle(context.Background(), other.User.ID, "v-1"); !errors.Is(err, common.ErrDuplicate) {
		t.Fatalf("expected duplicate for a vehicle held by another user, got %v", err)
	}

	cleared, err := svc.UnassignVehicle(context.Background(), created.User.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cleared.User.VehicleID != nil {
		t.Fatalf("expected no vehicle, got %v", *cleared.User.VehicleID)
	}
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newTestService()
	created := register(t, svc, "jan@example.com")

	err := svc.ChangePassword(context.Background(), created.User.ID, ChangePasswordInput{
		CurrentPassword: "wrong-pass", NewPassword: "Nieuw12345", ConfirmPassword: "Nieuw12345",
	})
	if _, ok := validation.As(err); !ok {
		t.Fatalf("expected validation error, got %v", err)
	}

	err = svc.ChangePassword(context.Background(), created.User.ID, ChangePasswordInput{
		CurrentPassword: "Tuinman123", NewPassword: "Nieuw12345", ConfirmPassword: "Nieuw12345",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "jan@example.com", "Nieuw12345"); err != nil {
		t.Fatalf("expected login with new password, got %v", err)
	}
}

func TestReservedIDIsNotFound(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Get(context.Background(), common.ReservedID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
