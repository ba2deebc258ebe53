package user

import (
	"context"
	"errors"
	"sort"
	"strings"

	"garden-planner-go/internal/auth"
	"garden-planner-go/internal/domain/common"
	"garden-planner-go/internal/domain/validation"
)

type VehicleChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type LanguageChecker interface {
	IsActive(code string) bool
}

type Service struct {
	repo      Repository
	vehicles  VehicleChecker
	languages LanguageChecker
	cache     IDCache
}

func NewService(repo Repository, vehicles VehicleChecker, languages LanguageChecker, cache IDCache) *Service {
	if cache == nil {
		cache = noopIDCache{}
	}
	return &Service{
		repo:      repo,
		vehicles:  vehicles,
		languages: languages,
		cache:     cache,
	}
}

// Register creates a customer account holding only the User role.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*UserWithRoles, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	languageCode, err := s.languageCode(input.LanguageCode)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := AgendaUser{
		ID:           common.NewID(),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		UserName:     strings.TrimSpace(input.UserName),
		Email:        normalizeEmail(input.Email),
		PasswordHash: hash,
		LanguageCode: languageCode,
		Version:      1,
	}
	roles := []string{string(auth.RoleUser)}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.Create(ctx, &user); err != nil {
			return err
		}
		return tx.ReplaceRoles(ctx, user.ID, roles)
	})
	if err != nil {
		return nil, err
	}

	s.cache.SetID(ctx, user.Email, user.ID)
	return &UserWithRoles{User: user, Roles: roles}, nil
}

// Authenticate checks email and password. Unknown, deleted and mismatching
// accounts all report ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*UserWithRoles, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	roles, err := s.repo.ListRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.cache.SetID(ctx, user.Email, user.ID)
	return &UserWithRoles{User: *user, Roles: roles}, nil
}

// ResolveID maps an email to a user id, consulting the cache before the store.
func (s *Service) ResolveID(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", ErrUserNotFound
	}
	if id, ok := s.cache.GetID(ctx, email); ok {
		return id, nil
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	s.cache.SetID(ctx, email, user.ID)
	return user.ID, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]UserWithRoles, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	users, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return []UserWithRoles{}, nil
	}

	ids := make([]string, 0, len(users))
	for _, user := range users {
		ids = append(ids, user.ID)
	}
	rolesByUser, err := s.repo.ListRolesByUserIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]UserWithRoles, 0, len(users))
	for _, user := range users {
		roles := rolesByUser[user.ID]
		if roles == nil {
			roles = []string{}
		}
		result = append(result, UserWithRoles{User: user, Roles: roles})
	}
	return result, nil
}

func (s *Service) Get(ctx context.Context, id string) (*UserWithRoles, error) {
	user, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	roles, err := s.repo.ListRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &UserWithRoles{User: *user, Roles: roles}, nil
}

func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*UserWithRoles, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	languageCode, err := s.languageCode(input.LanguageCode)
	if err != nil {
		return nil, err
	}

	user, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := common.CheckVersion(input.Version, user.Version); err != nil {
		return nil, err
	}

	previousEmail := user.Email
	user.FirstName = strings.TrimSpace(input.FirstName)
	user.LastName = strings.TrimSpace(input.LastName)
	user.UserName = strings.TrimSpace(input.UserName)
	user.Email = normalizeEmail(input.Email)
	user.LanguageCode = languageCode

	if err := s.save(ctx, user); err != nil {
		return nil, err
	}

	s.cache.DeleteID(ctx, previousEmail)
	s.cache.DeleteID(ctx, user.Email)
	return s.Get(ctx, user.ID)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	user, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.SoftDelete(ctx, user.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrUserNotFound
	}

	s.cache.DeleteID(ctx, user.Email)
	return nil
}

// SetRoles replaces the user's role memberships. Unknown role names are a
// validation error. Only a grantor holding Admin may grant Admin or change
// the roles of a user who already holds it.
func (s *Service) SetRoles(ctx context.Context, grantor auth.RoleSet, id string, names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, validation.New("roles", "at least one role is required")
	}

	seen := make(map[auth.Role]struct{}, len(names))
	roles := make([]string, 0, len(names))
	for _, name := range names {
		role, ok := auth.ParseRole(name)
		if !ok {
			return nil, validation.New("roles", "unknown role "+strings.TrimSpace(name))
		}
		if _, dup := seen[role]; dup {
			continue
		}
		seen[role] = struct{}{}
		roles = append(roles, string(role))
	}
	sort.Strings(roles)

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		exists, err := tx.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return ErrUserNotFound
		}
		if !grantor.Has(auth.RoleAdmin) {
			if _, granting := seen[auth.RoleAdmin]; granting {
				return ErrAdminRoleRequired
			}
			current, err := tx.ListRoles(ctx, id)
			if err != nil {
				return err
			}
			if auth.RoleSetFromStrings(current).Has(auth.RoleAdmin) {
				return ErrAdminRoleRequired
			}
		}
		return tx.ReplaceRoles(ctx, id, roles)
	})
	if err != nil {
		return nil, err
	}
	return roles, nil
}

func (s *Service) AssignVehicle(ctx context.Context, id, vehicleID string) (*UserWithRoles, error) {
	vehicleID = strings.TrimSpace(vehicleID)
	if !common.ValidID(vehicleID) {
		return nil, validation.New("vehicleId", "vehicleId is required")
	}

	exists, err := s.vehicles.Exists(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, validation.New("vehicleId", "vehicle does not exist")
	}

	user, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.VehicleID = &vehicleID
	if err := s.save(ctx, user); err != nil {
		return nil, err
	}
	return s.Get(ctx, user.ID)
}

func (s *Service) UnassignVehicle(ctx context.Context, id string) (*UserWithRoles, error) {
	user, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.VehicleID == nil {
		return s.Get(ctx, user.ID)
	}
	user.VehicleID = nil
	if err := s.save(ctx, user); err != nil {
		return nil, err
	}
	return s.Get(ctx, user.ID)
}

func (s *Service) ChangePassword(ctx context.Context, id string, input ChangePasswordInput) error {
	if err := validation.Struct(input); err != nil {
		return err
	}

	user, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.CheckPassword(user.PasswordHash, input.CurrentPassword); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return validation.New("currentPassword", "current password is incorrect")
		}
		return err
	}

	hash, err := auth.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.save(ctx, user)
}

func (s *Service) get(ctx context.Context, id string) (*AgendaUser, error) {
	if !common.ValidID(id) {
		return nil, ErrUserNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// save writes user guarded by the version it was read with.
func (s *Service) save(ctx context.Context, user *AgendaUser) error {
	expected := user.Version
	updated, err := s.repo.Update(ctx, user, expected)
	if err != nil {
		return err
	}
	if !updated {
		return common.ResolveMiss(ctx, s.repo.Exists, user.ID, ErrUserNotFound)
	}
	user.Version = expected + 1
	return nil
}

func (s *Service) languageCode(code string) (*string, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil, nil
	}
	if s.languages != nil && !s.languages.IsActive(code) {
		return nil, validation.New("languageCode", "language is not available")
	}
	return &code, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
