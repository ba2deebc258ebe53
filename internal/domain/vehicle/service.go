package vehicle

import (
	"context"
	"strings"

	"garden-planner-go/internal/domain/common"
	"garden-planner-go/internal/domain/validation"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Vehicle, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	return s.repo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (*Vehicle, error) {
	if !common.ValidID(id) {
		return nil, ErrVehicleNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	if !common.ValidID(id) {
		return false, nil
	}
	return s.repo.Exists(ctx, id)
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*Vehicle, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	vehicle := Vehicle{
		ID:           common.NewID(),
		Brand:        strings.TrimSpace(input.Brand),
		Model:        strings.TrimSpace(input.Model),
		LicensePlate: normalizePlate(input.LicensePlate),
		Version:      1,
	}
	if err := s.repo.Create(ctx, &vehicle); err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*Vehicle, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	vehicle, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := common.CheckVersion(input.Version, vehicle.Version); err != nil {
		return nil, err
	}

	expected := vehicle.Version
	vehicle.Brand = strings.TrimSpace(input.Brand)
	vehicle.Model = strings.TrimSpace(input.Model)
	vehicle.LicensePlate = normalizePlate(input.LicensePlate)

	updated, err := s.repo.Update(ctx, vehicle, expected)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, common.ResolveMiss(ctx, s.repo.Exists, id, ErrVehicleNotFound)
	}

	vehicle.Version = expected + 1
	return vehicle, nil
}

// Delete soft-deletes the vehicle and releases it from any user holding it.
func (s *Service) Delete(ctx context.Context, id string) error {
	if !common.ValidID(id) {
		return ErrVehicleNotFound
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		deleted, err := tx.SoftDelete(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrVehicleNotFound
		}
		return tx.ClearAssignments(ctx, id)
	})
}

func normalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}
