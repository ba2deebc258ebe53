package appointmenttype

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

func (s *Service) List(ctx context.Context, filter ListFilter) ([]AppointmentType, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	return s.repo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (*AppointmentType, error) {
	if !common.ValidID(id) {
		return nil, ErrAppointmentTypeNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// Exists reports whether id refers to an active appointment type.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	if !common.ValidID(id) {
		return false, nil
	}
	return s.repo.Exists(ctx, id)
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*AppointmentType, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	item := AppointmentType{
		ID:          common.NewID(),
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Color:       strings.ToLower(input.Color),
		Version:     1,
	}
	if err := s.repo.Create(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*AppointmentType, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := common.CheckVersion(input.Version, item.Version); err != nil {
		return nil, err
	}

	expected := item.Version
	item.Name = strings.TrimSpace(input.Name)
	item.Description = strings.TrimSpace(input.Description)
	item.Color = strings.ToLower(input.Color)

	updated, err := s.repo.Update(ctx, item, expected)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, common.ResolveMiss(ctx, s.repo.Exists, id, ErrAppointmentTypeNotFound)
	}

	item.Version = expected + 1
	return item, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if !common.ValidID(id) {
		return ErrAppointmentTypeNotFound
	}
	deleted, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrAppointmentTypeNotFound
	}
	return nil
}
