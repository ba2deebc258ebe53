package appointment

import (
	"context"
	"errors"
	"strings"

	"garden-planner-go/internal/domain/common"
	"garden-planner-go/internal/domain/validation"
)

// ReferenceChecker reports whether an active row with id exists.
type ReferenceChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type Service struct {
	repo  Repository
	types ReferenceChecker
	users ReferenceChecker
}

func NewService(repo Repository, types, users ReferenceChecker) *Service {
	return &Service{repo: repo, types: types, users: users}
}

func (s *Service) List(ctx context.Context, scope Scope, filter ListFilter) ([]Appointment, error) {
	filter.OwnerID = scope.OwnerID()
	filter.Query = strings.TrimSpace(filter.Query)
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, validation.New("to", "to must not be before from")
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, scope Scope, id string) (*Appointment, error) {
	if !common.ValidID(id) {
		return nil, ErrAppointmentNotFound
	}
	return s.repo.GetByID(ctx, id, scope.OwnerID())
}

// Accessible reports whether the caller may see the appointment.
func (s *Service) Accessible(ctx context.Context, scope Scope, id string) (bool, error) {
	if _, err := s.Get(ctx, scope, id); err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Create books an appointment for the caller. Staff may book on behalf of
// another user through UserID.
func (s *Service) Create(ctx context.Context, scope Scope, input CreateInput) (*Appointment, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	ownerID := scope.UserID
	if requested := strings.TrimSpace(input.UserID); requested != "" && scope.All {
		ownerID = requested
	}
	if err := s.checkReference(ctx, s.users, ownerID, "userId", "user does not exist"); err != nil {
		return nil, err
	}
	typeID := strings.TrimSpace(input.AppointmentTypeID)
	if err := s.checkReference(ctx, s.types, typeID, "appointmentTypeId", "appointment type does not exist"); err != nil {
		return nil, err
	}

	item := Appointment{
		ID:                common.NewID(),
		UserID:            ownerID,
		AppointmentTypeID: typeID,
		Title:             strings.TrimSpace(input.Title),
		Description:       strings.TrimSpace(input.Description),
		Date:              input.Date.UTC(),
		AllDay:            input.AllDay,
		Version:           1,
	}
	if err := s.repo.Create(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Service) Update(ctx context.Context, scope Scope, id string, input UpdateInput) (*Appointment, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	item, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := common.CheckVersion(input.Version, item.Version); err != nil {
		return nil, err
	}
	typeID := strings.TrimSpace(input.AppointmentTypeID)
	if typeID != item.AppointmentTypeID {
		if err := s.checkReference(ctx, s.types, typeID, "appointmentTypeId", "appointment type does not exist"); err != nil {
			return nil, err
		}
	}

	item.AppointmentTypeID = typeID
	item.Title = strings.TrimSpace(input.Title)
	item.Description = strings.TrimSpace(input.Description)
	item.Date = input.Date.UTC()
	item.AllDay = input.AllDay

	if err := s.save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Approve sets the approval flag. Callers are staff, so no owner filter applies.
func (s *Service) Approve(ctx context.Context, id string, approved bool) (*Appointment, error) {
	item, err := s.Get(ctx, Scope{All: true}, id)
	if err != nil {
		return nil, err
	}
	if item.IsApproved == approved {
		return item, nil
	}
	item.IsApproved = approved
	if err := s.save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete soft-deletes the appointment together with its to-dos.
func (s *Service) Delete(ctx context.Context, scope Scope, id string) error {
	if _, err := s.Get(ctx, scope, id); err != nil {
		return err
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		deleted, err := tx.SoftDelete(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrAppointmentNotFound
		}
		return tx.SoftDeleteToDos(ctx, id)
	})
}

func (s *Service) save(ctx context.Context, item *Appointment) error {
	expected := item.Version
	updated, err := s.repo.Update(ctx, item, expected)
	if err != nil {
		return err
	}
	if !updated {
		return common.ResolveMiss(ctx, s.repo.Exists, item.ID, ErrAppointmentNotFound)
	}
	item.Version = expected + 1
	return nil
}

func (s *Service) checkReference(ctx context.Context, checker ReferenceChecker, id, field, message string) error {
	if !common.ValidID(id) {
		return validation.New(field, message)
	}
	ok, err := checker.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return validation.New(field, message)
	}
	return nil
}
