package todo

import (
	"context"
	"strings"

	"garden-planner-go/internal/domain/appointment"
	"garden-planner-go/internal/domain/common"
	"garden-planner-go/internal/domain/validation"
)

// AppointmentAccess reports whether the caller may see an appointment.
type AppointmentAccess interface {
	Accessible(ctx context.Context, scope appointment.Scope, id string) (bool, error)
}

// Service manages the to-dos of one appointment at a time. Every call first
// checks that the appointment is active and visible to the caller.
type Service struct {
	repo         Repository
	appointments AppointmentAccess
}

func NewService(repo Repository, appointments AppointmentAccess) *Service {
	return &Service{repo: repo, appointments: appointments}
}

func (s *Service) List(ctx context.Context, scope appointment.Scope, appointmentID string, filter ListFilter) ([]ToDo, error) {
	if err := s.checkAppointment(ctx, scope, appointmentID); err != nil {
		return nil, err
	}
	filter.Query = strings.TrimSpace(filter.Query)
	return s.repo.List(ctx, appointmentID, filter)
}

func (s *Service) Get(ctx context.Context, scope appointment.Scope, appointmentID, id string) (*ToDo, error) {
	if err := s.checkAppointment(ctx, scope, appointmentID); err != nil {
		return nil, err
	}
	if !common.ValidID(id) {
		return nil, ErrToDoNotFound
	}
	return s.repo.GetByID(ctx, appointmentID, id)
}

func (s *Service) Create(ctx context.Context, scope appointment.Scope, appointmentID string, input CreateInput) (*ToDo, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if err := s.checkAppointment(ctx, scope, appointmentID); err != nil {
		return nil, err
	}

	item := ToDo{
		ID:            common.NewID(),
		AppointmentID: appointmentID,
		Description:   strings.TrimSpace(input.Description),
		Done:          input.Done,
		Version:       1,
	}
	if err := s.repo.Create(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Service) Update(ctx context.Context, scope appointment.Scope, appointmentID, id string, input UpdateInput) (*ToDo, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	item, err := s.Get(ctx, scope, appointmentID, id)
	if err != nil {
		return nil, err
	}
	if err := common.CheckVersion(input.Version, item.Version); err != nil {
		return nil, err
	}

	item.Description = strings.TrimSpace(input.Description)
	item.Done = input.Done
	if err := s.save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Toggle flips the done flag of the current revision.
func (s *Service) Toggle(ctx context.Context, scope appointment.Scope, appointmentID, id string) (*ToDo, error) {
	item, err := s.Get(ctx, scope, appointmentID, id)
	if err != nil {
		return nil, err
	}
	item.Done = !item.Done
	if err := s.save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) Delete(ctx context.Context, scope appointment.Scope, appointmentID, id string) error {
	if err := s.checkAppointment(ctx, scope, appointmentID); err != nil {
		return err
	}
	if !common.ValidID(id) {
		return ErrToDoNotFound
	}
	deleted, err := s.repo.SoftDelete(ctx, appointmentID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrToDoNotFound
	}
	return nil
}

func (s *Service) save(ctx context.Context, item *ToDo) error {
	expected := item.Version
	updated, err := s.repo.Update(ctx, item, expected)
	if err != nil {
		return err
	}
	if !updated {
		return common.ResolveMiss(ctx, s.repo.Exists, item.ID, ErrToDoNotFound)
	}
	item.Version = expected + 1
	return nil
}

func (s *Service) checkAppointment(ctx context.Context, scope appointment.Scope, appointmentID string) error {
	if !common.ValidID(appointmentID) {
		return appointment.ErrAppointmentNotFound
	}
	ok, err := s.appointments.Accessible(ctx, scope, appointmentID)
	if err != nil {
		return err
	}
	if !ok {
		return appointment.ErrAppointmentNotFound
	}
	return nil
}
