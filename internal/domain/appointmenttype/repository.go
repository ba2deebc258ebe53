package appointmenttype

import "context"

type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]AppointmentType, error)
	GetByID(ctx context.Context, id string) (*AppointmentType, error)
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, item *AppointmentType) error
	Update(ctx context.Context, item *AppointmentType, expectedVersion int64) (bool, error)
	SoftDelete(ctx context.Context, id string) (bool, error)
}
