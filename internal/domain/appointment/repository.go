package appointment

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	List(ctx context.Context, filter ListFilter) ([]Appointment, error)
	// GetByID applies the owner filter when ownerID is not empty.
	GetByID(ctx context.Context, id, ownerID string) (*Appointment, error)
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, item *Appointment) error
	Update(ctx context.Context, item *Appointment, expectedVersion int64) (bool, error)
	SoftDelete(ctx context.Context, id string) (bool, error)
	SoftDeleteToDos(ctx context.Context, appointmentID string) error
}
