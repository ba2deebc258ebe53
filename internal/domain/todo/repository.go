package todo

import "context"

type Repository interface {
	List(ctx context.Context, appointmentID string, filter ListFilter) ([]ToDo, error)
	GetByID(ctx context.Context, appointmentID, id string) (*ToDo, error)
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, item *ToDo) error
	Update(ctx context.Context, item *ToDo, expectedVersion int64) (bool, error)
	SoftDelete(ctx context.Context, appointmentID, id string) (bool, error)
}
