package vehicle

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	List(ctx context.Context, filter ListFilter) ([]Vehicle, error)
	GetByID(ctx context.Context, id string) (*Vehicle, error)
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, vehicle *Vehicle) error
	Update(ctx context.Context, vehicle *Vehicle, expectedVersion int64) (bool, error)
	SoftDelete(ctx context.Context, id string) (bool, error)
	// ClearAssignments unassigns the vehicle from every user that holds it.
	ClearAssignments(ctx context.Context, vehicleID string) error
}
