package user

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	List(ctx context.Context, filter ListFilter) ([]AgendaUser, error)
	GetByID(ctx context.Context, id string) (*AgendaUser, error)
	GetByEmail(ctx context.Context, email string) (*AgendaUser, error)
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, user *AgendaUser) error
	Update(ctx context.Context, user *AgendaUser, expectedVersion int64) (bool, error)
	SoftDelete(ctx context.Context, id string) (bool, error)
	ListRoles(ctx context.Context, userID string) ([]string, error)
	ListRolesByUserIDs(ctx context.Context, userIDs []string) (map[string][]string, error)
	ReplaceRoles(ctx context.Context, userID string, roles []string) error
}
