package user

import "context"

// IDCache memoizes email -> user id lookups.
type IDCache interface {
	GetID(ctx context.Context, email string) (string, bool)
	SetID(ctx context.Context, email, userID string)
	DeleteID(ctx context.Context, email string)
}

type noopIDCache struct{}

func (noopIDCache) GetID(context.Context, string) (string, bool) {
	return "", false
}

func (noopIDCache) SetID(context.Context, string, string) {}

func (noopIDCache) DeleteID(context.Context, string) {}
