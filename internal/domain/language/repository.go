package language

import "context"

type Repository interface {
	ListActive(ctx context.Context) ([]Language, error)
	SetActive(ctx context.Context, code string, active bool) (bool, error)
}
