package menu

import (
	"context"

	"food-ordering/internal/domain"
)

// Repository stores menu aggregates with their option groups and options.
type Repository interface {
	Get(ctx context.Context, menuID string) (*domain.Menu, error)
	ListByShop(ctx context.Context, shopID string) ([]*domain.Menu, error)
	Save(ctx context.Context, menu *domain.Menu) error
}
