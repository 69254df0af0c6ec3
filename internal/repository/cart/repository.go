package cart

import (
	"context"

	"food-ordering/internal/domain"
)

// Repository stores one cart aggregate per user. GetByUser returns
// domain.ErrNotFound for users who never added an item.
type Repository interface {
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
}
