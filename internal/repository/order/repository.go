package order

import (
	"context"

	"food-ordering/internal/domain"
)

// Repository persists placed orders. SaveWithCart writes the order and the
// cleared cart in one transaction so a placed order never coexists with a
// stale cart.
type Repository interface {
	SaveWithCart(ctx context.Context, order *domain.Order, cart *domain.Cart) error
	GetByID(ctx context.Context, orderID string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Order, int, error)
}
