package cart

import (
	"context"
	"errors"

	"food-ordering/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	const cartQuery = `
SELECT id::text, user_id, COALESCE(shop_id, '')
FROM carts
WHERE user_id = $1
`
	var cart domain.Cart
	err := r.pool.QueryRow(ctx, cartQuery, userID).Scan(&cart.ID, &cart.UserID, &cart.ShopID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const itemsQuery = `
SELECT menu_id, option_ids, quantity
FROM cart_items
WHERE cart_id = $1
ORDER BY position ASC
`
	rows, err := r.pool.Query(ctx, itemsQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.CartItem
		var optionIDs []int32
		if err := rows.Scan(&item.MenuID, &optionIDs, &item.Quantity); err != nil {
			return nil, err
		}
		item.OptionIDs = toInts(optionIDs)
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *postgresRepo) Save(ctx context.Context, cart *domain.Cart) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := SaveTx(ctx, tx, cart); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// SaveTx upserts the full aggregate inside the caller's transaction; the
// order store reuses it to persist the cleared cart atomically with a new
// order.
func SaveTx(ctx context.Context, tx pgx.Tx, cart *domain.Cart) error {
	const upsert = `
INSERT INTO carts (id, user_id, shop_id)
VALUES ($1, $2, NULLIF($3, ''))
ON CONFLICT (id) DO UPDATE
SET shop_id = EXCLUDED.shop_id,
    updated_at = now()
`
	if _, err := tx.Exec(ctx, upsert, cart.ID, cart.UserID, cart.ShopID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cart.ID); err != nil {
		return err
	}
	for i, item := range cart.Items {
		const insert = `
INSERT INTO cart_items (cart_id, menu_id, option_ids, quantity, position)
VALUES ($1, $2, $3, $4, $5)
`
		if _, err := tx.Exec(ctx, insert, cart.ID, item.MenuID, toInt32s(item.OptionIDs), item.Quantity, i); err != nil {
			return err
		}
	}
	return nil
}

func toInts(in []int32) []int {
	if len(in) == 0 {
		return nil
	}
	out := make([]int, len(in))
	for i, v := range in {
		out[i] = int(v)
	}
	return out
}

func toInt32s(in []int) []int32 {
	out := make([]int32, len(in))
	for i, v := range in {
		out[i] = int32(v)
	}
	return out
}
