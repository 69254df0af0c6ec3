package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"food-ordering/internal/domain"
	cartrepo "food-ordering/internal/repository/cart"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

// selectedOption is the jsonb shape of a snapshotted option on an order line.
type selectedOption struct {
	OptionID   int    `json:"optionId"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price"`
}

func (r *postgresRepo) SaveWithCart(ctx context.Context, ord *domain.Order, cart *domain.Cart) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const insertOrder = `
INSERT INTO orders (id, user_id, shop_id, total_price_cents, order_time)
VALUES ($1, $2, $3, $4, $5)
`
	if _, err := tx.Exec(ctx, insertOrder, ord.ID(), ord.UserID(), ord.ShopID(), ord.TotalPriceCents(), ord.OrderTime()); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i, item := range ord.Items() {
		opts := make([]selectedOption, 0, len(item.SelectedOptions))
		for _, o := range item.SelectedOptions {
			opts = append(opts, selectedOption{OptionID: o.OptionID, Name: o.Name, PriceCents: o.PriceCents})
		}
		encoded, err := json.Marshal(opts)
		if err != nil {
			return fmt.Errorf("encode options: %w", err)
		}

		const insertItem = `
INSERT INTO order_items (order_id, menu_id, menu_name, selected_options, quantity, line_price_cents, position)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
		if _, err := tx.Exec(ctx, insertItem, ord.ID(), item.MenuID, item.MenuName, encoded, item.Quantity, item.LinePriceCents, i); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := cartrepo.SaveTx(ctx, tx, cart); err != nil {
		return fmt.Errorf("save cleared cart: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) GetByID(ctx context.Context, orderID string) (*domain.Order, error) {
	const q = `
SELECT id::text, user_id, shop_id, total_price_cents, order_time
FROM orders
WHERE id = $1
`
	var rec domain.OrderRecord
	err := r.pool.QueryRow(ctx, q, orderID).Scan(&rec.ID, &rec.UserID, &rec.ShopID, &rec.TotalPriceCents, &rec.OrderTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	items, err := r.fetchItems(ctx, []string{rec.ID})
	if err != nil {
		return nil, err
	}
	rec.Items = items[rec.ID]
	return domain.RebuildOrder(rec), nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Order, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	const q = `
SELECT id::text, user_id, shop_id, total_price_cents, order_time
FROM orders
WHERE user_id = $1
ORDER BY order_time DESC
LIMIT $2 OFFSET $3
`
	rows, err := r.pool.Query(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var records []domain.OrderRecord
	var ids []string
	for rows.Next() {
		var rec domain.OrderRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.ShopID, &rec.TotalPriceCents, &rec.OrderTime); err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
		ids = append(ids, rec.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	items, err := r.fetchItems(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	orders := make([]*domain.Order, 0, len(records))
	for _, rec := range records {
		rec.Items = items[rec.ID]
		orders = append(orders, domain.RebuildOrder(rec))
	}
	return orders, total, nil
}

func (r *postgresRepo) fetchItems(ctx context.Context, orderIDs []string) (map[string][]domain.OrderLineItem, error) {
	out := make(map[string][]domain.OrderLineItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return out, nil
	}

	const q = `
SELECT order_id::text, menu_id, menu_name, selected_options, quantity, line_price_cents
FROM order_items
WHERE order_id = ANY($1)
ORDER BY order_id, position ASC
`
	rows, err := r.pool.Query(ctx, q, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var item domain.OrderLineItem
		var encoded []byte
		if err := rows.Scan(&orderID, &item.MenuID, &item.MenuName, &encoded, &item.Quantity, &item.LinePriceCents); err != nil {
			return nil, err
		}
		var opts []selectedOption
		if err := json.Unmarshal(encoded, &opts); err != nil {
			return nil, fmt.Errorf("decode options: %w", err)
		}
		for _, o := range opts {
			item.SelectedOptions = append(item.SelectedOptions, domain.SelectedOption{
				OptionID:   o.OptionID,
				Name:       o.Name,
				PriceCents: o.PriceCents,
			})
		}
		out[orderID] = append(out[orderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
