package menu

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

func (r *postgresRepo) Get(ctx context.Context, menuID string) (*domain.Menu, error) {
	const q = `
SELECT id::text, shop_id, name, description, base_price_cents, is_open
FROM menus
WHERE id = $1
`
	var m domain.Menu
	err := r.pool.QueryRow(ctx, q, menuID).Scan(&m.ID, &m.ShopID, &m.Name, &m.Description, &m.BasePriceCents, &m.IsOpen)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	groups, err := r.fetchGroups(ctx, []string{m.ID})
	if err != nil {
		return nil, err
	}
	m.OptionGroups = groups[m.ID]
	return &m, nil
}

func (r *postgresRepo) ListByShop(ctx context.Context, shopID string) ([]*domain.Menu, error) {
	const q = `
SELECT id::text, shop_id, name, description, base_price_cents, is_open
FROM menus
WHERE shop_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, q, shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var menus []*domain.Menu
	var ids []string
	for rows.Next() {
		var m domain.Menu
		if err := rows.Scan(&m.ID, &m.ShopID, &m.Name, &m.Description, &m.BasePriceCents, &m.IsOpen); err != nil {
			return nil, err
		}
		menus = append(menus, &m)
		ids = append(ids, m.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	groups, err := r.fetchGroups(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, m := range menus {
		m.OptionGroups = groups[m.ID]
	}
	return menus, nil
}

// Save rewrites the whole aggregate: menu row upsert, then option groups and
// options reinserted in order. Child rows cascade on delete.
func (r *postgresRepo) Save(ctx context.Context, m *domain.Menu) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const upsert = `
INSERT INTO menus (id, shop_id, name, description, base_price_cents, is_open)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name,
    description = EXCLUDED.description,
    base_price_cents = EXCLUDED.base_price_cents,
    is_open = EXCLUDED.is_open
`
	if _, err := tx.Exec(ctx, upsert, m.ID, m.ShopID, m.Name, m.Description, m.BasePriceCents, m.IsOpen); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM option_groups WHERE menu_id = $1`, m.ID); err != nil {
		return err
	}
	for gi, g := range m.OptionGroups {
		const insertGroup = `
INSERT INTO option_groups (id, menu_id, name, required, position)
VALUES ($1, $2, $3, $4, $5)
`
		if _, err := tx.Exec(ctx, insertGroup, g.ID, m.ID, g.Name, g.Required, gi); err != nil {
			return err
		}
		for oi, o := range g.Options {
			const insertOption = `
INSERT INTO options (option_group_id, name, price_cents, position)
VALUES ($1, $2, $3, $4)
`
			if _, err := tx.Exec(ctx, insertOption, g.ID, o.Name, o.PriceCents, oi); err != nil {
				return err
			}
		}
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) fetchGroups(ctx context.Context, menuIDs []string) (map[string][]domain.OptionGroup, error) {
	out := make(map[string][]domain.OptionGroup, len(menuIDs))
	if len(menuIDs) == 0 {
		return out, nil
	}

	const groupQuery = `
SELECT id::text, menu_id::text, name, required
FROM option_groups
WHERE menu_id = ANY($1)
ORDER BY menu_id, position ASC
`
	rows, err := r.pool.Query(ctx, groupQuery, menuIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groupIndex := make(map[string]struct {
		menuID string
		idx    int
	})
	var groupIDs []string
	for rows.Next() {
		var g domain.OptionGroup
		var menuID string
		if err := rows.Scan(&g.ID, &menuID, &g.Name, &g.Required); err != nil {
			return nil, err
		}
		out[menuID] = append(out[menuID], g)
		groupIndex[g.ID] = struct {
			menuID string
			idx    int
		}{menuID, len(out[menuID]) - 1}
		groupIDs = append(groupIDs, g.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(groupIDs) == 0 {
		return out, nil
	}

	const optionQuery = `
SELECT option_group_id::text, name, price_cents
FROM options
WHERE option_group_id = ANY($1)
ORDER BY option_group_id, position ASC
`
	optRows, err := r.pool.Query(ctx, optionQuery, groupIDs)
	if err != nil {
		return nil, err
	}
	defer optRows.Close()

	for optRows.Next() {
		var groupID string
		var o domain.Option
		if err := optRows.Scan(&groupID, &o.Name, &o.PriceCents); err != nil {
			return nil, err
		}
		ref := groupIndex[groupID]
		group := &out[ref.menuID][ref.idx]
		group.Options = append(group.Options, o)
	}
	if err := optRows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
