package seed

import (
	"context"
	"fmt"

	"food-ordering/internal/domain"
	menurepo "food-ordering/internal/repository/menu"
	"github.com/jackc/pgx/v5/pgxpool"
)

type menuSeed struct {
	ID          string
	ShopID      string
	Name        string
	Description string
	BasePrice   int64
	Groups      []groupSeed
	Open        bool
}

type groupSeed struct {
	ID       string
	Name     string
	Required bool
	Options  []domain.Option
}

// Apply inserts basic seed data for manual testing. Menu ids are fixed so
// re-running overwrites the same rows instead of piling up duplicates.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	repo := menurepo.NewPostgres(pool)

	seeds := []menuSeed{
		{
			ID:          "11111111-1111-4111-8111-111111111111",
			ShopID:      "demo-shop",
			Name:        "Fried Chicken",
			Description: "Crispy half chicken",
			BasePrice:   15900,
			Open:        true,
			Groups: []groupSeed{
				{
					ID:       "21111111-1111-4111-8111-111111111111",
					Name:     "Sauce",
					Required: true,
					Options: []domain.Option{
						{Name: "Soy Garlic", PriceCents: 1000},
						{Name: "Plain", PriceCents: 0},
					},
				},
				{
					ID:       "21111111-1111-4111-8111-111111111112",
					Name:     "Sides",
					Required: false,
					Options: []domain.Option{
						{Name: "Pickled Radish", PriceCents: 500},
					},
				},
			},
		},
		{
			ID:          "11111111-1111-4111-8111-111111111112",
			ShopID:      "demo-shop",
			Name:        "Bibimbap",
			Description: "Rice bowl with vegetables",
			BasePrice:   9500,
			Groups: []groupSeed{
				{
					ID:       "21111111-1111-4111-8111-111111111113",
					Name:     "Toppings",
					Required: true,
					Options: []domain.Option{
						{Name: "Fried Egg", PriceCents: 1000},
					},
				},
			},
		},
	}

	for _, s := range seeds {
		menu := &domain.Menu{
			ID:             s.ID,
			ShopID:         s.ShopID,
			Name:           s.Name,
			Description:    s.Description,
			BasePriceCents: s.BasePrice,
			IsOpen:         s.Open,
		}
		for _, g := range s.Groups {
			menu.OptionGroups = append(menu.OptionGroups, domain.OptionGroup{
				ID:       g.ID,
				Name:     g.Name,
				Required: g.Required,
				Options:  g.Options,
			})
		}
		if err := repo.Save(ctx, menu); err != nil {
			return fmt.Errorf("seed menu %s: %w", s.Name, err)
		}
	}
	return nil
}
