package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"food-ordering/internal/domain"
	"food-ordering/internal/shopapi"
	"golang.org/x/sync/errgroup"
)

// Repository loads and stores cart aggregates, one per user.
type Repository interface {
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
}

// OrderStore persists a placed order together with the cleared cart in a
// single transaction, and serves the order history projection.
type OrderStore interface {
	SaveWithCart(ctx context.Context, order *domain.Order, cart *domain.Cart) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Order, int, error)
}

// FactProvider reads externally owned facts. Implemented by shopapi.Client.
type FactProvider interface {
	UserIsValid(ctx context.Context, userID string) (bool, error)
	ShopFacts(ctx context.Context, shopID string) (shopapi.ShopFacts, error)
	MenuFacts(ctx context.Context, shopID, menuID string) (shopapi.MenuFacts, error)
}

// EventDispatcher hands domain events to the outside world after a
// successful persist.
type EventDispatcher interface {
	Dispatch(ctx context.Context, event domain.Event)
}

const maxPricingConcurrency = 8

type Service struct {
	carts  Repository
	orders OrderStore
	facts  FactProvider
	events EventDispatcher
	now    func() time.Time
}

func New(carts Repository, orders OrderStore, facts FactProvider, events EventDispatcher) *Service {
	return &Service{
		carts:  carts,
		orders: orders,
		facts:  facts,
		events: events,
		now:    time.Now,
	}
}

type AddItemInput struct {
	UserID    string
	ShopID    string
	MenuID    string
	OptionIDs []int
	Quantity  int
}

// AddItem runs the full write pipeline: external validation, cart mutation,
// persist, event dispatch. Any validation failure aborts before the cart is
// touched.
func (s *Service) AddItem(ctx context.Context, in AddItemInput) (*domain.Cart, error) {
	if err := s.checkUser(ctx, in.UserID); err != nil {
		return nil, err
	}
	if err := s.checkShopOpen(ctx, in.ShopID); err != nil {
		return nil, err
	}

	menu, err := s.facts.MenuFacts(ctx, in.ShopID, in.MenuID)
	if err != nil {
		if errors.Is(err, shopapi.ErrNotFound) {
			return nil, domain.ErrMenuNotFound
		}
		return nil, fmt.Errorf("fetch menu facts: %w", err)
	}
	if !menu.Open {
		return nil, domain.ErrMenuNotFound
	}
	for _, id := range in.OptionIDs {
		if id < 1 || id > len(menu.Options) {
			return nil, domain.ErrOptionNotFound
		}
	}

	cart, err := s.loadOrCreateCart(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	event, err := cart.AddItem(in.ShopID, in.MenuID, in.OptionIDs, in.Quantity)
	if err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	s.events.Dispatch(ctx, event)
	return cart, nil
}

// RemoveItem drops a line by merge key; removing an absent line leaves the
// cart untouched but still succeeds.
func (s *Service) RemoveItem(ctx context.Context, userID, menuID string, optionIDs []int) (*domain.Cart, error) {
	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.RemoveItem(menuID, optionIDs)
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return cart, nil
}

func (s *Service) ChangeQuantity(ctx context.Context, userID, menuID string, optionIDs []int, quantity int) (*domain.Cart, error) {
	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := cart.ChangeQuantity(menuID, optionIDs, quantity); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return cart, nil
}

func (s *Service) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.carts.GetByUser(ctx, userID)
}

// PlaceOrder freezes the user's cart into an order. Shop openness and the
// minimum order amount are re-checked at placement; the order and the
// cleared cart are persisted in one transaction.
func (s *Service) PlaceOrder(ctx context.Context, userID string) (*domain.Order, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}

	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEmptyCart
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	shop, err := s.facts.ShopFacts(ctx, cart.ShopID)
	if err != nil {
		return nil, fmt.Errorf("fetch shop facts: %w", err)
	}
	if !shop.Open {
		return nil, domain.ErrShopNotOpen
	}

	lookup, err := s.snapshotMenus(ctx, cart)
	if err != nil {
		return nil, err
	}

	order, event, err := cart.PlaceOrder(lookup, s.now)
	if err != nil {
		return nil, err
	}
	if order.TotalPriceCents() < shop.MinOrderAmountCents {
		return nil, domain.ErrMinimumOrderAmount
	}

	if err := s.orders.SaveWithCart(ctx, order, cart); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}
	s.events.Dispatch(ctx, event)
	return order, nil
}

func (s *Service) ListOrders(ctx context.Context, userID string, limit, offset int) ([]*domain.Order, int, error) {
	return s.orders.ListByUser(ctx, userID, limit, offset)
}

// snapshotMenus prefetches pricing facts for every distinct menu in the cart
// concurrently and returns a lookup over the prefetched map, so the domain
// snapshot itself stays free of I/O.
func (s *Service) snapshotMenus(ctx context.Context, cart *domain.Cart) (domain.PriceLookup, error) {
	menuIDs := make([]string, 0, len(cart.Items))
	seen := make(map[string]bool, len(cart.Items))
	for _, item := range cart.Items {
		if !seen[item.MenuID] {
			seen[item.MenuID] = true
			menuIDs = append(menuIDs, item.MenuID)
		}
	}

	snapshots := make([]domain.MenuSnapshot, len(menuIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxPricingConcurrency)
	for idx, menuID := range menuIDs {
		g.Go(func() error {
			facts, err := s.facts.MenuFacts(gctx, cart.ShopID, menuID)
			if err != nil {
				if errors.Is(err, shopapi.ErrNotFound) {
					return domain.ErrMenuNotFound
				}
				return fmt.Errorf("fetch menu %s: %w", menuID, err)
			}
			options := make([]domain.OptionSnapshot, 0, len(facts.Options))
			for _, opt := range facts.Options {
				options = append(options, domain.OptionSnapshot{ID: opt.ID, Name: opt.Name, PriceCents: opt.PriceCents})
			}
			snapshots[idx] = domain.MenuSnapshot{
				Name:           facts.Name,
				BasePriceCents: facts.BasePriceCents,
				Options:        options,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[string]domain.MenuSnapshot, len(menuIDs))
	for i, menuID := range menuIDs {
		byID[menuID] = snapshots[i]
	}
	return func(menuID string) (domain.MenuSnapshot, error) {
		snap, ok := byID[menuID]
		if !ok {
			return domain.MenuSnapshot{}, domain.ErrMenuNotFound
		}
		return snap, nil
	}, nil
}

func (s *Service) checkUser(ctx context.Context, userID string) error {
	ok, err := s.facts.UserIsValid(ctx, userID)
	if err != nil {
		return fmt.Errorf("validate user: %w", err)
	}
	if !ok {
		return domain.ErrInvalidUserID
	}
	return nil
}

func (s *Service) checkShopOpen(ctx context.Context, shopID string) error {
	shop, err := s.facts.ShopFacts(ctx, shopID)
	if err != nil {
		return fmt.Errorf("fetch shop facts: %w", err)
	}
	if !shop.Open {
		return domain.ErrShopNotOpen
	}
	return nil
}

func (s *Service) loadOrCreateCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewCart(userID), nil
		}
		return nil, err
	}
	return cart, nil
}
