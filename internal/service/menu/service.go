package menu

import (
	"context"
	"fmt"

	"food-ordering/internal/domain"
)

// Repository loads and stores menu aggregates with their option groups.
type Repository interface {
	Get(ctx context.Context, menuID string) (*domain.Menu, error)
	ListByShop(ctx context.Context, shopID string) ([]*domain.Menu, error)
	Save(ctx context.Context, menu *domain.Menu) error
}

type EventDispatcher interface {
	Dispatch(ctx context.Context, event domain.Event)
}

type Service struct {
	menus  Repository
	events EventDispatcher
}

func New(menus Repository, events EventDispatcher) *Service {
	return &Service{menus: menus, events: events}
}

type CreateMenuInput struct {
	ShopID         string
	Name           string
	Description    string
	BasePriceCents int64
}

func (s *Service) Create(ctx context.Context, in CreateMenuInput) (*domain.Menu, error) {
	menu, err := domain.NewMenu(in.ShopID, in.Name, in.Description, in.BasePriceCents)
	if err != nil {
		return nil, err
	}
	if err := s.menus.Save(ctx, menu); err != nil {
		return nil, fmt.Errorf("save menu: %w", err)
	}
	return menu, nil
}

func (s *Service) Get(ctx context.Context, menuID string) (*domain.Menu, error) {
	return s.menus.Get(ctx, menuID)
}

func (s *Service) ListByShop(ctx context.Context, shopID string) ([]*domain.Menu, error) {
	return s.menus.ListByShop(ctx, shopID)
}

// Open publishes the menu. The MenuOpened event goes out only after the
// state change is persisted.
func (s *Service) Open(ctx context.Context, menuID string) (*domain.Menu, error) {
	menu, err := s.menus.Get(ctx, menuID)
	if err != nil {
		return nil, err
	}
	event, err := menu.Open()
	if err != nil {
		return nil, err
	}
	if err := s.menus.Save(ctx, menu); err != nil {
		return nil, fmt.Errorf("save menu: %w", err)
	}
	s.events.Dispatch(ctx, event)
	return menu, nil
}

func (s *Service) AddOptionGroup(ctx context.Context, menuID, name string, required bool) (*domain.Menu, error) {
	return s.mutate(ctx, menuID, func(menu *domain.Menu) error {
		_, err := menu.AddOptionGroup(name, required)
		return err
	})
}

func (s *Service) AddOption(ctx context.Context, menuID, groupID, name string, priceCents int64) (*domain.Menu, error) {
	return s.mutate(ctx, menuID, func(menu *domain.Menu) error {
		return menu.AddOption(groupID, name, priceCents)
	})
}

func (s *Service) RemoveOptionGroup(ctx context.Context, menuID, groupID string) (*domain.Menu, error) {
	return s.mutate(ctx, menuID, func(menu *domain.Menu) error {
		return menu.RemoveOptionGroup(groupID)
	})
}

func (s *Service) ChangeOptionGroupName(ctx context.Context, menuID, groupID, newName string) (*domain.Menu, error) {
	return s.mutate(ctx, menuID, func(menu *domain.Menu) error {
		return menu.ChangeOptionGroupName(groupID, newName)
	})
}

func (s *Service) ChangeOptionName(ctx context.Context, menuID, groupID, currentName string, currentPriceCents int64, newName string) (*domain.Menu, error) {
	return s.mutate(ctx, menuID, func(menu *domain.Menu) error {
		return menu.ChangeOptionName(groupID, currentName, currentPriceCents, newName)
	})
}

// mutate is the shared load-mutate-save pipeline for option-group edits;
// none of these edits emit events.
func (s *Service) mutate(ctx context.Context, menuID string, fn func(*domain.Menu) error) (*domain.Menu, error) {
	menu, err := s.menus.Get(ctx, menuID)
	if err != nil {
		return nil, err
	}
	if err := fn(menu); err != nil {
		return nil, err
	}
	if err := s.menus.Save(ctx, menu); err != nil {
		return nil, fmt.Errorf("save menu: %w", err)
	}
	return menu, nil
}
