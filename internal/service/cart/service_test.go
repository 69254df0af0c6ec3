package cart

import (
	"context"
	"errors"
	"testing"

	"food-ordering/internal/domain"
	"food-ordering/internal/shopapi"
)

type stubCartRepo struct {
	cart    *domain.Cart
	getErr  error
	saveErr error
	saved   *domain.Cart
}

func (s *stubCartRepo) GetByUser(_ context.Context, _ string) (*domain.Cart, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.cart, nil
}

func (s *stubCartRepo) Save(_ context.Context, cart *domain.Cart) error {
	s.saved = cart
	return s.saveErr
}

type stubOrderStore struct {
	savedOrder *domain.Order
	savedCart  *domain.Cart
	saveErr    error
}

func (s *stubOrderStore) SaveWithCart(_ context.Context, order *domain.Order, cart *domain.Cart) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.savedOrder = order
	s.savedCart = cart
	return nil
}

func (s *stubOrderStore) ListByUser(_ context.Context, _ string, _, _ int) ([]*domain.Order, int, error) {
	return nil, 0, nil
}

type stubFacts struct {
	userValid bool
	userErr   error
	shop      shopapi.ShopFacts
	shopErr   error
	menus     map[string]shopapi.MenuFacts
	menuErr   error
	menuCalls int
}

func (s *stubFacts) UserIsValid(_ context.Context, _ string) (bool, error) {
	return s.userValid, s.userErr
}

func (s *stubFacts) ShopFacts(_ context.Context, _ string) (shopapi.ShopFacts, error) {
	return s.shop, s.shopErr
}

func (s *stubFacts) MenuFacts(_ context.Context, _, menuID string) (shopapi.MenuFacts, error) {
	s.menuCalls++
	if s.menuErr != nil {
		return shopapi.MenuFacts{}, s.menuErr
	}
	facts, ok := s.menus[menuID]
	if !ok {
		return shopapi.MenuFacts{}, shopapi.ErrNotFound
	}
	return facts, nil
}

type recordingDispatcher struct {
	events []domain.Event
}

func (d *recordingDispatcher) Dispatch(_ context.Context, event domain.Event) {
	d.events = append(d.events, event)
}

func openShopFacts() *stubFacts {
	return &stubFacts{
		userValid: true,
		shop:      shopapi.ShopFacts{Open: true},
		menus: map[string]shopapi.MenuFacts{
			"menu-a": {
				ID:             "menu-a",
				Name:           "Fried Chicken",
				BasePriceCents: 1500,
				Open:           true,
				Options: []shopapi.Option{
					{ID: 1, Name: "Large", PriceCents: 500},
					{ID: 2, Name: "Spicy", PriceCents: 0},
				},
			},
		},
	}
}

func TestAddItem_NewCart(t *testing.T) {
	repo := &stubCartRepo{getErr: domain.ErrNotFound}
	dispatcher := &recordingDispatcher{}
	svc := New(repo, &stubOrderStore{}, openShopFacts(), dispatcher)

	cart, err := svc.AddItem(context.Background(), AddItemInput{
		UserID: "user-1", ShopID: "shop-1", MenuID: "menu-a", OptionIDs: []int{2, 1}, Quantity: 2,
	})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if repo.saved != cart {
		t.Fatal("cart must be persisted")
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Fatalf("unexpected cart %+v", cart.Items)
	}
	if len(dispatcher.events) != 1 {
		t.Fatalf("expected one event, got %d", len(dispatcher.events))
	}
	added, ok := dispatcher.events[0].(domain.CartItemAdded)
	if !ok || added.Quantity != 2 || added.MenuID != "menu-a" {
		t.Fatalf("unexpected event %+v", dispatcher.events[0])
	}
}

func TestAddItem_InvalidUserAbortsBeforeMutation(t *testing.T) {
	repo := &stubCartRepo{getErr: domain.ErrNotFound}
	facts := openShopFacts()
	facts.userValid = false
	svc := New(repo, &stubOrderStore{}, facts, &recordingDispatcher{})

	_, err := svc.AddItem(context.Background(), AddItemInput{
		UserID: "ghost", ShopID: "shop-1", MenuID: "menu-a", Quantity: 1,
	})
	if !errors.Is(err, domain.ErrInvalidUserID) {
		t.Fatalf("expected INVALID_USER_ID, got %v", err)
	}
	if repo.saved != nil {
		t.Fatal("no persist on validation failure")
	}
}

func TestAddItem_ClosedShop(t *testing.T) {
	facts := openShopFacts()
	facts.shop = shopapi.ShopFacts{Open: false}
	svc := New(&stubCartRepo{getErr: domain.ErrNotFound}, &stubOrderStore{}, facts, &recordingDispatcher{})

	_, err := svc.AddItem(context.Background(), AddItemInput{
		UserID: "user-1", ShopID: "shop-1", MenuID: "menu-a", Quantity: 1,
	})
	if !errors.Is(err, domain.ErrShopNotOpen) {
		t.Fatalf("expected SHOP_NOT_OPEN, got %v", err)
	}
}

func TestAddItem_UnknownMenuAndOption(t *testing.T) {
	svc := New(&stubCartRepo{getErr: domain.ErrNotFound}, &stubOrderStore{}, openShopFacts(), &recordingDispatcher{})

	_, err := svc.AddItem(context.Background(), AddItemInput{
		UserID: "user-1", ShopID: "shop-1", MenuID: "menu-x", Quantity: 1,
	})
	if !errors.Is(err, domain.ErrMenuNotFound) {
		t.Fatalf("expected MENU_NOT_FOUND, got %v", err)
	}

	_, err = svc.AddItem(context.Background(), AddItemInput{
		UserID: "user-1", ShopID: "shop-1", MenuID: "menu-a", OptionIDs: []int{9}, Quantity: 1,
	})
	if !errors.Is(err, domain.ErrOptionNotFound) {
		t.Fatalf("expected OPTION_NOT_FOUND, got %v", err)
	}
}

func TestAddItem_TransportFailurePropagates(t *testing.T) {
	facts := openShopFacts()
	facts.shopErr = &shopapi.TransportError{Op: "GET /shops/shop-1", Status: 502}
	svc := New(&stubCartRepo{getErr: domain.ErrNotFound}, &stubOrderStore{}, facts, &recordingDispatcher{})

	_, err := svc.AddItem(context.Background(), AddItemInput{
		UserID: "user-1", ShopID: "shop-1", MenuID: "menu-a", Quantity: 1,
	})
	var te *shopapi.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("transport failures must stay distinguishable, got %v", err)
	}
	var de *domain.Error
	if errors.As(err, &de) {
		t.Fatalf("transport failure must not be coerced into a domain fault: %v", err)
	}
}

func TestPlaceOrder_HappyPath(t *testing.T) {
	cart := domain.NewCart("user-1")
	if _, err := cart.AddItem("shop-1", "menu-a", []int{1}, 2); err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	repo := &stubCartRepo{cart: cart}
	store := &stubOrderStore{}
	dispatcher := &recordingDispatcher{}
	svc := New(repo, store, openShopFacts(), dispatcher)

	order, err := svc.PlaceOrder(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	// (1500 + 500) * 2
	if order.TotalPriceCents() != 4000 {
		t.Fatalf("expected total 4000, got %d", order.TotalPriceCents())
	}
	if store.savedOrder != order {
		t.Fatal("order must be persisted")
	}
	if store.savedCart == nil || len(store.savedCart.Items) != 0 {
		t.Fatal("cleared cart must be persisted with the order")
	}
	if len(dispatcher.events) != 1 {
		t.Fatalf("expected one OrderPlaced event, got %d", len(dispatcher.events))
	}
	placed, ok := dispatcher.events[0].(domain.OrderPlaced)
	if !ok || placed.OrderID != order.ID() || placed.TotalPriceCents != 4000 {
		t.Fatalf("unexpected event %+v", dispatcher.events[0])
	}
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	store := &stubOrderStore{}
	svc := New(&stubCartRepo{cart: domain.NewCart("user-1")}, store, openShopFacts(), &recordingDispatcher{})

	_, err := svc.PlaceOrder(context.Background(), "user-1")
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected EMPTY_CART, got %v", err)
	}
	if store.savedOrder != nil {
		t.Fatal("no order may persist for an empty cart")
	}

	svc = New(&stubCartRepo{getErr: domain.ErrNotFound}, store, openShopFacts(), &recordingDispatcher{})
	if _, err := svc.PlaceOrder(context.Background(), "user-1"); !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("missing cart reads as empty, got %v", err)
	}
}

func TestPlaceOrder_ShopClosedAtPlacement(t *testing.T) {
	cart := domain.NewCart("user-1")
	if _, err := cart.AddItem("shop-1", "menu-a", nil, 1); err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	facts := openShopFacts()
	facts.shop = shopapi.ShopFacts{Open: false}
	svc := New(&stubCartRepo{cart: cart}, &stubOrderStore{}, facts, &recordingDispatcher{})

	if _, err := svc.PlaceOrder(context.Background(), "user-1"); !errors.Is(err, domain.ErrShopNotOpen) {
		t.Fatalf("expected SHOP_NOT_OPEN, got %v", err)
	}
}

func TestPlaceOrder_MinimumOrderAmount(t *testing.T) {
	cart := domain.NewCart("user-1")
	if _, err := cart.AddItem("shop-1", "menu-a", nil, 1); err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	facts := openShopFacts()
	facts.shop = shopapi.ShopFacts{Open: true, MinOrderAmountCents: 99999}
	store := &stubOrderStore{}
	svc := New(&stubCartRepo{cart: cart}, store, facts, &recordingDispatcher{})

	if _, err := svc.PlaceOrder(context.Background(), "user-1"); !errors.Is(err, domain.ErrMinimumOrderAmount) {
		t.Fatalf("expected MINIMUM_ORDER_AMOUNT_NOT_MET, got %v", err)
	}
	if store.savedOrder != nil {
		t.Fatal("order below the minimum must not persist")
	}
}

func TestPlaceOrder_DispatchOnlyAfterPersist(t *testing.T) {
	cart := domain.NewCart("user-1")
	if _, err := cart.AddItem("shop-1", "menu-a", nil, 1); err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	store := &stubOrderStore{saveErr: errors.New("db down")}
	dispatcher := &recordingDispatcher{}
	svc := New(&stubCartRepo{cart: cart}, store, openShopFacts(), dispatcher)

	if _, err := svc.PlaceOrder(context.Background(), "user-1"); err == nil {
		t.Fatal("expected persist failure")
	}
	if len(dispatcher.events) != 0 {
		t.Fatal("no events may be dispatched when the persist fails")
	}
}

func TestRemoveItem_AbsentLineIsNoop(t *testing.T) {
	cart := domain.NewCart("user-1")
	if _, err := cart.AddItem("shop-1", "menu-a", []int{1}, 1); err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	repo := &stubCartRepo{cart: cart}
	svc := New(repo, &stubOrderStore{}, openShopFacts(), &recordingDispatcher{})

	out, err := svc.RemoveItem(context.Background(), "user-1", "menu-z", nil)
	if err != nil {
		t.Fatalf("remove absent line: %v", err)
	}
	if len(out.Items) != 1 {
		t.Fatalf("cart must be untouched, got %+v", out.Items)
	}
	if repo.saved == nil {
		t.Fatal("idempotent save still expected")
	}
}

func TestChangeQuantity_Errors(t *testing.T) {
	cart := domain.NewCart("user-1")
	if _, err := cart.AddItem("shop-1", "menu-a", []int{1}, 1); err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	svc := New(&stubCartRepo{cart: cart}, &stubOrderStore{}, openShopFacts(), &recordingDispatcher{})

	if _, err := svc.ChangeQuantity(context.Background(), "user-1", "menu-a", []int{1}, 0); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("expected INVALID_QUANTITY, got %v", err)
	}
	if _, err := svc.ChangeQuantity(context.Background(), "user-1", "menu-z", nil, 2); !errors.Is(err, domain.ErrCartItemNotFound) {
		t.Fatalf("expected CART_NOT_FOUND, got %v", err)
	}
	if _, err := svc.ChangeQuantity(context.Background(), "user-1", "menu-a", []int{1}, 3); err != nil {
		t.Fatalf("change quantity: %v", err)
	}
}
