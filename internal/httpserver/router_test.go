package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"food-ordering/internal/domain"
	cartsvc "food-ordering/internal/service/cart"
	menusvc "food-ordering/internal/service/menu"
	"food-ordering/internal/shopapi"
	"github.com/gin-gonic/gin"
)

type stubCartService struct {
	cart   *domain.Cart
	order  *domain.Order
	orders []*domain.Order
	total  int
	err    error

	gotInput cartsvc.AddItemInput
}

func (s *stubCartService) AddItem(_ context.Context, in cartsvc.AddItemInput) (*domain.Cart, error) {
	s.gotInput = in
	return s.cart, s.err
}

func (s *stubCartService) RemoveItem(_ context.Context, _, _ string, _ []int) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) ChangeQuantity(_ context.Context, _, _ string, _ []int, _ int) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) Get(_ context.Context, _ string) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) PlaceOrder(_ context.Context, _ string) (*domain.Order, error) {
	return s.order, s.err
}

func (s *stubCartService) ListOrders(_ context.Context, _ string, _, _ int) ([]*domain.Order, int, error) {
	return s.orders, s.total, s.err
}

type stubMenuService struct {
	menu *domain.Menu
	list []*domain.Menu
	err  error
}

func (s *stubMenuService) Create(_ context.Context, _ menusvc.CreateMenuInput) (*domain.Menu, error) {
	return s.menu, s.err
}
func (s *stubMenuService) Get(_ context.Context, _ string) (*domain.Menu, error) {
	return s.menu, s.err
}
func (s *stubMenuService) ListByShop(_ context.Context, _ string) ([]*domain.Menu, error) {
	return s.list, s.err
}
func (s *stubMenuService) Open(_ context.Context, _ string) (*domain.Menu, error) {
	return s.menu, s.err
}
func (s *stubMenuService) AddOptionGroup(_ context.Context, _, _ string, _ bool) (*domain.Menu, error) {
	return s.menu, s.err
}
func (s *stubMenuService) AddOption(_ context.Context, _, _, _ string, _ int64) (*domain.Menu, error) {
	return s.menu, s.err
}
func (s *stubMenuService) RemoveOptionGroup(_ context.Context, _, _ string) (*domain.Menu, error) {
	return s.menu, s.err
}
func (s *stubMenuService) ChangeOptionGroupName(_ context.Context, _, _, _ string) (*domain.Menu, error) {
	return s.menu, s.err
}
func (s *stubMenuService) ChangeOptionName(_ context.Context, _, _, _ string, _ int64, _ string) (*domain.Menu, error) {
	return s.menu, s.err
}

func newTestRouter(carts CartService, menus MenuService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := log.New(new(bytes.Buffer), "", 0)
	return buildRouter(logger, nil, Deps{Carts: carts, Menus: menus}, "*")
}

func testCart() *domain.Cart {
	cart := domain.NewCart("user-1")
	if _, err := cart.AddItem("shop-1", "menu-a", []int{2, 1}, 2); err != nil {
		panic(err)
	}
	return cart
}

func testOrder() *domain.Order {
	cart := testCart()
	lookup := func(string) (domain.MenuSnapshot, error) {
		return domain.MenuSnapshot{
			Name:           "Ramen",
			BasePriceCents: 1000,
			Options: []domain.OptionSnapshot{
				{ID: 1, Name: "Egg", PriceCents: 200},
				{ID: 2, Name: "Noodles", PriceCents: 300},
			},
		}, nil
	}
	now := func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	ord, _, err := cart.PlaceOrder(lookup, now)
	if err != nil {
		panic(err)
	}
	return ord
}

func TestAddCartItem_Success(t *testing.T) {
	stub := &stubCartService{cart: testCart()}
	router := newTestRouter(stub, &stubMenuService{})

	body := `{"shopId":"shop-1","menuId":"menu-a","optionIds":[2,1],"quantity":2}`
	req := httptest.NewRequest(http.MethodPost, "/users/user-1/cart/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.gotInput.UserID != "user-1" || stub.gotInput.Quantity != 2 {
		t.Fatalf("unexpected service input %+v", stub.gotInput)
	}

	var resp cartResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ShopID != "shop-1" || len(resp.Items) != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestAddCartItem_MissingQuantity(t *testing.T) {
	router := newTestRouter(&stubCartService{}, &stubMenuService{})

	body := `{"shopId":"shop-1","menuId":"menu-a"}`
	req := httptest.NewRequest(http.MethodPost, "/users/user-1/cart/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestAddCartItem_ShopClosed(t *testing.T) {
	router := newTestRouter(&stubCartService{err: domain.ErrShopNotOpen}, &stubMenuService{})

	body := `{"shopId":"shop-1","menuId":"menu-a","quantity":1}`
	req := httptest.NewRequest(http.MethodPost, "/users/user-1/cart/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "SHOP_NOT_OPEN") {
		t.Fatalf("expected error code in body, got %s", rec.Body.String())
	}
}

func TestGetCart_NotFound(t *testing.T) {
	router := newTestRouter(&stubCartService{err: domain.ErrNotFound}, &stubMenuService{})

	req := httptest.NewRequest(http.MethodGet, "/users/user-1/cart", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestPlaceOrder_Success(t *testing.T) {
	router := newTestRouter(&stubCartService{order: testOrder()}, &stubMenuService{})

	req := httptest.NewRequest(http.MethodPost, "/users/user-1/orders", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp orderResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalPrice != 3000 {
		t.Fatalf("expected total 3000, got %d", resp.TotalPrice)
	}
	if len(resp.Items) != 1 || len(resp.Items[0].SelectedOptions) != 2 {
		t.Fatalf("unexpected items %+v", resp.Items)
	}
}

func TestPlaceOrder_UpstreamDown(t *testing.T) {
	upstreamErr := &shopapi.TransportError{Op: "shop facts", Err: errors.New("connection refused")}
	router := newTestRouter(&stubCartService{err: upstreamErr}, &stubMenuService{})

	req := httptest.NewRequest(http.MethodPost, "/users/user-1/orders", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", rec.Code)
	}
}

func TestListOrders_Envelope(t *testing.T) {
	router := newTestRouter(&stubCartService{orders: []*domain.Order{testOrder()}, total: 7}, &stubMenuService{})

	req := httptest.NewRequest(http.MethodGet, "/users/user-1/orders?limit=5&offset=5", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp orderListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Limit != 5 || resp.Offset != 5 || resp.Count != 1 || resp.Total != 7 {
		t.Fatalf("unexpected envelope %+v", resp)
	}
}

func TestOpenMenu_AlreadyOpen(t *testing.T) {
	router := newTestRouter(&stubCartService{}, &stubMenuService{err: domain.ErrMenuAlreadyOpen})

	req := httptest.NewRequest(http.MethodPost, "/menus/menu-1/open", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "MENU_ALREADY_OPEN") {
		t.Fatalf("expected error code in body, got %s", rec.Body.String())
	}
}

func TestCreateMenu_Success(t *testing.T) {
	m, err := domain.NewMenu("shop-1", "Katsu Curry", "pork cutlet", 1800)
	if err != nil {
		t.Fatalf("new menu: %v", err)
	}
	router := newTestRouter(&stubCartService{}, &stubMenuService{menu: m})

	body := `{"name":"Katsu Curry","description":"pork cutlet","basePrice":1800}`
	req := httptest.NewRequest(http.MethodPost, "/shops/shop-1/menus", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp menuResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Name != "Katsu Curry" || resp.IsOpen {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestGetMenu_WrongShop(t *testing.T) {
	m, err := domain.NewMenu("shop-1", "Katsu Curry", "", 1800)
	if err != nil {
		t.Fatalf("new menu: %v", err)
	}
	router := newTestRouter(&stubCartService{}, &stubMenuService{menu: m})

	req := httptest.NewRequest(http.MethodGet, "/shops/other-shop/menus/"+m.ID, nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(&stubCartService{}, &stubMenuService{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}
