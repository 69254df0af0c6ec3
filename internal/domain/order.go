package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MenuSnapshot is the pricing view of a menu at one instant, resolved from
// externally owned facts. Option ids are positional over the menu's flattened
// option list.
type MenuSnapshot struct {
	Name           string
	BasePriceCents int64
	Options        []OptionSnapshot
}

type OptionSnapshot struct {
	ID         int
	Name       string
	PriceCents int64
}

// PriceLookup resolves the snapshot for a menu at order-placement time. This
// is the only point where menu pricing is read for order purposes.
type PriceLookup func(menuID string) (MenuSnapshot, error)

// OrderClock stamps the order time; injectable so tests control it.
type OrderClock func() time.Time

type SelectedOption struct {
	OptionID   int
	Name       string
	PriceCents int64
}

type OrderLineItem struct {
	MenuID          string
	MenuName        string
	SelectedOptions []SelectedOption
	Quantity        int
	LinePriceCents  int64
}

// Order is a frozen purchase record. All fields are set once at construction
// and exposed read-only; later menu edits never change an existing order.
type Order struct {
	id              string
	userID          string
	shopID          string
	items           []OrderLineItem
	totalPriceCents int64
	orderTime       time.Time
}

func (o *Order) ID() string             { return o.id }
func (o *Order) UserID() string         { return o.userID }
func (o *Order) ShopID() string         { return o.shopID }
func (o *Order) TotalPriceCents() int64 { return o.totalPriceCents }
func (o *Order) OrderTime() time.Time   { return o.orderTime }

// Items returns a copy so callers cannot reach into the snapshot.
func (o *Order) Items() []OrderLineItem {
	out := make([]OrderLineItem, len(o.items))
	copy(out, o.items)
	return out
}

// OrderFromCart snapshots the cart into a new Order. Every line is priced
// through lookup at this moment: linePrice = (basePrice + option prices) x
// quantity.
func OrderFromCart(cart *Cart, lookup PriceLookup, now OrderClock) (*Order, OrderPlaced, error) {
	if cart == nil || len(cart.Items) == 0 {
		return nil, OrderPlaced{}, ErrEmptyOrderItems
	}
	if cart.UserID == "" {
		return nil, OrderPlaced{}, ErrInvalidUserID
	}
	if cart.ShopID == "" {
		return nil, OrderPlaced{}, ErrInvalidShopID
	}

	items := make([]OrderLineItem, 0, len(cart.Items))
	var total int64
	for _, ci := range cart.Items {
		snap, err := lookup(ci.MenuID)
		if err != nil {
			return nil, OrderPlaced{}, fmt.Errorf("price menu %s: %w", ci.MenuID, err)
		}

		unit := snap.BasePriceCents
		selected := make([]SelectedOption, 0, len(ci.OptionIDs))
		for _, optID := range ci.OptionIDs {
			opt, ok := findOption(snap.Options, optID)
			if !ok {
				return nil, OrderPlaced{}, fmt.Errorf("menu %s has no option %d: %w", ci.MenuID, optID, ErrNotFound)
			}
			unit += opt.PriceCents
			selected = append(selected, SelectedOption{
				OptionID:   opt.ID,
				Name:       opt.Name,
				PriceCents: opt.PriceCents,
			})
		}

		linePrice := unit * int64(ci.Quantity)
		total += linePrice
		items = append(items, OrderLineItem{
			MenuID:          ci.MenuID,
			MenuName:        snap.Name,
			SelectedOptions: selected,
			Quantity:        ci.Quantity,
			LinePriceCents:  linePrice,
		})
	}

	order := &Order{
		id:              uuid.NewString(),
		userID:          cart.UserID,
		shopID:          cart.ShopID,
		items:           items,
		totalPriceCents: total,
		orderTime:       now(),
	}
	event := OrderPlaced{
		OrderID:         order.id,
		UserID:          order.userID,
		ShopID:          order.shopID,
		TotalPriceCents: order.totalPriceCents,
	}
	return order, event, nil
}

// OrderRecord carries persisted order state for reconstruction. Repository
// use only; the application layer never builds orders from it.
type OrderRecord struct {
	ID              string
	UserID          string
	ShopID          string
	Items           []OrderLineItem
	TotalPriceCents int64
	OrderTime       time.Time
}

// RebuildOrder reconstructs an Order from storage without re-pricing.
func RebuildOrder(rec OrderRecord) *Order {
	return &Order{
		id:              rec.ID,
		userID:          rec.UserID,
		shopID:          rec.ShopID,
		items:           rec.Items,
		totalPriceCents: rec.TotalPriceCents,
		orderTime:       rec.OrderTime,
	}
}

func findOption(opts []OptionSnapshot, id int) (OptionSnapshot, bool) {
	for _, o := range opts {
		if o.ID == id {
			return o, true
		}
	}
	return OptionSnapshot{}, false
}
