package domain

import (
	"slices"

	"github.com/google/uuid"
)

// CartItem is one line of a cart. MenuID plus the sorted OptionIDs form the
// merge key: two additions sharing the key collapse into a single line.
type CartItem struct {
	MenuID    string
	OptionIDs []int
	Quantity  int
}

// Cart accumulates menu selections for a single user. All items belong to the
// same shop; ShopID is empty until the first item is added and after Clear.
type Cart struct {
	ID     string
	UserID string
	ShopID string
	Items  []CartItem
}

func NewCart(userID string) *Cart {
	return &Cart{
		ID:     uuid.NewString(),
		UserID: userID,
	}
}

// AddItem merges the selection into the cart. Adding an item from a different
// shop discards the whole cart and starts over with the new item. The returned
// event carries the added quantity, not the merged total.
func (c *Cart) AddItem(shopID, menuID string, optionIDs []int, quantity int) (CartItemAdded, error) {
	if shopID == "" {
		return CartItemAdded{}, ErrInvalidShopID
	}
	if menuID == "" {
		return CartItemAdded{}, ErrInvalidMenuID
	}
	if quantity <= 0 {
		return CartItemAdded{}, ErrInvalidQuantity
	}

	item := CartItem{
		MenuID:    menuID,
		OptionIDs: sortedOptionIDs(optionIDs),
		Quantity:  quantity,
	}

	if c.ShopID != shopID {
		c.ShopID = shopID
		c.Items = []CartItem{item}
	} else if idx := c.findItem(menuID, item.OptionIDs); idx >= 0 {
		c.Items[idx].Quantity += quantity
	} else {
		c.Items = append(c.Items, item)
	}

	return CartItemAdded{
		CartID:   c.ID,
		UserID:   c.UserID,
		ShopID:   shopID,
		MenuID:   menuID,
		Quantity: quantity,
	}, nil
}

// RemoveItem drops the line matching the merge key. Removing an absent line
// is a no-op.
func (c *Cart) RemoveItem(menuID string, optionIDs []int) {
	idx := c.findItem(menuID, sortedOptionIDs(optionIDs))
	if idx < 0 {
		return
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
}

// ChangeQuantity sets the quantity of an existing line. Zero or negative
// quantities are rejected, not treated as removal.
func (c *Cart) ChangeQuantity(menuID string, optionIDs []int, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	idx := c.findItem(menuID, sortedOptionIDs(optionIDs))
	if idx < 0 {
		return ErrCartItemNotFound
	}
	c.Items[idx].Quantity = quantity
	return nil
}

// Clear empties the cart and detaches it from its shop.
func (c *Cart) Clear() {
	c.Items = nil
	c.ShopID = ""
}

// PlaceOrder freezes the cart into an immutable Order priced through lookup
// and clears the cart. The clear only happens when the snapshot succeeds.
func (c *Cart) PlaceOrder(lookup PriceLookup, now OrderClock) (*Order, OrderPlaced, error) {
	if len(c.Items) == 0 {
		return nil, OrderPlaced{}, ErrEmptyCart
	}
	order, event, err := OrderFromCart(c, lookup, now)
	if err != nil {
		return nil, OrderPlaced{}, err
	}
	c.Clear()
	return order, event, nil
}

func (c *Cart) findItem(menuID string, sortedIDs []int) int {
	for i, item := range c.Items {
		if item.MenuID == menuID && slices.Equal(item.OptionIDs, sortedIDs) {
			return i
		}
	}
	return -1
}

func sortedOptionIDs(ids []int) []int {
	out := slices.Clone(ids)
	slices.Sort(out)
	return out
}
