package domain

// Event is a fact recorded by an aggregate mutation. Mutating methods return
// the event alongside the error so the orchestration layer can dispatch it
// after a successful persist; aggregates hold no hidden event queue.
type Event interface {
	EventName() string
}

type CartItemAdded struct {
	CartID   string
	UserID   string
	ShopID   string
	MenuID   string
	Quantity int
}

func (CartItemAdded) EventName() string { return "CartItemAdded" }

type OrderPlaced struct {
	OrderID         string
	UserID          string
	ShopID          string
	TotalPriceCents int64
}

func (OrderPlaced) EventName() string { return "OrderPlaced" }

type MenuOpened struct {
	MenuID      string
	ShopID      string
	Name        string
	Description string
}

func (MenuOpened) EventName() string { return "MenuOpened" }
