package httpserver

import (
	"time"

	"food-ordering/internal/domain"
)

type cartItemResponse struct {
	MenuID    string `json:"menuId"`
	OptionIDs []int  `json:"optionIds"`
	Quantity  int    `json:"quantity"`
}

type cartResponse struct {
	ID     string             `json:"id"`
	UserID string             `json:"userId"`
	ShopID string             `json:"shopId,omitempty"`
	Items  []cartItemResponse `json:"items"`
}

func toCartResponse(cart *domain.Cart) cartResponse {
	items := make([]cartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, cartItemResponse{
			MenuID:    item.MenuID,
			OptionIDs: item.OptionIDs,
			Quantity:  item.Quantity,
		})
	}
	return cartResponse{
		ID:     cart.ID,
		UserID: cart.UserID,
		ShopID: cart.ShopID,
		Items:  items,
	}
}

type selectedOptionResponse struct {
	OptionID int    `json:"optionId"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
}

type orderItemResponse struct {
	MenuID          string                   `json:"menuId"`
	MenuName        string                   `json:"menuName"`
	SelectedOptions []selectedOptionResponse `json:"selectedOptions"`
	Quantity        int                      `json:"quantity"`
	LinePrice       int64                    `json:"linePrice"`
}

type orderResponse struct {
	ID         string              `json:"id"`
	UserID     string              `json:"userId"`
	ShopID     string              `json:"shopId"`
	Items      []orderItemResponse `json:"items"`
	TotalPrice int64               `json:"totalPrice"`
	OrderTime  time.Time           `json:"orderTime"`
}

func toOrderResponse(ord *domain.Order) orderResponse {
	lines := ord.Items()
	items := make([]orderItemResponse, 0, len(lines))
	for _, line := range lines {
		opts := make([]selectedOptionResponse, 0, len(line.SelectedOptions))
		for _, o := range line.SelectedOptions {
			opts = append(opts, selectedOptionResponse{OptionID: o.OptionID, Name: o.Name, Price: o.PriceCents})
		}
		items = append(items, orderItemResponse{
			MenuID:          line.MenuID,
			MenuName:        line.MenuName,
			SelectedOptions: opts,
			Quantity:        line.Quantity,
			LinePrice:       line.LinePriceCents,
		})
	}
	return orderResponse{
		ID:         ord.ID(),
		UserID:     ord.UserID(),
		ShopID:     ord.ShopID(),
		Items:      items,
		TotalPrice: ord.TotalPriceCents(),
		OrderTime:  ord.OrderTime(),
	}
}

type orderListResponse struct {
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
	Count   int             `json:"count"`
	Total   int             `json:"total"`
	Results []orderResponse `json:"results"`
}

func toOrderListResponse(orders []*domain.Order, limit, offset, total int) orderListResponse {
	results := make([]orderResponse, 0, len(orders))
	for _, ord := range orders {
		results = append(results, toOrderResponse(ord))
	}
	return orderListResponse{
		Limit:   limit,
		Offset:  offset,
		Count:   len(results),
		Total:   total,
		Results: results,
	}
}

type optionResponse struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type optionGroupResponse struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Required bool             `json:"required"`
	Options  []optionResponse `json:"options"`
}

type menuResponse struct {
	ID           string                `json:"id"`
	ShopID       string                `json:"shopId"`
	Name         string                `json:"name"`
	Description  string                `json:"description,omitempty"`
	BasePrice    int64                 `json:"basePrice"`
	IsOpen       bool                  `json:"isOpen"`
	OptionGroups []optionGroupResponse `json:"optionGroups"`
}

func toMenuResponse(m *domain.Menu) menuResponse {
	groups := make([]optionGroupResponse, 0, len(m.OptionGroups))
	for _, g := range m.OptionGroups {
		opts := make([]optionResponse, 0, len(g.Options))
		for _, o := range g.Options {
			opts = append(opts, optionResponse{Name: o.Name, Price: o.PriceCents})
		}
		groups = append(groups, optionGroupResponse{
			ID:       g.ID,
			Name:     g.Name,
			Required: g.Required,
			Options:  opts,
		})
	}
	return menuResponse{
		ID:           m.ID,
		ShopID:       m.ShopID,
		Name:         m.Name,
		Description:  m.Description,
		BasePrice:    m.BasePriceCents,
		IsOpen:       m.IsOpen,
		OptionGroups: groups,
	}
}
