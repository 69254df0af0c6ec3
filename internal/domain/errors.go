package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
)

// Error is a business-rule violation carrying a stable code. Handlers map
// codes to HTTP statuses; transport failures never use this type.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Cart family.
var (
	ErrCartItemNotFound   = &Error{Code: "CART_NOT_FOUND", Message: "cart does not contain the requested item"}
	ErrDifferentShopMenu  = &Error{Code: "DIFFERENT_SHOP_MENU", Message: "menu belongs to a different shop"}
	ErrEmptyCart          = &Error{Code: "EMPTY_CART", Message: "cart has no items"}
	ErrMinimumOrderAmount = &Error{Code: "MINIMUM_ORDER_AMOUNT_NOT_MET", Message: "order total is below the shop minimum"}
	ErrInvalidMenuID      = &Error{Code: "INVALID_MENU_ID", Message: "menu id must not be empty"}
	ErrInvalidQuantity    = &Error{Code: "INVALID_QUANTITY", Message: "quantity must be at least 1"}
	ErrShopNotOpen        = &Error{Code: "SHOP_NOT_OPEN", Message: "shop is not open"}
)

// Order family.
var (
	ErrEmptyOrderItems = &Error{Code: "EMPTY_ORDER_ITEMS", Message: "order must contain at least one item"}
	ErrInvalidUserID   = &Error{Code: "INVALID_USER_ID", Message: "user id is missing or unknown"}
	ErrInvalidShopID   = &Error{Code: "INVALID_SHOP_ID", Message: "shop id must not be empty"}
)

// Menu family.
var (
	ErrMenuNotFound              = &Error{Code: "MENU_NOT_FOUND", Message: "menu does not exist"}
	ErrDuplicateOptionGroupName  = &Error{Code: "DUPLICATE_OPTION_GROUP_NAME", Message: "option group name already exists on this menu"}
	ErrMaxRequiredOptionGroups   = &Error{Code: "MAX_REQUIRED_OPTION_GROUPS_EXCEEDED", Message: "an open menu may have at most 3 required option groups"}
	ErrInsufficientOptionGroups  = &Error{Code: "INSUFFICIENT_OPTION_GROUPS", Message: "menu needs at least one option group to open"}
	ErrInvalidRequiredGroupCount = &Error{Code: "INVALID_REQUIRED_OPTION_GROUP_COUNT", Message: "menu needs between 1 and 3 required option groups to open"}
	ErrNoPaidOptionGroup         = &Error{Code: "NO_PAID_OPTION_GROUP", Message: "menu needs at least one option group with a paid option to open"}
	ErrMenuAlreadyOpen           = &Error{Code: "MENU_ALREADY_OPEN", Message: "menu is already open"}
	ErrCannotDeleteRequiredGroup = &Error{Code: "CANNOT_DELETE_REQUIRED_OPTION_GROUP", Message: "removing this option group would break the open-menu rules"}
	ErrOptionGroupNotFound       = &Error{Code: "OPTION_GROUP_NOT_FOUND", Message: "option group does not exist on this menu"}
	ErrOptionNotFound            = &Error{Code: "OPTION_NOT_FOUND", Message: "option does not exist in this group"}
	ErrDuplicateOption           = &Error{Code: "DUPLICATE_OPTION", Message: "an option with this name and price already exists in the group"}
	ErrInvalidOptionPrice        = &Error{Code: "INVALID_OPTION_PRICE", Message: "option price must not be negative"}
)
