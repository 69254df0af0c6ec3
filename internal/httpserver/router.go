package httpserver

import (
	"context"
	"log"
	"strings"

	"food-ordering/internal/domain"
	cartsvc "food-ordering/internal/service/cart"
	menusvc "food-ordering/internal/service/menu"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CartService is the slice of the cart application service the handlers use.
type CartService interface {
	AddItem(ctx context.Context, in cartsvc.AddItemInput) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, menuID string, optionIDs []int) (*domain.Cart, error)
	ChangeQuantity(ctx context.Context, userID, menuID string, optionIDs []int, quantity int) (*domain.Cart, error)
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	PlaceOrder(ctx context.Context, userID string) (*domain.Order, error)
	ListOrders(ctx context.Context, userID string, limit, offset int) ([]*domain.Order, int, error)
}

// MenuService is the slice of the menu application service the handlers use.
type MenuService interface {
	Create(ctx context.Context, in menusvc.CreateMenuInput) (*domain.Menu, error)
	Get(ctx context.Context, menuID string) (*domain.Menu, error)
	ListByShop(ctx context.Context, shopID string) ([]*domain.Menu, error)
	Open(ctx context.Context, menuID string) (*domain.Menu, error)
	AddOptionGroup(ctx context.Context, menuID, name string, required bool) (*domain.Menu, error)
	AddOption(ctx context.Context, menuID, groupID, name string, priceCents int64) (*domain.Menu, error)
	RemoveOptionGroup(ctx context.Context, menuID, groupID string) (*domain.Menu, error)
	ChangeOptionGroupName(ctx context.Context, menuID, groupID, newName string) (*domain.Menu, error)
	ChangeOptionName(ctx context.Context, menuID, groupID, currentName string, currentPriceCents int64, newName string) (*domain.Menu, error)
}

// Deps carries the services the router needs.
type Deps struct {
	Carts CartService
	Menus MenuService
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, corsOrigins string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(corsConfig(corsOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	users := router.Group("/users/:userID")
	{
		users.GET("/cart", getCartHandler(deps.Carts))
		users.POST("/cart/items", addCartItemHandler(deps.Carts))
		users.DELETE("/cart/items", removeCartItemHandler(deps.Carts))
		users.PATCH("/cart/items/quantity", changeCartItemQuantityHandler(deps.Carts))
		users.POST("/orders", placeOrderHandler(deps.Carts))
		users.GET("/orders", listOrdersHandler(deps.Carts))
	}

	shops := router.Group("/shops/:shopID")
	{
		shops.POST("/menus", createMenuHandler(deps.Menus))
		shops.GET("/menus", listMenusHandler(deps.Menus))
		shops.GET("/menus/:menuID", getMenuHandler(deps.Menus))
	}

	menus := router.Group("/menus/:menuID")
	{
		menus.POST("/open", openMenuHandler(deps.Menus))
		menus.POST("/option-groups", addOptionGroupHandler(deps.Menus))
		menus.DELETE("/option-groups/:groupID", removeOptionGroupHandler(deps.Menus))
		menus.PATCH("/option-groups/:groupID/name", changeOptionGroupNameHandler(deps.Menus))
		menus.POST("/option-groups/:groupID/options", addOptionHandler(deps.Menus))
		menus.PATCH("/option-groups/:groupID/options/name", changeOptionNameHandler(deps.Menus))
	}

	return router
}

func corsConfig(origins string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	if origins == "" || origins == "*" {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = strings.Split(origins, ",")
	return cfg
}
