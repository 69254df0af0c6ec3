package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"food-ordering/internal/config"
	"food-ordering/internal/db"
	"food-ordering/internal/events"
	"food-ordering/internal/httpserver"
	cartrepo "food-ordering/internal/repository/cart"
	menurepo "food-ordering/internal/repository/menu"
	orderrepo "food-ordering/internal/repository/order"
	cartsvc "food-ordering/internal/service/cart"
	menusvc "food-ordering/internal/service/menu"
	"food-ordering/internal/shopapi"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	shopClient := shopapi.New(cfg.ShopAPIBaseURL, nil, shopapi.RetryPolicy{
		MaxAttempts: cfg.ShopAPIRetries,
		Delay:       cfg.ShopAPIRetryWait,
	})
	dispatcher := events.NewLogDispatcher(logger)

	cartRepo := cartrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool)
	menuRepo := menurepo.NewPostgres(dbpool)

	cartService := cartsvc.New(cartRepo, orderRepo, shopClient, dispatcher)
	menuService := menusvc.New(menuRepo, dispatcher)

	srv := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Carts: cartService,
		Menus: menuService,
	}, cfg.CORSAllowOrigins)

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
