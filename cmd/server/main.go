package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/config"
	"storefront/internal/api"
	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/kv"
	"storefront/internal/prefs"
	"storefront/internal/render"
	"storefront/internal/settings"
	"storefront/internal/store"
	"storefront/internal/util"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting storefront service")

	tp, err := util.InitTracer("storefront", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	redisStore, err := kv.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisStore.Close()
	log.Println("Redis connected")

	var archive *store.Store
	if cfg.Archive.DSN != "" {
		archive, err = store.NewStore(cfg.Archive.DSN)
		if err != nil {
			log.Fatalf("Failed to connect to order archive: %v", err)
		}
		defer archive.Close()
		log.Println("Order archive connected")
	} else {
		log.Println("Order archive disabled (ORDER_ARCHIVE_DSN not set)")
	}

	loader := catalog.NewLoader(cfg.Catalog.ProductsURL, cfg.Catalog.IDMode)

	// Settings are best-effort: a failed fetch yields the defaults object.
	set := settings.Fetch(context.Background(), cfg.Catalog.SettingsURL)

	renderer := render.New(cfg.Store.Name, cfg.Store.Currency, set)
	carts := cart.NewStore(redisStore)
	prefStore := prefs.NewStore(redisStore)
	checkoutSvc := checkout.NewService(cfg.Store.Name, cfg.Store.Currency, cfg.Store.OrderEmail, cfg.Store.CheckoutMode, archive)

	// The one startup load. A failure renders the visible error state but
	// must not take the service down; refresh-to-retry is the recovery path.
	if _, err := loader.Load(context.Background()); err != nil {
		log.Printf("Initial catalog load failed: %v", err)
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(loader, carts, prefStore, renderer, checkoutSvc, archive)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
