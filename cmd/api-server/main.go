package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"shopfront/internal/cart"
	"shopfront/internal/catalog"
	"shopfront/internal/fragments"
	"shopfront/internal/notify"
	synchub "shopfront/internal/sync"
	"shopfront/pkg/database"
	"shopfront/pkg/utils"
)

func main() {
	cfg := utils.LoadServerConfig()

	dbCfg := database.DefaultConfig()
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.Migrate(db, dbCfg.SchemaPath); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	// Catalog snapshot: fetched once at startup. A failed fetch is not
	// fatal; the API serves 503s until a reload succeeds.
	store := catalog.NewStore(catalog.NewHTTPSource(cfg.CatalogURL))
	{
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := store.Load(ctx); err != nil {
			log.Printf("catalog load failed (retry via POST /catalog/reload): %v", err)
		}
		cancel()
	}

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	// Cart event sync (WebSocket + TCP)
	hub := synchub.NewHub()
	router.GET("/ws", synchub.WSHandler(hub))
	tcpSrv := synchub.NewServer(cfg.TCPSyncAddr, hub)

	// UDP toast notices
	registry := notify.NewRegistry()
	notifySrv := notify.NewServer(cfg.UDPNotifyAddr, registry, nil)
	go func() {
		if err := notifySrv.Run(); err != nil {
			log.Printf("notify server stopped: %v", err)
		}
	}()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbCfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "not_ready",
				"db_error":    err.Error(),
				"tcp_clients": stats.TCPClients,
				"ws_clients":  stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"db":          "ok",
			"catalog":     store.Loaded(),
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	router.GET("/debug", func(c *gin.Context) {
		stats := hub.Stats()
		c.JSON(http.StatusOK, gin.H{
			"db":          dbCfg.Path,
			"catalog_url": cfg.CatalogURL,
			"products":    len(store.Products()),
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	// Catalog (public, read-only)
	catalogHandler := catalog.NewHandler(store)
	catalogHandler.RegisterRoutes(router.Group("/products"))
	router.GET("/categories", catalogHandler.ListCategories)
	router.POST("/catalog/reload", catalogHandler.Reload)

	// Shared page fragments, proxied with caching
	fragmentFetcher := fragments.NewFetcher(cfg.FragmentsBase)
	router.GET("/fragments/:name", fragments.Handler(fragmentFetcher))

	// Cart ledger
	cartRepo := cart.NewRepo(db)
	cartHandler := cart.NewHandler(cartRepo, store, hub, notifySrv)
	cartHandler.RegisterRoutes(router.Group("/cart"))

	httpSrv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("HTTP API server listening on %s", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	if err := tcpSrv.Close(); err != nil {
		log.Printf("tcp shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("servers stopped")
}
