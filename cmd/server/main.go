package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/salescope/salescope/pkg/analytics"
	"github.com/salescope/salescope/pkg/config"
	"github.com/salescope/salescope/pkg/live"
	"github.com/salescope/salescope/pkg/server"
)

func main() {
	log.Println("Starting SaleScope server...")

	cfg := server.LoadConfig()

	saleStore, catalog, err := server.InitializeStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize sale store: %v", err)
	}
	defer saleStore.Close()

	geocoder := server.InitializeGeocoder(cfg)
	service := analytics.New(saleStore, catalog, geocoder, cfg.MaxClusterSales)

	hub := live.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		hub.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		server.BroadcastStats(ctx, service, hub)
	}()
	log.Printf("Live hub started (stats every %v)", config.LiveStatsInterval)

	stopGC := make(chan bool)
	wg.Add(1)
	go server.RunBadgerGC(saleStore, stopGC, &wg)

	router := mux.NewRouter()
	server.SetupRoutes(router, server.NewHandler(service, hub), hub)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Printf("Server listening on http://localhost:%s", cfg.Port)
		log.Println("API endpoints:")
		log.Println("   GET  /sales/locations       - Clustered sale groups")
		log.Println("   GET  /sales/tenants-colors  - Tenant color legend")
		log.Println("   GET  /sales/all             - All sales")
		log.Println("   GET  /analytics/sales       - Sales aggregates")
		log.Println("   GET  /kpis/dashboard        - Dashboard KPIs")
		log.Println("   POST /v1/sales              - Ingest sales")
		log.Println("   GET  /v1/live               - Live WebSocket feed")
		log.Println("   GET  /metrics               - Prometheus endpoint")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutdown signal received...")

	// Cancel first so the hub and broadcaster exit before wg.Wait
	cancel()
	close(stopGC)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown warning: %v", err)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("All background tasks stopped cleanly")
	case <-time.After(5 * time.Second):
		log.Println("Some background tasks did not stop in time (forcing exit)")
	}

	log.Println("SaleScope server exited cleanly")
}
