package server

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/salescope/salescope/pkg/analytics"
	"github.com/salescope/salescope/pkg/config"
	"github.com/salescope/salescope/pkg/live"
	"github.com/salescope/salescope/pkg/store"
	"github.com/salescope/salescope/pkg/store/badger"
)

// BroadcastStats periodically pushes a dashboard snapshot to live clients.
// Uses exponential backoff on errors to prevent log spam during outages.
func BroadcastStats(ctx context.Context, service *analytics.Service, hub *live.Hub) {
	ticker := time.NewTicker(config.LiveStatsInterval)
	defer ticker.Stop()

	var consecutiveErrors int
	var lastErrorTime time.Time
	const maxBackoff = 5 * time.Minute

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Skip the store round trip if nobody is listening
			if !hub.HasClients() {
				continue
			}

			dashboard, err := service.Dashboard(ctx)
			if err != nil {
				consecutiveErrors++
				now := time.Now()

				backoff := time.Duration(1<<uint(min(consecutiveErrors-1, 8))) * time.Second
				if backoff > maxBackoff {
					backoff = maxBackoff
				}
				if lastErrorTime.IsZero() || now.Sub(lastErrorTime) >= backoff {
					log.Printf("Failed to build stats snapshot for broadcast (error #%d, backoff %v): %v",
						consecutiveErrors, backoff, err)
					lastErrorTime = now
				}
				continue
			}

			if consecutiveErrors > 0 {
				log.Printf("Stats broadcast recovered after %d errors", consecutiveErrors)
				consecutiveErrors = 0
			}

			hub.Broadcast(map[string]interface{}{
				"type":      "stats_update",
				"timestamp": time.Now().Unix(),
				"dashboard": dashboard,
			})
		}
	}
}

// RunBadgerGC runs BadgerDB value log garbage collection periodically. The
// LSM tree accumulates dead data in the value log; without GC disk usage
// grows without bound.
func RunBadgerGC(saleStore store.SaleStore, stop chan bool, wg *sync.WaitGroup) {
	defer wg.Done()

	badgerStore, ok := saleStore.(*badger.Store)
	if !ok {
		return
	}

	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	log.Println("BadgerDB GC scheduler started (runs every 10m)")

	for {
		select {
		case <-ticker.C:
			start := time.Now()
			// ErrNoRewrite just means there was nothing to reclaim
			if err := badgerStore.RunGC(0.5); err != nil {
				log.Printf("GC completed in %v (no rewrite needed)", time.Since(start).Round(time.Millisecond))
			} else {
				log.Printf("GC completed in %v (disk space reclaimed)", time.Since(start).Round(time.Millisecond))
			}
		case <-stop:
			log.Println("Stopping BadgerDB GC scheduler")
			return
		}
	}
}

// min returns the minimum of two integers.
func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
