package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/salescope/salescope/pkg/analytics"
	"github.com/salescope/salescope/pkg/cluster"
	"github.com/salescope/salescope/pkg/config"
	"github.com/salescope/salescope/pkg/httpx"
	"github.com/salescope/salescope/pkg/live"
	"github.com/salescope/salescope/pkg/metrics"
	"github.com/salescope/salescope/pkg/sale"
)

var startTime = time.Now()

// Handler serves the analytics API on top of the orchestration service.
type Handler struct {
	service *analytics.Service
	hub     *live.Hub
}

// NewHandler creates the API handler. hub may be nil when the live feed is
// not wired (tests).
func NewHandler(service *analytics.Service, hub *live.Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

// HandleLocations clusters all sales into proximity groups for map display.
func (h *Handler) HandleLocations(w http.ResponseWriter, r *http.Request) {
	radiusKm := cluster.DefaultRadiusKm
	if raw := r.URL.Query().Get("radius_km"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			httpx.RespondErrorf(w, http.StatusBadRequest, "invalid radius_km %q", raw)
			return
		}
		radiusKm = parsed
	}
	filter := sale.Filter{
		ProductID:   r.URL.Query().Get("product_id"),
		ProductName: r.URL.Query().Get("product_name"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), config.FetchTimeout)
	defer cancel()

	groups, err := h.service.LocationGroups(ctx, radiusKm, filter)
	if err != nil {
		httpx.RespondError(w, http.StatusInternalServerError, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"locations":       groups,
		"total_locations": len(groups),
		"radius_km":       radiusKm,
	})
}

// HandleTenantColors returns the deterministic tenant color legend.
func (h *Handler) HandleTenantColors(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), config.FetchTimeout)
	defer cancel()

	colors, total, err := h.service.TenantColors(ctx)
	if err != nil {
		httpx.RespondError(w, http.StatusInternalServerError, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"tenant_colors": colors,
		"total_tenants": total,
	})
}

// HandleAllSales returns every sale across all tenants.
func (h *Handler) HandleAllSales(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), config.FetchTimeout)
	defer cancel()

	records, err := h.service.AllSales(ctx)
	if err != nil {
		httpx.RespondError(w, http.StatusInternalServerError, err)
		return
	}
	if records == nil {
		records = []sale.Record{}
	}

	httpx.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"sales":       records,
		"total_count": len(records),
	})
}

// HandleTenantSales returns one tenant's sales.
func (h *Handler) HandleTenantSales(w http.ResponseWriter, r *http.Request) {
	tenantID := mux.Vars(r)["tenant"]

	ctx, cancel := context.WithTimeout(r.Context(), config.FetchTimeout)
	defer cancel()

	records, err := h.service.TenantSales(ctx, tenantID)
	if err != nil {
		httpx.RespondError(w, http.StatusInternalServerError, err)
		return
	}
	if records == nil {
		records = []sale.Record{}
	}

	httpx.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"tenant":      tenantID,
		"sales":       records,
		"total_count": len(records),
	})
}

// HandleAnalytics returns cross-tenant sales and revenue aggregates.
func (h *Handler) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), config.FetchTimeout)
	defer cancel()

	overview, err := h.service.Overview(ctx)
	if err != nil {
		httpx.RespondError(w, http.StatusInternalServerError, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, overview)
}

// HandleDashboard returns the KPI dashboard payload.
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), config.FetchTimeout)
	defer cancel()

	dashboard, err := h.service.Dashboard(ctx)
	if err != nil {
		httpx.RespondError(w, http.StatusInternalServerError, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, dashboard)
}

// HandleGlobalProducts lists the global product catalog.
func (h *Handler) HandleGlobalProducts(w http.ResponseWriter, r *http.Request) {
	products := h.service.GlobalProducts(r.Context())
	httpx.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"products": products,
		"count":    len(products),
	})
}

// ingestRequest is the POST /v1/sales payload.
type ingestRequest struct {
	TenantID string        `json:"tenant_id"`
	Sales    []sale.Record `json:"sales"`
}

// HandleIngest appends a batch of sale records to the active store and
// notifies live clients.
func (h *Handler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := httpx.DecodeJSON(w, r, &req, 10<<20); err != nil {
		httpx.RespondError(w, http.StatusBadRequest, err)
		return
	}
	if req.TenantID == "" {
		httpx.RespondErrorf(w, http.StatusBadRequest, "tenant_id is required")
		return
	}
	if len(req.Sales) == 0 {
		httpx.RespondErrorf(w, http.StatusBadRequest, "sales must not be empty")
		return
	}
	if len(req.Sales) > config.IngestMaxRecords {
		httpx.RespondErrorf(w, http.StatusRequestEntityTooLarge,
			"batch of %d exceeds limit of %d records", len(req.Sales), config.IngestMaxRecords)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), config.IngestTimeout)
	defer cancel()

	if err := h.service.Ingest(ctx, req.TenantID, req.Sales); err != nil {
		httpx.RespondError(w, http.StatusInternalServerError, err)
		return
	}

	metrics.IngestedSalesTotal.WithLabelValues(req.TenantID).Add(float64(len(req.Sales)))
	if h.hub != nil {
		h.hub.SaleEvent(req.TenantID, len(req.Sales))
	}

	httpx.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"tenant":   req.TenantID,
		"ingested": len(req.Sales),
	})
}

// HandleHealth reports service and store health.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK
	storeStatus := "ok"

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.service.Ping(ctx); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
		storeStatus = err.Error()
	}

	httpx.RespondJSON(w, code, map[string]interface{}{
		"status":  status,
		"version": "1.0.0",
		"uptime":  time.Since(startTime).String(),
		"store":   storeStatus,
	})
}

// SetupRoutes configures all HTTP routes for the server.
func SetupRoutes(router *mux.Router, h *Handler, hub *live.Hub) {
	router.Use(corsMiddleware)
	router.Use(metricsMiddleware)

	router.HandleFunc("/sales/locations", h.HandleLocations).Methods("GET")
	router.HandleFunc("/sales/tenants-colors", h.HandleTenantColors).Methods("GET")
	router.HandleFunc("/sales/all", h.HandleAllSales).Methods("GET")
	router.HandleFunc("/sales/by-tenant/{tenant}", h.HandleTenantSales).Methods("GET")

	router.HandleFunc("/analytics/sales", h.HandleAnalytics).Methods("GET")
	router.HandleFunc("/kpis/dashboard", h.HandleDashboard).Methods("GET")
	router.HandleFunc("/products/globals", h.HandleGlobalProducts).Methods("GET")
	router.HandleFunc("/health", h.HandleHealth).Methods("GET")

	api := router.PathPrefix("/v1").Subrouter()
	api.HandleFunc("/sales", h.HandleIngest).Methods("POST")
	if hub != nil {
		api.HandleFunc("/live", hub.Handler()).Methods("GET")
	}

	router.Handle("/metrics", metrics.Handler()).Methods("GET")
}
