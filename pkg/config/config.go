package config

import "time"

// Server defaults
const (
	DefaultPort        = "8080"
	ServerReadTimeout  = 15 * time.Second
	ServerWriteTimeout = 15 * time.Second
	ServerIdleTimeout  = 60 * time.Second
	ShutdownTimeout    = 30 * time.Second
)

// Clustering guards. The pass is O(n²) in coordinate-valid sales, so the
// input is truncated at a deployment-level ceiling before clustering.
const (
	DefaultMaxClusterSales = 50000
)

// Reverse geocoding
const (
	DefaultNominatimURL = "https://nominatim.openstreetmap.org"
	GeocodeTimeout      = 5 * time.Second
	GeocodeUserAgent    = "salescope/1.0"
)

// Store timeouts
const (
	FetchTimeout  = 30 * time.Second
	IngestTimeout = 10 * time.Second
)

// Ingest limits
const (
	IngestMaxRecords = 5000
)

// Dashboard KPIs
const (
	DashboardTopTenants = 5
	DashboardTrendDays  = 7
)

// WebSocket configuration
const (
	WSReadBufferSize  = 1024
	WSWriteBufferSize = 1024
	WSBroadcastBuffer = 256
	WSChannelBuffer   = 10
	WSWriteDeadline   = 10 * time.Second
	WSReadDeadline    = 60 * time.Second
	WSPingInterval    = 30 * time.Second
)

// Live stats broadcasting
const (
	LiveStatsInterval = 5 * time.Second
)
