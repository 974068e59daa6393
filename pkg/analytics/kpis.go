package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/salescope/salescope/pkg/config"
	"github.com/salescope/salescope/pkg/sale"
)

// Overview is the cross-tenant sales summary served by /analytics/sales.
type Overview struct {
	TotalSales      int                `json:"total_sales"`
	TenantCount     int                `json:"tenants_count"`
	SalesByTenant   map[string]int     `json:"sales_by_tenant"`
	TotalRevenue    float64            `json:"total_revenue"`
	AverageSale     float64            `json:"average_sale"`
	RevenueByTenant map[string]float64 `json:"revenue_by_tenant"`
}

// TenantVolume is one top-tenant entry of the dashboard.
type TenantVolume struct {
	Tenant       string `json:"tenant"`
	Transactions int    `json:"transactions"`
}

// TrendPoint is one day of the dashboard's transaction trend.
type TrendPoint struct {
	Date         string `json:"date"`
	Transactions int    `json:"transactions"`
}

// Dashboard is the KPI payload served by /kpis/dashboard.
type Dashboard struct {
	TotalTransactions        int            `json:"total_transactions"`
	ActiveTenants            int            `json:"active_tenants"`
	AvgTransactionsPerTenant float64        `json:"avg_transactions_per_tenant"`
	TopTenants               []TenantVolume `json:"top_tenants"`
	DailyTrend               []TrendPoint   `json:"daily_trend"`
}

// dateKeys is the priority order for locating a sale's date field.
var dateKeys = []string{"date", "created_at", "timestamp", "sale_date"}

// dateLayouts are tried in order when parsing a date value.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Overview aggregates totals and per-tenant revenue using the same amount
// resolution as clustering.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	records, err := s.store.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	o := &Overview{
		SalesByTenant:   make(map[string]int),
		RevenueByTenant: make(map[string]float64),
		TotalSales:      len(records),
	}
	for _, rec := range records {
		id := rec.TenantID()
		o.SalesByTenant[id]++
		amount := rec.Amount()
		o.TotalRevenue += amount
		o.RevenueByTenant[id] += amount
	}
	o.TenantCount = len(o.SalesByTenant)
	if o.TotalSales > 0 {
		o.AverageSale = o.TotalRevenue / float64(o.TotalSales)
	}
	return o, nil
}

// Dashboard computes the top tenants by volume and the daily transaction
// trend over the trailing window. Sales without a parseable date are left
// out of the trend only.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	records, err := s.store.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	volumes := make(map[string]int)
	daily := make(map[string]int)
	for _, rec := range records {
		volumes[rec.TenantID()]++
		if day, ok := saleDay(rec); ok {
			daily[day]++
		}
	}

	d := &Dashboard{
		TotalTransactions: len(records),
		ActiveTenants:     len(volumes),
	}
	if d.ActiveTenants > 0 {
		d.AvgTransactionsPerTenant = float64(d.TotalTransactions) / float64(d.ActiveTenants)
	}

	top := make([]TenantVolume, 0, len(volumes))
	for id, n := range volumes {
		top = append(top, TenantVolume{Tenant: id, Transactions: n})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Transactions != top[j].Transactions {
			return top[i].Transactions > top[j].Transactions
		}
		return top[i].Tenant < top[j].Tenant
	})
	if len(top) > config.DashboardTopTenants {
		top = top[:config.DashboardTopTenants]
	}
	d.TopTenants = top

	days := make([]string, 0, len(daily))
	for day := range daily {
		days = append(days, day)
	}
	sort.Strings(days)
	if len(days) > config.DashboardTrendDays {
		days = days[len(days)-config.DashboardTrendDays:]
	}
	d.DailyTrend = make([]TrendPoint, 0, len(days))
	for _, day := range days {
		d.DailyTrend = append(d.DailyTrend, TrendPoint{Date: day, Transactions: daily[day]})
	}
	return d, nil
}

// saleDay resolves the sale's calendar day (YYYY-MM-DD) from the first
// parseable date field.
func saleDay(rec sale.Record) (string, bool) {
	for _, key := range dateKeys {
		v, present := rec[key]
		if !present || v == nil {
			continue
		}
		switch d := v.(type) {
		case time.Time:
			return d.Format("2006-01-02"), true
		case string:
			for _, layout := range dateLayouts {
				if t, err := time.Parse(layout, d); err == nil {
					return t.Format("2006-01-02"), true
				}
			}
		}
	}
	return "", false
}
