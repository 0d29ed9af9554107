package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alejandrodnm/ibflex/internal/domain"
)

// Dashboard scans every daily file and writes the dashboard data file.
// year > 0 keeps only the days of that calendar year.
func (e *Exporter) Dashboard(ctx context.Context, year int) (domain.Dashboard, error) {
	slog.Info("generating dashboard data", "output", e.cfg.DashboardOutput, "year", year)

	prefix := ""
	if year > 0 {
		prefix = strconv.Itoa(year) + "-"
	}
	builder := domain.NewDashboardBuilder()
	scanned := 0
	err := e.store.ScanDaily(ctx, func(r domain.DailyReport) {
		if prefix != "" && !strings.HasPrefix(r.Date, prefix) {
			return
		}
		scanned++
		builder.Add(r)
	})
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("exporter.Dashboard: %w", err)
	}

	meta := domain.DashboardMetadata{
		LastUpdate: e.now().Format(domain.GeneratedAtLayout),
		Source:     domain.DashboardSource,
		RunID:      e.cfg.RunID,
	}
	if e.cfg.Filter.Active() {
		f := e.cfg.Filter
		meta.CostBasisFilter = &f
	}
	dashboard := builder.Build(meta)

	if err := e.store.SaveDashboard(ctx, e.cfg.DashboardOutput, dashboard); err != nil {
		return dashboard, fmt.Errorf("exporter.Dashboard: %w", err)
	}
	e.recorder.FileWritten("dashboard")
	e.recorder.RunCompleted("dashboard")

	slog.Info("dashboard data written", "files", scanned,
		"trading_days", dashboard.YearStats.TradingDays, "total_trades", dashboard.YearStats.TotalTrades)
	if err := e.notifier.DashboardGenerated(ctx, e.cfg.DashboardOutput, dashboard); err != nil {
		slog.Warn("notify failed", "err", err)
	}
	return dashboard, nil
}
