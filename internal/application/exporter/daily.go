package exporter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/ibflex/internal/domain"
)

// ErrNoProvider is returned by Daily when the exporter has no statement source.
var ErrNoProvider = errors.New("exporter: no statement provider configured")

// Daily downloads the Flex statement and writes one file per trade date,
// plus today's positions and cash files. Nothing is written if the download
// fails.
func (e *Exporter) Daily(ctx context.Context) (domain.DailyRun, error) {
	if e.statement == nil {
		return domain.DailyRun{}, ErrNoProvider
	}

	slog.Info("downloading flex report", "query_id", e.cfg.QueryID)
	start := time.Now()
	stmt, err := e.statement.Download(ctx, e.cfg.Token, e.cfg.QueryID)
	e.recorder.FetchDuration(time.Since(start))
	if err != nil {
		return domain.DailyRun{}, fmt.Errorf("exporter.Daily: download: %w", err)
	}

	now := e.now()
	today := domain.FormatDate(now)
	exportDate := now.Format(domain.ExportTimeLayout)

	run := domain.DailyRun{
		TotalFetched: len(stmt.Trades),
		Filter:       e.cfg.Filter,
		Accounts:     stmt.Accounts,
	}
	if e.cfg.Obfuscate {
		run.Accounts = domain.ObfuscateAccounts(stmt.Accounts)
	}

	trades := e.cfg.Filter.Apply(stmt.Trades)
	if e.cfg.Filter.Active() {
		slog.Info("filtered trades", "filter", e.cfg.Filter.String(), "kept", len(trades), "total", len(stmt.Trades))
	}
	for _, t := range trades {
		if t.Currency != e.cfg.BaseCurrency {
			run.ForeignTrades++
		}
	}
	if run.ForeignTrades > 0 {
		slog.Warn("trades in foreign currency are summed without conversion",
			"count", run.ForeignTrades, "base_currency", e.cfg.BaseCurrency)
	}

	byDate := domain.GroupByDate(trades)
	for _, date := range domain.SortedDates(byDate) {
		dayTrades := byDate[date]
		report := domain.DailyReport{
			ExportDate: exportDate,
			Account:    e.account(dayTrades[0].AccountID),
			Date:       date,
			Trades:     dayTrades,
			Summary:    domain.CalculateDailySummary(dayTrades),
		}
		if e.cfg.Obfuscate {
			report.Trades = domain.ObfuscateTrades(dayTrades)
		}
		if err := e.store.SaveDaily(ctx, report); err != nil {
			return run, fmt.Errorf("exporter.Daily: %w", err)
		}
		e.recorder.FileWritten("daily")
		e.recorder.TradesExported(len(report.Trades))
		run.Reports = append(run.Reports, report)
		slog.Debug("daily file written", "date", date, "trades", len(report.Trades))
	}

	positions := stmt.Positions
	if e.cfg.Obfuscate {
		positions = domain.ObfuscatePositions(positions)
	}
	if err := e.store.SavePositions(ctx, domain.PositionsReport{
		ExportDate: exportDate,
		Date:       today,
		Positions:  positions,
		Count:      len(positions),
	}); err != nil {
		return run, fmt.Errorf("exporter.Daily: %w", err)
	}
	e.recorder.FileWritten("positions")
	run.Positions = len(positions)

	if stmt.Cash.HasData() {
		cash := stmt.Cash
		if e.cfg.Obfuscate {
			cash = domain.ObfuscateCash(cash)
		}
		if err := e.store.SaveCash(ctx, domain.CashReportFile{
			ExportDate: exportDate,
			Date:       today,
			CashReport: cash,
		}); err != nil {
			return run, fmt.Errorf("exporter.Daily: %w", err)
		}
		e.recorder.FileWritten("cash")
		run.CashExported = true
	}

	// An empty file for today records that the export ran.
	if _, ok := byDate[today]; !ok {
		placeholder := domain.DailyReport{
			ExportDate: exportDate,
			Account:    e.account(stmt.PrimaryAccount()),
			Date:       today,
			Trades:     []domain.Trade{},
			Summary:    domain.CalculateDailySummary(nil),
		}
		if err := e.store.SaveDaily(ctx, placeholder); err != nil {
			return run, fmt.Errorf("exporter.Daily: placeholder: %w", err)
		}
		e.recorder.FileWritten("daily")
		run.Reports = append(run.Reports, placeholder)
		run.Placeholder = true
	}

	if len(stmt.Trades) == 0 && len(stmt.Positions) == 0 {
		slog.Warn("flex report has no trades and no positions; check that the query includes the Trades and Open Positions sections and a recent period",
			"query_id", e.cfg.QueryID)
	}

	slog.Info("daily export done",
		"days", len(byDate),
		"trades", len(trades),
		"positions", run.Positions,
		"cash", run.CashExported,
	)
	e.recorder.RunCompleted("daily")
	if err := e.notifier.DailyExported(ctx, run); err != nil {
		slog.Warn("notify failed", "err", err)
	}
	return run, nil
}
