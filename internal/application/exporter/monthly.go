package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/ibflex/internal/domain"
)

// Monthly aggregates every daily file of the month and the weekly files that
// touch it. ok is false when the month has no daily file.
func (e *Exporter) Monthly(ctx context.Context, year int, month time.Month) (report domain.MonthlyReport, ok bool, err error) {
	key := domain.MonthKey(year, month)
	slog.Info("generating monthly summary", "month", key)

	var days []domain.DailyReport
	var trades []domain.Trade
	for _, date := range domain.MonthDates(year, month) {
		daily, found, err := e.store.LoadDaily(ctx, date)
		if err != nil {
			return report, false, fmt.Errorf("exporter.Monthly: %w", err)
		}
		if !found {
			continue
		}
		days = append(days, daily)
		trades = append(trades, daily.Trades...)
	}
	if len(days) == 0 {
		slog.Info("no data found for month", "month", key)
		return report, false, nil
	}

	weeks, err := e.store.ListWeekly(ctx, year, month)
	if err != nil {
		return report, false, fmt.Errorf("exporter.Monthly: %w", err)
	}

	now := e.now()
	analysis := domain.AnalyzeMonth(trades, days)
	report = domain.MonthlyReport{
		ExportDate: now.Format(domain.ExportTimeLayout),
		Account:    days[0].Account,
		Year:       year,
		Month:      int(month),
		MonthName:  month.String(),
		Statistics: domain.CalculateMonthlyStatistics(days, analysis),
		Analysis:   analysis,
		WeeklyData: weeks,
		Metadata:   e.metadata(now),
	}
	if report.Account == "" {
		report.Account = domain.Unknown
	}

	if err := e.store.SaveMonthly(ctx, report, RenderMonthlyText(report)); err != nil {
		return report, false, fmt.Errorf("exporter.Monthly: %w", err)
	}
	e.recorder.FileWritten("monthly")
	e.recorder.RunCompleted("monthly")

	slog.Info("monthly summary written", "month", key,
		"trades", report.Statistics.TotalTrades, "weeks", len(weeks))
	if err := e.notifier.MonthlyGenerated(ctx, report); err != nil {
		slog.Warn("notify failed", "err", err)
	}
	return report, true, nil
}
