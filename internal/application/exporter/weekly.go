package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/ibflex/internal/domain"
)

// Weekly aggregates the daily files of the Monday-start week containing ref.
// ok is false when no daily file exists for that week; nothing is written then.
func (e *Exporter) Weekly(ctx context.Context, ref time.Time) (report domain.WeeklyReport, ok bool, err error) {
	week := domain.WeekOf(ref)
	slog.Info("generating weekly summary", "week", week.Key(),
		"start", domain.FormatDate(week.Start), "end", domain.FormatDate(week.End))

	var trades []domain.Trade
	summaries := []domain.DaySummary{}
	for _, date := range week.Dates() {
		daily, found, err := e.store.LoadDaily(ctx, date)
		if err != nil {
			return report, false, fmt.Errorf("exporter.Weekly: %w", err)
		}
		if !found {
			continue
		}
		trades = append(trades, daily.Trades...)
		summaries = append(summaries, domain.DaySummary{
			DailySummary: daily.Summary,
			Date:         date,
			Account:      daily.Account,
		})
	}

	if len(trades) == 0 && len(summaries) == 0 {
		slog.Info("no data found for week", "week", week.Key())
		return report, false, nil
	}

	now := e.now()
	account := domain.Unknown
	if len(summaries) > 0 {
		account = summaries[0].Account
	}
	report = domain.WeeklyReport{
		ExportDate:     now.Format(domain.ExportTimeLayout),
		Account:        account,
		Year:           week.Year,
		WeekNumber:     week.Number,
		WeekStart:      domain.FormatDate(week.Start),
		WeekEnd:        domain.FormatDate(week.End),
		Statistics:     domain.CalculateWeekStatistics(trades, summaries),
		Patterns:       domain.AnalyzePatterns(trades),
		DailySummaries: summaries,
		Metadata:       e.metadata(now),
	}

	if err := e.store.SaveWeekly(ctx, report); err != nil {
		return report, false, fmt.Errorf("exporter.Weekly: %w", err)
	}
	e.recorder.FileWritten("weekly")
	e.recorder.RunCompleted("weekly")

	slog.Info("weekly summary written", "week", week.Key(),
		"trades", report.Statistics.TotalTrades, "net_pnl", report.Statistics.NetPnL)
	if err := e.notifier.WeeklyGenerated(ctx, report); err != nil {
		slog.Warn("notify failed", "err", err)
	}
	return report, true, nil
}
