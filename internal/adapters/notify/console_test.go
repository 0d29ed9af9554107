package notify_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/ibflex/internal/adapters/notify"
	"github.com/alejandrodnm/ibflex/internal/domain"
	"github.com/alejandrodnm/ibflex/internal/ports"
)

var _ ports.Notifier = (*notify.Console)(nil)

func makeRun() domain.DailyRun {
	trades := []domain.Trade{
		{Symbol: "AAPL", AssetCategory: "STK", PnL: 42.95, Commission: 1.05},
		{Symbol: "SPY", AssetCategory: "OPT", PnL: -30.5, Commission: 0.65},
	}
	min := 50.0
	return domain.DailyRun{
		Reports: []domain.DailyReport{
			{Date: "2024-03-12", Account: "U*****67", Trades: trades, Summary: domain.CalculateDailySummary(trades)},
			{Date: "2024-03-13", Account: "U*****67", Summary: domain.CalculateDailySummary(nil)},
		},
		TotalFetched: 5,
		Filter:       domain.CostBasisFilter{Min: &min},
		Positions:    1,
		CashExported: true,
		Accounts:     []domain.AccountInfo{{AccountID: "U*****67", Currency: "USD", Type: "Individual"}},
	}
}

func TestConsole_DailyExported_Compact(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false)

	require.NoError(t, n.DailyExported(context.Background(), makeRun()))

	out := buf.String()
	assert.Contains(t, out, "Found 5 trades")
	assert.Contains(t, out, "cost basis >= $50.00: kept 2 of 5")
	assert.Contains(t, out, "Exported 2024-03-12: 2 trades, P&L: $10.75")
	assert.Contains(t, out, "No trades for 2024-03-13")
	assert.Contains(t, out, "Exported 1 open positions")
	assert.Contains(t, out, "Exported cash report")
	assert.NotContains(t, out, "Individual")
}

func TestConsole_DailyExported_Table(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, true)

	require.NoError(t, n.DailyExported(context.Background(), makeRun()))

	out := buf.String()
	assert.Contains(t, out, "AAPL,SPY")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "Individual")
	assert.Contains(t, out, "Last traded: Unknown")
}

func TestConsole_WeeklyGenerated(t *testing.T) {
	trades := []domain.Trade{
		{Symbol: "AAPL", TradeTime: "093000", TradeDate: "20240311", PnL: 10, Quantity: 1, TradePrice: 100},
		{Symbol: "AAPL", TradeTime: "140000", TradeDate: "20240312", PnL: -5, Quantity: 1, TradePrice: 100},
	}
	w := domain.WeeklyReport{
		Year: 2024, WeekNumber: 11, WeekStart: "2024-03-11", WeekEnd: "2024-03-17",
		Statistics: domain.WeekStatistics{TotalTrades: 2, NetPnL: 5, WinRate: 0.5, TradingDays: 2},
		Patterns:   domain.AnalyzePatterns(trades),
	}

	var buf bytes.Buffer
	require.NoError(t, notify.NewConsoleWriter(&buf, true).WeeklyGenerated(context.Background(), w))

	out := buf.String()
	assert.Contains(t, out, "2024-W11 (2024-03-11 to 2024-03-17)")
	assert.Contains(t, out, "Win rate: 50.0%")
	assert.Contains(t, out, "Most traded: AAPL (2 trades)")
	assert.Contains(t, out, "09:00")
	assert.Contains(t, out, "14:00")
}

func TestConsole_MonthlyGenerated(t *testing.T) {
	m := domain.MonthlyReport{
		Year: 2024, Month: 3, MonthName: "March",
		Statistics: domain.MonthlyStatistics{TotalTrades: 12, NetPnL: 150.5, TradingDays: 5, SharpeRatio: 0.42},
		Analysis:   domain.MonthlyAnalysis{Consistency: 0.6},
	}

	var buf bytes.Buffer
	require.NoError(t, notify.NewConsoleWriter(&buf, true).MonthlyGenerated(context.Background(), m))

	out := buf.String()
	assert.Contains(t, out, "Monthly summary March 2024")
	assert.Contains(t, out, "Net P&L: $150.50")
	assert.Contains(t, out, "Consistency: 60.0%")
	assert.Contains(t, out, "0.42")
}

func TestConsole_DashboardGenerated(t *testing.T) {
	d := domain.Dashboard{YearStats: domain.YearStats{
		TradingDays: 3, TotalTrades: 7, TotalPnL: 85.56, WinRate: 66.67,
		BestDay: "2024-03-01", BestDayPnL: 100, WorstDay: "2024-03-04", WorstDayPnL: -40,
	}}

	var buf bytes.Buffer
	require.NoError(t, notify.NewConsoleWriter(&buf, true).DashboardGenerated(context.Background(), "docs/dashboard-data.json", d))

	out := buf.String()
	assert.Contains(t, out, "docs/dashboard-data.json")
	assert.Contains(t, out, "Win rate: 66.7%")
	assert.Contains(t, out, "2024-03-04")
	assert.Contains(t, out, "$-40.00")
}
