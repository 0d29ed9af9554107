package exporter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/ibflex/internal/domain"
)

func TestRenderMonthlyText_Layout(t *testing.T) {
	m := domain.MonthlyReport{
		ExportDate: "2024-04-01 08:00:00",
		Account:    "U*****67",
		Year:       2024,
		MonthName:  "March",
		Statistics: domain.MonthlyStatistics{
			TotalTrades:          12,
			TradingDays:          5,
			TotalPnL:             155.5,
			TotalCommission:      5,
			NetPnL:               150.5,
			AvgDailyPnL:          30.1,
			Consistency:          0.6,
			SharpeRatio:          0.42,
			ProfitFactor:         6,
			WorstDrawdown:        30,
			BestStreak:           2,
			MaxConsecutiveLosses: 2,
		},
	}

	lines := strings.Split(RenderMonthlyText(m), "\n")
	want := []string{
		"MONTHLY TRADING REPORT - March 2024",
		strings.Repeat("=", 60),
		"",
		"Account: U*****67",
		"Generated: 2024-04-01 08:00:00",
		"",
		"PERFORMANCE SUMMARY",
		strings.Repeat("-", 30),
		"Total Trades:                12",
		"Trading Days:                 5",
		"Gross P&L:          $    155.50",
		"Commissions:        $      5.00",
		"Net P&L:            $    150.50",
		"",
		"RISK METRICS",
		strings.Repeat("-", 30),
		"Avg Daily P&L:      $     30.10",
		"Consistency:               60.0%",
		"Sharpe Ratio:              0.42",
		"Profit Factor:             6.00",
		"Worst Drawdown:     $     30.00",
		"Best Win Streak:              2",
		"Max Losing Streak:            2",
		"",
	}
	require.Len(t, lines, len(want))
	for i := range want {
		assert.Equal(t, want[i], lines[i], "line %d", i+1)
	}
}
