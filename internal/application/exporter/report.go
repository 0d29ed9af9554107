package exporter

import (
	"fmt"
	"strings"

	"github.com/alejandrodnm/ibflex/internal/domain"
)

// RenderMonthlyText renders the fixed-width text report of a month.
func RenderMonthlyText(m domain.MonthlyReport) string {
	s := m.Statistics
	var b strings.Builder

	fmt.Fprintf(&b, "MONTHLY TRADING REPORT - %s %d\n", m.MonthName, m.Year)
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	fmt.Fprintf(&b, "Account: %s\n", m.Account)
	fmt.Fprintf(&b, "Generated: %s\n\n", m.ExportDate)

	b.WriteString("PERFORMANCE SUMMARY\n")
	b.WriteString(strings.Repeat("-", 30) + "\n")
	fmt.Fprintf(&b, "Total Trades:        %10d\n", s.TotalTrades)
	fmt.Fprintf(&b, "Trading Days:        %10d\n", s.TradingDays)
	fmt.Fprintf(&b, "Gross P&L:          $%10.2f\n", s.TotalPnL)
	fmt.Fprintf(&b, "Commissions:        $%10.2f\n", s.TotalCommission)
	fmt.Fprintf(&b, "Net P&L:            $%10.2f\n\n", s.NetPnL)

	b.WriteString("RISK METRICS\n")
	b.WriteString(strings.Repeat("-", 30) + "\n")
	fmt.Fprintf(&b, "Avg Daily P&L:      $%10.2f\n", s.AvgDailyPnL)
	fmt.Fprintf(&b, "Consistency:         %10.1f%%\n", s.Consistency*100)
	fmt.Fprintf(&b, "Sharpe Ratio:        %10.2f\n", s.SharpeRatio)
	fmt.Fprintf(&b, "Profit Factor:       %10.2f\n", s.ProfitFactor)
	fmt.Fprintf(&b, "Worst Drawdown:     $%10.2f\n", s.WorstDrawdown)
	fmt.Fprintf(&b, "Best Win Streak:     %10d\n", s.BestStreak)
	fmt.Fprintf(&b, "Max Losing Streak:   %10d\n", s.MaxConsecutiveLosses)

	return b.String()
}
