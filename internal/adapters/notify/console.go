package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/ibflex/internal/domain"
)

// Console implementa ports.Notifier.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// DailyExported imprime una línea por día exportado y, en modo tabla,
// el detalle por día y las cuentas del reporte.
func (c *Console) DailyExported(_ context.Context, run domain.DailyRun) error {
	fmt.Fprintf(c.out, "Found %d trades\n", run.TotalFetched)
	if run.Filter.Active() {
		kept := 0
		for _, r := range run.Reports {
			kept += len(r.Trades)
		}
		fmt.Fprintf(c.out, "Filtered trades with %s: kept %d of %d\n", run.Filter, kept, run.TotalFetched)
	}

	for _, r := range run.Reports {
		if !r.HasTrades() {
			fmt.Fprintf(c.out, "No trades for %s\n", r.Date)
			continue
		}
		fmt.Fprintf(c.out, "Exported %s: %d trades, P&L: $%.2f\n", r.Date, r.Summary.TotalTrades, r.Summary.NetPnL)
	}
	fmt.Fprintf(c.out, "Exported %d open positions\n", run.Positions)
	if run.CashExported {
		fmt.Fprintln(c.out, "Exported cash report")
	}

	if c.table {
		c.printDailyTable(run.Reports)
		c.printAccounts(run.Accounts)
	}
	return nil
}

func (c *Console) printDailyTable(reports []domain.DailyReport) {
	if len(reports) == 0 {
		return
	}
	table := tablewriter.NewWriter(c.out)
	table.Header("Date", "Account", "Trades", "W/L", "Win%", "Gross", "Comm", "Net", "Symbols")
	for _, r := range reports {
		s := r.Summary
		table.Append(
			r.Date,
			r.Account,
			strconv.Itoa(s.TotalTrades),
			fmt.Sprintf("%d/%d", s.Winners, s.Losers),
			fmt.Sprintf("%.1f%%", s.WinRate*100),
			money(s.TotalPnL),
			money(s.TotalCommission),
			money(s.NetPnL),
			truncate(strings.Join(s.Symbols, ","), 30),
		)
	}
	table.Render()
}

func (c *Console) printAccounts(accounts []domain.AccountInfo) {
	for _, acc := range accounts {
		fmt.Fprintf(c.out, "\nAccount: %s\n", acc.AccountID)
		fmt.Fprintf(c.out, "   Type: %s\n", orUnknown(acc.Type))
		fmt.Fprintf(c.out, "   Currency: %s\n", acc.Currency)
		fmt.Fprintf(c.out, "   Last traded: %s\n", orUnknown(acc.LastTradedDate))
	}
}

// WeeklyGenerated imprime el resumen de la semana.
func (c *Console) WeeklyGenerated(_ context.Context, w domain.WeeklyReport) error {
	s := w.Statistics
	fmt.Fprintf(c.out, "Weekly summary %d-W%02d (%s to %s)\n", w.Year, w.WeekNumber, w.WeekStart, w.WeekEnd)
	fmt.Fprintf(c.out, "   - Total trades: %d\n", s.TotalTrades)
	fmt.Fprintf(c.out, "   - Net P&L: $%.2f\n", s.NetPnL)
	fmt.Fprintf(c.out, "   - Win rate: %.1f%%\n", s.WinRate*100)
	fmt.Fprintf(c.out, "   - Trading days: %d\n", s.TradingDays)
	if w.Patterns.MostTraded.Symbol != "" {
		fmt.Fprintf(c.out, "   - Most traded: %s (%d trades)\n", w.Patterns.MostTraded.Symbol, w.Patterns.MostTraded.Count)
	}

	if c.table {
		c.printSymbolTable(w.Patterns)
		c.printHourTable(w.Patterns)
	}
	return nil
}

func (c *Console) printSymbolTable(p domain.Patterns) {
	if len(p.BySymbol) == 0 {
		return
	}
	symbols := make([]string, 0, len(p.BySymbol))
	for s := range p.BySymbol {
		symbols = append(symbols, s)
	}
	// Más operados primero.
	sort.Slice(symbols, func(i, j int) bool {
		a, b := p.BySymbol[symbols[i]], p.BySymbol[symbols[j]]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return symbols[i] < symbols[j]
	})

	table := tablewriter.NewWriter(c.out)
	table.Header("Symbol", "Trades", "P&L", "Volume", "Comm")
	for _, s := range symbols {
		b := p.BySymbol[s]
		table.Append(s, strconv.Itoa(b.Count), money(b.PnL), money(b.Volume), money(b.Commission))
	}
	table.Render()
}

func (c *Console) printHourTable(p domain.Patterns) {
	if len(p.ByHour) == 0 {
		return
	}
	hours := make([]int, 0, len(p.ByHour))
	for h := range p.ByHour {
		hours = append(hours, h)
	}
	sort.Ints(hours)

	table := tablewriter.NewWriter(c.out)
	table.Header("Hour", "Trades", "P&L", "Volume")
	for _, h := range hours {
		b := p.ByHour[h]
		table.Append(fmt.Sprintf("%02d:00", h), strconv.Itoa(b.Count), money(b.PnL), money(b.Volume))
	}
	table.Render()
}

// MonthlyGenerated imprime el resumen del mes.
func (c *Console) MonthlyGenerated(_ context.Context, m domain.MonthlyReport) error {
	s := m.Statistics
	fmt.Fprintf(c.out, "Monthly summary %s %d\n", m.MonthName, m.Year)
	fmt.Fprintf(c.out, "   - Total trades: %d\n", s.TotalTrades)
	fmt.Fprintf(c.out, "   - Net P&L: $%.2f\n", s.NetPnL)
	fmt.Fprintf(c.out, "   - Trading days: %d\n", s.TradingDays)
	fmt.Fprintf(c.out, "   - Consistency: %.1f%%\n", m.Analysis.Consistency*100)

	if c.table {
		table := tablewriter.NewWriter(c.out)
		table.Header("Metric", "Value")
		table.Append("Avg daily P&L", money(s.AvgDailyPnL))
		table.Append("Sharpe ratio", fmt.Sprintf("%.2f", s.SharpeRatio))
		table.Append("Profit factor", fmt.Sprintf("%.2f", s.ProfitFactor))
		table.Append("Worst drawdown", money(s.WorstDrawdown))
		table.Append("Best win streak", strconv.Itoa(s.BestStreak))
		table.Append("Max losing streak", strconv.Itoa(s.MaxConsecutiveLosses))
		table.Append("Expectancy", money(m.Analysis.Expectancy))
		table.Append("Weeks", strconv.Itoa(len(m.WeeklyData)))
		table.Render()
	}
	return nil
}

// DashboardGenerated imprime el resumen del dashboard.
func (c *Console) DashboardGenerated(_ context.Context, path string, d domain.Dashboard) error {
	s := d.YearStats
	fmt.Fprintf(c.out, "Dashboard data generated: %s\n", path)
	fmt.Fprintf(c.out, "   - Trading days: %d\n", s.TradingDays)
	fmt.Fprintf(c.out, "   - Total trades: %d\n", s.TotalTrades)
	fmt.Fprintf(c.out, "   - Total P&L: $%.2f\n", s.TotalPnL)
	fmt.Fprintf(c.out, "   - Win rate: %.1f%%\n", s.WinRate)

	if c.table && s.TradingDays > 0 {
		table := tablewriter.NewWriter(c.out)
		table.Header("", "Date", "P&L")
		table.Append("Best day", s.BestDay, money(s.BestDayPnL))
		table.Append("Worst day", s.WorstDay, money(s.WorstDayPnL))
		table.Render()
	}
	return nil
}

// --- helpers ---

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func orUnknown(s string) string {
	if s == "" {
		return domain.Unknown
	}
	return s
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
