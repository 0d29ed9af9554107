package domain

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// DailySummary aggregates the trades of one day.
type DailySummary struct {
	TotalTrades     int            `json:"totalTrades"`
	TotalPnL        float64        `json:"totalPnL"`
	TotalCommission float64        `json:"totalCommission"`
	NetPnL          float64        `json:"netPnL"`
	WinRate         float64        `json:"winRate"`
	Winners         int            `json:"winners"`
	Losers          int            `json:"losers"`
	Symbols         []string       `json:"symbols"`
	AssetCategories map[string]int `json:"assetCategories"`
}

// DailyReport is the content of daily/{date}.json.
type DailyReport struct {
	ExportDate string       `json:"exportDate"`
	Account    string       `json:"account"`
	Date       string       `json:"date"`
	Trades     []Trade      `json:"trades"`
	Summary    DailySummary `json:"summary"`
}

// HasTrades reports whether the day counts as a trading day.
func (r DailyReport) HasTrades() bool {
	return r.Summary.TotalTrades > 0
}

// PositionsReport is the content of daily/{date}_positions.json.
type PositionsReport struct {
	ExportDate string     `json:"exportDate"`
	Date       string     `json:"date"`
	Positions  []Position `json:"positions"`
	Count      int        `json:"count"`
}

// CashReportFile is the content of daily/{date}_cash.json.
type CashReportFile struct {
	ExportDate string     `json:"exportDate"`
	Date       string     `json:"date"`
	CashReport CashReport `json:"cashReport"`
}

// DailyRun describes what one daily export produced.
type DailyRun struct {
	Reports       []DailyReport
	TotalFetched  int // trades in the statement before filtering
	Filter        CostBasisFilter
	Positions     int
	CashExported  bool
	Placeholder   bool // today had no trades and an empty file was written
	Accounts      []AccountInfo
	ForeignTrades int // trades not in the base currency, summed as-is
}

// CalculateDailySummary computes the summary of one day's trades.
// Trades with zero P&L count in TotalTrades but neither as winner nor loser.
func CalculateDailySummary(trades []Trade) DailySummary {
	summary := DailySummary{
		Symbols:         []string{},
		AssetCategories: map[string]int{},
	}
	if len(trades) == 0 {
		return summary
	}

	var totalPnL, totalCommission float64
	symbols := make(map[string]struct{})
	for _, t := range trades {
		pnl := t.RealizedPnL()
		totalPnL += pnl
		totalCommission += t.Commission

		switch {
		case pnl > 0:
			summary.Winners++
		case pnl < 0:
			summary.Losers++
		}

		if t.Symbol != "" {
			symbols[t.Symbol] = struct{}{}
		}
		summary.AssetCategories[t.Category()]++
	}

	for s := range symbols {
		summary.Symbols = append(summary.Symbols, s)
	}
	sort.Strings(summary.Symbols)

	summary.TotalTrades = len(trades)
	summary.TotalPnL = Round2(totalPnL)
	summary.TotalCommission = Round2(totalCommission)
	summary.NetPnL = Round2(totalPnL - totalCommission)
	summary.WinRate = Round4(WinRate(summary.Winners, summary.Losers))
	return summary
}

// WinRate is winners / (winners + losers), or 0 without decided trades.
func WinRate(winners, losers int) float64 {
	if winners+losers == 0 {
		return 0
	}
	return float64(winners) / float64(winners+losers)
}

// GroupByDate buckets trades by normalized trade date. Trades without any
// date are dropped.
func GroupByDate(trades []Trade) map[string][]Trade {
	byDate := make(map[string][]Trade)
	for _, t := range trades {
		date := t.Date()
		if date == "" {
			continue
		}
		byDate[date] = append(byDate[date], t)
	}
	return byDate
}

// SortedDates returns the keys of a GroupByDate result in ascending order.
func SortedDates(byDate map[string][]Trade) []string {
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// Round2 rounds a monetary value to cents, half away from zero.
func Round2(v float64) float64 { return round(v, 2) }

// Round4 rounds a ratio to four decimals, half away from zero.
func Round4(v float64) float64 { return round(v, 4) }

func round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
