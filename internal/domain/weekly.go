package domain

import (
	"sort"
	"time"
)

// Bucket accumulates trades sharing a key (hour, asset category).
type Bucket struct {
	Count  int     `json:"count"`
	PnL    float64 `json:"pnl"`
	Volume float64 `json:"volume"`
}

// SymbolBucket is a Bucket that also tracks commission.
type SymbolBucket struct {
	Count      int     `json:"count"`
	PnL        float64 `json:"pnl"`
	Volume     float64 `json:"volume"`
	Commission float64 `json:"commission"`
}

// WeekdayBucket accumulates trades of one weekday.
type WeekdayBucket struct {
	Count int     `json:"count"`
	PnL   float64 `json:"pnl"`
}

// TradeExtreme is the largest win or loss with the trade that made it.
type TradeExtreme struct {
	PnL   float64 `json:"pnl"`
	Trade *Trade  `json:"trade"`
}

// MostTraded is the symbol with the most executions.
type MostTraded struct {
	Symbol string `json:"symbol"`
	Count  int    `json:"count"`
}

// Patterns is the behavioural breakdown of a set of trades.
type Patterns struct {
	ByHour          map[int]*Bucket           `json:"byHour"`
	BySymbol        map[string]*SymbolBucket  `json:"bySymbol"`
	ByAssetCategory map[string]*Bucket        `json:"byAssetCategory"`
	ByDayOfWeek     map[string]*WeekdayBucket `json:"byDayOfWeek"`
	LargestWin      TradeExtreme              `json:"largestWin"`
	LargestLoss     TradeExtreme              `json:"largestLoss"`
	MostTraded      MostTraded                `json:"mostTraded"`
	TradingDays     []string                  `json:"tradingDays"`
	TotalVolume     float64                   `json:"totalVolume"`
	AvgTradeSize    float64                   `json:"avgTradeSize"`
}

// AnalyzePatterns buckets trades by hour, symbol, asset category and
// weekday. Trades with an unparsable time or date are left out of the hour
// and weekday buckets only.
func AnalyzePatterns(trades []Trade) Patterns {
	p := Patterns{
		ByHour:          map[int]*Bucket{},
		BySymbol:        map[string]*SymbolBucket{},
		ByAssetCategory: map[string]*Bucket{},
		ByDayOfWeek:     map[string]*WeekdayBucket{},
		TradingDays:     []string{},
	}

	days := make(map[string]struct{})
	symbolCounts := make(map[string]int)
	var symbolOrder []string

	for i := range trades {
		t := trades[i]
		pnl := t.RealizedPnL()
		volume := t.Notional()

		if hour, ok := t.Hour(); ok {
			b := p.ByHour[hour]
			if b == nil {
				b = &Bucket{}
				p.ByHour[hour] = b
			}
			b.Count++
			b.PnL += pnl
			b.Volume += volume
		}

		symbol := t.Symbol
		if symbol == "" {
			symbol = Unknown
		}
		sb := p.BySymbol[symbol]
		if sb == nil {
			sb = &SymbolBucket{}
			p.BySymbol[symbol] = sb
		}
		sb.Count++
		sb.PnL += pnl
		sb.Volume += volume
		sb.Commission += t.Commission
		if symbolCounts[symbol] == 0 {
			symbolOrder = append(symbolOrder, symbol)
		}
		symbolCounts[symbol]++

		category := t.Category()
		cb := p.ByAssetCategory[category]
		if cb == nil {
			cb = &Bucket{}
			p.ByAssetCategory[category] = cb
		}
		cb.Count++
		cb.PnL += pnl
		cb.Volume += volume

		if t.TradeDate != "" {
			if d, err := ParseDate(t.TradeDate); err == nil {
				name := d.Weekday().String()
				wb := p.ByDayOfWeek[name]
				if wb == nil {
					wb = &WeekdayBucket{}
					p.ByDayOfWeek[name] = wb
				}
				wb.Count++
				wb.PnL += pnl
				days[FormatDate(d)] = struct{}{}
			}
		}

		if pnl > p.LargestWin.PnL {
			p.LargestWin = TradeExtreme{PnL: pnl, Trade: &trades[i]}
		}
		if pnl < p.LargestLoss.PnL {
			p.LargestLoss = TradeExtreme{PnL: pnl, Trade: &trades[i]}
		}

		p.TotalVolume += volume
	}

	// First symbol to reach the highest count wins ties.
	for _, s := range symbolOrder {
		if symbolCounts[s] > p.MostTraded.Count {
			p.MostTraded = MostTraded{Symbol: s, Count: symbolCounts[s]}
		}
	}

	if len(trades) > 0 {
		p.AvgTradeSize = p.TotalVolume / float64(len(trades))
	}

	for d := range days {
		p.TradingDays = append(p.TradingDays, d)
	}
	sort.Strings(p.TradingDays)
	return p
}

// DaySummary is a daily summary tagged with its date and account, as
// embedded in weekly reports.
type DaySummary struct {
	DailySummary
	Date    string `json:"date"`
	Account string `json:"account"`
}

// DayPnL names the day of a best/worst result.
type DayPnL struct {
	Date string  `json:"date"`
	PnL  float64 `json:"pnl"`
}

// WeekStatistics aggregates the trades and daily summaries of a week.
type WeekStatistics struct {
	TotalTrades     int     `json:"totalTrades"`
	TotalPnL        float64 `json:"totalPnL"`
	TotalCommission float64 `json:"totalCommission"`
	NetPnL          float64 `json:"netPnL"`
	WinRate         float64 `json:"winRate"`
	Winners         int     `json:"winners"`
	Losers          int     `json:"losers"`
	AvgDailyPnL     float64 `json:"avgDailyPnL"`
	BestDay         *DayPnL `json:"bestDay"`
	WorstDay        *DayPnL `json:"worstDay"`
	Consistency     float64 `json:"consistency"`
	TradingDays     int     `json:"tradingDays"`
}

// CalculateWeekStatistics computes week totals from the individual trades and
// day-level figures (best/worst day, consistency) from the daily summaries.
// AvgDailyPnL is gross P&L per trading day.
func CalculateWeekStatistics(trades []Trade, days []DaySummary) WeekStatistics {
	var stats WeekStatistics
	if len(trades) == 0 {
		return stats
	}

	var totalPnL, totalCommission float64
	for _, t := range trades {
		pnl := t.RealizedPnL()
		totalPnL += pnl
		totalCommission += t.Commission
		switch {
		case pnl > 0:
			stats.Winners++
		case pnl < 0:
			stats.Losers++
		}
	}

	positiveDays := 0
	for _, d := range days {
		if d.TotalTrades <= 0 {
			continue
		}
		stats.TradingDays++
		if stats.BestDay == nil || d.NetPnL > stats.BestDay.PnL {
			stats.BestDay = &DayPnL{Date: d.Date, PnL: d.NetPnL}
		}
		if stats.WorstDay == nil || d.NetPnL < stats.WorstDay.PnL {
			stats.WorstDay = &DayPnL{Date: d.Date, PnL: d.NetPnL}
		}
		if d.NetPnL > 0 {
			positiveDays++
		}
	}

	stats.TotalTrades = len(trades)
	stats.TotalPnL = Round2(totalPnL)
	stats.TotalCommission = Round2(totalCommission)
	stats.NetPnL = Round2(totalPnL - totalCommission)
	stats.WinRate = Round4(WinRate(stats.Winners, stats.Losers))
	if stats.TradingDays > 0 {
		stats.AvgDailyPnL = Round2(totalPnL / float64(stats.TradingDays))
		stats.Consistency = Round4(float64(positiveDays) / float64(stats.TradingDays))
	}
	return stats
}

// ReportMetadata is attached to every generated summary.
type ReportMetadata struct {
	GeneratedAt string `json:"generatedAt"`
	Version     string `json:"version"`
	RunID       string `json:"runId,omitempty"`
}

// ReportVersion is the schema version written into report metadata.
const ReportVersion = "1.0"

// WeeklyReport is the content of weekly/{YYYY}-W{NN}.json.
type WeeklyReport struct {
	ExportDate     string         `json:"exportDate"`
	Account        string         `json:"account"`
	Year           int            `json:"year"`
	WeekNumber     int            `json:"weekNumber"`
	WeekStart      string         `json:"weekStart"`
	WeekEnd        string         `json:"weekEnd"`
	Statistics     WeekStatistics `json:"statistics"`
	Patterns       Patterns       `json:"patterns"`
	DailySummaries []DaySummary   `json:"dailySummaries"`
	Metadata       ReportMetadata `json:"metadata"`
}

// OverlapsMonth reports whether the week starts or ends in the given month.
func (w WeeklyReport) OverlapsMonth(year int, month time.Month) bool {
	start, err := ParseDate(w.WeekStart)
	if err != nil {
		return false
	}
	end, err := ParseDate(w.WeekEnd)
	if err != nil {
		return false
	}
	inMonth := start.Month() == month || end.Month() == month
	inYear := start.Year() == year || end.Year() == year
	return inMonth && inYear
}
