package domain

import "math"

// DashboardSource is written into the dashboard metadata.
const DashboardSource = "IBKR Flex Web Service"

// DashboardDay is one point of the dashboard time series.
type DashboardDay struct {
	Trades  int     `json:"trades"`
	PnL     float64 `json:"pnl"`
	WinRate float64 `json:"winRate"`
}

// YearStats summarises every trading day seen by the dashboard.
type YearStats struct {
	TradingDays   int     `json:"trading_days"`
	TotalTrades   int     `json:"total_trades"`
	TotalPnL      float64 `json:"total_pnl"`
	WinRate       float64 `json:"win_rate"` // % of trading days with profit
	ProfitDays    int     `json:"profit_days"`
	ProfitDaysPct float64 `json:"profit_days_pct"`
	LossDays      int     `json:"loss_days"`
	LossDaysPct   float64 `json:"loss_days_pct"`
	BestDay       string  `json:"best_day"`
	BestDayPnL    float64 `json:"best_day_pnl"`
	WorstDay      string  `json:"worst_day"`
	WorstDayPnL   float64 `json:"worst_day_pnl"`
	DailyAvg      float64 `json:"daily_avg"`
}

// DashboardMetadata describes how the dashboard data was produced.
type DashboardMetadata struct {
	LastUpdate      string           `json:"lastUpdate"`
	ExportedTrades  int              `json:"exportedTrades"`
	Source          string           `json:"source"`
	CostBasisFilter *CostBasisFilter `json:"costBasisFilter,omitempty"`
	RunID           string           `json:"runId,omitempty"`
}

// Dashboard is the visualization data file.
type Dashboard struct {
	YearData  map[string]DashboardDay `json:"yearData"`
	YearStats YearStats               `json:"yearStats"`
	Metadata  DashboardMetadata       `json:"metadata"`
}

// DashboardBuilder accumulates daily reports into a Dashboard.
// Days without trades are ignored.
type DashboardBuilder struct {
	days        map[string]DashboardDay
	tradingDays int
	totalTrades int
	totalPnL    float64
	profitDays  int
	lossDays    int
	bestDate    string
	bestPnL     float64
	worstDate   string
	worstPnL    float64
}

// NewDashboardBuilder creates an empty builder.
func NewDashboardBuilder() *DashboardBuilder {
	return &DashboardBuilder{
		days:     make(map[string]DashboardDay),
		bestPnL:  math.Inf(-1),
		worstPnL: math.Inf(1),
	}
}

// Add folds one daily report into the dashboard.
func (b *DashboardBuilder) Add(r DailyReport) {
	if !r.HasTrades() {
		return
	}
	pnl := r.Summary.NetPnL

	b.tradingDays++
	b.totalTrades += r.Summary.TotalTrades
	b.totalPnL += pnl

	// Day win rate is winners over all trades, zero-P&L trades included.
	winRate := 0.0
	if len(r.Trades) > 0 {
		winners := 0
		for _, t := range r.Trades {
			if t.RealizedPnL() > 0 {
				winners++
			}
		}
		winRate = float64(winners) / float64(len(r.Trades))
	}

	b.days[r.Date] = DashboardDay{
		Trades:  r.Summary.TotalTrades,
		PnL:     Round2(pnl),
		WinRate: winRate,
	}

	if pnl > b.bestPnL {
		b.bestDate, b.bestPnL = r.Date, pnl
	}
	if pnl < b.worstPnL {
		b.worstDate, b.worstPnL = r.Date, pnl
	}
	switch {
	case pnl > 0:
		b.profitDays++
	case pnl < 0:
		b.lossDays++
	}
}

// Build returns the dashboard for everything added so far.
func (b *DashboardBuilder) Build(meta DashboardMetadata) Dashboard {
	stats := YearStats{
		TradingDays: b.tradingDays,
		TotalTrades: b.totalTrades,
		TotalPnL:    Round2(b.totalPnL),
		ProfitDays:  b.profitDays,
		LossDays:    b.lossDays,
		BestDay:     b.bestDate,
		WorstDay:    b.worstDate,
	}
	if b.tradingDays > 0 {
		days := float64(b.tradingDays)
		stats.WinRate = Round2(float64(b.profitDays) / days * 100)
		stats.ProfitDaysPct = Round2(float64(b.profitDays) / days * 100)
		stats.LossDaysPct = Round2(float64(b.lossDays) / days * 100)
		stats.DailyAvg = Round2(b.totalPnL / days)
	}
	if b.bestDate != "" {
		stats.BestDayPnL = Round2(b.bestPnL)
	}
	if b.worstDate != "" {
		stats.WorstDayPnL = Round2(b.worstPnL)
	}

	meta.ExportedTrades = b.totalTrades
	if meta.Source == "" {
		meta.Source = DashboardSource
	}
	return Dashboard{YearData: b.days, YearStats: stats, Metadata: meta}
}
