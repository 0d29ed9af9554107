package domain

import (
	"math"
	"sort"
)

// tradingDaysPerYear annualizes the Sharpe-like ratio.
const tradingDaysPerYear = 252

// MonthlyAnalysis holds the unrounded risk figures of a month.
type MonthlyAnalysis struct {
	TradingDays          int     `json:"tradingDays"`
	TotalDays            int     `json:"totalDays"`
	Consistency          float64 `json:"consistency"`
	BestStreak           int     `json:"bestStreak"`
	CurrentStreak        int     `json:"currentStreak"`
	WorstDrawdown        float64 `json:"worstDrawdown"`
	AvgDailyPnL          float64 `json:"avgDailyPnL"`
	StdDailyPnL          float64 `json:"stdDailyPnL"`
	SharpeRatio          float64 `json:"sharpeRatio"`
	ProfitFactor         float64 `json:"profitFactor"`
	Expectancy           float64 `json:"expectancy"`
	MaxConsecutiveLosses int     `json:"maxConsecutiveLosses"`
}

// MonthlyStatistics is the rounded headline block of a monthly report.
type MonthlyStatistics struct {
	TotalTrades          int     `json:"totalTrades"`
	TotalPnL             float64 `json:"totalPnL"`
	TotalCommission      float64 `json:"totalCommission"`
	NetPnL               float64 `json:"netPnL"`
	TradingDays          int     `json:"tradingDays"`
	AvgDailyPnL          float64 `json:"avgDailyPnL"`
	Consistency          float64 `json:"consistency"`
	SharpeRatio          float64 `json:"sharpeRatio"`
	ProfitFactor         float64 `json:"profitFactor"`
	WorstDrawdown        float64 `json:"worstDrawdown"`
	BestStreak           int     `json:"bestStreak"`
	MaxConsecutiveLosses int     `json:"maxConsecutiveLosses"`
}

// MonthlyReport is the content of monthly/{YYYY}-{MM}.json.
type MonthlyReport struct {
	ExportDate string            `json:"exportDate"`
	Account    string            `json:"account"`
	Year       int               `json:"year"`
	Month      int               `json:"month"`
	MonthName  string            `json:"monthName"`
	Statistics MonthlyStatistics `json:"statistics"`
	Analysis   MonthlyAnalysis   `json:"analysis"`
	WeeklyData []WeeklyReport    `json:"weeklyData"`
	Metadata   ReportMetadata    `json:"metadata"`
}

// DailyNetPnLs returns the net P&L of each trading day, ordered by date.
// Days without trades are skipped.
func DailyNetPnLs(days []DailyReport) []float64 {
	sorted := make([]DailyReport, len(days))
	copy(sorted, days)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	var pnls []float64
	for _, d := range sorted {
		if d.HasTrades() {
			pnls = append(pnls, d.Summary.NetPnL)
		}
	}
	return pnls
}

// DrawdownSeries returns, for each step of the daily P&L sequence, the worst
// peak-to-trough decline seen so far on the cumulative P&L. The peak starts
// at zero, so a losing first day is already a drawdown. The series never
// decreases.
func DrawdownSeries(pnls []float64) []float64 {
	series := make([]float64, len(pnls))
	var cumulative, peak, worst float64
	for i, pnl := range pnls {
		cumulative += pnl
		peak = math.Max(peak, cumulative)
		worst = math.Max(worst, peak-cumulative)
		series[i] = worst
	}
	return series
}

// AnalyzeMonth computes streaks, drawdown and risk ratios over the trading
// days of a month, and expectancy over its individual trades.
//
// Any non-positive day breaks a win streak and extends the losing streak.
// The Sharpe-like ratio is mean·√252 / (std·√252); the factors cancel, so it
// equals mean/std.
func AnalyzeMonth(trades []Trade, days []DailyReport) MonthlyAnalysis {
	a := MonthlyAnalysis{TotalDays: len(days)}
	pnls := DailyNetPnLs(days)
	a.TradingDays = len(pnls)

	var winStreak, lossStreak int
	for _, pnl := range pnls {
		if pnl > 0 {
			winStreak++
			lossStreak = 0
			a.BestStreak = max(a.BestStreak, winStreak)
		} else {
			winStreak = 0
			lossStreak++
			a.MaxConsecutiveLosses = max(a.MaxConsecutiveLosses, lossStreak)
		}
	}
	a.CurrentStreak = winStreak

	if dd := DrawdownSeries(pnls); len(dd) > 0 {
		a.WorstDrawdown = dd[len(dd)-1]
	}

	if len(pnls) > 0 {
		a.AvgDailyPnL = mean(pnls)
		a.StdDailyPnL = stddev(pnls, a.AvgDailyPnL)
		if a.StdDailyPnL > 0 {
			annual := math.Sqrt(tradingDaysPerYear)
			a.SharpeRatio = (a.AvgDailyPnL * annual) / (a.StdDailyPnL * annual)
		}

		positive := 0
		for _, pnl := range pnls {
			if pnl > 0 {
				positive++
			}
		}
		a.Consistency = float64(positive) / float64(len(pnls))
	}

	a.ProfitFactor = ProfitFactor(pnls)
	a.Expectancy = Expectancy(trades)
	return a
}

// ProfitFactor is the sum of winning days over the absolute sum of losing
// days, or 0 when there is no losing day.
func ProfitFactor(pnls []float64) float64 {
	var wins, losses float64
	for _, pnl := range pnls {
		switch {
		case pnl > 0:
			wins += pnl
		case pnl < 0:
			losses += pnl
		}
	}
	losses = math.Abs(losses)
	if losses == 0 {
		return 0
	}
	return wins / losses
}

// Expectancy is winRate·avgWin − (1−winRate)·|avgLoss| over individual
// trades. Zero-P&L trades are ignored.
func Expectancy(trades []Trade) float64 {
	var wins, losses []float64
	for _, t := range trades {
		pnl := t.RealizedPnL()
		switch {
		case pnl > 0:
			wins = append(wins, pnl)
		case pnl < 0:
			losses = append(losses, pnl)
		}
	}
	if len(wins)+len(losses) == 0 {
		return 0
	}

	avgWin, avgLoss := 0.0, 0.0
	if len(wins) > 0 {
		avgWin = mean(wins)
	}
	if len(losses) > 0 {
		avgLoss = mean(losses)
	}
	winRate := WinRate(len(wins), len(losses))
	return winRate*avgWin - (1-winRate)*math.Abs(avgLoss)
}

// CalculateMonthlyStatistics sums the daily summaries of the month and
// attaches the rounded risk figures.
func CalculateMonthlyStatistics(days []DailyReport, a MonthlyAnalysis) MonthlyStatistics {
	var s MonthlyStatistics
	var totalPnL, totalCommission float64
	for _, d := range days {
		totalPnL += d.Summary.TotalPnL
		totalCommission += d.Summary.TotalCommission
		s.TotalTrades += d.Summary.TotalTrades
	}

	s.TotalPnL = Round2(totalPnL)
	s.TotalCommission = Round2(totalCommission)
	s.NetPnL = Round2(totalPnL - totalCommission)
	s.TradingDays = a.TradingDays
	s.AvgDailyPnL = Round2(a.AvgDailyPnL)
	s.Consistency = Round4(a.Consistency)
	s.SharpeRatio = Round2(a.SharpeRatio)
	s.ProfitFactor = Round2(a.ProfitFactor)
	s.WorstDrawdown = Round2(a.WorstDrawdown)
	s.BestStreak = a.BestStreak
	s.MaxConsecutiveLosses = a.MaxConsecutiveLosses
	return s
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stddev is the population standard deviation.
func stddev(xs []float64, mu float64) float64 {
	var sq float64
	for _, x := range xs {
		sq += (x - mu) * (x - mu)
	}
	return math.Sqrt(sq / float64(len(xs)))
}
