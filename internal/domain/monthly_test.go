package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func dailyReport(date string, trades ...Trade) DailyReport {
	return DailyReport{Date: date, Account: "U*****67", Trades: trades, Summary: CalculateDailySummary(trades)}
}

// --- DrawdownSeries ---

func TestDrawdownSeries_MonotoneAndMaxPeakMinusCumulative(t *testing.T) {
	pnls := []float64{100, -30, 50, -200, 40, 300, -10}
	series := DrawdownSeries(pnls)

	assert.Len(t, series, len(pnls))
	for i := 1; i < len(series); i++ {
		assert.GreaterOrEqual(t, series[i], series[i-1])
	}

	// Brute force max(peak - cumulative).
	var cum, peak, want float64
	for _, p := range pnls {
		cum += p
		peak = math.Max(peak, cum)
		want = math.Max(want, peak-cum)
	}
	assert.InDelta(t, want, series[len(series)-1], 1e-9)
	assert.InDelta(t, 200.0, series[len(series)-1], 1e-9)
}

func TestDrawdownSeries_PeakStartsAtZero(t *testing.T) {
	assert.Equal(t, []float64{25}, DrawdownSeries([]float64{-25}))
	assert.Empty(t, DrawdownSeries(nil))
}

// --- AnalyzeMonth ---

func monthFixture() []DailyReport {
	return []DailyReport{
		dailyReport("2024-03-04", trade("AAPL", 100, 0)),
		dailyReport("2024-03-01", trade("AAPL", 50, 0)),
		dailyReport("2024-03-05", trade("MSFT", -30, 0)),
		dailyReport("2024-03-06"), // placeholder, not a trading day
		dailyReport("2024-03-07", trade("MSFT", 0, 0)),
		dailyReport("2024-03-08", trade("TSLA", 40, 0), trade("TSLA", -10, 0)),
	}
}

func allTrades(days []DailyReport) []Trade {
	var out []Trade
	for _, d := range days {
		out = append(out, d.Trades...)
	}
	return out
}

func TestAnalyzeMonth_Streaks(t *testing.T) {
	days := monthFixture()
	a := AnalyzeMonth(allTrades(days), days)

	// Ordered net P&L: 50, 100, -30, 0, 30
	assert.Equal(t, 6, a.TotalDays)
	assert.Equal(t, 5, a.TradingDays)
	assert.Equal(t, 2, a.BestStreak)
	assert.Equal(t, 2, a.MaxConsecutiveLosses) // zero day extends the losing streak
	assert.Equal(t, 1, a.CurrentStreak)
	assert.InDelta(t, 30.0, a.WorstDrawdown, 1e-9)
	assert.InDelta(t, 0.6, a.Consistency, 1e-9)
}

func TestAnalyzeMonth_RiskRatios(t *testing.T) {
	days := monthFixture()
	a := AnalyzeMonth(allTrades(days), days)

	pnls := []float64{50, 100, -30, 0, 30}
	mu := 30.0
	var sq float64
	for _, p := range pnls {
		sq += (p - mu) * (p - mu)
	}
	std := math.Sqrt(sq / 5)

	assert.InDelta(t, mu, a.AvgDailyPnL, 1e-9)
	assert.InDelta(t, std, a.StdDailyPnL, 1e-9)
	assert.InDelta(t, mu/std, a.SharpeRatio, 1e-9)
	assert.InDelta(t, 180.0/30.0, a.ProfitFactor, 1e-9)

	// Trades: wins 50,100,40 losses -30,-10; zero ignored.
	winRate := 3.0 / 5.0
	want := winRate*(190.0/3) - (1-winRate)*20
	assert.InDelta(t, want, a.Expectancy, 1e-9)
}

func TestAnalyzeMonth_NoTradingDays(t *testing.T) {
	a := AnalyzeMonth(nil, []DailyReport{dailyReport("2024-03-01")})
	assert.Equal(t, MonthlyAnalysis{TotalDays: 1}, a)
}

func TestAnalyzeMonth_ConstantPnLHasNoSharpe(t *testing.T) {
	days := []DailyReport{
		dailyReport("2024-03-01", trade("A", 10, 0)),
		dailyReport("2024-03-04", trade("A", 10, 0)),
	}
	a := AnalyzeMonth(allTrades(days), days)
	assert.Equal(t, 0.0, a.SharpeRatio)
	assert.Equal(t, 0.0, a.ProfitFactor)
}

func TestProfitFactor_NoLosses(t *testing.T) {
	assert.Equal(t, 0.0, ProfitFactor([]float64{10, 20}))
	assert.Equal(t, 3.0, ProfitFactor([]float64{30, -10}))
}

func TestExpectancy_NoDecidedTrades(t *testing.T) {
	assert.Equal(t, 0.0, Expectancy([]Trade{{PnL: 0}}))
}

func TestCalculateMonthlyStatistics(t *testing.T) {
	days := monthFixture()
	days[0].Trades[0].Commission = 1.25
	days[0].Summary = CalculateDailySummary(days[0].Trades)

	a := AnalyzeMonth(allTrades(days), days)
	s := CalculateMonthlyStatistics(days, a)

	assert.Equal(t, 6, s.TotalTrades)
	assert.InDelta(t, 150.0, s.TotalPnL, 1e-9)
	assert.InDelta(t, 1.25, s.TotalCommission, 1e-9)
	assert.InDelta(t, 148.75, s.NetPnL, 1e-9)
	assert.Equal(t, a.TradingDays, s.TradingDays)
	assert.Equal(t, Round4(a.Consistency), s.Consistency)
	assert.Equal(t, Round2(a.SharpeRatio), s.SharpeRatio)
}
