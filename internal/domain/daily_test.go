package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trade(symbol string, pnl, commission float64) Trade {
	return Trade{
		AccountID:     "U1234567",
		Symbol:        symbol,
		AssetCategory: "STK",
		PnL:           pnl,
		Commission:    commission,
	}
}

// --- NormalizeDate ---

func TestNormalizeDate_EightDigits(t *testing.T) {
	assert.Equal(t, "2024-03-15", NormalizeDate("20240315"))
	assert.Equal(t, "1999-12-31", NormalizeDate("19991231"))
}

func TestNormalizeDate_PassThrough(t *testing.T) {
	for _, in := range []string{"", "2024-03-15", "2024031", "202403155", "2024a315"} {
		assert.Equal(t, in, NormalizeDate(in), in)
	}
}

// --- CalculateDailySummary ---

func TestCalculateDailySummary_Empty(t *testing.T) {
	s := CalculateDailySummary(nil)
	assert.Equal(t, 0, s.TotalTrades)
	assert.Equal(t, 0.0, s.NetPnL)
	assert.Equal(t, 0.0, s.WinRate)
	assert.NotNil(t, s.Symbols)
	assert.Empty(t, s.Symbols)
	assert.NotNil(t, s.AssetCategories)
}

func TestCalculateDailySummary_ZeroPnLCountsOnlyInTotals(t *testing.T) {
	trades := []Trade{
		trade("AAPL", 100, 1),
		trade("MSFT", -40, 1),
		trade("AAPL", 0, 1),
	}
	s := CalculateDailySummary(trades)

	assert.Equal(t, 3, s.TotalTrades)
	assert.Equal(t, 1, s.Winners)
	assert.Equal(t, 1, s.Losers)
	assert.InDelta(t, 0.5, s.WinRate, 1e-9)
	assert.InDelta(t, 60.0, s.TotalPnL, 1e-9)
	assert.InDelta(t, 3.0, s.TotalCommission, 1e-9)
	assert.InDelta(t, 57.0, s.NetPnL, 1e-9)
	assert.Equal(t, []string{"AAPL", "MSFT"}, s.Symbols)
	assert.Equal(t, map[string]int{"STK": 3}, s.AssetCategories)
}

func TestCalculateDailySummary_Rounding(t *testing.T) {
	s := CalculateDailySummary([]Trade{trade("X", 1.25, 0), trade("Y", 2.0, 0), trade("Z", -1, 0)})
	assert.Equal(t, 2.25, s.TotalPnL)
	assert.Equal(t, 0.6667, s.WinRate)
}

func TestRound_HalfAwayFromZero(t *testing.T) {
	assert.Equal(t, 2.68, Round2(2.675))
	assert.Equal(t, -1.01, Round2(-1.005))
	assert.Equal(t, 0.1235, Round4(0.12345))
	assert.True(t, math.IsNaN(Round2(math.NaN())))
}

func TestCalculateDailySummary_BlankCategory(t *testing.T) {
	tr := trade("X", 1, 0)
	tr.AssetCategory = ""
	s := CalculateDailySummary([]Trade{tr})
	assert.Equal(t, map[string]int{Unknown: 1}, s.AssetCategories)
}

func TestWinRate_NoDecidedTrades(t *testing.T) {
	assert.Equal(t, 0.0, WinRate(0, 0))
	assert.Equal(t, 1.0, WinRate(3, 0))
}

// --- GroupByDate ---

func TestGroupByDate_FallsBackToReportDate(t *testing.T) {
	trades := []Trade{
		{TradeID: "1", TradeDate: "20240311"},
		{TradeID: "2", ReportDate: "20240311"},
		{TradeID: "3", TradeDate: "2024-03-12"},
		{TradeID: "4"},
	}
	byDate := GroupByDate(trades)

	require.Len(t, byDate, 2)
	assert.Len(t, byDate["2024-03-11"], 2)
	assert.Len(t, byDate["2024-03-12"], 1)
	assert.Equal(t, []string{"2024-03-11", "2024-03-12"}, SortedDates(byDate))
}

// --- Obfuscation ---

func TestObfuscateAccount(t *testing.T) {
	assert.Equal(t, "U*****67", ObfuscateAccount("U1234567"))
	assert.Equal(t, "A*CD", ObfuscateAccount("ABCD"))
	assert.Equal(t, "ABC", ObfuscateAccount("ABC"))
	assert.Equal(t, "", ObfuscateAccount(""))
}

func TestObfuscateTrades_DoesNotMutateInput(t *testing.T) {
	in := []Trade{{AccountID: "U1234567"}}
	out := ObfuscateTrades(in)
	assert.Equal(t, "U*****67", out[0].AccountID)
	assert.Equal(t, "U1234567", in[0].AccountID)
}

func TestObfuscatePositions(t *testing.T) {
	out := ObfuscatePositions([]Position{{AccountID: "U7654321"}})
	assert.Equal(t, "U*****21", out[0].AccountID)
}

func TestObfuscateCash_MasksKeys(t *testing.T) {
	cash := CashReport{"U1234567": {"USD": {EndingCash: 10}}}
	out := ObfuscateCash(cash)
	assert.Contains(t, out, "U*****67")
	assert.NotContains(t, out, "U1234567")
	assert.Contains(t, cash, "U1234567")
	assert.Equal(t, 10.0, out["U*****67"]["USD"].EndingCash)
}

// --- CostBasisFilter ---

func TestCostBasisFilter_InclusiveBounds(t *testing.T) {
	min, max := 50.0, 200.0
	f := CostBasisFilter{Min: &min, Max: &max}

	cases := map[float64]bool{30: false, 50: true, 120: true, 200: true, 500: false, -200: true, -30: false}
	for cost, want := range cases {
		assert.Equal(t, want, f.Allows(Trade{Cost: cost}), "cost %v", cost)
	}
}

func TestCostBasisFilter_Apply(t *testing.T) {
	min := 50.0
	f := CostBasisFilter{Min: &min}
	kept := f.Apply([]Trade{{TradeID: "a", Cost: 10}, {TradeID: "b", Cost: -75}, {TradeID: "c", Cost: 900}})

	require.Len(t, kept, 2)
	assert.Equal(t, "b", kept[0].TradeID)
	assert.Equal(t, "c", kept[1].TradeID)
	assert.Equal(t, "cost basis >= $50.00", f.String())
}

func TestCostBasisFilter_InactivePassesEverything(t *testing.T) {
	var f CostBasisFilter
	assert.False(t, f.Active())
	assert.Len(t, f.Apply([]Trade{{Cost: 1e9}}), 1)
	assert.Equal(t, "none", f.String())
}

func TestParseCostBound(t *testing.T) {
	assert.Nil(t, ParseCostBound(""))
	assert.Nil(t, ParseCostBound("abc"))
	assert.Nil(t, ParseCostBound("NaN"))
	require.NotNil(t, ParseCostBound(" 12.5 "))
	assert.Equal(t, 12.5, *ParseCostBound("12.5"))
}

// --- Trade helpers ---

func TestTrade_Hour(t *testing.T) {
	h, ok := Trade{TradeTime: "093015"}.Hour()
	assert.True(t, ok)
	assert.Equal(t, 9, h)

	h, ok = Trade{TradeTime: "14:05:00"}.Hour()
	assert.True(t, ok)
	assert.Equal(t, 14, h)

	_, ok = Trade{TradeTime: "x"}.Hour()
	assert.False(t, ok)
	_, ok = Trade{TradeTime: "ab1234"}.Hour()
	assert.False(t, ok)
}

func TestTrade_RealizedPnLFallsBackToFifo(t *testing.T) {
	assert.Equal(t, 12.0, Trade{FifoPnlRealized: 12}.RealizedPnL())
	assert.Equal(t, 5.0, Trade{PnL: 5, FifoPnlRealized: 12}.RealizedPnL())
}

func TestStatement_PrimaryAccount(t *testing.T) {
	assert.Equal(t, Unknown, Statement{}.PrimaryAccount())
	s := Statement{Accounts: []AccountInfo{{AccountID: "U1"}, {AccountID: "U2"}}}
	assert.Equal(t, "U1", s.PrimaryAccount())
}

func TestCashReport_HasData(t *testing.T) {
	assert.False(t, CashReport{}.HasData())
	assert.False(t, CashReport{"U1": {}}.HasData())
	assert.True(t, CashReport{"U1": {"USD": {EndingCash: 1}}}.HasData())
}
