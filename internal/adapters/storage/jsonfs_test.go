package storage_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/ibflex/internal/adapters/storage"
	"github.com/alejandrodnm/ibflex/internal/domain"
	"github.com/alejandrodnm/ibflex/internal/ports"
)

var _ ports.ReportStore = (*storage.FileStore)(nil)

func newStore(t *testing.T) (*storage.FileStore, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := storage.NewFileStore(dir)
	require.NoError(t, err)
	return s, dir
}

func makeDaily(date string, trades ...domain.Trade) domain.DailyReport {
	return domain.DailyReport{
		ExportDate: "2024-03-12 18:05:02",
		Account:    "U*****67",
		Date:       date,
		Trades:     trades,
		Summary:    domain.CalculateDailySummary(trades),
	}
}

func sampleTrade() domain.Trade {
	return domain.Trade{
		AccountID:             "U*****67",
		TradeID:               "1002",
		TradeDate:             "20240312",
		TradeTime:             "101500",
		Symbol:                "AAPL",
		Description:           "APPLE INC <common>",
		AssetCategory:         "STK",
		Quantity:              -10,
		TradePrice:            175.123456789,
		IBCommission:          -1.05,
		IBCommissionCurrency:  "USD",
		Cost:                  -1706,
		FifoPnlRealized:       42.95,
		Multiplier:            1,
		PrincipalAdjustFactor: 1,
		PnL:                   42.95,
		Commission:            1.05,
		Currency:              "USD",
	}
}

func TestFileStore_CreatesLayout(t *testing.T) {
	_, dir := newStore(t)
	for _, sub := range []string{"daily", "weekly", "monthly"} {
		info, err := os.Stat(filepath.Join(dir, sub))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestFileStore_DailyRoundTrip(t *testing.T) {
	s, dir := newStore(t)
	ctx := context.Background()

	want := makeDaily("2024-03-12", sampleTrade())
	require.NoError(t, s.SaveDaily(ctx, want))

	got, found, err := s.LoadDaily(ctx, "2024-03-12")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, want, got)

	// HTML no se escapa.
	raw, err := os.ReadFile(filepath.Join(dir, "daily", "2024-03-12.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "APPLE INC <common>")
	assert.Contains(t, string(raw), `"tradeID": "1002"`)
}

func TestFileStore_LoadDailyMissing(t *testing.T) {
	s, _ := newStore(t)
	_, found, err := s.LoadDaily(context.Background(), "2024-01-01")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileStore_LoadDailyCorrupt(t *testing.T) {
	s, dir := newStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "daily", "2024-01-01.json"), []byte("{"), 0o644))

	_, _, err := s.LoadDaily(context.Background(), "2024-01-01")
	assert.Error(t, err)
}

func TestFileStore_SaveDailyOverwrites(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveDaily(ctx, makeDaily("2024-03-12", sampleTrade(), sampleTrade())))
	require.NoError(t, s.SaveDaily(ctx, makeDaily("2024-03-12")))

	got, _, err := s.LoadDaily(ctx, "2024-03-12")
	require.NoError(t, err)
	assert.Empty(t, got.Trades)
	assert.NotNil(t, got.Trades)
	assert.Equal(t, 0, got.Summary.TotalTrades)
}

func TestFileStore_EmptyDailyWritesEmptyCollections(t *testing.T) {
	s, dir := newStore(t)
	require.NoError(t, s.SaveDaily(context.Background(), domain.DailyReport{Date: "2024-03-13"}))

	var raw map[string]any
	data, err := os.ReadFile(filepath.Join(dir, "daily", "2024-03-13.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, []any{}, raw["trades"])
	summary := raw["summary"].(map[string]any)
	assert.Equal(t, []any{}, summary["symbols"])
	assert.Equal(t, map[string]any{}, summary["assetCategories"])
}

func TestFileStore_ScanDailySkipsSideFilesAndJunk(t *testing.T) {
	s, dir := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveDaily(ctx, makeDaily("2024-03-12", sampleTrade())))
	require.NoError(t, s.SaveDaily(ctx, makeDaily("2024-03-11")))
	require.NoError(t, s.SavePositions(ctx, domain.PositionsReport{Date: "2024-03-12"}))
	require.NoError(t, s.SaveCash(ctx, domain.CashReportFile{Date: "2024-03-12", CashReport: domain.CashReport{}}))
	daily := filepath.Join(dir, "daily")
	require.NoError(t, os.WriteFile(filepath.Join(daily, "2024-03-10.json"), []byte("not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(daily, "2024-03-09.json"), []byte(`{"date":"2024-03-09"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(daily, "notes.json"), []byte(`{"summary":{}}`), 0o644))

	var dates []string
	require.NoError(t, s.ScanDaily(ctx, func(r domain.DailyReport) { dates = append(dates, r.Date) }))
	assert.Equal(t, []string{"2024-03-11", "2024-03-12"}, dates)
}

func TestFileStore_PositionsAlwaysHaveList(t *testing.T) {
	s, dir := newStore(t)
	require.NoError(t, s.SavePositions(context.Background(), domain.PositionsReport{Date: "2024-03-12", Count: 0}))

	data, err := os.ReadFile(filepath.Join(dir, "daily", "2024-03-12_positions.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"positions": []`)
}

func TestFileStore_WeeklyListFiltersByMonth(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	weeks := []domain.WeeklyReport{
		{Year: 2024, WeekNumber: 10, WeekStart: "2024-03-04", WeekEnd: "2024-03-10"},
		{Year: 2024, WeekNumber: 9, WeekStart: "2024-02-26", WeekEnd: "2024-03-03"},
		{Year: 2024, WeekNumber: 5, WeekStart: "2024-01-29", WeekEnd: "2024-02-04"},
	}
	for _, w := range weeks {
		require.NoError(t, s.SaveWeekly(ctx, w))
	}

	got, err := s.ListWeekly(ctx, 2024, time.March)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 9, got[0].WeekNumber)
	assert.Equal(t, 10, got[1].WeekNumber)

	none, err := s.ListWeekly(ctx, 2023, time.March)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestFileStore_SaveMonthlyWritesJSONAndText(t *testing.T) {
	s, dir := newStore(t)
	report := domain.MonthlyReport{Year: 2024, Month: 3, MonthName: "March"}
	require.NoError(t, s.SaveMonthly(context.Background(), report, "MONTHLY TRADING REPORT\n"))

	text, err := os.ReadFile(filepath.Join(dir, "monthly", "2024-03.txt"))
	require.NoError(t, err)
	assert.Equal(t, "MONTHLY TRADING REPORT\n", string(text))

	data, err := os.ReadFile(filepath.Join(dir, "monthly", "2024-03.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"weeklyData": []`)
}

func TestFileStore_SaveDashboardCreatesDir(t *testing.T) {
	s, dir := newStore(t)
	path := filepath.Join(dir, "docs", "dashboard-data.json")

	d := domain.NewDashboardBuilder().Build(domain.DashboardMetadata{LastUpdate: "x"})
	require.NoError(t, s.SaveDashboard(context.Background(), path, d))

	var got domain.Dashboard
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, domain.DashboardSource, got.Metadata.Source)
	assert.NotContains(t, string(data), "costBasisFilter")
}
