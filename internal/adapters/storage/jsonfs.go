package storage

// jsonfs.go: un archivo JSON por período bajo el directorio base.
//
//	{base}/daily/{YYYY-MM-DD}.json
//	{base}/daily/{YYYY-MM-DD}_positions.json
//	{base}/daily/{YYYY-MM-DD}_cash.json
//	{base}/weekly/{YYYY}-W{NN}.json
//	{base}/monthly/{YYYY}-{MM}.json + .txt
//
// Cada escritura reemplaza el archivo completo (temp + rename), nunca hace append.
// Asume una sola ejecución a la vez por directorio.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/alejandrodnm/ibflex/internal/domain"
)

const (
	dailyDir   = "daily"
	weeklyDir  = "weekly"
	monthlyDir = "monthly"

	positionsSuffix = "_positions"
	cashSuffix      = "_cash"
)

// FileStore implementa ports.ReportStore sobre el sistema de archivos.
type FileStore struct {
	baseDir string
}

// NewFileStore crea la estructura daily/weekly/monthly bajo baseDir.
func NewFileStore(baseDir string) (*FileStore, error) {
	for _, dir := range []string{dailyDir, weeklyDir, monthlyDir} {
		if err := os.MkdirAll(filepath.Join(baseDir, dir), 0o755); err != nil {
			return nil, fmt.Errorf("storage.NewFileStore: mkdir %s: %w", dir, err)
		}
	}
	return &FileStore{baseDir: baseDir}, nil
}

// BaseDir devuelve el directorio raíz de los reportes.
func (s *FileStore) BaseDir() string { return s.baseDir }

// DailyPath es la ruta del archivo diario de date.
func (s *FileStore) DailyPath(date string) string {
	return filepath.Join(s.baseDir, dailyDir, date+".json")
}

func (s *FileStore) SaveDaily(ctx context.Context, report domain.DailyReport) error {
	if err := writeJSON(s.DailyPath(report.Date), toDailyFile(report)); err != nil {
		return fmt.Errorf("storage.SaveDaily: %s: %w", report.Date, err)
	}
	return nil
}

func (s *FileStore) LoadDaily(ctx context.Context, date string) (domain.DailyReport, bool, error) {
	var f dailyFile
	err := readJSON(s.DailyPath(date), &f)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.DailyReport{}, false, nil
	}
	if err != nil {
		return domain.DailyReport{}, false, fmt.Errorf("storage.LoadDaily: %s: %w", date, err)
	}
	return f.toDomain(date), true, nil
}

func (s *FileStore) SavePositions(ctx context.Context, report domain.PositionsReport) error {
	if report.Positions == nil {
		report.Positions = []domain.Position{}
	}
	path := filepath.Join(s.baseDir, dailyDir, report.Date+positionsSuffix+".json")
	if err := writeJSON(path, report); err != nil {
		return fmt.Errorf("storage.SavePositions: %s: %w", report.Date, err)
	}
	return nil
}

func (s *FileStore) SaveCash(ctx context.Context, report domain.CashReportFile) error {
	path := filepath.Join(s.baseDir, dailyDir, report.Date+cashSuffix+".json")
	if err := writeJSON(path, report); err != nil {
		return fmt.Errorf("storage.SaveCash: %s: %w", report.Date, err)
	}
	return nil
}

func (s *FileStore) SaveWeekly(ctx context.Context, report domain.WeeklyReport) error {
	name := fmt.Sprintf("%d-W%02d.json", report.Year, report.WeekNumber)
	if err := writeJSON(filepath.Join(s.baseDir, weeklyDir, name), report); err != nil {
		return fmt.Errorf("storage.SaveWeekly: %s: %w", name, err)
	}
	return nil
}

// ListWeekly lee weekly/{year}-W*.json y devuelve los que tocan el mes.
// Archivos ilegibles se omiten con un warning.
func (s *FileStore) ListWeekly(ctx context.Context, year int, month time.Month) ([]domain.WeeklyReport, error) {
	pattern := filepath.Join(s.baseDir, weeklyDir, fmt.Sprintf("%d-W*.json", year))
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("storage.ListWeekly: glob: %w", err)
	}

	reports := []domain.WeeklyReport{}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("storage.ListWeekly: %w", err)
		}
		var w domain.WeeklyReport
		if err := readJSON(path, &w); err != nil {
			slog.Warn("skipping unreadable weekly file", "path", path, "err", err)
			continue
		}
		if w.OverlapsMonth(year, month) {
			reports = append(reports, w)
		}
	}
	sort.SliceStable(reports, func(i, j int) bool { return reports[i].WeekNumber < reports[j].WeekNumber })
	return reports, nil
}

func (s *FileStore) SaveMonthly(ctx context.Context, report domain.MonthlyReport, text string) error {
	key := domain.MonthKey(report.Year, time.Month(report.Month))
	if report.WeeklyData == nil {
		report.WeeklyData = []domain.WeeklyReport{}
	}
	if err := writeJSON(filepath.Join(s.baseDir, monthlyDir, key+".json"), report); err != nil {
		return fmt.Errorf("storage.SaveMonthly: %s: %w", key, err)
	}
	if err := writeFile(filepath.Join(s.baseDir, monthlyDir, key+".txt"), []byte(text)); err != nil {
		return fmt.Errorf("storage.SaveMonthly: %s text: %w", key, err)
	}
	return nil
}

// ScanDaily recorre daily/20*.json en orden de nombre, sin los archivos de
// posiciones ni de cash. Archivos ilegibles o sin summary se omiten.
func (s *FileStore) ScanDaily(ctx context.Context, fn func(domain.DailyReport)) error {
	paths, err := filepath.Glob(filepath.Join(s.baseDir, dailyDir, "20*.json"))
	if err != nil {
		return fmt.Errorf("storage.ScanDaily: glob: %w", err)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("storage.ScanDaily: %w", err)
		}
		stem := strings.TrimSuffix(filepath.Base(path), ".json")
		if strings.Contains(stem, positionsSuffix) || strings.Contains(stem, cashSuffix) {
			continue
		}
		var f dailyFile
		if err := readJSON(path, &f); err != nil || f.Summary == nil {
			slog.Debug("skipping daily file", "path", path, "err", err)
			continue
		}
		fn(f.toDomain(stem))
	}
	return nil
}

// SaveDashboard escribe el dashboard en path (relativo al cwd, no a baseDir).
func (s *FileStore) SaveDashboard(ctx context.Context, path string, dashboard domain.Dashboard) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("storage.SaveDashboard: mkdir: %w", err)
	}
	if err := writeJSON(path, dashboard); err != nil {
		return fmt.Errorf("storage.SaveDashboard: %w", err)
	}
	return nil
}

// dailyFile es el formato en disco de daily/{date}.json.
// Summary es puntero para detectar archivos sin summary.
type dailyFile struct {
	ExportDate string               `json:"exportDate"`
	Account    string               `json:"account"`
	Date       string               `json:"date"`
	Trades     []domain.Trade       `json:"trades"`
	Summary    *domain.DailySummary `json:"summary"`
}

func toDailyFile(r domain.DailyReport) dailyFile {
	trades := r.Trades
	if trades == nil {
		trades = []domain.Trade{}
	}
	summary := r.Summary
	if summary.Symbols == nil {
		summary.Symbols = []string{}
	}
	if summary.AssetCategories == nil {
		summary.AssetCategories = map[string]int{}
	}
	return dailyFile{
		ExportDate: r.ExportDate,
		Account:    r.Account,
		Date:       r.Date,
		Trades:     trades,
		Summary:    &summary,
	}
}

// toDomain convierte el archivo a domain.DailyReport; fallbackDate se usa
// si el archivo no trae date.
func (f dailyFile) toDomain(fallbackDate string) domain.DailyReport {
	r := domain.DailyReport{
		ExportDate: f.ExportDate,
		Account:    f.Account,
		Date:       f.Date,
		Trades:     f.Trades,
	}
	if r.Date == "" {
		r.Date = fallbackDate
	}
	if r.Trades == nil {
		r.Trades = []domain.Trade{}
	}
	if f.Summary != nil {
		r.Summary = *f.Summary
	}
	return r
}

func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return writeFile(path, buf.Bytes())
}

// writeFile reemplaza path de forma atómica.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}
