package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/ibflex/internal/domain"
)

// ReportStore persiste los archivos por período.
// Cada archivo se identifica por su período y se sobreescribe completo.
type ReportStore interface {
	// SaveDaily escribe daily/{date}.json.
	SaveDaily(ctx context.Context, report domain.DailyReport) error

	// LoadDaily lee daily/{date}.json. found es false si el archivo no existe.
	LoadDaily(ctx context.Context, date string) (report domain.DailyReport, found bool, err error)

	// SavePositions escribe daily/{date}_positions.json.
	SavePositions(ctx context.Context, report domain.PositionsReport) error

	// SaveCash escribe daily/{date}_cash.json.
	SaveCash(ctx context.Context, report domain.CashReportFile) error

	// SaveWeekly escribe weekly/{year}-W{NN}.json.
	SaveWeekly(ctx context.Context, report domain.WeeklyReport) error

	// ListWeekly devuelve los reportes semanales del año que tocan el mes,
	// ordenados por número de semana.
	ListWeekly(ctx context.Context, year int, month time.Month) ([]domain.WeeklyReport, error)

	// SaveMonthly escribe monthly/{YYYY}-{MM}.json y el reporte de texto .txt.
	SaveMonthly(ctx context.Context, report domain.MonthlyReport, text string) error

	// ScanDaily recorre los archivos diarios (sin los de posiciones/cash)
	// en orden de nombre. Los ilegibles se omiten.
	ScanDaily(ctx context.Context, fn func(domain.DailyReport)) error

	// SaveDashboard escribe el archivo de datos del dashboard en path.
	SaveDashboard(ctx context.Context, path string, dashboard domain.Dashboard) error
}
