package ports

import (
	"context"

	"github.com/alejandrodnm/ibflex/internal/domain"
)

// Notifier presenta el resultado de cada comando al usuario.
// En la implementación de consola, imprime resúmenes y tablas.
type Notifier interface {
	DailyExported(ctx context.Context, run domain.DailyRun) error
	WeeklyGenerated(ctx context.Context, report domain.WeeklyReport) error
	MonthlyGenerated(ctx context.Context, report domain.MonthlyReport) error
	DashboardGenerated(ctx context.Context, path string, dashboard domain.Dashboard) error
}
