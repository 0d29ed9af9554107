package ports

import (
	"context"

	"github.com/alejandrodnm/ibflex/internal/domain"
)

// StatementProvider descarga y aplana un reporte Flex.
type StatementProvider interface {
	// Download ejecuta el flujo de dos fases (SendRequest + GetStatement)
	// y devuelve todos los registros del reporte ya extraídos.
	// Un error del servicio es definitivo: no se reintenta.
	Download(ctx context.Context, token, queryID string) (domain.Statement, error)
}
