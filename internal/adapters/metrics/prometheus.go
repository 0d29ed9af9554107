package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ibflex"

// Recorder implementa ports.Recorder sobre un registry propio.
// Pensado para ejecuciones cron: al final del comando se vuelca a un
// archivo para el textfile collector de node-exporter.
type Recorder struct {
	registry *prometheus.Registry

	tradesExported prometheus.Counter
	filesWritten   *prometheus.CounterVec
	fetchDuration  prometheus.Histogram
	lastRun        *prometheus.GaugeVec
}

// NewRecorder crea y registra todas las métricas.
func NewRecorder() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.tradesExported = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "trades_exported_total",
		Help:      "Trades written to daily files.",
	})
	r.filesWritten = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "files_written_total",
		Help:      "Report files written, by kind.",
	}, []string{"kind"})
	r.fetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "flex_fetch_duration_seconds",
		Help:      "Duration of the two-phase Flex download, including the poll delay.",
		Buckets:   []float64{1, 2, 3, 5, 10, 20, 30, 60, 120},
	})
	r.lastRun = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the last successful run, by command.",
	}, []string{"command"})

	r.registry.MustRegister(r.tradesExported, r.filesWritten, r.fetchDuration, r.lastRun)
	return r
}

func (r *Recorder) TradesExported(n int) {
	if n > 0 {
		r.tradesExported.Add(float64(n))
	}
}

func (r *Recorder) FileWritten(kind string) {
	r.filesWritten.WithLabelValues(kind).Inc()
}

func (r *Recorder) FetchDuration(d time.Duration) {
	r.fetchDuration.Observe(d.Seconds())
}

func (r *Recorder) RunCompleted(command string) {
	r.lastRun.WithLabelValues(command).SetToCurrentTime()
}

// Registry expone el registry para tests.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Flush escribe todas las métricas en path (formato texto de Prometheus).
// Un path vacío no hace nada.
func (r *Recorder) Flush(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("metrics.Flush: mkdir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("metrics.Flush: %w", err)
	}
	return nil
}

// Nop descarta todas las métricas.
type Nop struct{}

func (Nop) TradesExported(int) {}
func (Nop) FileWritten(string) {}
func (Nop) FetchDuration(time.Duration) {}
func (Nop) RunCompleted(string) {}
