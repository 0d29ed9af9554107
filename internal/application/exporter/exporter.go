package exporter

import (
	"time"

	"github.com/alejandrodnm/ibflex/internal/domain"
	"github.com/alejandrodnm/ibflex/internal/ports"
)

// Config holds everything the pipelines need from the outside.
type Config struct {
	Token        string
	QueryID      string
	Obfuscate    bool
	BaseCurrency string
	Filter       domain.CostBasisFilter

	// DashboardOutput is the path of the dashboard data file.
	DashboardOutput string

	// RunID is written into report metadata when set.
	RunID string
}

// Exporter runs the daily, weekly, monthly and dashboard pipelines.
type Exporter struct {
	cfg       Config
	statement ports.StatementProvider
	store     ports.ReportStore
	notifier  ports.Notifier
	recorder  ports.Recorder
	now       func() time.Time
}

// New wires an Exporter. statement may be nil when only the summary
// pipelines are used.
func New(
	cfg Config,
	statement ports.StatementProvider,
	store ports.ReportStore,
	notifier ports.Notifier,
	recorder ports.Recorder,
) *Exporter {
	if cfg.BaseCurrency == "" {
		cfg.BaseCurrency = "USD"
	}
	return &Exporter{
		cfg:       cfg,
		statement: statement,
		store:     store,
		notifier:  notifier,
		recorder:  recorder,
		now:       time.Now,
	}
}

// SetClock replaces the wall clock (tests).
func (e *Exporter) SetClock(now func() time.Time) {
	e.now = now
}

func (e *Exporter) metadata(now time.Time) domain.ReportMetadata {
	return domain.ReportMetadata{
		GeneratedAt: now.Format(domain.GeneratedAtLayout),
		Version:     domain.ReportVersion,
		RunID:       e.cfg.RunID,
	}
}

func (e *Exporter) account(id string) string {
	if id == "" {
		id = domain.Unknown
	}
	if e.cfg.Obfuscate {
		return domain.ObfuscateAccount(id)
	}
	return id
}
