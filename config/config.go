package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/alejandrodnm/ibflex/internal/domain"
)

// ErrMissingCredentials indica que falta el token o el query id de Flex.
var ErrMissingCredentials = errors.New("config: IBKR_TOKEN and IBKR_QUERY_ID must be set")

// Config es la configuración completa del exportador.
type Config struct {
	Flex      FlexConfig      `yaml:"flex"`
	Export    ExportConfig    `yaml:"export"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Log       LogConfig       `yaml:"log"`
}

// FlexConfig contiene las credenciales y el comportamiento del cliente Flex.
type FlexConfig struct {
	Token            string `yaml:"token"`
	QueryID          string `yaml:"query_id"`
	BaseURL          string `yaml:"base_url"`           // vacío = producción
	PollDelaySeconds int    `yaml:"poll_delay_seconds"` // espera entre SendRequest y GetStatement
	TimeoutSeconds   int    `yaml:"timeout_seconds"`
}

// ExportConfig controla qué se exporta y dónde.
type ExportConfig struct {
	OutputDir        string `yaml:"output_dir"`
	ObfuscateAccount *bool  `yaml:"obfuscate_account"` // nil = true
	BaseCurrency     string `yaml:"base_currency"`
	CostBasisMin     string `yaml:"cost_basis_min"` // no numérico = sin límite
	CostBasisMax     string `yaml:"cost_basis_max"`
}

// DashboardConfig controla el archivo de datos del dashboard.
type DashboardConfig struct {
	Output string `yaml:"output"`
}

// MetricsConfig controla el volcado de métricas Prometheus.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // vacío = deshabilitado
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
	File   string `yaml:"file"`   // si está, se escribe también a un archivo rotado
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Las variables de entorno sobreescriben los valores del YAML.
// path vacío omite el YAML; todos los valores tienen equivalente en el entorno.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// ValidateCredentials verifica que token y query id estén configurados.
func (c *Config) ValidateCredentials() error {
	if strings.TrimSpace(c.Flex.Token) == "" || strings.TrimSpace(c.Flex.QueryID) == "" {
		return ErrMissingCredentials
	}
	return nil
}

// Obfuscate indica si las cuentas se enmascaran antes de escribir.
func (c *Config) Obfuscate() bool {
	return c.Export.ObfuscateAccount == nil || *c.Export.ObfuscateAccount
}

// CostBasisFilter construye el filtro de costo a partir de los límites configurados.
func (c *Config) CostBasisFilter() domain.CostBasisFilter {
	return domain.CostBasisFilter{
		Min: domain.ParseCostBound(c.Export.CostBasisMin),
		Max: domain.ParseCostBound(c.Export.CostBasisMax),
	}
}

// PollDelay devuelve la espera entre las dos fases de Flex.
func (c *Config) PollDelay() time.Duration {
	return time.Duration(c.Flex.PollDelaySeconds) * time.Second
}

// Timeout devuelve el timeout HTTP por request.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Flex.TimeoutSeconds) * time.Second
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("IBKR_TOKEN", &cfg.Flex.Token)
	setString("IBKR_QUERY_ID", &cfg.Flex.QueryID)
	setString("IBKR_FLEX_BASE_URL", &cfg.Flex.BaseURL)
	setString("EXPORT_OUTPUT_DIR", &cfg.Export.OutputDir)
	setString("BASE_CURRENCY", &cfg.Export.BaseCurrency)
	setString("COST_BASIS_MIN", &cfg.Export.CostBasisMin)
	setString("COST_BASIS_MAX", &cfg.Export.CostBasisMax)
	setString("DASHBOARD_OUTPUT", &cfg.Dashboard.Output)
	setString("METRICS_TEXTFILE", &cfg.Metrics.Textfile)
	setString("LOG_LEVEL", &cfg.Log.Level)
	setString("LOG_FORMAT", &cfg.Log.Format)
	setString("LOG_FILE", &cfg.Log.File)

	// Solo "true" (sin importar mayúsculas) activa el enmascarado.
	if v, ok := os.LookupEnv("OBFUSCATE_ACCOUNT"); ok && v != "" {
		on := strings.EqualFold(strings.TrimSpace(v), "true")
		cfg.Export.ObfuscateAccount = &on
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Flex.PollDelaySeconds <= 0 {
		cfg.Flex.PollDelaySeconds = 3
	}
	if cfg.Flex.TimeoutSeconds <= 0 {
		cfg.Flex.TimeoutSeconds = 60
	}
	if cfg.Export.OutputDir == "" {
		cfg.Export.OutputDir = "exports"
	}
	if cfg.Export.BaseCurrency == "" {
		cfg.Export.BaseCurrency = "USD"
	}
	if cfg.Dashboard.Output == "" {
		cfg.Dashboard.Output = "docs/dashboard-data.json"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
