package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// Import holds the knobs of the ingestion pipeline. It can be overlaid from
// a YAML file named by IMPORT_CONFIG_FILE.
type Import struct {
	Template        string   `yaml:"template"`
	PoolCore        int      `yaml:"pool_core"`
	PoolMax         int      `yaml:"pool_max"`
	QueueCapacity   int      `yaml:"queue_capacity"`
	MinCellsMC      int      `yaml:"min_cells_multiple_choice"`
	MinCellsTF      int      `yaml:"min_cells_true_false"`
	ForbiddenTitles []string `yaml:"forbidden_titles"`
	RemovalMarkers  []string `yaml:"removal_markers"`
	DisallowedChars string   `yaml:"disallowed_chars"`
	WeightTolerance float64  `yaml:"weight_tolerance"`
}

type Config struct {
	Mode     Mode
	HTTPAddr string

	DBDriver string
	DBDSN    string

	SourceDriver   string // fs|minio
	SourceBasePath string // fs root

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool

	EnableLocalAuth bool
	AdminUser       string
	AdminPassHash   string // bcrypt
	AuthHMACSecret  string

	CORSOrigins []string

	Import Import
}

func FromEnv() (Config, error) {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	cfg := Config{
		Mode:           mode,
		HTTPAddr:       envOr("HTTP_ADDR", ":8080"),
		DBDriver:       envOr("DB_DRIVER", "sqlite"),
		DBDSN:          envOr("DB_DSN", ""),
		SourceDriver:   envOr("SOURCE_DRIVER", "fs"),
		SourceBasePath: envOr("SOURCE_BASE_PATH", "./data"),
		MinIOEndpoint:  envOr("MINIO_ENDPOINT", "localhost:9000"),
		MinIOAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinIOSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinIOBucket:    envOr("MINIO_BUCKET", "quizsheets"),
		MinIOUseSSL:    envBool("MINIO_USE_SSL", mode == ModeOnline),

		EnableLocalAuth: envBool("ENABLE_LOCAL_AUTH", true),
		AdminUser:       envOr("ADMIN_USER", "admin"),
		AdminPassHash:   envOr("ADMIN_PASS_HASH", "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji"),
		AuthHMACSecret:  envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		CORSOrigins:     csvOr("CORS_ORIGINS", "http://localhost:3000"),

		Import: Import{
			Template:        envOr("IMPORT_TEMPLATE", "v2024"),
			PoolCore:        envInt("IMPORT_POOL_CORE", 4),
			PoolMax:         envInt("IMPORT_POOL_MAX", 8),
			QueueCapacity:   envInt("IMPORT_QUEUE_CAPACITY", 16),
			MinCellsMC:      envInt("IMPORT_MIN_CELLS_MC", 5),
			MinCellsTF:      envInt("IMPORT_MIN_CELLS_TF", 4),
			ForbiddenTitles: csvOr("IMPORT_FORBIDDEN_TITLES", "ICMP"),
			RemovalMarkers:  csvOr("IMPORT_REMOVAL_MARKERS", "to be removed,delete this row,[remove]"),
			DisallowedChars: envOr("IMPORT_DISALLOWED_CHARS", "\u200b\u200c\u200d\u00ad\ufeff"),
			WeightTolerance: envFloat("IMPORT_WEIGHT_TOLERANCE", 0.01),
		},
	}
	if path := os.Getenv("IMPORT_CONFIG_FILE"); path != "" {
		if err := cfg.Import.overlay(path); err != nil {
			return cfg, err
		}
	}
	return cfg, cfg.Validate()
}

// overlay replaces every setting the YAML file names and keeps the rest.
func (im *Import) overlay(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read import config: %w", err)
	}
	if err := yaml.Unmarshal(b, im); err != nil {
		return fmt.Errorf("parse import config %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings the pipeline cannot run with.
func (c Config) Validate() error {
	var errs []error
	im := c.Import
	if im.PoolCore < 1 {
		errs = append(errs, fmt.Errorf("pool core size must be >= 1, got %d", im.PoolCore))
	}
	if im.PoolMax < im.PoolCore {
		errs = append(errs, fmt.Errorf("pool max size %d is below core size %d", im.PoolMax, im.PoolCore))
	}
	if im.QueueCapacity < 0 {
		errs = append(errs, fmt.Errorf("queue capacity must be >= 0, got %d", im.QueueCapacity))
	}
	if im.MinCellsMC < 1 || im.MinCellsTF < 1 {
		errs = append(errs, fmt.Errorf("minimum cell counts must be >= 1, got %d/%d", im.MinCellsMC, im.MinCellsTF))
	}
	if im.WeightTolerance < 0 || im.WeightTolerance >= 1 {
		errs = append(errs, fmt.Errorf("weight tolerance must be in [0,1), got %v", im.WeightTolerance))
	}
	switch c.SourceDriver {
	case "fs", "minio":
	default:
		errs = append(errs, fmt.Errorf("unknown source driver %q", c.SourceDriver))
	}
	return errors.Join(errs...)
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envInt(k string, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(k))); err == nil {
		return n
	}
	return def
}
func envFloat(k string, def float64) float64 {
	if f, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(k)), 64); err == nil {
		return f
	}
	return def
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
