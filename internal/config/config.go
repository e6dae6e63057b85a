package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"salesreport/internal/logging"
)

// EnvPrefix prefixes every environment override, e.g. SALESREPORT_DATABASE_DSN.
const EnvPrefix = "SALESREPORT"

// Config materialises application configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Logging  logging.Config `mapstructure:"logging"`
	Input    InputConfig    `mapstructure:"input"`
	Report   ReportConfig   `mapstructure:"report"`
	Database DatabaseConfig `mapstructure:"database"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment"`
}

// InputConfig controls how transaction files are read.
type InputConfig struct {
	// Sheet is the xlsx worksheet to read; empty selects the first sheet.
	Sheet string `mapstructure:"sheet"`
	// Timezone applies to timestamps carrying no zone of their own.
	Timezone     string `mapstructure:"timezone" validate:"required"`
	CSVDelimiter string `mapstructure:"csv_delimiter" validate:"required"`
}

// ReportConfig sets the outputs of a run.
type ReportConfig struct {
	OutputDir   string   `mapstructure:"output_dir" validate:"required"`
	Formats     []string `mapstructure:"formats" validate:"required,min=1,dive,oneof=console markdown chart parquet"`
	ChartWidth  int      `mapstructure:"chart_width" validate:"gte=320"`
	ChartHeight int      `mapstructure:"chart_height" validate:"gte=240"`
}

// DatabaseConfig encapsulates PostgreSQL connectivity. An empty DSN disables run persistence.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

// Load builds configuration from file, environment, and defaults. A .env file in
// the working directory is merged into the process environment first.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "salesreport")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("input.sheet", "")
	v.SetDefault("input.timezone", "UTC")
	v.SetDefault("input.csv_delimiter", ",")

	v.SetDefault("report.output_dir", "relatorios")
	v.SetDefault("report.formats", []string{"console", "markdown", "chart"})
	v.SetDefault("report.chart_width", 1200)
	v.SetDefault("report.chart_height", 600)

	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open_conns", 4)
	v.SetDefault("database.max_idle_conns", 1)
	v.SetDefault("database.conn_max_lifetime", "30m")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

var validate = validator.New()

// Validate performs sanity checks on the configuration values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("input.timezone: %w", err)
	}
	if utf8.RuneCountInString(c.Input.CSVDelimiter) != 1 {
		return fmt.Errorf("input.csv_delimiter must be a single character")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns && c.Database.MaxOpenConns > 0 {
		return fmt.Errorf("database.max_idle_conns cannot exceed database.max_open_conns")
	}
	return nil
}

// Location resolves input.timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Input.Timezone)
}

// Delimiter returns input.csv_delimiter as a rune.
func (c *Config) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.Input.CSVDelimiter)
	return r
}

// PersistenceEnabled reports whether run summaries should be stored.
func (c *Config) PersistenceEnabled() bool {
	return c.Database.DSN != ""
}
