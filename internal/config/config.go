package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Parser ParserConfig `yaml:"parser" mapstructure:"parser"`
	Render RenderConfig `yaml:"render" mapstructure:"render"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// ParserConfig configures waypoint extraction.
type ParserConfig struct {
	// NameLabel names waypoints found without a name ("<label> 1", ...).
	NameLabel   string `yaml:"name_label" mapstructure:"name_label"`
	CoordFormat string `yaml:"coord_format" mapstructure:"coord_format"`
}

// RenderConfig configures waypoint rendering. Negative sizes mean unlimited.
type RenderConfig struct {
	MaxSize     int  `yaml:"max_size" mapstructure:"max_size"`
	MaxNoteSize int  `yaml:"max_note_size" mapstructure:"max_note_size"`
	BackupTags  bool `yaml:"backup_tags" mapstructure:"backup_tags"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("WAYPOINT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("parser.name_label", "Personal note")
	v.SetDefault("parser.coord_format", "plain")
	v.SetDefault("render.max_size", -1)
	v.SetDefault("render.max_note_size", -1)
	v.SetDefault("render.backup_tags", true)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "waypoints.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the fields a command needs are set. mode is one of
// "parse", "note" or "serve".
func (c *Config) Validate(mode string) error {
	var errs []string

	if strings.TrimSpace(c.Parser.NameLabel) == "" {
		errs = append(errs, "parser.name_label is required")
	}
	if c.Parser.CoordFormat != "" && !strings.EqualFold(c.Parser.CoordFormat, "plain") {
		errs = append(errs, fmt.Sprintf("parser.coord_format %q is not supported", c.Parser.CoordFormat))
	}

	switch mode {
	case "parse":
	case "note":
		switch c.Store.Driver {
		case "sqlite", "postgres":
		default:
			errs = append(errs, fmt.Sprintf("store.driver %q must be sqlite or postgres", c.Store.Driver))
		}
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required")
		}
	case "serve":
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
