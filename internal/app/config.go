package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config represents the runtime configuration for the portal backend.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Warehouse  WarehouseConfig  `mapstructure:"warehouse"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`
}

// WarehouseConfig locates the warehouse and its well-known tables. The
// permission table holds grant rows; the user table backs the login check.
type WarehouseConfig struct {
	ProjectID           string        `mapstructure:"project_id"`
	Dataset             string        `mapstructure:"dataset"`
	UserTable           string        `mapstructure:"user_table"`
	PermissionTable     string        `mapstructure:"permission_table"`
	CredentialsFile     string        `mapstructure:"credentials_file"`
	QueryTimeout        time.Duration `mapstructure:"query_timeout"`
	MetadataConcurrency int           `mapstructure:"metadata_concurrency"`
}

// MonitoringConfig enables health checks and metrics.
type MonitoringConfig struct {
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
	Health     HealthConfig     `mapstructure:"health_check"`
}

// PrometheusConfig toggles the metrics endpoint.
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

// HealthConfig toggles the health endpoint.
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoadConfig initialises configuration using Viper with sensible defaults,
// a ./config search path and PLANTPORTAL_* environment overrides.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.NewWithOptions(viper.ExperimentalBindStruct())
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("./config")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	v.SetEnvPrefix("PLANTPORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if !errors.As(err, &cfgErr) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config, decodeHook()); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	return &config, nil
}

// Validate reports the warehouse settings the process cannot run without.
func (c *Config) Validate() error {
	var missing []string
	for key, value := range map[string]string{
		"warehouse.project_id":       c.Warehouse.ProjectID,
		"warehouse.dataset":          c.Warehouse.Dataset,
		"warehouse.user_table":       c.Warehouse.UserTable,
		"warehouse.permission_table": c.Warehouse.PermissionTable,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing required settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("warehouse.query_timeout", "30s")
	v.SetDefault("warehouse.metadata_concurrency", 4)

	v.SetDefault("monitoring.prometheus.enabled", true)
	v.SetDefault("monitoring.prometheus.endpoint", "/metrics")
	v.SetDefault("monitoring.health_check.enabled", true)
}

func decodeHook() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	))
}
