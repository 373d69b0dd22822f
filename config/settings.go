package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Database types
const (
	PostgresDbType = "postgres"
	SqliteDbType   = "sqlite"
)

// Log levels and log types accepted by LoggerSettings
const (
	LogLevelDebug   = "debug"
	LogLevelInfo    = "info"
	LogLevelWarning = "warning"
	LogLevelError   = "error"

	LogTypeConsole = "console"
	LogTypeFile    = "file"
)

var validate = validator.New()

// Settings is the full process configuration.
type Settings struct {
	Server     ServerSettings     `mapstructure:"server"`
	Database   DatabaseSettings   `mapstructure:"database"`
	Logger     LoggerSettings     `mapstructure:"logger"`
	Auth       AuthSettings       `mapstructure:"auth"`
	Simulation SimulationSettings `mapstructure:"simulation"`
	MQTT       MQTTSettings       `mapstructure:"mqtt"`
	Terrain    TerrainSettings    `mapstructure:"terrain"`
}

// ServerSettings configures the HTTP listener.
type ServerSettings struct {
	Port           string   `mapstructure:"port" validate:"required,numeric"`
	AllowedOrigins []string `mapstructure:"allowed_origins" validate:"min=1"`
}

// DatabaseSettings selects the GORM driver and its DSN.
type DatabaseSettings struct {
	Type string `mapstructure:"type" validate:"required,oneof=postgres sqlite"`
	DSN  string `mapstructure:"dsn" validate:"required"`
}

// LoggerSettings holds log level, sink type and file rotation settings.
type LoggerSettings struct {
	LogLevel   string `mapstructure:"log_level" validate:"required,oneof=debug info warning error"`
	LogType    string `mapstructure:"log_type" validate:"required,oneof=console file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// AuthSettings configures JWT issuing and verification.
type AuthSettings struct {
	JWTSecret string        `mapstructure:"jwt_secret" validate:"required,min=16"`
	TokenTTL  time.Duration `mapstructure:"token_ttl" validate:"gt=0"`
}

// SimulationSettings drives the synthetic telemetry loops.
type SimulationSettings struct {
	Enabled              bool          `mapstructure:"enabled"`
	SensorInterval       time.Duration `mapstructure:"sensor_interval" validate:"gt=0"`
	NotificationInterval time.Duration `mapstructure:"notification_interval" validate:"gt=0"`
	NotificationChance   float64       `mapstructure:"notification_chance" validate:"gte=0,lte=1"`
	StatusInterval       time.Duration `mapstructure:"status_interval" validate:"gt=0"`
	Retention            time.Duration `mapstructure:"retention" validate:"gt=0"`
	Seed                 int64         `mapstructure:"seed"`
}

// MQTTSettings configures the optional device bridge.
type MQTTSettings struct {
	Enabled        bool   `mapstructure:"enabled"`
	Broker         string `mapstructure:"broker" validate:"required_if=Enabled true"`
	ClientID       string `mapstructure:"client_id" validate:"required_if=Enabled true"`
	TelemetryTopic string `mapstructure:"telemetry_topic" validate:"required_if=Enabled true"`
	CommandTopic   string `mapstructure:"command_topic" validate:"required_if=Enabled true"`
	QoS            byte   `mapstructure:"qos" validate:"lte=2"`
}

// TerrainSettings locates optional terrain source files.
type TerrainSettings struct {
	DXFPath string `mapstructure:"dxf_path"`
}

// Load reads settings from the optional YAML file at path and from
// AEROGROW_* environment variables, applies defaults and validates.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("AEROGROW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Legacy variable names used by earlier deployments.
	_ = v.BindEnv("server.port", "AEROGROW_SERVER_PORT", "PORT")
	_ = v.BindEnv("database.dsn", "AEROGROW_DATABASE_DSN", "DATABASE_URL")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("database.type", SqliteDbType)
	v.SetDefault("database.dsn", "aerogrow.db")

	v.SetDefault("logger.log_level", LogLevelInfo)
	v.SetDefault("logger.log_type", LogTypeConsole)
	v.SetDefault("logger.file_path", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)

	v.SetDefault("auth.jwt_secret", "aerogrow-development-secret")
	v.SetDefault("auth.token_ttl", 24*time.Hour)

	v.SetDefault("simulation.enabled", true)
	v.SetDefault("simulation.sensor_interval", 5*time.Second)
	v.SetDefault("simulation.notification_interval", 20*time.Second)
	v.SetDefault("simulation.notification_chance", 0.3)
	v.SetDefault("simulation.status_interval", time.Minute)
	v.SetDefault("simulation.retention", 7*24*time.Hour)
	v.SetDefault("simulation.seed", 0)

	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.broker", "localhost:1883")
	v.SetDefault("mqtt.client_id", "aerogrow")
	v.SetDefault("mqtt.telemetry_topic", "aerogrow/telemetry")
	v.SetDefault("mqtt.command_topic", "aerogrow/commands")
	v.SetDefault("mqtt.qos", 1)

	v.SetDefault("terrain.dxf_path", "")
}

// Validate checks every settings group.
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for Settings: %w", err)
	}
	return s.Logger.Validate()
}

// Validate checks the database settings.
func (s *DatabaseSettings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for DatabaseSettings: %w", err)
	}
	return nil
}

// Validate checks the logger settings, including rotation bounds for file logging.
func (s *LoggerSettings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for LoggerSettings: %w", err)
	}

	if s.LogType == LogTypeFile {
		if s.FilePath == "" {
			return fmt.Errorf("file path is required for file logger")
		}
		if s.MaxSize < 1 || s.MaxSize > 100 {
			return fmt.Errorf("max size must be between 1 and 100 MB")
		}
		if s.MaxBackups < 1 || s.MaxBackups > 10 {
			return fmt.Errorf("max backups must be between 1 and 10")
		}
		if s.MaxAge < 1 || s.MaxAge > 365 {
			return fmt.Errorf("max age must be between 1 and 365 days")
		}
	}
	return nil
}
