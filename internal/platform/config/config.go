package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Jira     JiraConfig     `mapstructure:"jira"`
	Dispatch DispatchConfig `mapstructure:"dispatch"`
	WhatsApp WhatsAppConfig `mapstructure:"whatsapp"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type DatabaseConfig struct {
	Path           string `mapstructure:"path"`
	MaxConnections int    `mapstructure:"max_connections"`
}

// StorageConfig points at the S3-compatible bucket that holds connector
// documents and delivery logs. Endpoint is optional; when set the client
// targets a non-AWS object store (e.g. DigitalOcean Spaces).
type StorageConfig struct {
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

type JWTConfig struct {
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

type JiraConfig struct {
	// SourceUserAgent is matched against inbound webhook requests.
	SourceUserAgent string        `mapstructure:"source_user_agent"`
	CallbackBaseURL string        `mapstructure:"callback_base_url"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	CheckInterval   time.Duration `mapstructure:"check_interval"`
}

type DispatchConfig struct {
	SendTimeout time.Duration `mapstructure:"send_timeout"`
	// UTCOffsetHours is the tenant-local display offset (hours east of UTC).
	UTCOffsetHours int `mapstructure:"utc_offset_hours"`
}

type WhatsAppConfig struct {
	AccountSID string `mapstructure:"account_sid"`
	AuthToken  string `mapstructure:"auth_token"`
	From       string `mapstructure:"from"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

func Load(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("jwt.token_ttl", 2*time.Hour)
	viper.SetDefault("jira.source_user_agent", "Atlassian Webhook HTTP Client")
	viper.SetDefault("jira.request_timeout", 15*time.Second)
	viper.SetDefault("jira.check_interval", time.Minute)
	viper.SetDefault("dispatch.send_timeout", 10*time.Second)
	viper.SetDefault("dispatch.utc_offset_hours", 7)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
