// Package config loads the service configuration.
// Values come from defaults, an optional config.yaml, an optional .env file and the
// process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port               int    `mapstructure:"port"`
	Mode               string `mapstructure:"mode"`          // gin mode: debug, release, test
	ReadTimeout        int    `mapstructure:"read_timeout"`  // seconds
	WriteTimeout       int    `mapstructure:"write_timeout"` // seconds
	ShutdownTimeout    int    `mapstructure:"shutdown_timeout"`
	MaxMultipartMemory int64  `mapstructure:"max_multipart_memory"` // bytes kept in memory before spilling to disk
	EnableHTTPS        bool   `mapstructure:"enable_https"`
	EnableHTTP2        bool   `mapstructure:"enable_http2"`
	TLSCertFile        string `mapstructure:"tls_cert_file"`
	TLSKeyFile         string `mapstructure:"tls_key_file"`
}

// DatabaseConfig metadata store settings
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"` // sqlite, postgres, mysql
	DSN             string `mapstructure:"dsn"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // seconds
	LogLevel        string `mapstructure:"log_level"`         // silent, error, warn, info
}

// StorageConfig object store settings.
// CloudName/APIKey/APISecret are used by the cloudinary provider, the remaining
// credentials by the bucket based providers.
type StorageConfig struct {
	Provider  string `mapstructure:"provider"` // cloudinary, aliyun, tencent, qiniu, s3
	CloudName string `mapstructure:"cloud_name"`
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`

	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Endpoint  string `mapstructure:"endpoint"`
	PublicURL string `mapstructure:"public_url"`

	ListPageSize int           `mapstructure:"list_page_size"`
	ListMaxPages int           `mapstructure:"list_max_pages"`
	ListTimeout  time.Duration `mapstructure:"list_timeout"`
}

// UploadConfig upload pipeline settings
type UploadConfig struct {
	ScratchDir        string   `mapstructure:"scratch_dir"`
	MaxFileSize       int64    `mapstructure:"max_file_size"`
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
}

// LogConfig logger settings
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

// envBindings keeps the variable names the service has always been deployed with.
var envBindings = map[string][]string{
	"server.port":        {"PORT"},
	"server.mode":        {"GIN_MODE"},
	"database.driver":    {"DATABASE_DRIVER"},
	"database.dsn":       {"DATABASE_URL"},
	"storage.provider":   {"STORAGE_PROVIDER"},
	"storage.cloud_name": {"CLOUDINARY_CLOUD_NAME"},
	"storage.api_key":    {"CLOUDINARY_API_KEY"},
	"storage.api_secret": {"CLOUDINARY_API_SECRET"},
	"storage.bucket":     {"STORAGE_BUCKET"},
	"storage.region":     {"STORAGE_REGION"},
	"storage.access_key": {"STORAGE_ACCESS_KEY"},
	"storage.secret_key": {"STORAGE_SECRET_KEY"},
	"storage.endpoint":   {"STORAGE_ENDPOINT"},
	"storage.public_url": {"STORAGE_PUBLIC_URL"},
	"upload.scratch_dir": {"UPLOAD_DIR"},
	"log.level":          {"LOG_LEVEL"},
	"log.format":         {"LOG_FORMAT"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 60)
	v.SetDefault("server.write_timeout", 120)
	v.SetDefault("server.shutdown_timeout", 30)
	v.SetDefault("server.max_multipart_memory", 32<<20)
	v.SetDefault("server.enable_https", false)
	v.SetDefault("server.enable_http2", false)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "notes.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.conn_max_lifetime", 3600)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("storage.provider", "cloudinary")
	v.SetDefault("storage.list_page_size", 500)
	v.SetDefault("storage.list_max_pages", 20)
	v.SetDefault("storage.list_timeout", "30s")

	v.SetDefault("upload.scratch_dir", "./uploads")
	v.SetDefault("upload.max_file_size", 50<<20)
	v.SetDefault("upload.allowed_extensions", []string{"*"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "console")
	v.SetDefault("log.file_path", "logs/app.log")
}

// Load reads the configuration.
// Missing credentials are not an error here; they fail the call that needs them.
func Load() (*Config, error) {
	return load(viper.New(), ".env")
}

func load(v *viper.Viper, dotenv string) (*Config, error) {
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if dotenv != "" {
		if err := mergeDotenv(v, dotenv); err != nil {
			return nil, err
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envBindings {
		args := append([]string{key}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.normalize()
	return &cfg, nil
}

// mergeDotenv exports the variables of a dotenv file that are not already set in the
// process environment, so that envBindings pick them up.
func mergeDotenv(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	dv := viper.New()
	dv.SetConfigFile(path)
	dv.SetConfigType("env")
	if err := dv.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	for _, key := range dv.AllKeys() {
		name := strings.ToUpper(key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if err := os.Setenv(name, dv.GetString(key)); err != nil {
			return fmt.Errorf("failed to export %s: %w", name, err)
		}
	}
	return nil
}

func (c *Config) normalize() {
	c.Storage.Provider = strings.ToLower(strings.TrimSpace(c.Storage.Provider))
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	if c.Storage.ListPageSize <= 0 {
		c.Storage.ListPageSize = 500
	}
	if c.Storage.ListMaxPages <= 0 {
		c.Storage.ListMaxPages = 1
	}
	if c.Storage.ListTimeout <= 0 {
		c.Storage.ListTimeout = 30 * time.Second
	}
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}
