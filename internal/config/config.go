package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultListenAddr     = ":8080"
	defaultStorageRoot    = "public"
	defaultUploadDir      = "uploads"
	defaultStaticPrefix   = "/static"
	defaultMaxUploadBytes = 32 << 20
	defaultGCIntervalMin  = 60
)

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

type Config struct {
	ListenAddr        string              `yaml:"listen_addr" json:"listen_addr"`
	StorageRoot       string              `yaml:"storage_root" json:"storage_root"`
	UploadDir         string              `yaml:"upload_dir" json:"upload_dir"`
	StaticPrefix      string              `yaml:"static_prefix" json:"static_prefix"`
	MaxUploadBytes    int64               `yaml:"max_upload_bytes" json:"max_upload_bytes"`
	UploadQPS         int                 `yaml:"upload_qps" json:"upload_qps"`
	DefaultExtensions []string            `yaml:"default_extensions" json:"default_extensions"`
	Categories        map[string][]string `yaml:"categories" json:"categories"`
	RetentionDays     int                 `yaml:"retention_days" json:"retention_days"`
	GCIntervalMin     int                 `yaml:"gc_interval_min" json:"gc_interval_min"`
	AllowedOrigins    []string            `yaml:"allowed_origins" json:"allowed_origins"`
	Log               LogConfig           `yaml:"log" json:"log"`
}

// Default возвращает конфигурацию со значениями по умолчанию.
func Default() *Config {
	return &Config{
		ListenAddr:     defaultListenAddr,
		StorageRoot:    defaultStorageRoot,
		UploadDir:      defaultUploadDir,
		StaticPrefix:   defaultStaticPrefix,
		MaxUploadBytes: defaultMaxUploadBytes,
		GCIntervalMin:  defaultGCIntervalMin,
		AllowedOrigins: []string{"*"},
		Categories:     map[string][]string{},
		Log:            LogConfig{Level: "info", Format: "text"},
	}
}

// Load читает YAML-конфигурацию поверх дефолтов, применяет ENV-переопределения и валидирует результат.
func Load() (*Config, error) {
	c := Default()

	path := getenv("CONFIG_PATH", "./config.yaml")
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// без файла работаем на дефолтах и ENV
	default:
		return nil, err
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("STORAGE_ROOT"); v != "" {
		c.StorageRoot = v
	}
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		c.UploadDir = v
	}
	if v := os.Getenv("STATIC_PREFIX"); v != "" {
		c.StaticPrefix = v
	}
	if v := os.Getenv("DEFAULT_EXTENSIONS"); v != "" {
		c.DefaultExtensions = splitComma(v)
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitComma(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"UPLOAD_QPS", &c.UploadQPS},
		{"RETENTION_DAYS", &c.RetentionDays},
		{"GC_INTERVAL_MIN", &c.GCIntervalMin},
	}
	for _, it := range ints {
		v := os.Getenv(it.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", it.key, err)
		}
		*it.dst = n
	}

	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("MAX_UPLOAD_BYTES: %w", err)
		}
		c.MaxUploadBytes = n
	}

	return nil
}

// Validate проверяет обязательные поля.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.StorageRoot) == "" {
		return fmt.Errorf("storage_root is empty")
	}
	if !strings.HasPrefix(c.StaticPrefix, "/") {
		return fmt.Errorf("static_prefix must start with '/': %q", c.StaticPrefix)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be > 0")
	}
	if c.UploadQPS < 0 || c.RetentionDays < 0 || c.GCIntervalMin < 0 {
		return fmt.Errorf("upload_qps, retention_days and gc_interval_min must not be negative")
	}
	return nil
}

// Extensions возвращает allow-list для категории, по умолчанию default_extensions.
func (c *Config) Extensions(category string) []string {
	if exts, ok := c.Categories[category]; ok {
		return exts
	}
	return c.DefaultExtensions
}

func splitComma(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}

	return def
}
