package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort       = 2333
	defaultEnv        = "development"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "geojournal"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"
	defaultRedisURL   = "redis://localhost:6379/0"

	// the geocode client appends /reverse itself
	defaultGeocoderEndpoint = "https://nominatim.openstreetmap.org"
	defaultGeocoderTimeout  = 3
	defaultGeocoderCacheTTL = 24 * 7
	defaultPipelineGrace    = 5
)

// Load reads and normalizes the YAML config at configPath. A missing file is
// not an error; defaults apply.
func Load(configPath string) (*AppConfig, error) {
	cfg := defaultAppConfig()

	if configPath == "" {
		configPath = DefaultConfigPath
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", configPath, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", configPath, err)
	}

	cfg.normalize()
	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port:     defaultPort,
		Env:      defaultEnv,
		RedisURL: defaultRedisURL,
		Database: DatabaseRuntimeConfig{
			Host:     defaultDBHost,
			Port:     defaultDBPort,
			User:     defaultDBUser,
			Password: defaultDBPassword,
			Name:     defaultDBName,
			Charset:  defaultDBCharset,
			Loc:      defaultDBLoc,
		},
		Geocoder: GeocoderConfig{
			Endpoint:       defaultGeocoderEndpoint,
			UserAgent:      "geojournal-core",
			TimeoutSeconds: defaultGeocoderTimeout,
			CacheTTLHours:  defaultGeocoderCacheTTL,
		},
		Pipeline: PipelineConfig{GraceSeconds: defaultPipelineGrace},
	}
}

func (c *AppConfig) normalize() {
	if c.Port <= 0 {
		c.Port = defaultPort
	}
	c.Env = normalizeEnv(c.Env)
	if strings.TrimSpace(c.RedisURL) == "" {
		c.RedisURL = defaultRedisURL
	}
	if c.Database.Host == "" {
		c.Database.Host = defaultDBHost
	}
	if c.Database.Port <= 0 {
		c.Database.Port = defaultDBPort
	}
	if c.Database.Charset == "" {
		c.Database.Charset = defaultDBCharset
	}
	if c.Database.Loc == "" {
		c.Database.Loc = defaultDBLoc
	}
	if c.Geocoder.Endpoint == "" {
		c.Geocoder.Endpoint = defaultGeocoderEndpoint
	}
	if c.Geocoder.TimeoutSeconds <= 0 {
		c.Geocoder.TimeoutSeconds = defaultGeocoderTimeout
	}
	if c.Geocoder.CacheTTLHours <= 0 {
		c.Geocoder.CacheTTLHours = defaultGeocoderCacheTTL
	}
	if c.Pipeline.GraceSeconds <= 0 {
		c.Pipeline.GraceSeconds = defaultPipelineGrace
	}
	origins := make([]string, 0, len(c.AllowedOrigins))
	for _, o := range c.AllowedOrigins {
		o = strings.TrimSpace(o)
		if o != "" {
			origins = append(origins, o)
		}
	}
	c.AllowedOrigins = origins
}

func normalizeEnv(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "prod", "production":
		return "production"
	default:
		return "development"
	}
}

// DSNValue builds the MySQL DSN, preferring the explicit dsn key.
func (c *AppConfig) DSNValue() string {
	if dsn := strings.TrimSpace(c.DSN); dsn != "" {
		return dsn
	}
	d := c.Database
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.Charset, d.Loc)
}

func (c *AppConfig) IsDev() bool { return c.Env != "production" }

// GeocodeTimeout returns the bound on a single reverse-geocode call.
func (c *AppConfig) GeocodeTimeout() time.Duration {
	return time.Duration(c.Geocoder.TimeoutSeconds) * time.Second
}

// GeocodeCacheTTL returns how long reverse-geocode results stay cached.
func (c *AppConfig) GeocodeCacheTTL() time.Duration {
	return time.Duration(c.Geocoder.CacheTTLHours) * time.Hour
}

// PipelineGrace returns how long the pipeline survives with zero observers.
func (c *AppConfig) PipelineGrace() time.Duration {
	return time.Duration(c.Pipeline.GraceSeconds) * time.Second
}

// LogDir resolves the log directory.
func (c *AppConfig) LogDir() string {
	if dir := strings.TrimSpace(c.Paths.Logs); dir != "" {
		return dir
	}
	return filepath.Join(".", "logs")
}

// PhotoDir resolves the app-private photo storage directory.
func (c *AppConfig) PhotoDir() string {
	if dir := strings.TrimSpace(c.Paths.Photos); dir != "" {
		return dir
	}
	return filepath.Join(".", "static", "photos")
}

// BackupDir resolves the local backup staging directory.
func (c *AppConfig) BackupDir() string {
	if dir := strings.TrimSpace(c.Paths.Backups); dir != "" {
		return dir
	}
	return filepath.Join(".", "backups")
}
