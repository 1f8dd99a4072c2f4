package config

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                   `yaml:"port"`
	DSN            string                `yaml:"dsn"` // MySQL DSN, overrides database.*
	RedisURL       string                `yaml:"redis_url"`
	Database       DatabaseRuntimeConfig `yaml:"database"`
	Env            string                `yaml:"env"` // "development" | "production"
	AllowedOrigins []string              `yaml:"allowed_origins"`
	JWTSecret      string                `yaml:"jwt_secret"`
	Owner          OwnerConfig           `yaml:"owner"`
	Paths          RuntimePathsConfig    `yaml:"paths"`
	Geocoder       GeocoderConfig        `yaml:"geocoder"`
	Pipeline       PipelineConfig        `yaml:"pipeline"`
	S3             S3Config              `yaml:"s3"`
}

type DatabaseRuntimeConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Charset  string `yaml:"charset"`
	Loc      string `yaml:"loc"`
}

// OwnerConfig bootstraps the single owner account on first start.
type OwnerConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type RuntimePathsConfig struct {
	Logs    string `yaml:"logs"`
	Photos  string `yaml:"photos"`
	Backups string `yaml:"backups"`
}

// GeocoderConfig configures the reverse-geocoding adapter.
type GeocoderConfig struct {
	Endpoint       string `yaml:"endpoint"`
	UserAgent      string `yaml:"user_agent"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	CacheTTLHours  int    `yaml:"cache_ttl_hours"`
}

// PipelineConfig tunes the live query pipeline.
type PipelineConfig struct {
	// GraceSeconds is how long the pipeline keeps its store subscription
	// alive after the last observer detaches.
	GraceSeconds int `yaml:"grace_seconds"`
}

// S3Config configures the optional backup uploader.
type S3Config struct {
	Enable          bool   `yaml:"enable"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Prefix          string `yaml:"prefix"`
	UsePathStyle    bool   `yaml:"use_path_style"`
}
