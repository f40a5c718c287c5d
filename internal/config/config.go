package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agencyops/renewal-engine/internal/domain"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadHost        string        `mapstructure:"read_host"`
	ReadPort        int           `mapstructure:"read_port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // Maximum amount of time a connection may be reused (e.g., "5m", "1h")
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // Maximum amount of time a connection may be idle (e.g., "10m", "30m")
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	SubjectPrefix  string        `mapstructure:"subject_prefix"`
	ConsumerName   string        `mapstructure:"consumer_name"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
	AckWait        time.Duration `mapstructure:"ack_wait"`
	MaxDeliver     int           `mapstructure:"max_deliver"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
	// AllowedOrigins restricts CORS; empty allows all origins
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	APIKeys      []string `mapstructure:"api_keys"`
}

// PoolConfig holds worker pool configuration
type PoolConfig struct {
	WorkerPoolSize  int `mapstructure:"pool_size"`
	WorkerQueueSize int `mapstructure:"queue_size"`
}

// PropertyConfig holds property verification provider configuration
type PropertyConfig struct {
	RPRURL            string        `mapstructure:"rpr_url"`
	RPRToken          string        `mapstructure:"rpr_token"`
	PropertyAPIURL    string        `mapstructure:"property_api_url"`
	PropertyAPIKey    string        `mapstructure:"property_api_key"`
	GeocoderURL       string        `mapstructure:"geocoder_url"`
	GeocoderAPIKey    string        `mapstructure:"geocoder_api_key"`
	NearmapURL        string        `mapstructure:"nearmap_url"`
	NearmapAPIKey     string        `mapstructure:"nearmap_api_key"`
	ProviderTimeout   time.Duration `mapstructure:"provider_timeout"` // per provider call
	HTTPClientTimeout time.Duration `mapstructure:"http_client_timeout"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
}

// RateLimitConfig holds the limit for a single provider
type RateLimitConfig struct {
	RequestsPerSecond int           `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	MaxWait           time.Duration `mapstructure:"max_wait"`
}

// RateLimiterConfig holds the distributed provider rate limiter configuration
type RateLimiterConfig struct {
	Enabled                 bool                       `mapstructure:"enabled"`
	RedisAddr               string                     `mapstructure:"redis_addr"`
	RedisPassword           string                     `mapstructure:"redis_password"`
	RedisDB                 int                        `mapstructure:"redis_db"`
	RedisKeyPrefix          string                     `mapstructure:"redis_key_prefix"`
	EnableLocalFallback     bool                       `mapstructure:"enable_local_fallback"`
	LocalFallbackMultiplier float64                    `mapstructure:"local_fallback_multiplier"`
	Providers               map[string]RateLimitConfig `mapstructure:"providers"`
}

// OutboxConfig holds service request outbox dispatch configuration
type OutboxConfig struct {
	BatchSize       int           `mapstructure:"batch_size"`
	MaxAttempts     int           `mapstructure:"max_attempts"`
	PollInterval    time.Duration `mapstructure:"poll_interval"`
	InitialBackoff  time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff      time.Duration `mapstructure:"max_backoff"`
	PublishTimeout  time.Duration `mapstructure:"publish_timeout"`
	AgencyZoomQueue string        `mapstructure:"agencyzoom_queue"` // service request pipeline/stage name on the AgencyZoom side
}

// ComparisonConfig holds comparison engine configuration
type ComparisonConfig struct {
	// RequiredDisclosures maps a line of business to the disclosure forms its renewals must carry
	RequiredDisclosures map[string][]string `mapstructure:"required_disclosures"`
}

// DisclosuresByLine returns the required disclosures keyed by line of business
func (c ComparisonConfig) DisclosuresByLine() map[domain.LineOfBusiness][]string {
	out := make(map[domain.LineOfBusiness][]string, len(c.RequiredDisclosures))
	for lob, forms := range c.RequiredDisclosures {
		out[domain.LineOfBusiness(strings.ToLower(lob))] = forms
	}
	return out
}

// APIConfig holds configuration for the API server
type APIConfig struct {
	BaseConfig  `mapstructure:",squash"`
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Property    PropertyConfig    `mapstructure:"property"`
	RateLimiter RateLimiterConfig `mapstructure:"rate_limiter"`
	Outbox      OutboxConfig      `mapstructure:"outbox"`
	Comparison  ComparisonConfig  `mapstructure:"comparison"`
}

// WorkerConfig holds configuration for the renewal worker
type WorkerConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig   `mapstructure:"database"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Worker     PoolConfig       `mapstructure:"worker"`
	Outbox     OutboxConfig     `mapstructure:"outbox"`
	Comparison ComparisonConfig `mapstructure:"comparison"`
}

// DispatcherConfig holds configuration for the service request dispatcher
type DispatcherConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig `mapstructure:"database"`
	NATS       NATSConfig     `mapstructure:"nats"`
	Worker     PoolConfig     `mapstructure:"worker"`
	Outbox     OutboxConfig   `mapstructure:"outbox"`
}

// LoadAPIConfig loads configuration for the API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.idle_timeout", 120)
	setDatabaseDefaults(v)
	setPropertyDefaults(v)
	setOutboxDefaults(v)
	v.SetDefault("rate_limiter.enabled", false)
	v.SetDefault("rate_limiter.redis_key_prefix", "renewal:limiter:")
	v.SetDefault("rate_limiter.enable_local_fallback", true)
	v.SetDefault("rate_limiter.local_fallback_multiplier", 0.5)

	if err := readInConfig(v); err != nil {
		return nil, err
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Database.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadWorkerConfig loads configuration for the renewal worker
func LoadWorkerConfig(configFile string, envPath string) (*WorkerConfig, error) {
	v := configureViper("renewal-worker", configFile, envPath)

	// Set defaults
	setDatabaseDefaults(v)
	setNATSDefaults(v)
	setOutboxDefaults(v)
	v.SetDefault("nats.consumer_name", "renewal-worker")
	v.SetDefault("worker.pool_size", 8)
	v.SetDefault("worker.queue_size", 256)

	if err := readInConfig(v); err != nil {
		return nil, err
	}

	var config WorkerConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Database.validate(); err != nil {
		return nil, err
	}
	if config.NATS.URL == "" {
		return nil, errors.New("nats.url is required")
	}

	return &config, nil
}

// LoadDispatcherConfig loads configuration for the service request dispatcher
func LoadDispatcherConfig(configFile string, envPath string) (*DispatcherConfig, error) {
	v := configureViper("sr-dispatcher", configFile, envPath)

	// Set defaults
	setDatabaseDefaults(v)
	setNATSDefaults(v)
	setOutboxDefaults(v)
	v.SetDefault("database.max_open_conns", 5)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("worker.pool_size", 4)
	v.SetDefault("worker.queue_size", 100)

	if err := readInConfig(v); err != nil {
		return nil, err
	}

	var config DispatcherConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Database.validate(); err != nil {
		return nil, err
	}
	if config.NATS.URL == "" {
		return nil, errors.New("nats.url is required")
	}

	return &config, nil
}

func setDatabaseDefaults(v *viper.Viper) {
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
}

func setNATSDefaults(v *viper.Viper) {
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "RENEWALS")
	v.SetDefault("nats.subject_prefix", "renewals")
	v.SetDefault("nats.ack_wait", "60s")
	v.SetDefault("nats.max_deliver", 5)
}

func setPropertyDefaults(v *viper.Viper) {
	v.SetDefault("property.rpr_url", "https://webapi.narrpr.com")
	v.SetDefault("property.property_api_url", "https://api.propertyapi.co")
	v.SetDefault("property.geocoder_url", "https://maps.googleapis.com/maps/api/geocode/json")
	v.SetDefault("property.nearmap_url", "https://api.nearmap.com")
	v.SetDefault("property.provider_timeout", "15s")
	v.SetDefault("property.http_client_timeout", "20s")
	v.SetDefault("property.cache_ttl", "168h") // 7 days
}

func setOutboxDefaults(v *viper.Viper) {
	v.SetDefault("outbox.batch_size", 50)
	v.SetDefault("outbox.max_attempts", 8)
	v.SetDefault("outbox.poll_interval", "10s")
	v.SetDefault("outbox.initial_backoff", "30s")
	v.SetDefault("outbox.max_backoff", "30m")
	v.SetDefault("outbox.publish_timeout", "10s")
	v.SetDefault("outbox.agencyzoom_queue", "Renewal Review")
}

// readInConfig reads the config file, tolerating a missing file so env-only deployments work
func readInConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

func (c *DatabaseConfig) validate() error {
	if c.Host == "" {
		return errors.New("database.host is required")
	}
	if c.DBName == "" {
		return errors.New("database.dbname is required")
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/api/, cmd/renewal-worker/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("RENEWAL_ENGINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	commonKeys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.read_host",
		"database.read_port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.subject_prefix",
		"nats.consumer_name",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		"nats.ack_wait",
		"nats.max_deliver",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.allowed_origins",
		// Auth
		"auth.jwt_public_key",
		"auth.api_keys",
		// Worker
		"worker.pool_size",
		"worker.queue_size",
		// Property providers
		"property.rpr_url",
		"property.rpr_token",
		"property.property_api_url",
		"property.property_api_key",
		"property.geocoder_url",
		"property.geocoder_api_key",
		"property.nearmap_url",
		"property.nearmap_api_key",
		"property.provider_timeout",
		"property.http_client_timeout",
		"property.cache_ttl",
		// Rate limiter
		"rate_limiter.enabled",
		"rate_limiter.redis_addr",
		"rate_limiter.redis_password",
		"rate_limiter.redis_db",
		"rate_limiter.redis_key_prefix",
		"rate_limiter.enable_local_fallback",
		"rate_limiter.local_fallback_multiplier",
		// Outbox
		"outbox.batch_size",
		"outbox.max_attempts",
		"outbox.poll_interval",
		"outbox.initial_backoff",
		"outbox.max_backoff",
		"outbox.publish_timeout",
		"outbox.agencyzoom_queue",
	}

	for _, key := range commonKeys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for i := 0; i < 5; i++ {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ReadDSN returns the read-replica database connection string.
// If ReadPort is not configured, it falls back to Port.
func (c *DatabaseConfig) ReadDSN() string {
	port := c.ReadPort
	if port == 0 {
		port = c.Port
	}

	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.ReadHost, port, c.User, c.Password, c.DBName, c.SSLMode)
}
