package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DBClientSQLite   = "sqlite"
	DBClientMySQL    = "mysql"
	DBClientPostgres = "postgres"

	AuthProviderLocal    = "local"
	AuthProviderSupabase = "supabase"

	EnvDevelopment = "development"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Supabase  SupabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Storage   StorageConfig
	WS        WSConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

func (a AppConfig) IsDevelopment() bool {
	return strings.EqualFold(a.Environment, EnvDevelopment)
}

type DatabaseConfig struct {
	Client string

	// SQLite
	DBPath string

	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type AuthConfig struct {
	Provider  string
	JWTSecret string
	JWTExpire time.Duration
}

type SupabaseConfig struct {
	URL            string
	AnonKey        string
	ServiceRoleKey string
	JWTSecret      string

	VerifyAttempts int
	VerifyDelay    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

type RateLimitConfig struct {
	Window      time.Duration
	MaxRequests int
}

type CORSConfig struct {
	FrontendURL    string
	AllowedOrigins []string
}

type StorageConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	Bucket        string
	PublicBaseURL string
}

func (s StorageConfig) Enabled() bool {
	return s.Endpoint != "" && s.Bucket != ""
}

type WSConfig struct {
	Port string
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	optDefault := func(key, def string) string {
		if v := opt(key); v != "" {
			return v
		}
		return def
	}
	optInt := func(key string, def int) int {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	optDuration := func(key string, def time.Duration) time.Duration {
		raw := opt(key)
		if raw == "" {
			return def
		}
		d, err := ParseDuration(raw)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return d
	}
	optMillis := func(key string, def time.Duration) time.Duration {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			invalid = append(invalid, key)
			return def
		}
		return time.Duration(v) * time.Millisecond
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Database = DatabaseConfig{
		Client:                strings.ToLower(optDefault("DB_CLIENT", DBClientSQLite)),
		DBPath:                optDefault("DB_PATH", "database/worklinkph.db"),
		DBHost:                opt("DB_HOST"),
		DBPort:                opt("DB_PORT"),
		DBName:                opt("DB_NAME"),
		DBUser:                opt("DB_USER"),
		DBPassword:            opt("DB_PASSWORD"),
		DBSSLMode:             optDefault("DB_SSL_MODE", "disable"),
		ConnectTimeout:        optDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(optInt("DB_POOL_MAX_CONNS", 10)),
		PoolMinConns:          int32(optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   optDuration("DB_POOL_MAX_CONN_LIFETIME", time.Hour),
		PoolMaxConnIdleTime:   optDuration("DB_POOL_MAX_CONN_IDLE_TIME", 30*time.Minute),
		PoolHealthCheckPeriod: optDuration("DB_POOL_HEALTH_CHECK_PERIOD", time.Minute),
	}

	cfg.Auth = AuthConfig{
		Provider:  strings.ToLower(optDefault("AUTH_PROVIDER", AuthProviderLocal)),
		JWTSecret: opt("JWT_SECRET"),
		JWTExpire: optDuration("JWT_EXPIRE", 7*24*time.Hour),
	}

	cfg.Supabase = SupabaseConfig{
		URL:            strings.TrimRight(opt("SUPABASE_URL"), "/"),
		AnonKey:        opt("SUPABASE_ANON_KEY"),
		ServiceRoleKey: opt("SUPABASE_SERVICE_ROLE_KEY"),
		JWTSecret:      opt("SUPABASE_JWT_SECRET"),
		VerifyAttempts: optInt("SUPABASE_AUTH_VERIFY_ATTEMPTS", 5),
		VerifyDelay:    optMillis("SUPABASE_AUTH_VERIFY_DELAY_MS", 500*time.Millisecond),
	}

	cfg.Redis = RedisConfig{
		Host:     optDefault("REDIS_HOST", "localhost"),
		Port:     optDefault("REDIS_PORT", "6379"),
		Password: opt("REDIS_PASSWORD"),
		TTL:      optDuration("REDIS_TTL", 10*time.Minute),
	}

	cfg.RateLimit = RateLimitConfig{
		Window:      optMillis("RATE_LIMIT_WINDOW_MS", 15*time.Minute),
		MaxRequests: optInt("RATE_LIMIT_MAX_REQUESTS", 100),
	}

	cfg.CORS = CORSConfig{
		FrontendURL:    opt("FRONTEND_URL"),
		AllowedOrigins: splitList(optDefault("CORS_ALLOWED_ORIGINS", "https://worklinkph.vercel.app,http://localhost:3000")),
	}

	cfg.Storage = StorageConfig{
		Endpoint:      opt("S3_ENDPOINT"),
		AccessKey:     opt("S3_ACCESS_KEY"),
		SecretKey:     opt("S3_SECRET_KEY"),
		UseSSL:        strings.EqualFold(opt("S3_USE_SSL"), "true"),
		Bucket:        optDefault("S3_BUCKET", "avatars"),
		PublicBaseURL: strings.TrimRight(opt("S3_PUBLIC_BASE_URL"), "/"),
	}

	cfg.WS = WSConfig{Port: opt("WS_PORT")}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints between the database client and
// the auth provider.
func (c Config) Validate() error {
	switch c.Database.Client {
	case DBClientSQLite, DBClientMySQL, DBClientPostgres:
	default:
		return fmt.Errorf("%w: unsupported DB_CLIENT %q", errInvalidEnv, c.Database.Client)
	}

	switch c.Auth.Provider {
	case AuthProviderLocal:
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("%w: JWT_SECRET", errMissingRequiredEnv)
		}
		if c.Auth.JWTExpire <= 0 {
			return fmt.Errorf("%w: JWT_EXPIRE must be positive", errInvalidEnv)
		}
	case AuthProviderSupabase:
		if c.Database.Client != DBClientPostgres {
			return fmt.Errorf("%w: AUTH_PROVIDER=supabase requires DB_CLIENT=postgres", errInvalidEnv)
		}
		var missing []string
		if c.Supabase.URL == "" {
			missing = append(missing, "SUPABASE_URL")
		}
		if c.Supabase.ServiceRoleKey == "" {
			missing = append(missing, "SUPABASE_SERVICE_ROLE_KEY")
		}
		if c.Supabase.JWTSecret == "" {
			missing = append(missing, "SUPABASE_JWT_SECRET")
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
		}
	default:
		return fmt.Errorf("%w: unsupported AUTH_PROVIDER %q", errInvalidEnv, c.Auth.Provider)
	}

	if c.RateLimit.MaxRequests <= 0 {
		return fmt.Errorf("%w: RATE_LIMIT_MAX_REQUESTS must be positive", errInvalidEnv)
	}
	return nil
}

// ParseDuration accepts Go durations ("15m", "168h") plus a whole-day form
// ("7d") and bare seconds ("600").
func ParseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.New("empty duration")
	}
	if strings.HasSuffix(raw, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(raw, "d"))
		if err != nil || days <= 0 {
			return 0, fmt.Errorf("invalid day duration %q", raw)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("invalid duration %q", raw)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid duration %q", raw)
	}
	return d, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
