package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Pool      PoolConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Store     StoreConfig
	Printer   PrinterConfig
	Email     EmailConfig
	Scheduler SchedulerConfig
	Admin     AdminConfig
	Log       LogConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	// URL takes precedence over the individual fields when set
	URL      string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

// PoolConfig sizes the connection pool. InitialSize connections are opened at
// startup; MaxSize is never exceeded.
type PoolConfig struct {
	InitialSize int
	MaxSize     int
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

// StoreConfig is printed on receipts and drives the inventory reports
type StoreConfig struct {
	Name              string
	Address           string
	Phone             string
	TaxID             string
	LowStockThreshold int
	ExpiringDays      int
}

type PrinterConfig struct {
	Type    string // usb, network, none
	USBPath string
	Address string
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// Enabled reports whether SMTP is configured
func (c EmailConfig) Enabled() bool {
	return c.SMTPHost != "" && c.FromEmail != ""
}

type SchedulerConfig struct {
	Enabled         bool
	DailyReportSpec string
	ExpirySweepSpec string
}

type AdminConfig struct {
	Username string
	Password string
	FullName string
}

type LogConfig struct {
	Level string
}

// Load reads .env and the environment. A missing .env is not an error; the
// returned warning is for the caller to log once a logger exists.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	var warning error
	if err := viper.ReadInConfig(); err != nil {
		warning = fmt.Errorf(".env file not found, using environment variables: %w", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "retailpos-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", false)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "retailpos")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "UTC")
	viper.SetDefault("DB_POOL_INITIAL_SIZE", 2)
	viper.SetDefault("DB_POOL_MAX_SIZE", 10)
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 12)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("STORE_NAME", "Retail POS")
	viper.SetDefault("STORE_LOW_STOCK_THRESHOLD", 50)
	viper.SetDefault("STORE_EXPIRING_DAYS", 7)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_FROM_NAME", "Retail POS")
	viper.SetDefault("SCHEDULER_ENABLED", true)
	viper.SetDefault("SCHEDULER_DAILY_REPORT", "55 23 * * *")
	viper.SetDefault("SCHEDULER_EXPIRY_SWEEP", "5 0 * * *")
	viper.SetDefault("ADMIN_USERNAME", "admin")
	viper.SetDefault("LOG_LEVEL", "info")

	cfg := &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			URL:      viper.GetString("DB_URL"),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		Pool: PoolConfig{
			InitialSize: viper.GetInt("DB_POOL_INITIAL_SIZE"),
			MaxSize:     viper.GetInt("DB_POOL_MAX_SIZE"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Store: StoreConfig{
			Name:              viper.GetString("STORE_NAME"),
			Address:           viper.GetString("STORE_ADDRESS"),
			Phone:             viper.GetString("STORE_PHONE"),
			TaxID:             viper.GetString("STORE_TAX_ID"),
			LowStockThreshold: viper.GetInt("STORE_LOW_STOCK_THRESHOLD"),
			ExpiringDays:      viper.GetInt("STORE_EXPIRING_DAYS"),
		},
		Printer: PrinterConfig{
			Type:    viper.GetString("PRINTER_TYPE"),
			USBPath: viper.GetString("PRINTER_USB_PATH"),
			Address: viper.GetString("PRINTER_ADDRESS"),
		},
		Email: EmailConfig{
			SMTPHost:     viper.GetString("SMTP_HOST"),
			SMTPPort:     viper.GetInt("SMTP_PORT"),
			SMTPUsername: viper.GetString("SMTP_USERNAME"),
			SMTPPassword: viper.GetString("SMTP_PASSWORD"),
			FromName:     viper.GetString("SMTP_FROM_NAME"),
			FromEmail:    viper.GetString("SMTP_FROM_EMAIL"),
		},
		Scheduler: SchedulerConfig{
			Enabled:         viper.GetBool("SCHEDULER_ENABLED"),
			DailyReportSpec: viper.GetString("SCHEDULER_DAILY_REPORT"),
			ExpirySweepSpec: viper.GetString("SCHEDULER_EXPIRY_SWEEP"),
		},
		Admin: AdminConfig{
			Username: viper.GetString("ADMIN_USERNAME"),
			Password: viper.GetString("ADMIN_PASSWORD"),
			FullName: viper.GetString("ADMIN_NAME"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	if err := cfg.Pool.Validate(); err != nil {
		return nil, err
	}
	return cfg, warning
}

// Validate rejects pool sizes the pool cannot honour
func (c PoolConfig) Validate() error {
	if c.MaxSize < 1 {
		return fmt.Errorf("DB_POOL_MAX_SIZE must be at least 1, got %d", c.MaxSize)
	}
	if c.InitialSize < 0 || c.InitialSize > c.MaxSize {
		return fmt.Errorf("DB_POOL_INITIAL_SIZE must be between 0 and %d, got %d", c.MaxSize, c.InitialSize)
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
