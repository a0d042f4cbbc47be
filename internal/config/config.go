package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Email     EmailConfig     `yaml:"email"`
	Log       LogConfig       `yaml:"log"`
	Booking   BookingConfig   `yaml:"booking"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// EmailConfig contains SendGrid settings
type EmailConfig struct {
	APIKey   string `yaml:"api_key"`
	From     string `yaml:"from"`
	FromName string `yaml:"from_name"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// BookingConfig lifts the rental policy constants out of the code so they
// can vary per deployment. Values are per-market defaults; locations may
// override the fee rates individually.
type BookingConfig struct {
	HoldDurationMinutes         int     `yaml:"hold_duration_minutes"`
	CancellationWindowHours     int     `yaml:"cancellation_window_hours"`
	CancellationFeePercent      float64 `yaml:"cancellation_fee_percent"`
	DefaultTaxRate              float64 `yaml:"default_tax_rate"`
	DefaultOneWayFee            float64 `yaml:"default_one_way_fee"`
	DefaultYoungDriverAge       int     `yaml:"default_young_driver_age"`
	DefaultYoungDriverFeePerDay float64 `yaml:"default_young_driver_fee_per_day"`
	DefaultLateFeePerHour       float64 `yaml:"default_late_fee_per_hour"`
	DefaultMileageRate          float64 `yaml:"default_mileage_rate"`
	DefaultExpectedMilesPerDay  float64 `yaml:"default_expected_miles_per_day"`
	DefaultFuelPricePerGallon   float64 `yaml:"default_fuel_price_per_gallon"`
	TrackingRingSize            int     `yaml:"tracking_ring_size"`
}

// HoldDuration returns the hold TTL as a duration.
func (b BookingConfig) HoldDuration() time.Duration {
	return time.Duration(b.HoldDurationMinutes) * time.Minute
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ExpireStaleHolds    string `yaml:"expire_stale_holds"`
	MarkOverdueReturns  string `yaml:"mark_overdue_returns"`
	SendPickupReminders string `yaml:"send_pickup_reminders"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Email
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.APIKey = val
	}
	if val := os.Getenv("EMAIL_FROM"); val != "" {
		c.Email.From = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}
}

// Validate checks the configuration and applies defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	// Booking policy defaults
	if c.Booking.HoldDurationMinutes == 0 {
		c.Booking.HoldDurationMinutes = 15
	}
	if c.Booking.CancellationWindowHours == 0 {
		c.Booking.CancellationWindowHours = 48
	}
	if c.Booking.CancellationFeePercent == 0 {
		c.Booking.CancellationFeePercent = 50
	}
	if c.Booking.DefaultTaxRate == 0 {
		c.Booking.DefaultTaxRate = 0.10
	}
	if c.Booking.DefaultYoungDriverAge == 0 {
		c.Booking.DefaultYoungDriverAge = 25
	}
	if c.Booking.DefaultYoungDriverFeePerDay == 0 {
		c.Booking.DefaultYoungDriverFeePerDay = 15
	}
	if c.Booking.DefaultLateFeePerHour == 0 {
		c.Booking.DefaultLateFeePerHour = 10
	}
	if c.Booking.DefaultMileageRate == 0 {
		c.Booking.DefaultMileageRate = 0.25
	}
	if c.Booking.DefaultExpectedMilesPerDay == 0 {
		c.Booking.DefaultExpectedMilesPerDay = 100
	}
	if c.Booking.DefaultFuelPricePerGallon == 0 {
		c.Booking.DefaultFuelPricePerGallon = 4.00
	}
	if c.Booking.TrackingRingSize == 0 {
		c.Booking.TrackingRingSize = 100
	}

	// Scheduler defaults
	if c.Scheduler.ExpireStaleHolds == "" {
		c.Scheduler.ExpireStaleHolds = "0 * * * * *" // every minute
	}
	if c.Scheduler.MarkOverdueReturns == "" {
		c.Scheduler.MarkOverdueReturns = "0 0 * * * *" // hourly
	}
	if c.Scheduler.SendPickupReminders == "" {
		c.Scheduler.SendPickupReminders = "0 0 9 * * *" // 9 AM UTC daily
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
