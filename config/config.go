package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort     string `mapstructure:"APP_PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	Env         string `mapstructure:"ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisStateDB  int    `mapstructure:"REDIS_STATE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Conversation state TTLs.
	StateTTLMinutes      int `mapstructure:"STATE_TTL_MINUTES"`
	PaymentStateTTLHours int `mapstructure:"PAYMENT_STATE_TTL_HOURS"`

	// Reservation cleanup.
	RetentionHours            int `mapstructure:"RETENTION_HOURS"`
	SweepIntervalMinutes      int `mapstructure:"SWEEP_INTERVAL_MINUTES"`
	StateSweepIntervalMinutes int `mapstructure:"STATE_SWEEP_INTERVAL_MINUTES"`

	// Messaging boundary.
	OperatorChannel    string `mapstructure:"OPERATOR_CHANNEL"`
	OutboundWebhookURL string `mapstructure:"OUTBOUND_WEBHOOK_URL"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_STATE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("STATE_TTL_MINUTES", 60)
	viper.SetDefault("PAYMENT_STATE_TTL_HOURS", 24)
	viper.SetDefault("RETENTION_HOURS", 24)
	viper.SetDefault("SWEEP_INTERVAL_MINUTES", 30)
	viper.SetDefault("STATE_SWEEP_INTERVAL_MINUTES", 15)
	viper.SetDefault("OPERATOR_CHANNEL", "")
	viper.SetDefault("OUTBOUND_WEBHOOK_URL", "")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
