package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DBDriver   string `validate:"oneof=postgres sqlite"`
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPath     string

	ServiceURL     string
	ServiceSession string
	ServiceTimeout time.Duration
	ServiceRetries int `validate:"gte=1"`

	BatchMaxThreads  int `validate:"gte=1"`
	BatchPackageSize int `validate:"gte=1"`

	MappingRefreshCron string

	JWTSecret string
	LogLevel  string `validate:"oneof=debug info warn error"`
	Port      string
}

var validate = validator.New()

// LoadConfig reads the environment, after an optional .env file in the
// working directory (or the file named by ENV_FILE).
func LoadConfig() Config {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			log.Printf("config: load %s: %v", envFile, err)
		}
	}

	v := viper.New()
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("SERVICE_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVICE_RETRIES", 3)
	v.SetDefault("BATCH_MAX_THREADS", 3)
	v.SetDefault("BATCH_PACKAGE_SIZE", 100)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PORT", "8080")
	v.AutomaticEnv()

	return Config{
		DBDriver:   v.GetString("DB_DRIVER"),
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		DBPath:     v.GetString("DB_PATH"),

		ServiceURL:     v.GetString("SERVICE_URL"),
		ServiceSession: v.GetString("SERVICE_SESSION"),
		ServiceTimeout: v.GetDuration("SERVICE_TIMEOUT"),
		ServiceRetries: v.GetInt("SERVICE_RETRIES"),

		BatchMaxThreads:  v.GetInt("BATCH_MAX_THREADS"),
		BatchPackageSize: v.GetInt("BATCH_PACKAGE_SIZE"),

		MappingRefreshCron: v.GetString("MAPPING_REFRESH_CRON"),

		JWTSecret: v.GetString("JWT_SECRET"),
		LogLevel:  v.GetString("LOG_LEVEL"),
		Port:      v.GetString("PORT"),
	}
}

func (c Config) Validate() error {
	return validate.Struct(c)
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}
