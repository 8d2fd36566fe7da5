package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Default returns the configurations used when neither the file nor the
// environment provides a value.
func Default() Configs {
	return Configs{
		Env:      "local",
		LogLevel: "info",
		Database: DatabaseConfigs{
			Host:     "localhost",
			Port:     "3306",
			Database: "stakefit",
			User:         "root",
			LogLevel:     "error",
			DialTimeout:  5 * time.Second,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		ApiServer: APIServerConfigs{
			ServerConfigs:       ServerConfigs{Host: "", Port: "8080"},
			DefaultLimit:        20,
			MaxLimit:            100,
			ReadTimeout:         15 * time.Second,
			WriteTimeout:        30 * time.Second,
			IdleTimeout:         60 * time.Second,
			RequestTimeout:      20 * time.Second,
			RequestRetries:      2,
			RequestRetryBackoff: 50 * time.Millisecond,
			RateLimit:           20,
			RateBurst:           40,
			AllowedOrigins:      []string{"*"},
		},
		Auth: AuthConfigs{
			AccessToken:  TokenConfigs{Name: "access_token", Expiration: 15 * time.Minute},
			RefreshToken: TokenConfigs{Name: "refresh_token", Expiration: 30 * 24 * time.Hour},
		},
		File:    FileConfigs{MaxSize: 2 * 1024 * 1024},
		Redis:   RedisConfigs{Addr: "localhost:6379"},
		Kafka:   KafkaConfigs{Addr: "localhost:9092", ConsumerGroup: "progress"},
		Cron:    CronConfigs{CompleteChallenges: "@every 1m", ReconcileBalances: "@daily", ProgressSweep: "@every 5m"},
		CheckIn: CheckInConfigs{ProgressRetries: 3, ProgressBackoff: 100 * time.Millisecond},
	}
}

// Load reads the configurations from the toml file at path (optional, ignored
// if empty or missing) and then applies the environment variables on top. A
// .env file in the working directory is loaded into the environment first.
func Load(path string) (Configs, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("cannot load .env: %w", err)
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("cannot decode %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	if cfg.Auth.TokenSecret == "" {
		return cfg, errors.New("missing TOKEN_SECRET")
	}

	return cfg, nil
}

func applyEnv(cfg *Configs) error {
	var errs []error

	setString(&cfg.Env, "ENV")
	setString(&cfg.LogLevel, "LOG_LEVEL")

	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.Database, "DB_DATABASE")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.LogLevel, "DB_LOG_LEVEL")
	errs = append(errs, setDuration(&cfg.Database.DialTimeout, "DB_DIAL_TIMEOUT"))
	errs = append(errs, setDuration(&cfg.Database.ReadTimeout, "DB_READ_TIMEOUT"))
	errs = append(errs, setDuration(&cfg.Database.WriteTimeout, "DB_WRITE_TIMEOUT"))

	setString(&cfg.ApiServer.Host, "API_HOST")
	setString(&cfg.ApiServer.Port, "API_PORT")
	errs = append(errs, setInt(&cfg.ApiServer.DefaultLimit, "API_DEFAULT_LIMIT"))
	errs = append(errs, setInt(&cfg.ApiServer.MaxLimit, "API_MAX_LIMIT"))
	errs = append(errs, setFloat(&cfg.ApiServer.RateLimit, "API_RATE_LIMIT"))
	errs = append(errs, setInt(&cfg.ApiServer.RateBurst, "API_RATE_BURST"))
	errs = append(errs, setDuration(&cfg.ApiServer.ReadTimeout, "API_READ_TIMEOUT"))
	errs = append(errs, setDuration(&cfg.ApiServer.WriteTimeout, "API_WRITE_TIMEOUT"))
	errs = append(errs, setDuration(&cfg.ApiServer.IdleTimeout, "API_IDLE_TIMEOUT"))
	errs = append(errs, setDuration(&cfg.ApiServer.RequestTimeout, "API_REQUEST_TIMEOUT"))
	errs = append(errs, setInt(&cfg.ApiServer.RequestRetries, "API_REQUEST_RETRIES"))
	errs = append(errs, setDuration(&cfg.ApiServer.RequestRetryBackoff, "API_REQUEST_RETRY_BACKOFF"))
	if proxies := os.Getenv("API_TRUSTED_PROXIES"); proxies != "" {
		cfg.ApiServer.TrustedProxies = strings.Split(proxies, ",")
	}
	if origins := os.Getenv("API_ALLOWED_ORIGINS"); origins != "" {
		cfg.ApiServer.AllowedOrigins = strings.Split(origins, ",")
	}

	setString(&cfg.Auth.TokenSecret, "TOKEN_SECRET")
	errs = append(errs, setDuration(&cfg.Auth.AccessToken.Expiration, "ACCESS_TOKEN_DURATION"))
	errs = append(errs, setDuration(&cfg.Auth.RefreshToken.Expiration, "REFRESH_TOKEN_DURATION"))

	setString(&cfg.Storage.Region, "STORAGE_REGION")
	setString(&cfg.Storage.Endpoint, "STORAGE_ENDPOINT")
	setString(&cfg.Storage.AccessKey, "STORAGE_ACCESS_KEY")
	setString(&cfg.Storage.SecretKey, "STORAGE_SECRET_KEY")
	setString(&cfg.Storage.Bucket, "STORAGE_BUCKET")
	setString(&cfg.Storage.PublicURL, "STORAGE_PUBLIC_URL")
	cfg.Storage.Env = cfg.Env

	errs = append(errs, setInt(&cfg.File.MaxSize, "MAX_UPLOAD_FILE"))
	setString(&cfg.Redis.Addr, "REDIS_ADDRESS")
	setString(&cfg.Kafka.Addr, "KAFKA_ADDRESS")
	setString(&cfg.Kafka.ConsumerGroup, "KAFKA_CONSUMER_GROUP")
	setString(&cfg.Search.IndexDir, "SEARCH_INDEX_DIR")
	setString(&cfg.Cron.CompleteChallenges, "CRON_COMPLETE_CHALLENGES")
	setString(&cfg.Cron.ReconcileBalances, "CRON_RECONCILE_BALANCES")
	setString(&cfg.Cron.ProgressSweep, "CRON_PROGRESS_SWEEP")
	errs = append(errs, setInt(&cfg.CheckIn.ProgressRetries, "CHECKIN_PROGRESS_RETRIES"))
	errs = append(errs, setDuration(&cfg.CheckIn.ProgressBackoff, "CHECKIN_PROGRESS_BACKOFF"))

	return errors.Join(errs...)
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}

	*dst = n
	return nil
}

func setFloat(dst *float64, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}

	*dst = f
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}

	*dst = d
	return nil
}
