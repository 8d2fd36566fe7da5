package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env      string
	LogLevel string

	Database  DatabaseConfigs
	ApiServer APIServerConfigs
	Auth      AuthConfigs
	Storage   S3Configs
	File      FileConfigs
	Redis     RedisConfigs
	Kafka     KafkaConfigs
	Search    SearchConfigs
	Cron      CronConfigs
	CheckIn   CheckInConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
	LogLevel string

	// Bounds of a single connection attempt and of every read/write on a
	// connection. Zero leaves the driver default (no timeout).
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func (d *DatabaseConfigs) ConnectionString() string {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)

	if d.DialTimeout > 0 {
		dsn += "&timeout=" + d.DialTimeout.String()
	}

	if d.ReadTimeout > 0 {
		dsn += "&readTimeout=" + d.ReadTimeout.String()
	}

	if d.WriteTimeout > 0 {
		dsn += "&writeTimeout=" + d.WriteTimeout.String()
	}

	return dsn
}

// MigrationString is the data source name used by golang-migrate, which
// requires multi statements to be enabled.
func (d *DatabaseConfigs) MigrationString() string {
	return d.ConnectionString() + "&multiStatements=true"
}

type ServerConfigs struct {
	Host string
	Port string
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type APIServerConfigs struct {
	ServerConfigs

	DefaultLimit int
	MaxLimit     int

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// RequestTimeout is the deadline of every request context. Read requests
	// failing with a transient error are retried RequestRetries times.
	RequestTimeout      time.Duration
	RequestRetries      int
	RequestRetryBackoff time.Duration

	// Requests per second allowed for each client, zero disables the limit.
	RateLimit float64
	RateBurst int

	// X-Forwarded-For is only used to identify the client when the request
	// comes from one of these addresses or CIDRs.
	TrustedProxies []string

	AllowedOrigins []string
}

type AuthConfigs struct {
	TokenSecret  string
	AccessToken  TokenConfigs
	RefreshToken TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type S3Configs struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Env       string
	Bucket    string
	PublicURL string
}

type FileConfigs struct {
	MaxSize int
}

type RedisConfigs struct {
	Addr string
}

type KafkaConfigs struct {
	Addr          string
	ConsumerGroup string
}

type SearchConfigs struct {
	// An empty IndexDir keeps the index in memory.
	IndexDir string
}

type CronConfigs struct {
	CompleteChallenges string
	ReconcileBalances  string
	ProgressSweep      string
}

type CheckInConfigs struct {
	ProgressRetries int
	ProgressBackoff time.Duration
}
