package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Bootstrap    BootstrapConfig
	ClaimToken   ClaimTokenConfig
	Security     SecurityConfig
	Importer     ImporterConfig
	FeatureFlags FeatureFlagsConfig
	Eventing     EventingConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	BigQuery     BigQueryConfig
	Square       SquareConfig
	Outbox       OutboxConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DISCFOUND_APP_ENV" required:"true"`
	Port         string `envconfig:"DISCFOUND_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DISCFOUND_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DISCFOUND_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"DISCFOUND_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"DISCFOUND_DB_DSN"`
	Driver string `envconfig:"DISCFOUND_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DISCFOUND_DB_HOST"`
	LegacyPort     int    `envconfig:"DISCFOUND_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DISCFOUND_DB_USER"`
	LegacyPassword string `envconfig:"DISCFOUND_DB_PASSWORD"`
	LegacyName     string `envconfig:"DISCFOUND_DB_NAME"`
	LegacySSLMode  string `envconfig:"DISCFOUND_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DISCFOUND_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DISCFOUND_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DISCFOUND_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DISCFOUND_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DISCFOUND_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DISCFOUND_REDIS_ADDR"`
	Password     string        `envconfig:"DISCFOUND_REDIS_PASSWORD"`
	DB           int           `envconfig:"DISCFOUND_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DISCFOUND_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DISCFOUND_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DISCFOUND_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DISCFOUND_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DISCFOUND_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// BootstrapConfig carries the operator allow-list consulted when a brand-new
// identity signs up with no staged record. Emails listed here are granted the
// operator role at creation; everyone else starts as a member.
type BootstrapConfig struct {
	OperatorEmails []string `envconfig:"DISCFOUND_BOOTSTRAP_OPERATOR_EMAILS"`
}

// IsBootstrapOperator reports whether the email is on the configured allow-list.
func (b BootstrapConfig) IsBootstrapOperator(email string) bool {
	needle := strings.ToLower(strings.TrimSpace(email))
	if needle == "" {
		return false
	}
	for _, allowed := range b.OperatorEmails {
		if strings.ToLower(strings.TrimSpace(allowed)) == needle {
			return true
		}
	}
	return false
}

type ClaimTokenConfig struct {
	Secret   string        `envconfig:"DISCFOUND_CLAIM_TOKEN_SECRET" required:"true"`
	Issuer   string        `envconfig:"DISCFOUND_CLAIM_TOKEN_ISSUER" default:"discfound"`
	TokenTTL time.Duration `envconfig:"DISCFOUND_CLAIM_TOKEN_TTL" default:"168h"`
	BaseURL  string        `envconfig:"DISCFOUND_CLAIM_LINK_BASE_URL" default:"https://found.discfound.org/claims"`
}

type SecurityConfig struct {
	ArgonMemoryKB    int `envconfig:"DISCFOUND_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"DISCFOUND_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"DISCFOUND_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"DISCFOUND_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"DISCFOUND_ARGON_KEY_LEN" default:"32"`
	ClaimCodeLength  int `envconfig:"DISCFOUND_CLAIM_CODE_LENGTH" default:"6"`
}

type ImporterConfig struct {
	RowDelay     time.Duration `envconfig:"DISCFOUND_IMPORT_ROW_DELAY" default:"0s"`
	ErrorListCap int           `envconfig:"DISCFOUND_IMPORT_ERROR_LIST_CAP" default:"10"`
	LockTTL      time.Duration `envconfig:"DISCFOUND_IMPORT_LOCK_TTL" default:"30m"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"DISCFOUND_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"DISCFOUND_AUTO_MIGRATE" default:"false"`
}

type EventingConfig struct {
	OutboxIdempotencyTTL time.Duration `envconfig:"DISCFOUND_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"DISCFOUND_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"DISCFOUND_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"DISCFOUND_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	IdentityTopic        string `envconfig:"DISCFOUND_PUBSUB_IDENTITY_TOPIC" required:"true"`
	IdentitySubscription string `envconfig:"DISCFOUND_PUBSUB_IDENTITY_SUBSCRIPTION" required:"true"`
	OpsTopic             string `envconfig:"DISCFOUND_PUBSUB_OPS_TOPIC" required:"true"`
	OpsSubscription      string `envconfig:"DISCFOUND_PUBSUB_OPS_SUBSCRIPTION" required:"true"`
}

type BigQueryConfig struct {
	Dataset        string `envconfig:"DISCFOUND_BIGQUERY_DATASET" default:"discfound"`
	OpsEventsTable string `envconfig:"DISCFOUND_BIGQUERY_OPS_TABLE" default:"ops_events"`
}

type SquareConfig struct {
	AccessToken string `envconfig:"DISCFOUND_SQUARE_ACCESS_TOKEN"`
	Env         string `envconfig:"DISCFOUND_SQUARE_ENV" default:"sandbox"`
	LocationID  string `envconfig:"DISCFOUND_SQUARE_LOCATION_ID"`
	Currency    string `envconfig:"DISCFOUND_SQUARE_CURRENCY" default:"USD"`
}

// Environment returns the normalized Square environment (sandbox/production).
func (s SquareConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "sandbox"
	}
	return env
}

// Enabled reports whether Square credentials were supplied at all; sales are
// recorded without a payment reference when they were not.
func (s SquareConfig) Enabled() bool {
	return strings.TrimSpace(s.AccessToken) != ""
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"DISCFOUND_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"DISCFOUND_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"DISCFOUND_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type CronConfig struct {
	LinkSweepInterval    time.Duration `envconfig:"DISCFOUND_CRON_LINK_SWEEP_INTERVAL" default:"5m"`
	LinkTaskMaxAttempts  int           `envconfig:"DISCFOUND_CRON_LINK_TASK_MAX_ATTEMPTS" default:"5"`
	OutboxRetention      time.Duration `envconfig:"DISCFOUND_CRON_OUTBOX_RETENTION" default:"168h"`
	OutboxSweepInterval  time.Duration `envconfig:"DISCFOUND_CRON_OUTBOX_SWEEP_INTERVAL" default:"1h"`
	JobLockTTL           time.Duration `envconfig:"DISCFOUND_CRON_JOB_LOCK_TTL" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
