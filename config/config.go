package config

import (
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/joho/godotenv"
)

type Config struct {
	AppName                       string   `env:"APP_NAME" env-default:"fern-api"`
	Port                          int      `env:"PORT" env-default:"3004"`
	LogLevel                      string   `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs                    bool     `env:"PRETTY_LOGS" env-default:"false"`
	HttpServerWriteTimeoutSeconds int      `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerReadTimeoutSeconds  int      `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerIdleTimeoutSeconds  int      `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" env-default:"10"`
	MaxHeaderBytes                int      `env:"HTTP_SERVER_MAX_HEADER_BYTES" env-default:"64000"` // 64KB
	ReadHeaderTimeoutSeconds      int      `env:"HTTP_SERVER_READ_HEADER_TIMEOUT_SECONDS" env-default:"10"`
	AllowOrigins                  []string `env:"HTTP_SERVER_ALLOW_ORIGINS" env-default:"*"`
	AllowMethods                  []string `env:"HTTP_SERVER_ALLOW_METHODS" env-default:"GET,POST,PUT,DELETE"`
	StartupMaxAttempts            int      `env:"STARTUP_MAX_ATTEMPTS" env-default:"5"`

	// PostgreSQL (reference + learning store)
	DatabaseDriver                string        `env:"DB_DRIVER" env-default:"postgres"`
	DatabaseHost                  string        `env:"DB_HOST" env-default:""`
	DatabasePort                  string        `env:"DB_PORT" env-default:"5432"`
	DatabaseUserName              string        `env:"DB_USER_NAME" env-default:""`
	DatabasePassword              string        `env:"DB_PASSWORD" env-default:""`
	DatabaseName                  string        `env:"DB_NAME" env-default:"fern"`
	DatabaseSSLMode               string        `env:"DB_SQL_MODE" env-default:"disable"`
	DatabaseReconnectRetryCount   int           `env:"DB_RECONNECT_RETRY_COUNT" env-default:"3"`
	DatabaseMaxOpenConns          int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	DatabaseMaxIdleConns          int           `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	DatabaseConnMaxLifetime       time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"10s"`
	DatabaseMigrationVersion      int           `env:"DB_MIGRATION_VERSION" env-default:"0"`
	DatabaseMigrationForce        int           `env:"DB_MIGRATION_FORCE" env-default:"0"`
	DatabaseMigrationAutoRollback bool          `env:"DB_MIGRATION_AUTO_ROLLBACK" env-default:"true"`

	// Kafka Consumer (inbound chat-order messages)
	KafkaBrokers         []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	KafkaOrdersTopic     string   `env:"KAFKA_ORDERS_TOPIC" env-default:"chat-orders"`
	KafkaConsumerGroup   string   `env:"KAFKA_CONSUMER_GROUP" env-default:"fern-consumer"`
	KafkaConsumerEnabled bool     `env:"KAFKA_CONSUMER_ENABLED" env-default:"true"`

	// Kafka Producer (resolution + learning events)
	KafkaEventsTopic  string `env:"KAFKA_EVENTS_TOPIC" env-default:"resolution-events"`
	KafkaBatchSize    int    `env:"KAFKA_BATCH_SIZE" env-default:"100"`
	KafkaBatchTimeout int    `env:"KAFKA_BATCH_TIMEOUT_MS" env-default:"100"`
	KafkaRequiredAcks int    `env:"KAFKA_REQUIRED_ACKS" env-default:"1"`
	KafkaCompression  string `env:"KAFKA_COMPRESSION" env-default:"snappy"`

	// Tracing
	TracingEnabled  bool   `env:"TRACING_ENABLED" env-default:"false"`
	TracingEndpoint string `env:"TRACING_ENDPOINT" env-default:"localhost:4317"`
	TracingProtocol string `env:"TRACING_PROTOCOL" env-default:"grpc"`
	TracingInsecure bool   `env:"TRACING_INSECURE" env-default:"true"`

	// Alias store
	AliasCacheTTL time.Duration `env:"ALIAS_CACHE_TTL" env-default:"60s"`

	// Item resolution policy. These thresholds are tuned operating values, not
	// derived constants; the decision engine tests pin their boundaries.
	ItemMinScore         float64 `env:"ITEM_MIN_SCORE" env-default:"0.55"`
	ItemMinGap           float64 `env:"ITEM_MIN_GAP" env-default:"0.15"`
	ItemHighScore        float64 `env:"ITEM_HIGH_SCORE" env-default:"0.95"`
	ItemHighGap          float64 `env:"ITEM_HIGH_GAP" env-default:"0.20"`
	ItemStrongScore      float64 `env:"ITEM_STRONG_SCORE" env-default:"0.88"`
	ItemStrongGap        float64 `env:"ITEM_STRONG_GAP" env-default:"0.30"`
	ItemNoAliasScore     float64 `env:"ITEM_NO_ALIAS_SCORE" env-default:"0.90"`
	ItemNoAliasGap       float64 `env:"ITEM_NO_ALIAS_GAP" env-default:"0.50"`
	ItemMaxCandidates    int     `env:"ITEM_MAX_CANDIDATES" env-default:"80"`
	ItemReviewCandidates int     `env:"ITEM_REVIEW_CANDIDATES" env-default:"8"`

	// Client resolution policy
	ClientAutoScore     float64 `env:"CLIENT_AUTO_SCORE" env-default:"0.93"`
	ClientAutoGap       float64 `env:"CLIENT_AUTO_GAP" env-default:"0.08"`
	ClientForceScore    float64 `env:"CLIENT_FORCE_SCORE" env-default:"0.45"`
	ClientForceGap      float64 `env:"CLIENT_FORCE_GAP" env-default:"0.15"`
	ClientMaxCandidates int     `env:"CLIENT_MAX_CANDIDATES" env-default:"8"`
}

// Load reads .env (when present) and binds environment variables onto a Config.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
