package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	DatabaseURL     string
	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string
	Minio           MinioConfig
	RedisAddr       string
	RedisPassword   string
	KafkaBrokers    []string
	DeliveryQueue   string
	Channel         ChannelConfig
	PublicBaseURL   string
	Catalog         CatalogConfig
	Payment         PaymentConfig
	SupportEmail    string
	SupportPhone    string
	Webhook         WebhookConfig
}

// WebhookConfig throttles inbound messages per sender and sets how long message ids are remembered.
type WebhookConfig struct {
	RatePerSec float64
	Burst      int
	DedupeTTL  time.Duration
}

// MinioConfig configures the MinIO object store backend.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// ChannelConfig configures the outbound messaging API used for document delivery.
type ChannelConfig struct {
	APIURL   string
	Token    string
	SenderID string

	// MediaHosts lists extra hosts whose media downloads carry Token. The APIURL host is always included.
	MediaHosts []string
}

// CatalogConfig holds template catalog settings that are not stored on the template rows.
type CatalogConfig struct {
	ColorCapable []string
}

// PaymentConfig holds the merchant details echoed in payment instructions.
type PaymentConfig struct {
	Method       string
	MerchantCode string
	Currency     string
}

var defaultColorCapable = []string{"template3", "template5", "template6", "template8", "template9", "template10"}

// Load reads configuration from .env, an optional config.yaml and environment variables.
// Environment variables win over the file; the file wins over defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	for _, path := range []string{".env", "cmd/.env"} {
		_ = godotenv.Load(path)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("config: read config.yaml: %v", err)
		}
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnv(v)

	env := normalizeEnv(v.GetString("env"))
	dbURL := strings.TrimSpace(v.GetString("database_url"))
	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:            v.GetString("port"),
		Env:             env,
		DatabaseURL:     dbURL,
		ObjectStoreType: normalizeStoreType(v.GetString("object_store")),
		LocalStoreDir:   v.GetString("local_store_dir"),
		AWSRegion:       v.GetString("aws_region"),
		S3Bucket:        v.GetString("s3_bucket"),
		S3Prefix:        v.GetString("s3_prefix"),
		SSEKMSKeyID:     v.GetString("sse_kms_key_id"),
		Minio: MinioConfig{
			Endpoint:  v.GetString("minio.endpoint"),
			AccessKey: v.GetString("minio.access_key"),
			SecretKey: v.GetString("minio.secret_key"),
			Bucket:    v.GetString("minio.bucket"),
			UseSSL:    v.GetBool("minio.use_ssl"),
		},
		RedisAddr:     v.GetString("redis.addr"),
		RedisPassword: v.GetString("redis.password"),
		KafkaBrokers:  splitAndTrim(v.GetString("kafka.brokers")),
		DeliveryQueue: strings.TrimSpace(v.GetString("delivery.sqs_queue_url")),
		Channel: ChannelConfig{
			APIURL:     strings.TrimRight(v.GetString("channel.api_url"), "/"),
			Token:      v.GetString("channel.api_token"),
			SenderID:   v.GetString("channel.sender_id"),
			MediaHosts: splitAndTrim(v.GetString("channel.media_hosts")),
		},
		PublicBaseURL: strings.TrimRight(v.GetString("public_base_url"), "/"),
		Catalog: CatalogConfig{
			ColorCapable: colorCapable(v),
		},
		Payment: PaymentConfig{
			Method:       v.GetString("payment.method"),
			MerchantCode: v.GetString("payment.merchant_code"),
			Currency:     strings.ToUpper(v.GetString("payment.currency")),
		},
		SupportEmail: v.GetString("support.email"),
		SupportPhone: v.GetString("support.phone"),
		Webhook: WebhookConfig{
			RatePerSec: v.GetFloat64("webhook.rate_per_sec"),
			Burst:      v.GetInt("webhook.burst"),
			DedupeTTL:  v.GetDuration("webhook.dedupe_ttl"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("env", "dev")
	v.SetDefault("object_store", "local")
	v.SetDefault("local_store_dir", "./data")
	v.SetDefault("minio.bucket", "cvbot-documents")
	v.SetDefault("payment.method", "EcoCash")
	v.SetDefault("payment.merchant_code", "123456")
	v.SetDefault("payment.currency", "USD")
	v.SetDefault("support.email", "support@cvmaker.com")
	v.SetDefault("support.phone", "+263 XXX XXX")
	v.SetDefault("public_base_url", "http://localhost:8080")
	v.SetDefault("webhook.rate_per_sec", 1.0)
	v.SetDefault("webhook.burst", 10)
	v.SetDefault("webhook.dedupe_ttl", "24h")
}

func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("port", "PORT")
	_ = v.BindEnv("env", "ENV")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("object_store", "OBJECT_STORE")
	_ = v.BindEnv("local_store_dir", "LOCAL_STORE_DIR")
	_ = v.BindEnv("aws_region", "AWS_REGION")
	_ = v.BindEnv("s3_bucket", "S3_BUCKET")
	_ = v.BindEnv("s3_prefix", "S3_PREFIX")
	_ = v.BindEnv("sse_kms_key_id", "SSE_KMS_KEY_ID")
	_ = v.BindEnv("minio.endpoint", "MINIO_ENDPOINT")
	_ = v.BindEnv("minio.access_key", "MINIO_ACCESS_KEY")
	_ = v.BindEnv("minio.secret_key", "MINIO_SECRET_KEY")
	_ = v.BindEnv("minio.bucket", "MINIO_BUCKET")
	_ = v.BindEnv("minio.use_ssl", "MINIO_USE_SSL")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	_ = v.BindEnv("delivery.sqs_queue_url", "DELIVERY_SQS_QUEUE_URL")
	_ = v.BindEnv("channel.api_url", "CHANNEL_API_URL")
	_ = v.BindEnv("channel.api_token", "CHANNEL_API_TOKEN")
	_ = v.BindEnv("channel.sender_id", "CHANNEL_SENDER_ID")
	_ = v.BindEnv("channel.media_hosts", "CHANNEL_MEDIA_HOSTS")
	_ = v.BindEnv("public_base_url", "PUBLIC_BASE_URL")
	_ = v.BindEnv("catalog.color_capable", "COLOR_CAPABLE_TEMPLATES")
	_ = v.BindEnv("payment.method", "PAYMENT_METHOD")
	_ = v.BindEnv("payment.merchant_code", "PAYMENT_MERCHANT_CODE")
	_ = v.BindEnv("payment.currency", "PAYMENT_CURRENCY")
	_ = v.BindEnv("support.email", "SUPPORT_EMAIL")
	_ = v.BindEnv("support.phone", "SUPPORT_PHONE")
	_ = v.BindEnv("webhook.rate_per_sec", "WEBHOOK_RATE_PER_SEC")
	_ = v.BindEnv("webhook.burst", "WEBHOOK_BURST")
	_ = v.BindEnv("webhook.dedupe_ttl", "WEBHOOK_DEDUPE_TTL")
}

// colorCapable accepts either a YAML list or a comma-separated env value.
func colorCapable(v *viper.Viper) []string {
	var keys []string
	switch raw := v.Get("catalog.color_capable").(type) {
	case string:
		keys = splitAndTrim(raw)
	case []any:
		for _, item := range raw {
			if s, ok := item.(string); ok {
				keys = append(keys, strings.TrimSpace(s))
			}
		}
	case []string:
		keys = append(keys, raw...)
	}
	if len(keys) == 0 {
		return append([]string(nil), defaultColorCapable...)
	}
	return keys
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "minio":
		return "minio"
	default:
		return "local"
	}
}
