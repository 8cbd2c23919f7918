package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Auth      AuthConfig
	Stripe    StripeConfig
	Media     MediaConfig
	Observ    ObservabilityConfig
	Business  BusinessConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port        string
	Env         string
	CORSOrigins []string
}

type MongoConfig struct {
	URI      string
	Database string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers       []string
	TopicOrder    string
	ConsumerGroup string
}

type AuthConfig struct {
	JWTSecret      string
	TokenTTLHours  int
	RefreshTTLDays int
}

type StripeConfig struct {
	SecretKey string
	Currency  string
}

type MediaConfig struct {
	CloudinaryURL string
	Folder        string
}

type ObservabilityConfig struct {
	JaegerEndpoint string
}

type BusinessConfig struct {
	ReturnWindowDays int
	TaxRatePercent   float64
	FreeShippingMin  int64
	ShippingFlat     int64
}

type RateLimitConfig struct {
	WindowSeconds int
	MaxRequests   int
}

func Load() *Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	tokenTTL, _ := strconv.Atoi(getEnv("JWT_TTL_HOURS", "24"))
	refreshTTL, _ := strconv.Atoi(getEnv("REFRESH_TTL_DAYS", "30"))
	returnWindow, _ := strconv.Atoi(getEnv("RETURN_WINDOW_DAYS", "7"))
	taxRate, _ := strconv.ParseFloat(getEnv("TAX_RATE_PERCENT", "10"), 64)
	freeShipMin, _ := strconv.ParseInt(getEnv("FREE_SHIPPING_MIN", "50000"), 10, 64)
	shippingFlat, _ := strconv.ParseInt(getEnv("SHIPPING_FLAT", "4000"), 10, 64)
	rlWindow, _ := strconv.Atoi(getEnv("RATE_LIMIT_WINDOW_SECONDS", "60"))
	rlMax, _ := strconv.Atoi(getEnv("RATE_LIMIT_MAX_REQUESTS", "20"))

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Env:         getEnv("ENV", "development"),
			CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "marketplace"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers:       strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			TopicOrder:    getEnv("KAFKA_TOPIC_ORDER_EVENTS", "order-events"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "marketplace-service-group"),
		},
		Auth: AuthConfig{
			JWTSecret:      os.Getenv("JWT_SECRET"),
			TokenTTLHours:  tokenTTL,
			RefreshTTLDays: refreshTTL,
		},
		Stripe: StripeConfig{
			SecretKey: os.Getenv("STRIPE_SECRET_KEY"),
			Currency:  getEnv("STRIPE_CURRENCY", "usd"),
		},
		Media: MediaConfig{
			CloudinaryURL: os.Getenv("CLOUDINARY_URL"),
			Folder:        getEnv("CLOUDINARY_FOLDER", "marketplace"),
		},
		Observ: ObservabilityConfig{
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		},
		Business: BusinessConfig{
			ReturnWindowDays: returnWindow,
			TaxRatePercent:   taxRate,
			FreeShippingMin:  freeShipMin,
			ShippingFlat:     shippingFlat,
		},
		RateLimit: RateLimitConfig{
			WindowSeconds: rlWindow,
			MaxRequests:   rlMax,
		},
	}

	// Secrets carry no baked fallbacks.
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	if cfg.Server.Env == "production" && os.Getenv("MONGO_URI") == "" {
		log.Fatal("MONGO_URI is not set")
	}

	log.Printf("Config loaded: env=%s, port=%s", cfg.Server.Env, cfg.Server.Port)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
