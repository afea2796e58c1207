package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	// Persistence
	SQLitePath string
	// Cache Configuration
	UseCache      bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	CacheTTL      int // seconds
	// Kafka Configuration
	UseEvents         bool
	KafkaBrokers      []string
	KafkaTopicCatalog string
	KafkaTopicStock   string
	KafkaClientID     string
	KafkaAcks         string
	KafkaRetries      int
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Parse Kafka brokers (comma-separated)
	kafkaBrokersStr := getEnv("KAFKA_BROKERS", "localhost:9093")
	kafkaBrokers := strings.Split(kafkaBrokersStr, ",")
	for i, broker := range kafkaBrokers {
		kafkaBrokers[i] = strings.TrimSpace(broker)
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		// Persistence
		SQLitePath: getEnv("SQLITE_PATH", "./data/store_tracker.db"),
		// Cache Configuration
		UseCache:      getEnvAsBool("USE_CACHE", false),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		CacheTTL:      getEnvAsInt("CACHE_TTL", 300),
		// Kafka Configuration
		UseEvents:         getEnvAsBool("USE_EVENTS", false),
		KafkaBrokers:      kafkaBrokers,
		KafkaTopicCatalog: getEnv("KAFKA_TOPIC_CATALOG", "store.catalog"),
		KafkaTopicStock:   getEnv("KAFKA_TOPIC_STOCK", "store.stock"),
		KafkaClientID:     getEnv("KAFKA_CLIENT_ID", "store-tracker"),
		KafkaAcks:         getEnv("KAFKA_ACKS", "all"),
		KafkaRetries:      getEnvAsInt("KAFKA_RETRIES", 3),
	}
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return result
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return result
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
