package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	GinMode        string
	MongoURI       string
	MongoDatabase  string
	RabbitMQURI    string
	RabbitExchange string
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	OpenAIModel    string
	JWTSecret      string
	ServiceName    string
	ServiceVersion string
}

var AppConfig *Config

func LoadConfig() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Port:           getEnvOrDefault("PORT", "8080"),
		GinMode:        getEnvOrDefault("GIN_MODE", "debug"),
		MongoURI:       getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getEnvOrDefault("MONGO_DATABASE", "tutor_service"),
		RabbitMQURI:    getEnvOrDefault("RABBITMQ_URI", ""),
		RabbitExchange: getEnvOrDefault("RABBITMQ_EXCHANGE", ""),
		OpenAIAPIKey:   getEnvOrDefault("OPENAI_API_KEY", ""),
		OpenAIBaseURL:  getEnvOrDefault("OPENAI_BASE_URL", ""),
		OpenAIModel:    getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		JWTSecret:      getEnvOrDefault("JWT_SECRET", "your-jwt-secret-key"),
		ServiceName:    getEnvOrDefault("SERVICE_NAME", "tutor-service"),
		ServiceVersion: getEnvOrDefault("SERVICE_VERSION", "1.0.0"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
