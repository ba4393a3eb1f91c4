package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config armazena todas as configurações do Mini ERP.
type Config struct {
	// Geral
	Port        string
	Environment string
	LogLevel    string
	ServiceName string

	// Banco de Dados (PostgreSQL)
	DatabaseURL    string
	DBTimeout      time.Duration
	DBMaxOpenConns int
	DBMaxIdleConns int

	// Cache (Redis) - usado pelos contadores do rate limiter
	RedisAddr    string
	CacheTimeout time.Duration

	// Segurança (JWT)
	JWTSecretKey string
	TokenExpiry  time.Duration
	AuthRequired bool

	// Rate Limiting (0 desativa)
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration

	// Eventos de pedido (Kafka). Sem brokers, os eventos são descartados.
	KafkaBrokers   []string
	KafkaTopic     string
	PublishTimeout time.Duration

	// Tracing (OTLP/HTTP). Endpoint vazio desativa a exportação.
	OtelEndpoint string

	CORSAllowedOrigins []string
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
func LoadConfig() *Config {
	cfg := &Config{
		// 1. Geral
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		ServiceName: getEnv("SERVICE_NAME", "minierp"),

		// 2. Banco de Dados (PostgreSQL)
		// mustGetEnv garante que a aplicação não inicie sem credenciais de DB
		DatabaseURL:    mustGetEnv("DATABASE_URL"),
		DBTimeout:      getDurationEnv("DB_TIMEOUT_SEC", 5) * time.Second,
		DBMaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getIntEnv("DB_MAX_IDLE_CONNS", 10),

		// 3. Cache (Redis)
		RedisAddr:    getEnv("REDIS_ADDR", ""),
		CacheTimeout: getDurationEnv("CACHE_TIMEOUT_SEC", 2) * time.Second,

		// 4. Segurança (JWT)
		JWTSecretKey: getEnv("JWT_SECRET_KEY", ""),
		TokenExpiry:  getDurationEnv("JWT_EXPIRY_MIN", 60) * time.Minute,
		AuthRequired: getBoolEnv("AUTH_REQUIRED", false),

		// 5. Rate Limiting
		RateLimitMaxRequests: getIntEnv("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitPeriod:      getDurationEnv("RATE_LIMIT_PERIOD_MIN", 1) * time.Minute,

		// 6. Mensageria e Observabilidade
		KafkaBrokers:   getListEnv("KAFKA_BROKERS", nil),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "erp.orders"),
		PublishTimeout: getDurationEnv("EVENT_PUBLISH_TIMEOUT_SEC", 3) * time.Second,
		OtelEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		CORSAllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}

	if cfg.AuthRequired && cfg.JWTSecretKey == "" {
		log.Fatalf("❌ Erro de Configuração: JWT_SECRET_KEY deve ser definida quando AUTH_REQUIRED=true.")
	}

	return cfg
}

// Funções Helpers (Auxiliares)

// getEnv lê a variável de ambiente ou retorna um valor padrão.
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// mustGetEnv lê a variável de ambiente, fatal se não estiver presente.
func mustGetEnv(key string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Fatalf("❌ Erro de Configuração: A variável de ambiente %s deve ser definida.", key)
	return ""
}

// getDurationEnv lê uma variável numérica e retorna-a como time.Duration (sem unidade).
func getDurationEnv(key string, defaultValue int) time.Duration {
	return time.Duration(getIntEnv(key, defaultValue))
}

// getIntEnv lê uma variável de ambiente numérica e retorna-a como int.
func getIntEnv(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número inteiro válido. Usando padrão (%d).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func getBoolEnv(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é booleano. Usando padrão (%t).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// getListEnv lê uma lista separada por vírgulas, descartando itens vazios.
func getListEnv(key string, defaultValue []string) []string {
	valueStr := strings.TrimSpace(getEnv(key, ""))
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
