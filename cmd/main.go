package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	// Nossos pacotes de infraestrutura e utilitários
	"minierp/config"
	_ "minierp/docs"
	"minierp/internal/messaging"
	"minierp/internal/messaging/kafka"
	"minierp/internal/pkg/cache"
	"minierp/internal/pkg/database"
	"minierp/internal/pkg/logger"
	"minierp/internal/pkg/telemetry"
	"minierp/internal/pkg/token"
	"minierp/internal/pkg/validation"

	// Camadas para Injeção de Dependências
	"minierp/internal/api/customer"
	"minierp/internal/api/order"
	"minierp/internal/api/product"
	"minierp/internal/api/router"
	"minierp/internal/api/stock"
	"minierp/internal/api/user"
	"minierp/internal/repository/customerrepo"
	"minierp/internal/repository/orderrepo"
	"minierp/internal/repository/productrepo"
	"minierp/internal/repository/stockrepo"
	"minierp/internal/repository/userrepo"
	"minierp/internal/service/customerservice"
	"minierp/internal/service/inventoryservice"
	"minierp/internal/service/orderservice"
	"minierp/internal/service/productservice"
	"minierp/internal/service/stockservice"
	"minierp/internal/service/userservice"
)

const serviceVersion = "1.0.0"

// @title Mini ERP API
// @version 1.0
// @description Produtos, clientes e pedidos de venda com baixa e devolução transacional de estoque.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	// 0. CARREGAR VARIÁVEIS DE AMBIENTE (.env)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema.")
	}

	// 1. Configuração e Inicialização
	cfg := config.LoadConfig()
	appLog := logger.NewLogger(cfg.LogLevel)
	if zl, ok := appLog.(*logger.ZapLogger); ok {
		defer zl.Sync()
	}
	appLog.Info("Configurações carregadas.", map[string]interface{}{"env": cfg.Environment, "port": cfg.Port})

	// Valores monetários saem como número JSON, não string.
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()

	// 2. Tracing (no-op sem endpoint)
	tp, shutdownTracing, err := telemetry.SetupTracing(ctx, telemetry.Config{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: serviceVersion,
		Environment:    cfg.Environment,
		Endpoint:       cfg.OtelEndpoint,
		Insecure:       cfg.Environment != "production",
	})
	if err != nil {
		appLog.Warn("Tracing desativado.", map[string]interface{}{"error": err.Error()})
	}

	// 3. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	pool := database.DefaultPoolConfig()
	pool.MaxOpenConns = cfg.DBMaxOpenConns
	pool.MaxIdleConns = cfg.DBMaxIdleConns
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL, pool)
	if err != nil {
		appLog.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	appLog.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis), apenas para o rate limiter
	var rateLimitCache cache.Client
	if cfg.RedisAddr != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			appLog.Warn("Redis indisponível, rate limiting desativado.", map[string]interface{}{"error": err.Error()})
		} else {
			rateLimitCache = redisClient
			defer redisClient.Close()
			appLog.Info("Conexão Redis estabelecida.", nil)
		}
	}

	// C. Eventos de pedido (Kafka)
	var publisher messaging.Publisher = messaging.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.ServiceName, tp)
		if err != nil {
			appLog.Fatal("Falha ao criar o publicador Kafka.", err)
		}
		publisher = kafkaPublisher
		appLog.Info("Publicador Kafka inicializado.", map[string]interface{}{"topic": cfg.KafkaTopic})
	}

	// 4. INJEÇÃO DE DEPENDÊNCIAS: Repository -> Service -> Handler
	validator := validation.New()
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)

	productRepo := productrepo.NewProductRepository(db, cfg.DBTimeout, appLog)
	customerRepo := customerrepo.NewCustomerRepository(db, cfg.DBTimeout, appLog)
	orderRepo := orderrepo.NewOrderRepository(db, cfg.DBTimeout, appLog)
	stockRepo := stockrepo.NewStockRepository(db, cfg.DBTimeout, appLog)
	userRepo := userrepo.NewUserRepository(db, cfg.DBTimeout, appLog)

	productSvc := productservice.NewService(productRepo, validator, appLog)
	stockSvc := stockservice.NewService(stockRepo, validator, appLog)
	customerSvc := customerservice.NewService(customerRepo, validator, appLog)
	orderSvc := orderservice.NewService(orderRepo, inventoryservice.NewAdjuster(appLog), publisher, validator, appLog,
		orderservice.WithPublishTimeout(cfg.PublishTimeout))
	userSvc := userservice.NewService(userRepo, tokenSvc, validator, appLog)

	handlers := router.Handlers{
		Products:  product.NewHandler(productSvc, appLog),
		Stock:     stock.NewHandler(stockSvc, appLog),
		Customers: customer.NewHandler(customerSvc, appLog),
		Orders:    order.NewHandler(orderSvc, appLog),
		Users:     user.NewHandler(userSvc, appLog),
	}

	// 5. Roteador e Servidor
	r := router.NewRouter(handlers, router.Options{
		AuthRequired:         cfg.AuthRequired,
		Tokens:               tokenSvc,
		RateLimitCache:       rateLimitCache,
		RateLimitMaxRequests: cfg.RateLimitMaxRequests,
		RateLimitPeriod:      cfg.RateLimitPeriod,
		CacheTimeout:         cfg.CacheTimeout,
		CORSAllowedOrigins:   cfg.CORSAllowedOrigins,
	}, appLog)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelhttp.NewHandler(r, "minierp-http", otelhttp.WithTracerProvider(tp)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 6. Execução e Graceful Shutdown
	go func() {
		appLog.Info("Servidor Mini ERP ouvindo na porta.", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Desligamento do servidor forçado.", err)
	}
	if err := publisher.Close(); err != nil {
		appLog.Error("Falha ao fechar o publicador de eventos.", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		appLog.Error("Falha ao exportar traces pendentes.", err)
	}

	appLog.Info("Servidor encerrado com sucesso.", nil)
}
