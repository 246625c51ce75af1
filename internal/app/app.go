package app

import (
	"context"
	"fmt"
	nethttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fleetwise/fleetwise-api/internal/adapter/database"
	"github.com/fleetwise/fleetwise-api/internal/adapter/http"
	"github.com/fleetwise/fleetwise-api/internal/app/auth"
	"github.com/fleetwise/fleetwise-api/internal/app/driver"
	"github.com/fleetwise/fleetwise-api/internal/app/user"
	"github.com/fleetwise/fleetwise-api/internal/app/vehicle"
	"github.com/fleetwise/fleetwise-api/internal/domain/model"
	"github.com/fleetwise/fleetwise-api/internal/infra/metrics"
	"github.com/fleetwise/fleetwise-api/internal/infra/middleware"
	"github.com/fleetwise/fleetwise-api/pkg/cache"
	"github.com/fleetwise/fleetwise-api/pkg/config"
	"github.com/fleetwise/fleetwise-api/pkg/ratelimit"
	"github.com/fleetwise/fleetwise-api/pkg/security"
)

// App agrega todas as dependências da API com a fiação completa
type App struct {
	Config         *config.Config
	Logger         *zap.Logger
	DB             *database.Database
	Cache          cache.Cache
	RedisClient    *redis.Client
	APIMetrics     *metrics.APIMetrics
	Middleware     *middleware.Middleware
	AuthHandler    *http.AuthHandler
	UserHandler    *http.UserHandler
	DriverHandler  *http.DriverHandler
	VehicleHandler *http.VehicleHandler
	StatusHandler  *http.StatusHandler
}

// NewApp cria uma nova instância da aplicação com todas as dependências injetadas
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	// Banco de dados
	db, err := database.NewDatabase(ctx, database.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        database.ParseLogLevel(cfg.Database.LogLevel),
		SlowThreshold:   cfg.Database.SlowThreshold,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("erro ao inicializar banco de dados: %w", err)
	}

	// Métricas
	apiMetrics := metrics.NewAPIMetrics()

	// Cache e, quando disponível, cliente Redis para o rate limiter
	var (
		cacheStore  cache.Cache
		redisClient *redis.Client
	)
	switch {
	case !cfg.Cache.Enabled:
		cacheStore = cache.NewNoOpCache()
	case cfg.Cache.Type == "redis":
		redisClient, err = cache.NewRedisClient(&redis.Options{
			Addr:         cfg.Cache.Redis.Address,
			Password:     cfg.Cache.Redis.Password,
			DB:           cfg.Cache.Redis.DB,
			PoolSize:     cfg.Cache.Redis.PoolSize,
			MinIdleConns: cfg.Cache.Redis.MinIdleConns,
			MaxRetries:   cfg.Cache.Redis.MaxRetries,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("erro ao conectar ao Redis: %w", err)
		}
		cacheStore = cache.NewRedisCache(redisClient, logger)
	default:
		cacheStore = cache.NewMemoryCache(cfg.Cache.TTL, 2*cfg.Cache.TTL, apiMetrics, logger)
	}

	// Repositórios
	userRepo := database.NewUserRepository(db.DB(), logger)
	driverRepo := database.NewDriverRepository(db.DB(), logger)
	vehicleRepo := database.NewVehicleRepository(db.DB(), logger)

	// Segurança
	keyManager := security.NewKeyManager(cfg.Auth.JWTSecret, logger)
	hasher := security.NewHasher(cfg.Auth.BcryptCost)

	// Serviços
	authService := auth.NewService(userRepo, hasher, keyManager, cfg.Auth.TokenExpiration, logger)
	userService := user.NewService(userRepo, hasher, logger)
	driverService := driver.NewService(driverRepo, cacheStore, cfg.Cache.TTL, logger)
	vehicleService := vehicle.NewService(vehicleRepo, cacheStore, cfg.Cache.TTL, logger)

	// Middleware
	authMW := middleware.NewAuthMiddleware(authService, logger)
	metricsMW := middleware.NewMetricsMiddleware(apiMetrics, logger)
	var rateLimitMW *middleware.RateLimitMiddleware
	if cfg.RateLimit.Enabled && redisClient != nil {
		limiter := ratelimit.NewRedisLimiter(redisClient, logger)
		rateLimitMW = middleware.NewRateLimitMiddleware(
			limiter,
			apiMetrics,
			cfg.RateLimit.IPLimit,
			cfg.RateLimit.IPPeriod,
			cfg.RateLimit.LoginLimit,
			cfg.RateLimit.LoginPeriod,
			logger,
		)
	}
	middlewares := middleware.NewMiddleware(logger, authMW, rateLimitMW, metricsMW, cfg.Tracing.ServiceName)

	// Handlers HTTP
	responder := http.NewResponder(cfg.IsDevelopment())
	authHandler := http.NewAuthHandler(authService, responder, apiMetrics, logger)
	userHandler := http.NewUserHandler(userService, responder, logger)
	driverHandler := http.NewDriverHandler(driverService, responder, logger)
	vehicleHandler := http.NewVehicleHandler(vehicleService, responder, logger)
	statusHandler := http.NewStatusHandler(cfg.Server.Environment, db, cacheStore, logger)

	return &App{
		Config:         cfg,
		Logger:         logger,
		DB:             db,
		Cache:          cacheStore,
		RedisClient:    redisClient,
		APIMetrics:     apiMetrics,
		Middleware:     middlewares,
		AuthHandler:    authHandler,
		UserHandler:    userHandler,
		DriverHandler:  driverHandler,
		VehicleHandler: vehicleHandler,
		StatusHandler:  statusHandler,
	}, nil
}

// RegisterRoutes registra todas as rotas no router
func (a *App) RegisterRoutes(router *gin.Engine) {
	router.Use(a.Middleware.Recovery())
	router.Use(a.Middleware.SecurityHeaders())
	router.Use(a.Middleware.CORS())
	router.Use(a.Middleware.Logger())
	router.Use(a.Middleware.Metrics())
	if a.Config.Tracing.Enabled {
		router.Use(a.Middleware.Tracing())
	}
	router.Use(a.Middleware.IPRateLimit())

	// Rotas públicas
	router.GET("/", a.StatusHandler.Root)
	router.GET("/status", a.StatusHandler.Status)
	router.GET("/status/pronto", a.StatusHandler.Readiness)

	if a.Config.Metrics.Enabled {
		path := a.Config.Metrics.PrometheusPath
		if path == "" {
			path = "/metrics"
		}
		router.GET(path, gin.WrapH(promhttp.Handler()))
		a.Logger.Info("Endpoint de métricas Prometheus registrado", zap.String("path", path))
	}

	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/cadastro", a.AuthHandler.Register)
		authRoutes.POST("/login", a.Middleware.LoginRateLimit(), a.AuthHandler.Login)
	}

	// Conta do usuário autenticado
	account := router.Group("/usuario")
	account.Use(a.Middleware.Authenticate)
	{
		account.GET("/perfil", a.AuthHandler.Profile)
		account.PUT("/atualizar", a.AuthHandler.UpdateProfile)
		account.DELETE("/excluir", a.AuthHandler.Deactivate)
	}

	// Administração de usuários
	users := router.Group("/usuarios")
	users.Use(a.Middleware.Authenticate, a.Middleware.Authorize(model.RoleAdmin))
	{
		users.POST("", a.UserHandler.Create)
		users.GET("", a.UserHandler.List)
		users.GET("/:id", a.UserHandler.Get)
		users.PUT("/:id", a.UserHandler.Update)
		users.DELETE("/:id", a.UserHandler.Delete)
	}

	drivers := router.Group("/motoristas")
	drivers.Use(a.Middleware.Authenticate)
	{
		drivers.POST("", a.DriverHandler.Create)
		drivers.GET("", a.DriverHandler.List)
		drivers.GET("/:id", a.DriverHandler.Get)
		drivers.PUT("/:id", a.DriverHandler.Update)
		drivers.DELETE("/:id", a.DriverHandler.Delete)
	}

	vehicles := router.Group("/veiculos")
	vehicles.Use(a.Middleware.Authenticate)
	{
		vehicles.POST("", a.VehicleHandler.Create)
		vehicles.GET("", a.VehicleHandler.List)
		vehicles.GET("/:id", a.VehicleHandler.Get)
		vehicles.PUT("/:id", a.VehicleHandler.Update)
		vehicles.DELETE("/:id", a.VehicleHandler.Delete)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(nethttp.StatusNotFound, gin.H{
			"sucesso":  false,
			"mensagem": "Rota não encontrada",
		})
	})
}

// Close libera as conexões mantidas pela aplicação
func (a *App) Close() error {
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Logger.Warn("Erro ao fechar conexão Redis", zap.Error(err))
		}
	}
	return a.DB.Close()
}
