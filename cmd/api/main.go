package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/tienda-pos/internal/application/analytics"
	"github.com/jhoicas/tienda-pos/internal/application/auth"
	"github.com/jhoicas/tienda-pos/internal/application/sales"
	"github.com/jhoicas/tienda-pos/internal/application/usecase"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/cache"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/export"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/tienda-pos/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/tienda-pos/internal/interfaces/http"
	"github.com/jhoicas/tienda-pos/pkg/config"
	"github.com/jhoicas/tienda-pos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer store.close()

	// Lista negra de tokens: Redis si está configurado, si no en memoria
	var blacklist auth.TokenBlacklist
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer rdb.Close()
		blacklist = cache.NewRedisTokenBlacklist(rdb)
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: logout solo válido en este proceso")
		blacklist = cache.NewMemoryTokenBlacklist()
	}

	var recorder sales.Recorder
	var promRecorder *metrics.PrometheusRecorder
	if cfg.Metrics.Enabled {
		promRecorder = metrics.NewPrometheusRecorder()
		recorder = promRecorder
	}

	authUC := auth.NewAuthUseCase(store.users, blacklist, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if cfg.App.Storage == config.StorageMemory {
		seedDefaultUsers(ctx, authUC, cfg.Seed, log)
	}

	createSaleUC := sales.NewCreateSaleUseCase(store.txRunner, recorder, log)
	historyUC := sales.NewHistoryUseCase(store.sales, store.products)
	reportsUC := analytics.NewReportsUseCase(
		store.analytics, store.sales, store.products,
		infrapdf.NewMarotoReportGenerator(cfg.App.ShopName),
		export.NewXMLSalesExporter(cfg.App.ShopName),
		cfg.Report.TopLimit, cfg.Report.TopMax,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Named("http")))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Swagger UI: http://localhost:<port>/docs
	if cfg.HTTP.SwaggerEnabled {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Tienda POS API",
		}))
	}

	deps := httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProductUC:   usecase.NewProductUseCase(store.products),
		UserUC:      usecase.NewUserUseCase(store.users),
		CreateSale:  createSaleUC,
		History:     historyUC,
		Reports:     reportsUC,
		JWTSecret:   cfg.JWT.Secret,
		ServiceName: cfg.App.Name,
	}
	if promRecorder != nil {
		deps.Metrics = promRecorder.Handler()
	}
	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// seedDefaultUsers crea las cuentas iniciales; con Postgres lo hace cmd/seed.
func seedDefaultUsers(ctx context.Context, authUC *auth.AuthUseCase, seed config.SeedConfig, log *logger.Logger) {
	accounts := []struct{ username, password, role, fullName string }{
		{seed.DirectorUsername, seed.DirectorPassword, entity.RoleDirector, seed.DirectorFullName},
		{seed.CashierUsername, seed.CashierPassword, entity.RoleCashier, seed.CashierFullName},
	}
	for _, a := range accounts {
		created, err := authUC.EnsureUser(ctx, a.username, a.password, a.role, a.fullName)
		if err != nil {
			log.Fatal().Err(err).Str("username", a.username).Msg("crear usuario inicial")
		}
		if created {
			log.Info().Str("username", a.username).Str("role", a.role).Msg("usuario inicial creado")
		}
	}
}
