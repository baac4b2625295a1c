package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/tienda-pos/internal/application/analytics"
	"github.com/jhoicas/tienda-pos/internal/application/auth"
	"github.com/jhoicas/tienda-pos/internal/application/sales"
	"github.com/jhoicas/tienda-pos/internal/application/usecase"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ProductUC   *usecase.ProductUseCase
	UserUC      *usecase.UserUseCase
	CreateSale  *sales.CreateSaleUseCase
	History     *sales.HistoryUseCase
	Reports     *analytics.ReportsUseCase
	JWTSecret   string
	ServiceName string
	// Metrics handler de Prometheus; nil desactiva /metrics.
	Metrics nethttp.Handler
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.AuthUC))
	anyRole := RequireRole(entity.RoleDirector, entity.RoleCashier)
	directorOnly := RequireRole(entity.RoleDirector)

	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/me", anyRole, authHandler.Me)

	// Products: lectura para ambos roles, escritura solo director
	products := protected.Group("/products", anyRole)
	productHandler := NewProductHandler(deps.ProductUC, deps.History)
	products.Get("/", productHandler.List)
	products.Get("/categories", productHandler.Categories)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/sales", directorOnly, productHandler.Sales)
	products.Post("/", directorOnly, productHandler.Create)
	products.Put("/:id", directorOnly, productHandler.Update)
	products.Put("/:id/discount", directorOnly, productHandler.SetDiscount)
	products.Delete("/:id", directorOnly, productHandler.Delete)

	// Sales
	salesGroup := protected.Group("/sales", anyRole)
	saleHandler := NewSaleHandler(deps.CreateSale, deps.History)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/my", saleHandler.My)
	salesGroup.Get("/:id", saleHandler.GetByID)

	// Reports (director)
	reports := protected.Group("/reports", directorOnly)
	reportHandler := NewReportHandler(deps.Reports)
	reports.Get("/statistics", reportHandler.Statistics)
	reports.Get("/revenue", reportHandler.Revenue)
	reports.Get("/top-products", reportHandler.TopProducts)
	reports.Get("/daily", reportHandler.Daily)
	reports.Get("/daily.pdf", reportHandler.DailyPDF)
	reports.Get("/export.xml", reportHandler.ExportXML)

	// Users (director)
	users := protected.Group("/users", directorOnly)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)
}
