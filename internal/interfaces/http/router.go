package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/redis/go-redis/v9"

	appanalytics "github.com/dehaep/Project-SupzG/internal/application/analytics"
	"github.com/dehaep/Project-SupzG/internal/application/auth"
	"github.com/dehaep/Project-SupzG/internal/application/dto"
	"github.com/dehaep/Project-SupzG/internal/application/inventory"
	"github.com/dehaep/Project-SupzG/internal/application/usecase"
	"github.com/dehaep/Project-SupzG/internal/domain/access"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC        *usecase.ItemUseCase
	CategoryUC    *usecase.CategoryUseCase
	LocationUC    *usecase.LocationUseCase
	UserUC        *usecase.UserUseCase
	TransactionUC *inventory.TransactionUseCase
	DashboardUC   *appanalytics.DashboardUseCase
	AuthUC        *auth.AuthUseCase

	// Users verifica rol y estado vigentes en acciones de manager; nil = solo el token.
	Users UserLookup

	DB    Pinger
	Redis *redis.Client // nil si el cache está deshabilitado

	JWTSecret          string
	SecureCookie       bool
	LoginRatePerMinute int // 0 = sin límite
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", NewHealthHandler(deps.DB, deps.Redis).Check)

	api := app.Group("/api")
	authMW := AuthMiddleware(deps.JWTSecret)

	// Auth (público salvo me/verify)
	authHandler := NewAuthHandler(deps.AuthUC, deps.SecureCookie)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", loginLimiter(deps.LoginRatePerMinute), authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/me", authMW, authHandler.Me)
	authGroup.Get("/verify", authMW, authHandler.Me)
	api.Post("/register/register", authHandler.Register)

	allow := func(action access.Action) fiber.Handler { return RequireAction(action, deps.Users) }
	read := allow(access.ReadAll)

	items := api.Group("/items", authMW)
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Get("/", read, itemHandler.List)
	items.Get("/:id", read, itemHandler.GetByID)
	items.Post("/", allow(access.CreateItem), itemHandler.Create)
	items.Put("/:id", allow(access.UpdateItem), itemHandler.Update)
	items.Delete("/:id", allow(access.DeleteItem), itemHandler.Delete)

	transactions := api.Group("/transactions", authMW)
	txHandler := NewTransactionHandler(deps.TransactionUC)
	transactions.Get("/", read, txHandler.List)
	transactions.Get("/:id", read, txHandler.GetByID)
	transactions.Post("/", allow(access.CreateTransaction), txHandler.Create)
	transactions.Put("/:id", allow(access.ApproveTransaction), txHandler.UpdateStatus)
	transactions.Delete("/:id", allow(access.DeleteTransaction), txHandler.Delete)

	categories := api.Group("/categories", authMW)
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", read, categoryHandler.List)
	categories.Get("/:id", read, categoryHandler.GetByID)
	categories.Post("/", allow(access.CreateCategory), categoryHandler.Create)
	categories.Put("/:id", allow(access.UpdateCategory), categoryHandler.Update)
	categories.Delete("/:id", allow(access.DeleteCategory), categoryHandler.Delete)

	locations := api.Group("/locations", authMW)
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Get("/", read, locationHandler.List)
	locations.Get("/:id", read, locationHandler.GetByID)
	locations.Post("/", allow(access.CreateLocation), locationHandler.Create)
	locations.Put("/:id", allow(access.UpdateLocation), locationHandler.Update)
	locations.Delete("/:id", allow(access.DeleteLocation), locationHandler.Delete)

	users := api.Group("/users", authMW)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", read, userHandler.List)
	users.Get("/:id", read, userHandler.GetByID)
	users.Post("/", allow(access.CreateUser), userHandler.Create)
	users.Put("/:id", allow(access.UpdateUser), userHandler.Update)
	users.Delete("/:id", allow(access.DeleteUser), userHandler.Delete)

	dashboard := api.Group("/dashboard", authMW)
	dashboard.Get("/summary", read, NewDashboardHandler(deps.DashboardUC).GetSummary)
}

// loginLimiter limita intentos de login por IP.
func loginLimiter(perMinute int) fiber.Handler {
	if perMinute <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    "TOO_MANY_REQUESTS",
				Message: "demasiados intentos de login, intente más tarde",
			})
		},
	})
}
