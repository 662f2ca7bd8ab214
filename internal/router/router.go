// File: internal/router/router.go
package router

import (
	"net/http"
	"slices"

	_ "user-center/docs" // swagger docs

	"user-center/internal/config"
	"user-center/internal/database"
	"user-center/internal/handler"
	"user-center/internal/handler/auth"
	"user-center/internal/handler/users"
	"user-center/internal/middleware"
	"user-center/internal/service"
	"user-center/internal/uow"
	"user-center/internal/validation"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

// Deps is everything the HTTP layer is wired from.
type Deps struct {
	Config   config.Config
	DB       database.DB
	Units    uow.Factory
	Services service.Deps
	Logger   *zap.Logger
}

// New builds the echo instance: validator, error boundary, global middleware
// and all routes.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = d.Config.App.Debug
	e.Validator = validation.New()
	e.HTTPErrorHandler = handler.ErrorHandler(d.Logger, d.Config.App.Debug)

	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(corsConfig(d.Config)))

	Setup(e, d)
	return e
}

func corsConfig(cfg config.Config) echomw.CORSConfig {
	origins := cfg.AllowedOrigins()
	return echomw.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		// browsers refuse credentials together with a wildcard origin
		AllowCredentials: !slices.Contains(origins, "*"),
		ExposeHeaders:    []string{middleware.HeaderProcessTime},
	}
}

// Setup registers every route with its middleware.
func Setup(e *echo.Echo, d Deps) {
	e.GET("/", handler.RootHandler(d.Config.App.Name, d.Config.App.Version))
	e.GET("/health", handler.HealthHandler(d.DB, d.Logger))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	tx := middleware.UnitOfWork(d.Units)
	requireAuth := middleware.RequireAuth(d.Services.Tokens, middleware.NewUserResolver(d.Units, d.Services), d.Logger)

	api := e.Group("/api/v1")

	apiAuth := api.Group("/auth")
	apiAuth.POST("/login", auth.LoginHandler(d.Services), tx)
	apiAuth.POST("/logout", auth.LogoutHandler(), requireAuth)
	apiAuth.GET("/me", auth.MeHandler(), requireAuth)

	apiUsers := api.Group("/users", requireAuth)
	apiUsers.GET("/me", auth.MeHandler())
	apiUsers.GET("", users.ListUsersHandler(d.Services), tx)
	apiUsers.POST("", users.CreateUserHandler(d.Services), tx)
	apiUsers.GET("/:id", users.GetUserHandler(d.Services), tx)
	apiUsers.PUT("/:id", users.UpdateUserHandler(d.Services), tx)
	apiUsers.DELETE("/:id", users.DeleteUserHandler(d.Services), tx)
	apiUsers.PATCH("/:id/toggle-active", users.ToggleActiveHandler(d.Services), tx)
}
