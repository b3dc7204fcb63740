package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"reviewhub/internal/auth"
	"reviewhub/internal/config"
	"reviewhub/internal/handler"
	"reviewhub/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	reviewHandler *handler.ReviewHandler,
	adminHandler *handler.AdminHandler,
	userHandler *handler.UserHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	api.GET("/reviews", reviewHandler.List)
	api.GET("/reviews/:id", reviewHandler.GetByID)
	api.GET("/products/:productId/reviews", reviewHandler.ListByProduct)
	api.GET("/users/:id", userHandler.GetProfile)

	jwtMiddleware := echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	})

	// Secured routes (require JWT authentication)
	secured := api.Group("", jwtMiddleware)
	secured.GET("/reviews/myreviews", reviewHandler.ListMine)
	secured.POST("/reviews/standalone", reviewHandler.CreateStandalone)
	secured.PUT("/reviews/:id", reviewHandler.Update)
	secured.DELETE("/reviews/:id", reviewHandler.Delete)
	secured.POST("/products/:productId/reviews", reviewHandler.Create)

	// Admin routes
	admin := api.Group("/admin", jwtMiddleware, adminOnly)
	admin.GET("/stats", adminHandler.Stats)
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/users/:id", adminHandler.GetUser)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.GET("/reviews", adminHandler.ListReviews)
}

// adminOnly rejects callers whose token does not carry the admin role.
func adminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get("user").(*jwt.Token)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
		}
		claims, ok := token.Claims.(*auth.Claims)
		if !ok || claims.Role != model.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin role required")
		}
		return next(c)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
