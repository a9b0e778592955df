package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"lexpay/internal/config"
	"lexpay/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	contractHandler *handler.ContractHandler,
	paymentHandler *handler.PaymentHandler,
	webhookHandler *handler.WebhookHandler,
	auditHandler *handler.AuditHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
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

	// Gateway callbacks authenticate with HMAC signatures, not JWTs.
	api.POST("/webhooks/gateway", webhookHandler.HandleGatewayWebhook)
	api.POST("/payments/capture", paymentHandler.Capture)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
	}))

	secured.GET("/me", func(c echo.Context) error {
		token, ok := c.Get("user").(*jwt.Token)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		claims, _ := token.Claims.(jwt.MapClaims)
		return c.JSON(http.StatusOK, echo.Map{"token_claims": claims})
	})

	// Contract routes
	secured.POST("/contracts", contractHandler.CreateContract)
	secured.GET("/contracts", contractHandler.ListContracts)
	secured.GET("/contracts/:id", contractHandler.GetContract)
	secured.POST("/contracts/:id/sign", contractHandler.SignContract)
	secured.POST("/contracts/:id/activate", contractHandler.ActivateContract)
	secured.GET("/contracts/:id/orders", paymentHandler.ListOrders)

	// Payment routes
	secured.POST("/payments/orders", paymentHandler.CreateOrder)

	// Audit trail routes
	secured.GET("/audit/:entityId/trail", auditHandler.GetAuditTrail)
	secured.GET("/audit/:entityId/events/:eventType", auditHandler.HasEvent)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
