package http

import (
	"errors"
	"time"

	"storefront/internal/config"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
	"storefront/internal/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

const genericError = "Something went wrong. Please try again."

// Options configures the app shared by all services.
type Options struct {
	Service string
	Config  config.Config
	// Storage backs the rate limiters; nil keeps counters in memory.
	Storage fiber.Storage
}

// Mounter registers one service's routes.
type Mounter func(app *fiber.App, deps *handlers.Deps, opts Options)

// ErrorHandler renders errors that escape the handlers as JSON. Server-side
// failures are logged and never described to the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := genericError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
		msg = genericError
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}

func NewApp(opts Options) *fiber.App {
	cfg := opts.Config
	bodyLimit := cfg.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = 1 << 20
	}
	app := fiber.New(fiber.Config{
		AppName:               opts.Service,
		BodyLimit:             bodyLimit,
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(requestid.New())
	app.Use(applog.Access())
	app.Use(recover.New())
	app.Use(metrics.Middleware())
	app.Use(helmet.New())
	if cfg.RateLimitMax > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimitMax,
			Expiration: time.Minute,
			Storage:    opts.Storage,
			Next: func(c *fiber.Ctx) bool {
				p := c.Path()
				return p == "/metrics" || p == "/health/db"
			},
			LimitReached: limitReached("rate.global.hit"),
		}))
	}
	return app
}

func limitReached(action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		applog.Security(c, action, nil)
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
	}
}

// MountCommon registers the probe and metrics routes every service exposes.
func MountCommon(app *fiber.App, deps *handlers.Deps) {
	app.Get("/health/db", deps.HealthHandler.DB)
	app.Get("/metrics", metrics.Handler())
}

func MountUsers(app *fiber.App, deps *handlers.Deps, opts Options) {
	users := app.Group("/users")
	users.Post("/register", deps.AuthHandler.Register)

	loginMax := opts.Config.LoginRateLimitMax
	if loginMax > 0 {
		users.Post("/login", limiter.New(limiter.Config{
			Max:        loginMax,
			Expiration: 10 * time.Minute,
			Storage:    opts.Storage,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP() + "|login"
			},
			// only failed attempts count towards the lockout
			SkipSuccessfulRequests: true,
			LimitReached:           limitReached("rate.login.hit"),
		}), deps.AuthHandler.Login)
	} else {
		users.Post("/login", deps.AuthHandler.Login)
	}
	users.Get("/me", handlers.RequireToken(deps.Auth), deps.AuthHandler.Me)
}

func MountProducts(app *fiber.App, deps *handlers.Deps, _ Options) {
	app.Post("/products", deps.ProductHandler.Create)
	app.Get("/products", deps.ProductHandler.List)
	app.Get("/products/:id", deps.ProductHandler.Detail)
}

func MountOrders(app *fiber.App, deps *handlers.Deps, _ Options) {
	app.Post("/orders", deps.OrderHandler.Place)
	app.Get("/orders/:id", deps.OrderHandler.View)
}

// MountNotFound must be registered last.
func MountNotFound(app *fiber.App) {
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	})
}

// Build assembles a complete app for one service.
func Build(opts Options, deps *handlers.Deps, mounts ...Mounter) *fiber.App {
	app := NewApp(opts)
	MountCommon(app, deps)
	for _, m := range mounts {
		m(app, deps, opts)
	}
	MountNotFound(app)
	return app
}
