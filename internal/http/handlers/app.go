package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"avotrade/internal/config"
	applog "avotrade/internal/log"
)

// Limits are per client IP.
type Limits struct {
	Global  int
	Login   int
	Enquiry int
}

var DefaultLimits = Limits{Global: 120, Login: 5, Enquiry: 10}

const (
	// Product images arrive inline as data URIs.
	bodyLimit      = 12 << 20
	smallBodyLimit = 16 << 10
	loginWindow    = 10 * time.Minute
	enquiryWindow  = time.Minute
	globalWindow   = time.Minute
)

// NewApp builds the JSON API with its middleware stack and routes.
func NewApp(d *Deps, cfg config.Config, lim Limits) *fiber.App {
	lim = lim.withDefaults()
	app := fiber.New(fiber.Config{
		AppName:      "avotrade",
		BodyLimit:    bodyLimit,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(accessLog)
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        lim.Global,
		Expiration: globalWindow,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/healthz"
		},
		LimitReached: limitReached("rate.global.hit"),
	}))

	loginLimiter := limiter.New(limiter.Config{
		Max:        lim.Login,
		Expiration: loginWindow,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|login"
		},
		LimitReached: limitReached("rate.login.hit"),
	})
	enquiryLimiter := limiter.New(limiter.Config{
		Max:        lim.Enquiry,
		Expiration: enquiryWindow,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|enquiry"
		},
		LimitReached: limitReached("rate.enquiry.hit"),
	})
	small := maxBody(smallBodyLimit)
	admin := RequireAdmin(d.Auth)

	// Public
	app.Post("/api/enquiries", enquiryLimiter, small, d.EnquiryHandler.Create)
	app.Get("/api/products", d.ProductHandler.List)
	app.Get("/api/products/:slug", d.ProductHandler.Detail)
	app.Post("/api/track-visit", small, d.AnalyticsHandler.Track)
	app.Post("/api/analytics/visit", small, d.AnalyticsHandler.Track)
	app.Get("/api/market/news", d.NewsHandler.List)
	app.Post("/api/admin/login", loginLimiter, small, d.AuthHandler.Login)

	// Operator
	app.Get("/api/enquiries", admin, d.EnquiryHandler.List)
	app.Get("/api/enquiries/:id", admin, d.EnquiryHandler.Get)
	app.Patch("/api/enquiries/:id", admin, small, d.EnquiryHandler.UpdateStatus)
	app.Delete("/api/enquiries/:id", admin, d.EnquiryHandler.Delete)
	app.Post("/api/products", admin, d.ProductHandler.Create)
	app.Delete("/api/products/:id", admin, d.ProductHandler.Delete)
	app.Get("/api/analytics/stats", admin, d.AnalyticsHandler.Stats)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})
	return app
}

func (l Limits) withDefaults() Limits {
	if l.Global <= 0 {
		l.Global = DefaultLimits.Global
	}
	if l.Login <= 0 {
		l.Login = DefaultLimits.Login
	}
	if l.Enquiry <= 0 {
		l.Enquiry = DefaultLimits.Enquiry
	}
	return l
}

func limitReached(action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		applog.Security(c, action, nil)
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many requests. Please try again later."})
	}
}

func accessLog(c *fiber.Ctx) error {
	start := time.Now()
	if err := c.Next(); err != nil {
		// Let the error handler set the final status before logging.
		if herr := c.App().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}
	if !strings.HasPrefix(c.Path(), "/healthz") {
		applog.Info(c, "http.access", map[string]any{"latency_ms": time.Since(start).Milliseconds()})
	}
	return nil
}

func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	applog.Error(c, "server.error", err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Something went wrong. Please try again."})
}
