package server

import (
	"errors"
	"strings"
	"time"

	"tallysync-backend/internal/audit"
	"tallysync-backend/internal/auth"
	"tallysync-backend/internal/config"
	"tallysync-backend/internal/logging"
	"tallysync-backend/internal/models"
	"tallysync-backend/internal/tally"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const Version = "1.0.0"

// New assembles the HTTP application: middleware, error handling and every route.
func New(cfg *config.Config, db *gorm.DB, log *logrus.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "tallysync-backend",
		BodyLimit:    cfg.BodyLimit(),
		ErrorHandler: errorHandler(log),
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(requestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,OPTIONS",
	}))

	recorder := audit.NewRecorder(db, log)
	engine := tally.NewEngine(db, recorder, log, cfg.SyncTimeout)

	api := app.Group("/api")
	api.Get("/health", healthHandler)

	// Public auth
	api.Post("/auth/register", auth.RegisterHandler(db))
	api.Post("/auth/login", auth.LoginHandler(db, cfg))

	// Protected
	requireAuth := auth.JWTMiddleware(cfg)
	api.Get("/auth/me", requireAuth, auth.MeHandler(db))

	tallyRoutes := api.Group("/tally", requireAuth)

	// Sync
	tallyRoutes.Post("/company", tally.SyncCompanyHandler(engine))
	tallyRoutes.Post("/ledgers", tally.SyncBatchHandler(engine, tally.LedgerKind))
	tallyRoutes.Post("/stock-items", tally.SyncBatchHandler(engine, tally.StockItemKind))
	tallyRoutes.Post("/vouchers", tally.SyncBatchHandler(engine, tally.VoucherKind))

	// Spreadsheets
	tallyRoutes.Post("/ledgers/import", tally.ImportHandler(engine, tally.LedgerKind))
	tallyRoutes.Post("/stock-items/import", tally.ImportHandler(engine, tally.StockItemKind))
	tallyRoutes.Post("/vouchers/import", tally.ImportHandler(engine, tally.VoucherKind))
	tallyRoutes.Get("/companies/export", tally.ExportHandler(engine, tally.CompanyKind))
	tallyRoutes.Get("/ledgers/export", tally.ExportHandler(engine, tally.LedgerKind))
	tallyRoutes.Get("/stock-items/export", tally.ExportHandler(engine, tally.StockItemKind))
	tallyRoutes.Get("/vouchers/export", tally.ExportHandler(engine, tally.VoucherKind))

	// Reads
	tallyRoutes.Get("/sync-status", tally.SyncStatusHandler(engine))
	tallyRoutes.Get("/sync-history", audit.SyncHistoryHandler(recorder))
	tallyRoutes.Get("/companies", tally.ListHandler[models.Company](engine, tally.CompanyKind))
	tallyRoutes.Get("/ledgers", tally.ListHandler[models.Ledger](engine, tally.LedgerKind))
	tallyRoutes.Get("/stock-items", tally.ListHandler[models.StockItem](engine, tally.StockItemKind))
	tallyRoutes.Get("/vouchers", tally.ListHandler[models.Voucher](engine, tally.VoucherKind))

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Endpoint not found")
	})

	return app
}

func healthHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}

func errorHandler(log logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var e *fiber.Error
		if errors.As(err, &e) {
			return c.Status(e.Code).JSON(fiber.Map{
				"success": false,
				"error":   e.Message,
			})
		}
		logging.LogError(log, "server", "errorHandler", c.Path(), map[string]any{"request_id": c.Locals(requestid.ConfigDefault.ContextKey)}, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Unexpected server error",
		})
	}
}

func requestLogger(log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				status = e.Code
			}
		}

		entry := log.WithFields(logrus.Fields{
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"request_id": c.Locals(requestid.ConfigDefault.ContextKey),
		})
		if status >= fiber.StatusInternalServerError {
			entry.Warn("request failed")
		} else {
			entry.Info("request")
		}
		return err
	}
}
