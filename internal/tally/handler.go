package tally

import (
	"bytes"
	"fmt"
	"strings"

	"tallysync-backend/internal/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type ListQuery struct {
	Page    int `query:"page" validate:"min=1,max=1000000"`
	PerPage int `query:"per_page" validate:"min=1,max=500"`
}

// POST /api/tally/company
func SyncCompanyHandler(e *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.TenantID(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "User could not be resolved")
		}

		result, err := e.SyncCompany(c.UserContext(), tenantID, c.Body())
		if err != nil {
			return syncFailure(c, CompanyKind, err)
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Company data synced successfully",
			"data":    result,
		})
	}
}

// POST /api/tally/ledgers, /api/tally/stock-items, /api/tally/vouchers
func SyncBatchHandler(e *Engine, kind *Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.TenantID(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "User could not be resolved")
		}

		counts, err := e.SyncBatch(c.UserContext(), tenantID, kind, c.Body())
		if err != nil {
			return syncFailure(c, kind, err)
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": capitalize(kind.Label) + " synced successfully",
			"data":    counts,
		})
	}
}

// GET /api/tally/sync-status
func SyncStatusHandler(e *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.TenantID(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "User could not be resolved")
		}

		status, err := e.Status(c.UserContext(), tenantID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Failed to load sync status",
				"details": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"success": true,
			"data":    status,
		})
	}
}

// GET /api/tally/companies, /ledgers, /stock-items, /vouchers
func ListHandler[T any](e *Engine, kind *Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.TenantID(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "User could not be resolved")
		}

		q := ListQuery{Page: 1, PerPage: DefaultPerPage}
		if err := c.QueryParser(&q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
		}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "page must be between 1 and 1000000 and per_page between 1 and 500")
		}

		result, err := List[T](c.UserContext(), e, kind, tenantID, q.Page, q.PerPage)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Failed to load " + kind.Label,
				"details": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"success": true,
			"data":    result,
		})
	}
}

// POST /api/tally/ledgers/import, /stock-items/import, /vouchers/import
// Multipart upload of an XLSX sheet; each data row is synced like one JSON record.
func ImportHandler(e *Engine, kind *Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.TenantID(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "User could not be resolved")
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "File could not be uploaded: "+err.Error())
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Only .xlsx files can be imported")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "File could not be opened: "+err.Error())
		}
		defer file.Close()

		counts, err := e.SyncWorkbook(c.UserContext(), tenantID, kind, file)
		if err != nil {
			return syncFailure(c, kind, err)
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": capitalize(kind.Label) + " imported successfully",
			"data":    counts,
		})
	}
}

// GET /api/tally/companies/export, /ledgers/export, /stock-items/export, /vouchers/export
func ExportHandler(e *Engine, kind *Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.TenantID(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "User could not be resolved")
		}

		var buf bytes.Buffer
		if err := e.Export(c.UserContext(), tenantID, kind, &buf); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Failed to export " + kind.Label,
				"details": err.Error(),
			})
		}

		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s.xlsx", kind.Name))
		return c.Send(buf.Bytes())
	}
}

func syncFailure(c *fiber.Ctx, kind *Kind, err error) error {
	status := fiber.StatusInternalServerError
	if IsValidation(err) {
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   "Failed to sync " + kind.Label,
		"details": err.Error(),
	})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
