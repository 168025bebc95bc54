package audit

import (
	"time"

	"tallysync-backend/internal/auth"
	"tallysync-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const timeLayout = "2006-01-02 15:04:05"

type SyncLogResponse struct {
	ID              uint              `json:"id"`
	SyncType        string            `json:"sync_type"`
	RecordsInserted int               `json:"records_inserted"`
	RecordsUpdated  int               `json:"records_updated"`
	RecordsTotal    int               `json:"records_total"`
	Status          models.SyncStatus `json:"status"`
	ErrorMessage    *string           `json:"error_message"`
	SyncStarted     string            `json:"sync_started"`
	SyncCompleted   *string           `json:"sync_completed"`
	CreatedAt       string            `json:"created_at"`
}

func ToResponse(log models.SyncLog) SyncLogResponse {
	return SyncLogResponse{
		ID:              log.ID,
		SyncType:        log.SyncType,
		RecordsInserted: log.RecordsInserted,
		RecordsUpdated:  log.RecordsUpdated,
		RecordsTotal:    log.RecordsTotal,
		Status:          log.Status,
		ErrorMessage:    log.ErrorMessage,
		SyncStarted:     log.SyncStarted.Format(timeLayout),
		SyncCompleted:   formatTime(log.SyncCompleted),
		CreatedAt:       log.CreatedAt.Format(timeLayout),
	}
}

// GET /api/tally/sync-history
func SyncHistoryHandler(rec *Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.TenantID(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "User could not be resolved")
		}

		logs, err := rec.History(c.UserContext(), tenantID, HistoryLimit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Failed to load sync history",
				"details": err.Error(),
			})
		}

		resp := make([]SyncLogResponse, 0, len(logs))
		for _, l := range logs {
			resp = append(resp, ToResponse(l))
		}

		return c.JSON(fiber.Map{
			"success": true,
			"data":    resp,
		})
	}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(timeLayout)
	return &s
}
