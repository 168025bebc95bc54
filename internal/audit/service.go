package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tallysync-backend/internal/logging"
	"tallysync-backend/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// HistoryLimit caps how many sync logs History returns.
const HistoryLimit = 50

var ErrAlreadyFinished = errors.New("sync log is already finished")

// Counts are the per-batch reconciliation totals.
type Counts struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Total    int `json:"total"`
}

// Recorder owns the sync_logs table: one row per batch, opened by Begin and closed
// exactly once by Finish.
type Recorder struct {
	db  *gorm.DB
	log logrus.FieldLogger
	now func() time.Time
}

func NewRecorder(db *gorm.DB, log logrus.FieldLogger) *Recorder {
	return &Recorder{db: db, log: log, now: time.Now}
}

// WithClock replaces the time source; used by tests.
func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.now = now
	return r
}

func (r *Recorder) Begin(ctx context.Context, tenantID uint, syncType string) (*models.SyncLog, error) {
	entry := &models.SyncLog{
		UserID:      tenantID,
		SyncType:    syncType,
		Status:      models.SyncStatusInProgress,
		SyncStarted: r.now(),
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("sync log could not be created: %w", err)
	}
	return entry, nil
}

// Finish moves entry to success (syncErr == nil) or failed. On failure counts are left
// untouched since the batch was rolled back. The write is detached from ctx
// cancellation so an aborted request still closes its log.
func (r *Recorder) Finish(ctx context.Context, entry *models.SyncLog, counts Counts, syncErr error) error {
	if entry == nil {
		return errors.New("sync log is nil")
	}
	if entry.Status != models.SyncStatusInProgress {
		return ErrAlreadyFinished
	}

	completed := r.now()
	updates := map[string]any{
		"sync_completed": completed,
		"updated_at":     completed,
	}
	status := models.SyncStatusSuccess
	var message *string
	if syncErr != nil {
		status = models.SyncStatusFailed
		msg := syncErr.Error()
		message = &msg
		updates["error_message"] = msg
	} else {
		updates["records_inserted"] = counts.Inserted
		updates["records_updated"] = counts.Updated
		updates["records_total"] = counts.Total
	}
	updates["status"] = status

	res := r.db.WithContext(context.WithoutCancel(ctx)).
		Model(&models.SyncLog{}).
		Where("id = ? AND status = ?", entry.ID, models.SyncStatusInProgress).
		Updates(updates)
	if res.Error != nil {
		logging.LogError(r.log, "audit", "Finish", entry.SyncType, logFields(entry), res.Error)
		return fmt.Errorf("sync log could not be finished: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyFinished
	}

	entry.Status = status
	entry.ErrorMessage = message
	entry.SyncCompleted = &completed
	entry.UpdatedAt = completed
	if syncErr == nil {
		entry.RecordsInserted = counts.Inserted
		entry.RecordsUpdated = counts.Updated
		entry.RecordsTotal = counts.Total
	}
	return nil
}

// History returns the tenant's most recent sync logs, newest first.
func (r *Recorder) History(ctx context.Context, tenantID uint, limit int) ([]models.SyncLog, error) {
	if limit <= 0 || limit > HistoryLimit {
		limit = HistoryLimit
	}

	var logs []models.SyncLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", tenantID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("sync history could not be loaded: %w", err)
	}
	return logs, nil
}

func logFields(entry *models.SyncLog) map[string]any {
	return map[string]any{"sync_log_id": entry.ID, "user_id": entry.UserID}
}
