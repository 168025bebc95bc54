package tally

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"tallysync-backend/internal/audit"
	"tallysync-backend/internal/logging"
	"tallysync-backend/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const DefaultTimeout = 2 * time.Minute

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionSkipped = "skipped"
)

type CompanyResult struct {
	CompanyID uint   `json:"company_id"`
	Action    string `json:"action"`
}

// Engine reconciles Tally exports into storage. Each call is tenant scoped and leaves
// exactly one sync log behind.
type Engine struct {
	db      *gorm.DB
	audit   *audit.Recorder
	log     logrus.FieldLogger
	now     func() time.Time
	timeout time.Duration
}

func NewEngine(db *gorm.DB, recorder *audit.Recorder, log logrus.FieldLogger, timeout time.Duration) *Engine {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Engine{
		db:      db,
		audit:   recorder,
		log:     log,
		now:     time.Now,
		timeout: timeout,
	}
}

// WithClock replaces the time source used for last_synced; used by tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// SyncCompany upserts the single company record carried by body. An empty or unreadable
// body is not an error: it is recorded as a successful sync of nothing.
func (e *Engine) SyncCompany(ctx context.Context, tenantID uint, body []byte) (CompanyResult, error) {
	entry, err := e.audit.Begin(ctx, tenantID, CompanyKind.SyncType)
	if err != nil {
		return CompanyResult{}, err
	}

	raw, ok := CoerceCompany(body)
	if !ok {
		e.finish(ctx, entry, audit.Counts{}, nil)
		e.log.WithField("user_id", tenantID).Info("company sync skipped, no company record in payload")
		return CompanyResult{Action: ActionSkipped}, nil
	}

	result, err := e.syncCompany(ctx, tenantID, raw)
	if err != nil {
		e.finish(ctx, entry, audit.Counts{}, err)
		logging.LogError(e.log, "tally", "SyncCompany", CompanyKind.SyncType, map[string]any{"user_id": tenantID}, err)
		return CompanyResult{}, err
	}

	counts := audit.Counts{Total: 1}
	if result.Action == ActionCreated {
		counts.Inserted = 1
	} else {
		counts.Updated = 1
	}
	e.finish(ctx, entry, counts, nil)
	return result, nil
}

func (e *Engine) syncCompany(ctx context.Context, tenantID uint, raw map[string]any) (CompanyResult, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	rec, err := CompanyKind.Normalize(raw)
	if err != nil {
		return CompanyResult{}, err
	}
	key := CompanyKind.ResolveKey(tenantID, rec)

	out, err := Upsert(e.db.WithContext(ctx), CompanyKind, key, rec, e.now())
	if err != nil {
		return CompanyResult{}, err
	}

	action := ActionUpdated
	if out.Created {
		action = ActionCreated
	}
	return CompanyResult{CompanyID: out.ID, Action: action}, nil
}

// SyncBatch upserts every record in body as one transaction: either all records are
// stored or none are.
func (e *Engine) SyncBatch(ctx context.Context, tenantID uint, kind *Kind, body []byte) (audit.Counts, error) {
	return e.SyncRecords(ctx, tenantID, kind, CoerceBatch(body))
}

// SyncRecords is SyncBatch for already decoded records.
func (e *Engine) SyncRecords(ctx context.Context, tenantID uint, kind *Kind, raws []map[string]any) (audit.Counts, error) {
	return e.syncBatch(ctx, tenantID, kind, func() ([]map[string]any, error) {
		return raws, nil
	})
}

// SyncWorkbook is SyncBatch for an uploaded XLSX sheet. An unreadable workbook is
// recorded as a failed sync.
func (e *Engine) SyncWorkbook(ctx context.Context, tenantID uint, kind *Kind, r io.Reader) (audit.Counts, error) {
	return e.syncBatch(ctx, tenantID, kind, func() ([]map[string]any, error) {
		return ReadWorkbook(r)
	})
}

func (e *Engine) syncBatch(ctx context.Context, tenantID uint, kind *Kind, load func() ([]map[string]any, error)) (audit.Counts, error) {
	if !kind.Batch {
		return audit.Counts{}, fmt.Errorf("%s: %w", kind.Name, ErrNotBatchKind)
	}

	entry, err := e.audit.Begin(ctx, tenantID, kind.SyncType)
	if err != nil {
		return audit.Counts{}, err
	}

	fields := logrus.Fields{"user_id": tenantID, "sync_type": kind.SyncType}
	raws, err := load()
	if err != nil {
		e.finish(ctx, entry, audit.Counts{}, err)
		logging.LogError(e.log, "tally", "syncBatch", kind.SyncType, fields, err)
		return audit.Counts{}, err
	}

	fields["records"] = len(raws)
	e.log.WithFields(fields).Info("sync batch received")

	counts, err := e.reconcile(ctx, tenantID, kind, raws)
	if err != nil {
		e.finish(ctx, entry, audit.Counts{}, err)
		logging.LogError(e.log, "tally", "syncBatch", kind.SyncType, fields, err)
		return audit.Counts{}, err
	}

	e.finish(ctx, entry, counts, nil)
	e.log.WithFields(fields).WithFields(logrus.Fields{
		"inserted": counts.Inserted,
		"updated":  counts.Updated,
	}).Info("sync batch completed")
	return counts, nil
}

func (e *Engine) reconcile(ctx context.Context, tenantID uint, kind *Kind, raws []map[string]any) (audit.Counts, error) {
	var counts audit.Counts
	if len(raws) == 0 {
		return counts, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		counts = audit.Counts{}
		for i, raw := range raws {
			rec, err := kind.Normalize(raw)
			if err != nil {
				var verr *ValidationError
				if errors.As(err, &verr) {
					verr.Record = i + 1
				}
				return err
			}

			key := kind.ResolveKey(tenantID, rec)
			out, err := Upsert(tx, kind, key, rec, e.now())
			if err != nil {
				return fmt.Errorf("record %d: %w", i+1, err)
			}
			if out.Created {
				counts.Inserted++
			} else {
				counts.Updated++
			}
		}
		counts.Total = len(raws)
		return nil
	})
	if err != nil {
		return audit.Counts{}, err
	}
	return counts, nil
}

// finish closes the sync log. A failure here is logged but never replaces the outcome of
// the sync itself.
func (e *Engine) finish(ctx context.Context, entry *models.SyncLog, counts audit.Counts, syncErr error) {
	if err := e.audit.Finish(ctx, entry, counts, syncErr); err != nil {
		logging.LogError(e.log, "tally", "finish", entry.SyncType, map[string]any{"sync_log_id": entry.ID}, err)
	}
}
