package tally

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Outcome struct {
	ID      uint
	Created bool
}

type idRow struct {
	ID uint
}

// Upsert stores rec under key using db, which may be a transaction. Key columns are only
// written on insert or when an older row is adopted under the new key; on update every
// other canonical column is overwritten.
func Upsert(db *gorm.DB, kind *Kind, key NaturalKey, rec Record, now time.Time) (Outcome, error) {
	id, err := findID(db, kind, key.Conditions())
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		id, err = adopt(db, kind, key, rec)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return insert(db, kind, key, rec, now)
		}
		if err != nil {
			return Outcome{}, err
		}
		return update(db, kind, id, rec, NaturalKey{}, now)
	case err != nil:
		return Outcome{}, fmt.Errorf("lookup %s by %s: %w", kind.Name, key, err)
	}
	return update(db, kind, id, rec, key, now)
}

func findID(db *gorm.DB, kind *Kind, cond map[string]any) (uint, error) {
	var row idRow
	if err := db.Model(kind.Model()).Select("id").Where(cond).Take(&row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}

// adopt finds a row the kind's adoption conditions claim for key.
func adopt(db *gorm.DB, kind *Kind, key NaturalKey, rec Record) (uint, error) {
	for _, cond := range kind.AdoptionConditions(key, rec) {
		id, err := findID(db, kind, cond)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("adopt %s by %s: %w", kind.Name, key, err)
		}
		return id, nil
	}
	return 0, gorm.ErrRecordNotFound
}

// update overwrites row id with rec, leaving the columns of keep untouched.
func update(db *gorm.DB, kind *Kind, id uint, rec Record, keep NaturalKey, now time.Time) (Outcome, error) {
	values := make(map[string]any, len(rec)+2)
	for col, v := range rec {
		if !keep.Has(col) {
			values[col] = v
		}
	}
	values["last_synced"] = now
	values["updated_at"] = now

	if err := db.Model(kind.Model()).Where("id = ?", id).Updates(values).Error; err != nil {
		return Outcome{}, fmt.Errorf("update %s %d: %w", kind.Name, id, err)
	}
	return Outcome{ID: id}, nil
}

func insert(db *gorm.DB, kind *Kind, key NaturalKey, rec Record, now time.Time) (Outcome, error) {
	values := make(map[string]any, len(rec)+4)
	for col, v := range rec {
		values[col] = v
	}
	values["user_id"] = key.TenantID
	values["last_synced"] = now
	values["created_at"] = now
	values["updated_at"] = now

	if err := db.Model(kind.Model()).Create(values).Error; err != nil {
		return Outcome{}, fmt.Errorf("insert %s %s: %w", kind.Name, key, err)
	}

	// map creates do not report the generated id on every dialect
	var created idRow
	if err := db.Model(kind.Model()).Select("id").Where(key.Conditions()).Take(&created).Error; err != nil {
		return Outcome{}, fmt.Errorf("reload %s %s: %w", kind.Name, key, err)
	}
	return Outcome{ID: created.ID, Created: true}, nil
}
