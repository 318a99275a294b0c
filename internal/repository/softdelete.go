package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sirsasha78/AdMarketplace/internal/model"

	"gorm.io/gorm"
)

// SoftDeleteRepository is the query entry point for entities embedding
// model.SoftDelete. Reads go through the active scope: rows with
// is_deleted = true are invisible unless the caller uses Unfiltered.
type SoftDeleteRepository[T any] struct {
	db    *gorm.DB
	table string
}

// NewSoftDelete builds a soft-delete-aware repository for T.
func NewSoftDelete[T any](db *gorm.DB) *SoftDeleteRepository[T] {
	return &SoftDeleteRepository[T]{db: db, table: tableName[T](db)}
}

func (r *SoftDeleteRepository[T]) scoped() *gorm.DB {
	return r.db.Where("is_deleted = ?", false)
}

// WithTx returns a view of the repository bound to the given transaction.
func (r *SoftDeleteRepository[T]) WithTx(tx *gorm.DB) *SoftDeleteRepository[T] {
	return &SoftDeleteRepository[T]{db: tx, table: r.table}
}

// Create inserts the record.
func (r *SoftDeleteRepository[T]) Create(ctx context.Context, rec *T) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// Save persists all fields of the record.
func (r *SoftDeleteRepository[T]) Save(ctx context.Context, rec *T) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

// GetOrNone looks up a single active record matching the criteria, with the
// same absence and multiplicity semantics as Repository.GetOrNone.
func (r *SoftDeleteRepository[T]) GetOrNone(ctx context.Context, query string, args ...interface{}) (*T, error) {
	return getOrNone[T](r.scoped().WithContext(ctx), query, args...)
}

// All returns every active record, newest first.
func (r *SoftDeleteRepository[T]) All(ctx context.Context) ([]T, error) {
	return r.Scope().All(ctx)
}

// Scope returns the result set of all active records.
func (r *SoftDeleteRepository[T]) Scope() *ResultSet[T] {
	return &ResultSet[T]{tx: r.scoped(), table: r.table}
}

// Where returns the result set of active records matching the criteria.
func (r *SoftDeleteRepository[T]) Where(query string, args ...interface{}) *ResultSet[T] {
	return r.Scope().Where(query, args...)
}

// Unfiltered returns the result set over every record regardless of deletion
// state. Needed for administrative recovery and hard-delete sweeps.
func (r *SoftDeleteRepository[T]) Unfiltered() *ResultSet[T] {
	return &ResultSet[T]{tx: r.db, table: r.table}
}

// HardDeleteAll permanently purges every record of the entity, including
// already soft-deleted ones.
func (r *SoftDeleteRepository[T]) HardDeleteAll(ctx context.Context) (DeleteResult, error) {
	return r.Unfiltered().Delete(ctx, true)
}

// SoftDeleteOne marks a single record deleted, persisting only the deletion
// flag and timestamp.
func (r *SoftDeleteRepository[T]) SoftDeleteOne(ctx context.Context, rec *T) error {
	sd, err := asSoftDeletable(rec)
	if err != nil {
		return err
	}

	now := time.Now()
	err = r.db.WithContext(ctx).
		Session(&gorm.Session{SkipHooks: true}).
		Model(rec).
		Updates(map[string]interface{}{"is_deleted": true, "deleted_at": now}).Error
	if err != nil {
		return err
	}
	sd.MarkDeleted(now)
	return nil
}

// RestoreOne clears the deletion mark of a single record. Restoring an
// active record is a no-op and issues no write.
func (r *SoftDeleteRepository[T]) RestoreOne(ctx context.Context, rec *T) error {
	sd, err := asSoftDeletable(rec)
	if err != nil {
		return err
	}
	if !sd.Deleted() {
		return nil
	}

	err = r.db.WithContext(ctx).
		Session(&gorm.Session{SkipHooks: true}).
		Model(rec).
		Updates(map[string]interface{}{"is_deleted": false, "deleted_at": nil}).Error
	if err != nil {
		return err
	}
	sd.ClearDeleted()
	return nil
}

// HardDeleteOne physically removes a single record, bypassing the deletion
// flag. Irreversible.
func (r *SoftDeleteRepository[T]) HardDeleteOne(ctx context.Context, rec *T) error {
	return r.db.WithContext(ctx).Delete(rec).Error
}

func asSoftDeletable(rec interface{}) (model.SoftDeletable, error) {
	sd, ok := rec.(model.SoftDeletable)
	if !ok {
		return nil, fmt.Errorf("repository: %T does not embed model.SoftDelete", rec)
	}
	return sd, nil
}

// ResultSet is the bulk-mutation entry point over an already-filtered group
// of records.
type ResultSet[T any] struct {
	tx    *gorm.DB
	table string
}

// Where narrows the result set with additional criteria.
func (rs *ResultSet[T]) Where(query string, args ...interface{}) *ResultSet[T] {
	return &ResultSet[T]{tx: rs.tx.Where(query, args...), table: rs.table}
}

// All returns the records in the set, newest first.
func (rs *ResultSet[T]) All(ctx context.Context) ([]T, error) {
	var recs []T
	err := rs.tx.WithContext(ctx).Order(defaultOrder).Find(&recs).Error
	return recs, err
}

// GetOrNone resolves the set to a single record with the same absence and
// multiplicity semantics as Repository.GetOrNone. On an unfiltered set this
// is the administrative lookup that can see soft-deleted records.
func (rs *ResultSet[T]) GetOrNone(ctx context.Context) (*T, error) {
	return getOrNone[T](rs.tx.WithContext(ctx), "")
}

// Count returns the number of records in the set.
func (rs *ResultSet[T]) Count(ctx context.Context) (int64, error) {
	var count int64
	err := rs.tx.WithContext(ctx).Model(new(T)).Count(&count).Error
	return count, err
}

// Delete removes every record in the set. The soft path is a single atomic
// bulk update setting the deletion flag and timestamp; the hard path
// physically deletes the rows and reports a per-table breakdown.
func (rs *ResultSet[T]) Delete(ctx context.Context, hard bool) (DeleteResult, error) {
	if hard {
		res := rs.tx.WithContext(ctx).
			Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(new(T))
		return DeleteResult{
			Rows:    res.RowsAffected,
			ByTable: map[string]int64{rs.table: res.RowsAffected},
		}, res.Error
	}

	res := rs.tx.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true, SkipHooks: true}).
		Model(new(T)).
		Updates(map[string]interface{}{"is_deleted": true, "deleted_at": time.Now()})
	return DeleteResult{Rows: res.RowsAffected}, res.Error
}

// Restore clears the deletion mark on every record in the set with one bulk
// update. Already-active records pass through harmlessly.
func (rs *ResultSet[T]) Restore(ctx context.Context) (int64, error) {
	res := rs.tx.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true, SkipHooks: true}).
		Model(new(T)).
		Updates(map[string]interface{}{"is_deleted": false, "deleted_at": nil})
	return res.RowsAffected, res.Error
}

// DeleteResult reports the outcome of a delete. ByTable is populated for
// hard deletes; callers deleting dependents alongside a parent merge the
// results to mirror cascading removal.
type DeleteResult struct {
	Rows    int64
	ByTable map[string]int64
}

// Merge folds another result into this one.
func (d *DeleteResult) Merge(other DeleteResult) {
	d.Rows += other.Rows
	if other.ByTable == nil {
		return
	}
	if d.ByTable == nil {
		d.ByTable = make(map[string]int64, len(other.ByTable))
	}
	for table, rows := range other.ByTable {
		d.ByTable[table] += rows
	}
}
