// Package repository provides the query entry points for persisted entities.
// A Repository serves plain entities; a SoftDeleteRepository additionally
// hides logically deleted rows from every query unless the caller asks for
// the unfiltered view. Repositories are constructed once at startup with the
// database handle and passed to whatever needs them.
package repository

import (
	"context"

	"gorm.io/gorm"
)

// defaultOrder mirrors the platform-wide listing order: newest first, with
// the identifier as a tiebreaker so point lookups stay deterministic.
const defaultOrder = "created_at DESC, id"

// Repository is the scope-aware query entry point for an entity type.
type Repository[T any] struct {
	db    *gorm.DB
	table string
}

// New builds a repository for T on the given database handle.
func New[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db, table: tableName[T](db)}
}

func tableName[T any](db *gorm.DB) string {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(new(T)); err != nil {
		return ""
	}
	return stmt.Schema.Table
}

// WithTx returns a view of the repository bound to the given transaction.
// Callers composing multi-entity deletes run them on one transaction so a
// failure leaves no partial state.
func (r *Repository[T]) WithTx(tx *gorm.DB) *Repository[T] {
	return &Repository[T]{db: tx, table: r.table}
}

// Create inserts the record.
func (r *Repository[T]) Create(ctx context.Context, rec *T) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// Save persists all fields of the record.
func (r *Repository[T]) Save(ctx context.Context, rec *T) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

// GetOrNone looks up a single record matching the criteria. Absence is not
// an error: the result is (nil, nil). When several records match, the newest
// one wins; the lookup never faults on multiplicity.
func (r *Repository[T]) GetOrNone(ctx context.Context, query string, args ...interface{}) (*T, error) {
	return getOrNone[T](r.db.WithContext(ctx), query, args...)
}

// All returns every record, newest first.
func (r *Repository[T]) All(ctx context.Context) ([]T, error) {
	var recs []T
	err := r.db.WithContext(ctx).Order(defaultOrder).Find(&recs).Error
	return recs, err
}

// Find returns the records matching the criteria, newest first.
func (r *Repository[T]) Find(ctx context.Context, query string, args ...interface{}) ([]T, error) {
	var recs []T
	err := r.db.WithContext(ctx).Where(query, args...).Order(defaultOrder).Find(&recs).Error
	return recs, err
}

// Count returns the number of records matching the criteria.
func (r *Repository[T]) Count(ctx context.Context, query string, args ...interface{}) (int64, error) {
	var count int64
	tx := r.db.WithContext(ctx).Model(new(T))
	if query != "" {
		tx = tx.Where(query, args...)
	}
	err := tx.Count(&count).Error
	return count, err
}

// DeleteOne physically removes the record.
func (r *Repository[T]) DeleteOne(ctx context.Context, rec *T) error {
	return r.db.WithContext(ctx).Delete(rec).Error
}

// DeleteWhere physically removes every record matching the criteria with one
// bulk DELETE and reports the rows removed keyed by table.
func (r *Repository[T]) DeleteWhere(ctx context.Context, query string, args ...interface{}) (DeleteResult, error) {
	res := r.db.WithContext(ctx).Where(query, args...).Delete(new(T))
	return DeleteResult{
		Rows:    res.RowsAffected,
		ByTable: map[string]int64{r.table: res.RowsAffected},
	}, res.Error
}

func getOrNone[T any](tx *gorm.DB, query string, args ...interface{}) (*T, error) {
	if query != "" {
		tx = tx.Where(query, args...)
	}
	var recs []T
	err := tx.Order(defaultOrder).Limit(1).Find(&recs).Error
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return &recs[0], nil
}
