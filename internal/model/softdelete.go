package model

import "time"

// SoftDelete gives an entity logical deletion state: a flag plus the time the
// delete happened. Embed it next to BaseModel. Invariant: the flag is false
// exactly when the timestamp is nil.
type SoftDelete struct {
	IsDeleted bool       `json:"is_deleted" gorm:"default:false;index"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// MarkDeleted moves the record into the deleted state at the given time.
func (s *SoftDelete) MarkDeleted(at time.Time) {
	s.IsDeleted = true
	s.DeletedAt = &at
}

// ClearDeleted moves the record back into the active state.
func (s *SoftDelete) ClearDeleted() {
	s.IsDeleted = false
	s.DeletedAt = nil
}

// Deleted reports whether the record is in the deleted state.
func (s *SoftDelete) Deleted() bool {
	return s.IsDeleted
}

// SoftDeletable is implemented by any entity embedding SoftDelete.
type SoftDeletable interface {
	MarkDeleted(at time.Time)
	ClearDeleted()
	Deleted() bool
}
