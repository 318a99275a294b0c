package model

import (
	"fmt"

	"github.com/sirsasha78/AdMarketplace/pkg/slugify"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// uniqueSlug derives a slug from source and, when another row of table
// already owns it, probes numeric suffixes until a free one is found. selfID
// keeps an updated record from colliding with itself. Runs inside the save
// transaction, so concurrent saves serialize on the unique index.
func uniqueSlug(tx *gorm.DB, table, source string, selfID uuid.UUID) (string, error) {
	base := slugify.Make(source)
	if base == "" {
		base = selfID.String()
	}

	slug := base
	for n := 2; ; n++ {
		var count int64
		err := tx.Session(&gorm.Session{NewDB: true}).
			Table(table).
			Where("slug = ? AND id <> ?", slug, selfID).
			Count(&count).Error
		if err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
}
