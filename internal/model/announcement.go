package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Condition of the announced item.
const (
	ConditionNew  = "NEW"
	ConditionUsed = "USED"
)

// Announcement is a listing offered for sale. Deleting its category removes
// the announcement; deleting the seller only clears the seller reference.
// Announcements are soft-deletable so a withdrawn listing can be restored.
type Announcement struct {
	BaseModel
	SoftDelete
	Title       string          `json:"title" gorm:"type:varchar(255);not null"`
	Slug        string          `json:"slug" gorm:"type:varchar(255);uniqueIndex"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`
	CategoryID  uuid.UUID       `json:"category_id" gorm:"type:uuid;not null;index"`
	Category    *Category       `json:"category,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	SellerID    *uuid.UUID      `json:"seller_id,omitempty" gorm:"type:uuid;index"`
	Seller      *Seller         `json:"seller,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	Condition   string          `json:"condition" gorm:"type:varchar(4);index;not null"`
	Image       string          `json:"image" gorm:"type:varchar(255);not null"`
}

// BeforeSave refreshes the slug from the title on every save.
func (a *Announcement) BeforeSave(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	slug, err := uniqueSlug(tx, "announcements", a.Title, a.ID)
	if err != nil {
		return err
	}
	a.Slug = slug
	return nil
}
