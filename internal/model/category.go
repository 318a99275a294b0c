package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category classifies announcements. Name and slug are unique; the image is
// shown in listings and is required.
type Category struct {
	BaseModel
	Name  string `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
	Slug  string `json:"slug" gorm:"type:varchar(100);uniqueIndex"`
	Image string `json:"image" gorm:"type:varchar(255);not null"`
}

// BeforeSave refreshes the slug from the category name on every save.
func (c *Category) BeforeSave(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	slug, err := uniqueSlug(tx, "categories", c.Name, c.ID)
	if err != nil {
		return err
	}
	c.Slug = slug
	return nil
}
