package model

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Seller is the marketplace profile of a user registered to sell. It may
// represent a company or a private person and is linked one-to-one to its
// owning account. IsApproved is flipped by moderation, never by the seller.
type Seller struct {
	BaseModel
	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`
	User        *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CompanyName string    `json:"company_name" gorm:"type:varchar(255)"`
	Name        string    `json:"name" gorm:"type:varchar(255)"`
	Slug        string    `json:"slug" gorm:"type:varchar(255);uniqueIndex"`
	WebsiteURL  string    `json:"website_url,omitempty" gorm:"type:varchar(255)"`
	PhoneNumber string    `json:"phone_number" gorm:"type:varchar(31)"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	IsApproved  bool      `json:"is_approved" gorm:"default:false"`
}

// DisplayName returns the company name, then the personal name, then a
// placeholder derived from the owning user's identifier.
func (s *Seller) DisplayName() string {
	if s.CompanyName != "" {
		return s.CompanyName
	}
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("seller_%s", s.UserID)
}

// BeforeSave refreshes the slug from the display name on every save.
func (s *Seller) BeforeSave(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	slug, err := uniqueSlug(tx, "sellers", s.DisplayName(), s.ID)
	if err != nil {
		return err
	}
	s.Slug = slug
	return nil
}
