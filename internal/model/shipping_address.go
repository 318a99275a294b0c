package model

import "github.com/google/uuid"

// ShippingAddress is a delivery address owned by a user. One user may keep
// several; they disappear with the account.
type ShippingAddress struct {
	BaseModel
	UserID   uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	User     *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	FullName string    `json:"full_name" gorm:"type:varchar(255);not null"`
	Email    string    `json:"email" gorm:"type:varchar(254);not null"`
	Phone    string    `json:"phone" gorm:"type:varchar(31);not null"`
	Address  string    `json:"address" gorm:"type:varchar(1000);not null"`
	City     string    `json:"city" gorm:"type:varchar(200);not null"`
	Country  string    `json:"country" gorm:"type:varchar(200);not null"`
	Zipcode  string    `json:"zipcode" gorm:"type:varchar(6);not null"`
}
