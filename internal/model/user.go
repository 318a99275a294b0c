package model

import "strings"

// Account types. Every account is either a seller or a buyer; buyers are the
// default.
const (
	AccountTypeSeller = "SELLER"
	AccountTypeBuyer  = "BUYER"
)

// User represents an account on the platform. Email is the login identifier.
// The password is stored only as a bcrypt hash and never serialized.
type User struct {
	BaseModel
	SoftDelete
	Email        string `json:"email" gorm:"type:varchar(254);uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"type:varchar(255)"`
	FirstName    string `json:"first_name" gorm:"type:varchar(150)"`
	LastName     string `json:"last_name" gorm:"type:varchar(150)"`
	PhoneNumber  string `json:"phone_number,omitempty" gorm:"type:varchar(15)"`
	Avatar       string `json:"avatar,omitempty" gorm:"type:varchar(255)"`
	AccountType  string `json:"account_type" gorm:"type:varchar(6);default:'BUYER';index"`
	IsStaff      bool   `json:"is_staff" gorm:"default:false"`
	IsSuperuser  bool   `json:"is_superuser" gorm:"default:false"`
}

// FullName returns the user's presentable name, falling back to the email
// when both name fields are empty.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}
