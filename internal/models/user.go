package models

import (
	"gorm.io/gorm"
)

// User represents a rider-side login profile keyed by normalized phone.
// Field naming mirrors the existing database schema.
type User struct {
	gorm.Model

	Phone string `json:"phone" gorm:"column:phone;uniqueIndex;not null"`
	Tries int    `json:"tries" gorm:"column:tries;default:0"`
	Name  string `json:"name,omitempty" gorm:"column:name"`
	Email string `json:"email,omitempty" gorm:"column:email"`
}

// UserProfileUpdate is the body for PUT /api/user/profile
type UserProfileUpdate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
