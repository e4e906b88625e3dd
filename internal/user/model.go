package user

import (
	"gorm.io/gorm"
)

// User is an account holder. A handful of users, each owning their own
// properties and contracts.
type User struct {
	gorm.Model
	Name         string `json:"name"`
	Email        string `json:"email" gorm:"unique;not null"`
	PasswordHash string `json:"-" gorm:"not null"`
}

// Migrate creates the table in the database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{})
}
