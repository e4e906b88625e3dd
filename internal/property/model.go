package property

import (
	"gorm.io/gorm"
)

// Property is a rental unit owned by a user. Contracts hang off it;
// deleting a property cascades to contracts and their cashflows.
type Property struct {
	gorm.Model
	UserID  uint   `gorm:"not null;index" json:"userId"`
	Name    string `gorm:"size:255;not null" json:"name"`
	Address string `gorm:"size:500" json:"address"`
	City    string `gorm:"size:255" json:"city"`
}

// Migrate creates the table in the database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Property{})
}
