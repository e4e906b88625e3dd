package property

import (
	"gorm.io/gorm"

	"github.com/patriciomferrari-maker/passive-income-tracker/internal/cashflow"
	"github.com/patriciomferrari-maker/passive-income-tracker/internal/contract"
)

// Repository encapsulates database access for properties.
type Repository struct {
	DB *gorm.DB
}

// NewRepository creates a new repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// Create inserts a new property.
func (r *Repository) Create(p *Property) error {
	return r.DB.Create(p).Error
}

// FindByID returns one property by its ID.
func (r *Repository) FindByID(id uint) (*Property, error) {
	var p Property
	if err := r.DB.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByUser returns the properties owned by one user.
func (r *Repository) ListByUser(userID uint) ([]Property, error) {
	var list []Property
	err := r.DB.Where("user_id = ?", userID).Order("name ASC").Find(&list).Error
	return list, err
}

// Update saves changes to an existing property (Save requires the PK).
func (r *Repository) Update(p *Property) error {
	return r.DB.Save(p).Error
}

// Delete removes a property, its contracts and their cashflow rows in
// one transaction.
func (r *Repository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var contractIDs []uint
		if err := tx.Model(&contract.Contract{}).
			Where("property_id = ?", id).
			Pluck("id", &contractIDs).Error; err != nil {
			return err
		}
		if len(contractIDs) > 0 {
			if err := tx.Where("contract_id IN ?", contractIDs).
				Delete(&cashflow.Cashflow{}).Error; err != nil {
				return err
			}
			if err := tx.Where("property_id = ?", id).
				Delete(&contract.Contract{}).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&Property{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
