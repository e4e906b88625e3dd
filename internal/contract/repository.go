package contract

import (
	"gorm.io/gorm"
)

// Repository encapsulates database access for contracts.
type Repository struct {
	DB *gorm.DB
}

// NewRepository creates a new repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// WithDB returns a copy of the repo bound to a specific *gorm.DB (e.g. a tx).
func (r *Repository) WithDB(db *gorm.DB) *Repository {
	if db == nil {
		db = r.DB
	}
	return &Repository{DB: db}
}

// Create inserts a new contract.
func (r *Repository) Create(c *Contract) error {
	return r.DB.Create(c).Error
}

// FindByID returns one contract by its ID.
func (r *Repository) FindByID(id uint) (*Contract, error) {
	var c Contract
	if err := r.DB.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListAll returns every contract, oldest start first.
func (r *Repository) ListAll() ([]Contract, error) {
	var list []Contract
	err := r.DB.Order("start_date ASC").Find(&list).Error
	return list, err
}

// ListByUser returns the contracts owned by one user.
func (r *Repository) ListByUser(userID uint) ([]Contract, error) {
	var list []Contract
	err := r.DB.Where("user_id = ?", userID).Order("start_date ASC").Find(&list).Error
	return list, err
}

// ListByProperty returns the contracts attached to one property.
func (r *Repository) ListByProperty(propertyID uint) ([]Contract, error) {
	var list []Contract
	err := r.DB.Where("property_id = ?", propertyID).Order("start_date ASC").Find(&list).Error
	return list, err
}

// Update saves changes to an existing contract (Save requires the PK).
func (r *Repository) Update(c *Contract) error {
	return r.DB.Save(c).Error
}

// Delete removes a contract and all of its cashflow rows.
func (r *Repository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM cashflows WHERE contract_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&Contract{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
