package tenant

import "gorm.io/gorm"

// Scope membatasi query ke satu unit organisasi.
func Scope(unitID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("unit_id = ?", unitID)
	}
}
