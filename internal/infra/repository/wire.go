package repository

import (
	"github.com/google/wire"
	"gorm.io/gorm"
)

// ProviderSet is the Wire provider set for repositories.
var ProviderSet = wire.NewSet(
	NewRequestGormRepository,
	NewGalleryGormRepository,
	NewGuildGormRepository,
	NewTxManager,
)

// ProvideDB is a provider function for *gorm.DB, used when the database
// needs to be injected separately.
func ProvideDB(db *gorm.DB) *gorm.DB {
	return db
}
