package migrations

import (
	"gorm.io/gorm"

	cartpostgres "github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/persistence/postgres"
)

// Run applies the schema for the cart bounded context.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&cartpostgres.CartRecord{},
	)
}
