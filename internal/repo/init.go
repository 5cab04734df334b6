package repo

import (
	"github.com/tradewatch/fxwatch/internal/entity"
	"gorm.io/gorm"
)

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(&entity.Recommendation{}, &entity.Alert{})
}
