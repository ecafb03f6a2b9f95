package repository

import (
	"shortlink-service/internal/model"

	"gorm.io/gorm"
)

// AutoMigrate 建表及索引
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.User{}, &model.ShortLink{}, &model.ClickRecord{})
}
