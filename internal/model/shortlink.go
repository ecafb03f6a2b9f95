package model

import (
	"time"
)

// ShortLink 短链接模型。Shortened 保存完整的短链接地址，全局唯一。
type ShortLink struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"userId"`
	User         *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Name         string    `gorm:"size:50;not null;index" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	OriginalURL  string    `gorm:"size:2048;not null" json:"originalURL"`
	Shortened    string    `gorm:"size:255;uniqueIndex;not null" json:"shortened"`
	ClickedTimes int64     `gorm:"default:0;not null" json:"clickedTimes"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName 指定表名
func (ShortLink) TableName() string {
	return "short_links"
}
