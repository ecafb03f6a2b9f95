package model

import (
	"time"
)

// ClickRecord 每次成功跳转记录一条
type ClickRecord struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	ShortLinkID uint      `gorm:"not null;index" json:"shortLinkId"`
	IPAddress   string    `gorm:"size:45" json:"ipAddress"`
	UserAgent   string    `gorm:"type:text" json:"userAgent"`
	Referer     string    `gorm:"type:text" json:"referer"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (ClickRecord) TableName() string {
	return "click_records"
}
