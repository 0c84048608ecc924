package models

import (
	"time"
)

type Media struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UploaderID uint      `gorm:"not null;index" json:"uploader_id"`
	Name       string    `gorm:"size:200;not null" json:"name"`
	URL        string    `gorm:"type:text;not null" json:"url"`
	FileSize   int64     `gorm:"not null" json:"file_size"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}
