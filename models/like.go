package models

import (
	"time"
)

// Like là quan hệ (user, lesson) dạng bật/tắt: tồn tại = đã thích.
type Like struct {
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	LessonID  uint      `gorm:"primaryKey" json:"lesson_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	User   User   `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Lesson Lesson `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}
