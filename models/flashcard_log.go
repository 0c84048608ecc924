package models

import (
	"time"
)

// FlashcardLog ghi lại mỗi lần người dùng trả lời một flashcard khi học.
// Bản ghi chỉ được thêm, không bao giờ sửa hay xoá riêng lẻ (xoá theo cascade).
type FlashcardLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FlashcardID uint      `gorm:"not null;index" json:"flashcard_id"`
	Flashcard   Flashcard `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        User      `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	LessonID    uint      `gorm:"not null;index" json:"lesson_id"`
	WasCorrect  bool      `gorm:"not null" json:"was_correct"`
	Date        time.Time `gorm:"autoCreateTime" json:"date"`
}
