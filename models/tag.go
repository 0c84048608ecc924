package models

import (
	"time"
)

// Tag luôn được lưu ở dạng chữ thường; tag mồ côi (không còn bài học nào
// tham chiếu) sẽ bị dọn sau khi cập nhật/xoá bài học.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:50;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Lessons []Lesson `gorm:"many2many:lesson_tags" json:"-"`
}
