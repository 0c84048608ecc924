package models

import (
	"time"
)

type Lesson struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	OwnerID       uint      `gorm:"not null;index" json:"owner_id"`
	Owner         User      `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Title         string    `gorm:"size:40;not null" json:"title"`
	Description   *string   `gorm:"size:150" json:"description"`
	IsPublic      bool      `gorm:"not null;default:false" json:"is_public"`
	LessonMediaID *uint     `json:"-"`
	LessonMedia   *Media    `gorm:"foreignKey:LessonMediaID" json:"lesson_media,omitempty"`
	DateCreated   time.Time `gorm:"autoCreateTime" json:"date_created"`

	Flashcards []Flashcard `gorm:"foreignKey:LessonID" json:"flashcards,omitempty"`
	Tags       []Tag       `gorm:"many2many:lesson_tags" json:"tags,omitempty"`
	Likes      []Like      `gorm:"foreignKey:LessonID" json:"-"`
}

// VisibleTo kiểm tra quyền xem: bài học public hoặc thuộc về người yêu cầu.
// requesterID nil nghĩa là chưa đăng nhập.
func (l *Lesson) VisibleTo(requesterID *uint) bool {
	if l.IsPublic {
		return true
	}
	return requesterID != nil && l.OwnerID == *requesterID
}

// OwnedBy kiểm tra quyền sửa/xoá: chỉ chủ sở hữu đã đăng nhập.
func (l *Lesson) OwnedBy(requesterID *uint) bool {
	return requesterID != nil && l.OwnerID == *requesterID
}
