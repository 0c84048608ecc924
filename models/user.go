package models

import (
	"time"
)

type User struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	Username  string  `gorm:"size:32;uniqueIndex;not null" json:"username"`
	Email     string  `gorm:"size:100;uniqueIndex;not null" json:"email"`
	FirstName *string `gorm:"size:20" json:"first_name"`
	LastName  *string `gorm:"size:20" json:"last_name"`
	Avatar    int     `gorm:"default:1" json:"avatar"`
	// Mật khẩu băm argon2id + salt ngẫu nhiên, không bao giờ trả về client
	PasswordHash   string    `gorm:"type:text;not null" json:"-"`
	Salt           string    `gorm:"size:16;not null" json:"-"`
	DateRegistered time.Time `gorm:"autoCreateTime" json:"date_registered"`
	LastSeen       time.Time `json:"last_seen"`

	// Quan hệ
	Lessons []Lesson       `gorm:"foreignKey:OwnerID" json:"lessons,omitempty"`
	Likes   []Like         `gorm:"foreignKey:UserID" json:"-"`
	Logs    []FlashcardLog `gorm:"foreignKey:UserID" json:"-"`
	Media   []Media        `gorm:"foreignKey:UploaderID" json:"-"`
}
