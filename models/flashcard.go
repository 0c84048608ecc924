package models

import (
	"time"
)

type Flashcard struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	LessonID        uint      `gorm:"not null;index" json:"lesson_id"`
	Lesson          Lesson    `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	QuestionText    *string   `gorm:"size:200" json:"question_text"`
	AnswerText      *string   `gorm:"size:200" json:"answer_text"`
	QuestionMediaID *uint     `json:"-"`
	QuestionMedia   *Media    `gorm:"foreignKey:QuestionMediaID" json:"question_media,omitempty"`
	AnswerMediaID   *uint     `json:"-"`
	AnswerMedia     *Media    `gorm:"foreignKey:AnswerMediaID" json:"answer_media,omitempty"`
	DateCreated     time.Time `gorm:"autoCreateTime" json:"date_created"`
}
