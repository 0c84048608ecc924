package services

import (
	"time"

	"github.com/quizzler-app/quizzler-backend/models"
)

// DTO phẳng, không vòng tham chiếu: quan hệ được chiếu sang id/summary
// thay vì trả object graph của gorm ra ngoài.

type UserSummary struct {
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	FirstName   *string   `json:"first_name"`
	LastName    *string   `json:"last_name"`
	Avatar      int       `json:"avatar"`
	LastSeen    time.Time `json:"last_seen"`
	LessonCount int       `json:"lesson_count"`
}

type LessonSummary struct {
	ID             uint        `json:"id"`
	Title          string      `json:"title"`
	Description    *string     `json:"description"`
	ImageURL       string      `json:"image_url,omitempty"`
	IsPublic       bool        `json:"is_public"`
	FlashcardCount int         `json:"flashcard_count"`
	Owner          UserSummary `json:"owner"`
	Tags           []string    `json:"tags"`
	LikeCount      int         `json:"like_count"`
	IsLiked        bool        `json:"is_liked"`
	DateCreated    time.Time   `json:"date_created"`
}

type FlashcardSendDTO struct {
	ID               uint      `json:"id"`
	QuestionText     *string   `json:"question_text"`
	AnswerText       *string   `json:"answer_text"`
	QuestionImageURL string    `json:"question_image_url,omitempty"`
	AnswerImageURL   string    `json:"answer_image_url,omitempty"`
	DateCreated      time.Time `json:"date_created"`
}

type LessonDetail struct {
	ID          uint               `json:"id"`
	Title       string             `json:"title"`
	Description *string            `json:"description"`
	ImageURL    string             `json:"image_url,omitempty"`
	IsPublic    bool               `json:"is_public"`
	DateCreated time.Time          `json:"date_created"`
	Owner       UserSummary        `json:"owner"`
	Tags        []string           `json:"tags"`
	LikeCount   int                `json:"like_count"`
	IsLiked     bool               `json:"is_liked"`
	Flashcards  []FlashcardSendDTO `json:"flashcards"`
}

func NewUserSummary(u models.User) UserSummary {
	return UserSummary{
		ID:          u.ID,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Avatar:      u.Avatar,
		LastSeen:    u.LastSeen,
		LessonCount: len(u.Lessons),
	}
}

func NewLessonSummary(l models.Lesson, requesterID *uint) LessonSummary {
	s := LessonSummary{
		ID:             l.ID,
		Title:          l.Title,
		Description:    l.Description,
		IsPublic:       l.IsPublic,
		FlashcardCount: len(l.Flashcards),
		Owner:          NewUserSummary(l.Owner),
		Tags:           tagNames(l.Tags),
		LikeCount:      len(l.Likes),
		IsLiked:        likedBy(l.Likes, requesterID),
		DateCreated:    l.DateCreated,
	}
	if l.LessonMedia != nil {
		s.ImageURL = l.LessonMedia.URL
	}
	return s
}

func NewFlashcardSendDTO(f models.Flashcard) FlashcardSendDTO {
	dto := FlashcardSendDTO{
		ID:           f.ID,
		QuestionText: f.QuestionText,
		AnswerText:   f.AnswerText,
		DateCreated:  f.DateCreated,
	}
	if f.QuestionMedia != nil {
		dto.QuestionImageURL = f.QuestionMedia.URL
	}
	if f.AnswerMedia != nil {
		dto.AnswerImageURL = f.AnswerMedia.URL
	}
	return dto
}

func NewLessonDetail(l models.Lesson, requesterID *uint, flashcards []models.Flashcard) LessonDetail {
	d := LessonDetail{
		ID:          l.ID,
		Title:       l.Title,
		Description: l.Description,
		IsPublic:    l.IsPublic,
		DateCreated: l.DateCreated,
		Owner:       NewUserSummary(l.Owner),
		Tags:        tagNames(l.Tags),
		LikeCount:   len(l.Likes),
		IsLiked:     likedBy(l.Likes, requesterID),
		Flashcards:  make([]FlashcardSendDTO, 0, len(flashcards)),
	}
	if l.LessonMedia != nil {
		d.ImageURL = l.LessonMedia.URL
	}
	for _, f := range flashcards {
		d.Flashcards = append(d.Flashcards, NewFlashcardSendDTO(f))
	}
	return d
}

func tagNames(tags []models.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}

func likedBy(likes []models.Like, requesterID *uint) bool {
	if requesterID == nil {
		return false
	}
	for _, like := range likes {
		if like.UserID == *requesterID {
			return true
		}
	}
	return false
}
