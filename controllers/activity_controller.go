package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/quizzler-app/quizzler-backend/models"
	"github.com/quizzler-app/quizzler-backend/services"
	"github.com/quizzler-app/quizzler-backend/utils"
)

// GET /api/user/activity/flashcardsCreated
// Ngày tạo của các flashcard trong bài học do người dùng sở hữu.
func GetFlashcardsCreated(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requesterID := utils.RequesterID(c)

		var dates []time.Time
		if err := db.Model(&models.Flashcard{}).
			Joins("JOIN lessons ON lessons.id = flashcards.lesson_id").
			Where("lessons.owner_id = ?", *requesterID).
			Order("flashcards.date_created").
			Pluck("flashcards.date_created", &dates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy dữ liệu hoạt động"})
			return
		}
		if dates == nil {
			dates = []time.Time{}
		}

		c.JSON(http.StatusOK, gin.H{"dates": dates})
	}
}

type logEntryDTO struct {
	Date        time.Time `json:"date"`
	FlashcardID uint      `json:"flashcard_id"`
	WasCorrect  bool      `json:"was_correct"`
}

// GET /api/user/activity/logs
func GetActivityLogs(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requesterID := utils.RequesterID(c)

		var logs []models.FlashcardLog
		if err := db.Where("user_id = ?", *requesterID).
			Order("date").
			Find(&logs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy lịch sử học"})
			return
		}

		entries := make([]logEntryDTO, 0, len(logs))
		for _, l := range logs {
			entries = append(entries, logEntryDTO{
				Date:        l.Date,
				FlashcardID: l.FlashcardID,
				WasCorrect:  l.WasCorrect,
			})
		}

		c.JSON(http.StatusOK, gin.H{"logs": entries})
	}
}

// GET /api/user/activity/lastLesson
// Bài học của lần trả lời gần nhất; 404 nếu chưa học lần nào.
func GetLastLesson(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requesterID := utils.RequesterID(c)

		var last models.FlashcardLog
		if err := db.Where("user_id = ?", *requesterID).
			Order("date DESC").
			First(&last).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bạn chưa học bài nào"})
			return
		}

		var lesson models.Lesson
		if err := db.
			Preload("Owner").
			Preload("Tags").
			Preload("Likes").
			Preload("Flashcards").
			Preload("LessonMedia").
			First(&lesson, "id = ?", last.LessonID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy bài học"})
			return
		}
		if !lesson.VisibleTo(requesterID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Bạn không có quyền xem bài học này"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"lesson": services.NewLessonSummary(lesson, requesterID)})
	}
}

// GET /api/user/activity/lastWeek
// Các ngày (không trùng) có trả lời trong 6 ngày gần nhất, kể cả hôm nay.
func GetLastWeekActivity(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requesterID := utils.RequesterID(c)

		since := time.Now().AddDate(0, 0, -6).Truncate(24 * time.Hour)

		var logs []models.FlashcardLog
		if err := db.Where("user_id = ? AND date >= ?", *requesterID, since).
			Order("date").
			Find(&logs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy dữ liệu hoạt động"})
			return
		}

		seen := make(map[string]bool)
		days := []string{}
		for _, l := range logs {
			day := l.Date.Format("2006-01-02")
			if !seen[day] {
				seen[day] = true
				days = append(days, day)
			}
		}

		c.JSON(http.StatusOK, gin.H{"days": days})
	}
}
