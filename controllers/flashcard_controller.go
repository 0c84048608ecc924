package controllers

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/quizzler-app/quizzler-backend/config"
	"github.com/quizzler-app/quizzler-backend/models"
	"github.com/quizzler-app/quizzler-backend/services"
	"github.com/quizzler-app/quizzler-backend/utils"
)

// uploadFlashcardMedia upload một ảnh đã được validate, trả về Media chưa ghi DB.
func uploadFlashcardMedia(c *gin.Context, cfg *config.Config, fileHeader *multipart.FileHeader, uploaderID uint) (*models.Media, bool) {
	if fileHeader == nil {
		return nil, true // không gửi ảnh
	}
	objectName := services.GenerateImageName("flashcard", fileHeader.Filename)
	url, err := utils.UploadImageToSupabase(cfg, fileHeader, objectName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi lưu ảnh"})
		return nil, false
	}
	return &models.Media{
		UploaderID: uploaderID,
		Name:       objectName,
		URL:        url,
		FileSize:   fileHeader.Size,
	}, true
}

// flashcardImageHeader đọc header ảnh của một mặt, kiểm tra dung lượng
// trước khi upload bất cứ thứ gì.
func flashcardImageHeader(c *gin.Context, cfg *config.Config, field string) (*multipart.FileHeader, bool) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, true
	}
	if fileHeader.Size > cfg.MaxImageBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ảnh vượt quá dung lượng cho phép"})
		return nil, false
	}
	return fileHeader, true
}

// POST /api/flashcard/add
// Mỗi mặt (câu hỏi, câu trả lời) phải có ít nhất text hoặc ảnh.
func AddFlashcard(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		requesterID := utils.RequesterID(c)

		lessonID, err := strconv.ParseUint(c.PostForm("lesson_id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID bài học không hợp lệ"})
			return
		}

		var lesson models.Lesson
		if err := db.First(&lesson, "id = ?", uint(lessonID)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy bài học"})
			return
		}
		if !lesson.OwnedBy(requesterID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Bạn không phải chủ bài học"})
			return
		}

		flashcard := models.Flashcard{LessonID: lesson.ID}
		if v, ok := c.GetPostForm("question_text"); ok && v != "" {
			if utf8.RuneCountInString(v) > 200 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Câu hỏi tối đa 200 ký tự"})
				return
			}
			flashcard.QuestionText = &v
		}
		if v, ok := c.GetPostForm("answer_text"); ok && v != "" {
			if utf8.RuneCountInString(v) > 200 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Câu trả lời tối đa 200 ký tự"})
				return
			}
			flashcard.AnswerText = &v
		}

		questionHeader, ok := flashcardImageHeader(c, cfg, "question_image")
		if !ok {
			return
		}
		answerHeader, ok := flashcardImageHeader(c, cfg, "answer_image")
		if !ok {
			return
		}

		// Bất biến text-hoặc-ảnh kiểm tra TRƯỚC khi upload để request
		// không hợp lệ không để lại object mồ côi trên storage.
		if (flashcard.QuestionText == nil && questionHeader == nil) ||
			(flashcard.AnswerText == nil && answerHeader == nil) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Mỗi mặt flashcard cần có text hoặc ảnh"})
			return
		}

		questionMedia, ok := uploadFlashcardMedia(c, cfg, questionHeader, *requesterID)
		if !ok {
			return
		}
		answerMedia, ok := uploadFlashcardMedia(c, cfg, answerHeader, *requesterID)
		if !ok {
			return
		}

		if err := db.Transaction(func(tx *gorm.DB) error {
			if questionMedia != nil {
				if err := tx.Create(questionMedia).Error; err != nil {
					return err
				}
				flashcard.QuestionMediaID = &questionMedia.ID
			}
			if answerMedia != nil {
				if err := tx.Create(answerMedia).Error; err != nil {
					return err
				}
				flashcard.AnswerMediaID = &answerMedia.ID
			}
			return tx.Create(&flashcard).Error
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo flashcard"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":      "Tạo flashcard thành công",
			"flashcard_id": flashcard.ID,
		})
	}
}

// PATCH /api/flashcard/update
// Text theo 3 trạng thái (không gửi / gửi rỗng để xoá / gửi mới);
// bất biến text-hoặc-ảnh kiểm tra trên trạng thái SAU khi áp thay đổi,
// và trước khi upload ảnh mới.
func UpdateFlashcard(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		requesterID := utils.RequesterID(c)

		flashcardID, err := strconv.ParseUint(c.PostForm("flashcard_id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID flashcard không hợp lệ"})
			return
		}

		var flashcard models.Flashcard
		if err := db.
			Preload("Lesson").
			Preload("QuestionMedia").
			Preload("AnswerMedia").
			First(&flashcard, "id = ?", uint(flashcardID)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy flashcard"})
			return
		}
		if !flashcard.Lesson.OwnedBy(requesterID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Bạn không phải chủ bài học"})
			return
		}

		questionText := utils.FormField(c.GetPostForm("question_text"))
		answerText := utils.FormField(c.GetPostForm("answer_text"))

		if questionText.IsNull() {
			flashcard.QuestionText = nil
		} else if v, ok := questionText.Get(); ok {
			if utf8.RuneCountInString(v) > 200 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Câu hỏi tối đa 200 ký tự"})
				return
			}
			flashcard.QuestionText = &v
		}
		if answerText.IsNull() {
			flashcard.AnswerText = nil
		} else if v, ok := answerText.Get(); ok {
			if utf8.RuneCountInString(v) > 200 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Câu trả lời tối đa 200 ký tự"})
				return
			}
			flashcard.AnswerText = &v
		}

		questionHeader, ok := flashcardImageHeader(c, cfg, "question_image")
		if !ok {
			return
		}
		answerHeader, ok := flashcardImageHeader(c, cfg, "answer_image")
		if !ok {
			return
		}

		// Trạng thái sau cập nhật: text mới + ảnh mới (nếu gửi) hoặc ảnh cũ.
		// Kiểm tra trước khi upload để không để lại object mồ côi.
		questionHasContent := flashcard.QuestionText != nil ||
			questionHeader != nil || flashcard.QuestionMediaID != nil
		answerHasContent := flashcard.AnswerText != nil ||
			answerHeader != nil || flashcard.AnswerMediaID != nil
		if !questionHasContent || !answerHasContent {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Mỗi mặt flashcard cần có text hoặc ảnh sau cập nhật"})
			return
		}

		newQuestionMedia, ok := uploadFlashcardMedia(c, cfg, questionHeader, *requesterID)
		if !ok {
			return
		}
		newAnswerMedia, ok := uploadFlashcardMedia(c, cfg, answerHeader, *requesterID)
		if !ok {
			return
		}

		var oldImageURLs []string

		if err := db.Transaction(func(tx *gorm.DB) error {
			var oldMediaIDs []uint
			if newQuestionMedia != nil {
				if err := tx.Create(newQuestionMedia).Error; err != nil {
					return err
				}
				if flashcard.QuestionMedia != nil {
					oldImageURLs = append(oldImageURLs, flashcard.QuestionMedia.URL)
					oldMediaIDs = append(oldMediaIDs, flashcard.QuestionMedia.ID)
				}
				flashcard.QuestionMediaID = &newQuestionMedia.ID
				flashcard.QuestionMedia = newQuestionMedia
			}
			if newAnswerMedia != nil {
				if err := tx.Create(newAnswerMedia).Error; err != nil {
					return err
				}
				if flashcard.AnswerMedia != nil {
					oldImageURLs = append(oldImageURLs, flashcard.AnswerMedia.URL)
					oldMediaIDs = append(oldMediaIDs, flashcard.AnswerMedia.ID)
				}
				flashcard.AnswerMediaID = &newAnswerMedia.ID
				flashcard.AnswerMedia = newAnswerMedia
			}

			if err := tx.Save(&flashcard).Error; err != nil {
				return err
			}
			// Dòng media cũ chỉ xoá được sau khi flashcard đã trỏ sang media mới
			for _, id := range oldMediaIDs {
				if err := tx.Delete(&models.Media{}, "id = ?", id).Error; err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật flashcard"})
			return
		}

		for _, url := range oldImageURLs {
			_ = utils.DeleteFileFromSupabase(cfg, url)
		}

		c.JSON(http.StatusOK, gin.H{"message": "Cập nhật flashcard thành công"})
	}
}

// DELETE /api/flashcard/delete/:id
func DeleteFlashcard(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		requesterID := utils.RequesterID(c)

		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID flashcard không hợp lệ"})
			return
		}

		var flashcard models.Flashcard
		if err := db.
			Preload("Lesson").
			Preload("QuestionMedia").
			Preload("AnswerMedia").
			First(&flashcard, "id = ?", uint(id)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy flashcard"})
			return
		}
		if !flashcard.Lesson.OwnedBy(requesterID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Bạn không phải chủ bài học"})
			return
		}

		var imageURLs []string
		if flashcard.QuestionMedia != nil {
			imageURLs = append(imageURLs, flashcard.QuestionMedia.URL)
		}
		if flashcard.AnswerMedia != nil {
			imageURLs = append(imageURLs, flashcard.AnswerMedia.URL)
		}

		if err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("flashcard_id = ?", flashcard.ID).Delete(&models.FlashcardLog{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&flashcard).Error; err != nil {
				return err
			}
			if flashcard.QuestionMediaID != nil {
				if err := tx.Delete(&models.Media{}, "id = ?", *flashcard.QuestionMediaID).Error; err != nil {
					return err
				}
			}
			if flashcard.AnswerMediaID != nil {
				if err := tx.Delete(&models.Media{}, "id = ?", *flashcard.AnswerMediaID).Error; err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xoá flashcard"})
			return
		}

		for _, url := range imageURLs {
			_ = utils.DeleteFileFromSupabase(cfg, url)
		}

		c.JSON(http.StatusOK, gin.H{"message": "Đã xoá flashcard"})
	}
}

type FlashcardLogInput struct {
	FlashcardID uint  `json:"flashcard_id" binding:"required"`
	WasCorrect  *bool `json:"was_correct" binding:"required"`
}

// POST /api/flashcard/log
// Ghi một lần trả lời khi học; bản ghi chỉ thêm, không bao giờ sửa.
func LogFlashcardAnswer(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requesterID := utils.RequesterID(c)

		var input FlashcardLogInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var flashcard models.Flashcard
		if err := db.Preload("Lesson").First(&flashcard, "id = ?", input.FlashcardID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy flashcard"})
			return
		}
		if !flashcard.Lesson.VisibleTo(requesterID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Bạn không có quyền xem bài học này"})
			return
		}

		entry := models.FlashcardLog{
			FlashcardID: flashcard.ID,
			LessonID:    flashcard.LessonID,
			UserID:      *requesterID,
			WasCorrect:  *input.WasCorrect,
		}
		if err := db.Create(&entry).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể ghi lịch sử học"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Đã ghi lịch sử học"})
	}
}
