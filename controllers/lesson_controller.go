package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/quizzler-app/quizzler-backend/config"
	"github.com/quizzler-app/quizzler-backend/models"
	"github.com/quizzler-app/quizzler-backend/services"
	"github.com/quizzler-app/quizzler-backend/utils"
)

func loadLesson(db *gorm.DB, id uint) (*models.Lesson, error) {
	var lesson models.Lesson
	err := db.
		Preload("LessonMedia").
		Preload("Owner.Lessons").
		Preload("Tags").
		Preload("Likes").
		Preload("Flashcards.QuestionMedia").
		Preload("Flashcards.AnswerMedia").
		First(&lesson, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// GET /api/lesson/:id
// Flashcard được xếp theo lịch sử ôn tập của người yêu cầu nếu có,
// chưa học lần nào thì giữ nguyên thứ tự tạo.
func GetLessonByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requesterID := utils.RequesterID(c)

		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID bài học không hợp lệ"})
			return
		}

		lesson, err := loadLesson(db, uint(id))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy bài học"})
			return
		}

		if !lesson.VisibleTo(requesterID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Bạn không có quyền xem bài học này"})
			return
		}

		flashcards := lesson.Flashcards
		if requesterID != nil {
			var logs []models.FlashcardLog
			if err := db.
				Where("user_id = ? AND lesson_id = ?", *requesterID, lesson.ID).
				Find(&logs).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy lịch sử học"})
				return
			}
			if len(logs) > 0 {
				flashcards = services.OrderFlashcards(flashcards, logs)
			}
		}

		c.JSON(http.StatusOK, services.NewLessonDetail(*lesson, requesterID, flashcards))
	}
}

// POST /api/lesson/add
// Multipart form: title, description, is_public, tags[], image.
// Validate hết trong bộ nhớ rồi mới commit một lần.
func AddLesson(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		requesterID := utils.RequesterID(c)

		title := c.PostForm("title")
		description := c.PostForm("description")
		isPublic := c.PostForm("is_public") == "true"
		tagNames := c.PostFormArray("tags")

		if !services.IsTitleCorrect(title) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Tiêu đề phải từ 1 đến 40 ký tự"})
			return
		}
		if !services.IsDescriptionCorrect(description) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Mô tả tối đa 150 ký tự"})
			return
		}
		if exists, err := services.TitleExists(db, *requesterID, title); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi kiểm tra tiêu đề"})
			return
		} else if exists {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Bạn đã có bài học với tiêu đề này"})
			return
		}

		lesson := models.Lesson{
			OwnerID:  *requesterID,
			Title:    title,
			IsPublic: isPublic,
		}
		if description != "" {
			lesson.Description = &description
		}

		// Upload ảnh (nếu có) trước khi mở transaction
		var media *models.Media
		if fileHeader, err := c.FormFile("image"); err == nil {
			if fileHeader.Size > cfg.MaxImageBytes {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Ảnh vượt quá dung lượng cho phép"})
				return
			}
			objectName := services.GenerateImageName(title, fileHeader.Filename)
			url, err := utils.UploadImageToSupabase(cfg, fileHeader, objectName)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi lưu ảnh"})
				return
			}
			media = &models.Media{
				UploaderID: *requesterID,
				Name:       objectName,
				URL:        url,
				FileSize:   fileHeader.Size,
			}
		}

		if err := db.Transaction(func(tx *gorm.DB) error {
			if media != nil {
				if err := tx.Create(media).Error; err != nil {
					return err
				}
				lesson.LessonMediaID = &media.ID
			}
			if err := tx.Create(&lesson).Error; err != nil {
				return err
			}
			return services.SetLessonTags(tx, &lesson, tagNames)
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo bài học"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":   "Tạo bài học thành công",
			"lesson_id": lesson.ID,
		})
	}
}

// PATCH /api/lesson/update
// Trường tuỳ chọn theo 3 trạng thái: không gửi = giữ nguyên,
// gửi rỗng = xoá, gửi giá trị = thay. Dựng tường minh từ form.
func UpdateLesson(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		requesterID := utils.RequesterID(c)

		lessonID, err := strconv.ParseUint(c.PostForm("lesson_id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID bài học không hợp lệ"})
			return
		}

		var lesson models.Lesson
		if err := db.Preload("LessonMedia").First(&lesson, "id = ?", uint(lessonID)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy bài học"})
			return
		}
		if !lesson.OwnedBy(requesterID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Bạn không phải chủ bài học"})
			return
		}

		title := utils.FormField(c.GetPostForm("title"))
		description := utils.FormField(c.GetPostForm("description"))
		isPublic := utils.FormField(c.GetPostForm("is_public"))

		if title.IsNull() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Không thể xoá tiêu đề"})
			return
		}
		if v, ok := title.Get(); ok {
			if !services.IsTitleCorrect(v) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Tiêu đề phải từ 1 đến 40 ký tự"})
				return
			}
			if v != lesson.Title {
				if exists, err := services.TitleExists(db, *requesterID, v); err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi kiểm tra tiêu đề"})
					return
				} else if exists {
					c.JSON(http.StatusBadRequest, gin.H{"error": "Bạn đã có bài học với tiêu đề này"})
					return
				}
			}
			lesson.Title = v
		}

		if description.IsNull() {
			lesson.Description = nil
		} else if v, ok := description.Get(); ok {
			if !services.IsDescriptionCorrect(v) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Mô tả tối đa 150 ký tự"})
				return
			}
			lesson.Description = &v
		}

		if v, ok := isPublic.Get(); ok {
			lesson.IsPublic = v == "true"
		}

		// Ảnh mới: upload trước, object cũ xoá sau khi commit
		var oldImageURL string
		var newMedia *models.Media
		if fileHeader, err := c.FormFile("image"); err == nil {
			if fileHeader.Size > cfg.MaxImageBytes {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Ảnh vượt quá dung lượng cho phép"})
				return
			}
			objectName := services.GenerateImageName(lesson.Title, fileHeader.Filename)
			url, err := utils.UploadImageToSupabase(cfg, fileHeader, objectName)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi lưu ảnh"})
				return
			}
			newMedia = &models.Media{
				UploaderID: *requesterID,
				Name:       objectName,
				URL:        url,
				FileSize:   fileHeader.Size,
			}
			if lesson.LessonMedia != nil {
				oldImageURL = lesson.LessonMedia.URL
			}
		}

		tagNames, tagsPresent := c.GetPostFormArray("tags")

		if err := db.Transaction(func(tx *gorm.DB) error {
			var oldMediaID *uint
			if newMedia != nil {
				if err := tx.Create(newMedia).Error; err != nil {
					return err
				}
				oldMediaID = lesson.LessonMediaID
				lesson.LessonMediaID = &newMedia.ID
				lesson.LessonMedia = newMedia
			}
			if err := tx.Save(&lesson).Error; err != nil {
				return err
			}
			// Dòng media cũ chỉ xoá được sau khi lesson đã trỏ sang media mới
			if oldMediaID != nil {
				if err := tx.Delete(&models.Media{}, "id = ?", *oldMediaID).Error; err != nil {
					return err
				}
			}
			if tagsPresent {
				if err := services.SetLessonTags(tx, &lesson, tagNames); err != nil {
					return err
				}
			}
			return services.CleanupOrphanTags(tx)
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật bài học"})
			return
		}

		if oldImageURL != "" {
			// Xoá object cũ best-effort, lỗi không chặn response
			_ = utils.DeleteFileFromSupabase(cfg, oldImageURL)
		}

		c.JSON(http.StatusOK, gin.H{"message": "Cập nhật bài học thành công"})
	}
}

// DELETE /api/lesson/delete/:id
func DeleteLesson(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		requesterID := utils.RequesterID(c)

		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID bài học không hợp lệ"})
			return
		}

		var lesson models.Lesson
		if err := db.Preload("LessonMedia").First(&lesson, "id = ?", uint(id)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy bài học"})
			return
		}
		if !lesson.OwnedBy(requesterID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Bạn không phải chủ bài học"})
			return
		}

		var imageURL string
		if lesson.LessonMedia != nil {
			imageURL = lesson.LessonMedia.URL
		}

		if err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("lesson_id = ?", lesson.ID).Delete(&models.FlashcardLog{}).Error; err != nil {
				return err
			}
			if err := tx.Where("lesson_id = ?", lesson.ID).Delete(&models.Flashcard{}).Error; err != nil {
				return err
			}
			if err := tx.Where("lesson_id = ?", lesson.ID).Delete(&models.Like{}).Error; err != nil {
				return err
			}
			if err := tx.Model(&lesson).Association("Tags").Clear(); err != nil {
				return err
			}
			if err := tx.Delete(&lesson).Error; err != nil {
				return err
			}
			if lesson.LessonMediaID != nil {
				if err := tx.Delete(&models.Media{}, "id = ?", *lesson.LessonMediaID).Error; err != nil {
					return err
				}
			}
			return services.CleanupOrphanTags(tx)
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xoá bài học"})
			return
		}

		if imageURL != "" {
			_ = utils.DeleteFileFromSupabase(cfg, imageURL)
		}

		c.JSON(http.StatusOK, gin.H{"message": "Đã xoá bài học"})
	}
}

// POST /api/lesson/:id/toggleLike
// Tồn tại = đã thích; gọi lần nữa để bỏ thích. Hai request đồng thời của
// cùng một user vẫn có thể lật like hai lần — chấp nhận, chưa xử lý.
func ToggleLike(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requesterID := utils.RequesterID(c)

		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID bài học không hợp lệ"})
			return
		}

		var lesson models.Lesson
		if err := db.First(&lesson, "id = ?", uint(id)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy bài học"})
			return
		}
		if !lesson.VisibleTo(requesterID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Bạn không có quyền xem bài học này"})
			return
		}

		liked := false
		if err := db.Transaction(func(tx *gorm.DB) error {
			var like models.Like
			err := tx.Where("user_id = ? AND lesson_id = ?", *requesterID, lesson.ID).First(&like).Error
			if err == nil {
				return tx.Delete(&like).Error
			}
			if err != gorm.ErrRecordNotFound {
				return err
			}
			liked = true
			return tx.Create(&models.Like{UserID: *requesterID, LessonID: lesson.ID}).Error
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật lượt thích"})
			return
		}

		var likeCount int64
		db.Model(&models.Like{}).Where("lesson_id = ?", lesson.ID).Count(&likeCount)

		c.JSON(http.StatusOK, gin.H{
			"liked":      liked,
			"like_count": likeCount,
		})
	}
}

// GET /api/lesson/liked — bài học mình đã thích và vẫn còn nhìn thấy được
func GetLikedLessons(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requesterID := utils.RequesterID(c)

		var lessons []models.Lesson
		if err := db.
			Preload("LessonMedia").
			Preload("Owner.Lessons").
			Preload("Flashcards").
			Preload("Tags").
			Preload("Likes").
			Where("id IN (SELECT lesson_id FROM likes WHERE user_id = ?)", *requesterID).
			Where("is_public = ? OR owner_id = ?", true, *requesterID).
			Find(&lessons).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách bài học"})
			return
		}

		result := make([]services.LessonSummary, 0, len(lessons))
		for _, l := range lessons {
			result = append(result, services.NewLessonSummary(l, requesterID))
		}
		c.JSON(http.StatusOK, result)
	}
}
