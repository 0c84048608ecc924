package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/quizzler-app/quizzler-backend/models"
	"github.com/quizzler-app/quizzler-backend/services"
	"github.com/quizzler-app/quizzler-backend/utils"
)

type UserProfileDTO struct {
	ID             uint    `json:"id"`
	Username       string  `json:"username"`
	Email          string  `json:"email,omitempty"`
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Avatar         int     `json:"avatar"`
	DateRegistered string  `json:"date_registered"`
	LastSeen       string  `json:"last_seen"`
	LessonCount    int     `json:"lesson_count"`
}

func profileDTO(u models.User, includeEmail bool) UserProfileDTO {
	dto := UserProfileDTO{
		ID:             u.ID,
		Username:       u.Username,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Avatar:         u.Avatar,
		DateRegistered: u.DateRegistered.Format("2006-01-02T15:04:05Z07:00"),
		LastSeen:       u.LastSeen.Format("2006-01-02T15:04:05Z07:00"),
		LessonCount:    len(u.Lessons),
	}
	if includeEmail {
		dto.Email = u.Email
	}
	return dto
}

// GET /api/user/profile
func GetMyProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requesterID := utils.RequesterID(c)

		var user models.User
		if err := db.Preload("Lessons").First(&user, "id = ?", *requesterID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy người dùng"})
			return
		}

		c.JSON(http.StatusOK, profileDTO(user, true))
	}
}

// GET /api/user/:username/profile
func GetUserProfileByUsername(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.Param("username")

		var user models.User
		if err := db.Preload("Lessons").First(&user, "username = ?", username).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy người dùng"})
			return
		}

		c.JSON(http.StatusOK, profileDTO(user, false))
	}
}

type UserUpdateInput struct {
	CurrentPassword string  `json:"current_password" binding:"required"`
	Username        *string `json:"username"`
	Email           *string `json:"email"`
	FirstName       *string `json:"first_name"`
	LastName        *string `json:"last_name"`
	Password        *string `json:"password"`
}

// PATCH /api/user/update
// Mọi thay đổi hồ sơ đều phải kèm mật khẩu hiện tại.
func UpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requesterID := utils.RequesterID(c)

		var input UserUpdateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", *requesterID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy người dùng"})
			return
		}

		if _, ok := services.AreCredentialsCorrect(db, user.Email, input.CurrentPassword); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Mật khẩu hiện tại không đúng"})
			return
		}

		if input.Username != nil && *input.Username != user.Username {
			if !services.IsUsernameCorrect(*input.Username) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Username không hợp lệ"})
				return
			}
			if exists, err := services.UsernameExists(db, *input.Username); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi kiểm tra username"})
				return
			} else if exists {
				c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Username %s đã được đăng ký", *input.Username)})
				return
			}
			user.Username = *input.Username
		}

		if input.Email != nil && *input.Email != user.Email {
			if !services.IsEmailCorrect(*input.Email) {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Email %s không đúng định dạng", *input.Email)})
				return
			}
			if exists, err := services.EmailExists(db, *input.Email); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi kiểm tra email"})
				return
			} else if exists {
				c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Email %s đã được đăng ký", *input.Email)})
				return
			}
			user.Email = *input.Email
		}

		if input.FirstName != nil {
			user.FirstName = input.FirstName
		}
		if input.LastName != nil {
			user.LastName = input.LastName
		}

		if input.Password != nil {
			if !services.IsPasswordGoodEnough(*input.Password) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Mật khẩu phải có ít nhất 8 ký tự"})
				return
			}
			user.PasswordHash = utils.HashPassword(*input.Password, user.Salt)
		}

		if err := db.Save(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật người dùng"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Cập nhật thành công"})
	}
}

type AvatarUpdateInput struct {
	Avatar int `json:"avatar" binding:"required"`
}

// PATCH /api/user/avatar
func UpdateAvatar(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requesterID := utils.RequesterID(c)

		var input AvatarUpdateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := db.Model(&models.User{}).
			Where("id = ?", *requesterID).
			Update("avatar", input.Avatar).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật avatar"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Cập nhật avatar thành công"})
	}
}

type UserDeleteInput struct {
	Password string `json:"password" binding:"required"`
}

// DELETE /api/user/delete
// Xoá user kéo theo bài học, flashcard, log, like (cascade).
func DeleteUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requesterID := utils.RequesterID(c)

		var input UserDeleteInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", *requesterID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy người dùng"})
			return
		}

		if !utils.VerifyPassword(input.Password, user.Salt, user.PasswordHash) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Mật khẩu không đúng"})
			return
		}

		if err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Select("Lessons", "Likes", "Logs").Delete(&user).Error; err != nil {
				return err
			}
			return services.CleanupOrphanTags(tx)
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xoá người dùng"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Đã xoá người dùng"})
	}
}

// GET /api/user/lessons — toàn bộ bài học của chính mình
func GetMyLessons(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requesterID := utils.RequesterID(c)

		var lessons []models.Lesson
		if err := db.
			Preload("LessonMedia").
			Preload("Owner.Lessons").
			Preload("Flashcards").
			Preload("Tags").
			Preload("Likes").
			Where("owner_id = ?", *requesterID).
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

// GET /api/user/:username/lessons — chỉ bài học public của user đó
func GetUserLessonsByUsername(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requesterID := utils.RequesterID(c)
		username := c.Param("username")

		var user models.User
		if err := db.First(&user, "username = ?", username).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy người dùng"})
			return
		}

		var lessons []models.Lesson
		if err := db.
			Preload("LessonMedia").
			Preload("Owner.Lessons").
			Preload("Flashcards").
			Preload("Tags").
			Preload("Likes").
			Where("owner_id = ? AND is_public = ?", user.ID, true).
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
