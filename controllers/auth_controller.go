package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/quizzler-app/quizzler-backend/config"
	"github.com/quizzler-app/quizzler-backend/models"
	"github.com/quizzler-app/quizzler-backend/services"
	"github.com/quizzler-app/quizzler-backend/utils"
)

// ====== INPUT STRUCTS ======
type RegisterInput struct {
	Username  string  `json:"username" binding:"required"`
	Email     string  `json:"email" binding:"required"`
	Password  string  `json:"password" binding:"required"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/register
// Kiểm tra trùng trước, validate sau, chỉ ghi DB một lần khi mọi thứ hợp lệ.
func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if exists, err := services.EmailExists(db, input.Email); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi kiểm tra email"})
			return
		} else if exists {
			c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Email %s đã được đăng ký", input.Email)})
			return
		}
		if exists, err := services.UsernameExists(db, input.Username); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi kiểm tra username"})
			return
		} else if exists {
			c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Username %s đã được đăng ký", input.Username)})
			return
		}

		if !services.IsUsernameCorrect(input.Username) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username không hợp lệ"})
			return
		}
		if !services.IsEmailCorrect(input.Email) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Email %s không đúng định dạng", input.Email)})
			return
		}
		if !services.IsPasswordGoodEnough(input.Password) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Mật khẩu phải có ít nhất 8 ký tự"})
			return
		}

		newUser := services.CreateUser(input.Username, input.Email, input.Password, input.FirstName, input.LastName)
		newUser.LastSeen = time.Now()

		if err := db.Create(&newUser).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi tạo người dùng"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Đăng ký thành công",
			"user":    services.NewUserSummary(newUser),
		})
	}
}

// POST /api/auth/login
func Login(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, ok := services.AreCredentialsCorrect(db, input.Email, input.Password)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Email hoặc mật khẩu không đúng"})
			return
		}

		token, err := utils.GenerateToken(cfg, user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo token"})
			return
		}

		db.Model(user).Update("last_seen", time.Now())

		c.JSON(http.StatusOK, gin.H{
			"message": "Đăng nhập thành công",
			"token":   token,
			"user": gin.H{
				"id":       user.ID,
				"username": user.Username,
				"email":    user.Email,
				"avatar":   user.Avatar,
			},
		})
	}
}

// GET /api/auth/check
// Xác nhận token còn hiệu lực, tiện thể cập nhật LastSeen.
func CheckAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requesterID := utils.RequesterID(c)
		if requesterID == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Chưa đăng nhập"})
			return
		}

		if err := db.Model(&models.User{}).
			Where("id = ?", *requesterID).
			Update("last_seen", time.Now()).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật người dùng"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Token hợp lệ"})
	}
}
