package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/quizzler-app/quizzler-backend/models"
)

// GET /api/tag?name=...
// Liệt kê tag, lọc theo substring nếu có tham số name.
func GetTags(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Tag{}).Order("name")
		if name := strings.ToLower(strings.TrimSpace(c.Query("name"))); name != "" {
			query = query.Where("name LIKE ?", "%"+name+"%")
		}

		var tags []models.Tag
		if err := query.Find(&tags).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách tag"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"tags": tags})
	}
}
