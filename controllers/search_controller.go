package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"github.com/quizzler-app/quizzler-backend/config"
	"github.com/quizzler-app/quizzler-backend/services"
	"github.com/quizzler-app/quizzler-backend/utils"
)

// Cache kết quả tìm kiếm trong thời gian ngắn; key gồm cả requester
// vì kết quả phụ thuộc quyền nhìn thấy bài học private.
func searchCacheKey(kind, query string, requesterID *uint) string {
	id := uint(0)
	if requesterID != nil {
		id = *requesterID
	}
	return fmt.Sprintf("%s:%d:%s", kind, id, strings.ToLower(query))
}

// GET /api/search?q=...
// Query rỗng không bị chặn: không ứng viên nào vượt ngưỡng nên kết quả
// tự nhiên là rỗng.
func Search(db *gorm.DB, cfg *config.Config, cache *gocache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := strings.TrimSpace(c.Query("q"))
		requesterID := utils.RequesterID(c)

		key := searchCacheKey("search", query, requesterID)
		if cached, found := cache.Get(key); found {
			c.JSON(http.StatusOK, cached.(services.CombinedSearchResult))
			return
		}

		result, err := services.Search(db, query, requesterID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi tìm kiếm"})
			return
		}

		cache.Set(key, result, cfg.CacheTTL)
		c.JSON(http.StatusOK, result)
	}
}

// GET /api/search/autocomplete?q=...
func Autocomplete(db *gorm.DB, cfg *config.Config, cache *gocache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := strings.TrimSpace(c.Query("q"))
		requesterID := utils.RequesterID(c)

		key := searchCacheKey("autocomplete", query, requesterID)
		if cached, found := cache.Get(key); found {
			c.JSON(http.StatusOK, gin.H{"suggestions": cached.([]string)})
			return
		}

		suggestions, err := services.Autocomplete(db, query, requesterID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi tìm kiếm"})
			return
		}

		cache.Set(key, suggestions, cfg.CacheTTL)
		c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
	}
}
