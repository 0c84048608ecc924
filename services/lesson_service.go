package services

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/quizzler-app/quizzler-backend/models"
)

// Kiểm tra tiêu đề bài học: 1-40 ký tự.
// Đếm theo rune để tiêu đề có dấu tiếng Việt không bị tính sai độ dài.
func IsTitleCorrect(title string) bool {
	n := utf8.RuneCountInString(title)
	return n >= 1 && n <= 40
}

// Mô tả tối đa 150 ký tự (rỗng hợp lệ).
func IsDescriptionCorrect(description string) bool {
	return utf8.RuneCountInString(description) <= 150
}

// TitleExists kiểm tra user đã có bài học trùng tiêu đề chưa.
func TitleExists(db *gorm.DB, ownerID uint, title string) (bool, error) {
	var count int64
	err := db.Model(&models.Lesson{}).
		Where("owner_id = ? AND title = ?", ownerID, title).
		Count(&count).Error
	return count > 0, err
}

// GenerateImageName sinh tên object duy nhất từ tiêu đề + uuid.
func GenerateImageName(title, originalFilename string) string {
	ext := filepath.Ext(originalFilename)
	if ext == "" {
		ext = ".jpeg"
	}
	return fmt.Sprintf("%s-%s%s", slug.Make(title), uuid.NewString(), ext)
}

// SetLessonTags thay toàn bộ tag của bài học: chuẩn hoá chữ thường,
// khử trùng lặp, tạo tag chưa có. Chạy trong transaction của caller.
func SetLessonTags(tx *gorm.DB, lesson *models.Lesson, tagNames []string) error {
	seen := map[string]bool{}
	tags := make([]models.Tag, 0, len(tagNames))
	for _, name := range tagNames {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || len(name) > 50 || seen[name] {
			continue
		}
		seen[name] = true

		var tag models.Tag
		if err := tx.Where("name = ?", name).First(&tag).Error; err != nil {
			if err != gorm.ErrRecordNotFound {
				return err
			}
			tag = models.Tag{Name: name}
			if err := tx.Create(&tag).Error; err != nil {
				return err
			}
		}
		tags = append(tags, tag)
	}
	return tx.Model(lesson).Association("Tags").Replace(tags)
}

// CleanupOrphanTags dọn các tag không còn bài học nào tham chiếu.
// Gọi sau khi cập nhật hoặc xoá bài học.
func CleanupOrphanTags(tx *gorm.DB) error {
	return tx.
		Where("id NOT IN (SELECT tag_id FROM lesson_tags)").
		Delete(&models.Tag{}).Error
}
