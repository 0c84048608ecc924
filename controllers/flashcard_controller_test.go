package controllers

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/quizzler-app/quizzler-backend/config"
	"github.com/quizzler-app/quizzler-backend/middleware"
	"github.com/quizzler-app/quizzler-backend/models"
)

func flashcardRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	auth := r.Group("", middleware.AuthMiddleware(cfg, db))
	auth.POST("/api/flashcard/add", AddFlashcard(db, cfg))
	auth.PATCH("/api/flashcard/update", UpdateFlashcard(db, cfg))
	return r
}

func postForm(t *testing.T, r *gin.Engine, method, path, bearer string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", bearer)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAddFlashcardRequiresContentPerSide(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	r := flashcardRouter(db, cfg)

	owner := createTestUser(t, db, "chu_bai")
	lesson := models.Lesson{OwnerID: owner.ID, Title: "Bài học", IsPublic: true}
	require.NoError(t, db.Create(&lesson).Error)
	bearer := bearerFor(t, cfg, owner.ID)
	lessonField := fmt.Sprintf("%d", lesson.ID)

	// Thiếu cả text lẫn ảnh ở mặt trả lời: từ chối trước khi đụng tới storage.
	w := postForm(t, r, http.MethodPost, "/api/flashcard/add", bearer, map[string]string{
		"lesson_id":     lessonField,
		"question_text": "Câu hỏi",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Flashcard{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	// Đủ text hai mặt thì tạo được.
	w = postForm(t, r, http.MethodPost, "/api/flashcard/add", bearer, map[string]string{
		"lesson_id":     lessonField,
		"question_text": "Câu hỏi",
		"answer_text":   "Câu trả lời",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestUpdateFlashcardCannotClearOnlyContent(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	r := flashcardRouter(db, cfg)

	owner := createTestUser(t, db, "chu_bai")
	lesson := models.Lesson{OwnerID: owner.ID, Title: "Bài học", IsPublic: true}
	require.NoError(t, db.Create(&lesson).Error)
	card := models.Flashcard{LessonID: lesson.ID, QuestionText: textOf("q"), AnswerText: textOf("a")}
	require.NoError(t, db.Create(&card).Error)
	bearer := bearerFor(t, cfg, owner.ID)

	// Xoá text mặt câu hỏi khi không có ảnh thay thế: bất biến sau cập nhật vỡ.
	w := postForm(t, r, http.MethodPatch, "/api/flashcard/update", bearer, map[string]string{
		"flashcard_id":  fmt.Sprintf("%d", card.ID),
		"question_text": "",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var got models.Flashcard
	require.NoError(t, db.First(&got, "id = ?", card.ID).Error)
	require.NotNil(t, got.QuestionText)
	assert.Equal(t, "q", *got.QuestionText)
}

func TestFlashcardTextLengthCountsRunes(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	r := flashcardRouter(db, cfg)

	owner := createTestUser(t, db, "chu_bai")
	lesson := models.Lesson{OwnerID: owner.ID, Title: "Bài học", IsPublic: true}
	require.NoError(t, db.Create(&lesson).Error)
	bearer := bearerFor(t, cfg, owner.ID)

	// 200 ký tự có dấu (600 byte) vẫn trong giới hạn.
	w := postForm(t, r, http.MethodPost, "/api/flashcard/add", bearer, map[string]string{
		"lesson_id":     fmt.Sprintf("%d", lesson.ID),
		"question_text": strings.Repeat("ậ", 200),
		"answer_text":   "Câu trả lời",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// 201 ký tự thì không.
	w = postForm(t, r, http.MethodPost, "/api/flashcard/add", bearer, map[string]string{
		"lesson_id":     fmt.Sprintf("%d", lesson.ID),
		"question_text": strings.Repeat("ậ", 201),
		"answer_text":   "Câu trả lời",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
