package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/quizzler-app/quizzler-backend/config"
	"github.com/quizzler-app/quizzler-backend/middleware"
	"github.com/quizzler-app/quizzler-backend/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret: "test-secret",
		JWTIssuer: "quizzler-test",
		TokenTTL:  time.Hour,
		CacheTTL:  time.Minute,
	}
}

func authRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/auth/register", Register(db))
	r.POST("/api/auth/login", Login(db, cfg))
	r.GET("/api/auth/check", middleware.AuthMiddleware(cfg, db), CheckAuth(db))
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterThenLogin(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	r := authRouter(db, cfg)

	w := postJSON(t, r, "/api/auth/register", gin.H{
		"username": "hocvien",
		"email":    "hocvien@example.com",
		"password": "matkhau123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/api/auth/login", gin.H{
		"email":    "hocvien@example.com",
		"password": "matkhau123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	// Token dùng được ngay cho endpoint cần đăng nhập.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/check", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	r := authRouter(db, testConfig())

	w := postJSON(t, r, "/api/auth/register", gin.H{
		"username": "nguoi_mot",
		"email":    "trung@example.com",
		"password": "matkhau123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Đăng ký lại cùng email: 409 và không có dòng mới nào được ghi.
	w = postJSON(t, r, "/api/auth/register", gin.H{
		"username": "nguoi_hai",
		"email":    "trung@example.com",
		"password": "matkhau123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRegisterValidation(t *testing.T) {
	db := setupTestDB(t)
	r := authRouter(db, testConfig())

	// Mật khẩu quá ngắn.
	w := postJSON(t, r, "/api/auth/register", gin.H{
		"username": "nguoi_moi",
		"email":    "moi@example.com",
		"password": "ngan",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Email sai định dạng.
	w = postJSON(t, r, "/api/auth/register", gin.H{
		"username": "nguoi_moi",
		"email":    "khong-phai-email",
		"password": "matkhau123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestLoginWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	r := authRouter(db, testConfig())

	w := postJSON(t, r, "/api/auth/register", gin.H{
		"username": "hocvien",
		"email":    "hocvien@example.com",
		"password": "matkhau123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/api/auth/login", gin.H{
		"email":    "hocvien@example.com",
		"password": "saimatkhau",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCheckAuthWithoutToken(t *testing.T) {
	db := setupTestDB(t)
	r := authRouter(db, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/check", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
