package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/quizzler-app/quizzler-backend/models"
)

// Config gom toàn bộ biến môi trường, đọc một lần khi khởi động.
// Sau khi Load xong thì bất biến, được truyền vào các handler cần dùng.
type Config struct {
	JWTSecret     string
	JWTIssuer     string
	TokenTTL      time.Duration
	SupabaseURL   string
	SupabaseKey   string
	MaxImageBytes int64
	CacheTTL      time.Duration
}

func Load() *Config {
	cfg := &Config{
		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTIssuer:     os.Getenv("JWT_ISSUER"),
		SupabaseURL:   os.Getenv("SUPABASE_URL"),
		SupabaseKey:   os.Getenv("SUPABASE_KEY"),
		TokenTTL:      7 * 24 * time.Hour,
		MaxImageBytes: 5 << 20, // 5MB mặc định cho ảnh
		CacheTTL:      time.Minute,
	}

	if cfg.JWTSecret == "" {
		log.Fatal("Thiếu biến môi trường JWT_SECRET")
	}
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "quizzler"
	}
	if v := os.Getenv("MAX_IMAGE_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxImageBytes = n
		}
	}
	return cfg
}

var DB *gorm.DB

func InitDB() {
	// Lấy thông tin từ biến môi trường
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	// DSN cho PostgreSQL
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		dbHost, dbUser, dbPass, dbName, dbPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal("Không thể kết nối database:", err)
	}

	DB = db

	// Lấy *sql.DB để config connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Không thể lấy sql.DB từ gorm:", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(DB); err != nil {
		log.Fatal("autoMigrate lỗi: ", err)
	}
	log.Println("postgreSQL connected & migrated successfully!")
}

// Migrate tách riêng để test có thể dùng lại với sqlite in-memory.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Media{},
		&models.Lesson{},
		&models.Flashcard{},
		&models.FlashcardLog{},
		&models.Tag{},
		&models.Like{},
	)
}
