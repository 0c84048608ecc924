package services

import (
	"net/mail"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/quizzler-app/quizzler-backend/models"
	"github.com/quizzler-app/quizzler-backend/utils"
)

func EmailExists(db *gorm.DB, email string) (bool, error) {
	var count int64
	err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func UsernameExists(db *gorm.DB, username string) (bool, error) {
	var count int64
	err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func IsEmailCorrect(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func IsPasswordGoodEnough(password string) bool {
	return utf8.RuneCountInString(password) >= 8
}

func IsUsernameCorrect(username string) bool {
	n := utf8.RuneCountInString(username)
	return n >= 1 && n <= 32
}

// CreateUser dựng user mới với mật khẩu đã băm; chưa ghi DB,
// caller tự Create để mọi bước validate gộp vào một lần commit.
func CreateUser(username, email, password string, firstName, lastName *string) models.User {
	salt := utils.CreateSalt()
	return models.User{
		Username:     username,
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		Salt:         salt,
		PasswordHash: utils.HashPassword(password, salt),
	}
}

// AreCredentialsCorrect kiểm tra email + mật khẩu, trả về user nếu đúng.
func AreCredentialsCorrect(db *gorm.DB, email, password string) (*models.User, bool) {
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, false
	}
	if !utils.VerifyPassword(password, user.Salt, user.PasswordHash) {
		return nil, false
	}
	return &user, true
}
