package utils

import (
	"github.com/gin-gonic/gin"
)

// RequesterID đọc user id do AuthMiddleware/OptionalAuthMiddleware đặt vào
// context và trả về dạng tường minh: nil = chưa đăng nhập.
func RequesterID(c *gin.Context) *uint {
	v, ok := c.Get("user_id")
	if !ok {
		return nil
	}
	id, ok := v.(uint)
	if !ok {
		return nil
	}
	return &id
}
