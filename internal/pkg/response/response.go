// Package response renders the API's JSON envelope: {"success": true,
// "data": ...} on the happy path, {"success": false, "error": {"code",
// "message"}} otherwise. Handlers never write raw bodies.
package response

import "github.com/gin-gonic/gin"

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

// Error writes the error envelope. code is the stable machine-readable token
// clients switch on; message is for humans and may change.
func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// ErrorWithDetails adds a details field for failures where the caller can
// act on specifics, like field-level validation errors.
func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
