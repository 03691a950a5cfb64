package utils

import "github.com/gin-gonic/gin"

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

// JSONError writes the error envelope. code is machine-readable; fields
// carries per-field messages for validation failures.
func JSONError(c *gin.Context, status int, code, message string, fields map[string]string) {
	body := gin.H{"success": false, "error": message, "code": code}
	if len(fields) > 0 {
		body["fields"] = fields
	}
	c.JSON(status, body)
}
